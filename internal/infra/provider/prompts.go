package provider

import (
	"fmt"
	"strings"

	"feedback-connector/internal/domain/entities"
)

const initialAnalysisPrompt = `You are a conversational customer feedback analyst. Your job is to analyze
customer feedback and decide the correct response.

The customer gave a score of %d/10.

Instructions:
1. Use the customer's feedback text exactly as given.
2. Provide a single-word sentiment (e.g., "Positive", "Negative", "Neutral", "Frustrated", "Confused").
3. Extract the key feedback points or action items as a list of short strings.
4. Decide the next step:
   - IF score is 0-6 (detractor): the customer is unhappy. Generate an empathetic
     response that asks a follow-up question to get more detail. Set requiresFollowUp to true.
   - IF score is 7-8 (passive) AND feedback is vague: ask a clarifying question.
     Set requiresFollowUp to true.
   - IF score is 9-10 (promoter) OR score is 7-8 and feedback is clear: just say
     thank you, do not ask a question. Set requiresFollowUp to false.
5. Respond with the requested JSON object only.`

const followUpAnalysisPrompt = `You are continuing a customer feedback conversation. Here is the full context:

Initial feedback:
- Rating: %d/10
- Customer said: "%s"

Conversation history:
%s

The customer is now responding with new feedback.

Instructions:
1. Use the customer's response text exactly as given.
2. Understand it in relation to the ENTIRE conversation history above.
3. Decide:
   - If they provided helpful details and you have enough information:
     acknowledge and thank them. Set conversationComplete to true and requiresFollowUp to false.
   - If you need ONE more specific detail: ask ONE targeted follow-up question.
     Set conversationComplete to false and requiresFollowUp to true.
   - If the response is unclear: politely ask them to clarify.
     Set conversationComplete to false and requiresFollowUp to true.
   - After 3-4 follow-ups, try to close the conversation gracefully even if
     some details are missing.
4. Respond with the requested JSON object only.`

const focusAreasPrompt = `You are a customer feedback analyst. All feedback below comes from customers
with negative or frustrated sentiment. Identify the TOP 3 most important things
the company should focus on to improve customer satisfaction.

Consider frequency of mentions, severity, actionability and urgency.

For each area provide:
- a clear, actionable focus area title (e.g., "Improve Response Time")
- a brief explanation (1-2 sentences) of why it matters based on the feedback

All negative/frustrated customer feedback:

%s

Respond with the requested JSON object only.`

// formatHistory renders the prior turn sequence for the follow-up prompt.
// The full sequence is always serialized, never only the last exchange.
func formatHistory(turns []entities.Turn) string {
	if len(turns) == 0 {
		return "No previous follow-ups yet."
	}
	var sb strings.Builder
	for i, turn := range turns {
		role := "Respondent"
		if turn.Role == entities.RoleAssistant {
			role = "Assistant"
		}
		fmt.Fprintf(&sb, "Turn %d - %s: %s\n", i+1, role, turn.Text)
	}
	return sb.String()
}
