package provider

import (
	"testing"

	"feedback-connector/internal/domain/entities"
)

func assertStrictObject(t *testing.T, schema map[string]interface{}, path string) {
	t.Helper()
	schemaType, _ := schema["type"].(string)
	if schemaType != "object" {
		return
	}
	if ap, ok := schema["additionalProperties"].(bool); !ok || ap {
		t.Errorf("%s: additionalProperties must be false, got %v", path, schema["additionalProperties"])
	}
	properties, _ := schema["properties"].(map[string]interface{})
	required, _ := schema["required"].([]interface{})
	if len(required) != len(properties) {
		t.Errorf("%s: required lists %d of %d properties", path, len(required), len(properties))
	}
	for name, prop := range properties {
		if propMap, ok := prop.(map[string]interface{}); ok {
			assertStrictObject(t, propMap, path+"."+name)
			if items, ok := propMap["items"].(map[string]interface{}); ok {
				assertStrictObject(t, items, path+"."+name+"[]")
			}
		}
	}
}

func TestGenerateSchema_StrictMode(t *testing.T) {
	tests := []struct {
		name   string
		schema map[string]interface{}
	}{
		{"initial analysis", initialAnalysisSchema},
		{"follow-up analysis", followUpAnalysisSchema},
		{"focus areas", focusAreasSchema},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertStrictObject(t, tt.schema, tt.name)
		})
	}
}

func TestGenerateSchema_FollowUpProperties(t *testing.T) {
	properties, ok := followUpAnalysisSchema["properties"].(map[string]interface{})
	if !ok {
		t.Fatal("follow-up schema has no properties map")
	}
	for _, name := range []string{"transcription", "conversationalResponse", "requiresFollowUp", "conversationComplete"} {
		if _, ok := properties[name]; !ok {
			t.Errorf("follow-up schema missing property %q", name)
		}
	}
	// The initial schema must not carry the completion flag; that default is
	// derived from requiresFollowUp instead.
	initialProps, _ := initialAnalysisSchema["properties"].(map[string]interface{})
	if _, ok := initialProps["conversationComplete"]; ok {
		t.Error("initial schema must not include conversationComplete")
	}
}

func TestFormatHistory(t *testing.T) {
	if got := formatHistory(nil); got != "No previous follow-ups yet." {
		t.Errorf("empty history = %q", got)
	}

	turns := []entities.Turn{
		{Role: entities.RoleRespondent, Text: "too slow"},
		{Role: entities.RoleAssistant, Text: "Where do you notice the slowness?"},
	}
	want := "Turn 1 - Respondent: too slow\nTurn 2 - Assistant: Where do you notice the slowness?\n"
	if got := formatHistory(turns); got != want {
		t.Errorf("history = %q, want %q", got, want)
	}
}
