package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel conditions surfaced to handlers so the UI can distinguish
// "no feedback exists yet" from "no feedback in this date range".
var (
	ErrNoData               = errors.New("no saved conversations found")
	ErrNoDataForWindow      = errors.New("no conversations found for the selected timeframe")
	ErrNoQualifyingFeedback = errors.New("no negative or frustrated feedback found in the selected timeframe")

	// ErrSubmissionInFlight rejects a second submit for the same conversation
	// while one is still awaiting the AI collaborator.
	ErrSubmissionInFlight = errors.New("a submission for this conversation is already being processed")
)

// ValidationError is rejected locally and never reaches the AI collaborator.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func NewValidation(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// TransientUpstreamError marks an AI collaborator failure (unreachable,
// timeout, malformed reply). The conversation keeps its last confirmed turn
// and the same submission may be retried.
type TransientUpstreamError struct {
	Op  string
	Err error
}

func (e *TransientUpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientUpstreamError) Unwrap() error {
	return e.Err
}

func NewTransient(op string, err error) error {
	return &TransientUpstreamError{Op: op, Err: err}
}

func IsTransient(err error) bool {
	var te *TransientUpstreamError
	return errors.As(err, &te)
}
