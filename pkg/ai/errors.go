package ai

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMissingAPIKey indicates no API key is configured for the selected
// provider. No call is attempted in that case.
var ErrMissingAPIKey = errors.New("no api key configured for provider")

// ErrEmptyResponse indicates the provider answered without any content.
var ErrEmptyResponse = errors.New("provider returned an empty response")

// CallError wraps a transport or HTTP failure for one model candidate.
type CallError struct {
	Model string
	Err   error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %v", e.Model, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// FormatError indicates a response that could not be parsed into the
// expected structured payload.
type FormatError struct {
	Model  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Model == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Model, e.Reason)
}

// ChainError aggregates every per-candidate failure of a fallback chain. The
// individual reasons are preserved verbatim for diagnostics and only surfaced
// when the whole chain is exhausted.
type ChainError struct {
	Attempts []string
}

func (e *ChainError) Error() string {
	return strings.Join(e.Attempts, " | ")
}

// TimeoutError reports that the grading-suggestion deadline elapsed before
// any provider settled. It is distinct from ChainError because the
// remediation differs: retry later rather than switch providers.
type TimeoutError struct {
	Deadline time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("generation did not settle within %s", e.Deadline)
}
