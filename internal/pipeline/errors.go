package pipeline

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrEmptyPRD is returned when a run is requested without a PRD
var ErrEmptyPRD = errors.New("prd is required")

// MalformedResponseError means a stage returned output that cannot be used
type MalformedResponseError struct {
	Stage   string
	Content string
	Cause   error
}

// maxContentInError caps how much of the offending output appears in Error()
const maxContentInError = 200

func (e *MalformedResponseError) Error() string {
	content := truncateContent(e.Content, maxContentInError)
	if e.Cause != nil {
		return fmt.Sprintf("malformed %s response: %v (content: %q)", e.Stage, e.Cause, content)
	}
	return fmt.Sprintf("malformed %s response (content: %q)", e.Stage, content)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// truncateContent cuts s to at most limit bytes without splitting a rune
func truncateContent(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
