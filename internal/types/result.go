package types

// FactCheckStatus is the overall fact-check status reported to callers
type FactCheckStatus string

const (
	// FactCheckStatusPassed means some fact-check attempt returned PASS
	FactCheckStatusPassed FactCheckStatus = "Passed"
	// FactCheckStatusFailedAfterRetries means every attempt failed; the post is unverified
	FactCheckStatusFailedAfterRetries FactCheckStatus = "Failed after retries"
)

// String returns the wire representation of the status
func (s FactCheckStatus) String() string {
	return string(s)
}

// StatusFor maps the loop's final verdict to a caller-facing status
func StatusFor(passed bool) FactCheckStatus {
	if passed {
		return FactCheckStatusPassed
	}
	return FactCheckStatusFailedAfterRetries
}

// FinalResult is the output of one pipeline run
type FinalResult struct {
	BlogPost        string          `json:"blogPost"`
	FactCheckStatus FactCheckStatus `json:"factCheckStatus"`
}
