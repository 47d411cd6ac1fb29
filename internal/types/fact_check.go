package types

// FactCheckOutcome is the verdict of a single fact-check attempt.
// A zero value is a failure with no feedback; use FactCheckPassed or FactCheckFailed to build one.
type FactCheckOutcome struct {
	Passed   bool   `json:"passed"`
	Feedback string `json:"feedback,omitempty"`
}

// FactCheckPassed returns an outcome for a draft whose claims are all supported
func FactCheckPassed() FactCheckOutcome {
	return FactCheckOutcome{Passed: true}
}

// FactCheckFailed returns an outcome carrying the verifier's raw feedback
func FactCheckFailed(feedback string) FactCheckOutcome {
	return FactCheckOutcome{Passed: false, Feedback: feedback}
}

// Result returns the label recorded in the audit log for this outcome
func (o FactCheckOutcome) Result() string {
	if o.Passed {
		return "PASS"
	}
	return "FAIL"
}
