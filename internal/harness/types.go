package harness

import "github.com/colesegura/HorizonFrame2-sub000/internal/engine"

// Result is what Run reports for one scenario.
type Result struct {
	Pass bool `json:"pass"`

	// Evaluation is nil when the engine refused the input; ErrorCode then
	// names the runtime error.
	Evaluation *engine.Result `json:"evaluation,omitempty"`
	ErrorCode  string         `json:"error_code,omitempty"`

	// Errors lists failed assertions in declaration order.
	Errors []string `json:"errors,omitempty"`
}

// NewResult returns a passing result with no failures recorded.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError records a failure. One failure fails the scenario.
func (r *Result) AddError(msg string) {
	r.Pass = false
	r.Errors = append(r.Errors, msg)
}
