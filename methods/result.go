package methods

import (
	"errors"
	"strconv"
	"strings"
)

// Status classifies how a run ended.
type Status int8

const (
	// Converged means the error fell to or below the tolerance.
	Converged Status = iota
	// IterationCapReached means the run used every iteration with the error
	// still above the tolerance. The result holds the best estimate reached.
	IterationCapReached
	// Diverged means a numeric guard stopped the run, e.g. a zero derivative
	// or an iterate outside the domain of the function.
	Diverged
	// InvalidInput means the run could not start because of its inputs, e.g.
	// a bracket without a sign change or a non-numeric field.
	InvalidInput
)

var statusNames = [...]string{
	Converged:           "converged",
	IterationCapReached: "iteration cap reached",
	Diverged:            "diverged",
	InvalidInput:        "invalid input",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
	return statusNames[s]
}

// MarshalText encodes the status as its name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status from its name.
func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if string(text) == name {
			*s = Status(i)
			return nil
		}
	}
	return errors.New("unknown status " + strconv.Quote(string(text)))
}

// OK reports whether the run produced an estimate without a guard tripping.
func (s Status) OK() bool {
	return s == Converged || s == IterationCapReached
}

var (
	// ErrInvalidInput is matched by errors from runs with InvalidInput status.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDiverged is matched by errors from runs with Diverged status.
	ErrDiverged = errors.New("diverged")
)

// RunError describes a run that stopped without an estimate. It matches
// ErrInvalidInput or ErrDiverged according to its status, as well as any
// underlying error.
type RunError struct {
	// Method is the method that was running.
	Method Method
	// Status is InvalidInput or Diverged.
	Status Status
	// Iteration is the iteration at which the run stopped, or 0 if it stopped
	// before the first.
	Iteration int
	// Reason describes the failed check.
	Reason string
	// Err is the underlying error, if any.
	Err error
}

func (err *RunError) Error() string {
	var b strings.Builder
	if err.Method != "" {
		b.WriteString(string(err.Method))
		b.WriteString(": ")
	}
	b.WriteString(err.Status.String())
	if err.Iteration > 0 {
		b.WriteString(" at iteration ")
		b.WriteString(strconv.Itoa(err.Iteration))
	}
	if err.Reason != "" {
		b.WriteString(": ")
		b.WriteString(err.Reason)
	}
	if err.Err != nil {
		b.WriteString(": ")
		b.WriteString(err.Err.Error())
	}
	return b.String()
}

func (err *RunError) Unwrap() []error {
	var r []error
	switch err.Status {
	case InvalidInput:
		r = append(r, ErrInvalidInput)
	case Diverged:
		r = append(r, ErrDiverged)
	}
	if err.Err != nil {
		r = append(r, err.Err)
	}
	return r
}

// Step is a row of an iteration trace.
type Step interface {
	// Row returns the values of the step in the order of the method's
	// columns.
	Row() []float64
}

// Result is the outcome of a run.
type Result[S Step] struct {
	// Root is the estimate of the root. When a run diverges, it is the last
	// point at which f was evaluated, or the initial value.
	Root float64
	// Value is the function value at Root. It is NaN if the function has no
	// value there.
	Value float64
	// Iterations is the number of completed iterations.
	Iterations int
	// Error is the final error measure.
	Error float64
	// Status classifies how the run ended.
	Status Status
	// Steps is the iteration trace, one step per iteration.
	Steps []S
}

// BracketStep is an iteration of Bisect or FalsePosition. A, B, FA, and FB
// describe the bracket the step started from, and Error is its width.
type BracketStep struct {
	Iteration int
	A, B, C   float64
	FA, FB    float64
	FC        float64
	Error     float64
}

func (s BracketStep) Row() []float64 {
	return []float64{float64(s.Iteration), s.A, s.B, s.C, s.FA, s.FB, s.FC, s.Error}
}

// FixedPointStep is an iteration of FixedPoint. GX is the next iterate and FX
// is f evaluated there.
type FixedPointStep struct {
	Iteration int
	X, GX, FX float64
	Error     float64
}

func (s FixedPointStep) Row() []float64 {
	return []float64{float64(s.Iteration), s.X, s.GX, s.FX, s.Error}
}

// NewtonStep is an iteration of Newton.
type NewtonStep struct {
	Iteration int
	X, FX     float64
	DFX       float64
	Next      float64
	Error     float64
}

func (s NewtonStep) Row() []float64 {
	return []float64{float64(s.Iteration), s.X, s.FX, s.DFX, s.Next, s.Error}
}

// ModifiedNewtonStep is an iteration of ModifiedNewton.
type ModifiedNewtonStep struct {
	Iteration int
	X, FX     float64
	DFX, D2FX float64
	Next      float64
	Error     float64
}

func (s ModifiedNewtonStep) Row() []float64 {
	return []float64{float64(s.Iteration), s.X, s.FX, s.DFX, s.D2FX, s.Next, s.Error}
}
