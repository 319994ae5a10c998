package model

import "strings"

// Code is a value from the closed diagnostic vocabulary in spec §4.A.
type Code string

const (
	CodeExpectedBoolean    Code = "ExpectedBoolean"
	CodeExpectedNumber     Code = "ExpectedNumber"
	CodeExpectedString     Code = "ExpectedString"
	CodeExpectedObject     Code = "ExpectedObject"
	CodeExpectedArray      Code = "ExpectedArray"
	CodeInvalidValue       Code = "InvalidValue"
	CodeOutOfRange         Code = "OutOfRange"
	CodeLengthConstraint   Code = "LengthConstraint"
	CodeUnexpectedProperty Code = "UnexpectedProperty"
	CodeMissingProperty    Code = "MissingProperty"
	CodeNoAccess           Code = "NoAccess"
	CodeInvalidFormat      Code = "InvalidFormat"
	CodePatternMismatch    Code = "PatternMismatch"
)

// Diagnostic is a single validation finding: a closed-vocabulary code bound
// to a dotted field path (array indices rendered as "[n]").
type Diagnostic struct {
	Code    Code
	Path    string
	Message string
}

// Accumulator collects diagnostics the way jsonschema.ValidateCtx collects
// jsonschema.Error in the teacher: AddError/Add append, Clone forks a
// scratch accumulator whose errors are folded in (Adopt) only if the
// caller decides they matter.
type Accumulator struct {
	errs     []Diagnostic
	FailFast bool
}

// NewAccumulator returns an Accumulator in fail-fast or accumulate mode.
func NewAccumulator(failFast bool) *Accumulator {
	return &Accumulator{FailFast: failFast}
}

// firstError is returned by AddError in fail-fast mode so callers that walk
// the schema depth-first can abort immediately instead of polling Errors().
type firstError struct{ d Diagnostic }

func (f *firstError) Error() string {
	return f.d.Path + ": " + string(f.d.Code) + " " + f.d.Message
}

// AddError records a diagnostic. In fail-fast mode it returns a non-nil
// error the caller must propagate to stop the walk immediately; in
// accumulate mode it always returns nil and the diagnostic is appended for
// later retrieval via Errors.
func (a *Accumulator) AddError(d Diagnostic) error {
	a.errs = append(a.errs, d)
	if a.FailFast {
		return &firstError{d: d}
	}
	return nil
}

// Add is a convenience wrapper building a Diagnostic inline.
func (a *Accumulator) Add(path string, code Code, message string) error {
	return a.AddError(Diagnostic{Path: path, Code: code, Message: message})
}

// Errors returns the diagnostics collected so far, in depth-first
// declaration order (the order callers appended them).
func (a *Accumulator) Errors() []Diagnostic {
	return a.errs
}

// Clone forks a scratch accumulator sharing FailFast but with no errors,
// for a speculative branch whose failures should not leak into the
// parent unless adopted. No validation path in this package calls it.
func (a *Accumulator) Clone() *Accumulator {
	return &Accumulator{FailFast: a.FailFast}
}

// Adopt appends another accumulator's diagnostics onto this one.
func (a *Accumulator) Adopt(other *Accumulator) {
	a.errs = append(a.errs, other.errs...)
}

// SchemaError is the carrier thrown by Process on validation failure. It
// corresponds to spec §4.A / §6's SchemaError: "errors", each with a code
// and a path.
type SchemaError struct {
	Errors []Diagnostic
}

func (e *SchemaError) Error() string {
	var sb strings.Builder
	for i, d := range e.Errors {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(d.Path)
		sb.WriteString(": ")
		sb.WriteString(string(d.Code))
		if d.Message != "" {
			sb.WriteString(" (")
			sb.WriteString(d.Message)
			sb.WriteString(")")
		}
	}
	return sb.String()
}

// JoinPath appends a field name to a dotted path, escaping a literal
// leading "$" back to "\$" per spec §3's field-name escaping rule.
func JoinPath(parent, field string) string {
	if parent == "" {
		return escapeFieldName(field)
	}
	return parent + "." + escapeFieldName(field)
}

// IndexPath appends an array index segment "[n]" to a path.
func IndexPath(parent string, idx int) string {
	return parent + "[" + itoa(idx) + "]"
}

func escapeFieldName(name string) string {
	if len(name) > 0 && name[0] == '$' {
		return "\\" + name
	}
	return name
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
