package htmlinput

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrInvalidPolicy indicates a sanitization policy has a malformed tag or attribute name.
	ErrInvalidPolicy = errors.New("invalid policy")

	// ErrInvalidBound indicates a length bound is missing, malformed, or not positive.
	ErrInvalidBound = errors.New("invalid bound")

	// ErrInvalidEncoding indicates an encoding other than utf8 was requested.
	ErrInvalidEncoding = errors.New("invalid encoding")

	// ErrInvalidMessage indicates a message template failed to compile.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrInvalidTag indicates a struct tag has an invalid format or value.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrUnknownRule indicates a rule name is not registered.
	ErrUnknownRule = errors.New("unknown rule")

	// ErrDuplicateRule indicates a rule name is already registered.
	ErrDuplicateRule = errors.New("duplicate rule")

	// ErrDisplayLength indicates the display length differs from the expected length.
	ErrDisplayLength = errors.New("display length mismatch")

	// ErrDisplayMin indicates the display length is below the minimum.
	ErrDisplayMin = errors.New("display length below minimum")

	// ErrDisplayMax indicates the display length is above the maximum.
	ErrDisplayMax = errors.New("display length above maximum")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")
)

// ConfigError represents a rule construction error.
// It wraps a sentinel error with the rule, field and offending value.
// Configuration errors are raised once, before any value is validated.
type ConfigError struct {
	Err   error  // Underlying sentinel error (ErrInvalidBound, etc.)
	Rule  string // Rule being constructed
	Field string // Field name that carried the rule, if any
	Value string // Offending argument
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	if e.Value != "" {
		fmt.Fprintf(&b, " %q", e.Value)
	}
	if e.Rule != "" {
		fmt.Fprintf(&b, " for rule %s", e.Rule)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " (field %s)", e.Field)
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ValidationError is the structured failure of a display-length rule.
// Message is rendered from a template; the other fields are the payload
// callers use to render their own text.
type ValidationError struct {
	Err      error    `json:"-"`                  // ErrDisplayLength, ErrDisplayMin or ErrDisplayMax
	Rule     string   `json:"rule"`               // Rule name
	Field    string   `json:"field,omitempty"`    // Field path, set by Processor
	Label    string   `json:"label"`              // Label used in messages
	Bound    int      `json:"bound"`              // Expected bound
	Measured int      `json:"measured"`           // Measured display length
	Encoding Encoding `json:"encoding,omitempty"` // Measurement encoding
	Message  string   `json:"message,omitempty"`  // Rendered message
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	unit := "characters"
	if e.Encoding == EncodingUTF8 {
		unit = "bytes"
	}
	if e.Field != "" {
		return fmt.Sprintf("%s field %s: display length %d %s, bound %d", e.Rule, e.Field, e.Measured, unit, e.Bound)
	}
	return fmt.Sprintf("%s: display length %d %s, bound %d", e.Rule, e.Measured, unit, e.Bound)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Details returns the failure as a language-agnostic payload.
func (e *ValidationError) Details() map[string]any {
	return map[string]any{
		"rule":     e.Rule,
		"field":    e.Field,
		"label":    e.Label,
		"bound":    e.Bound,
		"measured": e.Measured,
		"encoding": string(e.Encoding),
	}
}

// ValidationErrors collects every rule failure for a value or struct.
// It unwraps to each contained error, so errors.Is and errors.As see all of them.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, ve := range e {
		errs[i] = ve
	}
	return errs
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// newConfigError creates a ConfigError for invalid rule arguments.
func newConfigError(sentinel error, rule, value string) *ConfigError {
	return &ConfigError{
		Err:   sentinel,
		Rule:  rule,
		Value: value,
	}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
