package htmlinput

import (
	"strconv"
	"strings"
)

// Rule is a named unit of validation or transformation applied to a string.
//
// Apply returns the value that flows to the next rule. Transform rules
// return a new value and never fail; predicate rules return the input
// unchanged, or a *ValidationError when it does not hold.
//
// Rules are immutable after construction and safe for concurrent use.
type Rule interface {
	Name() string
	Apply(value string) (string, error)
}

// EngineRule is implemented by rules whose sanitization engine can be
// swapped without rebuilding them.
type EngineRule interface {
	Rule
	WithEngine(e Engine) Rule
}

// allowedTagsRule sanitizes values with a policy.
type allowedTagsRule struct {
	policy *Policy
	engine Engine
}

// AllowedTags returns a transform rule that replaces each value with its
// sanitized form. A nil policy means DefaultPolicy. The policy is validated
// and copied here, so later changes to p have no effect.
func AllowedTags(p *Policy) (Rule, error) {
	if p == nil {
		p = DefaultPolicy()
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &allowedTagsRule{policy: p.Clone(), engine: defaultEngine}, nil
}

func (r *allowedTagsRule) Name() string { return RuleAllowedTags }

func (r *allowedTagsRule) Apply(value string) (string, error) {
	return r.engine.Sanitize(value, r.policy), nil
}

func (r *allowedTagsRule) WithEngine(e Engine) Rule {
	return &allowedTagsRule{policy: r.policy, engine: e}
}

// LengthRule compares the display length of a value against a bound.
type LengthRule struct {
	comparison Comparison
	bound      int
	encoding   Encoding
	engine     Engine
}

// NewLengthRule returns a predicate rule over the display length.
// The bound must be positive and the encoding must be EncodingChars or
// EncodingUTF8; anything else is a *ConfigError.
//
// A bound of zero is rejected, so "must be empty" cannot be expressed with
// these rules.
func NewLengthRule(c Comparison, bound int, enc Encoding) (*LengthRule, error) {
	if !IsValidComparison(c) {
		return nil, newConfigError(ErrUnknownRule, c.String(), strconv.Itoa(int(c)))
	}
	if bound <= 0 {
		return nil, newConfigError(ErrInvalidBound, c.String(), strconv.Itoa(bound))
	}
	if !IsValidEncoding(enc) {
		return nil, newConfigError(ErrInvalidEncoding, c.String(), string(enc))
	}
	return &LengthRule{
		comparison: c,
		bound:      bound,
		encoding:   enc,
		engine:     defaultEngine,
	}, nil
}

// DisplayLength returns a rule requiring the display length to equal bound.
func DisplayLength(bound int, enc ...Encoding) (Rule, error) {
	return newLengthRule(Exact, bound, enc)
}

// DisplayMin returns a rule requiring the display length to be at least bound.
func DisplayMin(bound int, enc ...Encoding) (Rule, error) {
	return newLengthRule(Min, bound, enc)
}

// DisplayMax returns a rule requiring the display length to be at most bound.
func DisplayMax(bound int, enc ...Encoding) (Rule, error) {
	return newLengthRule(Max, bound, enc)
}

func newLengthRule(c Comparison, bound int, enc []Encoding) (Rule, error) {
	var e Encoding
	switch len(enc) {
	case 0:
	case 1:
		e = enc[0]
	default:
		return nil, newConfigError(ErrInvalidEncoding, c.String(), string(enc[1]))
	}
	r, err := NewLengthRule(c, bound, e)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *LengthRule) Name() string { return r.comparison.String() }

// Comparison returns the rule's operator.
func (r *LengthRule) Comparison() Comparison { return r.comparison }

// Bound returns the rule's bound.
func (r *LengthRule) Bound() int { return r.bound }

// Encoding returns the rule's measurement encoding.
func (r *LengthRule) Encoding() Encoding { return r.encoding }

// Measure returns the display length of value under the rule's encoding.
func (r *LengthRule) Measure(value string) int {
	return measure(displayString(r.engine, value), r.encoding)
}

// Apply returns value unchanged, or a *ValidationError when the display
// length does not satisfy the comparison.
func (r *LengthRule) Apply(value string) (string, error) {
	measured := r.Measure(value)
	if r.comparison.holds(measured, r.bound) {
		return value, nil
	}
	return value, &ValidationError{
		Err:      comparisonErrors[r.comparison],
		Rule:     r.Name(),
		Label:    defaultLabel,
		Bound:    r.bound,
		Measured: measured,
		Encoding: r.encoding,
	}
}

func (r *LengthRule) WithEngine(e Engine) Rule {
	clone := *r
	clone.engine = e
	return &clone
}

// Must panics if err is non-nil and returns r otherwise.
// Use it for rules declared in package-level variables.
func Must(r Rule, err error) Rule {
	if err != nil {
		panic(err)
	}
	return r
}

// parseLengthArg parses a display rule argument: "N" or "N,utf8".
func parseLengthArg(c Comparison, arg string) (*LengthRule, error) {
	boundArg, encArg, hasEnc := strings.Cut(arg, ",")
	boundArg = strings.TrimSpace(boundArg)
	bound, err := strconv.Atoi(boundArg)
	if err != nil {
		return nil, newConfigError(ErrInvalidBound, c.String(), boundArg)
	}
	encArg = strings.TrimSpace(encArg)
	if hasEnc && encArg == "" {
		return nil, newConfigError(ErrInvalidEncoding, c.String(), arg)
	}
	return NewLengthRule(c, bound, Encoding(encArg))
}
