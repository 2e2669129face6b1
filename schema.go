package htmlinput

import "errors"

// Schema is an ordered chain of rules applied to a single string.
//
// Each rule sees the value produced by the rule before it, so a transform
// such as AllowedTags placed first changes what later rules measure.
// Predicate failures do not stop the chain; every failure is reported.
type Schema struct {
	label    string
	rules    []Rule
	messages *Messages
}

// NewSchema returns a schema with the given label and rules. An empty label
// renders as "value" in messages.
func NewSchema(label string, rules ...Rule) *Schema {
	if label == "" {
		label = defaultLabel
	}
	return &Schema{
		label:    label,
		rules:    append([]Rule(nil), rules...),
		messages: DefaultMessages(),
	}
}

// WithMessages returns a copy of the schema that renders failures with m.
// A nil m restores DefaultMessages.
func (s *Schema) WithMessages(m *Messages) *Schema {
	if m == nil {
		m = DefaultMessages()
	}
	clone := *s
	clone.messages = m
	return &clone
}

// WithEngine returns a copy of the schema whose sanitizing rules use e.
func (s *Schema) WithEngine(e Engine) *Schema {
	clone := *s
	clone.rules = make([]Rule, len(s.rules))
	for i, r := range s.rules {
		if er, ok := r.(EngineRule); ok {
			clone.rules[i] = er.WithEngine(e)
			continue
		}
		clone.rules[i] = r
	}
	return &clone
}

// Rules returns the schema's rules in evaluation order.
func (s *Schema) Rules() []Rule {
	return append([]Rule(nil), s.rules...)
}

// Validate runs every rule against value and returns the resulting value.
// When any predicate fails the error is ValidationErrors; the returned value
// is still the output of the chain.
func (s *Schema) Validate(value string) (string, error) {
	out, errs, err := applyRules(s.rules, value)
	if err != nil {
		return out, err
	}
	if len(errs) == 0 {
		return out, nil
	}
	s.messages.label(errs, s.label)
	return out, errs
}

// applyRules runs rules in order, collecting validation failures. Any other
// error a custom rule returns stops the chain.
func applyRules(rules []Rule, value string) (string, ValidationErrors, error) {
	var errs ValidationErrors
	for _, r := range rules {
		next, err := r.Apply(value)
		if err != nil {
			var ve *ValidationError
			if !errors.As(err, &ve) {
				return value, errs, err
			}
			errs = append(errs, ve)
		}
		value = next
	}
	return value, errs, nil
}
