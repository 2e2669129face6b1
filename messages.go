package htmlinput

import (
	"maps"
	"strings"
	"text/template"
)

// defaultLabel names a value when no field label is known.
const defaultLabel = "value"

// defaultMessageText holds the built-in message template for each rule.
var defaultMessageText = map[string]string{
	RuleDisplayLength: `"{{.Label}}" length must be {{.Bound}} characters long`,
	RuleDisplayMin:    `"{{.Label}}" length must be at least {{.Bound}} characters long`,
	RuleDisplayMax:    `"{{.Label}}" length must be less than or equal to {{.Bound}} characters long`,
}

// Messages renders validation failures as text.
//
// Templates are text/template sources executed against the *ValidationError,
// so .Label, .Field, .Rule, .Bound, .Measured and .Encoding are available.
// A Messages value is immutable and safe for concurrent use.
type Messages struct {
	templates map[string]*template.Template
}

// defaultMessages is compiled once from defaultMessageText.
var defaultMessages = mustMessages(nil)

// DefaultMessages returns the built-in message set.
func DefaultMessages() *Messages {
	return defaultMessages
}

// NewMessages compiles the built-in templates with overrides applied on top.
// Keys are rule names. A template that fails to parse is a *ConfigError
// wrapping ErrInvalidMessage.
func NewMessages(overrides map[string]string) (*Messages, error) {
	text := maps.Clone(defaultMessageText)
	maps.Copy(text, overrides)

	m := &Messages{templates: make(map[string]*template.Template, len(text))}
	for rule, src := range text {
		tmpl, err := template.New(rule).Option("missingkey=error").Parse(src)
		if err != nil {
			return nil, &ConfigError{Err: ErrInvalidMessage, Rule: rule, Value: src}
		}
		m.templates[rule] = tmpl
	}
	return m, nil
}

func mustMessages(overrides map[string]string) *Messages {
	m, err := NewMessages(overrides)
	if err != nil {
		panic(err)
	}
	return m
}

// Render returns the message for ve. Rules without a template, and
// templates that fail to execute, fall back to the error's own text.
func (m *Messages) Render(ve *ValidationError) string {
	tmpl, ok := m.templates[ve.Rule]
	if !ok {
		return fallbackMessage(ve)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, ve); err != nil {
		return fallbackMessage(ve)
	}
	return b.String()
}

// fallbackMessage renders ve without its Message so Error() cannot recurse.
func fallbackMessage(ve *ValidationError) string {
	plain := *ve
	plain.Message = ""
	return plain.Error()
}

// label fills the label and message of every failure in errs.
func (m *Messages) label(errs ValidationErrors, label string) {
	for _, ve := range errs {
		ve.Label = label
		ve.Message = m.Render(ve)
	}
}
