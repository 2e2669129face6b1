package htmlinput

import (
	"reflect"
	"sync"

	"github.com/zoobzio/sentinel"
)

// TagPrefix starts every struct tag key the Processor reads:
// `html.displayMax:"140"` carries the displayMax rule.
const TagPrefix = "html."

// RuleBuilder constructs a rule from its tag argument. It is called once per
// field when a Processor is built, so argument errors surface before any
// value is validated.
type RuleBuilder func(arg string) (Rule, error)

// definition is a registered rule.
type definition struct {
	name  string
	build RuleBuilder
}

var (
	definitions []definition
	defIndex    = make(map[string]int)
	defMu       sync.RWMutex
)

func init() {
	mustRegister(RuleAllowedTags, func(arg string) (Rule, error) {
		p, err := ParsePolicySpec(arg)
		if err != nil {
			return nil, err
		}
		return AllowedTags(p)
	})
	for _, c := range []Comparison{Exact, Min, Max} {
		mustRegister(c.String(), func(arg string) (Rule, error) {
			r, err := parseLengthArg(c, arg)
			if err != nil {
				return nil, err
			}
			return r, nil
		})
	}
}

// Register adds a named rule. Rules apply to a field in registration order,
// so the built-in allowedTags transform runs before the display rules.
// Register rules before building processors for types that use them.
func Register(name string, build RuleBuilder) error {
	if !isName(name) || build == nil {
		return newConfigError(ErrInvalidTag, name, name)
	}

	defMu.Lock()
	defer defMu.Unlock()

	if _, ok := defIndex[name]; ok {
		return newConfigError(ErrDuplicateRule, name, name)
	}
	defIndex[name] = len(definitions)
	definitions = append(definitions, definition{name: name, build: build})
	sentinel.Tag(TagPrefix + name)
	return nil
}

func mustRegister(name string, build RuleBuilder) {
	if err := Register(name, build); err != nil {
		panic(err)
	}
}

// Lookup returns the builder registered under name.
func Lookup(name string) (RuleBuilder, bool) {
	defMu.RLock()
	defer defMu.RUnlock()
	i, ok := defIndex[name]
	if !ok {
		return nil, false
	}
	return definitions[i].build, true
}

// Build constructs the named rule from its argument.
func Build(name, arg string) (Rule, error) {
	build, ok := Lookup(name)
	if !ok {
		return nil, newConfigError(ErrUnknownRule, name, name)
	}
	return build(arg)
}

// Rules returns the registered rule names in registration order.
func Rules() []string {
	defMu.RLock()
	defer defMu.RUnlock()
	names := make([]string, len(definitions))
	for i, d := range definitions {
		names[i] = d.name
	}
	return names
}

// registryKey combines type and codec for cache lookup.
type registryKey struct {
	typ         reflect.Type
	contentType string
}

var (
	registry   = make(map[registryKey]any)
	registryMu sync.RWMutex
)

// Use returns a cached processor or builds a new one.
// The processor is cached by type and codec content type.
// T must implement Cloner[T].
func Use[T Cloner[T]](codec Codec) (*Processor[T], error) {
	typ := reflect.TypeFor[T]()
	key := registryKey{typ: typ, contentType: codec.ContentType()}

	// Fast path: read-lock cache check
	registryMu.RLock()
	if cached, ok := registry[key]; ok {
		registryMu.RUnlock()
		return cached.(*Processor[T]), nil
	}
	registryMu.RUnlock()

	// Slow path: build and cache with write-lock
	registryMu.Lock()
	defer registryMu.Unlock()

	// Double-check pattern
	if cached, ok := registry[key]; ok {
		return cached.(*Processor[T]), nil
	}

	processor, err := NewProcessor[T](codec)
	if err != nil {
		return nil, err
	}

	registry[key] = processor
	return processor, nil
}

// Reset clears the processor registry.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[registryKey]any)
}
