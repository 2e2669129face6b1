package htmlinput

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

// trimRule trims surrounding whitespace.
type trimRule struct{}

func (trimRule) Name() string { return "trim" }
func (trimRule) Apply(value string) (string, error) {
	return strings.TrimSpace(value), nil
}

// registerTrim registers the trim rule once per test binary.
func registerTrim(t *testing.T) {
	t.Helper()
	err := Register("trim", func(string) (Rule, error) { return trimRule{}, nil })
	if err != nil && !errors.Is(err, ErrDuplicateRule) {
		t.Fatalf("Register() error: %v", err)
	}
}

func TestRules_BuiltIn(t *testing.T) {
	names := Rules()
	want := []string{RuleAllowedTags, RuleDisplayLength, RuleDisplayMin, RuleDisplayMax}
	if len(names) < len(want) || !slices.Equal(names[:len(want)], want) {
		t.Errorf("Rules() = %v, want prefix %v", names, want)
	}
}

func TestRegister(t *testing.T) {
	registerTrim(t)

	if _, ok := Lookup("trim"); !ok {
		t.Fatal("Lookup(trim) should find the registered rule")
	}

	r, err := Build("trim", "")
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if out, _ := r.Apply("  x  "); out != "x" {
		t.Errorf("Apply() = %q, want %q", out, "x")
	}
}

func TestRegister_Duplicate(t *testing.T) {
	err := Register(RuleDisplayMax, func(string) (Rule, error) { return nil, nil })
	if !errors.Is(err, ErrDuplicateRule) {
		t.Errorf("Register() error = %v, want ErrDuplicateRule", err)
	}
}

func TestRegister_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		build RuleBuilder
	}{
		{"", func(string) (Rule, error) { return trimRule{}, nil }},
		{"has space", func(string) (Rule, error) { return trimRule{}, nil }},
		{"nobuilder", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Register(tt.name, tt.build); !errors.Is(err, ErrInvalidTag) {
				t.Errorf("Register(%q) error = %v, want ErrInvalidTag", tt.name, err)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    string
		wantErr error
	}{
		{RuleAllowedTags, "p span[style]", RuleAllowedTags, nil},
		{RuleAllowedTags, "a[", "", ErrInvalidPolicy},
		{RuleDisplayLength, "22", RuleDisplayLength, nil},
		{RuleDisplayMin, "8,utf8", RuleDisplayMin, nil},
		{RuleDisplayMax, "0", "", ErrInvalidBound},
		{RuleDisplayMax, "10,utf16", "", ErrInvalidEncoding},
		{"nope", "", "", ErrUnknownRule},
	}

	for _, tt := range tests {
		t.Run(tt.name+":"+tt.arg, func(t *testing.T) {
			r, err := Build(tt.name, tt.arg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Build() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			if r.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", r.Name(), tt.want)
			}
		})
	}
}

// CacheTestPost is used for testing processor caching.
type CacheTestPost struct {
	Body string `json:"body" html.allowedTags:"p"`
}

func (p CacheTestPost) Clone() CacheTestPost { return p }

func TestUse_Caching(t *testing.T) {
	Reset()
	defer Reset()

	p1, err := Use[CacheTestPost](&testCodec{})
	if err != nil {
		t.Fatalf("Use() error: %v", err)
	}

	p2, err := Use[CacheTestPost](&testCodec{})
	if err != nil {
		t.Fatalf("Use() error: %v", err)
	}

	if p1 != p2 {
		t.Error("Use() should return cached processor")
	}
}

func TestUse_DifferentCodecs(t *testing.T) {
	Reset()
	defer Reset()

	p1, _ := Use[CacheTestPost](&testCodec{})
	p2, _ := Use[CacheTestPost](&yamlishCodec{})

	if p1 == p2 {
		t.Error("Use() should return different processors for different codecs")
	}
}

func TestUse_Error(t *testing.T) {
	Reset()
	defer Reset()

	if _, err := Use[InvalidBoundPost](&testCodec{}); !errors.Is(err, ErrInvalidBound) {
		t.Errorf("Use() error = %v, want ErrInvalidBound", err)
	}
}

func TestReset(t *testing.T) {
	Reset()

	p1, _ := Use[CacheTestPost](&testCodec{})
	Reset()
	p2, _ := Use[CacheTestPost](&testCodec{})

	if p1 == p2 {
		t.Error("Reset() should clear the cache")
	}
	Reset()
}
