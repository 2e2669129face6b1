package json

import (
	"strings"
	"testing"
)

type comment struct {
	Author string `json:"author"`
	Body   string `json:"body"`
}

func TestNew(t *testing.T) {
	if New() == nil {
		t.Error("New() should return non-nil codec")
	}
	if Strict() == nil {
		t.Error("Strict() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	for _, c := range []interface{ ContentType() string }{New(), Strict()} {
		if c.ContentType() != "application/json" {
			t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/json")
		}
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	c := New()

	original := comment{Author: "ana", Body: `<p>Hello &amp; <b>welcome</b></p>`}

	data, err := c.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored comment
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if restored != original {
		t.Errorf("round-trip failed: got %+v, want %+v", restored, original)
	}
}

func TestMarshal_MarkupNotEscaped(t *testing.T) {
	c := New()

	data, err := c.Marshal(comment{Body: "<p>a & b</p>"})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	want := `{"author":"","body":"<p>a & b</p>"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestMarshalNil(t *testing.T) {
	c := New()

	data, err := c.Marshal(nil)
	if err != nil {
		t.Fatalf("Marshal(nil) error: %v", err)
	}

	if string(data) != "null" {
		t.Errorf("Marshal(nil) = %q, want %q", data, "null")
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	for _, c := range []struct {
		name string
		fn   func([]byte, any) error
	}{
		{"lenient", New().Unmarshal},
		{"strict", Strict().Unmarshal},
	} {
		t.Run(c.name, func(t *testing.T) {
			var v struct{}
			if err := c.fn([]byte("invalid json"), &v); err == nil {
				t.Error("Unmarshal(invalid) should return error")
			}
		})
	}
}

func TestUnmarshal_UnknownFields(t *testing.T) {
	input := []byte(`{"author":"ana","body":"hi","allowedTag":["p"]}`)

	var lenient comment
	if err := New().Unmarshal(input, &lenient); err != nil {
		t.Errorf("New().Unmarshal() error: %v", err)
	}
	if lenient.Author != "ana" {
		t.Errorf("Author = %q, want %q", lenient.Author, "ana")
	}

	var strict comment
	err := Strict().Unmarshal(input, &strict)
	if err == nil {
		t.Fatal("Strict().Unmarshal() should reject unknown field")
	}
	if !strings.Contains(err.Error(), "allowedTag") {
		t.Errorf("error %q should name the unknown field", err)
	}
}

func TestUnmarshal_StrictTrailingData(t *testing.T) {
	var v comment
	if err := Strict().Unmarshal([]byte(`{"author":"a"} {"author":"b"}`), &v); err == nil {
		t.Error("Strict().Unmarshal() should reject trailing data")
	}
}
