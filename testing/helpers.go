// Package testing provides fixtures and assertions for code that uses htmlinput.
package testing

import (
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/zoobzio/htmlinput"
)

// Sample inputs shared by tests and benchmarks.
const (
	// SpanMarkup is unchanged by SpanPolicy.
	SpanMarkup = `<p>This is a <span>string</span></p>`

	// DirtyMarkup loses its div and script under SpanPolicy.
	DirtyMarkup = `<div><p>This is <span>bad</span><script>alert('x')</script></p></div>`

	// StyledMarkup has a display length of 22 characters.
	StyledMarkup = `<p>This is an <span style="color:red">html string</span></p>`

	// CopyrightMarkup is 6 characters or 7 UTF-8 bytes long on display.
	CopyrightMarkup = `<p>Test ©</p>`
)

// SpanPolicy allows p and span, with style on span.
func SpanPolicy() *htmlinput.Policy {
	return &htmlinput.Policy{
		AllowedTags:       []string{"p", "span"},
		AllowedAttributes: map[string][]string{"span": {"style"}},
	}
}

// ScriptVectors returns inputs that try to smuggle script past a sanitizer.
func ScriptVectors() []string {
	return []string{
		`<script>alert(1)</script>`,
		`<SCRIPT SRC=//x.example/x.js></SCRIPT>`,
		`<img src=x onerror=alert(1)>`,
		`<a href="javascript:alert(1)" onclick="alert(1)">x</a>`,
		`<svg onload=alert(1)><script>alert(1)</script></svg>`,
		`<p style="x" onmouseover="alert(1)">hover</p>`,
		`<scr<script>ipt>alert(1)</script>`,
		`<iframe src="javascript:alert(1)"></iframe>`,
		`<<b>script>alert(1)<</b>/script>`,
	}
}

// LongMarkup returns n paragraphs of formatted text for benchmarks.
func LongMarkup(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(`<p class="para">Lorem <b>ipsum</b> dolor&nbsp;sit <a href="#x" onclick="x()">amet</a>, `)
		b.WriteString(`caf&eacute; cr&egrave;me <span style="color:red">br&ucirc;l&eacute;e</span>.</p>`)
		b.WriteString(`<script>track()</script>`)
	}
	return b.String()
}

// Article is a test type with a rule on every supported field shape.
type Article struct {
	ID      string            `json:"id" yaml:"id" msgpack:"id" bson:"id"`
	Title   string            `json:"title" yaml:"title" msgpack:"title" bson:"title" html.allowedTags:"none" html.displayMax:"80"`
	Body    string            `json:"body" yaml:"body" msgpack:"body" bson:"body" html.allowedTags:"p span[style] a[href]" html.displayMin:"5"`
	Summary string            `json:"summary" yaml:"summary" msgpack:"summary" bson:"summary" html.displayMax:"140,utf8"`
	Tags    []string          `json:"tags" yaml:"tags" msgpack:"tags" bson:"tags" html.allowedTags:"none"`
	Labels  map[string]string `json:"labels" yaml:"labels" msgpack:"labels" bson:"labels" html.allowedTags:"b i"`
}

// Clone implements Cloner[Article].
func (a Article) Clone() Article {
	clone := a
	clone.Tags = slices.Clone(a.Tags)
	clone.Labels = maps.Clone(a.Labels)
	return clone
}

// DirtyArticle returns an Article whose tagged fields all need sanitizing.
func DirtyArticle() *Article {
	return &Article{
		ID:      "a-1",
		Title:   `<h1>Release <i>notes</i></h1>`,
		Body:    DirtyMarkup,
		Summary: "Caf&eacute; &amp; cr&egrave;me",
		Tags:    []string{"<b>go</b>", "html"},
		Labels:  map[string]string{"status": "<b>draft</b><script>x</script>"},
	}
}

// CleanArticle is DirtyArticle after sanitizing.
func CleanArticle() *Article {
	return &Article{
		ID:      "a-1",
		Title:   "Release notes",
		Body:    `<p>This is <span>bad</span></p>`,
		Summary: "Caf&eacute; &amp; cr&egrave;me",
		Tags:    []string{"go", "html"},
		Labels:  map[string]string{"status": "<b>draft</b>"},
	}
}

// AssertArticle fails t when got differs from want.
func AssertArticle(t testing.TB, got, want *Article) {
	t.Helper()
	if got == nil {
		t.Fatal("article is nil")
	}
	if got.ID != want.ID || got.Title != want.Title || got.Body != want.Body || got.Summary != want.Summary {
		t.Errorf("article = %+v, want %+v", got, want)
	}
	if !slices.Equal(got.Tags, want.Tags) {
		t.Errorf("Tags = %v, want %v", got.Tags, want.Tags)
	}
	if !maps.Equal(got.Labels, want.Labels) {
		t.Errorf("Labels = %v, want %v", got.Labels, want.Labels)
	}
}

// AssertIdempotent fails t when sanitizing input twice differs from once.
func AssertIdempotent(t testing.TB, e htmlinput.Engine, p *htmlinput.Policy, input string) {
	t.Helper()
	once := e.Sanitize(input, p)
	if twice := e.Sanitize(once, p); twice != once {
		t.Errorf("not idempotent for %q:\n once  %q\n twice %q", input, once, twice)
	}
}

// AssertNoScript fails t when output could still run script.
func AssertNoScript(t testing.TB, output string) {
	t.Helper()
	lower := strings.ToLower(output)
	for _, needle := range []string{"<script", "<iframe", "<svg", "javascript:", " onerror", " onclick", " onload", " onmouseover"} {
		if strings.Contains(lower, needle) {
			t.Errorf("output contains %q: %q", needle, output)
		}
	}
}
