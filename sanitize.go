package htmlinput

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Engine removes disallowed tags and attributes from HTML given a policy.
// Implementations must be safe for concurrent use and must never fail:
// malformed markup is repaired, not rejected.
type Engine interface {
	Sanitize(input string, p *Policy) string
}

// TreeEngine sanitizes by parsing input as an HTML5 body fragment and
// re-serializing the allowed subset of the tree.
//
// Disallowed elements are unwrapped so their children move up to the
// nearest allowed ancestor. Unwrapping can leave allowed elements nested in
// a way the parser would re-nest, such as a p inside a p, so the output is
// re-parsed until it no longer changes. The contents of script, style, textarea,
// option, noscript and the embedding elements are dropped along with the
// element.
type TreeEngine struct{}

// discardContent lists elements whose text is never promoted when the
// element itself is removed.
var discardContent = map[string]bool{
	"script":   true,
	"style":    true,
	"textarea": true,
	"option":   true,
	"noscript": true,
	"iframe":   true,
	"noembed":  true,
	"noframes": true,
}

// maxPasses bounds the re-parse loop in TreeEngine.Sanitize.
const maxPasses = 4

// fragmentContext is the element the input is parsed inside of.
var fragmentContext = &html.Node{
	Type:     html.ElementNode,
	Data:     "body",
	DataAtom: atom.Body,
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;")
)

// Sanitize implements Engine.
func (TreeEngine) Sanitize(input string, p *Policy) string {
	if p == nil {
		p = DefaultPolicy()
	}

	out := sanitizeOnce(input, p)
	for i := 1; i < maxPasses; i++ {
		next := sanitizeOnce(out, p)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func sanitizeOnce(input string, p *Policy) string {
	nodes, err := html.ParseFragment(strings.NewReader(input), fragmentContext)
	if err != nil {
		// Parsing from a strings.Reader does not fail; keep the text inert if it ever does.
		return textEscaper.Replace(input)
	}

	w := newTreeWriter(p)
	for _, n := range nodes {
		w.walk(n)
	}
	return w.buf.String()
}

// treeWriter serializes a parsed fragment under a compiled policy.
type treeWriter struct {
	buf         strings.Builder
	tags        map[string]bool
	attrs       map[string]map[string]bool
	globalAttrs map[string]bool
}

func newTreeWriter(p *Policy) *treeWriter {
	w := &treeWriter{
		tags:  sliceToSet(p.AllowedTags),
		attrs: make(map[string]map[string]bool, len(p.AllowedAttributes)),
	}
	for tag, list := range p.AllowedAttributes {
		if tag == "*" {
			w.globalAttrs = sliceToSet(list)
			continue
		}
		w.attrs[strings.ToLower(tag)] = sliceToSet(list)
	}
	return w
}

func (w *treeWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if n.Parent != nil && rawTextElement(n.Parent.Data) && w.tags[strings.ToLower(n.Parent.Data)] {
			w.buf.WriteString(n.Data)
			return
		}
		w.buf.WriteString(textEscaper.Replace(n.Data))

	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if !w.tags[tag] {
			if discardContent[tag] {
				return
			}
			w.children(n)
			return
		}

		w.buf.WriteByte('<')
		w.buf.WriteString(tag)
		for _, a := range n.Attr {
			if a.Namespace != "" || !w.attrAllowed(tag, a.Key) {
				continue
			}
			w.buf.WriteByte(' ')
			w.buf.WriteString(a.Key)
			w.buf.WriteString(`="`)
			w.buf.WriteString(attrEscaper.Replace(a.Val))
			w.buf.WriteByte('"')
		}
		if isVoidElement(tag) {
			w.buf.WriteString(" />")
			return
		}
		w.buf.WriteByte('>')

		// The parser drops one leading newline in these elements; write it
		// back so a second pass keeps the text intact.
		if leadingNewlineElement(tag) && n.FirstChild != nil &&
			n.FirstChild.Type == html.TextNode && strings.HasPrefix(n.FirstChild.Data, "\n") {
			w.buf.WriteByte('\n')
		}

		w.children(n)
		w.buf.WriteString("</")
		w.buf.WriteString(tag)
		w.buf.WriteByte('>')

	case html.CommentNode, html.DoctypeNode:
		// dropped

	default:
		w.children(n)
	}
}

func (w *treeWriter) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *treeWriter) attrAllowed(tag, key string) bool {
	key = strings.ToLower(key)
	return w.globalAttrs[key] || w.attrs[tag][key]
}

// DecodeEntities replaces HTML5 named entities (including the legacy forms
// without a trailing semicolon) and numeric character references with the
// characters they stand for. Unrecognised sequences are left as they are.
func DecodeEntities(input string) string {
	if !strings.Contains(input, "&") {
		return input
	}
	return html.UnescapeString(input)
}

// defaultEngine is used when no engine is configured.
var defaultEngine Engine = TreeEngine{}

// Sanitize removes tags and attributes p does not allow, using the tree
// engine. A nil policy means DefaultPolicy.
func Sanitize(input string, p *Policy) string {
	return defaultEngine.Sanitize(input, p)
}

func sliceToSet(s []string) map[string]bool {
	m := make(map[string]bool, len(s))
	for _, v := range s {
		m[strings.ToLower(v)] = true
	}
	return m
}

func isVoidElement(tag string) bool {
	switch tag {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}

func leadingNewlineElement(tag string) bool {
	switch tag {
	case "pre", "listing", "textarea":
		return true
	}
	return false
}

// rawTextElement reports whether the parser keeps the element's content
// as unescaped text.
func rawTextElement(tag string) bool {
	switch tag {
	case "script", "style", "xmp", "iframe", "noembed", "noframes", "plaintext":
		return true
	}
	return false
}
