package htmlinput

import (
	"slices"
	"sort"
	"strings"
)

// Policy is a tag and attribute allow-list.
//
// An empty AllowedTags strips all markup. AllowedAttributes maps a tag name
// to the attributes kept on that tag; the "*" key applies to every allowed
// tag. Policies should not be mutated after first use.
type Policy struct {
	AllowedTags       []string            `json:"allowedTags" yaml:"allowedTags" xml:"allowedTags>tag" msgpack:"allowedTags" bson:"allowedTags"`
	AllowedAttributes map[string][]string `json:"allowedAttributes" yaml:"allowedAttributes" xml:"-" msgpack:"allowedAttributes" bson:"allowedAttributes"`
}

// defaultTags is the allow-list used when no policy is supplied.
var defaultTags = [...]string{
	"h3", "h4", "h5", "h6",
	"blockquote", "p", "a", "ul", "ol", "nl", "li",
	"b", "i", "strong", "em", "strike", "code", "hr", "br",
	"div", "table", "thead", "caption", "tbody", "tr", "th", "td", "pre",
}

// DefaultPolicy returns a copy of the built-in policy: common block and
// inline formatting tags with no attributes. Script, style, span and
// anything else not listed is removed.
func DefaultPolicy() *Policy {
	return &Policy{
		AllowedTags:       slices.Clone(defaultTags[:]),
		AllowedAttributes: map[string][]string{},
	}
}

// StripAll returns a policy that removes every tag, leaving text only.
func StripAll() *Policy {
	return &Policy{
		AllowedTags:       []string{},
		AllowedAttributes: map[string][]string{},
	}
}

// Clone returns a deep copy of the policy.
func (p *Policy) Clone() *Policy {
	if p == nil {
		return nil
	}
	clone := &Policy{
		AllowedTags:       slices.Clone(p.AllowedTags),
		AllowedAttributes: make(map[string][]string, len(p.AllowedAttributes)),
	}
	for tag, attrs := range p.AllowedAttributes {
		clone.AllowedAttributes[tag] = slices.Clone(attrs)
	}
	return clone
}

// Validate checks that every tag and attribute name is well formed.
func (p *Policy) Validate() error {
	if p == nil {
		return nil
	}
	for _, tag := range p.AllowedTags {
		if !isName(tag) {
			return newConfigError(ErrInvalidPolicy, RuleAllowedTags, tag)
		}
	}
	for tag, attrs := range p.AllowedAttributes {
		if tag != "*" && !isName(tag) {
			return newConfigError(ErrInvalidPolicy, RuleAllowedTags, tag)
		}
		for _, attr := range attrs {
			if !isName(attr) {
				return newConfigError(ErrInvalidPolicy, RuleAllowedTags, tag+"["+attr+"]")
			}
		}
	}
	return nil
}

// String renders the policy in tag-argument syntax: `p span[style] *[class]`.
func (p *Policy) String() string {
	if p == nil {
		return "default"
	}
	if len(p.AllowedTags) == 0 && len(p.AllowedAttributes) == 0 {
		return "none"
	}
	var parts []string
	seen := make(map[string]bool, len(p.AllowedTags))
	for _, tag := range p.AllowedTags {
		seen[tag] = true
		parts = append(parts, withAttrs(tag, p.AllowedAttributes[tag]))
	}
	// Attribute entries for tags outside AllowedTags ("*" included)
	extra := make([]string, 0, len(p.AllowedAttributes))
	for tag := range p.AllowedAttributes {
		if !seen[tag] && len(p.AllowedAttributes[tag]) > 0 {
			extra = append(extra, tag)
		}
	}
	sort.Strings(extra)
	for _, tag := range extra {
		parts = append(parts, withAttrs(tag, p.AllowedAttributes[tag]))
	}
	return strings.Join(parts, " ")
}

// cacheKey encodes both fields exactly. Unlike String it keeps attribute
// entries for tags outside AllowedTags apart from allowed tags.
func (p *Policy) cacheKey() string {
	if p == nil {
		return "default"
	}
	var b strings.Builder
	b.WriteString(strings.Join(p.AllowedTags, " "))
	b.WriteByte('|')
	tags := make([]string, 0, len(p.AllowedAttributes))
	for tag := range p.AllowedAttributes {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		b.WriteString(tag)
		b.WriteByte('[')
		b.WriteString(strings.Join(p.AllowedAttributes[tag], ","))
		b.WriteString("] ")
	}
	return b.String()
}

func withAttrs(tag string, attrs []string) string {
	if len(attrs) == 0 {
		return tag
	}
	return tag + "[" + strings.Join(attrs, ",") + "]"
}

// ParsePolicySpec parses the tag-argument form of a policy.
//
//	""          default policy
//	"default"   default policy
//	"none"      strip all markup
//	"p span[style] a[href,title] *[class]"
//
// A "*[...]" entry allows its attributes on every allowed tag without
// allowing a tag named "*".
func ParsePolicySpec(spec string) (*Policy, error) {
	spec = strings.TrimSpace(spec)
	switch spec {
	case "", "default":
		return DefaultPolicy(), nil
	case "none":
		return StripAll(), nil
	}

	p := StripAll()
	for _, entry := range strings.Fields(spec) {
		tag, attrs, err := parsePolicyEntry(entry)
		if err != nil {
			return nil, err
		}
		if tag != "*" && !slices.Contains(p.AllowedTags, tag) {
			p.AllowedTags = append(p.AllowedTags, tag)
		}
		if len(attrs) > 0 {
			p.AllowedAttributes[tag] = append(p.AllowedAttributes[tag], attrs...)
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// parsePolicyEntry splits `tag[a,b]` into its tag and attributes.
func parsePolicyEntry(entry string) (string, []string, error) {
	open := strings.IndexByte(entry, '[')
	if open < 0 {
		if strings.ContainsAny(entry, "]") || entry == "*" {
			return "", nil, newConfigError(ErrInvalidPolicy, RuleAllowedTags, entry)
		}
		return strings.ToLower(entry), nil, nil
	}
	if !strings.HasSuffix(entry, "]") || open == 0 {
		return "", nil, newConfigError(ErrInvalidPolicy, RuleAllowedTags, entry)
	}

	tag := strings.ToLower(entry[:open])
	inner := entry[open+1 : len(entry)-1]
	if inner == "" {
		return "", nil, newConfigError(ErrInvalidPolicy, RuleAllowedTags, entry)
	}

	var attrs []string
	for _, attr := range strings.Split(inner, ",") {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if !isName(attr) {
			return "", nil, newConfigError(ErrInvalidPolicy, RuleAllowedTags, entry)
		}
		attrs = append(attrs, attr)
	}
	return tag, attrs, nil
}

// ParsePolicy decodes a policy document with the given codec and validates it.
func ParsePolicy(codec Codec, data []byte) (*Policy, error) {
	var p Policy
	if err := codec.Unmarshal(data, &p); err != nil {
		return nil, newCodecError(ErrUnmarshal, err)
	}
	if p.AllowedTags == nil {
		p.AllowedTags = []string{}
	}
	if p.AllowedAttributes == nil {
		p.AllowedAttributes = map[string][]string{}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// isName reports whether s can be used as an HTML tag or attribute name.
func isName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r <= ' ', r == 0x7f:
			return false
		case strings.ContainsRune(`<>"'=/[],*`, r):
			return false
		}
	}
	return true
}
