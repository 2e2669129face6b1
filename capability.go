package htmlinput

// Encoding selects how a display string is measured.
// Use these constants in struct tags: `html.displayMax:"140,utf8"`
type Encoding string

const (
	// EncodingChars counts Unicode code points. It is the default.
	EncodingChars Encoding = ""

	// EncodingUTF8 counts UTF-8 bytes.
	EncodingUTF8 Encoding = "utf8"
)

// Comparison selects the operator a length rule applies to the measured
// display length.
type Comparison int

const (
	// Exact requires measured == bound.
	Exact Comparison = iota
	// Min requires measured >= bound.
	Min
	// Max requires measured <= bound.
	Max
)

// Rule names as registered with the rule registry.
const (
	RuleAllowedTags   = "allowedTags"
	RuleDisplayLength = "displayLength"
	RuleDisplayMin    = "displayMin"
	RuleDisplayMax    = "displayMax"
)

// validEncodings contains all accepted encodings for argument validation.
var validEncodings = map[Encoding]bool{
	EncodingChars: true,
	EncodingUTF8:  true,
}

// comparisonRules maps each comparison to its rule name.
var comparisonRules = map[Comparison]string{
	Exact: RuleDisplayLength,
	Min:   RuleDisplayMin,
	Max:   RuleDisplayMax,
}

// comparisonErrors maps each comparison to the sentinel its failures wrap.
var comparisonErrors = map[Comparison]error{
	Exact: ErrDisplayLength,
	Min:   ErrDisplayMin,
	Max:   ErrDisplayMax,
}

// IsValidEncoding returns true if enc is a known encoding.
func IsValidEncoding(enc Encoding) bool {
	return validEncodings[enc]
}

// IsValidComparison returns true if c is a known comparison.
func IsValidComparison(c Comparison) bool {
	_, ok := comparisonRules[c]
	return ok
}

// String returns the rule name for the comparison.
func (c Comparison) String() string {
	if name, ok := comparisonRules[c]; ok {
		return name
	}
	return "unknown"
}

// holds reports whether measured satisfies the comparison against bound.
func (c Comparison) holds(measured, bound int) bool {
	switch c {
	case Exact:
		return measured == bound
	case Min:
		return measured >= bound
	case Max:
		return measured <= bound
	}
	return false
}
