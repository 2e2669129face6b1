package htmlinput

import "unicode/utf8"

// stripAll is shared by every display measurement and never mutated.
var stripAll = StripAll()

// DisplayString returns input as a reader would see it: every tag removed,
// then entities decoded. Sanitizing first keeps entities inside removed
// markup and attribute values out of the result.
func DisplayString(input string) string {
	return displayString(defaultEngine, input)
}

// Measure returns the length of DisplayString(input), counted in
// characters or, with EncodingUTF8, in bytes.
func Measure(input string, enc Encoding) int {
	return measure(DisplayString(input), enc)
}

func displayString(e Engine, input string) string {
	return DecodeEntities(e.Sanitize(input, stripAll))
}

func measure(s string, enc Encoding) int {
	if enc == EncodingUTF8 {
		return len(s)
	}
	return utf8.RuneCountInString(s)
}
