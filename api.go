// Package htmlinput provides HTML-aware string rules: allow-list
// sanitization and validation of length as a reader sees it.
//
// # Display Length
//
// The display string of a value is the value with every tag removed and
// every HTML entity decoded:
//
//	htmlinput.DisplayString(`<p>This&nbsp;is <b>bold</b></p>`) // "This is bold"
//
// Its length is counted in characters, or in UTF-8 bytes with EncodingUTF8.
// Attribute values, tag names and the contents of script and style never
// count.
//
// # Rules
//
// Four rules are built in:
//
//	allowedTags(policy?)            transform: sanitize with a policy
//	displayLength(bound, utf8?)     display length == bound
//	displayMin(bound, utf8?)        display length >= bound
//	displayMax(bound, utf8?)        display length <= bound
//
// Rule arguments are checked when the rule is built. A bound must be
// positive and the only encoding accepted is "utf8"; anything else is a
// *ConfigError. Display rules never change the value they check. A failure
// is a *ValidationError carrying the rule, bound and measured length.
//
// # Schemas
//
// A Schema chains rules for a single string:
//
//	s := htmlinput.NewSchema("bio",
//	    htmlinput.Must(htmlinput.AllowedTags(&htmlinput.Policy{
//	        AllowedTags:       []string{"p", "span"},
//	        AllowedAttributes: map[string][]string{"span": {"style"}},
//	    })),
//	    htmlinput.Must(htmlinput.DisplayMax(140)),
//	)
//	clean, err := s.Validate(input)
//
// # Tag Syntax
//
// A Processor reads rules from struct tags:
//
//	html.{rule}:"{arg}"
//
// For example:
//
//	type Post struct {
//	    Title string `json:"title" html.allowedTags:"none" html.displayMax:"80"`
//	    Body  string `json:"body" html.allowedTags:"p a[href] *[class]" html.displayMin:"10"`
//	    Blurb string `json:"blurb" html.displayMax:"280,utf8"`
//	}
//
//	func (p Post) Clone() Post { return p }
//
//	proc, _ := htmlinput.NewProcessor[Post](json.New())
//	post, err := proc.Receive(ctx, requestBody)
//
// The allowedTags argument is "default", "none", or a list of tag entries,
// each optionally followed by its attributes in brackets. "*[attr]" allows
// an attribute on every allowed tag.
//
// # Custom Rules
//
// Register adds a named rule usable from tags and Build:
//
//	htmlinput.Register("trim", func(arg string) (htmlinput.Rule, error) {
//	    return trimRule{}, nil
//	})
//
// # Engines
//
// TreeEngine, the default, parses input as an HTML5 fragment and repairs
// malformed markup. BluemondayEngine delegates to bluemonday. Either can be
// set on a Schema or Processor.
//
// # Codec Providers
//
// The following codec implementations are available as subpackages:
//
//   - json - JSON encoding (application/json)
//   - xml - XML encoding (application/xml)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
package htmlinput
