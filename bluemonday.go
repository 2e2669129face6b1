package htmlinput

import (
	"slices"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// BluemondayEngine sanitizes with a bluemonday policy compiled from the
// allow-list. It works on the token stream rather than a repaired tree, so
// unbalanced markup is not re-nested; use it where bluemonday's behaviour
// is already relied on elsewhere.
type BluemondayEngine struct{}

// compiled caches bluemonday policies by Policy.cacheKey.
var compiled sync.Map

// Sanitize implements Engine.
func (BluemondayEngine) Sanitize(input string, p *Policy) string {
	return bluemondayPolicy(p).Sanitize(input)
}

func bluemondayPolicy(p *Policy) *bluemonday.Policy {
	if p == nil {
		p = DefaultPolicy()
	}
	key := p.cacheKey()
	if cached, ok := compiled.Load(key); ok {
		return cached.(*bluemonday.Policy)
	}

	bp := bluemonday.NewPolicy()
	if len(p.AllowedTags) > 0 {
		bp.AllowElements(p.AllowedTags...)
	}
	for tag, attrs := range p.AllowedAttributes {
		if len(attrs) == 0 {
			continue
		}
		if tag == "*" {
			bp.AllowAttrs(attrs...).Globally()
			continue
		}
		// OnElements would also allow the tag itself.
		if !slices.Contains(p.AllowedTags, tag) {
			continue
		}
		bp.AllowAttrs(attrs...).OnElements(tag)
	}

	actual, _ := compiled.LoadOrStore(key, bp)
	return actual.(*bluemonday.Policy)
}
