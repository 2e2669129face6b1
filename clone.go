package htmlinput

// Cloner allows types to provide deep copy logic.
// Implementing this interface is required for use with Processor.
//
// Check and Send sanitize a clone, so the Clone method must return a deep
// copy where modifications to the clone do not affect the original value.
// For types containing pointers, slices, or maps, ensure these are also
// copied to achieve true isolation.
//
// For simple value types with no pointers, slices, or maps, Clone can simply return
// the receiver value:
//
//	func (c Comment) Clone() Comment { return c }
//
// For types with reference fields, ensure deep copying:
//
//	func (p Post) Clone() Post {
//	    tags := make([]string, len(p.Tags))
//	    copy(tags, p.Tags)
//	    return Post{Body: p.Body, Tags: tags}
//	}
type Cloner[T any] interface {
	Clone() T
}
