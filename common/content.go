package common

import "regexp"

// ContentType is the document kind tag stored in _type.
type ContentType string

const (
	Product     ContentType = "product"
	Collection  ContentType = "collection"
	Category    ContentType = "category"
	Post        ContentType = "post"
	Testimonial ContentType = "testimonial"
	TeamMember  ContentType = "teamMember"
	Event       ContentType = "event"
)

var contentTypePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// Valid reports whether t can be written into a query as a string literal
// without escaping.
func (t ContentType) Valid() bool {
	return contentTypePattern.MatchString(string(t))
}

func (t ContentType) String() string {
	return string(t)
}

// Intrinsic fields exist on every document regardless of projection.
var Intrinsic = []string{"_id", "_type", "_rev", "_createdAt", "_updatedAt"}

// IsIntrinsic reports whether field is present on every stored document.
func IsIntrinsic(field string) bool {
	for _, f := range Intrinsic {
		if f == field {
			return true
		}
	}
	return false
}
