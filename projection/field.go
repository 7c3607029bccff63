package projection

import (
	"groqkit/common"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

type fieldKind int

const (
	scalarField fieldKind = iota
	objectField
	listField
	refField
	refListField
	nestedField
)

func (k fieldKind) String() string {
	switch k {
	case scalarField:
		return "scalar"
	case objectField:
		return "object"
	case listField:
		return "list"
	case refField:
		return "reference"
	case refListField:
		return "reference list"
	case nestedField:
		return "nested query"
	}
	return "unknown"
}

var (
	namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	pathPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*((\.|->)[A-Za-z_][A-Za-z0-9_]*|\[\])*$`)
)

// ValidName reports whether name can be used as a projection key.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// ValidPath reports whether path is a plain attribute path such as
// "slug.current", "mainImage.asset->url" or "categories[]->slug.current".
func ValidPath(path string) bool {
	return pathPattern.MatchString(path)
}

// Field is one entry of a projection: an output key and the expression that
// fills it.
type Field struct {
	Name string
	Path string

	kind   fieldKind
	target common.ContentType
	fields []Field
	expr   string
}

// Attr selects an attribute under its own name.
func Attr(name string) Field {
	return Field{Name: name, Path: name, kind: scalarField}
}

// Alias selects the attribute at path under name.
func Alias(name, path string) Field {
	return Field{Name: name, Path: path, kind: scalarField}
}

// Object projects the sub-fields of an embedded object.
func Object(name, path string, fields ...Field) Field {
	return Field{Name: name, Path: path, kind: objectField, fields: fields}
}

// List projects the sub-fields of every element of an embedded array.
func List(name, path string, fields ...Field) Field {
	return Field{Name: name, Path: path, kind: listField, fields: fields}
}

// Ref expands the reference at path and applies the target fragment to the
// referenced document.
func Ref(name, path string, target Fragment) Field {
	return Field{Name: name, Path: path, kind: refField, target: target.Type, fields: target.Fields}
}

// RefList expands an array of references with the target fragment.
func RefList(name, path string, target Fragment) Field {
	return Field{Name: name, Path: path, kind: refListField, target: target.Type, fields: target.Fields}
}

// Nested embeds an already rendered sub-query under name. The sub-query
// must be produced by the query builders.
func Nested(name, expr string) Field {
	return Field{Name: name, kind: nestedField, expr: expr}
}

// Render returns the projection entry text.
func (f Field) Render() string {
	var value string
	switch f.kind {
	case scalarField:
		if f.Path == f.Name {
			return f.Name
		}
		value = f.Path
	case objectField:
		value = f.Path + renderFields(f.fields)
	case listField:
		value = f.Path + "[]" + renderFields(f.fields)
	case refField:
		value = f.Path + "->" + renderFields(f.fields)
	case refListField:
		value = f.Path + "[]->" + renderFields(f.fields)
	case nestedField:
		value = f.expr
	}
	return `"` + f.Name + `": ` + value
}

// Sub returns the sub-fields of an object, list or reference field.
func (f Field) Sub() []Field {
	return append([]Field(nil), f.fields...)
}

func (f Field) validate() error {
	if !ValidName(f.Name) {
		return errors.Wrapf(common.ErrInvalidFieldPath, "field name %q", f.Name)
	}
	if f.kind == nestedField {
		if strings.TrimSpace(f.expr) == "" {
			return errors.Wrapf(common.ErrInvalidFieldPath, "field %s: empty nested query", f.Name)
		}
		return nil
	}
	if !ValidPath(f.Path) {
		return errors.Wrapf(common.ErrInvalidFieldPath, "field %s: path %q", f.Name, f.Path)
	}
	if f.kind != scalarField && len(f.fields) == 0 {
		return errors.Wrapf(common.ErrInvalidFieldPath, "field %s: empty sub-projection", f.Name)
	}
	return validateFields(f.fields)
}

func validateFields(fields []Field) error {
	seen := map[string]bool{}
	for _, f := range fields {
		if seen[f.Name] {
			return errors.Wrapf(common.ErrInvalidFieldPath, "field %s declared twice", f.Name)
		}
		seen[f.Name] = true
		if err := f.validate(); err != nil {
			return err
		}
	}
	return nil
}

func renderFields(fields []Field) string {
	var b strings.Builder
	b.WriteString("{")
	for idx, f := range fields {
		if idx != 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Render())
	}
	b.WriteString("}")
	return b.String()
}

func cloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for idx, f := range fields {
		f.fields = cloneFields(f.fields)
		out[idx] = f
	}
	return out
}
