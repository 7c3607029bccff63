// Package projection holds the field selections that every query for a
// content type shares. A type has a "summary" shape used by list views and
// a "full" shape used by detail views; summary must stay a subset of full.
package projection

import (
	"groqkit/common"
	"strings"

	"github.com/pkg/errors"
)

// Shape names a projection variant of a content type.
type Shape string

const (
	Summary Shape = "summary"
	Full    Shape = "full"
)

// Fragment is a named projection for one content type.
type Fragment struct {
	Type   common.ContentType
	Shape  Shape
	Fields []Field
}

// New creates a fragment.
func New(t common.ContentType, shape Shape, fields ...Field) Fragment {
	return Fragment{Type: t, Shape: shape, Fields: fields}
}

// Extend creates a fragment holding base's fields followed by fields. It is
// the usual way to derive "full" from "summary".
func Extend(base Fragment, shape Shape, fields ...Field) Fragment {
	all := make([]Field, 0, len(base.Fields)+len(fields))
	all = append(all, cloneFields(base.Fields)...)
	all = append(all, fields...)
	return Fragment{Type: base.Type, Shape: shape, Fields: all}
}

// With returns a copy of f with extra fields appended.
func (f Fragment) With(fields ...Field) Fragment {
	return Extend(f, f.Shape, fields...)
}

// Render returns the projection text, e.g. {_id, title, "slug": slug.current}.
func (f Fragment) Render() string {
	return renderFields(f.Fields)
}

// Names returns the top-level output keys in declaration order.
func (f Fragment) Names() []string {
	names := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		names = append(names, field.Name)
	}
	return names
}

// Field looks up a top-level field by output key.
func (f Fragment) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Sortable returns the document paths an order clause may use together with
// this projection: intrinsic document fields plus the source path of every
// scalar field. order() runs before the projection, so an alias is sortable
// only under its source path, and only when that path is a plain attribute
// path without dereferences or array traversal.
func (f Fragment) Sortable() []string {
	paths := append([]string(nil), common.Intrinsic...)
	seen := map[string]bool{}
	for _, p := range paths {
		seen[p] = true
	}
	for _, field := range f.Fields {
		if field.kind != scalarField || seen[field.Path] {
			continue
		}
		if strings.ContainsAny(field.Path, "[]->") {
			continue
		}
		seen[field.Path] = true
		paths = append(paths, field.Path)
	}
	return paths
}

// Validate checks names and paths of every field.
func (f Fragment) Validate() error {
	if !f.Type.Valid() {
		return errors.Wrapf(common.ErrInvalidFieldPath, "content type %q", f.Type)
	}
	if len(f.Fields) == 0 {
		return errors.Errorf("fragment %s/%s has no fields", f.Type, f.Shape)
	}
	if err := validateFields(f.Fields); err != nil {
		return errors.Wrapf(err, "fragment %s/%s", f.Type, f.Shape)
	}
	return nil
}

func (f Fragment) clone() Fragment {
	f.Fields = cloneFields(f.Fields)
	return f
}
