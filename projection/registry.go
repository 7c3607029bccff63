package projection

import (
	"groqkit/common"
	"sort"

	"github.com/pkg/errors"
)

type registryKey struct {
	t     common.ContentType
	shape Shape
}

// Registry is the immutable set of fragments a site uses. Build it once at
// startup and hand it to the assemblers.
type Registry struct {
	frags map[registryKey]Fragment
	types []common.ContentType
}

// NewRegistry validates and indexes fragments. Each (type, shape) pair may
// appear once.
func NewRegistry(frags ...Fragment) (*Registry, error) {
	r := &Registry{
		frags: map[registryKey]Fragment{},
	}
	seen := map[common.ContentType]bool{}
	for _, f := range frags {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		key := registryKey{f.Type, f.Shape}
		if _, ok := r.frags[key]; ok {
			return nil, errors.Wrapf(common.ErrDuplicateFragment, "%s/%s", f.Type, f.Shape)
		}
		r.frags[key] = f.clone()
		if !seen[f.Type] {
			seen[f.Type] = true
			r.types = append(r.types, f.Type)
		}
	}
	sort.Slice(r.types, func(i, j int) bool { return r.types[i] < r.types[j] })
	return r, nil
}

// Fragment returns a copy of the fragment for t in the given shape.
func (r *Registry) Fragment(t common.ContentType, shape Shape) (Fragment, error) {
	f, ok := r.frags[registryKey{t, shape}]
	if !ok {
		return Fragment{}, errors.Wrapf(common.ErrFragmentNotFound, "%s/%s", t, shape)
	}
	return f.clone(), nil
}

func (r *Registry) Summary(t common.ContentType) (Fragment, error) {
	return r.Fragment(t, Summary)
}

func (r *Registry) Full(t common.ContentType) (Fragment, error) {
	return r.Fragment(t, Full)
}

// Types lists the registered content types in sorted order.
func (r *Registry) Types() []common.ContentType {
	return append([]common.ContentType(nil), r.types...)
}

// Verify checks the summary/full invariant for every type that has both
// shapes, structurally and on the rendered text.
func (r *Registry) Verify() error {
	for _, t := range r.types {
		summary, errS := r.Summary(t)
		full, errF := r.Full(t)
		if errS != nil || errF != nil {
			continue
		}
		if err := Compatible(summary, full); err != nil {
			return err
		}
		if err := CompatibleText(summary.Render(), full.Render()); err != nil {
			return errors.Wrapf(err, "%s", t)
		}
	}
	return nil
}
