package groqkit

import (
	"groqkit/common"
	"groqkit/query"
)

var testimonialOrder = []query.Order{query.Descending("_createdAt"), query.Ascending("name")}

// TestimonialListOptions selects customer testimonials.
type TestimonialListOptions struct {
	Featured bool
	// ProductSlug keeps testimonials about the product with this slug.
	ProductSlug string
	Sort        string
	Limit       int
	Offset      int
}

var testimonialListKeys = []string{"featured", "productSlug", "sort", "limit", "offset"}

func DecodeTestimonialListOptions(raw string) (opts TestimonialListOptions, err error) {
	d := newDecoder(raw, testimonialListKeys...)
	opts = TestimonialListOptions{
		Featured:    d.getBool("featured"),
		ProductSlug: d.getString("productSlug"),
		Sort:        d.getString("sort"),
		Limit:       d.getInt("limit"),
		Offset:      d.getInt("offset"),
	}
	err = d.err
	return
}

func (opts TestimonialListOptions) spec() (s listSpec, err error) {
	s = listSpec{
		t:     common.Testimonial,
		order: testimonialOrder,
		sort:  opts.Sort,
		page:  query.Page{Limit: opts.Limit, Offset: opts.Offset},
	}
	if opts.Featured {
		s.where(query.IsTrue{Field: "featured"})
	}
	err = s.whereParam("productSlug", opts.ProductSlug,
		query.Equals("product->slug.current", "productSlug"))
	return
}

func (q *Queries) ListTestimonials(opts TestimonialListOptions) (common.Descriptor, error) {
	s, err := opts.spec()
	if err != nil {
		return common.Descriptor{}, err
	}
	return q.list(s)
}

func (q *Queries) FeaturedTestimonials(limit int) (common.Descriptor, error) {
	return q.ListTestimonials(TestimonialListOptions{Featured: true, Limit: limit})
}

func (q *Queries) CountTestimonials(opts TestimonialListOptions) (common.Descriptor, error) {
	s, err := opts.spec()
	if err != nil {
		return common.Descriptor{}, err
	}
	return q.count(s)
}

// GetTestimonialByID selects one testimonial by document id; testimonials
// have no slug.
func (q *Queries) GetTestimonialByID(id string) (common.Descriptor, error) {
	return q.detail(common.Testimonial, "id", "_id", id)
}
