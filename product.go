package groqkit

import (
	"groqkit/common"
	"groqkit/query"
)

var productOrder = []query.Order{query.Ascending("orderRank"), query.Ascending("title")}

// productFilterFields are the identifiers accepted by ProductListOptions.Filter.
var productFilterFields = query.FilterFields{
	"brand":       {Path: "brand", Type: query.FieldString},
	"powerSource": {Path: "powerSource", Type: query.FieldString},
	"price":       {Path: "price", Type: query.FieldInt},
	"capacity":    {Path: "capacity", Type: query.FieldFloat},
}

// ProductListOptions selects products for catalog pages.
type ProductListOptions struct {
	// Featured keeps products flagged for the home page.
	Featured bool
	// ParentSlug keeps products of the collection with this slug.
	ParentSlug string
	// Filter is a filter expression over brand, powerSource, price and
	// capacity, e.g. `brand = "Kisan" AND price < 50000`.
	Filter string
	// Sort is an order_by string over summary fields, e.g. "price desc".
	Sort   string
	Limit  int
	Offset int
}

var productListKeys = []string{"featured", "parentSlug", "filter", "sort", "limit", "offset"}

// DecodeProductListOptions reads ProductListOptions from JSON, rejecting
// unknown keys.
func DecodeProductListOptions(raw string) (opts ProductListOptions, err error) {
	d := newDecoder(raw, productListKeys...)
	opts = ProductListOptions{
		Featured:   d.getBool("featured"),
		ParentSlug: d.getString("parentSlug"),
		Filter:     d.getString("filter"),
		Sort:       d.getString("sort"),
		Limit:      d.getInt("limit"),
		Offset:     d.getInt("offset"),
	}
	err = d.err
	return
}

func (opts ProductListOptions) spec() (s listSpec, err error) {
	s = listSpec{
		t:     common.Product,
		order: productOrder,
		sort:  opts.Sort,
		page:  query.Page{Limit: opts.Limit, Offset: opts.Offset},
	}
	if opts.Featured {
		s.where(query.IsTrue{Field: "featured"})
	}
	if err = s.whereParam("parentSlug", opts.ParentSlug,
		query.Equals("collection->slug.current", "parentSlug")); err != nil {
		return
	}
	cond, params, err := query.TranslateFilter(opts.Filter, productFilterFields)
	if err != nil {
		return
	}
	if cond != nil {
		s.where(cond, params...)
	}
	return
}

// ListProducts lists product summaries.
func (q *Queries) ListProducts(opts ProductListOptions) (common.Descriptor, error) {
	s, err := opts.spec()
	if err != nil {
		return common.Descriptor{}, err
	}
	return q.list(s)
}

// FeaturedProducts lists up to limit featured products; zero means all.
func (q *Queries) FeaturedProducts(limit int) (common.Descriptor, error) {
	return q.ListProducts(ProductListOptions{Featured: true, Limit: limit})
}

// CountProducts counts the products ListProducts would return without
// pagination. Limit, Offset and Sort must be unset.
func (q *Queries) CountProducts(opts ProductListOptions) (common.Descriptor, error) {
	s, err := opts.spec()
	if err != nil {
		return common.Descriptor{}, err
	}
	return q.count(s)
}

// GetProductBySlug selects one product with its full projection and up to
// the related limit of other products from the same collection. A product
// outside any collection has no related products.
func (q *Queries) GetProductBySlug(slug string) (common.Descriptor, error) {
	related, err := q.related(common.Product, productOrder, q.relatedLimit,
		query.Defined{Field: "collection._ref"},
		query.ParentCompare{Field: "collection._ref", Op: query.Eq, ParentField: "collection._ref"},
		query.ParentCompare{Field: "_id", Op: query.Neq, ParentField: "_id"},
	)
	if err != nil {
		return common.Descriptor{}, err
	}
	return q.detail(common.Product, "slug", "slug.current", slug, nest{"relatedProducts", related})
}

// SearchProducts ranks products matching term in title, description or tags.
func (q *Queries) SearchProducts(term string, page query.Page) (common.Descriptor, error) {
	return q.search(common.Product, term, page, query.Ascending("title"))
}

// ProductSlugs lists the slug of every product, for static path generation.
func (q *Queries) ProductSlugs() (common.Descriptor, error) {
	return q.slugs(common.Product)
}
