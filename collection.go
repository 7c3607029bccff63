package groqkit

import (
	"groqkit/common"
	"groqkit/query"
)

var collectionOrder = []query.Order{query.Ascending("orderRank"), query.Ascending("title")}

// CollectionListOptions selects product collections.
type CollectionListOptions struct {
	Featured bool
	// ParentSlug keeps sub-collections of the collection with this slug.
	ParentSlug string
	Sort       string
	Limit      int
	Offset     int
}

var collectionListKeys = []string{"featured", "parentSlug", "sort", "limit", "offset"}

func DecodeCollectionListOptions(raw string) (opts CollectionListOptions, err error) {
	d := newDecoder(raw, collectionListKeys...)
	opts = CollectionListOptions{
		Featured:   d.getBool("featured"),
		ParentSlug: d.getString("parentSlug"),
		Sort:       d.getString("sort"),
		Limit:      d.getInt("limit"),
		Offset:     d.getInt("offset"),
	}
	err = d.err
	return
}

func (opts CollectionListOptions) spec() (s listSpec, err error) {
	s = listSpec{
		t:     common.Collection,
		order: collectionOrder,
		sort:  opts.Sort,
		page:  query.Page{Limit: opts.Limit, Offset: opts.Offset},
	}
	if opts.Featured {
		s.where(query.IsTrue{Field: "featured"})
	}
	err = s.whereParam("parentSlug", opts.ParentSlug,
		query.Equals("parent->slug.current", "parentSlug"))
	return
}

func (q *Queries) ListCollections(opts CollectionListOptions) (common.Descriptor, error) {
	s, err := opts.spec()
	if err != nil {
		return common.Descriptor{}, err
	}
	return q.list(s)
}

func (q *Queries) CountCollections(opts CollectionListOptions) (common.Descriptor, error) {
	s, err := opts.spec()
	if err != nil {
		return common.Descriptor{}, err
	}
	return q.count(s)
}

// GetCollectionBySlug selects one collection with every product that
// belongs to it.
func (q *Queries) GetCollectionBySlug(slug string) (common.Descriptor, error) {
	products, err := q.related(common.Product, productOrder, 0,
		query.ParentCompare{Field: "collection._ref", Op: query.Eq, ParentField: "_id"},
	)
	if err != nil {
		return common.Descriptor{}, err
	}
	return q.detail(common.Collection, "slug", "slug.current", slug, nest{"products", products})
}

func (q *Queries) CollectionSlugs() (common.Descriptor, error) {
	return q.slugs(common.Collection)
}
