package groqkit

import (
	"groqkit/common"
	"groqkit/query"

	"github.com/pkg/errors"
)

// NamedQuery is one entry of the query catalog: an assembler reachable by
// name with its arguments given as a JSON object.
type NamedQuery struct {
	Name    string
	Type    common.ContentType
	UseCase UseCase
	// Example is a representative argument object.
	Example string

	render func(q *Queries, raw string) (common.Descriptor, error)
}

// Render decodes raw and calls the assembler.
func (n NamedQuery) Render(q *Queries, raw string) (common.Descriptor, error) {
	return n.render(q, raw)
}

func decodeSlug(raw string) (string, error) {
	d := newDecoder(raw, "slug")
	slug := d.getString("slug")
	return slug, d.err
}

func decodeID(raw string) (string, error) {
	d := newDecoder(raw, "id")
	id := d.getString("id")
	return id, d.err
}

func decodeLimit(raw string) (int, error) {
	d := newDecoder(raw, "limit")
	limit := d.getInt("limit")
	return limit, d.err
}

func decodeSearch(raw string) (string, query.Page, error) {
	d := newDecoder(raw, "term", "limit", "offset")
	term := d.getString("term")
	page := query.Page{Limit: d.getInt("limit"), Offset: d.getInt("offset")}
	return term, page, d.err
}

func decodeNone(raw string) error {
	return newDecoder(raw).err
}

func listQuery[T any](decode func(string) (T, error), call func(*Queries, T) (common.Descriptor, error)) func(*Queries, string) (common.Descriptor, error) {
	return func(q *Queries, raw string) (common.Descriptor, error) {
		opts, err := decode(raw)
		if err != nil {
			return common.Descriptor{}, err
		}
		return call(q, opts)
	}
}

func slugQuery(call func(*Queries, string) (common.Descriptor, error)) func(*Queries, string) (common.Descriptor, error) {
	return listQuery(decodeSlug, call)
}

func idQuery(call func(*Queries, string) (common.Descriptor, error)) func(*Queries, string) (common.Descriptor, error) {
	return listQuery(decodeID, call)
}

func limitQuery(call func(*Queries, int) (common.Descriptor, error)) func(*Queries, string) (common.Descriptor, error) {
	return listQuery(decodeLimit, call)
}

func searchQuery(call func(*Queries, string, query.Page) (common.Descriptor, error)) func(*Queries, string) (common.Descriptor, error) {
	return func(q *Queries, raw string) (common.Descriptor, error) {
		term, page, err := decodeSearch(raw)
		if err != nil {
			return common.Descriptor{}, err
		}
		return call(q, term, page)
	}
}

func plainQuery(call func(*Queries) (common.Descriptor, error)) func(*Queries, string) (common.Descriptor, error) {
	return func(q *Queries, raw string) (common.Descriptor, error) {
		if err := decodeNone(raw); err != nil {
			return common.Descriptor{}, err
		}
		return call(q)
	}
}

var catalog = []NamedQuery{
	{"listProducts", common.Product, UseList, `{"parentSlug":"rice-mill-machinery","limit":12}`,
		listQuery(DecodeProductListOptions, (*Queries).ListProducts)},
	{"featuredProducts", common.Product, UseFeatured, `{"limit":3}`,
		limitQuery((*Queries).FeaturedProducts)},
	{"getProductBySlug", common.Product, UseDetail, `{"slug":"paddy-cleaner"}`,
		slugQuery((*Queries).GetProductBySlug)},
	{"searchProducts", common.Product, UseSearch, `{"term":"sheller"}`,
		searchQuery((*Queries).SearchProducts)},
	{"countProducts", common.Product, UseCount, `{"featured":true}`,
		listQuery(DecodeProductListOptions, (*Queries).CountProducts)},
	{"productSlugs", common.Product, UseSlugs, `{}`,
		plainQuery((*Queries).ProductSlugs)},

	{"listCollections", common.Collection, UseList, `{}`,
		listQuery(DecodeCollectionListOptions, (*Queries).ListCollections)},
	{"getCollectionBySlug", common.Collection, UseDetail, `{"slug":"rice-mill-machinery"}`,
		slugQuery((*Queries).GetCollectionBySlug)},
	{"countCollections", common.Collection, UseCount, `{}`,
		listQuery(DecodeCollectionListOptions, (*Queries).CountCollections)},
	{"collectionSlugs", common.Collection, UseSlugs, `{}`,
		plainQuery((*Queries).CollectionSlugs)},

	{"listCategories", common.Category, UseList, `{}`,
		plainQuery((*Queries).ListCategories)},
	{"getCategoryBySlug", common.Category, UseDetail, `{"slug":"harvest"}`,
		slugQuery((*Queries).GetCategoryBySlug)},

	{"listPosts", common.Post, UseList, `{"limit":10}`,
		listQuery(DecodePostListOptions, (*Queries).ListPosts)},
	{"featuredPosts", common.Post, UseFeatured, `{"limit":3}`,
		limitQuery((*Queries).FeaturedPosts)},
	{"getPostBySlug", common.Post, UseDetail, `{"slug":"choosing-a-paddy-thresher"}`,
		slugQuery((*Queries).GetPostBySlug)},
	{"searchPosts", common.Post, UseSearch, `{"term":"maintenance"}`,
		searchQuery((*Queries).SearchPosts)},
	{"countPosts", common.Post, UseCount, `{}`,
		listQuery(DecodePostListOptions, (*Queries).CountPosts)},
	{"postSlugs", common.Post, UseSlugs, `{}`,
		plainQuery((*Queries).PostSlugs)},

	{"listTestimonials", common.Testimonial, UseList, `{"limit":6}`,
		listQuery(DecodeTestimonialListOptions, (*Queries).ListTestimonials)},
	{"featuredTestimonials", common.Testimonial, UseFeatured, `{"limit":3}`,
		limitQuery((*Queries).FeaturedTestimonials)},
	{"getTestimonialById", common.Testimonial, UseDetail, `{"id":"testimonial-1"}`,
		idQuery((*Queries).GetTestimonialByID)},
	{"countTestimonials", common.Testimonial, UseCount, `{}`,
		listQuery(DecodeTestimonialListOptions, (*Queries).CountTestimonials)},

	{"listTeamMembers", common.TeamMember, UseList, `{}`,
		listQuery(DecodeTeamListOptions, (*Queries).ListTeamMembers)},
	{"getTeamMemberBySlug", common.TeamMember, UseDetail, `{"slug":"founder"}`,
		slugQuery((*Queries).GetTeamMemberBySlug)},
	{"countTeamMembers", common.TeamMember, UseCount, `{}`,
		listQuery(DecodeTeamListOptions, (*Queries).CountTeamMembers)},

	{"listEvents", common.Event, UseList, `{"upcoming":true,"now":"2024-01-01T00:00:00Z"}`,
		listQuery(DecodeEventListOptions, (*Queries).ListEvents)},
	{"getEventBySlug", common.Event, UseDetail, `{"slug":"krishi-expo"}`,
		slugQuery((*Queries).GetEventBySlug)},
	{"countEvents", common.Event, UseCount, `{}`,
		listQuery(DecodeEventListOptions, (*Queries).CountEvents)},
	{"eventSlugs", common.Event, UseSlugs, `{}`,
		plainQuery((*Queries).EventSlugs)},

	{"siteSearch", "", UseSearch, `{"term":"paddy"}`,
		searchQuery((*Queries).SiteSearch)},
}

// Catalog lists every named query in a stable order.
func Catalog() []NamedQuery {
	return append([]NamedQuery(nil), catalog...)
}

// Lookup finds a named query.
func Lookup(name string) (NamedQuery, error) {
	for _, n := range catalog {
		if n.Name == name {
			return n, nil
		}
	}
	return NamedQuery{}, errors.Wrapf(common.ErrQueryNotFound, "%s", name)
}

// Render finds the named query and renders it with the JSON arguments.
func (q *Queries) Render(name, raw string) (common.Descriptor, error) {
	n, err := Lookup(name)
	if err != nil {
		return common.Descriptor{}, err
	}
	return n.Render(q, raw)
}
