package groqkit_test

import (
	"groqkit"
	"groqkit/common"
	"groqkit/projection"
	"groqkit/query"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueries(t *testing.T, opts ...groqkit.Option) *groqkit.Queries {
	t.Helper()
	reg, err := groqkit.DefaultRegistry()
	require.NoError(t, err)
	q, err := groqkit.New(reg, opts...)
	require.NoError(t, err)
	return q
}

func summary(t *testing.T, q *groqkit.Queries, ct common.ContentType) string {
	t.Helper()
	f, err := q.Registry().Summary(ct)
	require.NoError(t, err)
	return f.Render()
}

func requireOption(t *testing.T, err error, option string) {
	t.Helper()
	var oe *common.OptionError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, option, oe.Option)
}

func TestDefaultRegistryVerifies(t *testing.T) {
	reg, err := groqkit.DefaultRegistry()
	require.NoError(t, err)
	require.NoError(t, reg.Verify())
	assert.Len(t, reg.Types(), 7)
}

func TestNew(t *testing.T) {
	_, err := groqkit.New(nil)
	assert.Error(t, err)

	reg, err := groqkit.DefaultRegistry()
	require.NoError(t, err)
	_, err = groqkit.New(reg, groqkit.WithRelatedLimit(0))
	requireOption(t, err, "relatedLimit")
	_, err = groqkit.New(reg, groqkit.WithSearchLimit(-3))
	requireOption(t, err, "searchLimit")

	partial, err := projection.NewRegistry(groqkit.SiteFragments()[:4]...)
	require.NoError(t, err)
	_, err = groqkit.New(partial)
	assert.ErrorIs(t, err, common.ErrFragmentNotFound)
}

func TestListProducts(t *testing.T) {
	q := newQueries(t)

	t.Run("featured with limit", func(t *testing.T) {
		d, err := q.ListProducts(groqkit.ProductListOptions{Featured: true, Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, `*[_type == "product" && featured == true] | order(orderRank asc, title asc) [0...3] `+summary(t, q, common.Product), d.Query)
		assert.Empty(t, d.Params)
	})

	t.Run("no options", func(t *testing.T) {
		d, err := q.ListProducts(groqkit.ProductListOptions{})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(d.Query, `*[_type == "product"] | order(orderRank asc, title asc) {`))
		assert.NotContains(t, d.Query, "...")
	})

	t.Run("offset without limit", func(t *testing.T) {
		d, err := q.ListProducts(groqkit.ProductListOptions{Offset: 24})
		require.NoError(t, err)
		assert.NotContains(t, d.Query, "[24")
	})

	t.Run("parent slug", func(t *testing.T) {
		d, err := q.ListProducts(groqkit.ProductListOptions{ParentSlug: "rice-mill-machinery", Limit: 12, Offset: 12})
		require.NoError(t, err)
		assert.Contains(t, d.Query, `collection->slug.current == $parentSlug`)
		assert.Contains(t, d.Query, `[12...24]`)
		assert.NotContains(t, d.Query, "rice-mill-machinery")
		assert.Equal(t, common.Params{"parentSlug": "rice-mill-machinery"}, d.Params)
	})

	t.Run("filter", func(t *testing.T) {
		d, err := q.ListProducts(groqkit.ProductListOptions{Filter: `brand = "Kisan" AND price < 50000`})
		require.NoError(t, err)
		assert.Contains(t, d.Query, `(brand == $filter0 && price < $filter1)`)
		assert.Equal(t, common.Params{"filter0": "Kisan", "filter1": int64(50000)}, d.Params)
		assert.NotContains(t, d.Query, "Kisan")
	})

	t.Run("sort", func(t *testing.T) {
		d, err := q.ListProducts(groqkit.ProductListOptions{Sort: "price desc, title"})
		require.NoError(t, err)
		assert.Contains(t, d.Query, `| order(price desc, title asc)`)

		d, err = q.ListProducts(groqkit.ProductListOptions{Sort: "slug.current"})
		require.NoError(t, err)
		assert.Contains(t, d.Query, `| order(slug.current asc)`)

		for _, sort := range []string{"brochureUrl", "slug", "mainImage", "collection", "title.x"} {
			_, err = q.ListProducts(groqkit.ProductListOptions{Sort: sort})
			requireOption(t, err, "sort")
		}
		_, err = q.ListCollections(groqkit.CollectionListOptions{Sort: "image desc"})
		requireOption(t, err, "sort")
		_, err = q.ListTestimonials(groqkit.TestimonialListOptions{Sort: "avatar"})
		requireOption(t, err, "sort")
		_, err = q.ListTeamMembers(groqkit.TeamListOptions{Sort: "photo"})
		requireOption(t, err, "sort")
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := q.ListProducts(groqkit.ProductListOptions{Limit: -1})
		requireOption(t, err, "limit")
		_, err = q.ListProducts(groqkit.ProductListOptions{Offset: -1})
		requireOption(t, err, "offset")
		_, err = q.ListProducts(groqkit.ProductListOptions{Limit: math.MaxInt, Offset: 10})
		requireOption(t, err, "limit")
		_, err = q.SearchProducts("sheller", query.Page{Limit: math.MaxInt, Offset: 1})
		requireOption(t, err, "limit")
		_, err = q.ListProducts(groqkit.ProductListOptions{ParentSlug: "  "})
		requireOption(t, err, "parentSlug")
		_, err = q.ListProducts(groqkit.ProductListOptions{Filter: `colour = "red"`})
		requireOption(t, err, "filter")
	})
}

func TestGetProductBySlug(t *testing.T) {
	q := newQueries(t)
	d, err := q.GetProductBySlug("paddy-cleaner")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(d.Query, `*[_type == "product" && slug.current == $slug][0] {`))
	assert.Equal(t, common.Params{"slug": "paddy-cleaner"}, d.Params)
	assert.NotContains(t, d.Query, "paddy-cleaner")
	assert.Contains(t, d.Query, `"relatedProducts": *[_type == "product" && defined(collection._ref) && collection._ref == ^.collection._ref && _id != ^._id] | order(orderRank asc, title asc) [0...4] `)

	full, err := q.Registry().Full(common.Product)
	require.NoError(t, err)
	for _, name := range full.Names() {
		assert.Contains(t, d.Query, name)
	}

	_, err = q.GetProductBySlug("")
	requireOption(t, err, "slug")
}

func TestRelatedLimit(t *testing.T) {
	q := newQueries(t, groqkit.WithRelatedLimit(6))
	d, err := q.GetPostBySlug("choosing-a-paddy-thresher")
	require.NoError(t, err)
	assert.Contains(t, d.Query, `count(categories[@._ref in ^.^.categories[]._ref]) > 0`)
	assert.Contains(t, d.Query, `[0...6]`)
}

func TestSearch(t *testing.T) {
	q := newQueries(t)

	t.Run("products", func(t *testing.T) {
		d, err := q.SearchProducts("sheller", query.Page{})
		require.NoError(t, err)
		assert.Equal(t, common.Params{"searchTerm": "sheller*"}, d.Params)
		assert.Contains(t, d.Query, `title match $searchTerm`)
		assert.Contains(t, d.Query, `| score(`)
		assert.Contains(t, d.Query, `| order(_score desc, title asc) [0...20]`)
		assert.NotContains(t, d.Query, "sheller")
	})

	t.Run("posts page", func(t *testing.T) {
		d, err := q.SearchPosts("maintenance tips", query.Page{Limit: 5, Offset: 5})
		require.NoError(t, err)
		assert.Equal(t, common.Params{"searchTerm": "maintenance* tips*"}, d.Params)
		assert.Contains(t, d.Query, `order(_score desc, publishedAt desc) [5...10]`)
	})

	t.Run("site", func(t *testing.T) {
		d, err := q.SiteSearch("paddy", query.Page{})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(d.Query, `*[_type in ["post", "product"] && (`))
		assert.Contains(t, d.Query, `order(_score desc, _type asc)`)
	})

	t.Run("empty term", func(t *testing.T) {
		_, err := q.SearchProducts("  ", query.Page{})
		requireOption(t, err, "term")
	})
}

func TestCount(t *testing.T) {
	q := newQueries(t)

	d, err := q.CountProducts(groqkit.ProductListOptions{Featured: true})
	require.NoError(t, err)
	assert.Equal(t, `count(*[_type == "product" && featured == true])`, d.Query)

	d, err = q.CountPosts(groqkit.PostListOptions{CategorySlug: "harvest"})
	require.NoError(t, err)
	assert.Equal(t, `count(*[_type == "post" && $categorySlug in categories[]->slug.current])`, d.Query)
	assert.Equal(t, common.Params{"categorySlug": "harvest"}, d.Params)

	_, err = q.CountProducts(groqkit.ProductListOptions{Limit: 3})
	requireOption(t, err, "limit")
	_, err = q.CountPosts(groqkit.PostListOptions{Sort: "title"})
	requireOption(t, err, "sort")
}

func TestSlugs(t *testing.T) {
	q := newQueries(t)
	d, err := q.ProductSlugs()
	require.NoError(t, err)
	assert.Equal(t, `*[_type == "product" && defined(slug.current)][].slug.current`, d.Query)
}

func TestListPosts(t *testing.T) {
	q := newQueries(t)
	d, err := q.ListPosts(groqkit.PostListOptions{CategorySlug: "harvest", AuthorSlug: "asha", Limit: 10})
	require.NoError(t, err)
	assert.Contains(t, d.Query, `_type == "post" && $categorySlug in categories[]->slug.current && author->slug.current == $authorSlug]`)
	assert.Contains(t, d.Query, `order(publishedAt desc, _createdAt desc) [0...10]`)
	assert.Equal(t, common.Params{"categorySlug": "harvest", "authorSlug": "asha"}, d.Params)
}

func TestListEvents(t *testing.T) {
	q := newQueries(t)
	now := time.Date(2024, 1, 1, 5, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

	d, err := q.ListEvents(groqkit.EventListOptions{Upcoming: true, Now: now})
	require.NoError(t, err)
	assert.Contains(t, d.Query, `startDate >= $now`)
	assert.Equal(t, common.Params{"now": "2024-01-01T00:00:00Z"}, d.Params)

	_, err = q.ListEvents(groqkit.EventListOptions{Upcoming: true})
	requireOption(t, err, "now")
	_, err = q.ListEvents(groqkit.EventListOptions{Now: now})
	requireOption(t, err, "now")
}

func TestDetailNesting(t *testing.T) {
	q := newQueries(t)
	tests := []struct {
		name string
		d    func() (common.Descriptor, error)
		want string
	}{
		{"collection products", func() (common.Descriptor, error) { return q.GetCollectionBySlug("rice-mill-machinery") }, `"products": *[_type == "product" && collection._ref == ^._id]`},
		{"category posts", func() (common.Descriptor, error) { return q.GetCategoryBySlug("harvest") }, `"posts": *[_type == "post" && references(^._id)]`},
		{"team posts", func() (common.Descriptor, error) { return q.GetTeamMemberBySlug("founder") }, `"posts": *[_type == "post" && author._ref == ^._id]`},
		{"testimonial", func() (common.Descriptor, error) { return q.GetTestimonialByID("testimonial-1") }, `*[_type == "testimonial" && _id == $id][0]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := tt.d()
			require.NoError(t, err)
			assert.Contains(t, d.Query, tt.want)
			assert.NoError(t, d.Check())
		})
	}
}

func TestDecodeOptions(t *testing.T) {
	opts, err := groqkit.DecodeProductListOptions(`{"featured":true,"limit":3}`)
	require.NoError(t, err)
	assert.Equal(t, groqkit.ProductListOptions{Featured: true, Limit: 3}, opts)

	opts, err = groqkit.DecodeProductListOptions("")
	require.NoError(t, err)
	assert.Equal(t, groqkit.ProductListOptions{}, opts)

	_, err = groqkit.DecodeProductListOptions(`{"colour":"red"}`)
	assert.ErrorIs(t, err, common.ErrUnknownOption)

	tests := []struct {
		raw    string
		option string
	}{
		{`{"featured":"yes"}`, "featured"},
		{`{"limit":2.5}`, "limit"},
		{`{"limit":"3"}`, "limit"},
		{`{"parentSlug":7}`, "parentSlug"},
		{`[1,2]`, "options"},
		{`{"limit":`, "options"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, err := groqkit.DecodeProductListOptions(tt.raw)
			requireOption(t, err, tt.option)
		})
	}

	ev, err := groqkit.DecodeEventListOptions(`{"upcoming":true,"now":"2024-01-01T00:00:00Z"}`)
	require.NoError(t, err)
	assert.True(t, ev.Upcoming)
	assert.Equal(t, 2024, ev.Now.Year())

	_, err = groqkit.DecodeEventListOptions(`{"now":"yesterday"}`)
	requireOption(t, err, "now")
}

func TestCatalog(t *testing.T) {
	q := newQueries(t)
	seen := map[string]bool{}
	for _, n := range groqkit.Catalog() {
		t.Run(n.Name, func(t *testing.T) {
			assert.False(t, seen[n.Name], "duplicate name")
			seen[n.Name] = true

			d, err := n.Render(q, n.Example)
			require.NoError(t, err)
			require.NoError(t, d.Check())
			assert.Equal(t, d.Params.Names(), d.Placeholders())

			again, err := n.Render(q, n.Example)
			require.NoError(t, err)
			assert.Equal(t, d, again)

			if n.Type != "" {
				assert.Contains(t, d.Query, `_type == "`+string(n.Type)+`"`)
			}
			for name, v := range d.Params {
				if s, ok := v.(string); ok && n.UseCase != groqkit.UseSearch {
					assert.NotContains(t, d.Query, s, "value of %s leaked into query text", name)
				}
			}
		})
	}

	_, err := q.Render("listWidgets", "{}")
	assert.ErrorIs(t, err, common.ErrQueryNotFound)
	_, err = q.Render("productSlugs", `{"limit":1}`)
	assert.ErrorIs(t, err, common.ErrUnknownOption)
}
