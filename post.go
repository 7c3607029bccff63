package groqkit

import (
	"groqkit/common"
	"groqkit/query"
)

var postOrder = []query.Order{query.Descending("publishedAt"), query.Descending("_createdAt")}

// PostListOptions selects blog posts.
type PostListOptions struct {
	Featured     bool
	CategorySlug string
	AuthorSlug   string
	Sort         string
	Limit        int
	Offset       int
}

var postListKeys = []string{"featured", "categorySlug", "authorSlug", "sort", "limit", "offset"}

func DecodePostListOptions(raw string) (opts PostListOptions, err error) {
	d := newDecoder(raw, postListKeys...)
	opts = PostListOptions{
		Featured:     d.getBool("featured"),
		CategorySlug: d.getString("categorySlug"),
		AuthorSlug:   d.getString("authorSlug"),
		Sort:         d.getString("sort"),
		Limit:        d.getInt("limit"),
		Offset:       d.getInt("offset"),
	}
	err = d.err
	return
}

func (opts PostListOptions) spec() (s listSpec, err error) {
	s = listSpec{
		t:     common.Post,
		order: postOrder,
		sort:  opts.Sort,
		page:  query.Page{Limit: opts.Limit, Offset: opts.Offset},
	}
	if opts.Featured {
		s.where(query.IsTrue{Field: "featured"})
	}
	err = s.whereParam("categorySlug", opts.CategorySlug,
		query.Contains{Field: "categories[]->slug.current", Param: "categorySlug"})
	if err != nil {
		return
	}
	err = s.whereParam("authorSlug", opts.AuthorSlug,
		query.Equals("author->slug.current", "authorSlug"))
	return
}

func (q *Queries) ListPosts(opts PostListOptions) (common.Descriptor, error) {
	s, err := opts.spec()
	if err != nil {
		return common.Descriptor{}, err
	}
	return q.list(s)
}

func (q *Queries) FeaturedPosts(limit int) (common.Descriptor, error) {
	return q.ListPosts(PostListOptions{Featured: true, Limit: limit})
}

func (q *Queries) CountPosts(opts PostListOptions) (common.Descriptor, error) {
	s, err := opts.spec()
	if err != nil {
		return common.Descriptor{}, err
	}
	return q.count(s)
}

// GetPostBySlug selects one post with recent posts sharing a category.
func (q *Queries) GetPostBySlug(slug string) (common.Descriptor, error) {
	related, err := q.related(common.Post, postOrder, q.relatedLimit,
		query.ParentCompare{Field: "_id", Op: query.Neq, ParentField: "_id"},
		query.SharesRef{Field: "categories"},
	)
	if err != nil {
		return common.Descriptor{}, err
	}
	return q.detail(common.Post, "slug", "slug.current", slug, nest{"relatedPosts", related})
}

func (q *Queries) SearchPosts(term string, page query.Page) (common.Descriptor, error) {
	return q.search(common.Post, term, page, query.Descending("publishedAt"))
}

func (q *Queries) PostSlugs() (common.Descriptor, error) {
	return q.slugs(common.Post)
}
