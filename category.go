package groqkit

import (
	"groqkit/common"
	"groqkit/query"
)

var categoryOrder = []query.Order{query.Ascending("title")}

// ListCategories lists every blog category.
func (q *Queries) ListCategories() (common.Descriptor, error) {
	return q.list(listSpec{t: common.Category, order: categoryOrder})
}

// GetCategoryBySlug selects one category with its most recent posts.
func (q *Queries) GetCategoryBySlug(slug string) (common.Descriptor, error) {
	posts, err := q.related(common.Post, postOrder, q.relatedLimit, query.ReferencesParent{})
	if err != nil {
		return common.Descriptor{}, err
	}
	return q.detail(common.Category, "slug", "slug.current", slug, nest{"posts", posts})
}
