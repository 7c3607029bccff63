package groqkit

import (
	"groqkit/common"
	"groqkit/projection"
	"groqkit/query"
)

// siteSearchTypes are the content types covered by SiteSearch.
var siteSearchTypes = []common.ContentType{common.Post, common.Product}

// siteSearchProjection is shared by every type in siteSearchTypes.
var siteSearchProjection = projection.New("", projection.Summary,
	projection.Attr("_id"), projection.Attr("_type"), projection.Attr("title"),
	projection.Alias("slug", "slug.current"), projection.Attr("excerpt"),
)

// SiteSearch ranks products and posts matching term. It is the only query
// spanning more than one content type.
func (q *Queries) SiteSearch(term string, page query.Page) (d common.Descriptor, err error) {
	normalized, err := query.NormalizeSearchTerm(term)
	if err != nil {
		return
	}
	if err = page.Validate(); err != nil {
		return
	}
	if page.Limit == 0 {
		page.Limit = q.searchLimit
	}
	m := query.Search()
	return query.NewAggregate(siteSearchTypes...).
		Where(m).
		Bind(common.Bind(query.SearchParam, normalized)).
		Score(m).
		OrderBy(query.Descending("_score"), query.Ascending("_type")).
		Page(page).
		Project(siteSearchProjection.Render()).
		Build()
}
