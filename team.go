package groqkit

import (
	"groqkit/common"
	"groqkit/query"
)

var teamOrder = []query.Order{query.Ascending("order"), query.Ascending("name")}

// TeamListOptions selects team members for the about page.
type TeamListOptions struct {
	Department string
	Sort       string
	Limit      int
	Offset     int
}

var teamListKeys = []string{"department", "sort", "limit", "offset"}

func DecodeTeamListOptions(raw string) (opts TeamListOptions, err error) {
	d := newDecoder(raw, teamListKeys...)
	opts = TeamListOptions{
		Department: d.getString("department"),
		Sort:       d.getString("sort"),
		Limit:      d.getInt("limit"),
		Offset:     d.getInt("offset"),
	}
	err = d.err
	return
}

func (opts TeamListOptions) spec() (s listSpec, err error) {
	s = listSpec{
		t:     common.TeamMember,
		order: teamOrder,
		sort:  opts.Sort,
		page:  query.Page{Limit: opts.Limit, Offset: opts.Offset},
	}
	err = s.whereParam("department", opts.Department,
		query.Equals("department", "department"))
	return
}

func (q *Queries) ListTeamMembers(opts TeamListOptions) (common.Descriptor, error) {
	s, err := opts.spec()
	if err != nil {
		return common.Descriptor{}, err
	}
	return q.list(s)
}

func (q *Queries) CountTeamMembers(opts TeamListOptions) (common.Descriptor, error) {
	s, err := opts.spec()
	if err != nil {
		return common.Descriptor{}, err
	}
	return q.count(s)
}

// GetTeamMemberBySlug selects one team member with the posts they wrote.
func (q *Queries) GetTeamMemberBySlug(slug string) (common.Descriptor, error) {
	posts, err := q.related(common.Post, postOrder, q.relatedLimit,
		query.ParentCompare{Field: "author._ref", Op: query.Eq, ParentField: "_id"},
	)
	if err != nil {
		return common.Descriptor{}, err
	}
	return q.detail(common.TeamMember, "slug", "slug.current", slug, nest{"posts", posts})
}
