// Package groqkit assembles the store queries used by the site: one method
// per content type and use case, each returning a descriptor (query text
// plus parameters) for the caller to execute.
//
// Methods are pure. They never perform I/O and return an error only when an
// option is malformed.
package groqkit

import (
	"groqkit/common"
	"groqkit/projection"
	"groqkit/query"
	"strings"

	"github.com/pkg/errors"
)

// UseCase classifies what a named query is for.
type UseCase string

const (
	UseList     UseCase = "list"
	UseDetail   UseCase = "detail"
	UseFeatured UseCase = "featured"
	UseSearch   UseCase = "search"
	UseCount    UseCase = "count"
	UseSlugs    UseCase = "slugs"
)

const (
	DefaultRelatedLimit = 4
	DefaultSearchLimit  = 20
)

// Queries builds descriptors against an injected projection registry.
type Queries struct {
	reg          *projection.Registry
	relatedLimit int
	searchLimit  int
}

type Option func(*Queries)

// WithRelatedLimit caps the related documents nested in detail queries.
func WithRelatedLimit(n int) Option {
	return func(q *Queries) {
		q.relatedLimit = n
	}
}

// WithSearchLimit sets the page size of searches called without a limit.
func WithSearchLimit(n int) Option {
	return func(q *Queries) {
		q.searchLimit = n
	}
}

// New checks that reg holds every fragment the assemblers use.
func New(reg *projection.Registry, opts ...Option) (*Queries, error) {
	if reg == nil {
		return nil, errors.New("nil projection registry")
	}
	q := &Queries{
		reg:          reg,
		relatedLimit: DefaultRelatedLimit,
		searchLimit:  DefaultSearchLimit,
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.relatedLimit <= 0 {
		return nil, common.InvalidOption("relatedLimit", "must be positive, got %d", q.relatedLimit)
	}
	if q.searchLimit <= 0 {
		return nil, common.InvalidOption("searchLimit", "must be positive, got %d", q.searchLimit)
	}
	for _, t := range []common.ContentType{
		common.Product, common.Collection, common.Post,
		common.Testimonial, common.TeamMember, common.Event, common.Category,
	} {
		if _, err := reg.Summary(t); err != nil {
			return nil, err
		}
		if _, err := reg.Full(t); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// Registry returns the registry the queries were built with.
func (q *Queries) Registry() *projection.Registry {
	return q.reg
}

// listSpec is the shared shape of list, count and featured queries.
type listSpec struct {
	t      common.ContentType
	conds  []common.Condition
	params []common.Param
	order  []query.Order
	sort   string
	page   query.Page
}

func (s *listSpec) where(cond common.Condition, params ...common.Param) {
	s.conds = append(s.conds, cond)
	s.params = append(s.params, params...)
}

// whereParam adds cond with value bound to the placeholder named after the
// option. An empty value leaves s unchanged.
func (s *listSpec) whereParam(option, value string, cond common.Condition) error {
	if value == "" {
		return nil
	}
	if strings.TrimSpace(value) == "" {
		return common.InvalidOption(option, "must not be blank")
	}
	s.where(cond, common.Bind(option, value))
	return nil
}

func (q *Queries) list(s listSpec) (d common.Descriptor, err error) {
	if err = s.page.Validate(); err != nil {
		return
	}
	summary, err := q.reg.Summary(s.t)
	if err != nil {
		return
	}
	order, err := sortOrder(s.sort, summary, s.order)
	if err != nil {
		return
	}
	return query.New(s.t).
		Where(s.conds...).
		Bind(s.params...).
		OrderBy(order...).
		Page(s.page).
		Project(summary.Render()).
		Build()
}

func (q *Queries) count(s listSpec) (d common.Descriptor, err error) {
	if s.page.Limit != 0 {
		err = common.InvalidOption("limit", "not allowed when counting")
		return
	}
	if s.page.Offset != 0 {
		err = common.InvalidOption("offset", "not allowed when counting")
		return
	}
	if s.sort != "" {
		err = common.InvalidOption("sort", "not allowed when counting")
		return
	}
	return query.New(s.t).Where(s.conds...).Bind(s.params...).Count()
}

func (q *Queries) slugs(t common.ContentType) (common.Descriptor, error) {
	return query.New(t).Where(query.Defined{Field: "slug.current"}).Pluck("slug.current")
}

// nest is a sub-query embedded in a detail projection.
type nest struct {
	name string
	sub  *query.Query
}

// detail selects the first document whose path equals the bound value and
// projects it with the full fragment plus any nested sub-queries.
func (q *Queries) detail(t common.ContentType, option, path, value string, nested ...nest) (d common.Descriptor, err error) {
	if strings.TrimSpace(value) == "" {
		err = common.InvalidOption(option, "must not be empty")
		return
	}
	full, err := q.reg.Full(t)
	if err != nil {
		return
	}
	b := query.New(t).
		Where(query.Equals(path, option)).
		Bind(common.Bind(option, value))
	for _, n := range nested {
		full = full.With(projection.Nested(n.name, n.sub.Text()))
		b.Bind(n.sub.Params()...)
	}
	return b.First().Project(full.Render()).Build()
}

// related builds a summary sub-query over t for nesting in a detail query.
func (q *Queries) related(t common.ContentType, order []query.Order, limit int, conds ...common.Condition) (*query.Query, error) {
	summary, err := q.reg.Summary(t)
	if err != nil {
		return nil, err
	}
	sub := query.New(t).Where(conds...).OrderBy(order...).Project(summary.Render())
	if limit > 0 {
		sub.Page(query.Page{Limit: limit})
	}
	return sub, nil
}

// search ranks documents of t matching term.
func (q *Queries) search(t common.ContentType, term string, page query.Page, tiebreak query.Order) (d common.Descriptor, err error) {
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
	summary, err := q.reg.Summary(t)
	if err != nil {
		return
	}
	m := query.Search()
	return query.New(t).
		Where(m).
		Bind(common.Bind(query.SearchParam, normalized)).
		Score(m).
		OrderBy(query.Descending("_score"), tiebreak).
		Page(page).
		Project(summary.Render()).
		Build()
}

// sortOrder returns the caller's sort when given, validated against the
// projection, and the type's default order otherwise.
func sortOrder(sort string, f projection.Fragment, fallback []query.Order) ([]query.Order, error) {
	if sort == "" {
		return fallback, nil
	}
	orders, err := query.ParseOrder(sort)
	if err != nil {
		return nil, err
	}
	if err = query.ValidateOrder(orders, f.Sortable()...); err != nil {
		return nil, err
	}
	return orders, nil
}
