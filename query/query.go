// Package query turns typed filter, order and pagination inputs into query
// text for the document store and composes them into descriptors.
//
// A Query is assembled from conditions, order keys, a page and a projection.
// Caller values never reach the query text: conditions carry placeholder
// names and the values travel in the descriptor's parameters.
package query

import (
	"bytes"
	"groqkit/common"

	"github.com/pkg/errors"
)

type queryImpl struct {
	types      []common.ContentType
	conds      []common.Condition
	params     []common.Param
	order      []Order
	page       Page
	score      *Match
	first      bool
	projection string
}

// Query collects the parts of one store query. The zero value is not usable;
// start from New or NewAggregate. Methods mutate and return the receiver.
type Query struct {
	impl queryImpl
}

// New starts a query over a single content type.
func New(t common.ContentType) *Query {
	return &Query{impl: queryImpl{types: []common.ContentType{t}}}
}

// NewAggregate starts a query spanning several content types.
func NewAggregate(types ...common.ContentType) *Query {
	return &Query{impl: queryImpl{types: append([]common.ContentType(nil), types...)}}
}

// Where appends conditions, ANDed after the type check in the given order.
func (q *Query) Where(conds ...common.Condition) *Query {
	q.impl.conds = append(q.impl.conds, conds...)
	return q
}

// Bind attaches parameter values.
func (q *Query) Bind(params ...common.Param) *Query {
	q.impl.params = append(q.impl.params, params...)
	return q
}

func (q *Query) OrderBy(orders ...Order) *Query {
	q.impl.order = append(q.impl.order, orders...)
	return q
}

func (q *Query) Page(p Page) *Query {
	q.impl.page = p
	return q
}

// Score ranks results by the match before ordering.
func (q *Query) Score(m Match) *Query {
	q.impl.score = &m
	return q
}

// First selects the first matching document instead of a list.
func (q *Query) First() *Query {
	q.impl.first = true
	return q
}

func (q *Query) Project(projection string) *Query {
	q.impl.projection = projection
	return q
}

// Params returns the bound parameters, for merging a nested query into its
// parent.
func (q *Query) Params() []common.Param {
	return append([]common.Param(nil), q.impl.params...)
}

func (q *Query) filter() string {
	if len(q.impl.types) == 1 {
		return BuildFilter(q.impl.types[0], q.impl.conds...)
	}
	return BuildAggregateFilter(q.impl.types, q.impl.conds...)
}

// Text renders the query text without checking parameters.
func (q *Query) Text() string {
	var buffer bytes.Buffer
	buffer.WriteString("*[")
	buffer.WriteString(q.filter())
	buffer.WriteString("]")
	if q.impl.score != nil {
		buffer.WriteString(" | ")
		buffer.WriteString(q.impl.score.Score())
	}
	if order := BuildOrder(q.impl.order...); order != "" {
		buffer.WriteString(" | ")
		buffer.WriteString(order)
	}
	if q.impl.first {
		buffer.WriteString("[0]")
	} else if page := BuildPagination(q.impl.page); page != "" {
		buffer.WriteString(" ")
		buffer.WriteString(page)
	}
	if q.impl.projection != "" {
		buffer.WriteString(" ")
		buffer.WriteString(q.impl.projection)
	}
	return buffer.String()
}

// Build renders the query and checks it against its parameters.
func (q *Query) Build() (common.Descriptor, error) {
	return q.describe(q.Text())
}

// Count renders count(*[filter]) ignoring order, page and projection.
func (q *Query) Count() (common.Descriptor, error) {
	return q.describe("count(*[" + q.filter() + "])")
}

// Pluck renders *[filter][].path, a flat array of one attribute. Order and
// page are ignored.
func (q *Query) Pluck(path string) (common.Descriptor, error) {
	return q.describe("*[" + q.filter() + "][]." + path)
}

func (q *Query) describe(text string) (d common.Descriptor, err error) {
	for _, t := range q.impl.types {
		if !t.Valid() {
			err = errors.Wrapf(common.ErrInvalidFieldPath, "content type %q", t)
			return
		}
	}
	params := common.Params{}
	for _, p := range q.impl.params {
		if !common.ValidParamName(p.Name) {
			err = errors.Wrapf(common.ErrParamMismatch, "parameter name %q", p.Name)
			return
		}
		if prev, ok := params[p.Name]; ok && prev != p.Value {
			err = errors.Wrapf(common.ErrParamMismatch, "%s bound twice", p.Name)
			return
		}
		params[p.Name] = p.Value
	}
	d = common.Descriptor{Query: text, Params: params}
	err = d.Check()
	return
}
