package query

import (
	"bytes"
	"groqkit/common"
	"strings"

	"github.com/pkg/errors"
	"go.einride.tech/aip/ordering"
)

// Direction is the sort direction of one order key.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Order is one "field direction" pair.
type Order struct {
	Field     string
	Direction Direction
}

func (o Order) String() string {
	return o.Field + " " + string(o.Direction)
}

func Ascending(field string) Order  { return Order{Field: field, Direction: Asc} }
func Descending(field string) Order { return Order{Field: field, Direction: Desc} }

// BuildOrder renders order(...) for the keys, or "" when there are none.
func BuildOrder(orders ...Order) string {
	if len(orders) == 0 {
		return ""
	}
	var buffer bytes.Buffer
	buffer.WriteString("order(")
	for idx, o := range orders {
		if idx != 0 {
			buffer.WriteString(", ")
		}
		buffer.WriteString(o.String())
	}
	buffer.WriteString(")")
	return buffer.String()
}

// ParseOrder parses an order_by string such as "publishedAt desc, title".
// Keys without a direction sort ascending.
func ParseOrder(s string) ([]Order, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var orderBy ordering.OrderBy
	if err := orderBy.UnmarshalString(s); err != nil {
		return nil, common.InvalidOption("sort", "%v", err)
	}
	orders := make([]Order, 0, len(orderBy.Fields))
	for _, f := range orderBy.Fields {
		dir := Asc
		if f.Desc {
			dir = Desc
		}
		orders = append(orders, Order{Field: f.Path, Direction: dir})
	}
	return orders, nil
}

// ValidateOrder checks that every key is exactly one of the allowed paths,
// normally the projection's sortable paths. Sub-paths of an allowed path
// are rejected: "title.x" is not sortable because "title" is.
func ValidateOrder(orders []Order, allowed ...string) error {
	exact := map[string]bool{}
	for _, path := range allowed {
		exact[path] = true
	}
	orderBy := ordering.OrderBy{}
	for _, o := range orders {
		if o.Direction != Asc && o.Direction != Desc {
			return common.InvalidOption("sort", "direction %q of %s", o.Direction, o.Field)
		}
		if !exact[o.Field] {
			return common.InvalidOption("sort", "%s is not a sortable path", o.Field)
		}
		orderBy.Fields = append(orderBy.Fields, ordering.Field{Path: o.Field, Desc: o.Direction == Desc})
	}
	if err := orderBy.ValidateForPaths(allowed...); err != nil {
		return errors.WithStack(&common.OptionError{Option: "sort", Reason: err.Error()})
	}
	return nil
}
