package query

import (
	"fmt"
	"groqkit/common"
	"math"
)

// Page is an optional result window. A zero Limit means unbounded.
type Page struct {
	Limit  int
	Offset int
}

// Validate rejects negative values and windows whose end does not fit in an
// int, naming the offending option.
func (p Page) Validate() error {
	if p.Limit < 0 {
		return common.InvalidOption("limit", "must be positive, got %d", p.Limit)
	}
	if p.Offset < 0 {
		return common.InvalidOption("offset", "must not be negative, got %d", p.Offset)
	}
	if p.Limit > math.MaxInt-p.Offset {
		return common.InvalidOption("limit", "offset %d plus limit %d overflows", p.Offset, p.Limit)
	}
	return nil
}

// BuildPagination renders the half-open slice [offset...offset+limit]. It
// returns "" without a limit, whatever the offset.
func BuildPagination(p Page) string {
	if p.Limit <= 0 {
		return ""
	}
	return fmt.Sprintf("[%d...%d]", p.Offset, p.Offset+p.Limit)
}
