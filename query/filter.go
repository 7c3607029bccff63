package query

import (
	"bytes"
	"groqkit/common"
)

// BuildFilter renders the type check for t followed by every condition,
// joined with && in the order given.
func BuildFilter(t common.ContentType, conds ...common.Condition) string {
	return joinFilter(TypeIs{Type: t}, conds)
}

// BuildAggregateFilter is BuildFilter for queries spanning several types.
func BuildAggregateFilter(types []common.ContentType, conds ...common.Condition) string {
	return joinFilter(TypeIn{Types: types}, conds)
}

func joinFilter(head common.Condition, conds []common.Condition) string {
	var buffer bytes.Buffer
	buffer.WriteString(head.Render())
	for _, cond := range conds {
		buffer.WriteString(" && ")
		buffer.WriteString(cond.Render())
	}
	return buffer.String()
}
