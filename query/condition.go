package query

import (
	"fmt"
	"groqkit/common"
	"strings"
)

// Operator is a comparison between a field and a bound parameter.
type Operator string

const (
	Eq  Operator = "=="
	Neq Operator = "!="
	Lt  Operator = "<"
	Lte Operator = "<="
	Gt  Operator = ">"
	Gte Operator = ">="
)

// TypeIs restricts documents to one content type.
type TypeIs struct {
	Type common.ContentType
}

func (c TypeIs) Render() string {
	return fmt.Sprintf(`_type == "%s"`, c.Type)
}

func (c TypeIs) Placeholders() []string { return nil }

// TypeIn restricts documents to a set of content types. Only cross-type
// aggregates use it.
type TypeIn struct {
	Types []common.ContentType
}

func (c TypeIn) Render() string {
	quoted := make([]string, 0, len(c.Types))
	for _, t := range c.Types {
		quoted = append(quoted, `"`+string(t)+`"`)
	}
	return fmt.Sprintf("_type in [%s]", strings.Join(quoted, ", "))
}

func (c TypeIn) Placeholders() []string { return nil }

// IsTrue matches documents whose boolean field is set. The literal is part
// of the query text since it carries no caller data.
type IsTrue struct {
	Field string
}

func (c IsTrue) Render() string {
	return c.Field + " == true"
}

func (c IsTrue) Placeholders() []string { return nil }

// Defined matches documents where the field is present.
type Defined struct {
	Field string
}

func (c Defined) Render() string {
	return fmt.Sprintf("defined(%s)", c.Field)
}

func (c Defined) Placeholders() []string { return nil }

// Compare compares a field with a parameter.
type Compare struct {
	Field string
	Op    Operator
	Param string
}

func (c Compare) Render() string {
	return fmt.Sprintf("%s %s $%s", c.Field, c.Op, c.Param)
}

func (c Compare) Placeholders() []string { return []string{c.Param} }

// Equals is Compare with Eq.
func Equals(field, param string) Compare {
	return Compare{Field: field, Op: Eq, Param: param}
}

// Contains matches documents whose array field holds the parameter value.
type Contains struct {
	Field string
	Param string
}

func (c Contains) Render() string {
	return fmt.Sprintf("$%s in %s", c.Param, c.Field)
}

func (c Contains) Placeholders() []string { return []string{c.Param} }

// ParentCompare compares a field with a field of the enclosing document.
// It is used by sub-queries nested inside a projection.
type ParentCompare struct {
	Field       string
	Op          Operator
	ParentField string
}

func (c ParentCompare) Render() string {
	return fmt.Sprintf("%s %s ^.%s", c.Field, c.Op, c.ParentField)
}

func (c ParentCompare) Placeholders() []string { return nil }

// ReferencesParent matches documents that reference the enclosing document.
type ReferencesParent struct{}

func (c ReferencesParent) Render() string {
	return "references(^._id)"
}

func (c ReferencesParent) Placeholders() []string { return nil }

// SharesRef matches documents whose reference array shares at least one
// target with the same array on the enclosing document.
type SharesRef struct {
	Field string
}

func (c SharesRef) Render() string {
	return fmt.Sprintf("count(%s[@._ref in ^.^.%s[]._ref]) > 0", c.Field, c.Field)
}

func (c SharesRef) Placeholders() []string { return nil }

// Not negates a condition.
type Not struct {
	Cond common.Condition
}

func (c Not) Render() string {
	return "!(" + c.Cond.Render() + ")"
}

func (c Not) Placeholders() []string { return c.Cond.Placeholders() }

// And joins conditions with &&, parenthesised.
type And []common.Condition

func (c And) Render() string { return group(c, " && ") }

func (c And) Placeholders() []string { return collect(c) }

// Or joins conditions with ||, parenthesised.
type Or []common.Condition

func (c Or) Render() string { return group(c, " || ") }

func (c Or) Placeholders() []string { return collect(c) }

func group(conds []common.Condition, sep string) string {
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		parts = append(parts, c.Render())
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func collect(conds []common.Condition) []string {
	names := []string{}
	for _, c := range conds {
		names = append(names, c.Placeholders()...)
	}
	return names
}
