package query

import (
	"fmt"
	"groqkit/common"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// FieldType is the type of a field exposed to filter expressions.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldInt    FieldType = "int"
	FieldFloat  FieldType = "float"
)

// FilterField maps a filter identifier onto a document path.
type FilterField struct {
	Path string
	Type FieldType
}

// FilterFields declares the identifiers a filter expression may use.
type FilterFields map[string]FilterField

// FilterParamPrefix prefixes the placeholders generated for filter values.
const FilterParamPrefix = "filter"

// TranslateFilter parses an AIP-160 filter expression, e.g.
// `brand = "Kisan" AND price < 50000`, into a condition whose values are all
// routed to parameters named filter0, filter1, ... An empty expression
// yields a nil condition.
func TranslateFilter(filter string, fields FilterFields) (common.Condition, []common.Param, error) {
	if strings.TrimSpace(filter) == "" {
		return nil, nil, nil
	}
	decls, err := declarations(fields)
	if err != nil {
		return nil, nil, err
	}
	parsed, err := filtering.ParseFilterString(filter, decls)
	if err != nil {
		return nil, nil, common.InvalidOption("filter", "%v", err)
	}
	if parsed.CheckedExpr == nil || parsed.CheckedExpr.GetExpr() == nil {
		return nil, nil, nil
	}
	t := &translator{fields: fields}
	cond, err := t.expr(parsed.CheckedExpr.GetExpr())
	if err != nil {
		return nil, nil, err
	}
	return cond, t.params, nil
}

func declarations(fields FilterFields) (*filtering.Declarations, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	decls := []filtering.DeclarationOption{filtering.DeclareStandardFunctions()}
	for _, name := range names {
		switch fields[name].Type {
		case FieldString:
			decls = append(decls, filtering.DeclareIdent(name, filtering.TypeString))
		case FieldInt:
			decls = append(decls, filtering.DeclareIdent(name, filtering.TypeInt))
		case FieldFloat:
			decls = append(decls, filtering.DeclareIdent(name, filtering.TypeFloat))
		default:
			return nil, errors.Errorf("unsupported filter field type for %s", name)
		}
	}
	return filtering.NewDeclarations(decls...)
}

type translator struct {
	fields FilterFields
	params []common.Param
}

func (t *translator) expr(e *expr.Expr) (common.Condition, error) {
	call, ok := e.GetExprKind().(*expr.Expr_CallExpr)
	if !ok {
		return nil, common.InvalidOption("filter", "unsupported expression %T", e.GetExprKind())
	}
	return t.call(call.CallExpr)
}

func (t *translator) call(call *expr.Expr_Call) (common.Condition, error) {
	switch call.GetFunction() {
	case "AND", "FUZZY", "_&&_":
		conds, err := t.args(call.GetArgs())
		if err != nil {
			return nil, err
		}
		return And(conds), nil
	case "OR", "_||_":
		conds, err := t.args(call.GetArgs())
		if err != nil {
			return nil, err
		}
		return Or(conds), nil
	case "NOT", "!_":
		if len(call.GetArgs()) != 1 {
			return nil, common.InvalidOption("filter", "NOT requires 1 argument")
		}
		cond, err := t.expr(call.GetArgs()[0])
		if err != nil {
			return nil, err
		}
		return Not{Cond: cond}, nil
	case "=", "_==_":
		return t.compare(call.GetArgs(), Eq)
	case "!=", "_!=_":
		return t.compare(call.GetArgs(), Neq)
	case "<", "_<_":
		return t.compare(call.GetArgs(), Lt)
	case "<=", "_<=_":
		return t.compare(call.GetArgs(), Lte)
	case ">", "_>_":
		return t.compare(call.GetArgs(), Gt)
	case ">=", "_>=_":
		return t.compare(call.GetArgs(), Gte)
	}
	return nil, common.InvalidOption("filter", "unsupported function %s", call.GetFunction())
}

func (t *translator) args(args []*expr.Expr) ([]common.Condition, error) {
	conds := make([]common.Condition, 0, len(args))
	for _, arg := range args {
		cond, err := t.expr(arg)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}
	return conds, nil
}

func (t *translator) compare(args []*expr.Expr, op Operator) (common.Condition, error) {
	if len(args) != 2 {
		return nil, common.InvalidOption("filter", "comparison requires 2 arguments")
	}
	ident, ok := args[0].GetExprKind().(*expr.Expr_IdentExpr)
	if !ok {
		return nil, common.InvalidOption("filter", "expected field on the left, got %T", args[0].GetExprKind())
	}
	field, ok := t.fields[ident.IdentExpr.GetName()]
	if !ok {
		return nil, common.InvalidOption("filter", "unknown field %s", ident.IdentExpr.GetName())
	}
	konst, ok := args[1].GetExprKind().(*expr.Expr_ConstExpr)
	if !ok {
		return nil, common.InvalidOption("filter", "expected constant on the right, got %T", args[1].GetExprKind())
	}
	name := fmt.Sprintf("%s%d", FilterParamPrefix, len(t.params))
	switch v := konst.ConstExpr.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		t.params = append(t.params, common.Bind(name, v.StringValue))
	case *expr.Constant_Int64Value:
		t.params = append(t.params, common.Bind(name, v.Int64Value))
	case *expr.Constant_Uint64Value:
		t.params = append(t.params, common.Bind(name, int64(v.Uint64Value)))
	case *expr.Constant_DoubleValue:
		t.params = append(t.params, common.Bind(name, v.DoubleValue))
	case *expr.Constant_BoolValue:
		t.params = append(t.params, common.Bind(name, v.BoolValue))
	default:
		return nil, common.InvalidOption("filter", "unsupported constant %T", v)
	}
	return Compare{Field: field.Path, Op: op, Param: name}, nil
}
