package profiles

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
)

/*
This is a parser for a simple query language over profile attributes:

Query       := Expr
Expr        := OrExpr ( "OR" OrExpr )*
OrExpr      := AndExpr ( "AND" AndExpr )*
AndExpr     := Condition | "NOT" Condition
Condition   := Filter | "(" Expr ")"
Filter      := Field Op Value
Field       := temperature | salinity | depth | latitude | longitude | region | float_id
Op          := "CONTAINS" | "<" | ">" | "="
Value       := <string> | <number>

*/

var parser = participle.MustBuild[QueryExpr](
	participle.Unquote("String"),
	participle.Union[Value](StringValue{}, NumberValue{}),
)

func ParseQuery(query string) (Filter, error) {
	q, err := parser.ParseString("", query)
	if err != nil {
		return nil, fmt.Errorf("error parsing query '%s': %w", query, err)
	}

	filter, err := q.ToFilter()
	if err != nil {
		return nil, fmt.Errorf("error converting query '%s' to filter: %w", query, err)
	}

	return filter, nil
}

type QueryExpr struct {
	Expr *Expr `@@`
}

func (q *QueryExpr) ToFilter() (Filter, error) {
	return q.Expr.ToFilter()
}

type Expr struct {
	Ors []*OrExpr `@@ ( "OR" @@ )*`
}

func (e *Expr) ToFilter() (Filter, error) {
	if len(e.Ors) == 0 {
		return nil, fmt.Errorf("empty OR expression")
	}

	if len(e.Ors) == 1 {
		return e.Ors[0].ToFilter()
	}

	var filters []Filter
	for _, cond := range e.Ors {
		f, err := cond.ToFilter()
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}

	return &OrFilter{filters: filters}, nil
}

type OrExpr struct {
	Ands []*Condition `@@ ( "AND" @@ )*`
}

func (o *OrExpr) ToFilter() (Filter, error) {
	if len(o.Ands) == 0 {
		return nil, fmt.Errorf("empty AND expression")
	}

	if len(o.Ands) == 1 {
		return o.Ands[0].ToFilter()
	}

	var filters []Filter
	for _, cond := range o.Ands {
		f, err := cond.ToFilter()
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}

	return &AndFilter{filters: filters}, nil
}

type Condition struct {
	Not     bool        `@"NOT"?`
	Filter  *FilterExpr ` @@`
	SubExpr *Expr       `| "(" @@ ")" `
}

func (c *Condition) ToFilter() (Filter, error) {
	var filter Filter
	var err error
	if c.Filter != nil {
		filter, err = c.Filter.ToFilter()
	} else if c.SubExpr != nil {
		filter, err = c.SubExpr.ToFilter()
	}

	if err != nil {
		return nil, err
	}

	if c.Not {
		filter = &NotFilter{filter: filter}
	}

	return filter, nil
}

type FilterExpr struct {
	Field string `@Ident`
	Op    string `@("CONTAINS" | "<" | ">" | "=" )`
	Value Value  `@@`
}

func (f *FilterExpr) ToFilter() (Filter, error) {
	switch value := f.Value.(type) {
	case NumberValue:
		if !IsNumericField(f.Field) {
			return nil, fmt.Errorf("field '%s' cannot be compared to a number", f.Field)
		}
		if f.Op == "CONTAINS" {
			return nil, fmt.Errorf("CONTAINS requires a string value")
		}
		return &NumericFilter{field: f.Field, op: f.Op, value: value.Value}, nil

	case StringValue:
		if !IsStringField(f.Field) {
			return nil, fmt.Errorf("field '%s' cannot be compared to a string", f.Field)
		}
		switch f.Op {
		case "CONTAINS":
			return &SubstringFilter{field: f.Field, substr: value.Value}, nil
		case "=":
			return &StringEqFilter{field: f.Field, value: value.Value}, nil
		default:
			return nil, fmt.Errorf("invalid operator %s used with string value", f.Op)
		}

	default:
		return nil, fmt.Errorf("unsupported value type")
	}
}

type Value interface{ value() }

type StringValue struct {
	Value string `@String`
}

func (s StringValue) value() {}

type NumberValue struct {
	Value float64 `@Float | @Int`
}

func (n NumberValue) value() {}
