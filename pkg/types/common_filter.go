package types

import (
	"time"

	"gorm.io/gorm/clause"
)

type CommonFilterOperator string

const (
	CommonFilterOperatorEq        CommonFilterOperator = "eq"
	CommonFilterOperatorNotEq     CommonFilterOperator = "not_eq"
	CommonFilterOperatorLt        CommonFilterOperator = "lt"
	CommonFilterOperatorLte       CommonFilterOperator = "lte"
	CommonFilterOperatorGt        CommonFilterOperator = "gt"
	CommonFilterOperatorGte       CommonFilterOperator = "gte"
	CommonFilterOperatorDateRange CommonFilterOperator = "date_range"
	CommonFilterOperatorRange     CommonFilterOperator = "range"
	CommonFilterOperatorIn        CommonFilterOperator = "in"
)

// CommonFilter is a single column predicate sent by admin list/statistic APIs.
type CommonFilter struct {
	Field    string               `json:"field"`
	Operator CommonFilterOperator `json:"operator"`
	Values   []any                `json:"values"`
}

// Allowed reports whether the filter targets one of the given columns.
func (f *CommonFilter) Allowed(columns []string) bool {
	for _, c := range columns {
		if c == f.Field {
			return true
		}
	}
	return false
}

// Build writes the predicate. Filters without values write nothing.
func (f *CommonFilter) Build(builder clause.Builder) {
	if len(f.Values) == 0 {
		return
	}

	value := f.Values[0]
	col := clause.Column{Name: f.Field}

	switch f.Operator {
	case CommonFilterOperatorEq:
		clause.Eq{Column: col, Value: value}.Build(builder)
	case CommonFilterOperatorNotEq:
		clause.Neq{Column: col, Value: value}.Build(builder)
	case CommonFilterOperatorLt:
		clause.Lt{Column: col, Value: value}.Build(builder)
	case CommonFilterOperatorLte:
		clause.Lte{Column: col, Value: value}.Build(builder)
	case CommonFilterOperatorGt:
		clause.Gt{Column: col, Value: value}.Build(builder)
	case CommonFilterOperatorGte:
		clause.Gte{Column: col, Value: value}.Build(builder)
	case CommonFilterOperatorRange:
		if len(f.Values) < 2 {
			return
		}
		clause.And(clause.Gte{Column: col, Value: f.Values[0]}, clause.Lte{Column: col, Value: f.Values[1]}).Build(builder)
	case CommonFilterOperatorDateRange:
		// values are YYYY-MM-DD; the upper bound is inclusive of the whole day
		if len(f.Values) < 2 {
			return
		}
		from, err1 := time.Parse(time.DateOnly, asString(f.Values[0]))
		to, err2 := time.Parse(time.DateOnly, asString(f.Values[1]))
		if err1 != nil || err2 != nil {
			return
		}
		clause.And(clause.Gte{Column: col, Value: from}, clause.Lt{Column: col, Value: to.AddDate(0, 0, 1)}).Build(builder)
	case CommonFilterOperatorIn:
		clause.IN{Column: col, Values: f.Values}.Build(builder)
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// writes reports whether Build emits a predicate for this filter.
func (f *CommonFilter) writes() bool {
	if f == nil || len(f.Values) == 0 {
		return false
	}
	switch f.Operator {
	case CommonFilterOperatorRange:
		return len(f.Values) >= 2
	case CommonFilterOperatorDateRange:
		if len(f.Values) < 2 {
			return false
		}
		_, err1 := time.Parse(time.DateOnly, asString(f.Values[0]))
		_, err2 := time.Parse(time.DateOnly, asString(f.Values[1]))
		return err1 == nil && err2 == nil
	case CommonFilterOperatorEq, CommonFilterOperatorNotEq, CommonFilterOperatorLt, CommonFilterOperatorLte,
		CommonFilterOperatorGt, CommonFilterOperatorGte, CommonFilterOperatorIn:
		return true
	}
	return false
}

// Filters joins a list of filters with AND; an empty list matches everything.
type Filters []*CommonFilter

func (fs Filters) Build(builder clause.Builder) {
	n := 0
	for _, f := range fs {
		if !f.writes() {
			continue
		}
		if n > 0 {
			builder.WriteString(" AND ")
		}
		builder.WriteByte('(')
		f.Build(builder)
		builder.WriteByte(')')
		n++
	}
	if n == 0 {
		builder.WriteString("1=1")
	}
}
