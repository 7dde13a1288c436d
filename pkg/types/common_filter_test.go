package types

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

type sqlBuilder struct {
	sql  []byte
	vars []any
}

func (b *sqlBuilder) WriteByte(c byte) error { b.sql = append(b.sql, c); return nil }
func (b *sqlBuilder) WriteString(s string) (int, error) {
	b.sql = append(b.sql, s...)
	return len(s), nil
}
func (b *sqlBuilder) WriteQuoted(field interface{}) {
	switch v := field.(type) {
	case clause.Column:
		b.sql = append(b.sql, v.Name...)
	case string:
		b.sql = append(b.sql, v...)
	}
}
func (b *sqlBuilder) AddVar(_ clause.Writer, vars ...interface{}) {
	for range vars {
		b.sql = append(b.sql, '?')
	}
	b.vars = append(b.vars, vars...)
}
func (b *sqlBuilder) AddError(error) error { return nil }

func TestFilters_EmptyMatchesAll(t *testing.T) {
	b := &sqlBuilder{}
	Filters{}.Build(b)
	require.Equal(t, "1=1", string(b.sql))

	b = &sqlBuilder{}
	Filters{{Field: "event_type", Operator: CommonFilterOperatorEq}}.Build(b)
	require.Equal(t, "1=1", string(b.sql))
}

func TestFilters_JoinsWithAnd(t *testing.T) {
	b := &sqlBuilder{}
	Filters{
		{Field: "event_type", Operator: CommonFilterOperatorEq, Values: []any{"view"}},
		{Field: "created_at", Operator: CommonFilterOperatorDateRange, Values: []any{"2026-01-01", "2026-01-31"}},
		{Field: "created_at", Operator: CommonFilterOperatorDateRange, Values: []any{"bad", "2026-01-31"}},
	}.Build(b)
	sql := string(b.sql)
	require.Contains(t, sql, "(event_type = ?) AND (")
	require.Contains(t, sql, "created_at >= ? AND created_at < ?")
	require.Len(t, b.vars, 3)
}

func TestCommonFilter_Allowed(t *testing.T) {
	f := &CommonFilter{Field: "profile_id"}
	require.True(t, f.Allowed([]string{"event_type", "profile_id"}))
	require.False(t, f.Allowed([]string{"event_type"}))
}
