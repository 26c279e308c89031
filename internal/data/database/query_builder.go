// Package database builds parameterized list queries with sanitized identifiers.
package database

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

type ConditionType string

const (
	Equal              ConditionType = "="
	NotEqual           ConditionType = "!="
	GreaterThan        ConditionType = ">"
	LessThan           ConditionType = "<"
	GreaterThanOrEqual ConditionType = ">="
	LessThanOrEqual    ConditionType = "<="
	ILike              ConditionType = "ILIKE"

	unset = -1
)

type Condition struct {
	Field string
	Type  ConditionType
	Value any
}

func WhereCond(field string, condType ConditionType, value any) Condition {
	return Condition{Field: field, Type: condType, Value: value}
}

type ListQueryOptions struct {
	Table      string
	Columns    []string
	CountOnly  bool
	Conditions []Condition
	OrderBy    []Order
	Limit      int
	Offset     int
}

// Order is one ORDER BY term. Dir must be ASC or DESC; anything else is dropped.
type Order struct {
	Column string
	Dir    string
}

type ListQueryOption func(*ListQueryOptions)

func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{
		Table:  table,
		Limit:  unset,
		Offset: unset,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithColumns sets the columns to select.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) { o.Columns = cols }
}

// WithCondition adds a single condition.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = append(o.Conditions, cond) }
}

// WithOrderBy appends an ordering term; call it again for tie-breakers.
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = append(o.OrderBy, Order{Column: column, Dir: direction})
	}
}

// WithLimit sets the limit. Accepts 0.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// WithOffset sets the offset. Accepts 0.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if offset >= 0 {
			o.Offset = offset
		}
	}
}

// WithCountOnly turns the query into SELECT COUNT(*).
func WithCountOnly() ListQueryOption {
	return func(o *ListQueryOptions) { o.CountOnly = true }
}

func sanitizeIdentifier(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

// BuildListQuery renders options into SQL and positional arguments.
//
//	query, args := BuildListQuery(NewListQueryOptions("training_sessions",
//		WithColumns("id", "title"),
//		WithCondition(WhereCond("starts_at", GreaterThanOrEqual, from)),
//		WithOrderBy("starts_at", "ASC"),
//		WithLimit(20),
//	))
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil {
		return "", nil
	}

	var q strings.Builder
	switch {
	case options.CountOnly:
		q.WriteString("SELECT COUNT(*)")
	case len(options.Columns) == 0:
		q.WriteString("SELECT *")
	default:
		cols := make([]string, len(options.Columns))
		for i, c := range options.Columns {
			cols[i] = sanitizeIdentifier(c)
		}
		q.WriteString("SELECT " + strings.Join(cols, ", "))
	}
	q.WriteString(" FROM " + sanitizeIdentifier(options.Table))

	var args []any
	where := make([]string, 0, len(options.Conditions))
	for _, cond := range options.Conditions {
		if cond.Field == "" || !knownCondition(cond.Type) {
			continue
		}
		args = append(args, cond.Value)
		where = append(where, fmt.Sprintf("%s %s $%d", sanitizeIdentifier(cond.Field), cond.Type, len(args)))
	}
	if len(where) > 0 {
		q.WriteString(" WHERE " + strings.Join(where, " AND "))
	}

	if options.CountOnly {
		return q.String(), args
	}

	order := make([]string, 0, len(options.OrderBy))
	for _, o := range options.OrderBy {
		term := sanitizeIdentifier(o.Column)
		if dir := strings.ToUpper(o.Dir); dir == "ASC" || dir == "DESC" {
			term += " " + dir
		}
		order = append(order, term)
	}
	if len(order) > 0 {
		q.WriteString(" ORDER BY " + strings.Join(order, ", "))
	}

	if options.Limit != unset {
		args = append(args, options.Limit)
		fmt.Fprintf(&q, " LIMIT $%d", len(args))
	}
	if options.Offset != unset {
		args = append(args, options.Offset)
		fmt.Fprintf(&q, " OFFSET $%d", len(args))
	}
	return q.String(), args
}

func knownCondition(t ConditionType) bool {
	switch t {
	case Equal, NotEqual, GreaterThan, LessThan, GreaterThanOrEqual, LessThanOrEqual, ILike:
		return true
	default:
		return false
	}
}
