package postgres

import (
	"fmt"
	"strings"
	"time"
)

// whereBuilder assembles a parameterised WHERE clause. Empty values are
// skipped so optional filters can be added unconditionally.
type whereBuilder struct {
	conditions []string
	args       []any
	argIndex   int
}

func newWhereBuilder() *whereBuilder {
	return &whereBuilder{argIndex: 1}
}

func (wb *whereBuilder) next() string {
	p := fmt.Sprintf("$%d", wb.argIndex)
	wb.argIndex++
	return p
}

// Add appends "column = value" when value is non-empty.
func (wb *whereBuilder) Add(column, value string) {
	if value == "" {
		return
	}
	wb.conditions = append(wb.conditions, column+" = "+wb.next())
	wb.args = append(wb.args, value)
}

// AddAny appends "column = ANY(values)" when values is non-empty.
func (wb *whereBuilder) AddAny(column string, values []string) {
	if len(values) == 0 {
		return
	}
	wb.conditions = append(wb.conditions, column+" = ANY("+wb.next()+")")
	wb.args = append(wb.args, values)
}

// AddTimestampRange bounds column by from and to. A zero bound is open.
func (wb *whereBuilder) AddTimestampRange(column string, from, to time.Time) {
	if !from.IsZero() {
		wb.conditions = append(wb.conditions, column+" >= "+wb.next())
		wb.args = append(wb.args, from)
	}
	if !to.IsZero() {
		wb.conditions = append(wb.conditions, column+" <= "+wb.next())
		wb.args = append(wb.args, to)
	}
}

// AddRaw appends a condition with no arguments.
func (wb *whereBuilder) AddRaw(condition string) {
	wb.conditions = append(wb.conditions, condition)
}

// NextArgIndex returns the placeholder number the next argument will get.
func (wb *whereBuilder) NextArgIndex() int {
	return wb.argIndex
}

// Build returns the clause with a leading space, or "" with nil args.
func (wb *whereBuilder) Build() (string, []any) {
	if len(wb.conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(wb.conditions, " AND "), wb.args
}
