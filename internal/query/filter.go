// Package query composes parameterized PostgreSQL statements from typed filter specs.
//
// Column names always come from code. Caller-supplied values only ever travel
// as bound parameters, and placeholders are numbered by the same call that
// appends the value, so fragment order and argument order cannot drift apart.
package query

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Comparison is the kind of predicate a filter produces.
type Comparison int

const (
	// Equals produces `column = $n`.
	Equals Comparison = iota
	// Contains produces a case-insensitive substring match. With several
	// columns the fragments are OR'd inside one parenthesized group.
	Contains
)

// ErrInvalidColumn is returned when a filter or assignment names something
// that is not a plain (optionally table-qualified) identifier.
var ErrInvalidColumn = errors.New("invalid column identifier")

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*(\.[a-z_][a-z0-9_]*)?$`)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Filter describes one optional predicate. An absent filter contributes
// neither a fragment nor a parameter.
type Filter struct {
	Columns    []string
	Comparison Comparison
	Value      any
	Present    bool
}

// Eq returns a present equality filter.
func Eq(column string, value any) Filter {
	return Filter{Columns: []string{column}, Comparison: Equals, Value: value, Present: true}
}

// OptionalEq returns an equality filter that is present only when value is non-empty.
func OptionalEq(column, value string) Filter {
	return Filter{Columns: []string{column}, Comparison: Equals, Value: value, Present: value != ""}
}

// Search returns a substring filter over one or more columns. It is present
// only when term has non-whitespace content.
func Search(term string, columns ...string) Filter {
	term = strings.TrimSpace(term)
	return Filter{Columns: columns, Comparison: Contains, Value: term, Present: term != ""}
}

// Absent returns a filter that never contributes to a statement.
func Absent() Filter {
	return Filter{}
}

func checkColumn(column string) error {
	if !identPattern.MatchString(column) {
		return fmt.Errorf("%w: %q", ErrInvalidColumn, column)
	}
	return nil
}

// fragment renders the predicate, binding its values through b.
func (f Filter) fragment(b *binder) (string, error) {
	if len(f.Columns) == 0 {
		return "", fmt.Errorf("%w: filter has no columns", ErrInvalidColumn)
	}
	for _, c := range f.Columns {
		if err := checkColumn(c); err != nil {
			return "", err
		}
	}

	switch f.Comparison {
	case Equals:
		if len(f.Columns) != 1 {
			return "", fmt.Errorf("equality filter needs exactly one column, got %d", len(f.Columns))
		}
		return f.Columns[0] + " = " + b.bind(f.Value), nil
	case Contains:
		term, ok := f.Value.(string)
		if !ok {
			return "", fmt.Errorf("contains filter needs a string value, got %T", f.Value)
		}
		pattern := "%" + likeEscaper.Replace(term) + "%"
		parts := make([]string, 0, len(f.Columns))
		for _, c := range f.Columns {
			parts = append(parts, c+" ILIKE "+b.bind(pattern))
		}
		return "(" + strings.Join(parts, " OR ") + ")", nil
	default:
		return "", fmt.Errorf("unknown comparison %d", f.Comparison)
	}
}

// binder hands out positional placeholders in lockstep with its argument list.
type binder struct {
	args []any
}

func (b *binder) bind(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}
