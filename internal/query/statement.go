package query

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyChangeSet is returned when an update has nothing to assign.
	ErrEmptyChangeSet = errors.New("no fields to update")
	// ErrUnboundedWrite is returned when an UPDATE or DELETE has no present predicate.
	ErrUnboundedWrite = errors.New("write statement has no where predicate")
)

// Statement is final SQL text and its positional arguments.
type Statement struct {
	SQL  string
	Args []any
}

// Select composes a read. Scope is ANDed first, then Filters in declaration
// order, then Static. Static predicates are code-authored and bind nothing.
type Select struct {
	Base    string
	Scope   Filter
	Filters []Filter
	Static  []string
	GroupBy string
	OrderBy string
	Limit   int
}

// Build renders the statement.
func (s Select) Build() (Statement, error) {
	b := &binder{}
	where, err := predicates(b, append([]Filter{s.Scope}, s.Filters...))
	if err != nil {
		return Statement{}, err
	}
	where = append(where, s.Static...)

	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(s.Base))
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	if s.GroupBy != "" {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(s.GroupBy)
	}
	if s.OrderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(s.OrderBy)
	}
	if s.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(b.bind(s.Limit))
	}

	return Statement{SQL: sb.String(), Args: b.args}, nil
}

func predicates(b *binder, filters []Filter) ([]string, error) {
	var out []string
	for _, f := range filters {
		if !f.Present {
			continue
		}
		frag, err := f.fragment(b)
		if err != nil {
			return nil, err
		}
		out = append(out, frag)
	}
	return out, nil
}

// Assignment is one `column = value` pair of an UPDATE.
type Assignment struct {
	Column string
	Value  any
}

// Optional is a change-set value that may be missing from the request.
// SQLValue returns nil for an explicit null.
type Optional interface {
	IsSet() bool
	SQLValue() any
}

// ChangeSet collects the assignments of a partial update in insertion order.
type ChangeSet struct {
	assignments []Assignment
}

// Set records an assignment, replacing an earlier one for the same column.
func (c *ChangeSet) Set(column string, value any) {
	for i := range c.assignments {
		if c.assignments[i].Column == column {
			c.assignments[i].Value = value
			return
		}
	}
	c.assignments = append(c.assignments, Assignment{Column: column, Value: value})
}

// SetOptional records an assignment only when v was supplied.
func (c *ChangeSet) SetOptional(column string, v Optional) {
	if v == nil || !v.IsSet() {
		return
	}
	c.Set(column, v.SQLValue())
}

// Has reports whether column is assigned.
func (c *ChangeSet) Has(column string) bool {
	for _, a := range c.assignments {
		if a.Column == column {
			return true
		}
	}
	return false
}

// Len returns the number of assignments.
func (c *ChangeSet) Len() int {
	return len(c.assignments)
}

// Assignments returns a copy of the recorded assignments.
func (c *ChangeSet) Assignments() []Assignment {
	out := make([]Assignment, len(c.assignments))
	copy(out, c.assignments)
	return out
}

// Update composes a partial UPDATE. Absent Where filters are skipped like in
// a Select, but at least one must be present.
type Update struct {
	Table     string
	Changes   ChangeSet
	Touch     string
	Where     []Filter
	Returning string
}

// Build renders the statement.
func (u Update) Build() (Statement, error) {
	if u.Changes.Len() == 0 {
		return Statement{}, ErrEmptyChangeSet
	}
	if err := checkColumn(u.Table); err != nil {
		return Statement{}, err
	}
	b := &binder{}
	sets := make([]string, 0, u.Changes.Len()+1)
	for _, a := range u.Changes.assignments {
		if err := checkColumn(a.Column); err != nil {
			return Statement{}, err
		}
		sets = append(sets, a.Column+" = "+b.bind(a.Value))
	}
	if u.Touch != "" {
		if err := checkColumn(u.Touch); err != nil {
			return Statement{}, err
		}
		sets = append(sets, u.Touch+" = NOW()")
	}

	where, err := predicates(b, u.Where)
	if err != nil {
		return Statement{}, err
	}
	if len(where) == 0 {
		return Statement{}, ErrUnboundedWrite
	}

	sql := "UPDATE " + u.Table + " SET " + strings.Join(sets, ", ") + " WHERE " + strings.Join(where, " AND ")
	if u.Returning != "" {
		sql += " RETURNING " + u.Returning
	}
	return Statement{SQL: sql, Args: b.args}, nil
}

// Delete composes a DELETE with the same predicate rules as Update.
type Delete struct {
	Table string
	Where []Filter
}

// Build renders the statement.
func (d Delete) Build() (Statement, error) {
	if err := checkColumn(d.Table); err != nil {
		return Statement{}, err
	}
	b := &binder{}
	where, err := predicates(b, d.Where)
	if err != nil {
		return Statement{}, err
	}
	if len(where) == 0 {
		return Statement{}, ErrUnboundedWrite
	}
	return Statement{SQL: "DELETE FROM " + d.Table + " WHERE " + strings.Join(where, " AND "), Args: b.args}, nil
}
