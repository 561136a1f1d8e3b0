// Package dataset implements the in-process column table passed between the
// generation, synthesis, and post-processing stages, plus the per-column
// semantic metadata the synthesizer consumes.
package dataset

import (
	"fmt"
	"time"
)

// ColType identifies the physical representation of a column.
type ColType int

const (
	ColTypeFloat ColType = iota
	ColTypeString
	ColTypeTime
)

// String returns the column type name.
func (c ColType) String() string {
	switch c {
	case ColTypeFloat:
		return "float"
	case ColTypeString:
		return "string"
	case ColTypeTime:
		return "time"
	default:
		return "unknown"
	}
}

// column holds exactly one backing slice, selected by typ.
type column struct {
	name    string
	typ     ColType
	floats  []float64
	strings []string
	times   []time.Time
}

func (c *column) length() int {
	switch c.typ {
	case ColTypeFloat:
		return len(c.floats)
	case ColTypeString:
		return len(c.strings)
	default:
		return len(c.times)
	}
}

// Table is an ordered collection of equal-length typed columns.
// Not safe for concurrent use; the pipeline is strictly sequential.
type Table struct {
	cols   []column
	byName map[string]int
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{byName: make(map[string]int)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].length()
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.cols)
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.name
	}
	return names
}

// Type returns the physical type of a column.
func (t *Table) Type(name string) (ColType, error) {
	idx, ok := t.byName[name]
	if !ok {
		return 0, fmt.Errorf("column %q: %w", name, ErrColumnNotFound)
	}
	return t.cols[idx].typ, nil
}

func (t *Table) add(c column) error {
	if _, ok := t.byName[c.name]; ok {
		return fmt.Errorf("column %q: %w", c.name, ErrDuplicateColumn)
	}
	if len(t.cols) > 0 && c.length() != t.Len() {
		return fmt.Errorf("column %q has %d rows, table has %d: %w",
			c.name, c.length(), t.Len(), ErrLengthMismatch)
	}
	t.byName[c.name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// AddFloats appends a numeric column. Values are copied.
func (t *Table) AddFloats(name string, vals []float64) error {
	return t.add(column{name: name, typ: ColTypeFloat, floats: append([]float64(nil), vals...)})
}

// AddStrings appends a string column. Values are copied.
func (t *Table) AddStrings(name string, vals []string) error {
	return t.add(column{name: name, typ: ColTypeString, strings: append([]string(nil), vals...)})
}

// AddTimes appends a timestamp column. Values are copied.
func (t *Table) AddTimes(name string, vals []time.Time) error {
	return t.add(column{name: name, typ: ColTypeTime, times: append([]time.Time(nil), vals...)})
}

func (t *Table) lookup(name string, typ ColType) (*column, error) {
	idx, ok := t.byName[name]
	if !ok {
		return nil, fmt.Errorf("column %q: %w", name, ErrColumnNotFound)
	}
	c := &t.cols[idx]
	if c.typ != typ {
		return nil, fmt.Errorf("column %q is %s, not %s: %w", name, c.typ, typ, ErrTypeMismatch)
	}
	return c, nil
}

// Floats returns a copy of a numeric column.
func (t *Table) Floats(name string) ([]float64, error) {
	c, err := t.lookup(name, ColTypeFloat)
	if err != nil {
		return nil, err
	}
	return append([]float64(nil), c.floats...), nil
}

// Strings returns a copy of a string column.
func (t *Table) Strings(name string) ([]string, error) {
	c, err := t.lookup(name, ColTypeString)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), c.strings...), nil
}

// Times returns a copy of a timestamp column.
func (t *Table) Times(name string) ([]time.Time, error) {
	c, err := t.lookup(name, ColTypeTime)
	if err != nil {
		return nil, err
	}
	return append([]time.Time(nil), c.times...), nil
}

// SetFloats replaces the contents of a numeric column.
func (t *Table) SetFloats(name string, vals []float64) error {
	c, err := t.lookup(name, ColTypeFloat)
	if err != nil {
		return err
	}
	if len(vals) != t.Len() {
		return fmt.Errorf("column %q: got %d rows, want %d: %w", name, len(vals), t.Len(), ErrLengthMismatch)
	}
	c.floats = append([]float64(nil), vals...)
	return nil
}

// SetTimes replaces the contents of a timestamp column.
func (t *Table) SetTimes(name string, vals []time.Time) error {
	c, err := t.lookup(name, ColTypeTime)
	if err != nil {
		return err
	}
	if len(vals) != t.Len() {
		return fmt.Errorf("column %q: got %d rows, want %d: %w", name, len(vals), t.Len(), ErrLengthMismatch)
	}
	c.times = append([]time.Time(nil), vals...)
	return nil
}

// Select builds a new table from the given row indices, in order.
// Indices may repeat, which duplicates rows.
func (t *Table) Select(rows []int) (*Table, error) {
	n := t.Len()
	for _, r := range rows {
		if r < 0 || r >= n {
			return nil, fmt.Errorf("row %d of %d: %w", r, n, ErrRowOutOfRange)
		}
	}

	out := NewTable()
	for _, c := range t.cols {
		switch c.typ {
		case ColTypeFloat:
			vals := make([]float64, len(rows))
			for i, r := range rows {
				vals[i] = c.floats[r]
			}
			if err := out.AddFloats(c.name, vals); err != nil {
				return nil, err
			}
		case ColTypeString:
			vals := make([]string, len(rows))
			for i, r := range rows {
				vals[i] = c.strings[r]
			}
			if err := out.AddStrings(c.name, vals); err != nil {
				return nil, err
			}
		case ColTypeTime:
			vals := make([]time.Time, len(rows))
			for i, r := range rows {
				vals[i] = c.times[r]
			}
			if err := out.AddTimes(c.name, vals); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Head returns the first n rows (fewer if the table is shorter).
func (t *Table) Head(n int) (*Table, error) {
	if n > t.Len() {
		n = t.Len()
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return t.Select(rows)
}

// Concat appends other's rows to a copy of t. Schemas must match exactly
// (column names, order, and types).
func (t *Table) Concat(other *Table) (*Table, error) {
	if len(t.cols) != len(other.cols) {
		return nil, fmt.Errorf("width %d vs %d: %w", len(t.cols), len(other.cols), ErrSchemaMismatch)
	}
	for i, c := range t.cols {
		oc := other.cols[i]
		if c.name != oc.name || c.typ != oc.typ {
			return nil, fmt.Errorf("column %d: %q(%s) vs %q(%s): %w",
				i, c.name, c.typ, oc.name, oc.typ, ErrSchemaMismatch)
		}
	}

	out := NewTable()
	for i, c := range t.cols {
		oc := other.cols[i]
		switch c.typ {
		case ColTypeFloat:
			vals := make([]float64, 0, len(c.floats)+len(oc.floats))
			vals = append(vals, c.floats...)
			vals = append(vals, oc.floats...)
			if err := out.AddFloats(c.name, vals); err != nil {
				return nil, err
			}
		case ColTypeString:
			vals := make([]string, 0, len(c.strings)+len(oc.strings))
			vals = append(vals, c.strings...)
			vals = append(vals, oc.strings...)
			if err := out.AddStrings(c.name, vals); err != nil {
				return nil, err
			}
		case ColTypeTime:
			vals := make([]time.Time, 0, len(c.times)+len(oc.times))
			vals = append(vals, c.times...)
			vals = append(vals, oc.times...)
			if err := out.AddTimes(c.name, vals); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
