package dataset

import "fmt"

// Kind is the semantic type of a column as seen by the synthesizer.
type Kind int

const (
	// KindNumeric columns are modeled as continuous values.
	KindNumeric Kind = iota
	// KindCategorical columns are modeled by category frequency.
	KindCategorical
	// KindDatetime columns are modeled as continuous epoch values.
	KindDatetime
	// KindID columns are free identifiers and cannot be modeled;
	// an override must reclassify them before fitting.
	KindID
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	case KindDatetime:
		return "datetime"
	case KindID:
		return "id"
	default:
		return "unknown"
	}
}

// ColumnMeta pairs a column name with its semantic kind.
type ColumnMeta struct {
	Name string
	Kind Kind
}

// Metadata holds per-column kinds in table column order.
type Metadata struct {
	Columns []ColumnMeta
}

// Detect classifies every column of the table. Float columns are numeric,
// timestamp columns are datetime. A string column whose values are all
// distinct is an id; other string columns are categorical.
func Detect(t *Table) Metadata {
	meta := Metadata{Columns: make([]ColumnMeta, 0, t.Width())}
	for _, name := range t.Names() {
		typ, _ := t.Type(name)
		var kind Kind
		switch typ {
		case ColTypeFloat:
			kind = KindNumeric
		case ColTypeTime:
			kind = KindDatetime
		default:
			kind = KindCategorical
			if vals, err := t.Strings(name); err == nil && allDistinct(vals) && len(vals) > 1 {
				kind = KindID
			}
		}
		meta.Columns = append(meta.Columns, ColumnMeta{Name: name, Kind: kind})
	}
	return meta
}

func allDistinct(vals []string) bool {
	seen := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		if _, ok := seen[v]; ok {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}

// KindOf returns the kind recorded for a column.
func (m Metadata) KindOf(name string) (Kind, bool) {
	for _, c := range m.Columns {
		if c.Name == name {
			return c.Kind, true
		}
	}
	return 0, false
}

// Override forces a column to the given kind.
func (m *Metadata) Override(name string, kind Kind) error {
	for i, c := range m.Columns {
		if c.Name == name {
			m.Columns[i].Kind = kind
			return nil
		}
	}
	return fmt.Errorf("override column %q: %w", name, ErrColumnNotFound)
}
