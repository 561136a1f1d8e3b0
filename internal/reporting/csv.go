// Package reporting renders the final dataset as CSV and the console summary
// the run prints: head sample, label distributions, crosstab, fidelity line.
package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"swaption-lab/internal/dataset"
)

// OutputFileName is the fixed name of the generated dataset.
const OutputFileName = "Synthetic_Swaption_Trades_With_IFRS13_Level.csv"

const dateLayout = "2006-01-02"

// RenderCSV renders the table as comma-delimited UTF-8 text: header row,
// then one line per row, no index column. Dates render as calendar days,
// floats in their shortest exact form.
func RenderCSV(tbl *dataset.Table) (string, error) {
	var sb strings.Builder

	names := tbl.Names()
	sb.WriteString(strings.Join(names, ","))
	sb.WriteByte('\n')

	cells := make([][]string, len(names))
	for i, name := range names {
		col, err := renderColumn(tbl, name)
		if err != nil {
			return "", err
		}
		cells[i] = col
	}

	for row := 0; row < tbl.Len(); row++ {
		for i := range cells {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(cells[i][row])
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// WriteCSV renders the table and writes it under dir, creating the directory
// if needed. Returns the written path.
func WriteCSV(dir string, tbl *dataset.Table) (string, error) {
	content, err := RenderCSV(tbl)
	if err != nil {
		return "", fmt.Errorf("render csv: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, OutputFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return path, nil
}

func renderColumn(tbl *dataset.Table, name string) ([]string, error) {
	typ, err := tbl.Type(name)
	if err != nil {
		return nil, err
	}
	switch typ {
	case dataset.ColTypeString:
		return tbl.Strings(name)
	case dataset.ColTypeFloat:
		vals, err := tbl.Floats(name)
		if err != nil {
			return nil, err
		}
		out := make([]string, len(vals))
		for i, v := range vals {
			out[i] = FormatFloat(v)
		}
		return out, nil
	default:
		vals, err := tbl.Times(name)
		if err != nil {
			return nil, err
		}
		out := make([]string, len(vals))
		for i, v := range vals {
			out[i] = v.UTC().Format(dateLayout)
		}
		return out, nil
	}
}

// FormatFloat renders a float in its shortest exact decimal form, so
// integer-valued columns print without a fractional part.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatDate renders a timestamp as a calendar day.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
