package reporting

import (
	"fmt"
	"sort"
	"strings"

	"swaption-lab/internal/dataset"
	"swaption-lab/internal/domain"
	"swaption-lab/internal/fidelity"
)

// headRows is the number of sample rows the summary shows.
const headRows = 5

// headColumns are the columns of the head sample.
var headColumns = []string{
	domain.ColTradeID,
	domain.ColCurrency,
	domain.ColStrike,
	domain.ColIFRS13Level,
}

// DistLine is one value of a categorical distribution.
type DistLine struct {
	Value string
	Count int
	Pct   float64
}

// CrosstabRow is one PnL-flag row of the flag × level crosstab,
// normalized so its cells sum to 100%.
type CrosstabRow struct {
	Flag  string
	Cells []float64 // percentage per level, aligned with Summary.CrosstabLevels
}

// Summary is the console report of one run.
type Summary struct {
	Path string
	Rows int

	HeadColumns []string
	Head        [][]string

	LevelDist []DistLine

	// PnL sections, present only when the flag column exists.
	PnLDist        []DistLine
	CrosstabLevels []string
	Crosstab       []CrosstabRow

	Fidelity fidelity.Result
}

// BuildSummary assembles the summary from the final table.
func BuildSummary(tbl *dataset.Table, path string, fid fidelity.Result) (*Summary, error) {
	s := &Summary{
		Path:        path,
		Rows:        tbl.Len(),
		HeadColumns: headColumns,
		Fidelity:    fid,
	}

	head, err := tbl.Head(headRows)
	if err != nil {
		return nil, fmt.Errorf("build summary: %w", err)
	}
	for _, name := range headColumns {
		col, err := renderColumn(head, name)
		if err != nil {
			return nil, fmt.Errorf("build summary: %w", err)
		}
		for i, v := range col {
			if i == len(s.Head) {
				s.Head = append(s.Head, make([]string, 0, len(headColumns)))
			}
			s.Head[i] = append(s.Head[i], v)
		}
	}

	levels, err := tbl.Strings(domain.ColIFRS13Level)
	if err != nil {
		return nil, fmt.Errorf("build summary: %w", err)
	}
	s.LevelDist = distribution(levels)

	if _, err := tbl.Type(domain.ColDay2PnLFlag); err == nil {
		flags, err := tbl.Strings(domain.ColDay2PnLFlag)
		if err != nil {
			return nil, fmt.Errorf("build summary: %w", err)
		}
		s.PnLDist = distribution(flags)
		s.CrosstabLevels, s.Crosstab = crosstab(flags, levels)
	}

	return s, nil
}

// distribution counts values and orders them by descending count,
// name-ascending on ties. Percentages are counts*100/n.
func distribution(vals []string) []DistLine {
	counts := make(map[string]int, 4)
	for _, v := range vals {
		counts[v]++
	}

	lines := make([]DistLine, 0, len(counts))
	for v, c := range counts {
		lines = append(lines, DistLine{
			Value: v,
			Count: c,
			Pct:   float64(c) * 100 / float64(len(vals)),
		})
	}
	sort.Slice(lines, func(a, b int) bool {
		if lines[a].Count != lines[b].Count {
			return lines[a].Count > lines[b].Count
		}
		return lines[a].Value < lines[b].Value
	})
	return lines
}

// crosstab builds the flag × level table with each flag row normalized
// to percentages.
func crosstab(flags, levels []string) ([]string, []CrosstabRow) {
	levelSet := uniqueSorted(levels)
	flagSet := uniqueSorted(flags)

	levelIdx := make(map[string]int, len(levelSet))
	for i, l := range levelSet {
		levelIdx[l] = i
	}

	rows := make([]CrosstabRow, len(flagSet))
	totals := make([]int, len(flagSet))
	flagIdx := make(map[string]int, len(flagSet))
	for i, f := range flagSet {
		flagIdx[f] = i
		rows[i] = CrosstabRow{Flag: f, Cells: make([]float64, len(levelSet))}
	}

	for i := range flags {
		rows[flagIdx[flags[i]]].Cells[levelIdx[levels[i]]]++
		totals[flagIdx[flags[i]]]++
	}
	for i := range rows {
		for j := range rows[i].Cells {
			rows[i].Cells[j] = rows[i].Cells[j] * 100 / float64(totals[i])
		}
	}
	return levelSet, rows
}

func uniqueSorted(vals []string) []string {
	seen := make(map[string]struct{}, 4)
	var out []string
	for _, v := range vals {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// RenderSummary renders the summary as the human-readable console report.
func RenderSummary(s *Summary) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Synthetic dataset saved to %s (%d rows)\n\n", s.Path, s.Rows))

	sb.WriteString("Sample (first rows):\n")
	widths := make([]int, len(s.HeadColumns))
	for i, name := range s.HeadColumns {
		widths[i] = len(name)
		for _, row := range s.Head {
			if len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
	}
	writePadded(&sb, s.HeadColumns, widths)
	for _, row := range s.Head {
		writePadded(&sb, row, widths)
	}
	sb.WriteByte('\n')

	sb.WriteString("[AFTER SYNTHESIS] ifrs13_level distribution (%):\n")
	writeDist(&sb, s.LevelDist)

	if s.PnLDist != nil {
		sb.WriteString("\n[AFTER SYNTHESIS] Day2_Pnl_Above_Threshold distribution (%):\n")
		writeDist(&sb, s.PnLDist)

		sb.WriteString("\nDay2_Pnl_Above_Threshold x ifrs13_level (% within flag):\n")
		sb.WriteString("  " + strings.Repeat(" ", 4))
		for _, l := range s.CrosstabLevels {
			sb.WriteString(fmt.Sprintf("  %10s", l))
		}
		sb.WriteByte('\n')
		for _, row := range s.Crosstab {
			sb.WriteString(fmt.Sprintf("  %-4s", row.Flag))
			for _, c := range row.Cells {
				sb.WriteString(fmt.Sprintf("  %10.2f", c))
			}
			sb.WriteByte('\n')
		}
	}

	sb.WriteByte('\n')
	if s.Fidelity.Clean() {
		sb.WriteString(fmt.Sprintf("Fidelity: all %d rows satisfy the IFRS 13 rule\n", s.Fidelity.Total))
	} else {
		sb.WriteString(fmt.Sprintf("Fidelity: %d of %d rows violate the IFRS 13 rule (labels kept as synthesized)\n",
			s.Fidelity.Violations, s.Fidelity.Total))
	}

	return sb.String()
}

func writePadded(sb *strings.Builder, cells []string, widths []int) {
	sb.WriteString("  ")
	for i, c := range cells {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(fmt.Sprintf("%-*s", widths[i], c))
	}
	sb.WriteByte('\n')
}

func writeDist(sb *strings.Builder, lines []DistLine) {
	for _, l := range lines {
		sb.WriteString(fmt.Sprintf("  %-10s %6.2f\n", l.Value, l.Pct))
	}
}
