package analysis

import "sort"

// YearMatrix counts records per (ReportYear, value) pair. Years are rows in
// ascending order, values are columns in ascending order, and combinations
// with no records hold zero.
type YearMatrix struct {
	Years   []int
	Columns []string
	Cells   [][]int // Cells[year][column]
}

// BuildYearMatrix cross-tabulates ReportYear against col. It returns nil when
// the dataset has no ReportYear column. Rows missing either value are skipped.
func BuildYearMatrix(d *Dataset, col string) *YearMatrix {
	years, yok, present := d.Years()
	if !present {
		return nil
	}
	vals, vok := d.Column(col)
	counts := map[int]map[string]int{}
	colSet := map[string]struct{}{}
	for i := range years {
		if !yok[i] || !vok[i] {
			continue
		}
		row := counts[years[i]]
		if row == nil {
			row = map[string]int{}
			counts[years[i]] = row
		}
		row[vals[i]]++
		colSet[vals[i]] = struct{}{}
	}
	m := &YearMatrix{}
	for y := range counts {
		m.Years = append(m.Years, y)
	}
	sort.Ints(m.Years)
	for c := range colSet {
		m.Columns = append(m.Columns, c)
	}
	sort.Strings(m.Columns)
	m.Cells = make([][]int, len(m.Years))
	for i, y := range m.Years {
		m.Cells[i] = make([]int, len(m.Columns))
		for j, c := range m.Columns {
			m.Cells[i][j] = counts[y][c]
		}
	}
	return m
}

// Totals returns the per-year row sums.
func (m *YearMatrix) Totals() []int {
	out := make([]int, len(m.Years))
	for i, row := range m.Cells {
		for _, n := range row {
			out[i] += n
		}
	}
	return out
}

// Series returns the yearly counts of one column, aligned with Years.
func (m *YearMatrix) Series(name string) ([]int, bool) {
	for j, c := range m.Columns {
		if c != name {
			continue
		}
		out := make([]int, len(m.Years))
		for i := range m.Years {
			out[i] = m.Cells[i][j]
		}
		return out, true
	}
	return nil, false
}
