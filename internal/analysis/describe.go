package analysis

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-gota/gota/series"
)

// ColumnInfo is the declared type and missing-value count of one column.
type ColumnInfo struct {
	Name    string
	Type    string // int|float|datetime|string
	Missing int
}

// Description is the basic profile of a loaded dataset.
type Description struct {
	Rows     int
	Columns  []ColumnInfo
	Distinct []Count // CategoricalColumns present in the dataset
}

// Describe profiles d: row count, column types, missing counts, and distinct
// counts for the categorical columns that are present.
func Describe(d *Dataset) Description {
	desc := Description{Rows: d.Len()}
	for _, name := range d.Columns() {
		vals, ok := d.Column(name)
		info := ColumnInfo{Name: name}
		for _, good := range ok {
			if !good {
				info.Missing++
			}
		}
		switch {
		case d.IsDate(name):
			info.Type = "datetime"
		case d.frame.Col(name).Type() != series.String:
			info.Type = string(d.frame.Col(name).Type())
		default:
			info.Type = inferType(vals, ok)
		}
		desc.Columns = append(desc.Columns, info)
	}
	for _, col := range CategoricalColumns {
		if !d.Has(col) {
			continue
		}
		desc.Distinct = append(desc.Distinct, Count{Value: col, N: CountDistinct(d, col)})
	}
	return desc
}

// inferType picks the narrowest of int, float, string that fits every value.
func inferType(vals []string, ok []bool) string {
	kind := "int"
	seen := false
	for i, v := range vals {
		if !ok[i] {
			continue
		}
		seen = true
		v = strings.TrimSpace(v)
		if kind == "int" {
			if _, err := strconv.ParseInt(v, 10, 64); err == nil {
				continue
			}
			kind = "float"
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return "string"
		}
	}
	if !seen {
		return "string"
	}
	return kind
}

// WriteText renders the description for the console.
func (s Description) WriteText(w io.Writer) error {
	var b strings.Builder
	b.WriteString("\n[DATA STRUCTURE]\n")
	b.WriteString(fmt.Sprintf("Total records: %d\n", s.Rows))
	b.WriteString("\nData types:\n")
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, c := range s.Columns {
		fmt.Fprintf(tw, "%s\t%s\n", c.Name, c.Type)
	}
	tw.Flush()

	b.WriteString("\n[MISSING VALUES]\n")
	tw = tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, c := range s.Columns {
		fmt.Fprintf(tw, "%s\t%d\n", c.Name, c.Missing)
	}
	tw.Flush()

	b.WriteString("\n[UNIQUE COUNTS]\n")
	for _, c := range s.Distinct {
		b.WriteString(fmt.Sprintf("%s: %d unique values\n", c.Value, c.N))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
