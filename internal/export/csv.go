// Package export writes analysis results to disk: CSV tables, an optional
// XLSX summary workbook and an optional JSON run manifest.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/KaramelBytes/cosmochem-cli/internal/analysis"
	"github.com/KaramelBytes/cosmochem-cli/internal/utils"
)

// WriteCSV writes header and rows to path atomically.
func WriteCSV(path string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if len(header) > 0 {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for i, rec := range rows {
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

// WriteDataset writes the full dataset, ReportYear included, with missing
// cells left blank.
func WriteDataset(path string, d *analysis.Dataset) error {
	recs := d.Records()
	return WriteCSV(path, recs[0], recs[1:])
}

// WriteCounts writes a two-column table: keyName and "Count".
func WriteCounts(path, keyName string, counts []analysis.Count) error {
	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{c.Value, strconv.Itoa(c.N)}
	}
	return WriteCSV(path, []string{keyName, "Count"}, rows)
}

// WriteCompanyStats writes CompanyName, ProductName and ChemicalName columns
// holding distinct product and chemical counts per company.
func WriteCompanyStats(path string, stats []analysis.CompanyStat) error {
	rows := make([][]string, len(stats))
	for i, s := range stats {
		rows[i] = []string{s.Company, strconv.Itoa(s.Products), strconv.Itoa(s.Chemicals)}
	}
	return WriteCSV(path, []string{analysis.ColCompany, analysis.ColProduct, analysis.ColChemical}, rows)
}
