package export

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/cosmochem-cli/internal/analysis"
	"github.com/KaramelBytes/cosmochem-cli/internal/utils"
	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet of a summary workbook.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// WriteWorkbook writes sheets, in order, into a new XLSX file at path.
func WriteWorkbook(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return errors.New("workbook has no sheets")
	}
	f := excelize.NewFile()
	defer f.Close()

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return fmt.Errorf("new sheet %s: %w", sh.Name, err)
		}
		header := make([]any, len(sh.Header))
		for j, h := range sh.Header {
			header[j] = h
		}
		if err := f.SetSheetRow(sh.Name, "A1", &header); err != nil {
			return fmt.Errorf("%s header: %w", sh.Name, err)
		}
		for j := range sh.Header {
			col, err := excelize.ColumnNumberToName(j + 1)
			if err != nil {
				return err
			}
			if err := f.SetColWidth(sh.Name, col, col, 24); err != nil {
				return fmt.Errorf("%s width: %w", sh.Name, err)
			}
		}
		for r, row := range sh.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			row := row
			if err := f.SetSheetRow(sh.Name, cell, &row); err != nil {
				return fmt.Errorf("%s row %d: %w", sh.Name, r+1, err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("encode xlsx: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

// SummarySheets lays out the run's summary tables as workbook sheets.
func SummarySheets(chem analysis.ChemicalSummary, companies []analysis.CompanyStat, adv analysis.AdvancedSummary) []Sheet {
	sheets := []Sheet{
		countSheet("ChemicalCounts", analysis.ColChemical, chem.Counts),
		companySheet(companies),
		countSheet("CategoryDiversity", analysis.ColPrimaryCategory, adv.CategoryDiversity),
	}
	if chem.Trends != nil {
		sh := Sheet{Name: "YearTotals", Header: []string{analysis.ColReportYear, "Count"}}
		for i, n := range chem.Trends.Totals() {
			sh.Rows = append(sh.Rows, []any{chem.Trends.Years[i], n})
		}
		sheets = append(sheets, sh)
	}
	return sheets
}

func countSheet(name, key string, counts []analysis.Count) Sheet {
	sh := Sheet{Name: name, Header: []string{key, "Count"}}
	for _, c := range counts {
		sh.Rows = append(sh.Rows, []any{c.Value, c.N})
	}
	return sh
}

func companySheet(stats []analysis.CompanyStat) Sheet {
	sh := Sheet{Name: "CompanyStats", Header: []string{analysis.ColCompany, analysis.ColProduct, analysis.ColChemical}}
	for _, s := range stats {
		sh.Rows = append(sh.Rows, []any{s.Company, s.Products, s.Chemicals})
	}
	return sh
}
