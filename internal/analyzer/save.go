package analyzer

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/KaramelBytes/cosmochem-cli/internal/analysis"
	"github.com/KaramelBytes/cosmochem-cli/internal/export"
	"github.com/KaramelBytes/cosmochem-cli/internal/store"
	"github.com/KaramelBytes/cosmochem-cli/internal/utils"
)

// SaveResults writes the cleaned dataset, the chemical counts and the company
// stats into the results directory, plus the optional workbook, history
// record and manifest. The first failure stops the remaining writes of this
// call; it is reported and returned. Requires a loaded dataset.
func (a *Analyzer) SaveResults() error {
	fmt.Fprintln(a.out, "\nSaving results...")
	written, err := a.saveResults()
	if err != nil {
		fmt.Fprintf(a.out, "✗ Error saving results: %v\n", err)
		a.log.Error("save failed", slog.String("dir", a.resultsDir), slog.String("error", err.Error()))
		return err
	}
	a.log.Debug("results saved", slog.String("dir", a.resultsDir), slog.Int("files", len(written)))
	fmt.Fprintf(a.out, "✓ Results saved to: %s\n", a.resultsDir)
	return nil
}

func (a *Analyzer) saveResults() ([]string, error) {
	if a.dirErr != nil {
		return nil, &SaveError{File: a.resultsDir, Err: a.dirErr}
	}
	d := a.data
	var written []string
	write := func(name string, fn func(path string) error) error {
		path := a.OutputPath(name)
		if err := fn(path); err != nil {
			return &SaveError{File: path, Err: err}
		}
		written = append(written, path)
		return nil
	}

	counts := analysis.ValueCounts(d, analysis.ColChemical, nil)
	companies := analysis.CompanyStats(d)

	if err := write(FileCleanedData, func(p string) error { return export.WriteDataset(p, d) }); err != nil {
		return written, err
	}
	if err := write(FileChemicalCounts, func(p string) error {
		return export.WriteCounts(p, analysis.ColChemical, counts)
	}); err != nil {
		return written, err
	}
	if err := write(FileCompanyStats, func(p string) error { return export.WriteCompanyStats(p, companies) }); err != nil {
		return written, err
	}
	if a.opt.ExportXLSX {
		sheets := export.SummarySheets(analysis.SummarizeChemicals(d, a.opt.Limits), companies, analysis.SummarizeAdvanced(d, a.opt.Limits))
		if err := write(FileSummaryXLSX, func(p string) error { return export.WriteWorkbook(p, sheets) }); err != nil {
			return written, err
		}
	}
	if a.opt.HistoryDB != "" {
		if err := a.recordHistory(counts, companies); err != nil {
			return written, &SaveError{File: a.opt.HistoryDB, Err: err}
		}
	}
	if a.opt.WriteManifest {
		m := export.NewManifest(a.runID, a.timestamp, d.Path, d.Len())
		m.Files = append(append(m.Files, a.charts...), written...)
		if err := write(FileManifest, m.Save); err != nil {
			return written, err
		}
	}
	return written, nil
}

func (a *Analyzer) recordHistory(counts []analysis.Count, companies []analysis.CompanyStat) error {
	if err := utils.EnsureDir(filepath.Dir(absOr(a.opt.HistoryDB))); err != nil {
		return err
	}
	st, err := store.Open(a.opt.HistoryDB)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.RecordRun(store.Run{
		ID:        a.runID,
		Timestamp: a.timestamp,
		Source:    a.data.Path,
		Records:   a.data.Len(),
		ResultDir: a.resultsDir,
	}, counts, companies)
}
