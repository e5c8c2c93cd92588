package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/cosmochem-cli/internal/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteCountsAndCompanyStats(t *testing.T) {
	dir := t.TempDir()
	counts := filepath.Join(dir, "counts.csv")
	require.NoError(t, WriteCounts(counts, analysis.ColChemical, []analysis.Count{{Value: "Silica, amorphous", N: 4}, {Value: "Talc", N: 1}}))

	f, err := os.Open(counts)
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"ChemicalName", "Count"}, {"Silica, amorphous", "4"}, {"Talc", "1"}}, recs)

	stats := filepath.Join(dir, "stats.csv")
	require.NoError(t, WriteCompanyStats(stats, []analysis.CompanyStat{{Company: "Acme", Products: 3, Chemicals: 2}}))
	b, err := os.ReadFile(stats)
	require.NoError(t, err)
	assert.Equal(t, "CompanyName,ProductName,ChemicalName\nAcme,3,2\n", string(b))

	_, err = os.Stat(stats + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriteCSVBadDir(t *testing.T) {
	err := WriteCSV(filepath.Join(t.TempDir(), "missing", "x.csv"), []string{"a"}, nil)
	assert.Error(t, err)
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	matrix := &analysis.YearMatrix{Years: []int{2009, 2011}, Columns: []string{"Talc"}, Cells: [][]int{{2}, {1}}}
	sheets := SummarySheets(
		analysis.ChemicalSummary{Counts: []analysis.Count{{Value: "Talc", N: 3}}, Trends: matrix},
		[]analysis.CompanyStat{{Company: "Acme", Products: 2, Chemicals: 1}},
		analysis.AdvancedSummary{CategoryDiversity: []analysis.Count{{Value: "Makeup", N: 1}}},
	)
	require.Len(t, sheets, 4)
	require.NoError(t, WriteWorkbook(path, sheets))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"ChemicalCounts", "CompanyStats", "CategoryDiversity", "YearTotals"}, f.GetSheetList())

	rows, err := f.GetRows("ChemicalCounts")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"ChemicalName", "Count"}, {"Talc", "3"}}, rows)

	rows, err = f.GetRows("YearTotals")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"ReportYear", "Count"}, {"2009", "2"}, {"2011", "1"}}, rows)
}

func TestSummarySheetsWithoutTrends(t *testing.T) {
	sheets := SummarySheets(analysis.ChemicalSummary{}, nil, analysis.AdvancedSummary{})
	assert.Len(t, sheets, 3)
	assert.Error(t, WriteWorkbook(filepath.Join(t.TempDir(), "x.xlsx"), nil))
}

func TestManifestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	m := NewManifest("", "20240309_140507", "/data/chemicals.csv", 5)
	require.NotEmpty(t, m.RunID)
	m.Files = []string{"a.csv", "b.png"}
	require.NoError(t, m.Save(path))

	got, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, m.RunID, got.RunID)
	assert.Equal(t, m.Files, got.Files)
	assert.Equal(t, 5, got.Records)

	kept := NewManifest("run-1", "", "", 0)
	assert.Equal(t, "run-1", kept.RunID)

	_, err = LoadManifest(filepath.Join(t.TempDir(), "none.json"))
	assert.Error(t, err)
}
