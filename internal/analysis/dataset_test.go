package analysis

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

var fixtureRows = []string{
	"ProductName,CompanyName,BrandName,PrimaryCategory,SubCategory,ChemicalName,InitialDateReported,MostRecentDateReported,DiscontinuedDate",
	"Lip Gloss,Acme,AcmeBrand,Makeup,Lip,Titanium dioxide,06/15/2009,08/28/2013,",
	"Lip Gloss,Acme,AcmeBrand,Makeup,Lip,Silica,06/15/2009,08/28/2013,",
	"Face Cream,Acme,AcmeSkin,Skin Care,Moisturizer,Titanium dioxide,01/10/2011,01/10/2011,02/01/2014",
	"Nail Polish,Beta,BetaNail,Nail,Polish,Titanium dioxide,not a date,03/03/2012,",
	"Shampoo,Beta,BetaHair,Hair,Shampoo,Silica,,,",
}

func writeFixture(t *testing.T, name string, rows []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func loadFixture(t *testing.T) *Dataset {
	t.Helper()
	d, err := Load(writeFixture(t, "chemicals.csv", fixtureRows), LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return d
}

func TestLoadCountsRecords(t *testing.T) {
	d := loadFixture(t)
	if d.Len() != len(fixtureRows)-1 {
		t.Fatalf("Len = %d, want %d", d.Len(), len(fixtureRows)-1)
	}
	if d.Name != "chemicals.csv" {
		t.Fatalf("Name = %q", d.Name)
	}
	cols := d.Columns()
	if cols[len(cols)-1] != ColReportYear {
		t.Fatalf("ReportYear should be appended last, got %v", cols)
	}
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"), LoadOptions{})
	if !errors.Is(err, ErrDataNotFound) {
		t.Fatalf("want ErrDataNotFound, got %v", err)
	}
	var le *LoadError
	if !errors.As(err, &le) || !strings.HasSuffix(le.Path, "missing.csv") {
		t.Fatalf("want *LoadError with path, got %#v", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	cases := map[string][]string{
		"ragged": {"a,b,c", "1,2,3", "4,5"},
		"empty":  {""},
	}
	for name, rows := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFixture(t, "bad.csv", rows), LoadOptions{})
			if !errors.Is(err, ErrMalformedData) {
				t.Fatalf("want ErrMalformedData, got %v", err)
			}
		})
	}
	t.Run("directory", func(t *testing.T) {
		_, err := Load(t.TempDir(), LoadOptions{})
		if !errors.Is(err, ErrMalformedData) {
			t.Fatalf("want ErrMalformedData, got %v", err)
		}
	})
}

func TestReportYearFromInitialDate(t *testing.T) {
	d := loadFixture(t)
	years, ok, present := d.Years()
	if !present {
		t.Fatal("ReportYear not derived")
	}
	wantYears := []int{2009, 2009, 2011, 0, 0}
	wantOK := []bool{true, true, true, false, false}
	for i := range wantYears {
		if ok[i] != wantOK[i] || (ok[i] && years[i] != wantYears[i]) {
			t.Fatalf("row %d: year=%d ok=%v, want %d ok=%v", i, years[i], ok[i], wantYears[i], wantOK[i])
		}
	}
}

func TestDateCoercion(t *testing.T) {
	d := loadFixture(t)
	vals, ok := d.Column(ColInitialDate)
	if !ok[0] || vals[0] != "2009-06-15" {
		t.Fatalf("normalized date = %q (ok=%v)", vals[0], ok[0])
	}
	if ok[3] {
		t.Fatalf("unparseable date should be missing, got %q", vals[3])
	}
	if !d.IsDate(ColDiscontinued) || d.IsDate(ColChemical) {
		t.Fatal("unexpected date column set")
	}
	dates, _ := d.Dates(ColDiscontinued)
	if dates[2].Year() != 2014 || !dates[0].IsZero() {
		t.Fatalf("discontinued dates = %v", dates)
	}
}

func TestNoReportYearWithoutInitialDate(t *testing.T) {
	d, err := Load(writeFixture(t, "plain.csv", []string{"ProductName,ChemicalName", "A,X", "B,Y"}), LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if d.Has(ColReportYear) {
		t.Fatal("ReportYear should not be derived")
	}
	if _, _, present := d.Years(); present {
		t.Fatal("Years should report absent")
	}
}

func TestLoadTSVAndDelimiter(t *testing.T) {
	rows := []string{"ProductName\tChemicalName", "A\tX", "B\tY", "C\tX"}
	d, err := Load(writeFixture(t, "data.tsv", rows), LoadOptions{})
	if err != nil {
		t.Fatalf("load tsv: %v", err)
	}
	if d.Len() != 3 || !d.Has(ColChemical) {
		t.Fatalf("tsv: len=%d cols=%v", d.Len(), d.Columns())
	}

	semi := []string{"ProductName;ChemicalName", "A;X", "B;Y"}
	d, err = Load(writeFixture(t, "data.csv", semi), LoadOptions{Delimiter: ';'})
	if err != nil {
		t.Fatalf("load semicolon: %v", err)
	}
	if d.Len() != 2 || !d.Has(ColProduct) {
		t.Fatalf("semicolon: len=%d cols=%v", d.Len(), d.Columns())
	}
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chemicals.xlsx")
	f := excelize.NewFile()
	rows := [][]any{
		{"ProductName", "CompanyName", "ChemicalName", "InitialDateReported", "DiscontinuedDate"},
		{"Lip Gloss", "Acme", "Silica", "06/15/2009"},
		{"Shampoo", "Beta", "Titanium dioxide", "01/10/2011", "02/01/2014"},
		{"Face Cream", "", "Silica", ""},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		row := row
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
	f.Close()

	d, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("load xlsx: %v", err)
	}
	if d.Len() != 3 {
		t.Fatalf("Len = %d, want 3", d.Len())
	}
	_, ok := d.Column(ColCompany)
	if ok[2] {
		t.Fatal("blank company cell should be missing")
	}
	years, yok, _ := d.Years()
	if !yok[1] || years[1] != 2011 || yok[2] {
		t.Fatalf("years=%v ok=%v", years, yok)
	}

	if _, err := Load(path, LoadOptions{Sheet: "Nope"}); !errors.Is(err, ErrMalformedData) {
		t.Fatalf("missing sheet: want ErrMalformedData, got %v", err)
	}
}

func TestAbsentColumnReadsMissing(t *testing.T) {
	d := loadFixture(t)
	vals, ok := d.Column("NoSuchColumn")
	if len(vals) != d.Len() {
		t.Fatalf("len = %d", len(vals))
	}
	for _, good := range ok {
		if good {
			t.Fatal("absent column should be all missing")
		}
	}
}

func TestRecordsBlankMissing(t *testing.T) {
	d := loadFixture(t)
	recs := d.Records()
	if len(recs) != d.Len()+1 {
		t.Fatalf("records = %d", len(recs))
	}
	header := recs[0]
	idx := -1
	for j, h := range header {
		if h == ColReportYear {
			idx = j
		}
	}
	if idx < 0 {
		t.Fatal("ReportYear missing from header")
	}
	if recs[1][idx] != "2009" || recs[5][idx] != "" {
		t.Fatalf("ReportYear cells = %q, %q", recs[1][idx], recs[5][idx])
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"06/15/2009", "2009-06-15", true},
		{"6/5/2009", "2009-06-05", true},
		{"2013-08-28", "2013-08-28", true},
		{"2013-08-28T10:00:00Z", "2013-08-28 10:00:00", true},
		{"", "", false},
		{"soon", "", false},
	}
	for _, tt := range tests {
		got, ok := parseDate(tt.in)
		if ok != tt.ok {
			t.Errorf("parseDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && formatDate(got) != tt.want {
			t.Errorf("parseDate(%q) = %s, want %s", tt.in, formatDate(got), tt.want)
		}
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	rows := []string{"ProductName,CompanyName,ChemicalName,InitialDateReported"}
	d, err := Load(writeFixture(t, "header.csv", rows), LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if d.Len() != 0 {
		t.Fatalf("Len = %d, want 0", d.Len())
	}
	if !d.Has(ColChemical) || !d.Has(ColReportYear) {
		t.Fatalf("columns = %v", d.Columns())
	}
	if got := ValueCounts(d, ColChemical, nil); len(got) != 0 {
		t.Fatalf("counts = %v", got)
	}
	if recs := d.Records(); len(recs) != 1 {
		t.Fatalf("records = %v", recs)
	}
	if s := SummarizeChemicals(d, DefaultLimits()); len(s.Counts) != 0 || len(s.TrendChemicals) != 0 {
		t.Fatalf("summary = %+v", s)
	}
}

func TestLoadHeaderOnlyXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "header.xlsx")
	f := excelize.NewFile()
	header := []any{"ProductName", "ChemicalName"}
	if err := f.SetSheetRow("Sheet1", "A1", &header); err != nil {
		t.Fatalf("set row: %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
	f.Close()

	d, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if d.Len() != 0 || !d.Has(ColProduct) {
		t.Fatalf("len=%d cols=%v", d.Len(), d.Columns())
	}
}

func TestLoadStripsBOM(t *testing.T) {
	rows := []string{"\ufeffChemicalName,CompanyName", "Talc,A", "Talc,B"}
	d, err := Load(writeFixture(t, "bom.csv", rows), LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !d.Has(ColChemical) {
		t.Fatalf("columns = %q", d.Columns())
	}
	if got := ValueCounts(d, ColChemical, nil); len(got) != 1 || got[0].N != 2 {
		t.Fatalf("counts = %v", got)
	}
}
