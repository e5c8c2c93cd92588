package analysis

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestYearMatrixZeroFill(t *testing.T) {
	d := loadFixture(t)
	m := BuildYearMatrix(d, ColChemical)
	if m == nil {
		t.Fatal("matrix is nil")
	}
	if !reflect.DeepEqual(m.Years, []int{2009, 2011}) {
		t.Fatalf("years = %v", m.Years)
	}
	if !reflect.DeepEqual(m.Columns, []string{"Silica", "Titanium dioxide"}) {
		t.Fatalf("columns = %v", m.Columns)
	}
	if !reflect.DeepEqual(m.Cells, [][]int{{1, 1}, {0, 1}}) {
		t.Fatalf("cells = %v", m.Cells)
	}
	if !reflect.DeepEqual(m.Totals(), []int{2, 1}) {
		t.Fatalf("totals = %v", m.Totals())
	}
	s, ok := m.Series("Silica")
	if !ok || !reflect.DeepEqual(s, []int{1, 0}) {
		t.Fatalf("series = %v %v", s, ok)
	}
	if _, ok := m.Series("Water"); ok {
		t.Fatal("unexpected series")
	}
}

func TestFiveRowScenario(t *testing.T) {
	d := loadFixture(t)
	chem := SummarizeChemicals(d, DefaultLimits())
	if len(chem.Counts) != 2 || Total(chem.Counts) != 5 {
		t.Fatalf("chemical counts = %v", chem.Counts)
	}
	if len(CompanyStats(d)) != 2 {
		t.Fatal("want 2 company rows")
	}
	if !reflect.DeepEqual(chem.TrendChemicals, []string{"Titanium dioxide", "Silica"}) {
		t.Fatalf("trend chemicals = %v", chem.TrendChemicals)
	}
}

func TestSummarizeChemicalsLimits(t *testing.T) {
	d := loadFixture(t)
	lim := DefaultLimits()
	lim.TopChemicals = 1
	lim.TopGroups = 2
	lim.TrendChemicals = 1
	s := SummarizeChemicals(d, lim)
	if len(s.Top) != 1 || s.Top[0].Value != "Titanium dioxide" {
		t.Fatalf("top = %v", s.Top)
	}
	if len(s.ByCategory) != 2 || len(s.TrendChemicals) != 1 {
		t.Fatalf("groups=%d trends=%d", len(s.ByCategory), len(s.TrendChemicals))
	}
	var buf bytes.Buffer
	if err := s.WriteText(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"[TOP CHEMICALS]", "[CHEMICALS BY CATEGORY]", "[CHEMICAL TRENDS OVER TIME]", "2009"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSummarizeProductsDiscontinued(t *testing.T) {
	d := loadFixture(t)
	s := SummarizeProducts(d, DefaultLimits())
	if s.Discontinued == nil || s.Discontinued.Size != 1 {
		t.Fatalf("discontinued = %+v", s.Discontinued)
	}
	if !reflect.DeepEqual(s.Discontinued.Chemicals, []Count{{"Titanium dioxide", 1}}) {
		t.Fatalf("discontinued chemicals = %v", s.Discontinued.Chemicals)
	}
	var buf bytes.Buffer
	if err := s.WriteText(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "[DISCONTINUED PRODUCTS: 1]") {
		t.Fatalf("output:\n%s", buf.String())
	}
}

func TestSummarizeProductsDiscontinuedEmptyAndAbsent(t *testing.T) {
	empty := []string{"CompanyName,ProductName,ChemicalName,DiscontinuedDate", "Acme,A,X,", "Beta,B,Y,"}
	d, err := Load(writeFixture(t, "empty.csv", empty), LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	s := SummarizeProducts(d, DefaultLimits())
	if s.Discontinued == nil || s.Discontinued.Size != 0 || len(s.Discontinued.Chemicals) != 0 {
		t.Fatalf("empty subset = %+v", s.Discontinued)
	}
	var buf bytes.Buffer
	_ = s.WriteText(&buf)
	if !strings.Contains(buf.String(), "[DISCONTINUED PRODUCTS: 0]") {
		t.Fatalf("output:\n%s", buf.String())
	}

	absent := []string{"CompanyName,ProductName,ChemicalName", "Acme,A,X"}
	d, err = Load(writeFixture(t, "absent.csv", absent), LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	s = SummarizeProducts(d, DefaultLimits())
	if s.Discontinued != nil {
		t.Fatalf("absent column should skip subset, got %+v", s.Discontinued)
	}
	buf.Reset()
	_ = s.WriteText(&buf)
	if strings.Contains(buf.String(), "DISCONTINUED") {
		t.Fatalf("output:\n%s", buf.String())
	}
}

func TestSummarizeAdvanced(t *testing.T) {
	d := loadFixture(t)
	s := SummarizeAdvanced(d, DefaultLimits())
	if s.MeanChemicalsPerProduct != 1.25 {
		t.Fatalf("mean = %v", s.MeanChemicalsPerProduct)
	}
	if len(s.Brands) != 4 || s.Brands[0] != (Count{"AcmeBrand", 2}) {
		t.Fatalf("brands = %v", s.Brands)
	}
	var buf bytes.Buffer
	if err := s.WriteText(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Average chemicals per product: 1.") {
		t.Fatalf("output:\n%s", buf.String())
	}
}

func TestDescribe(t *testing.T) {
	d := loadFixture(t)
	desc := Describe(d)
	if desc.Rows != 5 {
		t.Fatalf("rows = %d", desc.Rows)
	}
	byName := map[string]ColumnInfo{}
	for _, c := range desc.Columns {
		byName[c.Name] = c
	}
	checks := []struct {
		col     string
		typ     string
		missing int
	}{
		{ColProduct, "string", 0},
		{ColInitialDate, "datetime", 2},
		{ColDiscontinued, "datetime", 4},
		{ColReportYear, "int", 2},
	}
	for _, c := range checks {
		got := byName[c.col]
		if got.Type != c.typ || got.Missing != c.missing {
			t.Errorf("%s = %+v, want type %s missing %d", c.col, got, c.typ, c.missing)
		}
	}
	wantDistinct := []Count{{ColCompany, 2}, {ColBrand, 4}, {ColPrimaryCategory, 4}, {ColSubCategory, 4}, {ColChemical, 2}}
	if !reflect.DeepEqual(desc.Distinct, wantDistinct) {
		t.Fatalf("distinct = %v", desc.Distinct)
	}
	var buf bytes.Buffer
	if err := desc.WriteText(&buf); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Total records: 5", "[MISSING VALUES]", "CompanyName: 2 unique values"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestInferType(t *testing.T) {
	tests := []struct {
		vals []string
		ok   []bool
		want string
	}{
		{[]string{"1", "2"}, []bool{true, true}, "int"},
		{[]string{"1", "2.5"}, []bool{true, true}, "float"},
		{[]string{"1", "x"}, []bool{true, true}, "string"},
		{[]string{"", "3"}, []bool{false, true}, "int"},
		{[]string{""}, []bool{false}, "string"},
	}
	for _, tt := range tests {
		if got := inferType(tt.vals, tt.ok); got != tt.want {
			t.Errorf("inferType(%v) = %s, want %s", tt.vals, got, tt.want)
		}
	}
}

func TestSafeValTruncatesRunes(t *testing.T) {
	long := strings.Repeat("é", 70)
	got := safeVal(long)
	if !utf8.ValidString(got) {
		t.Fatalf("invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 60 || !strings.HasSuffix(got, "...") {
		t.Fatalf("got %d runes: %q", n, got)
	}
	if got := safeVal(strings.Repeat("é", 40)); got != strings.Repeat("é", 40) {
		t.Fatalf("short value changed: %q", got)
	}
	if got := safeVal("a\tb\nc"); got != "a b c" {
		t.Fatalf("got %q", got)
	}
}
