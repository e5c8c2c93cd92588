package analysis

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// Column names of the cosmetics chemicals dataset.
const (
	ColCompany         = "CompanyName"
	ColBrand           = "BrandName"
	ColPrimaryCategory = "PrimaryCategory"
	ColSubCategory     = "SubCategory"
	ColProduct         = "ProductName"
	ColChemical        = "ChemicalName"
	ColInitialDate     = "InitialDateReported"
	ColRecentDate      = "MostRecentDateReported"
	ColDiscontinued    = "DiscontinuedDate"
	ColChemicalCreated = "ChemicalCreatedAt"
	ColChemicalUpdated = "ChemicalUpdatedAt"
	ColReportYear      = "ReportYear"
)

// DateColumns are coerced to dates on load when present.
var DateColumns = []string{ColInitialDate, ColRecentDate, ColDiscontinued, ColChemicalCreated, ColChemicalUpdated}

// CategoricalColumns get distinct-value counts in Describe.
var CategoricalColumns = []string{ColCompany, ColBrand, ColPrimaryCategory, ColSubCategory, ColChemical}

// Cells matching one of these are missing values.
var missingTokens = []string{"", "NA", "NaN", "null", "<nil>"}

// LoadOptions controls how the source file is read.
type LoadOptions struct {
	// Delimiter for CSV. If 0, '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// Sheet selects the XLSX worksheet; empty means the first sheet.
	Sheet string
}

// Dataset is the in-memory table every analysis step reads.
type Dataset struct {
	Name string
	Path string

	frame dataframe.DataFrame
	// parsed values of coerced date columns; zero time means missing
	dates map[string][]time.Time
}

// Load reads the file at path into a Dataset, coerces the date columns and
// derives ReportYear. Failures are returned as *LoadError.
func Load(path string, opt LoadOptions) (*Dataset, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &LoadError{Path: path, Kind: ErrDataNotFound, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Path: abs, Kind: ErrDataNotFound}
		}
		return nil, &LoadError{Path: abs, Kind: ErrMalformedData, Err: err}
	}
	if info.IsDir() {
		return nil, &LoadError{Path: abs, Kind: ErrMalformedData, Err: errors.New("path is a directory")}
	}

	var frame dataframe.DataFrame
	if strings.HasSuffix(strings.ToLower(abs), ".xlsx") {
		records, err := readXLSX(abs, opt.Sheet)
		if err != nil {
			return nil, &LoadError{Path: abs, Kind: ErrMalformedData, Err: err}
		}
		if len(records) == 1 {
			frame = emptyFrame(records[0])
		} else {
			frame = dataframe.LoadRecords(records, frameOptions(0)...)
		}
	} else {
		raw, err := os.ReadFile(abs)
		if err != nil {
			return nil, &LoadError{Path: abs, Kind: ErrMalformedData, Err: err}
		}
		raw = bytes.TrimPrefix(raw, utf8BOM)
		delim := opt.Delimiter
		if delim == 0 {
			delim = sniffDelimiter(abs)
		}
		frame = dataframe.ReadCSV(bytes.NewReader(raw), frameOptions(delim)...)
		if frame.Err != nil {
			if header, ok := headerOnly(raw, delim); ok {
				frame = emptyFrame(header)
			}
		}
	}
	if frame.Err != nil {
		return nil, &LoadError{Path: abs, Kind: ErrMalformedData, Err: frame.Err}
	}

	d := &Dataset{Name: filepath.Base(abs), Path: abs, frame: frame, dates: map[string][]time.Time{}}
	if err := d.coerceDates(); err != nil {
		return nil, &LoadError{Path: abs, Kind: ErrMalformedData, Err: err}
	}
	if err := d.deriveReportYear(); err != nil {
		return nil, &LoadError{Path: abs, Kind: ErrMalformedData, Err: err}
	}
	return d, nil
}

// Every column is kept as text; numeric inference happens in Describe so the
// cleaned snapshot round-trips the source values unchanged.
func frameOptions(delim rune) []dataframe.LoadOption {
	opts := []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(missingTokens),
	}
	if delim != 0 {
		opts = append(opts, dataframe.WithDelimiter(delim))
	}
	return opts
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// headerOnly reports whether raw holds a header row and no records. gota
// refuses such input, but it is a valid dataset of zero rows.
func headerOnly(raw []byte, delim rune) ([]string, bool) {
	r := csv.NewReader(bytes.NewReader(raw))
	r.Comma = delim
	recs, err := r.ReadAll()
	if err != nil || len(recs) != 1 {
		return nil, false
	}
	return recs[0], true
}

// emptyFrame builds a zero-row, all-text frame with the given columns.
func emptyFrame(header []string) dataframe.DataFrame {
	cols := make([]series.Series, len(header))
	for i, name := range header {
		cols[i] = series.New([]string{}, series.String, name)
	}
	return dataframe.New(cols...)
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}
	// excelize trims trailing empty cells; square the table to the header width
	width := len(rows[0])
	for i, row := range rows {
		if len(row) == width {
			continue
		}
		sq := make([]string, width)
		copy(sq, row)
		rows[i] = sq
	}
	return rows, nil
}

func (d *Dataset) coerceDates() error {
	for _, col := range DateColumns {
		if !d.Has(col) {
			continue
		}
		raw, ok := d.Column(col)
		parsed := make([]time.Time, len(raw))
		out := make([]string, len(raw))
		for i := range raw {
			out[i] = "NaN"
			if !ok[i] {
				continue
			}
			if t, good := parseDate(raw[i]); good {
				parsed[i] = t
				out[i] = formatDate(t)
			}
		}
		d.frame = d.frame.Mutate(series.New(out, series.String, col))
		if d.frame.Err != nil {
			return fmt.Errorf("coerce %s: %w", col, d.frame.Err)
		}
		d.dates[col] = parsed
	}
	return nil
}

func (d *Dataset) deriveReportYear() error {
	initial, ok := d.dates[ColInitialDate]
	if !ok {
		return nil
	}
	years := make([]string, len(initial))
	for i, t := range initial {
		if t.IsZero() {
			years[i] = "NaN"
			continue
		}
		years[i] = strconv.Itoa(t.Year())
	}
	d.frame = d.frame.Mutate(series.New(years, series.Int, ColReportYear))
	if d.frame.Err != nil {
		return fmt.Errorf("derive %s: %w", ColReportYear, d.frame.Err)
	}
	return nil
}

// Len returns the number of records.
func (d *Dataset) Len() int { return d.frame.Nrow() }

// Columns returns column names in file order; ReportYear, when derived, is last.
func (d *Dataset) Columns() []string { return d.frame.Names() }

// Has reports whether the named column is present.
func (d *Dataset) Has(col string) bool {
	for _, n := range d.frame.Names() {
		if n == col {
			return true
		}
	}
	return false
}

// Column returns the raw text of a column and a validity mask (false = missing).
// An absent column reads as Len() missing values.
func (d *Dataset) Column(col string) ([]string, []bool) {
	n := d.Len()
	if !d.Has(col) {
		return make([]string, n), make([]bool, n)
	}
	s := d.frame.Col(col)
	vals := s.Records()
	nan := s.IsNaN()
	ok := make([]bool, len(nan))
	for i, isNaN := range nan {
		ok[i] = !isNaN
	}
	return vals, ok
}

// Dates returns the parsed values of a coerced date column; zero means missing.
func (d *Dataset) Dates(col string) ([]time.Time, bool) {
	t, ok := d.dates[col]
	return t, ok
}

// Years returns ReportYear values with a validity mask.
func (d *Dataset) Years() ([]int, []bool, bool) {
	if !d.Has(ColReportYear) {
		return nil, nil, false
	}
	raw, ok := d.Column(ColReportYear)
	years := make([]int, len(raw))
	for i := range raw {
		if !ok[i] {
			continue
		}
		y, err := strconv.Atoi(raw[i])
		if err != nil {
			ok[i] = false
			continue
		}
		years[i] = y
	}
	return years, ok, true
}

// IsDate reports whether col was coerced to dates on load.
func (d *Dataset) IsDate(col string) bool {
	_, ok := d.dates[col]
	return ok
}

// Frame exposes the underlying gota DataFrame.
func (d *Dataset) Frame() dataframe.DataFrame { return d.frame }

// Records returns the header followed by every row, missing cells blank.
func (d *Dataset) Records() [][]string {
	names := d.Columns()
	cols := make([][]string, len(names))
	valid := make([][]bool, len(names))
	for j, name := range names {
		cols[j], valid[j] = d.Column(name)
	}
	out := make([][]string, 0, d.Len()+1)
	out = append(out, append([]string(nil), names...))
	for i := 0; i < d.Len(); i++ {
		row := make([]string, len(names))
		for j := range names {
			if valid[j][i] {
				row[j] = cols[j][i]
			}
		}
		out = append(out, row)
	}
	return out
}
