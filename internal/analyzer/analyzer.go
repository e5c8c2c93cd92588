// Package analyzer runs the cosmetics chemicals analysis end to end: load,
// describe, chemical, product and cross-cutting aggregations, then persist
// results into a timestamped output directory.
package analyzer

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/cosmochem-cli/internal/analysis"
	"github.com/KaramelBytes/cosmochem-cli/internal/chart"
	"github.com/KaramelBytes/cosmochem-cli/internal/config"
	"github.com/KaramelBytes/cosmochem-cli/internal/logging"
	"github.com/KaramelBytes/cosmochem-cli/internal/utils"
	"github.com/google/uuid"
)

// TimestampLayout names every file of a run: <YYYYMMDD_HHMMSS>_<name>.
const TimestampLayout = "20060102_150405"

// Result file names, before the timestamp prefix.
const (
	FileCleanedData    = "cleaned_data.csv"
	FileChemicalCounts = "chemical_counts.csv"
	FileCompanyStats   = "company_stats.csv"
	FileChemicalTrends = "chemical_trends.png"
	FileDiscontinued   = "discontinued_chemicals.png"
	FileSummaryXLSX    = "summary.xlsx"
	FileManifest       = "manifest.json"
)

// State is where an Analyzer is in its run.
type State int

const (
	StateUninitialized State = iota
	StateLoaded
	StateLoadFailed
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateLoadFailed:
		return "load failed"
	case StateCompleted:
		return "completed"
	default:
		return "uninitialized"
	}
}

// Options configures an Analyzer.
type Options struct {
	ResultsDir  string
	FallbackDir string
	Load        analysis.LoadOptions
	Limits      analysis.Limits
	ChartSize   chart.Size

	ExportXLSX    bool
	WriteManifest bool
	// HistoryDB, when set, is the SQLite file runs are recorded in.
	HistoryDB string

	Out    io.Writer
	Logger *slog.Logger
	Now    func() time.Time
}

// DefaultOptions returns the standard output locations and report sizes.
func DefaultOptions() Options {
	return Options{
		ResultsDir:  "analysis_results",
		FallbackDir: config.DefaultFallbackDir(),
		Limits:      analysis.DefaultLimits(),
		ChartSize:   chart.DefaultSize(),
	}
}

// Analyzer owns one run: its source path, output directory, timestamp and
// the loaded dataset.
type Analyzer struct {
	path string
	opt  Options
	out  io.Writer
	log  *slog.Logger

	resultsDir string
	dirErr     error
	timestamp  string
	runID      string

	data   *analysis.Dataset
	state  State
	charts []string
}

// New records the source path, resolves the output directory (falling back
// once to FallbackDir) and fixes the run timestamp. It never fails; a
// directory that cannot be created surfaces as a save error later.
func New(path string, opt Options) *Analyzer {
	def := DefaultOptions()
	if opt.ResultsDir == "" {
		opt.ResultsDir = def.ResultsDir
	}
	if opt.FallbackDir == "" {
		opt.FallbackDir = def.FallbackDir
	}
	if opt.Limits == (analysis.Limits{}) {
		opt.Limits = def.Limits
	}
	if opt.Out == nil {
		opt.Out = os.Stdout
	}
	if opt.Logger == nil {
		opt.Logger = logging.Discard()
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	a := &Analyzer{
		path:      path,
		opt:       opt,
		out:       opt.Out,
		log:       opt.Logger,
		timestamp: opt.Now().Format(TimestampLayout),
		runID:     uuid.New().String(),
	}
	a.setupDirectories()
	return a
}

func (a *Analyzer) setupDirectories() {
	primary := absOr(a.opt.ResultsDir)
	err := utils.EnsureDir(primary)
	if err == nil {
		a.resultsDir = primary
		fmt.Fprintf(a.out, "\n[STATUS] the results will be saved to: %s\n", primary)
		return
	}
	fmt.Fprintf(a.out, "\n⚠ Warning: could not create the primary results directory: %v\n", err)
	a.log.Warn("primary results dir unavailable", slog.String("dir", primary), slog.String("error", err.Error()))

	fallback := absOr(a.opt.FallbackDir)
	a.resultsDir = fallback
	if err := utils.EnsureDir(fallback); err != nil {
		a.dirErr = fmt.Errorf("create results directory %s: %w", fallback, err)
		fmt.Fprintf(a.out, "✗ Error: could not create fallback directory: %v\n", err)
		a.log.Error("fallback results dir unavailable", slog.String("dir", fallback), slog.String("error", err.Error()))
		return
	}
	fmt.Fprintf(a.out, "[FALLBACK] using directory: %s\n", fallback)
}

func absOr(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// ResultsDir is the directory this run writes into.
func (a *Analyzer) ResultsDir() string { return a.resultsDir }

// Timestamp is the run's file name prefix.
func (a *Analyzer) Timestamp() string { return a.timestamp }

// RunID identifies the run in the manifest and history database.
func (a *Analyzer) RunID() string { return a.runID }

// State reports the current run state.
func (a *Analyzer) State() State { return a.state }

// Dataset returns the loaded dataset, nil before a successful Load.
func (a *Analyzer) Dataset() *analysis.Dataset { return a.data }

// OutputPath returns the full path of a result file for this run.
func (a *Analyzer) OutputPath(name string) string {
	return filepath.Join(a.resultsDir, utils.RunFileName(a.timestamp, name))
}

// Load reads the dataset. On failure the error is reported, the dataset
// stays unset and the state becomes StateLoadFailed.
func (a *Analyzer) Load() error {
	fmt.Fprintln(a.out, "\n[1/5] Loading data...")
	fmt.Fprintf(a.out, "looking for data at: %s\n", absOr(a.path))

	d, err := analysis.Load(a.path, a.opt.Load)
	if err != nil {
		a.data = nil
		a.state = StateLoadFailed
		fmt.Fprintf(a.out, "\n✗ Error: failed to load data: %v\n", err)
		a.log.Error("load failed", slog.String("path", a.path), slog.String("error", err.Error()))
		return err
	}
	a.data = d
	a.state = StateLoaded
	fmt.Fprintf(a.out, "✓ Loaded %d records\n", d.Len())
	a.log.Debug("dataset loaded", slog.String("path", d.Path), slog.Int("rows", d.Len()), slog.Int("columns", len(d.Columns())))
	return nil
}

// Describe prints row count, column types, missing values and distinct
// counts. Requires a loaded dataset.
func (a *Analyzer) Describe() analysis.Description {
	fmt.Fprintln(a.out, "\n[2/5] Running basic analysis...")
	desc := analysis.Describe(a.data)
	a.print(desc)
	return desc
}

// ChemicalAnalysis prints chemical frequencies, per-category counts and, when
// ReportYear exists, yearly totals, and charts the top chemicals over time.
func (a *Analyzer) ChemicalAnalysis() analysis.ChemicalSummary {
	fmt.Fprintln(a.out, "\n[3/5] Analyzing chemical data...")
	s := analysis.SummarizeChemicals(a.data, a.opt.Limits)
	a.print(s)
	if s.Trends != nil && len(s.TrendChemicals) > 0 {
		a.plotTrends(s)
	}
	return s
}

func (a *Analyzer) plotTrends(s analysis.ChemicalSummary) {
	years := make([]float64, len(s.Trends.Years))
	for i, y := range s.Trends.Years {
		years[i] = float64(y)
	}
	c := chart.LineChart{
		Title:  fmt.Sprintf("Top %d Chemicals Over Time", len(s.TrendChemicals)),
		XLabel: "Year",
		YLabel: "Number of Products",
		Size:   a.opt.ChartSize,
	}
	for _, name := range s.TrendChemicals {
		counts, _ := s.Trends.Series(name)
		ys := make([]float64, len(counts))
		for i, n := range counts {
			ys[i] = float64(n)
		}
		c.Lines = append(c.Lines, chart.Line{Name: name, X: years, Y: ys})
	}
	a.savePlot(FileChemicalTrends, c.Save)
}

// ProductAnalysis prints company, category and subcategory views and, when
// DiscontinuedDate exists, the discontinued subset with its chart.
func (a *Analyzer) ProductAnalysis() analysis.ProductSummary {
	fmt.Fprintln(a.out, "\n[4/5] Analyzing product data...")
	s := analysis.SummarizeProducts(a.data, a.opt.Limits)
	a.print(s)
	if s.Discontinued != nil && s.Discontinued.Size > 0 && len(s.Discontinued.Chemicals) > 0 {
		c := chart.BarChart{
			Title:         "Top Chemicals in Discontinued Products",
			YLabel:        "Records",
			LabelRotation: 45,
			Size:          a.opt.ChartSize,
		}
		for _, cnt := range s.Discontinued.Chemicals {
			c.Labels = append(c.Labels, cnt.Value)
			c.Values = append(c.Values, float64(cnt.N))
		}
		a.savePlot(FileDiscontinued, c.Save)
	}
	return s
}

// AdvancedAnalysis prints chemicals per product and per-brand and
// per-category chemical diversity.
func (a *Analyzer) AdvancedAnalysis() analysis.AdvancedSummary {
	fmt.Fprintln(a.out, "\n[5/5] Running advanced analyses...")
	s := analysis.SummarizeAdvanced(a.data, a.opt.Limits)
	a.print(s)
	return s
}

func (a *Analyzer) savePlot(name string, save func(string) error) {
	path := a.OutputPath(name)
	if a.dirErr != nil {
		fmt.Fprintf(a.out, "⚠ Warning: skipped plot %s: %v\n", name, a.dirErr)
		return
	}
	if err := save(path); err != nil {
		fmt.Fprintf(a.out, "⚠ Warning: could not save plot %s: %v\n", name, err)
		a.log.Warn("plot failed", slog.String("file", path), slog.String("error", err.Error()))
		return
	}
	a.charts = append(a.charts, path)
	fmt.Fprintf(a.out, "✓ Saved plot: %s\n", name)
}

type textWriter interface {
	WriteText(w io.Writer) error
}

func (a *Analyzer) print(t textWriter) {
	if err := t.WriteText(a.out); err != nil {
		a.log.Warn("console write failed", slog.String("error", err.Error()))
	}
}

// RunFullAnalysis loads the dataset and, if that succeeds, runs Describe,
// ChemicalAnalysis, ProductAnalysis, AdvancedAnalysis and SaveResults in that
// order. Only a load failure is returned; save failures are reported by
// SaveResults itself.
func (a *Analyzer) RunFullAnalysis() (State, error) {
	if err := a.Load(); err != nil {
		return a.state, err
	}
	a.Describe()
	a.ChemicalAnalysis()
	a.ProductAnalysis()
	a.AdvancedAnalysis()
	_ = a.SaveResults()
	a.state = StateCompleted
	return a.state, nil
}
