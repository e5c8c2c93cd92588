package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/KaramelBytes/cosmochem-cli/internal/analysis"
	"github.com/KaramelBytes/cosmochem-cli/internal/analyzer"
	"github.com/KaramelBytes/cosmochem-cli/internal/chart"
	cfgpkg "github.com/KaramelBytes/cosmochem-cli/internal/config"
	"github.com/KaramelBytes/cosmochem-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	noWait  bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "cosmochem",
	Short: "Exploratory analysis of chemicals reported in cosmetic products",
	Long: `cosmochem loads the chemicals-in-cosmetics dataset, prints descriptive statistics and
aggregations by chemical, company, category and year, renders charts, and saves a cleaned
copy of the data with summary tables into a timestamped results directory.

Run without a subcommand to analyze the configured data file (default data/chemicals-in-cosmetics.csv).`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := activeConfig()
		fmt.Fprintln(cmd.OutOrStdout(), "---- Cosmetic Data Analysis ----")
		err := runAnalysis(cmd, c.DataPath, buildOptions(c, cmd.OutOrStdout()))
		waitForEnter(cmd)
		return err
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.cosmochem/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging on stderr")
	rootCmd.PersistentFlags().BoolVar(&noWait, "no-wait", false, "do not wait for Enter before exiting")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}

// activeConfig returns the loaded config, or defaults when none could be loaded.
func activeConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return cfgpkg.Defaults()
}

func newLogger(c *cfgpkg.Global) *slog.Logger {
	level := c.LogLevel
	if debug {
		level = "debug"
	}
	return logging.New(level, os.Stderr)
}

// buildOptions maps configuration onto analyzer options.
func buildOptions(c *cfgpkg.Global, out io.Writer) analyzer.Options {
	opt := analyzer.DefaultOptions()
	opt.ResultsDir = c.ResultsDir
	if c.FallbackDir != "" {
		opt.FallbackDir = c.FallbackDir
	}
	opt.Load.Delimiter, _ = parseDelimiter(c.Delimiter)
	opt.Limits = analysis.Limits{
		TopChemicals:    c.TopChemicals,
		TopGroups:       c.TopGroups,
		TopCompanies:    c.TopCompanies,
		TrendChemicals:  c.TrendChemicals,
		TopDiscontinued: c.TopDiscontinued,
		TopBrands:       c.TopBrands,
	}
	opt.ChartSize = chart.Size{Width: c.ChartWidthIn, Height: c.ChartHeightIn}
	opt.ExportXLSX = c.ExportXLSX
	opt.WriteManifest = c.WriteManifest
	opt.HistoryDB = c.HistoryDB
	opt.Out = out
	opt.Logger = newLogger(c)
	return opt
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case ";":
		return ';', nil
	case "\t", "tab":
		return '\t', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %s (use ',' | ';' | 'tab')", s)
	}
}

// runAnalysis runs the full analysis of path. A load failure is returned so
// the process exits non-zero.
func runAnalysis(cmd *cobra.Command, path string, opt analyzer.Options) error {
	a := analyzer.New(path, opt)
	state, err := a.RunFullAnalysis()
	if err != nil {
		return fmt.Errorf("analysis aborted (%s): %w", state, err)
	}
	return nil
}
