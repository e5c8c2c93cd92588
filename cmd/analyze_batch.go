package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/cosmochem-cli/internal/analyzer"
	"github.com/spf13/cobra"
)

var (
	abDelimiter  string
	abResultsDir string
	abSheetName  string
	abXLSX       bool
	abManifest   bool
	abHistory    string
	abQuiet      bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Run the full analysis on several CSV/TSV/XLSX files, one results directory each",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}

		c := *activeConfig()
		if abDelimiter != "" {
			c.Delimiter = abDelimiter
		}
		if _, err := parseDelimiter(c.Delimiter); err != nil {
			return err
		}
		if abResultsDir != "" {
			c.ResultsDir = abResultsDir
		}
		if cmd.Flags().Changed("xlsx") {
			c.ExportXLSX = abXLSX
		}
		if cmd.Flags().Changed("manifest") {
			c.WriteManifest = abManifest
		}
		if abHistory != "" {
			c.HistoryDB = abHistory
		}
		if err := c.Validate(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		used := map[string]struct{}{}
		var failed []string
		total := len(files)
		for i, path := range files {
			fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))

			var stepOut io.Writer = out
			if abQuiet {
				stepOut = io.Discard
			}
			opt := buildOptions(&c, stepOut)
			opt.Load.Sheet = abSheetName
			opt.ResultsDir = uniqueResultsDir(c.ResultsDir, path, used)

			a := analyzer.New(path, opt)
			if _, err := a.RunFullAnalysis(); err != nil {
				fmt.Fprintf(out, "✗ Error: %s: %v\n", filepath.Base(path), err)
				failed = append(failed, path)
				continue
			}
			fmt.Fprintf(out, "✓ %s -> %s\n", filepath.Base(path), a.ResultsDir())
		}
		waitForEnter(cmd)
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d files failed: %s", len(failed), total, strings.Join(failed, ", "))
		}
		return nil
	},
}

// expandInputs globs each argument, keeps literal paths that exist, and
// returns the de-duplicated result in sorted order.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path; a missing file fails its own run
			matches = []string{arg}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// uniqueResultsDir names the per-file results directory after the input's
// base name, adding __2, __3... when another input of this batch took it.
func uniqueResultsDir(root, path string, used map[string]struct{}) string {
	base := filepath.Base(path)
	safe := strings.TrimSuffix(base, filepath.Ext(base))
	if safe == "" {
		safe = "dataset"
	}
	dir := filepath.Join(root, safe)
	for idx := 2; ; idx++ {
		if _, taken := used[dir]; !taken {
			break
		}
		dir = filepath.Join(root, fmt.Sprintf("%s__%d", safe, idx))
	}
	used[dir] = struct{}{}
	return dir
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	analyzeBatchCmd.Flags().StringVarP(&abResultsDir, "results-dir", "o", "", "root directory for per-file results (default analysis_results)")
	analyzeBatchCmd.Flags().StringVar(&abSheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	analyzeBatchCmd.Flags().BoolVar(&abXLSX, "xlsx", false, "also write a summary workbook per file")
	analyzeBatchCmd.Flags().BoolVar(&abManifest, "manifest", false, "also write a JSON run manifest per file")
	analyzeBatchCmd.Flags().StringVar(&abHistory, "history", "", "record every run in this SQLite database")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress per-step analysis output")
}
