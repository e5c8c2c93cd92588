package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	anaDelimiter  string
	anaResultsDir string
	anaSheetName  string
	anaTop        int
	anaXLSX       bool
	anaManifest   bool
	anaHistory    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Run the full analysis on a CSV/TSV/XLSX file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := *activeConfig()
		path := c.DataPath
		if len(args) == 1 {
			path = args[0]
		}
		if anaDelimiter != "" {
			c.Delimiter = anaDelimiter
		}
		if anaResultsDir != "" {
			c.ResultsDir = anaResultsDir
		}
		if anaTop > 0 {
			c.TopChemicals = anaTop
		}
		if cmd.Flags().Changed("xlsx") {
			c.ExportXLSX = anaXLSX
		}
		if cmd.Flags().Changed("manifest") {
			c.WriteManifest = anaManifest
		}
		if anaHistory != "" {
			c.HistoryDB = anaHistory
		}
		if _, err := parseDelimiter(c.Delimiter); err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		opt := buildOptions(&c, cmd.OutOrStdout())
		opt.Load.Sheet = anaSheetName

		fmt.Fprintln(cmd.OutOrStdout(), "---- Cosmetic Data Analysis ----")
		err := runAnalysis(cmd, path, opt)
		waitForEnter(cmd)
		return err
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default by extension)")
	analyzeCmd.Flags().StringVarP(&anaResultsDir, "results-dir", "o", "", "directory for results (default analysis_results)")
	analyzeCmd.Flags().StringVar(&anaSheetName, "sheet-name", "", "XLSX: sheet name to analyze (default first sheet)")
	analyzeCmd.Flags().IntVar(&anaTop, "top", 0, "number of top chemicals to report (default 20)")
	analyzeCmd.Flags().BoolVar(&anaXLSX, "xlsx", false, "also write a summary workbook")
	analyzeCmd.Flags().BoolVar(&anaManifest, "manifest", false, "also write a JSON run manifest")
	analyzeCmd.Flags().StringVar(&anaHistory, "history", "", "record the run in this SQLite database")
}
