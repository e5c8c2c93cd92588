package cmd

import (
	"fmt"

	"github.com/KaramelBytes/cosmochem-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	descDelimiter string
	descSheetName string
)

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Print the structure, missing values and distinct counts of a dataset",
	Long:  "describe loads a dataset and prints its descriptive statistics without running the analysis or writing any results.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		delim, err := parseDelimiter(descDelimiter)
		if err != nil {
			return err
		}
		d, err := analysis.Load(args[0], analysis.LoadOptions{Delimiter: delim, Sheet: descSheetName})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Loaded %d records from %s\n", d.Len(), d.Name)
		return analysis.Describe(d).WriteText(out)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringVar(&descDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default by extension)")
	describeCmd.Flags().StringVar(&descSheetName, "sheet-name", "", "XLSX: sheet name to describe (default first sheet)")
}
