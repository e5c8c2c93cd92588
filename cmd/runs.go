package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/KaramelBytes/cosmochem-cli/internal/store"
	"github.com/spf13/cobra"
)

var (
	runsDB   string
	runsShow string
	runsTop  int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List analysis runs recorded in the history database",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := runsDB
		if path == "" {
			path = activeConfig().HistoryDB
		}
		if path == "" {
			return fmt.Errorf("no history database: pass --db or set history_db")
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("history database %s: %w", path, err)
		}
		st, err := store.Open(path)
		if err != nil {
			return err
		}
		defer st.Close()

		out := cmd.OutOrStdout()
		if runsShow != "" {
			counts, err := st.ChemicalCounts(runsShow)
			if err != nil {
				return err
			}
			if len(counts) == 0 {
				fmt.Fprintln(out, "(no chemical counts for run)")
				return nil
			}
			if runsTop > 0 && len(counts) > runsTop {
				counts = counts[:runsTop]
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CHEMICAL\tCOUNT")
			for _, c := range counts {
				fmt.Fprintf(tw, "%s\t%d\n", c.Value, c.N)
			}
			return tw.Flush()
		}

		runs, err := st.ListRuns()
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "(no runs)")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTIMESTAMP\tRECORDS\tSOURCE\tRESULTS")
		for _, r := range runs {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", r.ID, r.Timestamp, r.Records, r.Source, r.ResultDir)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.Flags().StringVar(&runsDB, "db", "", "history database (default history_db from config)")
	runsCmd.Flags().StringVar(&runsShow, "show", "", "print the chemical counts stored for this run id")
	runsCmd.Flags().IntVar(&runsTop, "top", 0, "with --show, limit to the N most frequent chemicals")
}
