package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/cosmochem-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set cosmochem configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := cfg
		out := cmd.OutOrStdout()
		if c == nil {
			fmt.Fprintln(out, "No config loaded, showing defaults")
			c = cfgpkg.Defaults()
		}
		fmt.Fprintf(out, "data_path: %s\n", c.DataPath)
		fmt.Fprintf(out, "results_dir: %s\n", c.ResultsDir)
		fmt.Fprintf(out, "fallback_dir: %s\n", c.FallbackDir)
		if c.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", c.Delimiter)
		}
		fmt.Fprintf(out, "top_chemicals: %d\n", c.TopChemicals)
		fmt.Fprintf(out, "top_groups: %d\n", c.TopGroups)
		fmt.Fprintf(out, "top_companies: %d\n", c.TopCompanies)
		fmt.Fprintf(out, "trend_chemicals: %d\n", c.TrendChemicals)
		fmt.Fprintf(out, "top_discontinued: %d\n", c.TopDiscontinued)
		fmt.Fprintf(out, "top_brands: %d\n", c.TopBrands)
		fmt.Fprintf(out, "chart_width_in: %.1f\n", c.ChartWidthIn)
		fmt.Fprintf(out, "chart_height_in: %.1f\n", c.ChartHeightIn)
		fmt.Fprintf(out, "export_xlsx: %t\n", c.ExportXLSX)
		fmt.Fprintf(out, "write_manifest: %t\n", c.WriteManifest)
		if c.HistoryDB != "" {
			fmt.Fprintf(out, "history_db: %s\n", c.HistoryDB)
		}
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		next := *cfg
		if err := setConfigValue(&next, key, val); err != nil {
			return err
		}
		if err := next.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(&next, cfgFile); err != nil {
			return err
		}
		cfg = &next
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	atoi := func() (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("invalid int for %s: %v", key, val)
		}
		return i, nil
	}
	atof := func() (float64, error) {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid float for %s: %v", key, val)
		}
		return f, nil
	}
	atob := func() (bool, error) {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return false, fmt.Errorf("invalid bool for %s: %v", key, val)
		}
		return b, nil
	}

	var err error
	switch key {
	case "data_path":
		c.DataPath = val
	case "results_dir":
		c.ResultsDir = val
	case "fallback_dir":
		c.FallbackDir = val
	case "delimiter":
		if _, err := parseDelimiter(val); err != nil {
			return err
		}
		if val == "\t" {
			val = "tab"
		}
		c.Delimiter = val
	case "top_chemicals":
		c.TopChemicals, err = atoi()
	case "top_groups":
		c.TopGroups, err = atoi()
	case "top_companies":
		c.TopCompanies, err = atoi()
	case "trend_chemicals":
		c.TrendChemicals, err = atoi()
	case "top_discontinued":
		c.TopDiscontinued, err = atoi()
	case "top_brands":
		c.TopBrands, err = atoi()
	case "chart_width_in":
		c.ChartWidthIn, err = atof()
	case "chart_height_in":
		c.ChartHeightIn, err = atof()
	case "export_xlsx":
		c.ExportXLSX, err = atob()
	case "write_manifest":
		c.WriteManifest, err = atob()
	case "history_db":
		c.HistoryDB = val
	case "log_level":
		c.LogLevel = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return err
}
