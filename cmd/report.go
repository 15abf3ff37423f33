package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize the saved archive",
	Long:  "Aggregate statistics over the saved listings: totals, top authors, price distribution and per-category/city/seller breakdowns.",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().Int("top", 10, "Rows per ranked section")
	reportCmd.Flags().String("format", "table", "Output format: json, table")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	topN, _ := cmd.Flags().GetInt("top")
	report, err := st.BuildReport(cmd.Context(), topN)
	if err != nil {
		return err
	}

	if format, _ := cmd.Flags().GetString("format"); format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printReport(report)
	return nil
}
