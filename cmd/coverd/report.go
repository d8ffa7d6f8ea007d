package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SmileofHaven/Audion-Changes/internal/report"
	"github.com/SmileofHaven/Audion-Changes/internal/util"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a reconciliation summary report",
	Long: `Generate a Markdown summary of the library's cover state: how many rows
carry inline blobs, path pointers, or both; covers tree disk usage and
orphans; and the albums still referencing more than one cover file.

The report is saved to artifacts/reports/<timestamp>/summary.md`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().String("out", "", "output directory (default: artifacts/reports/<timestamp>)")
}

func runReport(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	coversRoot := viper.GetString("covers-root")

	util.InfoLog("Analyzing library state...")
	summary, err := report.GenerateSummaryReport(db, coversRoot)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	summary.DatabasePath = viper.GetString("db")

	outputDir, _ := cmd.Flags().GetString("out")
	if outputDir == "" {
		timestamp := time.Now().Format("20060102-150405")
		outputDir = filepath.Join(viper.GetString("artifacts"), "reports", timestamp)
	}
	outputPath := filepath.Join(outputDir, "summary.md")

	if err := report.WriteMarkdownReport(summary, outputPath); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	util.SuccessLog("Report saved to: %s", outputPath)
	util.InfoLog("  Pending migration: %d tracks, %d albums",
		summary.Tracks.InlineOnly, summary.Albums.InlineOnly)
	util.InfoLog("  Pending clear: %d tracks, %d albums",
		summary.Tracks.Both, summary.Albums.Both)
	if len(summary.MergeCandidates) > 0 {
		util.InfoLog("  Merge candidates: %d albums", len(summary.MergeCandidates))
	}
	if summary.OrphanFiles > 0 {
		util.WarnLog("  Orphaned files: %d", summary.OrphanFiles)
	}

	return nil
}
