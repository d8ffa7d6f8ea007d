package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SmileofHaven/Audion-Changes/internal/covers"
	"github.com/SmileofHaven/Audion-Changes/internal/util"
)

var cleanupDryRun bool

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove cover files no row references",
	RunE:  runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "report orphans without deleting them")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	logger, err := newEventLogger()
	if err != nil {
		return err
	}
	defer logger.Close()

	storage := covers.NewStorage(viper.GetString("covers-root"))

	result, err := covers.SweepOrphans(db, storage, logger, cleanupDryRun)
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	verb := "Removed"
	if cleanupDryRun {
		verb = "Would remove"
	}
	fmt.Printf("%s %d orphaned covers (%s)\n", verb, result.FilesRemoved, humanize.Bytes(uint64(result.BytesFreed)))
	if len(result.Errors) > 0 {
		util.WarnLog("%d errors during cleanup", len(result.Errors))
	}

	return nil
}
