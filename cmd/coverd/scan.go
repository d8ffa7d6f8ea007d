package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SmileofHaven/Audion-Changes/internal/scan"
	"github.com/SmileofHaven/Audion-Changes/internal/util"
)

var scanCmd = &cobra.Command{
	Use:   "scan <directory>",
	Short: "Ingest a music directory into the library",
	Long: `Walk a music directory, read tags from every audio file, and upsert
tracks and albums. Embedded cover pictures are stored inline; run
'coverd migrate' afterwards to move them out to the covers tree.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
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

	scanner := scan.New(db, logger)
	scanner.ShowProgress = !viper.GetBool("quiet")

	result, err := scanner.Scan(args[0])
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	fmt.Printf("Tracks ingested:  %d\n", result.TracksAdded)
	fmt.Printf("Embedded covers:  %d\n", result.CoversFound)
	if len(result.Errors) > 0 {
		util.WarnLog("%d errors during scan", len(result.Errors))
	}

	return nil
}
