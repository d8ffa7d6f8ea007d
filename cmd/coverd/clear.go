package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop inline blobs on rows that already have a cover file",
	Long: `Null the inline cover payload on every track and album whose path pointer
is already set. Destructive: run only after verifying migration or sync
succeeded, since the blob is the only copy until then.`,
	RunE: runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "confirm clearing inline cover data")
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		return fmt.Errorf("clearing inline covers is destructive; re-run with --yes to confirm")
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	cleared, err := db.ClearMigratedInline()
	if err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}

	fmt.Printf("Cleared %d inline cover entries\n", cleared)
	return nil
}
