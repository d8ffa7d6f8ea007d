package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SmileofHaven/Audion-Changes/internal/covers"
	"github.com/SmileofHaven/Audion-Changes/internal/util"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge byte-identical cover files within each album",
	Long: `Find tracks of the same album whose cover files are byte-identical and
collapse them to one canonical file (the lexicographically smallest path),
repointing every referencing track and deleting the redundant copies.

Only files in the same 1 KiB size bucket are ever hashed, so large libraries
avoid hashing files that cannot possibly match.`,
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
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
	merger := covers.NewMerger(db, storage, logger)

	result, err := merger.Run()
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}

	fmt.Printf("Albums processed: %d\n", result.AlbumsProcessed)
	fmt.Printf("Covers merged:    %d\n", result.CoversMerged)
	fmt.Printf("Space saved:      %s\n", humanize.Bytes(uint64(result.SpaceSavedBytes)))
	if len(result.Errors) > 0 {
		util.WarnLog("%d errors during merge (see %s)", len(result.Errors), logger.Path())
	}

	return nil
}
