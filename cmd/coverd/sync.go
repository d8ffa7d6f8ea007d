package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SmileofHaven/Audion-Changes/internal/covers"
	"github.com/SmileofHaven/Audion-Changes/internal/util"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Point rows at cover files already present on disk",
	Long: `Scan the covers tree for image files named by track or album id and set
the matching rows' path pointers. Useful after files were placed externally
or the database was reset.

Files whose id matches no row are counted as not-found, not errors.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
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

	syncer := covers.NewSyncer(db, viper.GetString("covers-root"), logger)

	progress, err := syncer.Run()
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	fmt.Printf("Tracks synced: %d\n", progress.TracksMigrated)
	fmt.Printf("Albums synced: %d\n", progress.AlbumsMigrated)
	fmt.Printf("Not found:     %d\n", progress.NotFound)
	if len(progress.Errors) > 0 {
		util.WarnLog("%d errors during sync (see %s)", len(progress.Errors), logger.Path())
	}

	return nil
}
