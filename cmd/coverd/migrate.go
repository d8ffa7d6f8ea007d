package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SmileofHaven/Audion-Changes/internal/covers"
	"github.com/SmileofHaven/Audion-Changes/internal/util"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate inline cover blobs to content-addressed files",
	Long: `Migrate every track cover and album art still stored as an inline blob
out to a file under the covers tree, recording the resulting path on the row.

Rows that already carry a path are skipped, so the command is safe to re-run
after a partial failure; only the remainder is retried. Inline blobs are left
in place until 'coverd clear' is run.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
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
	migrator := covers.NewMigrator(db, storage, logger)

	var bar *progressbar.ProgressBar
	migrator.OnProgress = func(processed, total int) {
		if bar == nil && total > 0 && !viper.GetBool("quiet") {
			bar = progressbar.Default(int64(total), "migrating")
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	progress, err := migrator.Run()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Printf("Processed:       %d/%d\n", progress.Processed, progress.Total)
	fmt.Printf("Tracks migrated: %d\n", progress.TracksMigrated)
	fmt.Printf("Albums migrated: %d\n", progress.AlbumsMigrated)
	fmt.Printf("Data migrated:   %s\n", humanize.Bytes(uint64(progress.BytesMigrated)))
	if len(progress.Errors) > 0 {
		util.WarnLog("%d errors during migration (see %s)", len(progress.Errors), logger.Path())
	}

	return nil
}
