package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SmileofHaven/Audion-Changes/internal/util"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cover representation states and disk usage",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	trackCounts, err := db.TrackStateCounts()
	if err != nil {
		return err
	}
	albumCounts, err := db.AlbumStateCounts()
	if err != nil {
		return err
	}

	fmt.Println("Tracks:")
	fmt.Printf("  inline only: %d\n", trackCounts.InlineOnly)
	fmt.Printf("  path only:   %d\n", trackCounts.PathOnly)
	fmt.Printf("  both:        %d\n", trackCounts.Both)
	fmt.Printf("  neither:     %d\n", trackCounts.Neither)

	fmt.Println("Albums:")
	fmt.Printf("  inline only: %d\n", albumCounts.InlineOnly)
	fmt.Printf("  path only:   %d\n", albumCounts.PathOnly)
	fmt.Printf("  both:        %d\n", albumCounts.Both)
	fmt.Printf("  neither:     %d\n", albumCounts.Neither)

	root := viper.GetString("covers-root")
	files, bytes := coversTreeUsage(root)
	fmt.Printf("Covers tree %s: %d files, %s\n", root, files, humanize.Bytes(uint64(bytes)))

	if err := db.CheckIntegrity(); err != nil {
		return fmt.Errorf("database integrity: %w", err)
	}
	fmt.Println("Database integrity: ok")

	return nil
}

func coversTreeUsage(root string) (files int, bytes int64) {
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if !os.IsNotExist(err) {
				util.WarnLog("Cannot read %s: %v", path, err)
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			files++
			bytes += info.Size()
		}
		return nil
	})
	if walkErr != nil {
		util.WarnLog("Cannot walk covers tree %s: %v", root, walkErr)
	}
	return files, bytes
}
