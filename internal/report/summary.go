package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/SmileofHaven/Audion-Changes/internal/store"
)

// SummaryReport represents a complete reconciliation summary
type SummaryReport struct {
	GeneratedAt time.Time

	// Representation states
	Tracks *store.StateCounts
	Albums *store.StateCounts

	// Covers tree statistics
	TrackCoverFiles int
	TrackCoverBytes int64
	AlbumArtFiles   int
	AlbumArtBytes   int64
	OrphanFiles     int
	OrphanBytes     int64

	// Albums whose tracks still point at more than one cover file
	MergeCandidates []MergeCandidate

	// Metadata
	DatabasePath string
	CoversRoot   string
	EventLogPath string
}

// MergeCandidate is an album with multiple distinct cover files
type MergeCandidate struct {
	Album         string
	Tracks        int
	DistinctFiles int
}

// GenerateSummaryReport gathers reconciliation state from the store and the
// covers tree
func GenerateSummaryReport(db *store.Store, coversRoot string) (*SummaryReport, error) {
	report := &SummaryReport{
		GeneratedAt:     time.Now(),
		CoversRoot:      coversRoot,
		MergeCandidates: make([]MergeCandidate, 0),
	}

	var err error
	report.Tracks, err = db.TrackStateCounts()
	if err != nil {
		return nil, fmt.Errorf("failed to count track states: %w", err)
	}
	report.Albums, err = db.AlbumStateCounts()
	if err != nil {
		return nil, fmt.Errorf("failed to count album states: %w", err)
	}

	// Gather merge candidates: albums with 2+ tracks over 2+ distinct files
	albums, err := db.DistinctAlbums()
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	for _, album := range albums {
		refs, err := db.TrackCoversByAlbum(album)
		if err != nil {
			continue
		}
		distinct := make(map[string]bool)
		for _, r := range refs {
			distinct[r.CoverPath] = true
		}
		if len(refs) >= 2 && len(distinct) >= 2 {
			report.MergeCandidates = append(report.MergeCandidates, MergeCandidate{
				Album:         album,
				Tracks:        len(refs),
				DistinctFiles: len(distinct),
			})
		}
	}

	// Most fragmented albums first
	sort.Slice(report.MergeCandidates, func(i, j int) bool {
		return report.MergeCandidates[i].DistinctFiles > report.MergeCandidates[j].DistinctFiles
	})
	if len(report.MergeCandidates) > 20 {
		report.MergeCandidates = report.MergeCandidates[:20]
	}

	// Covers tree statistics, with orphans counted against the referenced set
	referenced := make(map[string]bool)
	if paths, err := db.AllTrackCoverPaths(); err == nil {
		for _, p := range paths {
			referenced[filepath.Clean(p)] = true
		}
	}
	if paths, err := db.AllAlbumArtPaths(); err == nil {
		for _, p := range paths {
			referenced[filepath.Clean(p)] = true
		}
	}

	report.TrackCoverFiles, report.TrackCoverBytes = gatherTreeStats(
		filepath.Join(coversRoot, "tracks"), referenced, &report.OrphanFiles, &report.OrphanBytes)
	report.AlbumArtFiles, report.AlbumArtBytes = gatherTreeStats(
		filepath.Join(coversRoot, "albums"), referenced, &report.OrphanFiles, &report.OrphanBytes)

	return report, nil
}

// gatherTreeStats counts files and bytes in one covers subdirectory,
// accumulating unreferenced files into the orphan totals
func gatherTreeStats(dir string, referenced map[string]bool, orphanFiles *int, orphanBytes *int64) (int, int64) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0
	}

	files := 0
	var bytes int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files++
		bytes += info.Size()

		path := filepath.Join(dir, entry.Name())
		if !referenced[filepath.Clean(path)] {
			*orphanFiles++
			*orphanBytes += info.Size()
		}
	}
	return files, bytes
}

// WriteMarkdownReport writes the summary report as Markdown
func WriteMarkdownReport(report *SummaryReport, outputPath string) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var md strings.Builder

	md.WriteString("# Cover Reconciliation - Summary Report\n\n")
	md.WriteString(fmt.Sprintf("**Generated:** %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05")))

	if report.DatabasePath != "" {
		md.WriteString(fmt.Sprintf("**Database:** `%s`\n\n", report.DatabasePath))
	}
	if report.CoversRoot != "" {
		md.WriteString(fmt.Sprintf("**Covers Root:** `%s`\n\n", report.CoversRoot))
	}
	if report.EventLogPath != "" {
		md.WriteString(fmt.Sprintf("**Event Log:** `%s`\n\n", report.EventLogPath))
	}

	md.WriteString("---\n\n")

	md.WriteString("## 📊 Track Covers\n\n")
	writeStateTable(&md, report.Tracks)

	md.WriteString("## 💿 Album Art\n\n")
	writeStateTable(&md, report.Albums)

	md.WriteString("## 🗂 Covers Tree\n\n")
	md.WriteString("| Metric | Value |\n")
	md.WriteString("|--------|-------|\n")
	md.WriteString(fmt.Sprintf("| Track Cover Files | %d (%s) |\n",
		report.TrackCoverFiles, humanize.Bytes(uint64(report.TrackCoverBytes))))
	md.WriteString(fmt.Sprintf("| Album Art Files | %d (%s) |\n",
		report.AlbumArtFiles, humanize.Bytes(uint64(report.AlbumArtBytes))))
	if report.OrphanFiles > 0 {
		md.WriteString(fmt.Sprintf("| Orphaned Files | %d (%s) |\n",
			report.OrphanFiles, humanize.Bytes(uint64(report.OrphanBytes))))
	}
	md.WriteString("\n")

	if len(report.MergeCandidates) > 0 {
		md.WriteString("## 🔍 Merge Candidates (Top 20)\n\n")
		md.WriteString("*Albums whose tracks still reference more than one cover file*\n\n")
		md.WriteString("| Album | Tracks | Distinct Files |\n")
		md.WriteString("|-------|--------|----------------|\n")
		for _, c := range report.MergeCandidates {
			md.WriteString(fmt.Sprintf("| %s | %d | %d |\n",
				truncatePath(c.Album, 60), c.Tracks, c.DistinctFiles))
		}
		md.WriteString("\n")
	}

	md.WriteString("---\n\n")
	md.WriteString("*Run `coverd migrate` to drain inline covers, `coverd merge` to collapse duplicates, ")
	md.WriteString("and `coverd cleanup` to remove orphans.*\n")

	if err := os.WriteFile(outputPath, []byte(md.String()), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

func writeStateTable(md *strings.Builder, counts *store.StateCounts) {
	md.WriteString("| State | Rows |\n")
	md.WriteString("|-------|------|\n")
	md.WriteString(fmt.Sprintf("| Inline Only (pending migration) | %d |\n", counts.InlineOnly))
	md.WriteString(fmt.Sprintf("| Path Only (migrated and cleared) | %d |\n", counts.PathOnly))
	md.WriteString(fmt.Sprintf("| Both (pending clear) | %d |\n", counts.Both))
	md.WriteString(fmt.Sprintf("| Neither | %d |\n", counts.Neither))
	md.WriteString("\n")
}

// truncatePath shortens long strings for display in markdown tables
func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}
