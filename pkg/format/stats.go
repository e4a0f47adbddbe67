package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/berrythewa/clipsense/internal/types"
)

// FormatStats formats history statistics for display
func FormatStats(stats *types.Statistics, opts Options) string {
	parts := []string{title("Clipboard Statistics", "📊", opts), ""}
	parts = append(parts,
		formatStatLine("Total entries", fmt.Sprintf("%d", stats.TotalEntries), opts),
		formatStatLine("Total copies", fmt.Sprintf("%d", stats.TotalCopies), opts),
	)

	if len(stats.MostCopied) > 0 {
		parts = append(parts, "", formatSubHeader("Most copied", opts))
		for _, e := range stats.MostCopied {
			preview := New(opts).preview(e, 50)
			parts = append(parts, fmt.Sprintf("  %3dx  %s", e.CopyCount, preview))
		}
	}

	if len(stats.RecentApps) > 0 {
		parts = append(parts, "", formatSubHeader("Recent apps", opts))
		now := time.Now()
		for _, app := range stats.RecentApps {
			parts = append(parts, fmt.Sprintf("  %-24s %4d  %s",
				TruncateText(app.Name, 24), app.Count,
				DimIf(FormatRelativeTime(app.LastUsed, now), opts.UseColors)))
		}
	}
	return strings.Join(parts, "\n")
}

// FormatCacheStats formats on-disk usage
func FormatCacheStats(stats *types.CacheStatistics, opts Options) string {
	return strings.Join([]string{
		title("Cache", "💾", opts),
		"",
		formatStatLine("Database", FormatSize(stats.DBSize), opts),
		formatStatLine("Images", FormatSize(stats.ImagesSize), opts),
		formatStatLine("Text entries", fmt.Sprintf("%d", stats.TextCount), opts),
		formatStatLine("Image entries", fmt.Sprintf("%d", stats.ImageCount), opts),
	}, "\n")
}

// FormatCleanup summarizes an expiry pass
func FormatCleanup(result *types.CleanupResult, opts Options) string {
	return strings.Join([]string{
		formatStatLine("Text entries removed", fmt.Sprintf("%d", result.DeletedText), opts),
		formatStatLine("Image entries removed", fmt.Sprintf("%d", result.DeletedImages), opts),
		formatStatLine("Image files removed", fmt.Sprintf("%d", result.FilesRemoved), opts),
	}, "\n")
}

func title(text, icon string, opts Options) string {
	if opts.UseIcons {
		text = icon + " " + text
	}
	return ColorizeIf(text, BrightBlue, opts.UseColors)
}

// formatStatLine formats a statistics line with label and value
func formatStatLine(label, value string, opts Options) string {
	if opts.UseColors {
		return fmt.Sprintf("  %s%s:%s %s", BrightCyan, label, Reset, value)
	}
	return fmt.Sprintf("  %s: %s", label, value)
}

// formatSubHeader formats a section subheader
func formatSubHeader(title string, opts Options) string {
	return ColorizeIf(title, BrightBlue, opts.UseColors)
}
