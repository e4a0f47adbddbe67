package format

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// FormatSize formats a byte count as a human-readable string
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatRelativeTime formats t relative to now
func FormatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute") + " ago"
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour") + " ago"
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day") + " ago"
	default:
		return t.Format("Jan 2, 2006")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// TruncateText truncates text to maxLen runes with ellipsis
func TruncateText(text string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	runes := []rune(text)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// TruncateLines keeps the first maxLines lines and notes how many were cut
func TruncateLines(text string, maxLines int) string {
	if maxLines <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) <= maxLines {
		return text
	}
	return strings.Join(lines[:maxLines], "\n") + fmt.Sprintf("\n... (%d more lines)", len(lines)-maxLines)
}

// SingleLine collapses line breaks for previews
func SingleLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// IndentText indents each line with the given prefix
func IndentText(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// CreateBox creates a simple text box with title
func CreateBox(title, content string, opts Options) string {
	if content == "" {
		return ""
	}
	return DimIf("▼ "+title, opts.UseColors) + "\n" + IndentText(content, "  ")
}

// CreateSeparator creates a visual separator line
func CreateSeparator(opts Options) string {
	return DimIf(strings.Repeat("─", 40), opts.UseColors)
}
