// Package format renders history entries and statistics for the terminal.
package format

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/berrythewa/clipsense/internal/types"
)

// Formatter renders entries with a fixed set of options
type Formatter struct {
	options Options
	now     func() time.Time
}

// New creates a new formatter with the given options
func New(opts Options) *Formatter {
	return &Formatter{options: opts, now: time.Now}
}

// NewDefault creates a new formatter with default options
func NewDefault() *Formatter {
	return New(DefaultOptions())
}

// FormatEntry formats a single history entry
func (f *Formatter) FormatEntry(e *types.Entry) string {
	if e == nil {
		return ColorizeIf("No entry", Gray, f.options.UseColors)
	}

	header := f.formatHeader(e)
	if f.options.Compact {
		return header + " " + DimIf(f.preview(e, 50), f.options.UseColors)
	}

	parts := []string{header}
	if f.options.ShowMetadata {
		parts = append(parts, f.formatMetadata(e))
	}
	if body := f.formatBody(e); body != "" {
		parts = append(parts, CreateBox("Content", body, f.options))
	}
	return strings.Join(parts, "\n")
}

// FormatEntries formats a page of history
func (f *Formatter) FormatEntries(entries []*types.Entry) string {
	if len(entries) == 0 {
		return ColorizeIf("No clipboard history", Gray, f.options.UseColors)
	}

	title := fmt.Sprintf("Clipboard History (%d entries)", len(entries))
	if f.options.UseIcons {
		title = "📋 " + title
	}
	parts := []string{ColorizeIf(title, BrightBlue, f.options.UseColors), ""}

	for i, e := range entries {
		index := DimIf(fmt.Sprintf("[%d]", i+1), f.options.UseColors)
		if f.options.Compact {
			parts = append(parts, index+" "+f.FormatEntry(e))
			continue
		}
		parts = append(parts, index, f.FormatEntry(e))
		if i < len(entries)-1 {
			parts = append(parts, CreateSeparator(f.options))
		}
	}
	return strings.Join(parts, "\n")
}

func (f *Formatter) formatHeader(e *types.Entry) string {
	var parts []string
	if f.options.UseIcons {
		if icon, ok := ContentIcons[e.ContentType]; ok {
			parts = append(parts, icon)
		}
	}
	parts = append(parts, ColorizeIf(string(e.ContentType), ContentColors[e.ContentType], f.options.UseColors))
	if e.ContentSubtype != "" {
		parts = append(parts, ColorizeIf(string(e.ContentSubtype), SubtypeColors[e.ContentSubtype], f.options.UseColors))
	}
	if e.IsFavorite {
		parts = append(parts, ColorizeIf("★", BrightYellow, f.options.UseColors))
	}
	return strings.Join(parts, " ")
}

func (f *Formatter) formatMetadata(e *types.Entry) string {
	parts := []string{"ID: " + e.ID}
	if e.SourceApp != "" {
		parts = append(parts, "App: "+e.SourceApp)
	}
	parts = append(parts, "Copied: "+FormatRelativeTime(e.CreatedAt, f.now()))
	if e.CopyCount > 1 {
		parts = append(parts, fmt.Sprintf("Copies: %d", e.CopyCount))
	}
	if e.ContentType == types.TypeText {
		parts = append(parts, "Size: "+FormatSize(int64(len(e.ContentData))))
	}
	if lang := detectedLanguage(e); lang != "" {
		parts = append(parts, "Language: "+lang)
	}
	return DimIf(strings.Join(parts, " • "), f.options.UseColors)
}

func (f *Formatter) formatBody(e *types.Entry) string {
	switch e.ContentType {
	case types.TypeImage:
		return imageSummary(e)
	case types.TypeFile:
		files := strings.Split(e.ContentData, "\n")
		return TruncateLines(strings.Join(files, "\n"), f.options.MaxLines)
	default:
		text := TruncateLines(e.ContentData, f.options.MaxLines)
		if f.options.MaxWidth > 0 {
			lines := strings.Split(text, "\n")
			for i, line := range lines {
				lines[i] = TruncateText(line, f.options.MaxWidth)
			}
			text = strings.Join(lines, "\n")
		}
		return text
	}
}

func (f *Formatter) preview(e *types.Entry, maxLen int) string {
	switch e.ContentType {
	case types.TypeImage:
		return TruncateText(imageSummary(e), maxLen)
	case types.TypeFile:
		files := strings.Split(e.ContentData, "\n")
		if len(files) > 1 {
			return TruncateText(fmt.Sprintf("%s (+%d more)", files[0], len(files)-1), maxLen)
		}
		return TruncateText(files[0], maxLen)
	default:
		if e.ContentData == "" {
			return "(empty)"
		}
		return TruncateText(SingleLine(e.ContentData), maxLen)
	}
}

func imageSummary(e *types.Entry) string {
	var env types.ImageEnvelope
	if len(e.Metadata) == 0 || json.Unmarshal(e.Metadata, &env) != nil {
		return e.FilePath
	}
	m := env.ImageMetadata
	return fmt.Sprintf("%s %dx%d %s, %s", e.FilePath, m.Width, m.Height, m.Format, FormatSize(m.FileSize))
}

func detectedLanguage(e *types.Entry) string {
	if e.ContentSubtype != types.SubtypeCode || len(e.Metadata) == 0 {
		return ""
	}
	var meta types.ContentMetadata
	if json.Unmarshal(e.Metadata, &meta) != nil {
		return ""
	}
	return meta.DetectedLanguage
}

// FormatEntry formats a single entry with given options
func FormatEntry(e *types.Entry, opts Options) string {
	return New(opts).FormatEntry(e)
}

// FormatEntries formats a page of history with given options
func FormatEntries(entries []*types.Entry, opts Options) string {
	return New(opts).FormatEntries(entries)
}
