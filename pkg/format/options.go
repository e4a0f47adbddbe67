package format

import (
	"os"

	"github.com/mattn/go-isatty"

	"github.com/berrythewa/clipsense/internal/types"
)

// ANSI escape codes
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red          = "\033[31m"
	Green        = "\033[32m"
	Yellow       = "\033[33m"
	Blue         = "\033[34m"
	Magenta      = "\033[35m"
	Cyan         = "\033[36m"
	Gray         = "\033[37m"
	BrightYellow = "\033[93m"
	BrightBlue   = "\033[94m"
	BrightCyan   = "\033[96m"
)

// Options controls formatting behavior
type Options struct {
	UseColors    bool
	UseIcons     bool
	MaxWidth     int  // Max content width (0 = no limit)
	MaxLines     int  // Max content lines (0 = no limit)
	ShowMetadata bool // Show id, app, copy count
	Compact      bool // Use compact single-line format
}

// DefaultOptions returns sensible defaults
func DefaultOptions() Options {
	return Options{
		UseColors:    true,
		UseIcons:     true,
		MaxWidth:     80,
		MaxLines:     10,
		ShowMetadata: true,
	}
}

// CompactOptions returns options for compact single-line display
func CompactOptions() Options {
	opts := DefaultOptions()
	opts.Compact = true
	opts.ShowMetadata = false
	opts.MaxLines = 1
	return opts
}

// ForTerminal disables colors and icons unless f is a terminal and NO_COLOR is unset
func (o Options) ForTerminal(f *os.File) Options {
	tty := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	if !tty || os.Getenv("NO_COLOR") != "" {
		o.UseColors = false
	}
	if !tty {
		o.UseIcons = false
	}
	return o
}

// ContentIcons maps content types to Unicode icons
var ContentIcons = map[types.ContentType]string{
	types.TypeText:  "📝",
	types.TypeImage: "🖼️",
	types.TypeFile:  "📎",
}

// ContentColors maps content types to colors
var ContentColors = map[types.ContentType]string{
	types.TypeText:  Cyan,
	types.TypeImage: Magenta,
	types.TypeFile:  Yellow,
}

// SubtypeColors highlights the classifier label
var SubtypeColors = map[types.Subtype]string{
	types.SubtypeURL:       Blue,
	types.SubtypeEmail:     Blue,
	types.SubtypeIPAddress: Blue,
	types.SubtypeCode:      Green,
	types.SubtypeCommand:   Green,
	types.SubtypeJSON:      Green,
	types.SubtypeColor:     Magenta,
	types.SubtypeTimestamp: BrightYellow,
	types.SubtypeBase64:    Gray,
	types.SubtypeMarkdown:  Gray,
}

// ColorizeIf applies color only if useColors is true
func ColorizeIf(text, color string, useColors bool) string {
	if !useColors || color == "" {
		return text
	}
	return color + text + Reset
}

// DimIf applies dim only if useColors is true
func DimIf(text string, useColors bool) string {
	return ColorizeIf(text, Dim, useColors)
}
