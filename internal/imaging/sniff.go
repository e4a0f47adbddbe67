package imaging

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Format names, also used as file extensions
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatGIF  = "gif"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
	FormatWebP = "webp"
	FormatBin  = "bin"
)

type signature struct {
	format string
	match  func([]byte) bool
}

func prefix(p ...byte) func([]byte) bool {
	return func(b []byte) bool { return bytes.HasPrefix(b, p) }
}

var signatures = []signature{
	{FormatPNG, prefix(0x89, 'P', 'N', 'G')},
	{FormatJPEG, prefix(0xFF, 0xD8, 0xFF)},
	{FormatGIF, prefix('G', 'I', 'F', '8')},
	{FormatBMP, prefix('B', 'M')},
	{FormatTIFF, func(b []byte) bool {
		return bytes.HasPrefix(b, []byte{'I', 'I', 0x2A, 0x00}) || bytes.HasPrefix(b, []byte{'M', 'M', 0x00, 0x2A})
	}},
	{FormatWebP, prefix('R', 'I', 'F', 'F')},
}

// Sniff returns the container format suggested by the leading bytes, or ""
func Sniff(data []byte) string {
	for _, s := range signatures {
		if s.match(data) {
			return s.format
		}
	}
	return ""
}

type codec struct {
	format string
	decode func(io.Reader) (image.Image, error)
}

// codecs is the explicit retry order used when image.Decode cannot
// identify the payload on its own.
var codecs = []codec{
	{FormatPNG, png.Decode},
	{FormatJPEG, jpeg.Decode},
	{FormatGIF, gif.Decode},
	{FormatBMP, bmp.Decode},
	{FormatTIFF, tiff.Decode},
	{FormatWebP, webp.Decode},
}

// decodeContainer tries the registered decoders first, then every codec in turn
func decodeContainer(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return img, format, nil
	}
	for _, c := range codecs {
		if img, cerr := c.decode(bytes.NewReader(data)); cerr == nil {
			return img, c.format, nil
		}
	}
	return nil, "", err
}
