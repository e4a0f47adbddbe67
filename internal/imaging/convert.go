package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// ErrUnsupportedFormat is returned for target formats that cannot be encoded
var ErrUnsupportedFormat = errors.New("unsupported target format")

const jpegQuality = 90

// ConvertOptions controls Convert
type ConvertOptions struct {
	// Format is png, jpeg or webp; jpg is accepted as an alias
	Format string
	// Scale multiplies both dimensions; 0 and 1 leave the size unchanged
	Scale float64
}

// Converted is a re-encoded image held in memory
type Converted struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// DataURI renders the image as a data: URI
func (c *Converted) DataURI() string {
	return "data:image/" + c.Format + ";base64," + base64.StdEncoding.EncodeToString(c.Data)
}

// ConvertFile decodes the image at path and re-encodes it
func ConvertFile(path string, opts ConvertOptions) (*Converted, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return Convert(data, opts)
}

// Convert decodes data, optionally rescales it with a Catmull-Rom filter and
// encodes it to the requested format. JPEG output is flattened onto white
// because the format has no alpha channel. WebP output is lossless.
func Convert(data []byte, opts ConvertOptions) (*Converted, error) {
	format := normalizeFormat(opts.Format)
	if format != FormatPNG && format != FormatJPEG && format != FormatWebP {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, opts.Format)
	}

	src, _, err := decodeContainer(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}

	img := src
	if opts.Scale > 0 && opts.Scale != 1 {
		img = resize(src, opts.Scale)
	}

	var buf bytes.Buffer
	switch format {
	case FormatJPEG:
		err = jpeg.Encode(&buf, flatten(img), &jpeg.Options{Quality: jpegQuality})
	case FormatWebP:
		err = nativewebp.Encode(&buf, img, nil)
	default:
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", format, err)
	}

	b := img.Bounds()
	return &Converted{Data: buf.Bytes(), Format: format, Width: b.Dx(), Height: b.Dy()}, nil
}

func normalizeFormat(f string) string {
	switch f = strings.ToLower(strings.TrimSpace(f)); f {
	case "", "png":
		return FormatPNG
	case "jpg", "jpeg":
		return FormatJPEG
	}
	return f
}

func resize(src image.Image, scale float64) image.Image {
	b := src.Bounds()
	w := max(int(float64(b.Dx())*scale), 1)
	h := max(int(float64(b.Dy())*scale), 1)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func flatten(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}
