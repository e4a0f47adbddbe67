// Package imaging normalizes clipboard image payloads into stored PNG files.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrBufferSizeMismatch is returned when reported dimensions do not
	// account for the buffer length.
	ErrBufferSizeMismatch = errors.New("buffer size does not match dimensions")
	// ErrUnrecognizedFormat is returned when neither a codec nor a raw
	// buffer shape fits the payload.
	ErrUnrecognizedFormat = errors.New("unrecognized image format")
	// ErrDecodeFailure is returned when a signature matched but no codec
	// could decode the payload and raw bytes are not kept.
	ErrDecodeFailure = errors.New("image decode failed")
)

// ImagesDir is the directory, relative to the data root, that holds ingested images
const ImagesDir = "imgs"

// minRawBytes is the smallest headerless buffer treated as pixels (16x16 RGBA)
const minRawBytes = 16 * 16 * 4

// NormalizedImage describes an ingested image on disk
type NormalizedImage struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Size   int64 `json:"file_size"`
	// Path is relative to the data root, e.g. "imgs/<uuid>.png"
	Path   string `json:"path"`
	Format string `json:"format"`
	// Raw is set when the payload could not be decoded and was kept verbatim
	Raw bool `json:"raw,omitempty"`
}

// Options configures an Ingester
type Options struct {
	// Root is the data directory; images go under Root/imgs
	Root            string
	KeepUndecodable bool
	Logger          *zap.Logger
}

// Ingester turns raw clipboard image bytes into PNG files. It keeps no state
// between calls.
type Ingester struct {
	root            string
	keepUndecodable bool
	logger          *zap.Logger
}

// NewIngester creates the image directory if needed
func NewIngester(opts Options) (*Ingester, error) {
	if opts.Root == "" {
		return nil, errors.New("imaging: root directory is required")
	}
	if err := os.MkdirAll(filepath.Join(opts.Root, ImagesDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingester{
		root:            opts.Root,
		keepUndecodable: opts.KeepUndecodable,
		logger:          logger,
	}, nil
}

// Root returns the data directory images are stored relative to
func (in *Ingester) Root() string {
	return in.root
}

// Ingest normalizes data. Width and height are the dimensions reported by the
// clipboard, or zero when unknown.
func (in *Ingester) Ingest(data []byte, width, height int) (*NormalizedImage, error) {
	if len(data) == 0 {
		return nil, ErrUnrecognizedFormat
	}

	if width > 0 && height > 0 {
		img, err := in.IngestPixels(data, width, height)
		if err == nil {
			return img, nil
		}
		if !errors.Is(err, ErrBufferSizeMismatch) {
			return nil, err
		}
		in.logger.Debug("Reported dimensions do not fit buffer, detecting format",
			zap.Int("width", width),
			zap.Int("height", height),
			zap.Int("bytes", len(data)))
	}

	sniffed := Sniff(data)
	decoded, format, err := decodeContainer(data)
	if err == nil {
		in.logger.Debug("Decoded image container", zap.String("format", format))
		return in.storePNG(decoded)
	}

	// a headerless pixel buffer can start with bytes that look like a weak
	// signature (BM, RIFF, II*), so the raw path runs before giving up on it
	if len(data)%4 == 0 && len(data) >= minRawBytes {
		size := InferDimensions(len(data) / 4)
		img, berr := buildRaw(data, size)
		if berr == nil {
			in.logger.Debug("Treating payload as raw pixel buffer",
				zap.String("sniffed", sniffed),
				zap.Int("width", size.Width),
				zap.Int("height", size.Height))
			return in.storePNG(img)
		}
		if sniffed == "" {
			return nil, fmt.Errorf("%w: %v", ErrUnrecognizedFormat, berr)
		}
	}

	if sniffed != "" {
		if !in.keepUndecodable {
			return nil, fmt.Errorf("%w: %s: %v", ErrDecodeFailure, sniffed, err)
		}
		in.logger.Warn("Keeping undecodable image bytes",
			zap.String("format", sniffed),
			zap.Error(err))
		return in.storeRaw(data, sniffed, width, height)
	}

	return nil, ErrUnrecognizedFormat
}

// IngestPixels stores a packed RGBA buffer of exactly width*height pixels
func (in *Ingester) IngestPixels(data []byte, width, height int) (*NormalizedImage, error) {
	img, err := buildImage(data, Size{width, height})
	if err != nil {
		return nil, err
	}
	return in.storePNG(img)
}

// Resolve maps a stored relative path to an absolute one under the root
func (in *Ingester) Resolve(rel string) string {
	return filepath.Join(in.root, filepath.FromSlash(rel))
}

func (in *Ingester) storePNG(img image.Image) (*NormalizedImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	b := img.Bounds()
	return in.write(buf.Bytes(), FormatPNG, b.Dx(), b.Dy(), false)
}

func (in *Ingester) storeRaw(data []byte, format string, width, height int) (*NormalizedImage, error) {
	if format == "" {
		format = FormatBin
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		width, height = cfg.Width, cfg.Height
	}
	return in.write(data, format, width, height, true)
}

func (in *Ingester) write(data []byte, format string, width, height int, raw bool) (*NormalizedImage, error) {
	name := uuid.New().String() + "." + format
	rel := path.Join(ImagesDir, name)
	if err := os.WriteFile(in.Resolve(rel), data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}

	in.logger.Debug("Stored image",
		zap.String("path", rel),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("size", len(data)))

	return &NormalizedImage{
		Width:  width,
		Height: height,
		Size:   int64(len(data)),
		Path:   rel,
		Format: format,
		Raw:    raw,
	}, nil
}
