package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/webp"
)

func pngFixture(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestConvert_PNGScaled(t *testing.T) {
	src := pngFixture(t, 40, 20, color.NRGBA{R: 200, G: 10, B: 10, A: 255})

	out, err := Convert(src, ConvertOptions{Format: "png", Scale: 0.5})
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, out.Format)
	assert.Equal(t, 20, out.Width)
	assert.Equal(t, 10, out.Height)

	img, err := png.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 10), img.Bounds())
}

func TestConvert_JPEGFlattensAlpha(t *testing.T) {
	src := pngFixture(t, 8, 8, color.NRGBA{})

	out, err := Convert(src, ConvertOptions{Format: "jpg"})
	require.NoError(t, err)
	assert.Equal(t, FormatJPEG, out.Format)

	img, err := jpeg.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	r, g, b, _ := img.At(4, 4).RGBA()
	// fully transparent pixels come out white
	assert.Greater(t, r>>8, uint32(240))
	assert.Greater(t, g>>8, uint32(240))
	assert.Greater(t, b>>8, uint32(240))
}

func TestConvert_WebPRoundTrip(t *testing.T) {
	want := color.NRGBA{R: 12, G: 150, B: 90, A: 255}
	src := pngFixture(t, 16, 12, want)

	out, err := Convert(src, ConvertOptions{Format: "webp", Scale: 1})
	require.NoError(t, err)
	assert.Equal(t, FormatWebP, out.Format)
	assert.Equal(t, 16, out.Width)
	assert.Equal(t, 12, out.Height)
	assert.True(t, strings.HasPrefix(out.DataURI(), "data:image/webp;base64,"))

	img, err := webp.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 12), img.Bounds())
	assert.Equal(t, want, color.NRGBAModel.Convert(img.At(5, 5)))

	// the converted bytes are a valid ingest payload too
	in := newTestIngester(t, false)
	stored, err := in.Ingest(out.Data, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 16, stored.Width)
}

func TestConvert_DataURI(t *testing.T) {
	c := &Converted{Data: []byte{1, 2, 3}, Format: FormatPNG}
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString([]byte{1, 2, 3}), c.DataURI())
}

func TestConvert_Errors(t *testing.T) {
	src := pngFixture(t, 2, 2, color.NRGBA{A: 255})

	_, err := Convert(src, ConvertOptions{Format: "avif"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Convert([]byte("not an image"), ConvertOptions{Format: "png"})
	assert.ErrorIs(t, err, ErrDecodeFailure)
}
