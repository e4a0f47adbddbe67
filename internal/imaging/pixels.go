package imaging

import (
	"fmt"
	"image"
)

const alphaSamplePixels = 100

// looksSwapped samples the alpha byte of the leading pixels. A buffer whose
// alpha channel is mostly neither fully opaque nor fully transparent is
// taken to be in blue/red swapped order.
func looksSwapped(pix []byte) bool {
	samples := min(len(pix)/4, alphaSamplePixels)
	if samples == 0 {
		return false
	}
	odd := 0
	for i := 0; i < samples; i++ {
		if a := pix[i*4+3]; a != 0 && a != 255 {
			odd++
		}
	}
	return odd*2 > samples
}

// swapRedBlue returns a copy of pix with bytes 0 and 2 of every pixel exchanged
func swapRedBlue(pix []byte) []byte {
	out := make([]byte, len(pix))
	copy(out, pix)
	for i := 0; i+3 < len(out); i += 4 {
		out[i], out[i+2] = out[i+2], out[i]
	}
	return out
}

// buildImage wraps a packed 4-channel buffer without copying it
func buildImage(pix []byte, size Size) (*image.NRGBA, error) {
	if size.Width <= 0 || size.Height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", size.Width, size.Height)
	}
	if len(pix) != size.Width*size.Height*4 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrBufferSizeMismatch, len(pix), size.Width, size.Height)
	}
	return &image.NRGBA{
		Pix:    pix,
		Stride: size.Width * 4,
		Rect:   image.Rect(0, 0, size.Width, size.Height),
	}, nil
}

// buildRaw applies channel correction and falls back first to the
// transposed shape, then to the unswapped bytes.
func buildRaw(pix []byte, size Size) (*image.NRGBA, error) {
	corrected := pix
	if looksSwapped(pix) {
		corrected = swapRedBlue(pix)
	}

	img, err := buildImage(corrected, size)
	if err == nil {
		return img, nil
	}
	if img, terr := buildImage(corrected, Size{size.Height, size.Width}); terr == nil {
		return img, nil
	}
	if img, uerr := buildImage(pix, size); uerr == nil {
		return img, nil
	}
	return nil, err
}
