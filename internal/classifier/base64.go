package classifier

import (
	"bytes"
	"encoding/base64"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/berrythewa/clipsense/internal/types"
)

// detectBase64 gates the text through cheap shape checks before decoding.
// Short inputs are held to a stricter standard because ordinary words are
// frequently valid base64.
func detectBase64(text string) *types.Base64Metadata {
	n := len(text)
	if n < 4 {
		return nil
	}
	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") || strings.HasPrefix(text, "data:") {
		return nil
	}

	short := n <= base64ShortLimit
	required := base64LongRatio
	if short {
		required = base64ShortRatio
	}
	if alphabetRatio(text) < required {
		return nil
	}

	distinct := distinctRunes(text)
	if short {
		if _, ok := commonWords[strings.ToLower(text)]; ok {
			return nil
		}
		if n >= 3 && isAllLower(text) {
			return nil
		}
		if n <= 8 && distinct <= 2 {
			return nil
		}
	}
	if n > base64LongLimit && distinct <= 3 {
		return nil
	}

	if strings.Count(text, "\n") > n/base64CharsPerLine {
		return nil
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	if len(strings.TrimRight(cleaned, "="))%4 == 1 {
		return nil
	}

	decoded, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil
	}

	encodedSize := len(cleaned)
	decodedSize := len(decoded)
	expected := ((decodedSize*4+2)/3 + 3) &^ 3
	if expected == 0 {
		return nil
	}
	ratio := float64(encodedSize) / float64(expected)
	if !withinEncodingTolerance(ratio, decodedSize) {
		return nil
	}

	return &types.Base64Metadata{
		EstimatedOriginalSize: decodedSize,
		EncodedSize:           encodedSize,
		ContentHint:           contentHint(decoded),
		EncodingEfficiency:    ratio,
	}
}

// withinEncodingTolerance reports whether the encoded/expected size ratio is
// close enough to 1. Small payloads get the looser bound.
func withinEncodingTolerance(ratio float64, decodedSize int) bool {
	tolerance := base64Tolerance
	if decodedSize <= base64SmallDecoded {
		tolerance = base64SmallTolerance
	}
	return ratio >= 1-tolerance && ratio <= 1+tolerance
}

func alphabetRatio(text string) float64 {
	var total, inAlphabet int
	for _, r := range text {
		total++
		if r < utf8.RuneSelf && (isAlnum(byte(r)) || r == '+' || r == '/' || r == '=') {
			inAlphabet++
		}
	}
	return float64(inAlphabet) / float64(total)
}

func isAlnum(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

func isAllLower(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] < 'a' || text[i] > 'z' {
			return false
		}
	}
	return true
}

func distinctRunes(text string) int {
	seen := make(map[rune]struct{})
	for _, r := range text {
		seen[r] = struct{}{}
	}
	return len(seen)
}

// contentHint guesses what a decoded payload is
func contentHint(data []byte) string {
	for _, m := range base64Hints {
		if bytes.HasPrefix(data, m.prefix) {
			return m.hint
		}
	}

	if len(data) > 10 && isPrintableASCII(data) {
		return "text"
	}

	if len(data) > 100 {
		zeros := bytes.Count(data, []byte{0})
		if float64(zeros)/float64(len(data)) > binaryZeroRatio {
			return "binary data"
		}
	}
	return "unknown format"
}

func isPrintableASCII(data []byte) bool {
	for _, c := range data {
		switch {
		case c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
		case c < 0x20 || c >= 0x7f:
			return false
		}
	}
	return true
}
