package classifier

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrythewa/clipsense/internal/types"
)

func TestClassify_Subtypes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want types.Subtype
	}{
		{"https url", "https://example.com/path?param=value", types.SubtypeURL},
		{"ftp url", "ftp://files.example.org/pub", types.SubtypeURL},
		{"bare domain", "example.com", types.SubtypeURL},
		{"scheme only", "https://", types.SubtypePlainText},
		{"ipv4", "8.8.8.8", types.SubtypeIPAddress},
		{"ipv4 out of range", "256.1.1.1", types.SubtypePlainText},
		{"ipv6 full", "2001:0db8:85a3:0000:0000:8a2e:0370:7334", types.SubtypeIPAddress},
		{"ipv6 compressed", "::1", types.SubtypeIPAddress},
		{"ipv6 zone", "fe80::1%eth0", types.SubtypeIPAddress},
		{"ipv4 mapped", "::ffff:192.168.1.1", types.SubtypeIPAddress},
		{"email", "a@b.co", types.SubtypeEmail},
		{"email not bare domain", "john.doe+tag@example.com", types.SubtypeEmail},
		{"hex color short", "#abc", types.SubtypeColor},
		{"hex color long", "#FF8800", types.SubtypeColor},
		{"rgb", "rgb(255, 0, 10)", types.SubtypeColor},
		{"rgba", "rgba(0,0,0,0.5)", types.SubtypeColor},
		{"hsl", "hsl(120, 50%, 50%)", types.SubtypeColor},
		{"json object", `{"a": 1}`, types.SubtypeJSON},
		{"json array", `[1, 2, 3]`, types.SubtypeJSON},
		{"json beats url", `{"url":"https://x.com"}`, types.SubtypeJSON},
		{"git", "git status", types.SubtypeCommand},
		{"ls bare", "ls", types.SubtypeCommand},
		{"docker", "docker run -it alpine sh", types.SubtypeCommand},
		{"unix seconds", "1700000000", types.SubtypeTimestamp},
		{"unix millis", "1754568465706", types.SubtypeTimestamp},
		{"iso8601", "2024-01-15T10:30:00Z", types.SubtypeTimestamp},
		{"iso8601 nanos", "2024-01-15T10:30:00.123456789+02:00", types.SubtypeTimestamp},
		{"loose date", "2024/01/15 10:30", types.SubtypeTimestamp},
		{"heading", "# Heading", types.SubtypeMarkdown},
		{"bold", "this is **bold** text", types.SubtypeMarkdown},
		{"link", "see [docs](https://example.com)", types.SubtypeMarkdown},
		{"inline code", "run `make` first", types.SubtypeMarkdown},
		{"base64 short", "YWI=", types.SubtypeBase64},
		{"base64 hello", "SGVsbG8=", types.SubtypeBase64},
		{"base64 digits", "MTIz", types.SubtypeBase64},
		{"javascript", "function test() { return 1 }", types.SubtypeCode},
		{"python", "def main():\n    pass", types.SubtypeCode},
		{"sql", "SELECT id FROM users WHERE id = 1", types.SubtypeCode},
		{"plain", "Hello world", types.SubtypePlainText},
		{"random word", "zzzzzz", types.SubtypePlainText},
		{"prose with use", "I use this every day", types.SubtypePlainText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text).Subtype, "text: %q", tt.text)
		})
	}
}

func TestClassify_Base64FalsePositives(t *testing.T) {
	for _, word := range []string{"hello", "world", "test", "cat", "dog", "run", "yes", "aaa", "abc", "Test"} {
		t.Run(word, func(t *testing.T) {
			got := Classify(word)
			assert.NotEqual(t, types.SubtypeBase64, got.Subtype)
		})
	}
}

func TestClassify_Metadata(t *testing.T) {
	unix := int64(1700000000000)

	tests := []struct {
		name string
		text string
		want *types.ContentMetadata
	}{
		{
			name: "url parts keep query order",
			text: "https://Example.com:8443/a/b?z=1&a=two+words&flag",
			want: &types.ContentMetadata{URLParts: &types.URLParts{
				Protocol: "https",
				Host:     "example.com:8443",
				Path:     "/a/b",
				QueryParams: []types.QueryPair{
					{Key: "z", Value: "1"},
					{Key: "a", Value: "two words"},
					{Key: "flag", Value: ""},
				},
			}},
		},
		{
			name: "default port dropped and root path",
			text: "http://example.com:80",
			want: &types.ContentMetadata{URLParts: &types.URLParts{
				Protocol:    "http",
				Host:        "example.com",
				Path:        "/",
				QueryParams: []types.QueryPair{},
			}},
		},
		{
			name: "bare domain has no parts",
			text: "example.com",
			want: nil,
		},
		{
			name: "hex color",
			text: "#abc",
			want: &types.ContentMetadata{ColorFormats: &types.ColorFormats{Hex: "#abc"}},
		},
		{
			name: "rgba color",
			text: "rgba(1, 2, 3, 0.25)",
			want: &types.ContentMetadata{ColorFormats: &types.ColorFormats{RGBA: "rgba(1, 2, 3, 0.25)"}},
		},
		{
			name: "unix seconds scaled to millis",
			text: "1700000000",
			want: &types.ContentMetadata{TimestampFormats: &types.TimestampFormats{UnixMS: &unix}},
		},
		{
			name: "iso string",
			text: "2024-01-15T10:30:00.123Z",
			want: &types.ContentMetadata{TimestampFormats: &types.TimestampFormats{ISO8601: "2024-01-15T10:30:00.123Z"}},
		},
		{
			name: "detected language",
			text: "#include <stdio.h>",
			want: &types.ContentMetadata{DetectedLanguage: "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			if diff := cmp.Diff(tt.want, got.Metadata); diff != "" {
				t.Errorf("metadata mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassify_ColorOutOfRangeFallsThrough(t *testing.T) {
	for _, text := range []string{"rgb(256, 0, 0)", "rgba(0, 0, 0, 1.5)"} {
		t.Run(text, func(t *testing.T) {
			got := Classify(text)
			assert.NotEqual(t, types.SubtypeColor, got.Subtype)
		})
	}
}

func TestClassify_TimestampOutOfRange(t *testing.T) {
	// 1999 in seconds and a plain small integer are not timestamps
	assert.NotEqual(t, types.SubtypeTimestamp, Classify("915148800").Subtype)
	assert.NotEqual(t, types.SubtypeTimestamp, Classify("42").Subtype)
}

func TestClassify_TimestampRangeBounds(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *types.ContentMetadata
	}{
		{"seconds lower bound", "946684800", &types.ContentMetadata{TimestampFormats: &types.TimestampFormats{UnixMS: int64Ptr(946684800000)}}},
		{"millis lower bound", "946684800000", &types.ContentMetadata{TimestampFormats: &types.TimestampFormats{UnixMS: int64Ptr(946684800000)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			require.Equal(t, types.SubtypeTimestamp, got.Subtype)
			if diff := cmp.Diff(tt.want, got.Metadata); diff != "" {
				t.Errorf("metadata mismatch (-want +got):\n%s", diff)
			}
		})
	}

	// upper bounds are exclusive
	assert.NotEqual(t, types.SubtypeTimestamp, Classify("4102444800").Subtype)
	assert.NotEqual(t, types.SubtypeTimestamp, Classify("7258118400000").Subtype)
}

func int64Ptr(v int64) *int64 { return &v }

func TestClassify_Base64Metadata(t *testing.T) {
	got := Classify("YWI=")
	require.Equal(t, types.SubtypeBase64, got.Subtype)
	want := &types.ContentMetadata{Base64Metadata: &types.Base64Metadata{
		EstimatedOriginalSize: 2,
		EncodedSize:           4,
		ContentHint:           "unknown format",
		EncodingEfficiency:    1,
	}}
	if diff := cmp.Diff(want, got.Metadata); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectBase64_ContentHints(t *testing.T) {
	binary := make([]byte, 120)
	for i := range binary {
		if i%4 != 0 {
			binary[i] = byte(i*37 + 1)
		}
	}

	tests := []struct {
		name    string
		payload []byte
		want    string
	}{
		{"png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), "PNG image"},
		{"jpeg", []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"), "JPEG image"},
		{"pdf", []byte("%PDF-1.4\n%\xe2\xe3"), "PDF document"},
		{"gif", []byte("GIF89a\x01\x00\x01\x00\x80"), "GIF image"},
		{"zip", []byte("PK\x03\x04\x14\x00\x00\x00\x08\x00"), "ZIP archive"},
		{"empty zip", []byte("PK\x05\x06\x00\x00\x00\x00\x00\x00"), "ZIP archive"},
		{"printable text", []byte("hello clipboard world"), "text"},
		{"zero heavy", binary, "binary data"},
		{"short binary", []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}, "unknown format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := base64.StdEncoding.EncodeToString(tt.payload)
			meta := detectBase64(encoded)
			require.NotNil(t, meta, "encoded: %q", encoded)
			want := &types.Base64Metadata{
				EstimatedOriginalSize: len(tt.payload),
				EncodedSize:           len(encoded),
				ContentHint:           tt.want,
				EncodingEfficiency:    1,
			}
			if diff := cmp.Diff(want, meta); diff != "" {
				t.Errorf("metadata mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDetectBase64_ShapeGates(t *testing.T) {
	t.Run("long low variety", func(t *testing.T) {
		text := strings.Repeat("AB", 60)
		assert.Nil(t, detectBase64(text))
		assert.Equal(t, types.SubtypePlainText, Classify(text).Subtype)
	})

	encoded := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("clipboard history entry ", 5)))
	require.Len(t, encoded, 160)

	t.Run("wrapped at 50 columns", func(t *testing.T) {
		text := wrap(encoded, 50)
		assert.NotNil(t, detectBase64(text))
		assert.Equal(t, types.SubtypeBase64, Classify(text).Subtype)
	})

	t.Run("too many line breaks", func(t *testing.T) {
		text := wrap(encoded, 20)
		assert.Nil(t, detectBase64(text))
		assert.NotEqual(t, types.SubtypeBase64, Classify(text).Subtype)
	})
}

func wrap(s string, width int) string {
	var lines []string
	for len(s) > width {
		lines = append(lines, s[:width])
		s = s[width:]
	}
	return strings.Join(append(lines, s), "\n")
}

func TestWithinEncodingTolerance(t *testing.T) {
	tests := []struct {
		name    string
		ratio   float64
		decoded int
		want    bool
	}{
		{"exact", 1, 100, true},
		{"within 20 percent", 1.19, 100, true},
		{"above 20 percent", 1.21, 100, false},
		{"below 20 percent", 0.79, 100, false},
		{"small within 50 percent", 1.49, 10, true},
		{"small above 50 percent", 1.51, 10, false},
		{"small below 50 percent", 0.49, 10, false},
		{"eleven bytes uses tight bound", 1.3, 11, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, withinEncodingTolerance(tt.ratio, tt.decoded))
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	inputs := []string{"https://x.com/?a=1", "YWI=", "#fff", "Hello world", "SELECT * FROM t"}
	for _, in := range inputs {
		first := Classify(in)
		for i := 0; i < 5; i++ {
			if diff := cmp.Diff(first, Classify(in)); diff != "" {
				t.Fatalf("classification of %q changed between calls:\n%s", in, diff)
			}
		}
	}
}

func TestResult_MetadataJSON(t *testing.T) {
	assert.Nil(t, Classify("Hello world").MetadataJSON())

	raw := Classify("#abc").MetadataJSON()
	require.NotNil(t, raw)
	assert.JSONEq(t, `{"color_formats":{"hex":"#abc"}}`, string(raw))
}
