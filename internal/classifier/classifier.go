// Package classifier labels clipboard text with a semantic subtype.
//
// Classification is an ordered cascade of heuristics: the first rule that
// matches wins and the remaining rules are never evaluated. The order runs
// from the most specific structural patterns down to free text:
//
//	Url, IpAddress, Email, Color, Json, Command, Timestamp, Markdown, Base64, Code, PlainText
//
// Classify is total and deterministic. It never fails, never blocks and
// holds no state; every pattern it uses is compiled once at package init.
package classifier

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/berrythewa/clipsense/internal/types"
)

// Result is the outcome of classifying a piece of text
type Result struct {
	Subtype  types.Subtype
	Metadata *types.ContentMetadata
}

// MetadataJSON returns the serialized metadata, or nil when there is none
func (r Result) MetadataJSON() json.RawMessage {
	if r.Metadata.Empty() {
		return nil
	}
	data, err := json.Marshal(r.Metadata)
	if err != nil {
		return nil
	}
	return data
}

type rule func(text string) (types.Subtype, *types.ContentMetadata, bool)

var cascade = []rule{
	matchURL,
	matchIP,
	matchEmail,
	matchColor,
	matchJSON,
	matchCommand,
	matchTimestamp,
	matchMarkdown,
	matchBase64,
	matchCode,
}

// Classify runs the cascade over already-trimmed text
func Classify(text string) Result {
	for _, r := range cascade {
		if subtype, meta, ok := r(text); ok {
			return Result{Subtype: subtype, Metadata: meta}
		}
	}
	return Result{Subtype: types.SubtypePlainText}
}

func matchURL(text string) (types.Subtype, *types.ContentMetadata, bool) {
	if !isURL(text) {
		return "", nil, false
	}
	if parts := parseURLParts(text); parts != nil {
		return types.SubtypeURL, &types.ContentMetadata{URLParts: parts}, true
	}
	return types.SubtypeURL, nil, true
}

func isURL(text string) bool {
	for _, scheme := range urlSchemes {
		if strings.HasPrefix(text, scheme) && len(text) > len(scheme) {
			return true
		}
	}
	if strings.Contains(text, "@") {
		return false
	}
	return bareDomainPattern.MatchString(text)
}

func matchIP(text string) (types.Subtype, *types.ContentMetadata, bool) {
	if ipv4Pattern.MatchString(text) || ipv6Pattern.MatchString(text) {
		return types.SubtypeIPAddress, nil, true
	}
	return "", nil, false
}

func matchEmail(text string) (types.Subtype, *types.ContentMetadata, bool) {
	if emailPattern.MatchString(text) {
		return types.SubtypeEmail, nil, true
	}
	return "", nil, false
}

func matchColor(text string) (types.Subtype, *types.ContentMetadata, bool) {
	if formats := detectColor(text); formats != nil {
		return types.SubtypeColor, &types.ContentMetadata{ColorFormats: formats}, true
	}
	return "", nil, false
}

func detectColor(text string) *types.ColorFormats {
	if hex, ok := strings.CutPrefix(text, "#"); ok {
		if (len(hex) == 3 || len(hex) == 6) && isHex(hex) {
			return &types.ColorFormats{Hex: text}
		}
	}

	if m := rgbPattern.FindStringSubmatch(text); m != nil {
		for _, channel := range m[1:4] {
			if v, err := strconv.Atoi(channel); err != nil || v > 255 {
				return nil
			}
		}
		if m[4] != "" {
			alpha, err := strconv.ParseFloat(m[4], 64)
			if err != nil || alpha < 0 || alpha > 1 {
				return nil
			}
		}
		if strings.HasPrefix(text, "rgba") {
			return &types.ColorFormats{RGBA: text}
		}
		return &types.ColorFormats{RGB: text}
	}

	if hslPattern.MatchString(text) {
		return &types.ColorFormats{HSL: text}
	}
	return nil
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

func matchJSON(text string) (types.Subtype, *types.ContentMetadata, bool) {
	object := strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}")
	array := strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]")
	if (object || array) && json.Valid([]byte(text)) {
		return types.SubtypeJSON, nil, true
	}
	return "", nil, false
}

func matchCommand(text string) (types.Subtype, *types.ContentMetadata, bool) {
	for _, prefix := range commandPrefixes {
		if strings.HasPrefix(text, prefix) {
			return types.SubtypeCommand, nil, true
		}
	}
	return "", nil, false
}

func matchTimestamp(text string) (types.Subtype, *types.ContentMetadata, bool) {
	if formats := detectTimestamp(text); formats != nil {
		return types.SubtypeTimestamp, &types.ContentMetadata{TimestampFormats: formats}, true
	}
	return "", nil, false
}

func detectTimestamp(text string) *types.TimestampFormats {
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		switch {
		case n >= minUnixSeconds && n < maxUnixSeconds:
			ms := n * 1000
			return &types.TimestampFormats{UnixMS: &ms}
		case n >= minUnixMillis && n < maxUnixMillis:
			return &types.TimestampFormats{UnixMS: &n}
		}
	}
	if isoTimestampPattern.MatchString(text) {
		return &types.TimestampFormats{ISO8601: text}
	}
	if looseDatePattern.MatchString(text) {
		return &types.TimestampFormats{DateString: text}
	}
	return nil
}

func matchMarkdown(text string) (types.Subtype, *types.ContentMetadata, bool) {
	for _, p := range markdownPatterns {
		if p.MatchString(text) {
			return types.SubtypeMarkdown, nil, true
		}
	}
	return "", nil, false
}

func matchBase64(text string) (types.Subtype, *types.ContentMetadata, bool) {
	if meta := detectBase64(text); meta != nil {
		return types.SubtypeBase64, &types.ContentMetadata{Base64Metadata: meta}, true
	}
	return "", nil, false
}

func matchCode(text string) (types.Subtype, *types.ContentMetadata, bool) {
	if lang := DetectLanguage(text); lang != "" {
		return types.SubtypeCode, &types.ContentMetadata{DetectedLanguage: lang}, true
	}
	return "", nil, false
}

// DetectLanguage returns the first language whose signature matches, or ""
func DetectLanguage(text string) string {
	for _, sig := range codeSignatures {
		if sig.pattern.MatchString(text) {
			return sig.language
		}
	}
	return ""
}
