package types

// QueryPair is a single key/value pair from a URL query, kept in source order
type QueryPair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// URLParts is the structured form of a URL
type URLParts struct {
	Protocol    string      `json:"protocol"`
	Host        string      `json:"host"`
	Path        string      `json:"path"`
	QueryParams []QueryPair `json:"query_params"`
}

// ColorFormats holds the notation the color was written in. At most one field is set.
type ColorFormats struct {
	Hex  string `json:"hex,omitempty"`
	RGB  string `json:"rgb,omitempty"`
	RGBA string `json:"rgba,omitempty"`
	HSL  string `json:"hsl,omitempty"`
}

// TimestampFormats holds the recognized timestamp form. Exactly one field is set.
type TimestampFormats struct {
	UnixMS     *int64 `json:"unix_ms,omitempty"`
	ISO8601    string `json:"iso8601,omitempty"`
	DateString string `json:"date_string,omitempty"`
}

// Base64Metadata describes a recognized base64 payload
type Base64Metadata struct {
	EstimatedOriginalSize int     `json:"estimated_original_size"`
	EncodedSize           int     `json:"encoded_size"`
	ContentHint           string  `json:"content_hint,omitempty"`
	EncodingEfficiency    float64 `json:"encoding_efficiency"`
}

// ContentMetadata is the serialized classifier output stored with text entries
type ContentMetadata struct {
	DetectedLanguage string            `json:"detected_language,omitempty"`
	URLParts         *URLParts         `json:"url_parts,omitempty"`
	ColorFormats     *ColorFormats     `json:"color_formats,omitempty"`
	TimestampFormats *TimestampFormats `json:"timestamp_formats,omitempty"`
	Base64Metadata   *Base64Metadata   `json:"base64_metadata,omitempty"`
}

// Empty reports whether no field is populated
func (m *ContentMetadata) Empty() bool {
	return m == nil || (m.DetectedLanguage == "" && m.URLParts == nil && m.ColorFormats == nil &&
		m.TimestampFormats == nil && m.Base64Metadata == nil)
}

// ImageMetadata describes a stored image file
type ImageMetadata struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	FileSize int64  `json:"file_size"`
	Format   string `json:"format"`
}

// ImageEnvelope is the stored metadata shape for image entries
type ImageEnvelope struct {
	ImageMetadata ImageMetadata `json:"image_metadata"`
}
