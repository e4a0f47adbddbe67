package types

import (
	"encoding/json"
	"time"
)

// ContentType represents the kind of clipboard payload an entry holds
type ContentType string

const (
	TypeText  ContentType = "text"
	TypeImage ContentType = "image"
	TypeFile  ContentType = "file"
)

// Valid reports whether t is one of the known content types
func (t ContentType) Valid() bool {
	switch t {
	case TypeText, TypeImage, TypeFile:
		return true
	}
	return false
}

// Subtype is the semantic label the classifier assigns to text
type Subtype string

const (
	SubtypePlainText Subtype = "plain_text"
	SubtypeURL       Subtype = "url"
	SubtypeIPAddress Subtype = "ip_address"
	SubtypeEmail     Subtype = "email"
	SubtypeColor     Subtype = "color"
	SubtypeCode      Subtype = "code"
	SubtypeCommand   Subtype = "command"
	SubtypeTimestamp Subtype = "timestamp"
	SubtypeJSON      Subtype = "json"
	SubtypeMarkdown  Subtype = "markdown"
	SubtypeBase64    Subtype = "base64"
)

// AppInfo identifies the frontmost application at the time of a copy
type AppInfo struct {
	Name     string `json:"name"`
	BundleID string `json:"bundle_id,omitempty"`
}

// Entry is a stored clipboard history row. One entry exists per content hash.
type Entry struct {
	ID             string          `json:"id"`
	ContentHash    string          `json:"content_hash"`
	ContentType    ContentType     `json:"content_type"`
	ContentSubtype Subtype         `json:"content_subtype,omitempty"`
	ContentData    string          `json:"content_data"`
	SourceApp      string          `json:"source_app"`
	AppBundleID    string          `json:"app_bundle_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	CopyCount      int64           `json:"copy_count"`
	IsFavorite     bool            `json:"is_favorite"`
	FilePath       string          `json:"file_path,omitempty"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
}

// Draft is an entry candidate produced by the detector before it is stored.
// It carries no id and no copy count; the aggregator assigns both.
type Draft struct {
	ContentHash    string
	ContentType    ContentType
	ContentSubtype Subtype
	ContentData    string
	FilePath       string
	Source         AppInfo
	SeenAt         time.Time
	Metadata       json.RawMessage
}

// Entry builds a first-occurrence entry from the draft
func (d *Draft) Entry(id string) *Entry {
	return &Entry{
		ID:             id,
		ContentHash:    d.ContentHash,
		ContentType:    d.ContentType,
		ContentSubtype: d.ContentSubtype,
		ContentData:    d.ContentData,
		SourceApp:      d.Source.Name,
		AppBundleID:    d.Source.BundleID,
		CreatedAt:      d.SeenAt,
		CopyCount:      1,
		FilePath:       d.FilePath,
		Metadata:       d.Metadata,
	}
}

// Statistics summarizes the history store
type Statistics struct {
	TotalEntries int64      `json:"total_entries"`
	TotalCopies  int64      `json:"total_copies"`
	MostCopied   []*Entry   `json:"most_copied"`
	RecentApps   []AppUsage `json:"recent_apps"`
}

// AppUsage is a source application with the number of entries it produced
// and the time it last produced one
type AppUsage struct {
	Name     string    `json:"name"`
	BundleID string    `json:"bundle_id,omitempty"`
	Count    int64     `json:"count"`
	LastUsed time.Time `json:"last_used"`
}

// CacheStatistics describes on-disk usage
type CacheStatistics struct {
	DBSize     int64 `json:"db_size"`
	ImagesSize int64 `json:"images_size"`
	TextCount  int64 `json:"text_count"`
	ImageCount int64 `json:"image_count"`
}

// CleanupResult reports what an expiry pass removed
type CleanupResult struct {
	DeletedText   int `json:"deleted_text"`
	DeletedImages int `json:"deleted_images"`
	FilesRemoved  int `json:"files_removed"`
}
