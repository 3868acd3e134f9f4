// Package model contains the indexer cache models for the database.
package model

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("no ipa found")
)

// DoneState is the processing state of an ipa
type DoneState int

const (
	Pending        DoneState = 0
	Done           DoneState = 1
	Failed         DoneState = 3
	PermanentError DoneState = 4
)

func (d DoneState) String() string {
	switch d {
	case Pending:
		return "pending"
	case Done:
		return "done"
	case Failed:
		return "error"
	case PermanentError:
		return "permanent error"
	default:
		return "unknown"
	}
}

// BaseURL is a url prefix that ipa paths are relative to.
type BaseURL struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	URL       string    `gorm:"uniqueIndex;not null" json:"url"`
	CreatedAt time.Time `json:"-"`
}

// TableName returns the table name for BaseURL
func (BaseURL) TableName() string {
	return "base_urls"
}

// Ipa is the model for an indexed ipa file.
type Ipa struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BaseURLID uint      `gorm:"uniqueIndex:idx_ipa_location,priority:1;not null" json:"base_url_id"`
	BaseURL   *BaseURL  `gorm:"constraint:OnDelete:RESTRICT" json:"base_url,omitempty"`
	PathName  string    `gorm:"uniqueIndex:idx_ipa_location,priority:2;not null" json:"path_name"`
	Done      DoneState `gorm:"index;not null;default:0" json:"done"`
	FileSize  int64     `gorm:"not null;default:0" json:"file_size"`

	MinOS    *int    `json:"min_os,omitempty"`
	Platform *int    `json:"platform,omitempty"`
	Title    *string `json:"title,omitempty"`
	BundleID *string `gorm:"index" json:"bundle_id,omitempty"`
	Version  *string `json:"version,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Metadata is what the indexer extracts from an ipa's Info.plist.
// Zero values are stored as NULL.
type Metadata struct {
	MinOS    int
	Platform int
	Title    string
	BundleID string
	Version  string
}

// Columns returns the update that marks an ipa done with m.
func (m Metadata) Columns() map[string]any {
	return map[string]any{
		"done":      Done,
		"min_os":    nullInt(m.MinOS),
		"platform":  nullInt(m.Platform),
		"title":     nullString(m.Title),
		"bundle_id": nullString(m.BundleID),
		"version":   nullString(m.Version),
	}
}

func nullInt(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// PendingIpa is a queued ipa joined with its base url.
type PendingIpa struct {
	ID       uint
	URL      string
	PathName string
}
