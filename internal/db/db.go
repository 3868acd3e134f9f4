// Package db provides the indexer cache database interface and implementations.
package db

import (
	"fmt"

	"github.com/blacktop/ipa-archive/internal/model"
)

// Database is the interface that wraps the indexer cache operations.
type Database interface {
	// Connect connects to the database and migrates the schema.
	Connect() error

	// InsertBaseURL returns the key of url, inserting it if needed.
	InsertBaseURL(url string) (uint, error)

	// InsertIpas adds ipas that are not yet known and returns how many were added.
	InsertIpas(ipas []model.Ipa) (int64, error)

	// Get returns the ipa for the given key joined with its base url.
	// It returns model.ErrNotFound if the key does not exist.
	Get(id uint) (*model.PendingIpa, error)

	// Pending returns up to limit ipas in the given state.
	Pending(state model.DoneState, limit int) ([]model.PendingIpa, error)

	// Count returns the number of ipas in the given state.
	Count(state model.DoneState) (int64, error)

	// SetDone stores the extracted metadata and marks the ipa done.
	SetDone(id uint, meta model.Metadata) error

	// SetState sets the done state of a single ipa.
	SetState(id uint, state model.DoneState) error

	// ResetState moves every ipa in state back to pending.
	ResetState(state model.DoneState) (int64, error)

	// SetPermanentError marks an ipa as permanently broken and clears its metadata.
	SetPermanentError(id uint) error

	// SetFileSize updates the stored size when size is positive.
	SetFileSize(id uint, size int64) error

	// BaseURLs returns every base url.
	BaseURLs() ([]model.BaseURL, error)

	// Done returns every successfully processed ipa.
	Done() ([]model.Ipa, error)

	// Close closes the database.
	Close() error
}

// Config selects and configures a database backend.
type Config struct {
	Driver    string `json:"driver"`
	Path      string `json:"path"`
	Host      string `json:"host"`
	Port      string `json:"port"`
	User      string `json:"user"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	SSLMode   string `json:"sslmode"`
	BatchSize int    `json:"batch_size" mapstructure:"batch_size"`
}

// New creates the database selected by conf.Driver. It does not connect.
func New(conf *Config) (Database, error) {
	switch conf.Driver {
	case "", "sqlite":
		return NewSqlite(conf.Path, conf.BatchSize)
	case "postgres":
		return NewPostgres(conf.Host, conf.Port, conf.User, conf.Password, conf.Name, conf.SSLMode, conf.BatchSize)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", conf.Driver)
	}
}
