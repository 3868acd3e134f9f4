package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrDataLoad is returned when either data source cannot be fetched or parsed.
	ErrDataLoad = errors.New("data load failure")
	// ErrIndexOutOfRange is returned when a record index is outside the catalog.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrUnresolvedBaseURL is returned when a record references a missing base url.
	ErrUnresolvedBaseURL = errors.New("unresolved base url")
	// ErrDuplicateKey is returned when two records share the same key.
	ErrDuplicateKey = errors.New("duplicate record key")
)

// LoadError wraps a failure to load one of the two data sources.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrDataLoad }

// IndexError reports an access outside [0, Count).
type IndexError struct {
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("record index %d out of range [0, %d)", e.Index, e.Count)
}

func (e *IndexError) Is(target error) bool { return target == ErrIndexOutOfRange }

// BaseURLError reports a record whose base url key is not in the table.
type BaseURLError struct {
	Key       int
	RecordKey int
}

func (e *BaseURLError) Error() string {
	return fmt.Sprintf("record %d references unknown base url %d", e.RecordKey, e.Key)
}

func (e *BaseURLError) Is(target error) bool { return target == ErrUnresolvedBaseURL }
