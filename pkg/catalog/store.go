package catalog

import (
	"errors"
	"fmt"
)

// BaseURLs maps a base url key to its url prefix.
type BaseURLs map[int]string

// Store is the immutable record set of one session.
// It is safe for concurrent readers since nothing mutates it after NewStore.
type Store struct {
	records  []Record
	baseURLs BaseURLs
	byKey    map[int]int
}

// NewStore creates a store from the decoded data sources.
// The slices and maps are copied so callers cannot mutate the store afterwards.
func NewStore(records []Record, baseURLs BaseURLs) (*Store, error) {
	s := &Store{
		records:  make([]Record, len(records)),
		baseURLs: make(BaseURLs, len(baseURLs)),
		byKey:    make(map[int]int, len(records)),
	}
	copy(s.records, records)
	for k, v := range baseURLs {
		s.baseURLs[k] = v
	}
	for i, r := range s.records {
		if prev, dup := s.byKey[r.Key]; dup {
			return nil, fmt.Errorf("%w: %d at index %d and %d", ErrDuplicateKey, r.Key, prev, i)
		}
		s.byKey[r.Key] = i
	}
	return s, nil
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Record returns the record at idx.
func (s *Store) Record(idx int) (Record, error) {
	if idx < 0 || idx >= len(s.records) {
		return Record{}, &IndexError{Index: idx, Count: len(s.records)}
	}
	return s.records[idx], nil
}

// Entry returns the derived view of the record at idx.
func (s *Store) Entry(idx int) (*Entry, error) {
	r, err := s.Record(idx)
	if err != nil {
		return nil, err
	}
	base, ok := s.baseURLs[r.BaseURL]
	if !ok {
		return nil, &BaseURLError{Key: r.BaseURL, RecordKey: r.Key}
	}
	return newEntry(idx, r, base), nil
}

// IndexOf returns the index of the record with the given key.
func (s *Store) IndexOf(key int) (int, bool) {
	idx, ok := s.byKey[key]
	return idx, ok
}

// BaseURL returns the url prefix for a base url key.
func (s *Store) BaseURL(key int) (string, bool) {
	u, ok := s.baseURLs[key]
	return u, ok
}

// Each calls fn for every record in catalog order until fn returns false.
func (s *Store) Each(fn func(idx int, r Record) bool) {
	for i := range s.records {
		if !fn(i, s.records[i]) {
			return
		}
	}
}

// Validate returns every unresolved base url reference joined into one error.
func (s *Store) Validate() error {
	var errs []error
	for _, r := range s.records {
		if _, ok := s.baseURLs[r.BaseURL]; !ok {
			errs = append(errs, &BaseURLError{Key: r.BaseURL, RecordKey: r.Key})
		}
	}
	return errors.Join(errs...)
}
