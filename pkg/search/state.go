package search

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/blacktop/ipa-archive/pkg/catalog"
)

// state keys in the order they are written
const (
	keySearch      = "search"
	keyBundleID    = "bundleid"
	keyMinOS       = "minos"
	keyMaxOS       = "maxos"
	keyDevice      = "device"
	keyMinID       = "minid"
	keyUnique      = "unique"
	keyPage        = "page"
	keyRandom      = "random"
	keyPlistServer = "plistServer"
)

// State is the shareable view state: the filter, the current page and the
// install server. It serializes to a location fragment like
//
//	search=tetris&device=1&unique=true&page=2
type State struct {
	Filter Filter
	Page   int
	// Random is the index shown in the random view; 0 means none.
	Random      int
	PlistServer string
}

// Encode writes every non-default value as key=value joined by '&'.
func (s State) Encode() string {
	var parts []string
	add := func(key, value string) {
		if value != "" {
			parts = append(parts, key+"="+catalog.EscapeComponent(value))
		}
	}
	itoa := func(n int) string {
		if n == 0 {
			return ""
		}
		return strconv.Itoa(n)
	}
	add(keySearch, s.Filter.Term)
	add(keyBundleID, s.Filter.BundleID)
	add(keyMinOS, s.Filter.MinOS)
	add(keyMaxOS, s.Filter.MaxOS)
	add(keyDevice, itoa(int(s.Filter.Platform)))
	add(keyMinID, itoa(s.Filter.MinKey))
	if s.Filter.Unique {
		add(keyUnique, "true")
	}
	add(keyPage, itoa(s.Page))
	add(keyRandom, itoa(s.Random))
	add(keyPlistServer, s.PlistServer)
	return strings.Join(parts, "&")
}

// ErrInvalidState is returned by StateFromValues for malformed values.
var ErrInvalidState = errors.New("invalid search parameter")

// set applies one key; unknown keys are ignored. Malformed values leave the
// default in place and are reported.
func (s *State) set(key, value string) error {
	invalid := func() error {
		return fmt.Errorf("%w %s=%q", ErrInvalidState, key, value)
	}
	switch key {
	case keySearch:
		s.Filter.Term = value
	case keyBundleID:
		s.Filter.BundleID = value
	case keyMinOS:
		s.Filter.MinOS = value
	case keyMaxOS:
		s.Filter.MaxOS = value
	case keyDevice:
		p, ok := catalog.ParsePlatform(value)
		if !ok {
			return invalid()
		}
		s.Filter.Platform = p
	case keyMinID:
		n, ok := atoi(value)
		if !ok {
			return invalid()
		}
		s.Filter.MinKey = n
	case keyUnique:
		s.Filter.Unique = value == "true" || value == "1" || value == "on"
	case keyPage:
		n, ok := atoi(value)
		if !ok || n < 0 {
			return invalid()
		}
		s.Page = n
	case keyRandom:
		n, ok := atoi(value)
		if !ok || n < 0 {
			return invalid()
		}
		s.Random = n
	case keyPlistServer:
		s.PlistServer = value
	}
	return nil
}

// ParseState decodes a fragment produced by Encode. A leading '#' is ignored,
// absent keys keep their default and malformed values fall back to defaults.
func ParseState(fragment string) State {
	var s State
	fragment = strings.TrimPrefix(fragment, "#")
	if fragment == "" {
		return s
	}
	for _, param := range strings.Split(fragment, "&") {
		key, raw, _ := strings.Cut(param, "=")
		value, err := url.PathUnescape(raw)
		if err != nil {
			value = raw
		}
		s.set(key, value)
	}
	return s
}

// StateFromValues reads the state from decoded query values. Unlike
// ParseState it rejects malformed values.
func StateFromValues(values url.Values) (State, error) {
	var s State
	for _, key := range []string{keySearch, keyBundleID, keyMinOS, keyMaxOS, keyDevice, keyMinID, keyUnique, keyPage, keyRandom, keyPlistServer} {
		if !values.Has(key) {
			continue
		}
		if err := s.set(key, values.Get(key)); err != nil {
			return State{}, err
		}
	}
	return s, nil
}

func atoi(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}
