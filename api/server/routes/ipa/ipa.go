// Package ipa provides the catalog routes
package ipa

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/blacktop/ipa-archive/api/types"
	"github.com/blacktop/ipa-archive/pkg/catalog"
	"github.com/blacktop/ipa-archive/pkg/paginate"
	"github.com/blacktop/ipa-archive/pkg/render"
	"github.com/blacktop/ipa-archive/pkg/search"
	"github.com/gin-gonic/gin"
)

// Service holds what the catalog routes read from
type Service struct {
	Store       *catalog.Store
	Renderer    *render.Renderer
	MatchMode   search.MatchMode
	PageSize    int
	SiteURL     string
	PlistServer string
	// Observe is called with the result count of every search
	Observe func(results int)
}

// Status maps catalog errors to http status codes.
func Status(err error) int {
	switch {
	case errors.Is(err, catalog.ErrIndexOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, search.ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrUnresolvedBaseURL):
		return http.StatusInternalServerError
	case errors.Is(err, catalog.ErrDataLoad), errors.Is(err, search.ErrEmptyCatalog):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(Status(err), types.GenericError{Error: err.Error()})
}

func (s *Service) pageSize() int {
	if s.PageSize > 0 {
		return s.PageSize
	}
	return paginate.DefaultPageSize
}

// state reads the filter state from the "state" fragment or the query.
func (s *Service) state(c *gin.Context) (search.State, error) {
	var (
		state search.State
		err   error
	)
	if fragment, ok := c.GetQuery("state"); ok {
		state = search.ParseState(fragment)
	} else if state, err = search.StateFromValues(c.Request.URL.Query()); err != nil {
		return state, err
	}
	state.Filter.BundleMatch = s.MatchMode
	return state, nil
}

func (s *Service) evaluate(state *search.State) search.Results {
	results := search.Evaluate(s.Store, state.Filter)
	state.Page = paginate.Clamp(state.Page, paginate.PageCount(len(results), s.pageSize()))
	if s.Observe != nil {
		s.Observe(len(results))
	}
	return results
}

func (s *Service) entries(indices []int) ([]types.Entry, error) {
	entries := make([]types.Entry, 0, len(indices))
	for _, idx := range indices {
		e, err := s.Store.Entry(idx)
		if err != nil {
			return nil, err
		}
		entries = append(entries, types.NewEntry(e))
	}
	return entries, nil
}

func (s *Service) search(c *gin.Context) {
	state, err := s.state(c)
	if err != nil {
		abort(c, err)
		return
	}
	results := s.evaluate(&state)
	page := paginate.Paginate(results, s.pageSize(), state.Page)
	entries, err := s.entries(page.Items)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, types.SearchResponse{
		State: state.Encode(),
		Results: paginate.Page[types.Entry]{
			Items:  entries,
			Number: page.Number,
			Count:  page.Count,
			Total:  page.Total,
			Size:   page.Size,
			Prev:   page.Prev,
			Next:   page.Next,
		},
	})
}

func (s *Service) searchHTML(c *gin.Context) {
	state, err := s.state(c)
	if err != nil {
		abort(c, err)
		return
	}
	results := s.evaluate(&state)
	out, err := s.Renderer.Results(results, state.Page, render.ResultOptions{Unique: state.Filter.Unique})
	if err != nil {
		abort(c, err)
		return
	}
	c.Header("X-Search-State", state.Encode())
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
}

func (s *Service) index(c *gin.Context) (*catalog.Entry, bool) {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, types.GenericError{Error: "idx must be an integer"})
		return nil, false
	}
	e, err := s.Store.Entry(idx)
	if err != nil {
		abort(c, err)
		return nil, false
	}
	return e, true
}

func (s *Service) entry(c *gin.Context) {
	e, ok := s.index(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, types.NewEntry(e))
}

// byKey resolves an ipa key (the indexer's primary key) to its entry.
func (s *Service) byKey(c *gin.Context) {
	key, err := strconv.Atoi(c.Param("key"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, types.GenericError{Error: "key must be an integer"})
		return
	}
	idx, ok := s.Store.IndexOf(key)
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, types.GenericError{Error: "no entry with key " + c.Param("key")})
		return
	}
	e, err := s.Store.Entry(idx)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewEntry(e))
}

func (s *Service) random(c *gin.Context) {
	state, err := s.state(c)
	if err != nil {
		abort(c, err)
		return
	}
	var results search.Results
	if !state.Filter.IsZero() {
		results = s.evaluate(&state)
	}
	idx, err := search.Random(s.Store, results, nil)
	if err != nil {
		abort(c, err)
		return
	}
	e, err := s.Store.Entry(idx)
	if err != nil {
		abort(c, err)
		return
	}
	out, err := s.Renderer.Random(idx)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, types.RandomResponse{Entry: types.NewEntry(e), HTML: out})
}

func (s *Service) manifest(c *gin.Context) {
	e, ok := s.index(c)
	if !ok {
		return
	}
	m := render.NewManifest(e, s.SiteURL)
	payload, err := m.Encode()
	if err != nil {
		abort(c, err)
		return
	}
	resp := types.ManifestResponse{Manifest: m, Payload: payload}
	if server := c.DefaultQuery("plistServer", s.PlistServer); server != "" {
		resp.PlistURL = render.PlistURL(server, payload)
		resp.InstallURL = render.InstallURL(server, payload)
	}
	c.JSON(http.StatusOK, resp)
}
