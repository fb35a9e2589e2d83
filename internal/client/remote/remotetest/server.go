// Package remotetest provides an in-memory table service for tests.
package remotetest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/offlinesync/internal/models"
	"github.com/iudanet/offlinesync/pkg/api"
)

// Request is a request received by the Server
type Request struct {
	Header http.Header
	Query  url.Values
	Body   models.Item
	Method string
	Table  string
	ItemID string
}

// Failure is a canned response for the next matching request
type Failure struct {
	Body   any
	Method string
	Status int
}

var updatedAtFloor = regexp.MustCompile(`updatedAt ge datetimeoffset'([^']+)'`)

// Server is a minimal table service: versioned records, soft deletes,
// If-Match checks and updatedAt filtering for incremental pulls.
type Server struct {
	*httptest.Server

	tables   map[string]map[string]models.Item
	clock    time.Time
	requests []Request
	failures []Failure
	mu       sync.Mutex
	version  int
	// PageSize limits the page returned when the request has no $top (0 = unlimited)
	PageSize int
}

// NewServer starts the service; it is closed with the test.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		tables: make(map[string]map[string]models.Item),
		clock:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	r := chi.NewRouter()
	r.Route("/tables/{table}", func(r chi.Router) {
		r.Get("/", s.handleRead)
		r.Post("/", s.handleInsert)
		r.Patch("/{id}", s.handleUpdate)
		r.Delete("/{id}", s.handleDelete)
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Seed stores items as server records, assigning version and updatedAt
func (s *Server) Seed(table string, items ...models.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.store(table, item.Clone())
	}
}

// Item returns a copy of the stored record, or nil
func (s *Server) Item(table, id string) models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables[table][id].Clone()
}

// Requests returns the requests received so far
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// FailNext makes the next request with method fail (empty method = any request)
func (s *Server) FailNext(f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, f)
}

// store кладет запись с новой версией. Вызывается под mu.
func (s *Server) store(table string, item models.Item) models.Item {
	if s.tables[table] == nil {
		s.tables[table] = make(map[string]models.Item)
	}
	s.version++
	s.clock = s.clock.Add(time.Second)
	item[api.PropertyVersion] = strconv.Itoa(s.version)
	item[api.PropertyUpdatedAt] = s.clock.Format(time.RFC3339Nano)
	if _, ok := item[api.PropertyDeleted]; !ok {
		item[api.PropertyDeleted] = false
	}
	s.tables[table][item.ID()] = item
	return item.Clone()
}

// record сохраняет запрос и возвращает заготовленную ошибку, если она есть
func (s *Server) record(r *http.Request) (*Failure, models.Item) {
	var body models.Item
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			_ = json.Unmarshal(data, &body)
		}
	}

	s.requests = append(s.requests, Request{
		Method: r.Method,
		Table:  chi.URLParam(r, "table"),
		ItemID: chi.URLParam(r, "id"),
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})

	for i, f := range s.failures {
		if f.Method == "" || f.Method == r.Method {
			s.failures = append(s.failures[:i], s.failures[i+1:]...)
			return &f, body
		}
	}
	return nil, body
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	failure, body := s.record(r)
	if failure != nil {
		writeJSON(w, failure.Status, failure.Body)
		return
	}

	table := chi.URLParam(r, "table")
	if existing, ok := s.tables[table][body.ID()]; ok && body.ID() != "" {
		writeJSON(w, http.StatusConflict, existing)
		return
	}
	writeJSON(w, http.StatusCreated, s.store(table, body))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	failure, body := s.record(r)
	if failure != nil {
		writeJSON(w, failure.Status, failure.Body)
		return
	}

	table, id := chi.URLParam(r, "table"), chi.URLParam(r, "id")
	existing, ok := s.tables[table][id]
	if !ok || existing.IsDeleted() {
		writeJSON(w, http.StatusNotFound, api.ErrorResponse{Error: "not found"})
		return
	}
	if !versionMatches(r, existing) {
		writeJSON(w, http.StatusPreconditionFailed, existing)
		return
	}

	merged := existing.Clone()
	for k, v := range body {
		merged[k] = v
	}
	merged[api.PropertyID] = id
	writeJSON(w, http.StatusOK, s.store(table, merged))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	failure, _ := s.record(r)
	if failure != nil {
		writeJSON(w, failure.Status, failure.Body)
		return
	}

	table, id := chi.URLParam(r, "table"), chi.URLParam(r, "id")
	existing, ok := s.tables[table][id]
	if !ok || existing.IsDeleted() {
		writeJSON(w, http.StatusNotFound, api.ErrorResponse{Error: "not found"})
		return
	}
	if !versionMatches(r, existing) {
		writeJSON(w, http.StatusPreconditionFailed, existing)
		return
	}

	// Мягкое удаление: запись остается видимой для __includeDeleted
	deleted := existing.Clone()
	deleted[api.PropertyDeleted] = true
	s.store(table, deleted)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	failure, _ := s.record(r)
	if failure != nil {
		writeJSON(w, failure.Status, failure.Body)
		return
	}

	params := r.URL.Query()
	includeDeleted := params.Get(api.ParamIncludeDeleted) == "true"

	var floor time.Time
	if m := updatedAtFloor.FindStringSubmatch(params.Get(api.ParamFilter)); m != nil {
		floor, _ = time.Parse(time.RFC3339Nano, m[1])
	}

	items := make([]models.Item, 0)
	for _, item := range s.tables[chi.URLParam(r, "table")] {
		if item.IsDeleted() && !includeDeleted {
			continue
		}
		if ts, ok := item.UpdatedAt(); ok && ts.Before(floor) {
			continue
		}
		items = append(items, item.Clone())
	}

	sort.SliceStable(items, func(i, j int) bool {
		if params.Get(api.ParamOrderBy) != "" {
			ti, _ := items[i].UpdatedAt()
			tj, _ := items[j].UpdatedAt()
			if !ti.Equal(tj) {
				return ti.Before(tj)
			}
		}
		return items[i].ID() < items[j].ID()
	})

	total := int64(len(items))
	skip, _ := strconv.Atoi(params.Get(api.ParamSkip))
	if skip > len(items) {
		skip = len(items)
	}
	items = items[skip:]

	limit := s.PageSize
	if top, err := strconv.Atoi(params.Get(api.ParamTop)); err == nil && (limit == 0 || top < limit) {
		limit = top
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	if strings.EqualFold(params.Get(api.ParamInlineCount), "allpages") {
		results := make([]map[string]any, 0, len(items))
		for _, item := range items {
			results = append(results, item)
		}
		writeJSON(w, http.StatusOK, api.PageResponse{Results: results, Count: &total})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func versionMatches(r *http.Request, existing models.Item) bool {
	ifMatch := strings.Trim(r.Header.Get(api.HeaderIfMatch), `"`)
	return ifMatch == "" || ifMatch == existing.Version()
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}
