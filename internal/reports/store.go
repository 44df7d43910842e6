// Package reports owns the client-side collection of bridge condition
// reports: the browse feed, the caller's own reports, the selected
// report, pagination and filter state, and the CRUD, comment and
// upvote operations behind them.
//
// Report records live in a single cache keyed by id; the feed, the
// "my reports" view and the detail view are id references into it.
// A patch lands in the cache once and every view observes it, so list
// and detail screens cannot disagree about status or content.
package reports

import (
	"net/url"
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/api"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/inflight"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/models"
)

// Upload limits enforced client-side before a request is built.
const (
	MaxImages     = 5
	MaxImageBytes = 5 << 20
)

// DefaultSort is the initial feed order.
const DefaultSort = "createdAt:desc"

// Session is the slice of the session store this package depends on.
type Session interface {
	IsAuthenticated() bool
}

// GeoFilter restricts the feed to a radius (km) around a point. All
// three values must be set; an incomplete filter is ignored entirely.
type GeoFilter struct {
	Lat    float64
	Lng    float64
	Radius float64
}

// Filters is the active feed filter set. Zero values mean "no filter".
type Filters struct {
	Status    models.ReportStatus
	Condition models.Condition
	IssueType models.IssueType
	SortBy    string
	Geo       *GeoFilter
}

// FilterPatch is a partial filter update; nil fields keep the current
// value. Setting Geo with a zero radius clears the geo filter.
type FilterPatch struct {
	Status    *models.ReportStatus
	Condition *models.Condition
	IssueType *models.IssueType
	SortBy    *string
	Geo       *GeoFilter
}

// Store is the report store. Safe for concurrent use.
type Store struct {
	client   *api.Client
	session  Session
	guard    *inflight.Guard
	validate *validator.Validate

	mu         sync.RWMutex
	entities   map[string]models.Report
	feed       []string
	mine       []string
	mineLoaded bool
	currentID  string
	pagination models.Pagination
	filters    Filters
	loading    bool
	err        string
}

// New creates a report store bound to the given client and session.
func New(client *api.Client, sess Session) *Store {
	return &Store{
		client:   client,
		session:  sess,
		guard:    inflight.NewGuard(),
		validate: validator.New(),
		entities: make(map[string]models.Report),
		pagination: models.Pagination{
			Page:  1,
			Limit: 10,
		},
		filters: Filters{SortBy: DefaultSort},
	}
}

// Reports returns the current feed page.
func (s *Store) Reports() []models.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(s.feed)
}

// MyReports returns the caller's own reports.
func (s *Store) MyReports() []models.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(s.mine)
}

// Current returns the selected report, or nil.
func (s *Store) Current() *models.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentID == "" {
		return nil
	}
	if r, ok := s.entities[s.currentID]; ok {
		return &r
	}
	return nil
}

// Pagination returns the current page window.
func (s *Store) Pagination() models.Pagination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pagination
}

// Filters returns the active filter set.
func (s *Store) Filters() Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// Loading reports whether an operation is in progress.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the message recorded by the last failed operation.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// resolve materializes an id list against the entity cache. Callers
// hold at least a read lock.
func (s *Store) resolve(ids []string) []models.Report {
	out := make([]models.Report, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.entities[id]; ok {
			out = append(out, r)
		}
	}
	return out
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *Store) fail(err error, fallback string) error {
	s.mu.Lock()
	s.loading = false
	s.err = api.Message(err, fallback)
	s.mu.Unlock()
	return err
}

// absorb stores records in the cache and returns their ids in order.
// Callers hold the write lock.
func (s *Store) absorb(records []models.Report) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		s.entities[r.ID] = r
		ids = append(ids, r.ID)
	}
	return ids
}

// query renders a filter set plus page window as a query string. The
// geo triple is included only when complete.
func (s *Store) query(page int, f Filters) url.Values {
	s.mu.RLock()
	limit := s.pagination.Limit
	s.mu.RUnlock()

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Condition != "" {
		q.Set("condition", string(f.Condition))
	}
	if f.IssueType != "" {
		q.Set("issueType", string(f.IssueType))
	}
	if f.SortBy != "" {
		q.Set("sortBy", f.SortBy)
	}
	if f.Geo != nil && f.Geo.Radius > 0 {
		q.Set("lat", strconv.FormatFloat(f.Geo.Lat, 'f', -1, 64))
		q.Set("lng", strconv.FormatFloat(f.Geo.Lng, 'f', -1, 64))
		q.Set("radius", strconv.FormatFloat(f.Geo.Radius, 'f', -1, 64))
	}
	return q
}

// merge applies a patch on top of f.
func merge(f Filters, p FilterPatch) Filters {
	if p.Status != nil {
		f.Status = *p.Status
	}
	if p.Condition != nil {
		f.Condition = *p.Condition
	}
	if p.IssueType != nil {
		f.IssueType = *p.IssueType
	}
	if p.SortBy != nil {
		f.SortBy = *p.SortBy
	}
	if p.Geo != nil {
		if p.Geo.Radius > 0 {
			g := *p.Geo
			f.Geo = &g
		} else {
			f.Geo = nil
		}
	}
	return f
}
