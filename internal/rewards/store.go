// Package rewards owns the client-side reward catalog and the
// caller's redemption history. Catalog entries live in a cache keyed
// by id with the browse page as an id view into it, mirroring the
// report store; redemption records are append-only and kept as the
// server returns them.
package rewards

import (
	"net/url"
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/api"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/inflight"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/models"
)

// DefaultSort is the initial catalog order: cheapest first.
const DefaultSort = "pointsCost:asc"

// Session is the slice of the session store this package depends on.
type Session interface {
	IsAuthenticated() bool
}

// Filters is the active catalog filter set. Category takes the
// browse-side values ("gift-card", "voucher", ...), which the backend
// keeps separate from the admin catalog categories.
type Filters struct {
	Category string
	SortBy   string
}

// FilterPatch is a partial filter update; nil fields keep the current
// value.
type FilterPatch struct {
	Category *string
	SortBy   *string
}

// Store is the reward store. Safe for concurrent use.
type Store struct {
	client   *api.Client
	session  Session
	guard    *inflight.Guard
	validate *validator.Validate

	mu          sync.RWMutex
	entities    map[string]models.Reward
	catalog     []string
	redemptions []models.Redemption
	currentID   string
	pagination  models.Pagination
	filters     Filters
	loading     bool
	err         string
}

// New creates a reward store bound to the given client and session.
func New(client *api.Client, sess Session) *Store {
	return &Store{
		client:   client,
		session:  sess,
		guard:    inflight.NewGuard(),
		validate: validator.New(),
		entities: make(map[string]models.Reward),
		pagination: models.Pagination{
			Page:  1,
			Limit: 10,
		},
		filters: Filters{SortBy: DefaultSort},
	}
}

// Rewards returns the current catalog page.
func (s *Store) Rewards() []models.Reward {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Reward, 0, len(s.catalog))
	for _, id := range s.catalog {
		if r, ok := s.entities[id]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Redemptions returns the caller's redemption history.
func (s *Store) Redemptions() []models.Redemption {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Redemption, len(s.redemptions))
	copy(out, s.redemptions)
	return out
}

// Current returns the selected reward, or nil.
func (s *Store) Current() *models.Reward {
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

// CanRedeem is the client-side pre-check used to gate the redeem
// action. The server remains the authority: a forced call is still
// rejected there.
func CanRedeem(user *models.User, reward models.Reward) bool {
	return user != nil && reward.IsActive && user.RewardPoints >= reward.PointsCost
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

func (s *Store) query(page int, f Filters) url.Values {
	s.mu.RLock()
	limit := s.pagination.Limit
	s.mu.RUnlock()

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.SortBy != "" {
		q.Set("sortBy", f.SortBy)
	}
	return q
}
