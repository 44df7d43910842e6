package rewards

import (
	"context"
	"fmt"

	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/api"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/models"
)

// List fetches a catalog page using the active filters.
func (s *Store) List(ctx context.Context, page int) error {
	s.mu.RLock()
	f := s.filters
	s.mu.RUnlock()
	return s.list(ctx, page, f)
}

func (s *Store) list(ctx context.Context, page int, f Filters) error {
	if page < 1 {
		page = 1
	}
	s.begin()

	env, err := s.client.Get(ctx, "/rewards", s.query(page, f))
	if err != nil {
		return s.fail(err, "Failed to fetch rewards")
	}

	var records []models.Reward
	if err := env.Decode(&records); err != nil {
		return s.fail(err, "Failed to fetch rewards")
	}

	s.mu.Lock()
	ids := make([]string, 0, len(records))
	for _, r := range records {
		s.entities[r.ID] = r
		ids = append(ids, r.ID)
	}
	s.catalog = ids
	if env.Pagination != nil {
		limit := s.pagination.Limit
		s.pagination = *env.Pagination
		if s.pagination.Limit == 0 {
			s.pagination.Limit = limit
		}
	}
	s.loading = false
	s.mu.Unlock()
	return nil
}

// ListRedemptions fetches the caller's redemption history. A no-op
// without a signed in session.
func (s *Store) ListRedemptions(ctx context.Context) error {
	if !s.session.IsAuthenticated() {
		return nil
	}
	s.begin()

	env, err := s.client.Get(ctx, "/rewards/user/my-rewards", nil)
	if err != nil {
		return s.fail(err, "Failed to fetch user rewards")
	}

	var records []models.Redemption
	if err := env.Decode(&records); err != nil {
		return s.fail(err, "Failed to fetch user rewards")
	}

	s.mu.Lock()
	s.redemptions = records
	s.loading = false
	s.mu.Unlock()
	return nil
}

// Get fetches one reward and selects it as the current one.
func (s *Store) Get(ctx context.Context, id string) (*models.Reward, error) {
	s.begin()

	env, err := s.client.Get(ctx, "/rewards/"+id, nil)
	if err != nil {
		if api.IsNotFound(err) {
			return nil, s.fail(err, "Reward not found")
		}
		return nil, s.fail(err, "Failed to fetch reward")
	}

	var record models.Reward
	if err := env.Decode(&record); err != nil {
		return nil, s.fail(err, "Failed to fetch reward")
	}

	s.mu.Lock()
	s.entities[record.ID] = record
	s.currentID = record.ID
	s.loading = false
	s.mu.Unlock()
	return &record, nil
}

// Create adds a catalog entry and prepends it to the browse view.
// Admin only; the backend enforces the role.
func (s *Store) Create(ctx context.Context, in models.RewardInput) (*models.Reward, error) {
	done, err := s.guard.Begin("create")
	if err != nil {
		return nil, err
	}
	defer done()

	if err := s.validate.Struct(in); err != nil {
		return nil, s.fail(err, "Failed to create reward")
	}
	if !models.ValidRewardCategory(in.Category) {
		return nil, s.fail(fmt.Errorf("unknown category %q", in.Category), "Failed to create reward")
	}
	s.begin()

	env, err := s.client.Post(ctx, "/rewards", in)
	if err != nil {
		return nil, s.fail(err, "Failed to create reward")
	}

	var record models.Reward
	if err := env.Decode(&record); err != nil {
		return nil, s.fail(err, "Failed to create reward")
	}

	s.mu.Lock()
	s.entities[record.ID] = record
	s.catalog = append([]string{record.ID}, s.catalog...)
	s.loading = false
	s.mu.Unlock()
	return &record, nil
}

// Update edits a catalog entry; the response record replaces the
// cached one for every view at once.
func (s *Store) Update(ctx context.Context, id string, in models.RewardInput) (*models.Reward, error) {
	done, err := s.guard.Begin(id)
	if err != nil {
		return nil, err
	}
	defer done()

	if err := s.validate.Struct(in); err != nil {
		return nil, s.fail(err, "Failed to update reward")
	}
	s.begin()

	env, err := s.client.Put(ctx, "/rewards/"+id, in)
	if err != nil {
		return nil, s.fail(err, "Failed to update reward")
	}

	var record models.Reward
	if err := env.Decode(&record); err != nil {
		return nil, s.fail(err, "Failed to update reward")
	}

	s.mu.Lock()
	s.entities[record.ID] = record
	s.loading = false
	s.mu.Unlock()
	return &record, nil
}

// Remove deletes a catalog entry.
func (s *Store) Remove(ctx context.Context, id string) error {
	done, err := s.guard.Begin(id)
	if err != nil {
		return err
	}
	defer done()
	s.begin()

	if _, err := s.client.Delete(ctx, "/rewards/"+id); err != nil {
		return s.fail(err, "Failed to delete reward")
	}

	s.mu.Lock()
	delete(s.entities, id)
	kept := s.catalog[:0]
	for _, v := range s.catalog {
		if v != id {
			kept = append(kept, v)
		}
	}
	s.catalog = kept
	if s.currentID == id {
		s.currentID = ""
	}
	s.loading = false
	s.mu.Unlock()
	return nil
}

// Redeem exchanges points for the reward. The redemption history is
// refreshed from the server afterwards rather than patched locally:
// the issued code and the new point balance are server-derived state
// the client cannot predict.
func (s *Store) Redeem(ctx context.Context, id string) error {
	done, err := s.guard.Begin(id)
	if err != nil {
		return err
	}
	defer done()
	s.begin()

	if _, err := s.client.Post(ctx, "/rewards/"+id+"/redeem", nil); err != nil {
		return s.fail(err, "Failed to redeem reward")
	}

	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
	return s.ListRedemptions(ctx)
}

// UpdateFilters merges the patch into the active filters and refetches
// from page one.
func (s *Store) UpdateFilters(ctx context.Context, patch FilterPatch) error {
	s.mu.Lock()
	if patch.Category != nil {
		s.filters.Category = *patch.Category
	}
	if patch.SortBy != nil {
		s.filters.SortBy = *patch.SortBy
	}
	f := s.filters
	s.mu.Unlock()
	return s.list(ctx, 1, f)
}
