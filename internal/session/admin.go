package session

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/models"
)

// UserQuery filters the admin user listing.
type UserQuery struct {
	Page     int
	Limit    int
	Search   string
	Role     models.Role
	Verified *bool
}

// ListUsers fetches a page of accounts. Admin role required; the
// backend enforces it.
func (s *Store) ListUsers(ctx context.Context, q UserQuery) ([]models.User, *models.Pagination, error) {
	s.begin()

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("limit", strconv.Itoa(q.Limit))
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.Role != "" {
		query.Set("role", string(q.Role))
	}
	if q.Verified != nil {
		query.Set("verified", strconv.FormatBool(*q.Verified))
	}

	env, err := s.client.Get(ctx, "/users/admin", query)
	if err != nil {
		return nil, nil, s.fail(err, "Failed to fetch users")
	}

	var users []models.User
	if err := env.Decode(&users); err != nil {
		return nil, nil, s.fail(err, "Failed to fetch users")
	}

	s.settle()
	return users, env.Pagination, nil
}

// VerifyUser marks an account as verified.
func (s *Store) VerifyUser(ctx context.Context, userID string) error {
	s.begin()
	if _, err := s.client.Put(ctx, "/users/admin/"+userID+"/verify", nil); err != nil {
		return s.fail(err, "Failed to verify user")
	}
	s.settle()
	return nil
}

// SetUserRole changes an account's role.
func (s *Store) SetUserRole(ctx context.Context, userID string, role models.Role) error {
	if !models.ValidRole(role) {
		return s.fail(fmt.Errorf("unknown role %q", role), "Failed to update user role")
	}
	s.begin()
	body := map[string]models.Role{"role": role}
	if _, err := s.client.Put(ctx, "/users/admin/"+userID+"/role", body); err != nil {
		return s.fail(err, "Failed to update user role")
	}
	s.settle()
	return nil
}

// DeleteUser removes an account.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	s.begin()
	if _, err := s.client.Delete(ctx, "/users/admin/"+userID); err != nil {
		return s.fail(err, "Failed to delete user")
	}
	s.settle()
	return nil
}
