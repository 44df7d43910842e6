package stub

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/models"
)

// CreateAccount inserts a user directly, bypassing the HTTP surface.
// Used by Seed and by tests that need privileged roles or a preset
// point balance.
func (s *Server) CreateAccount(name, email, password string, role models.Role, points int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	a := &account{
		User: models.User{
			ID:           uuid.NewString(),
			Name:         name,
			Email:        email,
			Role:         role,
			RewardPoints: points,
			IsVerified:   true,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		PasswordHash: hash,
	}
	s.users[a.ID] = a
	s.byEmail[strings.ToLower(email)] = a.ID
	return a.ID, nil
}

// AddReward inserts a catalog entry directly. Used by Seed and tests.
func (s *Server) AddReward(r models.Reward) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
		r.UpdatedAt = now
	}
	s.rewards[r.ID] = &r
	return r.ID
}

// Seed loads a small demo data set: an admin account and a starter
// reward catalog.
func (s *Server) Seed() error {
	if _, err := s.CreateAccount("Admin", "admin@footoverbridge.local", "admin123", models.RoleAdmin, 0); err != nil {
		return err
	}

	catalog := []models.Reward{
		{Title: "Transit Voucher", Description: "One-day public transit pass", PointsCost: 50, Category: models.CategoryVouchers, IsActive: true},
		{Title: "Hardware Store Discount", Description: "10% off at partner stores", PointsCost: 80, Category: models.CategoryDiscounts, IsActive: true},
		{Title: "Community Hero Badge", Description: "Recognition on the public leaderboard", PointsCost: 20, Category: models.CategoryRecognition, IsActive: true},
		{Title: "Bridge Walk Tour", Description: "Guided inspection walk with an engineer", PointsCost: 150, Category: models.CategorySpecialAccess, IsActive: true},
	}
	for _, r := range catalog {
		s.AddReward(r)
	}
	return nil
}
