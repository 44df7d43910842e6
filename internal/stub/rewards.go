package stub

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/models"
)

func sortRewards(records []models.Reward, sortBy string) {
	field, dir, _ := strings.Cut(sortBy, ":")
	desc := dir == "desc"
	sort.SliceStable(records, func(i, j int) bool {
		var less bool
		switch field {
		case "createdAt":
			less = records[i].CreatedAt.Before(records[j].CreatedAt)
		default:
			less = records[i].PointsCost < records[j].PointsCost
		}
		if desc {
			return !less
		}
		return less
	})
}

func (s *Server) listRewards(c *gin.Context) {
	category := c.Query("category")
	sortBy := c.DefaultQuery("sortBy", "pointsCost:asc")
	page, limit := pageWindow(c)

	s.mu.Lock()
	records := make([]models.Reward, 0, len(s.rewards))
	for _, r := range s.rewards {
		if !r.IsActive {
			continue
		}
		if category != "" && !strings.EqualFold(string(r.Category), category) {
			continue
		}
		records = append(records, *r)
	}
	s.mu.Unlock()

	sortRewards(records, sortBy)
	pageItems, pagination := paginate(records, page, limit)
	c.JSON(http.StatusOK, gin.H{"data": pageItems, "pagination": pagination, "count": len(pageItems)})
}

func (s *Server) myRewards(c *gin.Context) {
	s.mu.Lock()
	history := append([]models.Redemption(nil), s.redemptions[c.GetString("user_id")]...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"data": history, "count": len(history)})
}

func (s *Server) getReward(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rewards[c.Param("id")]
	if !ok {
		fail(c, http.StatusNotFound, "Reward not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": *r})
}

func (s *Server) createReward(c *gin.Context) {
	var input struct {
		Title       string `json:"title" binding:"required,max=100"`
		Description string `json:"description" binding:"required,max=1000"`
		PointsCost  int    `json:"pointsCost" binding:"gte=0"`
		Category    string `json:"category" binding:"required"`
		IsActive    bool   `json:"isActive"`
		Image       string `json:"image"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if !models.ValidRewardCategory(models.RewardCategory(input.Category)) {
		fail(c, http.StatusBadRequest, "Invalid category")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	r := &models.Reward{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		PointsCost:  input.PointsCost,
		Category:    models.RewardCategory(input.Category),
		IsActive:    input.IsActive,
		Image:       input.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.rewards[r.ID] = r
	c.JSON(http.StatusCreated, gin.H{"data": *r})
}

func (s *Server) updateReward(c *gin.Context) {
	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		PointsCost  *int   `json:"pointsCost"`
		Category    string `json:"category"`
		IsActive    *bool  `json:"isActive"`
		Image       string `json:"image"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rewards[c.Param("id")]
	if !ok {
		fail(c, http.StatusNotFound, "Reward not found")
		return
	}
	if input.Title != "" {
		r.Title = input.Title
	}
	if input.Description != "" {
		r.Description = input.Description
	}
	if input.PointsCost != nil {
		if *input.PointsCost < 0 {
			fail(c, http.StatusBadRequest, "Points cost must be non-negative")
			return
		}
		r.PointsCost = *input.PointsCost
	}
	if input.Category != "" {
		if !models.ValidRewardCategory(models.RewardCategory(input.Category)) {
			fail(c, http.StatusBadRequest, "Invalid category")
			return
		}
		r.Category = models.RewardCategory(input.Category)
	}
	if input.IsActive != nil {
		r.IsActive = *input.IsActive
	}
	if input.Image != "" {
		r.Image = input.Image
	}
	r.UpdatedAt = time.Now().UTC()
	c.JSON(http.StatusOK, gin.H{"data": *r})
}

func (s *Server) deleteReward(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("id")
	if _, ok := s.rewards[id]; !ok {
		fail(c, http.StatusNotFound, "Reward not found")
		return
	}
	delete(s.rewards, id)
	c.JSON(http.StatusOK, gin.H{"message": "Reward deleted"})
}

func (s *Server) redeemReward(c *gin.Context) {
	userID := c.GetString("user_id")

	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rewards[c.Param("id")]
	if !ok {
		fail(c, http.StatusNotFound, "Reward not found")
		return
	}
	if !r.IsActive {
		fail(c, http.StatusBadRequest, "Reward is not available")
		return
	}
	a := s.users[userID]
	if a == nil {
		fail(c, http.StatusUnauthorized, "User no longer exists")
		return
	}
	if a.RewardPoints < r.PointsCost {
		fail(c, http.StatusBadRequest, "Insufficient reward points")
		return
	}

	// Deduct first, then issue the code; both under the same lock.
	a.RewardPoints -= r.PointsCost
	snapshot := *r
	record := models.Redemption{
		ID:          uuid.NewString(),
		Name:        r.Title,
		Description: r.Description,
		PointsCost:  r.PointsCost,
		Reward:      &snapshot,
		Redemptions: []models.RedemptionCode{{
			Code:       strings.ToUpper(uuid.NewString()[:8]),
			RedeemedAt: time.Now().UTC(),
		}},
		CreatedAt: time.Now().UTC(),
	}
	s.redemptions[userID] = append([]models.Redemption{record}, s.redemptions[userID]...)
	c.JSON(http.StatusCreated, gin.H{"data": record})
}
