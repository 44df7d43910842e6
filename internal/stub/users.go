package stub

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/models"
)

func (s *Server) listUsers(c *gin.Context) {
	search := strings.ToLower(c.Query("search"))
	role := c.Query("role")
	verifiedRaw := c.Query("verified")
	page, limit := pageWindow(c)

	s.mu.Lock()
	records := make([]models.User, 0, len(s.users))
	for _, a := range s.users {
		if search != "" &&
			!strings.Contains(strings.ToLower(a.Name), search) &&
			!strings.Contains(strings.ToLower(a.Email), search) {
			continue
		}
		if role != "" && string(a.Role) != role {
			continue
		}
		if verifiedRaw != "" {
			want, err := strconv.ParseBool(verifiedRaw)
			if err == nil && a.IsVerified != want {
				continue
			}
		}
		records = append(records, a.User)
	}
	s.mu.Unlock()

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	pageItems, pagination := paginate(records, page, limit)
	c.JSON(http.StatusOK, gin.H{"data": pageItems, "pagination": pagination, "count": len(pageItems)})
}

func (s *Server) verifyUser(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.users[c.Param("id")]
	if !ok {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	a.IsVerified = true
	c.JSON(http.StatusOK, gin.H{"data": a.User})
}

func (s *Server) setUserRole(c *gin.Context) {
	var input struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	role := models.Role(input.Role)
	if !models.ValidRole(role) {
		fail(c, http.StatusBadRequest, "Invalid role")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.users[c.Param("id")]
	if !ok {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	a.Role = role
	c.JSON(http.StatusOK, gin.H{"data": a.User})
}

func (s *Server) deleteUser(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("id")
	a, ok := s.users[id]
	if !ok {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	if id == c.GetString("user_id") {
		fail(c, http.StatusBadRequest, "Cannot delete your own account")
		return
	}
	delete(s.byEmail, strings.ToLower(a.Email))
	delete(s.users, id)
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
