package stub

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/models"
)

const tokenTTL = 72 * time.Hour

func (s *Server) mintToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(tokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// auth validates the bearer token and stores the caller's user id on
// the request context.
func (s *Server) auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			fail(c, http.StatusUnauthorized, "No authorization token provided")
			c.Abort()
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(s.cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			fail(c, http.StatusUnauthorized, "Invalid authorization token")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			fail(c, http.StatusUnauthorized, "Invalid token claims")
			c.Abort()
			return
		}
		userID, _ := claims["user_id"].(string)

		s.mu.Lock()
		_, known := s.users[userID]
		s.mu.Unlock()
		if !known {
			fail(c, http.StatusUnauthorized, "User no longer exists")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

func (s *Server) requireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		s.mu.Lock()
		a := s.users[userID]
		s.mu.Unlock()
		if a == nil || a.Role != role {
			fail(c, http.StatusForbidden, "Insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) requireModerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		s.mu.Lock()
		a := s.users[userID]
		s.mu.Unlock()
		if a == nil || !a.Role.CanModerate() {
			fail(c, http.StatusForbidden, "Insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[strings.ToLower(input.Email)]; exists {
		fail(c, http.StatusBadRequest, "User with this email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	now := time.Now().UTC()
	a := &account{
		User: models.User{
			ID:        uuid.NewString(),
			Name:      input.Name,
			Email:     input.Email,
			Role:      models.RoleCitizen,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: hash,
	}
	s.users[a.ID] = a
	s.byEmail[strings.ToLower(input.Email)] = a.ID

	token, err := s.mintToken(a.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Something went wrong")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": a.User})
}

func (s *Server) login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[strings.ToLower(input.Email)]
	if !ok {
		fail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	a := s.users[id]
	if bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(input.Password)) != nil {
		fail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.mintToken(a.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Something went wrong")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": a.User})
}

func (s *Server) logout(c *gin.Context) {
	// Tokens are stateless here; the client discards its copy.
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (s *Server) me(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.users[c.GetString("user_id")]
	if a == nil {
		// The account can vanish between the auth middleware check and
		// here when an admin deletes it concurrently.
		fail(c, http.StatusUnauthorized, "User no longer exists")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": a.User})
}

func (s *Server) updateMe(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	email := strings.TrimSpace(c.PostForm("email"))
	if name == "" || email == "" {
		fail(c, http.StatusBadRequest, "Name and email are required")
		return
	}

	var avatar string
	if file, err := c.FormFile("avatar"); err == nil {
		stored, err := s.storeUpload(c, file)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Failed to store avatar")
			return
		}
		avatar = stored
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.users[c.GetString("user_id")]
	if a == nil {
		fail(c, http.StatusUnauthorized, "User no longer exists")
		return
	}

	if other, taken := s.byEmail[strings.ToLower(email)]; taken && other != a.ID {
		fail(c, http.StatusBadRequest, "Email already in use")
		return
	}
	delete(s.byEmail, strings.ToLower(a.Email))
	s.byEmail[strings.ToLower(email)] = a.ID

	a.Name = name
	a.Email = email
	if avatar != "" {
		a.Avatar = avatar
	}
	a.UpdatedAt = time.Now().UTC()
	c.JSON(http.StatusOK, gin.H{"data": a.User})
}

func (s *Server) updatePassword(c *gin.Context) {
	var input struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.users[c.GetString("user_id")]
	if a == nil {
		fail(c, http.StatusUnauthorized, "User no longer exists")
		return
	}
	if bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(input.CurrentPassword)) != nil {
		fail(c, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Something went wrong")
		return
	}
	a.PasswordHash = hash
	a.UpdatedAt = time.Now().UTC()

	// Password changes invalidate prior sessions; hand back a fresh
	// token for the current one.
	token, err := s.mintToken(a.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Something went wrong")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
