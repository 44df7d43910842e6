package stub

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/config"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/models"
)

// ghostContext builds a request context whose user_id passed the auth
// middleware but no longer maps to an account, as happens when an
// admin deletes the user between the middleware check and the handler.
func ghostContext(t *testing.T, method, contentType, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/", strings.NewReader(body))
	if contentType != "" {
		c.Request.Header.Set("Content-Type", contentType)
	}
	c.Set("user_id", "ghost")
	return c, w
}

func TestHandlersRejectVanishedUser(t *testing.T) {
	s := New(&config.Config{JWTSecret: "test-secret", UploadsDir: t.TempDir()})
	s.reports["r1"] = &models.Report{ID: "r1", Status: models.StatusPending}
	s.rewards["rw1"] = &models.Reward{ID: "rw1", PointsCost: 10, IsActive: true}

	t.Run("me", func(t *testing.T) {
		c, w := ghostContext(t, http.MethodGet, "", "")
		s.me(c)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("update profile", func(t *testing.T) {
		form := url.Values{"name": {"Ghost"}, "email": {"ghost@example.com"}}
		c, w := ghostContext(t, http.MethodPut, "application/x-www-form-urlencoded", form.Encode())
		s.updateMe(c)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("update password", func(t *testing.T) {
		body := `{"currentPassword": "hunter22", "newPassword": "hunter23"}`
		c, w := ghostContext(t, http.MethodPut, "application/json", body)
		s.updatePassword(c)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("public comment", func(t *testing.T) {
		c, w := ghostContext(t, http.MethodPost, "application/json", `{"comment": "hello"}`)
		c.Params = gin.Params{{Key: "id", Value: "r1"}}
		s.addPublicComment(c)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, s.reports["r1"].PublicComments)
	})

	t.Run("redeem", func(t *testing.T) {
		c, w := ghostContext(t, http.MethodPost, "", "")
		c.Params = gin.Params{{Key: "id", Value: "rw1"}}
		s.redeemReward(c)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
