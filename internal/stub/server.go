// Package stub is an in-memory implementation of the footoverbridge
// REST contract. It backs the store integration tests and gives local
// development a backend to talk to; it is not the production service.
package stub

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/config"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/models"
)

// account is a stored user plus its credential hash.
type account struct {
	models.User
	PasswordHash []byte
}

// Server holds the in-memory state behind the REST surface.
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	redis  *redis.Client

	mu          sync.Mutex
	users       map[string]*account
	byEmail     map[string]string
	reports     map[string]*models.Report
	owners      map[string]string            // report id -> owner user id
	upvoted     map[string]map[string]bool   // report id -> user id -> voted
	rewards     map[string]*models.Reward
	redemptions map[string][]models.Redemption // user id -> history
	replays     map[string]replayEntry
}

// New builds a stub server. When cfg.RedisAddr is set, report
// creation goes through a Redis-backed per-user daily rate limiter.
func New(cfg *config.Config) *Server {
	s := &Server{
		cfg:         cfg,
		users:       make(map[string]*account),
		byEmail:     make(map[string]string),
		reports:     make(map[string]*models.Report),
		owners:      make(map[string]string),
		upvoted:     make(map[string]map[string]bool),
		rewards:     make(map[string]*models.Reward),
		redemptions: make(map[string][]models.Redemption),
		replays:     make(map[string]replayEntry),
	}
	if cfg.RedisAddr != "" {
		s.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Static("/uploads", s.cfg.UploadsDir)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiGroup := r.Group("/api")
	apiGroup.Use(s.replayIdempotent())

	users := apiGroup.Group("/users")
	{
		users.POST("/register", s.register)
		users.POST("/login", s.login)
		users.GET("/logout", s.logout)
		users.GET("/me", s.auth(), s.me)
		users.PUT("/me", s.auth(), s.updateMe)
		users.PUT("/password", s.auth(), s.updatePassword)

		admin := users.Group("/admin", s.auth(), s.requireRole(models.RoleAdmin))
		admin.GET("", s.listUsers)
		admin.PUT("/:id/verify", s.verifyUser)
		admin.PUT("/:id/role", s.setUserRole)
		admin.DELETE("/:id", s.deleteUser)
	}

	reports := apiGroup.Group("/reports")
	{
		reports.GET("", s.listReports)
		reports.GET("/user-reports", s.auth(), s.userReports)
		reports.GET("/:id", s.getReport)
		create := reports.Group("", s.auth())
		if s.redis != nil {
			create.POST("", s.reportRateLimiter(s.cfg.ReportDailyLimit), s.createReport)
		} else {
			create.POST("", s.createReport)
		}
		reports.PUT("/:id", s.auth(), s.updateReport)
		reports.DELETE("/:id", s.auth(), s.deleteReport)
		reports.POST("/:id/public-comments", s.auth(), s.addPublicComment)
		reports.POST("/:id/admin-comments", s.auth(), s.requireModerator(), s.addAdminComment)
		reports.PUT("/:id/upvote", s.auth(), s.upvoteReport)
	}

	rewards := apiGroup.Group("/rewards")
	{
		rewards.GET("", s.listRewards)
		rewards.GET("/user/my-rewards", s.auth(), s.myRewards)
		rewards.GET("/:id", s.getReward)
		rewards.POST("", s.auth(), s.requireRole(models.RoleAdmin), s.createReward)
		rewards.PUT("/:id", s.auth(), s.requireRole(models.RoleAdmin), s.updateReward)
		rewards.DELETE("/:id", s.auth(), s.requireRole(models.RoleAdmin), s.deleteReward)
		rewards.POST("/:id/redeem", s.auth(), s.redeemReward)
	}

	return r
}

// Router exposes the gin engine so callers can mount it on their own
// listener (httptest does exactly that).
func (s *Server) Router() *gin.Engine { return s.router }

// Run starts the stub on the configured address.
func (s *Server) Run() error {
	return s.router.Run(s.cfg.StubAddr)
}

func fail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}

func (s *Server) userRef(id string) *models.UserRef {
	if a, ok := s.users[id]; ok {
		return &models.UserRef{ID: a.ID, Name: a.Name, Role: a.Role, Avatar: a.Avatar}
	}
	return nil
}
