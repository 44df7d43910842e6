package rewards_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/api"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/config"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/models"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/rewards"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/session"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/stub"
)

type env struct {
	t       *testing.T
	backend *stub.Server
	session *session.Store
	store   *rewards.Store
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:  "test-secret",
		UploadsDir: t.TempDir(),
	}
	backend := stub.New(cfg)
	server := httptest.NewServer(backend.Router())
	t.Cleanup(server.Close)

	tokens := &session.MemTokenStore{}
	client := api.NewClient(server.URL+"/api", tokens, 5*time.Second)
	sess := session.New(client, tokens)
	return &env{
		t:       t,
		backend: backend,
		session: sess,
		store:   rewards.New(client, sess),
	}
}

func (e *env) loginWithPoints(points int) {
	e.t.Helper()
	_, err := e.backend.CreateAccount("Asha", "asha@example.com", "hunter22", models.RoleCitizen, points)
	require.NoError(e.t, err)
	require.NoError(e.t, e.session.Login(context.Background(), models.LoginInput{Email: "asha@example.com", Password: "hunter22"}))
}

func (e *env) seedCatalog() (cheap, dear string) {
	cheap = e.backend.AddReward(models.Reward{
		Title: "Badge", Description: "Leaderboard mention", PointsCost: 20,
		Category: models.CategoryRecognition, IsActive: true,
	})
	dear = e.backend.AddReward(models.Reward{
		Title: "Voucher", Description: "Transit pass", PointsCost: 100,
		Category: models.CategoryVouchers, IsActive: true,
	})
	return cheap, dear
}

func TestListSortsByPointsCost(t *testing.T) {
	e := newEnv(t)
	_, _ = e.seedCatalog()
	e.backend.AddReward(models.Reward{
		Title: "Inactive", Description: "hidden", PointsCost: 1,
		Category: models.CategoryVouchers, IsActive: false,
	})

	require.NoError(t, e.store.List(context.Background(), 1))
	catalog := e.store.Rewards()
	require.Len(t, catalog, 2) // inactive entries are not browseable
	assert.Equal(t, "Badge", catalog[0].Title)
	assert.Equal(t, "Voucher", catalog[1].Title)
	assert.Equal(t, 2, e.store.Pagination().Total)
}

func TestCategoryFilterResetsToFirstPage(t *testing.T) {
	e := newEnv(t)
	e.seedCatalog()
	ctx := context.Background()

	require.NoError(t, e.store.List(ctx, 2))
	require.Equal(t, 2, e.store.Pagination().Page)

	category := "Recognition"
	require.NoError(t, e.store.UpdateFilters(ctx, rewards.FilterPatch{Category: &category}))

	assert.Equal(t, 1, e.store.Pagination().Page)
	catalog := e.store.Rewards()
	require.Len(t, catalog, 1)
	assert.Equal(t, "Badge", catalog[0].Title)
}

func TestRedeemRefreshesHistoryAndBalance(t *testing.T) {
	e := newEnv(t)
	cheap, _ := e.seedCatalog()
	e.loginWithPoints(50)
	ctx := context.Background()

	reward, err := e.store.Get(ctx, cheap)
	require.NoError(t, err)
	require.True(t, rewards.CanRedeem(e.session.User(), *reward))

	require.NoError(t, e.store.Redeem(ctx, cheap))

	history := e.store.Redemptions()
	require.Len(t, history, 1)
	assert.Equal(t, "Badge", history[0].Name)
	require.Len(t, history[0].Redemptions, 1)
	assert.NotEmpty(t, history[0].Redemptions[0].Code)

	// The server deducted the points; a profile refresh shows it.
	require.NoError(t, e.session.Bootstrap(ctx))
	assert.Equal(t, 30, e.session.User().RewardPoints)
}

func TestRedeemWithInsufficientPoints(t *testing.T) {
	e := newEnv(t)
	_, dear := e.seedCatalog()
	e.loginWithPoints(10)
	ctx := context.Background()

	reward, err := e.store.Get(ctx, dear)
	require.NoError(t, err)

	// The pre-check gates the UI action.
	assert.False(t, rewards.CanRedeem(e.session.User(), *reward))

	// A forced call is still rejected by the server, never silently
	// accepted.
	err = e.store.Redeem(ctx, dear)
	require.Error(t, err)
	assert.Equal(t, "Insufficient reward points", e.store.Err())
	assert.Empty(t, e.store.Redemptions())
}

func TestListRedemptionsIsNoopWhenSignedOut(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.store.ListRedemptions(context.Background()))
	assert.Empty(t, e.store.Redemptions())
}

func TestAdminCatalogManagement(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.backend.CreateAccount("Root", "root@example.com", "rootpass", models.RoleAdmin, 0)
	require.NoError(t, err)

	// A citizen may not manage the catalog.
	e.loginWithPoints(0)
	_, err = e.store.Create(ctx, models.RewardInput{
		Title: "Nope", Description: "nope", PointsCost: 5,
		Category: models.CategoryVouchers, IsActive: true,
	})
	require.Error(t, err)
	assert.True(t, api.IsForbidden(err))

	e.session.Logout(ctx)
	require.NoError(t, e.session.Login(ctx, models.LoginInput{Email: "root@example.com", Password: "rootpass"}))

	created, err := e.store.Create(ctx, models.RewardInput{
		Title: "Tour", Description: "Inspection walk", PointsCost: 150,
		Category: models.CategorySpecialAccess, IsActive: true,
	})
	require.NoError(t, err)
	require.Len(t, e.store.Rewards(), 1)

	updated, err := e.store.Update(ctx, created.ID, models.RewardInput{
		Title: "Guided Tour", Description: "Inspection walk", PointsCost: 120,
		Category: models.CategorySpecialAccess, IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Guided Tour", updated.Title)
	assert.Equal(t, 120, updated.PointsCost)
	assert.Equal(t, "Guided Tour", e.store.Rewards()[0].Title)

	require.NoError(t, e.store.Remove(ctx, created.ID))
	assert.Empty(t, e.store.Rewards())
	assert.Nil(t, e.store.Current())
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	e := newEnv(t)
	_, err := e.store.Create(context.Background(), models.RewardInput{
		Title: "Odd", Description: "odd", PointsCost: 5,
		Category: "Mystery", IsActive: true,
	})
	require.Error(t, err)
	assert.NotEmpty(t, e.store.Err())
}
