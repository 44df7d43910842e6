package reports_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/api"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/config"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/models"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/reports"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/session"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/stub"
)

type env struct {
	t       *testing.T
	backend *stub.Server
	session *session.Store
	store   *reports.Store
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
		store:   reports.New(client, sess),
	}
}

// loginAs provisions an account with the given role and signs the
// session in with it.
func (e *env) loginAs(role models.Role) {
	e.t.Helper()
	email := string(role) + "@example.com"
	_, err := e.backend.CreateAccount("Test "+string(role), email, "hunter22", role, 0)
	require.NoError(e.t, err)
	require.NoError(e.t, e.session.Login(context.Background(), models.LoginInput{Email: email, Password: "hunter22"}))
}

func (e *env) imageFile(name string) string {
	e.t.Helper()
	path := filepath.Join(e.t.TempDir(), name)
	require.NoError(e.t, os.WriteFile(path, []byte("jpeg-bytes"), 0o644))
	return path
}

func (e *env) input(title string, images ...string) models.ReportInput {
	return models.ReportInput{
		Title:       title,
		Description: "The handrail on the east side is loose.",
		IssueType:   models.IssueHandrail,
		Condition:   models.ConditionPoor,
		Location: models.Location{
			Type:        "Point",
			Coordinates: [2]float64{77.209, 28.6139},
			Address:     "FOB near Gate 2",
			City:        "New Delhi",
			State:       "Delhi",
		},
		ImagePaths: images,
	}
}

func TestCreateReport(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.loginAs(models.RoleCitizen)
	require.NoError(t, e.store.ListMine(ctx))
	require.Empty(t, e.store.MyReports())

	record, err := e.store.Create(ctx, e.input("Broken rail", e.imageFile("rail.jpg")))
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, models.StatusPending, record.Status)
	assert.Equal(t, 0, record.Upvotes)
	require.Len(t, record.Images, 1)
	assert.NotEqual(t, "rail.jpg", record.Images[0]) // server-assigned name

	// The new report shows up in both local views without refetching.
	require.Len(t, e.store.Reports(), 1)
	require.Len(t, e.store.MyReports(), 1)
	assert.Equal(t, record.ID, e.store.MyReports()[0].ID)
}

func TestCreateRequiresImage(t *testing.T) {
	e := newEnv(t)
	e.loginAs(models.RoleCitizen)

	_, err := e.store.Create(context.Background(), e.input("No image"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one image")
	assert.Equal(t, "Failed to create report", e.store.Err())
	assert.False(t, e.store.Loading())
}

func TestCreateThenListShowsNewestFirst(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.loginAs(models.RoleCitizen)

	_, err := e.store.Create(ctx, e.input("First", e.imageFile("a.jpg")))
	require.NoError(t, err)
	created, err := e.store.Create(ctx, e.input("Second", e.imageFile("b.jpg")))
	require.NoError(t, err)

	require.NoError(t, e.store.List(ctx, 1))
	feed := e.store.Reports()
	require.NotEmpty(t, feed)
	assert.Equal(t, created.ID, feed[0].ID)
	assert.Equal(t, 1, e.store.Pagination().Page)
	assert.Equal(t, 2, e.store.Pagination().Total)
}

func TestGetUnknownReport(t *testing.T) {
	e := newEnv(t)
	_, err := e.store.Get(context.Background(), "does-not-exist")
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))
	assert.Equal(t, "Report not found", e.store.Err())
}

func TestListMineIsNoopWhenSignedOut(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.store.ListMine(context.Background()))
	assert.Empty(t, e.store.MyReports())
	assert.False(t, e.store.Loading())
}

// TestStatusChangeReachesEveryView exercises the three-way cache
// contract: after a moderation status change, the detail view, the
// feed and the own-reports view must all agree.
func TestStatusChangeReachesEveryView(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.loginAs(models.RoleEngineer)

	record, err := e.store.Create(ctx, e.input("Flickering lamp", e.imageFile("lamp.jpg")))
	require.NoError(t, err)

	require.NoError(t, e.store.List(ctx, 1))
	require.NoError(t, e.store.ListMine(ctx))
	_, err = e.store.Get(ctx, record.ID)
	require.NoError(t, err)

	require.NoError(t, e.store.AddAdminComment(ctx, record.ID, "Replaced the fixture.", models.StatusCompleted))

	current := e.store.Current()
	require.NotNil(t, current)
	assert.Equal(t, models.StatusCompleted, current.Status)
	require.Len(t, current.AdminComments, 1)
	assert.Equal(t, models.StatusCompleted, current.AdminComments[0].StatusChange)

	require.NotEmpty(t, e.store.Reports())
	assert.Equal(t, models.StatusCompleted, e.store.Reports()[0].Status)
	require.NotEmpty(t, e.store.MyReports())
	assert.Equal(t, models.StatusCompleted, e.store.MyReports()[0].Status)
}

func TestPublicCommentPatchesCache(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.loginAs(models.RoleCitizen)

	record, err := e.store.Create(ctx, e.input("Crack in slab", e.imageFile("slab.jpg")))
	require.NoError(t, err)
	_, err = e.store.Get(ctx, record.ID)
	require.NoError(t, err)

	require.NoError(t, e.store.AddPublicComment(ctx, record.ID, "Saw this today, getting worse."))

	current := e.store.Current()
	require.NotNil(t, current)
	require.Len(t, current.PublicComments, 1)
	assert.Equal(t, "Saw this today, getting worse.", current.PublicComments[0].Comment)
	assert.Equal(t, "Test citizen", current.PublicComments[0].User.Name)
}

func TestUpvoteUsesServerCount(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.loginAs(models.RoleCitizen)

	record, err := e.store.Create(ctx, e.input("Rusty bolts", e.imageFile("bolt.jpg")))
	require.NoError(t, err)
	require.NoError(t, e.store.List(ctx, 1))

	require.NoError(t, e.store.Upvote(ctx, record.ID))
	assert.Equal(t, 1, e.store.Reports()[0].Upvotes)
	assert.False(t, e.store.Loading())
	assert.Empty(t, e.store.Err())

	// A second upvote from the same user is rejected server-side and
	// the cached count stays at the confirmed value.
	err = e.store.Upvote(ctx, record.ID)
	require.Error(t, err)
	assert.Equal(t, "Report already upvoted", e.store.Err())
	assert.Equal(t, 1, e.store.Reports()[0].Upvotes)
	assert.False(t, e.store.Loading())
}

func TestUpdateAppendsImagesAndSyncsViews(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.loginAs(models.RoleCitizen)

	record, err := e.store.Create(ctx, e.input("Initial", e.imageFile("one.jpg")))
	require.NoError(t, err)
	require.NoError(t, e.store.ListMine(ctx))

	in := e.input("Initial, but worse", e.imageFile("two.jpg"))
	updated, err := e.store.Update(ctx, record.ID, in)
	require.NoError(t, err)

	assert.Equal(t, "Initial, but worse", updated.Title)
	assert.Len(t, updated.Images, 2) // the stored image survived
	assert.Equal(t, "Initial, but worse", e.store.MyReports()[0].Title)
}

// TestRejectedUpdateLeavesRecordUntouched verifies a validation
// failure rolls the whole edit back: the server must never keep the
// valid fields of a request it rejected.
func TestRejectedUpdateLeavesRecordUntouched(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.loginAs(models.RoleCitizen)

	record, err := e.store.Create(ctx, e.input("Original title", e.imageFile("orig.jpg")))
	require.NoError(t, err)

	in := e.input("Hijacked title")
	in.Condition = "NotACondition"
	_, err = e.store.Update(ctx, record.ID, in)
	require.Error(t, err)
	assert.True(t, api.IsValidation(err))
	assert.Equal(t, "Invalid condition", e.store.Err())

	fresh, err := e.store.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original title", fresh.Title)
	assert.Equal(t, models.ConditionPoor, fresh.Condition)
	assert.Len(t, fresh.Images, 1)
}

func TestUpdateWithoutNewImagesIsAllowed(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.loginAs(models.RoleCitizen)

	record, err := e.store.Create(ctx, e.input("Keep images", e.imageFile("only.jpg")))
	require.NoError(t, err)

	updated, err := e.store.Update(ctx, record.ID, e.input("Keep images, new text"))
	require.NoError(t, err)
	assert.Len(t, updated.Images, 1)
}

func TestRemoveDropsEveryView(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.loginAs(models.RoleCitizen)

	record, err := e.store.Create(ctx, e.input("Short-lived", e.imageFile("x.jpg")))
	require.NoError(t, err)
	require.NoError(t, e.store.ListMine(ctx))
	_, err = e.store.Get(ctx, record.ID)
	require.NoError(t, err)

	require.NoError(t, e.store.Remove(ctx, record.ID))
	assert.Empty(t, e.store.Reports())
	assert.Empty(t, e.store.MyReports())
	assert.Nil(t, e.store.Current())
}

func TestFilterChangeResetsToFirstPage(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.loginAs(models.RoleEngineer)

	done, err := e.store.Create(ctx, e.input("Fixed already", e.imageFile("f.jpg")))
	require.NoError(t, err)
	_, err = e.store.Create(ctx, e.input("Still broken", e.imageFile("s.jpg")))
	require.NoError(t, err)
	require.NoError(t, e.store.AddAdminComment(ctx, done.ID, "Done.", models.StatusCompleted))

	// Park the store on a later page first.
	require.NoError(t, e.store.List(ctx, 2))
	require.Equal(t, 2, e.store.Pagination().Page)

	pending := models.StatusPending
	require.NoError(t, e.store.UpdateFilters(ctx, reports.FilterPatch{Status: &pending}))

	assert.Equal(t, 1, e.store.Pagination().Page)
	feed := e.store.Reports()
	require.Len(t, feed, 1)
	assert.Equal(t, models.StatusPending, feed[0].Status)
	assert.Equal(t, models.StatusPending, e.store.Filters().Status)
}

func TestGeoFilterNarrowsFeed(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.loginAs(models.RoleCitizen)

	near := e.input("Near the point", e.imageFile("n.jpg"))
	_, err := e.store.Create(ctx, near)
	require.NoError(t, err)

	far := e.input("Far away", e.imageFile("fa.jpg"))
	far.Location.Coordinates = [2]float64{72.8777, 19.076} // Mumbai
	_, err = e.store.Create(ctx, far)
	require.NoError(t, err)

	require.NoError(t, e.store.UpdateFilters(ctx, reports.FilterPatch{
		Geo: &reports.GeoFilter{Lat: 28.6139, Lng: 77.209, Radius: 10},
	}))
	feed := e.store.Reports()
	require.Len(t, feed, 1)
	assert.Equal(t, "Near the point", feed[0].Title)
}
