package reports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/api"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/models"
)

// List fetches a feed page using the active filters and replaces the
// feed and pagination state with the response.
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

	env, err := s.client.Get(ctx, "/reports", s.query(page, f))
	if err != nil {
		return s.fail(err, "Failed to fetch reports")
	}

	var records []models.Report
	if err := env.Decode(&records); err != nil {
		return s.fail(err, "Failed to fetch reports")
	}

	s.mu.Lock()
	s.feed = s.absorb(records)
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

// ListMine fetches the caller's own reports. A no-op without a signed
// in session.
func (s *Store) ListMine(ctx context.Context) error {
	if !s.session.IsAuthenticated() {
		return nil
	}
	s.begin()

	env, err := s.client.Get(ctx, "/reports/user-reports", nil)
	if err != nil {
		return s.fail(err, "Failed to fetch user reports")
	}

	var records []models.Report
	if err := env.Decode(&records); err != nil {
		return s.fail(err, "Failed to fetch user reports")
	}

	s.mu.Lock()
	s.mine = s.absorb(records)
	s.mineLoaded = true
	s.loading = false
	s.mu.Unlock()
	return nil
}

// Get fetches one report and selects it as the current one.
func (s *Store) Get(ctx context.Context, id string) (*models.Report, error) {
	s.begin()

	env, err := s.client.Get(ctx, "/reports/"+id, nil)
	if err != nil {
		if api.IsNotFound(err) {
			return nil, s.fail(err, "Report not found")
		}
		return nil, s.fail(err, "Failed to fetch report")
	}

	var record models.Report
	if err := env.Decode(&record); err != nil {
		return nil, s.fail(err, "Failed to fetch report")
	}

	s.mu.Lock()
	s.entities[record.ID] = record
	s.currentID = record.ID
	s.loading = false
	s.mu.Unlock()
	return &record, nil
}

// checkImages enforces the upload limits before any bytes leave the
// client. requireOne is true for brand-new reports.
func checkImages(paths []string, requireOne bool) error {
	if requireOne && len(paths) == 0 {
		return fmt.Errorf("at least one image is required")
	}
	if len(paths) > MaxImages {
		return fmt.Errorf("at most %d images are allowed", MaxImages)
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		if info.Size() > MaxImageBytes {
			return fmt.Errorf("image %s exceeds the 5MB limit", filepath.Base(p))
		}
	}
	return nil
}

func (s *Store) buildForm(in models.ReportInput) *api.Form {
	form := api.NewForm()
	form.Field("title", strings.TrimSpace(in.Title))
	form.Field("description", in.Description)
	form.Field("issueType", string(in.IssueType))
	form.Field("condition", string(in.Condition))
	form.Bool("isAnonymous", in.IsAnonymous)
	form.Location(in.Location)
	for _, p := range in.ImagePaths {
		form.File("images", p)
	}
	return form
}

// Create submits a new report. The record comes back with the server
// assigned id and pending status and is prepended to the feed, and to
// the "my reports" view when that has been loaded.
func (s *Store) Create(ctx context.Context, in models.ReportInput) (*models.Report, error) {
	done, err := s.guard.Begin("create")
	if err != nil {
		return nil, err
	}
	defer done()

	if err := s.validate.Struct(in); err != nil {
		return nil, s.fail(err, "Failed to create report")
	}
	if !models.ValidIssueType(in.IssueType) || !models.ValidCondition(in.Condition) {
		return nil, s.fail(fmt.Errorf("unknown issue type or condition"), "Failed to create report")
	}
	if err := checkImages(in.ImagePaths, true); err != nil {
		return nil, s.fail(err, "Failed to create report")
	}
	s.begin()

	env, err := s.client.PostForm(ctx, "/reports", s.buildForm(in))
	if err != nil {
		return nil, s.fail(err, "Failed to create report")
	}

	var record models.Report
	if err := env.Decode(&record); err != nil {
		return nil, s.fail(err, "Failed to create report")
	}

	s.mu.Lock()
	s.entities[record.ID] = record
	s.feed = append([]string{record.ID}, s.feed...)
	if s.mineLoaded {
		s.mine = append([]string{record.ID}, s.mine...)
	}
	s.loading = false
	s.mu.Unlock()
	return &record, nil
}

// Update edits an existing report. Images in the input are appended to
// the stored ones; nothing already uploaded is touched. The response
// record lands in the cache once, so feed, own-reports and detail
// views all reflect the edit.
func (s *Store) Update(ctx context.Context, id string, in models.ReportInput) (*models.Report, error) {
	done, err := s.guard.Begin(id)
	if err != nil {
		return nil, err
	}
	defer done()

	if err := s.validate.Struct(in); err != nil {
		return nil, s.fail(err, "Failed to update report")
	}
	if err := checkImages(in.ImagePaths, false); err != nil {
		return nil, s.fail(err, "Failed to update report")
	}
	s.begin()

	env, err := s.client.PutForm(ctx, "/reports/"+id, s.buildForm(in))
	if err != nil {
		return nil, s.fail(err, "Failed to update report")
	}

	var record models.Report
	if err := env.Decode(&record); err != nil {
		return nil, s.fail(err, "Failed to update report")
	}

	s.mu.Lock()
	s.entities[record.ID] = record
	s.loading = false
	s.mu.Unlock()
	return &record, nil
}

// Remove deletes a report and drops it from every view.
func (s *Store) Remove(ctx context.Context, id string) error {
	done, err := s.guard.Begin(id)
	if err != nil {
		return err
	}
	defer done()
	s.begin()

	if _, err := s.client.Delete(ctx, "/reports/"+id); err != nil {
		return s.fail(err, "Failed to delete report")
	}

	s.mu.Lock()
	delete(s.entities, id)
	s.feed = without(s.feed, id)
	s.mine = without(s.mine, id)
	if s.currentID == id {
		s.currentID = ""
	}
	s.loading = false
	s.mu.Unlock()
	return nil
}

// AddPublicComment appends a public comment. The server returns the
// full comment list, which replaces the cached one.
func (s *Store) AddPublicComment(ctx context.Context, id, text string) error {
	done, err := s.guard.Begin(id)
	if err != nil {
		return err
	}
	defer done()
	s.begin()

	body := map[string]string{"comment": text}
	env, err := s.client.Post(ctx, "/reports/"+id+"/public-comments", body)
	if err != nil {
		return s.fail(err, "Failed to add comment")
	}

	var comments []models.Comment
	if err := env.Decode(&comments); err != nil {
		return s.fail(err, "Failed to add comment")
	}

	s.mu.Lock()
	if r, ok := s.entities[id]; ok {
		r.PublicComments = comments
		s.entities[id] = r
	}
	s.loading = false
	s.mu.Unlock()
	return nil
}

// AddAdminComment appends a moderator comment, optionally moving the
// report to a new status in the same call. Every status change goes
// through here so it is always recorded by a comment.
func (s *Store) AddAdminComment(ctx context.Context, id, text string, status models.ReportStatus) error {
	done, err := s.guard.Begin(id)
	if err != nil {
		return err
	}
	defer done()

	if status != "" && !models.ValidReportStatus(status) {
		return s.fail(fmt.Errorf("unknown status %q", status), "Failed to add admin comment")
	}
	s.begin()

	body := map[string]string{"comment": text}
	if status != "" {
		body["status"] = string(status)
	}
	env, err := s.client.Post(ctx, "/reports/"+id+"/admin-comments", body)
	if err != nil {
		return s.fail(err, "Failed to add admin comment")
	}

	var comments []models.AdminComment
	if err := env.Decode(&comments); err != nil {
		return s.fail(err, "Failed to add admin comment")
	}

	s.mu.Lock()
	if r, ok := s.entities[id]; ok {
		r.AdminComments = comments
		if status != "" {
			r.Status = status
		}
		s.entities[id] = r
	}
	s.loading = false
	s.mu.Unlock()
	return nil
}

// Upvote bumps the counter. The cached count is taken from the server
// response, never incremented locally, so concurrent upvotes from
// other clients cannot drift the display.
func (s *Store) Upvote(ctx context.Context, id string) error {
	done, err := s.guard.Begin(id)
	if err != nil {
		return err
	}
	defer done()
	s.begin()

	env, err := s.client.Put(ctx, "/reports/"+id+"/upvote", nil)
	if err != nil {
		return s.fail(err, "Failed to upvote report")
	}

	var result struct {
		Upvotes int `json:"upvotes"`
	}
	if err := env.Decode(&result); err != nil {
		return s.fail(err, "Failed to upvote report")
	}

	s.mu.Lock()
	if r, ok := s.entities[id]; ok {
		r.Upvotes = result.Upvotes
		s.entities[id] = r
	}
	s.loading = false
	s.mu.Unlock()
	return nil
}

// UpdateFilters merges the patch into the active filters and refetches
// from page one; a filter change never leaves the view on a stale
// page.
func (s *Store) UpdateFilters(ctx context.Context, patch FilterPatch) error {
	s.mu.Lock()
	s.filters = merge(s.filters, patch)
	f := s.filters
	s.mu.Unlock()
	return s.list(ctx, 1, f)
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
