package stub

import (
	"math"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/models"
)

func (s *Server) storeUpload(c *gin.Context, file *multipart.FileHeader) (string, error) {
	name := uuid.NewString() + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(s.cfg.UploadsDir, name)); err != nil {
		return "", err
	}
	return name, nil
}

func parseLocation(c *gin.Context) (models.Location, bool) {
	lng, errLng := strconv.ParseFloat(c.PostForm("location[coordinates][0]"), 64)
	lat, errLat := strconv.ParseFloat(c.PostForm("location[coordinates][1]"), 64)
	if errLng != nil || errLat != nil {
		return models.Location{}, false
	}
	typ := c.PostForm("location[type]")
	if typ == "" {
		typ = "Point"
	}
	return models.Location{
		Type:        typ,
		Coordinates: [2]float64{lng, lat},
		Address:     c.PostForm("location[address]"),
		City:        c.PostForm("location[city]"),
		State:       c.PostForm("location[state]"),
	}, true
}

// haversineKm is the great-circle distance between two points.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

func pageWindow(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

func paginate[T any](items []T, page, limit int) ([]T, models.Pagination) {
	total := len(items)
	pages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return items[start:end], models.Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

func sortReports(records []models.Report, sortBy string) {
	field, dir, _ := strings.Cut(sortBy, ":")
	desc := dir == "desc"
	sort.SliceStable(records, func(i, j int) bool {
		var less bool
		switch field {
		case "upvotes":
			less = records[i].Upvotes < records[j].Upvotes
		default:
			less = records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		if desc {
			return !less
		}
		return less
	})
}

func (s *Server) listReports(c *gin.Context) {
	status := c.Query("status")
	condition := c.Query("condition")
	issueType := c.Query("issueType")
	sortBy := c.DefaultQuery("sortBy", "createdAt:desc")
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	radius, radErr := strconv.ParseFloat(c.Query("radius"), 64)
	geo := latErr == nil && lngErr == nil && radErr == nil && radius > 0
	page, limit := pageWindow(c)

	s.mu.Lock()
	records := make([]models.Report, 0, len(s.reports))
	for _, r := range s.reports {
		if status != "" && string(r.Status) != status {
			continue
		}
		if condition != "" && string(r.Condition) != condition {
			continue
		}
		if issueType != "" && string(r.IssueType) != issueType {
			continue
		}
		if geo {
			d := haversineKm(lat, lng, r.Location.Coordinates[1], r.Location.Coordinates[0])
			if d > radius {
				continue
			}
		}
		records = append(records, *r)
	}
	s.mu.Unlock()

	sortReports(records, sortBy)
	pageItems, pagination := paginate(records, page, limit)
	c.JSON(http.StatusOK, gin.H{"data": pageItems, "pagination": pagination, "count": len(pageItems)})
}

func (s *Server) userReports(c *gin.Context) {
	userID := c.GetString("user_id")

	s.mu.Lock()
	records := make([]models.Report, 0)
	for id, owner := range s.owners {
		if owner == userID {
			records = append(records, *s.reports[id])
		}
	}
	s.mu.Unlock()

	sortReports(records, "createdAt:desc")
	c.JSON(http.StatusOK, gin.H{"data": records, "count": len(records)})
}

func (s *Server) getReport(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[c.Param("id")]
	if !ok {
		fail(c, http.StatusNotFound, "Report not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": *r})
}

func (s *Server) createReport(c *gin.Context) {
	userID := c.GetString("user_id")

	title := strings.TrimSpace(c.PostForm("title"))
	description := c.PostForm("description")
	issueType := models.IssueType(c.PostForm("issueType"))
	condition := models.Condition(c.PostForm("condition"))
	isAnonymous := c.PostForm("isAnonymous") == "true"

	if title == "" || description == "" {
		fail(c, http.StatusBadRequest, "Title and description are required")
		return
	}
	if !models.ValidIssueType(issueType) {
		fail(c, http.StatusBadRequest, "Invalid issue type")
		return
	}
	if !models.ValidCondition(condition) {
		fail(c, http.StatusBadRequest, "Invalid condition")
		return
	}
	location, ok := parseLocation(c)
	if !ok {
		fail(c, http.StatusBadRequest, "Invalid location coordinates")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		fail(c, http.StatusBadRequest, "At least one image is required")
		return
	}
	if len(files) > 5 {
		fail(c, http.StatusBadRequest, "At most 5 images are allowed")
		return
	}
	images := make([]string, 0, len(files))
	for _, file := range files {
		if file.Size > 5<<20 {
			fail(c, http.StatusBadRequest, "Each image must be 5MB or smaller")
			return
		}
		name, err := s.storeUpload(c, file)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Failed to store image")
			return
		}
		images = append(images, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	r := &models.Report{
		ID:             uuid.NewString(),
		Title:          title,
		Description:    description,
		IssueType:      issueType,
		Condition:      condition,
		Status:         models.StatusPending,
		Location:       location,
		Images:         images,
		IsAnonymous:    isAnonymous,
		PublicComments: []models.Comment{},
		AdminComments:  []models.AdminComment{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if !isAnonymous {
		r.User = s.userRef(userID)
	}
	s.reports[r.ID] = r
	s.owners[r.ID] = userID
	c.JSON(http.StatusCreated, gin.H{"data": *r})
}

func (s *Server) updateReport(c *gin.Context) {
	userID := c.GetString("user_id")
	id := c.Param("id")

	// Validate the whole form before touching the record, so a
	// rejected request never leaves a half-applied edit behind.
	title := strings.TrimSpace(c.PostForm("title"))
	description := c.PostForm("description")
	var issueType models.IssueType
	if raw := c.PostForm("issueType"); raw != "" {
		issueType = models.IssueType(raw)
		if !models.ValidIssueType(issueType) {
			fail(c, http.StatusBadRequest, "Invalid issue type")
			return
		}
	}
	var condition models.Condition
	if raw := c.PostForm("condition"); raw != "" {
		condition = models.Condition(raw)
		if !models.ValidCondition(condition) {
			fail(c, http.StatusBadRequest, "Invalid condition")
			return
		}
	}
	anonymous := c.PostForm("isAnonymous")
	location, hasLocation := parseLocation(c)

	var newImages []string
	if form, err := c.MultipartForm(); err == nil {
		for _, file := range form.File["images"] {
			if file.Size > 5<<20 {
				fail(c, http.StatusBadRequest, "Each image must be 5MB or smaller")
				return
			}
			name, err := s.storeUpload(c, file)
			if err != nil {
				fail(c, http.StatusInternalServerError, "Failed to store image")
				return
			}
			newImages = append(newImages, name)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		fail(c, http.StatusNotFound, "Report not found")
		return
	}
	caller := s.users[userID]
	if caller == nil {
		fail(c, http.StatusUnauthorized, "User no longer exists")
		return
	}
	if s.owners[id] != userID && !caller.Role.CanModerate() {
		fail(c, http.StatusForbidden, "Not allowed to edit this report")
		return
	}

	if title != "" {
		r.Title = title
	}
	if description != "" {
		r.Description = description
	}
	if issueType != "" {
		r.IssueType = issueType
	}
	if condition != "" {
		r.Condition = condition
	}
	if anonymous != "" {
		r.IsAnonymous = anonymous == "true"
	}
	if hasLocation {
		r.Location = location
	}
	// Stored images stay; new uploads are appended.
	r.Images = append(r.Images, newImages...)
	r.UpdatedAt = time.Now().UTC()
	c.JSON(http.StatusOK, gin.H{"data": *r})
}

func (s *Server) deleteReport(c *gin.Context) {
	userID := c.GetString("user_id")
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[id]; !ok {
		fail(c, http.StatusNotFound, "Report not found")
		return
	}
	caller := s.users[userID]
	if caller == nil {
		fail(c, http.StatusUnauthorized, "User no longer exists")
		return
	}
	if s.owners[id] != userID && caller.Role != models.RoleAdmin {
		fail(c, http.StatusForbidden, "Not allowed to delete this report")
		return
	}
	delete(s.reports, id)
	delete(s.owners, id)
	delete(s.upvoted, id)
	c.JSON(http.StatusOK, gin.H{"message": "Report deleted"})
}

func (s *Server) addPublicComment(c *gin.Context) {
	var input struct {
		Comment string `json:"comment" binding:"required,max=1000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[c.Param("id")]
	if !ok {
		fail(c, http.StatusNotFound, "Report not found")
		return
	}
	ref := s.userRef(c.GetString("user_id"))
	if ref == nil {
		fail(c, http.StatusUnauthorized, "User no longer exists")
		return
	}
	r.PublicComments = append(r.PublicComments, models.Comment{
		ID:        uuid.NewString(),
		User:      *ref,
		Comment:   input.Comment,
		CreatedAt: time.Now().UTC(),
	})
	r.UpdatedAt = time.Now().UTC()
	c.JSON(http.StatusCreated, gin.H{"data": r.PublicComments})
}

func (s *Server) addAdminComment(c *gin.Context) {
	var input struct {
		Comment string `json:"comment" binding:"required,max=1000"`
		Status  string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	status := models.ReportStatus(input.Status)
	if input.Status != "" && !models.ValidReportStatus(status) {
		fail(c, http.StatusBadRequest, "Invalid status")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[c.Param("id")]
	if !ok {
		fail(c, http.StatusNotFound, "Report not found")
		return
	}
	ref := s.userRef(c.GetString("user_id"))
	if ref == nil {
		fail(c, http.StatusUnauthorized, "User no longer exists")
		return
	}
	comment := models.AdminComment{
		ID:        uuid.NewString(),
		User:      *ref,
		Comment:   input.Comment,
		CreatedAt: time.Now().UTC(),
	}
	if input.Status != "" {
		comment.StatusChange = status
		r.Status = status
	}
	r.AdminComments = append(r.AdminComments, comment)
	r.UpdatedAt = time.Now().UTC()
	c.JSON(http.StatusCreated, gin.H{"data": r.AdminComments})
}

func (s *Server) upvoteReport(c *gin.Context) {
	userID := c.GetString("user_id")
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		fail(c, http.StatusNotFound, "Report not found")
		return
	}
	if s.upvoted[id] == nil {
		s.upvoted[id] = make(map[string]bool)
	}
	if s.upvoted[id][userID] {
		fail(c, http.StatusBadRequest, "Report already upvoted")
		return
	}
	s.upvoted[id][userID] = true
	r.Upvotes++
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"upvotes": r.Upvotes}})
}
