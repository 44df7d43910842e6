package models

import "time"

// IssueType enum
type IssueType string

const (
	IssueStructural    IssueType = "Structural"
	IssueSurface       IssueType = "Surface/Flooring"
	IssueHandrail      IssueType = "Handrail/Railing"
	IssueLighting      IssueType = "Lighting"
	IssueAccessibility IssueType = "Accessibility"
	IssueOther         IssueType = "Other"
)

// Condition enum
type Condition string

const (
	ConditionCritical  Condition = "Critical"
	ConditionPoor      Condition = "Poor"
	ConditionFair      Condition = "Fair"
	ConditionGood      Condition = "Good"
	ConditionExcellent Condition = "Excellent"
)

// ReportStatus enum. New reports always start as pending.
type ReportStatus string

const (
	StatusPending    ReportStatus = "pending"
	StatusInProgress ReportStatus = "in-progress"
	StatusCompleted  ReportStatus = "completed"
	StatusRejected   ReportStatus = "rejected"
)

// ValidIssueType reports whether t is a known issue type.
func ValidIssueType(t IssueType) bool {
	switch t {
	case IssueStructural, IssueSurface, IssueHandrail, IssueLighting, IssueAccessibility, IssueOther:
		return true
	}
	return false
}

// ValidCondition reports whether c is a known condition grade.
func ValidCondition(c Condition) bool {
	switch c {
	case ConditionCritical, ConditionPoor, ConditionFair, ConditionGood, ConditionExcellent:
		return true
	}
	return false
}

// ValidReportStatus reports whether s is a known report status.
func ValidReportStatus(s ReportStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// Location is a GeoJSON point with a postal address attached.
// Coordinates are [longitude, latitude].
type Location struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	State       string     `json:"state"`
}

// Comment is a public comment on a report.
type Comment struct {
	ID        string    `json:"_id,omitempty"`
	User      UserRef   `json:"user"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// AdminComment is a moderator comment. StatusChange records the status
// the report was moved to by this comment, if any.
type AdminComment struct {
	ID           string       `json:"_id,omitempty"`
	User         UserRef      `json:"user"`
	Comment      string       `json:"comment"`
	StatusChange ReportStatus `json:"statusChange,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Report is a bridge condition report as returned by the backend.
type Report struct {
	ID             string         `json:"_id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	IssueType      IssueType      `json:"issueType"`
	Condition      Condition      `json:"condition"`
	Status         ReportStatus   `json:"status"`
	Location       Location       `json:"location"`
	Images         []string       `json:"images"`
	IsAnonymous    bool           `json:"isAnonymous"`
	Upvotes        int            `json:"upvotes"`
	PublicComments []Comment      `json:"publicComments"`
	AdminComments  []AdminComment `json:"adminComments"`
	User           *UserRef       `json:"user,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// ReportInput is the client-side form for creating or editing a report.
// ImagePaths are local files attached as multipart image parts.
type ReportInput struct {
	Title       string    `validate:"required,max=200"`
	Description string    `validate:"required,max=2000"`
	IssueType   IssueType `validate:"required"`
	Condition   Condition `validate:"required"`
	Location    Location  `validate:"required"`
	IsAnonymous bool
	ImagePaths  []string `validate:"max=5"`
}

// Pagination is the page window returned alongside list responses.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}
