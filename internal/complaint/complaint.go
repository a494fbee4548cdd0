package complaint

import (
	"time"
)

// Complaint priorities.
const (
	PriorityHigh   = "high"
	PriorityNormal = "normal"
	PriorityLow    = "low"
)

// Activity statuses.
const (
	StatusPending   = "PENDING"
	StatusProgress  = "PROGRESS"
	StatusCompleted = "COMPLETED"
)

var (
	Priorities = []string{PriorityHigh, PriorityNormal, PriorityLow}
	Statuses   = []string{StatusPending, StatusProgress, StatusCompleted}
)

// Complaint is immutable once filed; the only mutation path is appending
// activity records.
type Complaint struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	CategoryID  int64      `json:"category_id"`
	Subject     string     `json:"subject"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	CreatedAt   *time.Time `json:"created_at"`
}

// Detail joins the submitter's name, the category title and the full
// activity log onto the complaint for display.
type Detail struct {
	Complaint
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Category   string      `json:"category"`
	Activities []*Activity `json:"activities"`
}

// Activity is an append-only status update on a complaint.
type Activity struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	ComplainID  int64      `json:"complain_id"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	CreatedAt   *time.Time `json:"created_at"`
}

// Page is the paginated listing envelope.
type Page struct {
	CurrentPage int          `json:"currentPage"`
	TotalPages  int          `json:"totalPages"`
	Complains   []*Complaint `json:"complains"`
}
