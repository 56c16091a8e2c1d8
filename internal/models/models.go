package models

import "time"

// Status identifies one of the fixed board columns.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "inprogress"
	StatusTesting    Status = "testing"
	StatusCompleted  Status = "completed"
)

// Columns lists the board columns in display order. Every task belongs to
// exactly one of them at any time.
var Columns = []Status{StatusTodo, StatusInProgress, StatusTesting, StatusCompleted}

// ValidStatus reports whether s names a known board column.
func ValidStatus(s Status) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusTesting, StatusCompleted:
		return true
	}
	return false
}

// Priority is a display/sort hint, P1 highest to P4 lowest.
type Priority string

const (
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
	PriorityP4 Priority = "P4"
)

// ValidPriority reports whether p is one of P1..P4.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityP1, PriorityP2, PriorityP3, PriorityP4:
		return true
	}
	return false
}

// DueStatus is derived from the deadline at read time and never persisted.
type DueStatus string

const (
	DueOverdue  DueStatus = "overdue"
	DueToday    DueStatus = "today"
	DueUpcoming DueStatus = "upcoming"
)

// Task represents a single card on the board.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	Tags        []string   `json:"tags"`
	Project     string     `json:"project"`
	Category    string     `json:"category"`
	AssignedTo  string     `json:"assigned_to"`
	CreatedBy   string     `json:"created_by"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// DueState classifies the task deadline relative to now. Tasks without a
// deadline return the empty string.
func (t Task) DueState(now time.Time) DueStatus {
	if t.Deadline == nil {
		return ""
	}
	d := t.Deadline.In(now.Location())
	ny, nm, nd := now.Date()
	dy, dm, dd := d.Date()
	if dy == ny && dm == nm && dd == nd {
		return DueToday
	}
	if d.Before(now) {
		return DueOverdue
	}
	return DueUpcoming
}

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectPaused    ProjectStatus = "paused"
	ProjectCompleted ProjectStatus = "completed"
)

// ValidProjectStatus reports whether s is a known project lifecycle state.
func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectActive, ProjectPaused, ProjectCompleted:
		return true
	}
	return false
}

// ProjectColors enumerates the color tags a project may carry.
var ProjectColors = map[string]struct{}{
	"red": {}, "blue": {}, "green": {}, "yellow": {}, "purple": {},
	"orange": {}, "pink": {}, "gray": {}, "teal": {}, "indigo": {},
}

// Project groups tasks under a common name. Deleting a project does not
// cascade to its tasks; they keep the stale name and render with it.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Color       string        `json:"color"`
	Status      ProjectStatus `json:"status"`
	Owner       string        `json:"owner"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// User is the board's read-only view of an account. Credentials live in the
// auth layer, not here.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

// Roles supported for users.
const (
	RoleAdmin  = "admin"
	RoleUser   = "user"
	RoleViewer = "viewer"
)

// ChatMessage is one entry in a user's assistant conversation.
type ChatMessage struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
