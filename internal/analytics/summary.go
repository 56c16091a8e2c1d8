// Package analytics builds read-time aggregations over the board's tasks.
package analytics

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/smb-ai-solution/kanban/internal/models"
)

// Summary is the analytics view of a task collection. Everything here is
// derived; nothing is persisted.
type Summary struct {
	TotalTasks     int                         `json:"total_tasks"`
	ByStatus       map[models.Status]int       `json:"by_status"`
	ByPriority     map[models.Priority]int     `json:"by_priority"`
	ByProject      map[string]int              `json:"by_project"`
	DueBreakdown   map[models.DueStatus]int    `json:"due_breakdown"`
	CompletionRate float64                     `json:"completion_rate"`
	LastActivity   string                      `json:"last_activity,omitempty"`
}

// Build computes the summary for the given tasks at the given instant.
func Build(tasks []models.Task, now time.Time) Summary {
	s := Summary{
		ByStatus:     make(map[models.Status]int, len(models.Columns)),
		ByPriority:   map[models.Priority]int{},
		ByProject:    map[string]int{},
		DueBreakdown: map[models.DueStatus]int{},
	}
	for _, col := range models.Columns {
		s.ByStatus[col] = 0
	}

	var latest time.Time
	for _, t := range tasks {
		s.TotalTasks++
		s.ByStatus[t.Status]++
		s.ByPriority[t.Priority]++

		project := t.Project
		if project == "" {
			project = "General"
		}
		s.ByProject[project]++

		if due := t.DueState(now); due != "" {
			s.DueBreakdown[due]++
		}
		if t.UpdatedAt.After(latest) {
			latest = t.UpdatedAt
		}
	}

	if s.TotalTasks > 0 {
		s.CompletionRate = float64(s.ByStatus[models.StatusCompleted]) / float64(s.TotalTasks)
	}
	if !latest.IsZero() {
		s.LastActivity = humanize.RelTime(latest, now, "ago", "from now")
	}
	return s
}
