package analytics

import (
	"testing"
	"time"

	"github.com/smb-ai-solution/kanban/internal/models"
)

func TestBuild(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	nextWeek := now.Add(7 * 24 * time.Hour)

	tasks := []models.Task{
		{ID: "a", Status: models.StatusTodo, Priority: models.PriorityP1, Project: "Website", Deadline: &yesterday, UpdatedAt: now.Add(-time.Hour)},
		{ID: "b", Status: models.StatusCompleted, Priority: models.PriorityP2, Project: "Website", UpdatedAt: now.Add(-2 * time.Hour)},
		{ID: "c", Status: models.StatusCompleted, Priority: models.PriorityP2, Deadline: &nextWeek, UpdatedAt: now.Add(-30 * time.Minute)},
	}

	s := Build(tasks, now)

	if s.TotalTasks != 3 {
		t.Errorf("TotalTasks = %d, want 3", s.TotalTasks)
	}
	if s.ByStatus[models.StatusCompleted] != 2 || s.ByStatus[models.StatusTodo] != 1 {
		t.Errorf("ByStatus = %v", s.ByStatus)
	}
	if s.ByStatus[models.StatusTesting] != 0 {
		t.Error("empty columns must still be present in ByStatus")
	}
	if s.ByPriority[models.PriorityP2] != 2 {
		t.Errorf("ByPriority = %v", s.ByPriority)
	}
	if s.ByProject["Website"] != 2 || s.ByProject["General"] != 1 {
		t.Errorf("ByProject = %v, tasks without a project belong to General", s.ByProject)
	}
	if s.DueBreakdown[models.DueOverdue] != 1 || s.DueBreakdown[models.DueUpcoming] != 1 {
		t.Errorf("DueBreakdown = %v", s.DueBreakdown)
	}
	if want := 2.0 / 3.0; s.CompletionRate != want {
		t.Errorf("CompletionRate = %f, want %f", s.CompletionRate, want)
	}
	if s.LastActivity == "" {
		t.Error("LastActivity not set")
	}
}

func TestBuildEmpty(t *testing.T) {
	s := Build(nil, time.Now())
	if s.TotalTasks != 0 || s.CompletionRate != 0 {
		t.Errorf("empty summary = %+v", s)
	}
	if s.LastActivity != "" {
		t.Errorf("LastActivity = %q, want empty", s.LastActivity)
	}
}
