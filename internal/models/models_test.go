package models

import (
	"testing"
	"time"
)

func TestDueState(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)

	ptr := func(tm time.Time) *time.Time { return &tm }

	cases := []struct {
		name     string
		deadline *time.Time
		want     DueStatus
	}{
		{"no deadline", nil, ""},
		{"earlier today", ptr(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)), DueToday},
		{"later today", ptr(time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC)), DueToday},
		{"yesterday", ptr(time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)), DueOverdue},
		{"next week", ptr(time.Date(2025, 6, 17, 12, 0, 0, 0, time.UTC)), DueUpcoming},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := Task{Deadline: tc.deadline}
			if got := task.DueState(now); got != tc.want {
				t.Errorf("DueState = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range Columns {
		if !ValidStatus(s) {
			t.Errorf("column %q not accepted by ValidStatus", s)
		}
	}
	for _, s := range []Status{"", "done", "in_progress", "archived"} {
		if ValidStatus(s) {
			t.Errorf("ValidStatus accepted %q", s)
		}
	}
}

func TestValidPriority(t *testing.T) {
	for _, p := range []Priority{PriorityP1, PriorityP2, PriorityP3, PriorityP4} {
		if !ValidPriority(p) {
			t.Errorf("priority %q not accepted", p)
		}
	}
	if ValidPriority("P5") || ValidPriority("high") {
		t.Error("ValidPriority accepted an unknown value")
	}
}
