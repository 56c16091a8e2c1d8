package board

import (
	"strings"

	"github.com/smb-ai-solution/kanban/internal/models"
)

// FilterAll is the wildcard value for the priority and status filters.
const FilterAll = "all"

// FilterView returns a filtered projection of the board. It is read-only and
// recomputed from the authoritative state on every call: search is a
// case-insensitive substring match over title, description and tags, while
// priority and status are exact matches unless set to "all" (or empty).
func (m *Manager) FilterView(search, priority, status string) map[models.Status][]models.Task {
	search = strings.ToLower(strings.TrimSpace(search))

	out := make(map[models.Status][]models.Task, len(models.Columns))
	snapshot := m.Snapshot()
	for _, col := range models.Columns {
		out[col] = nil
		if !filterMatchesValue(status, string(col)) {
			continue
		}
		for _, t := range snapshot[col] {
			if !filterMatchesValue(priority, string(t.Priority)) {
				continue
			}
			if !taskMatchesSearch(t, search) {
				continue
			}
			out[col] = append(out[col], t)
		}
	}
	return out
}

func filterMatchesValue(filter, value string) bool {
	return filter == "" || filter == FilterAll || filter == value
}

func taskMatchesSearch(t models.Task, search string) bool {
	if search == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.Title), search) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), search) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}

// DropIndex maps a drop gesture to an insertion index without any knowledge
// of the rendered board: ids is the hovered column's current order, targetID
// the card the cursor is over, and before whether the cursor sits in the
// card's upper half. Dropping outside any card appends to the column.
func DropIndex(ids []string, targetID string, before bool) int {
	for i, id := range ids {
		if id == targetID {
			if before {
				return i
			}
			return i + 1
		}
	}
	return len(ids)
}
