package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smb-ai-solution/kanban/internal/models"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ListTasks returns tasks for the given owner ordered by creation time.
// An empty owner returns the tasks of every user.
//
// Intra-column order is not persisted: the board always reloads in creation
// order, column membership (status) is the only state that survives a reload.
func (s *Store) ListTasks(ctx context.Context, owner string) ([]models.Task, error) {
	query := `SELECT id, title, description, status, priority, tags, project, category,
        assigned_to, created_by, deadline, created_at, updated_at
        FROM tasks`
	args := []any{}
	if owner != "" {
		query += ` WHERE created_by = ?`
		args = append(args, owner)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// CreateTask inserts a new task with a server-assigned id.
func (s *Store) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return models.Task{}, fmt.Errorf("task title must not be empty")
	}
	if t.Status == "" {
		t.Status = models.StatusTodo
	}
	if !models.ValidStatus(t.Status) {
		return models.Task{}, fmt.Errorf("invalid status %q", t.Status)
	}
	if t.Priority == "" {
		t.Priority = models.PriorityP2
	}
	if !models.ValidPriority(t.Priority) {
		return models.Task{}, fmt.Errorf("invalid priority %q", t.Priority)
	}
	if t.Project == "" {
		t.Project = "General"
	}
	if t.CreatedBy == "" {
		return models.Task{}, fmt.Errorf("task creator must not be empty")
	}

	id := uuid.NewString()
	tags, err := encodeTags(t.Tags)
	if err != nil {
		return models.Task{}, err
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO tasks(id, title, description, status, priority, tags, project, category, assigned_to, created_by, deadline)
        VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, strings.TrimSpace(t.Title), strings.TrimSpace(t.Description), string(t.Status), string(t.Priority),
		tags, t.Project, t.Category, t.AssignedTo, t.CreatedBy, t.Deadline)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return s.GetTask(ctx, id)
}

// GetTask retrieves a task by id.
func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, title, description, status, priority, tags, project, category,
        assigned_to, created_by, deadline, created_at, updated_at FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// UpdateTask applies a partial update. Unknown keys are ignored; invalid
// status or priority values are rejected rather than silently dropped.
func (s *Store) UpdateTask(ctx context.Context, id string, changes map[string]any) (models.Task, error) {
	current, err := s.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}

	if v, ok := changes["title"].(string); ok {
		if strings.TrimSpace(v) == "" {
			return models.Task{}, fmt.Errorf("task title must not be empty")
		}
		current.Title = strings.TrimSpace(v)
	}
	if v, ok := changes["description"].(string); ok {
		current.Description = strings.TrimSpace(v)
	}
	if v, ok := changes["status"].(string); ok {
		if !models.ValidStatus(models.Status(v)) {
			return models.Task{}, fmt.Errorf("invalid status %q", v)
		}
		current.Status = models.Status(v)
	}
	if v, ok := changes["priority"].(string); ok {
		if !models.ValidPriority(models.Priority(v)) {
			return models.Task{}, fmt.Errorf("invalid priority %q", v)
		}
		current.Priority = models.Priority(v)
	}
	if v, ok := changes["tags"].([]string); ok {
		current.Tags = v
	}
	if v, ok := changes["project"].(string); ok {
		current.Project = v
	}
	if v, ok := changes["category"].(string); ok {
		current.Category = v
	}
	if v, ok := changes["assigned_to"].(string); ok {
		current.AssignedTo = v
	}
	if v, ok := changes["deadline"]; ok {
		switch d := v.(type) {
		case *time.Time:
			current.Deadline = d
		case time.Time:
			current.Deadline = &d
		case nil:
			current.Deadline = nil
		}
	}

	tags, err := encodeTags(current.Tags)
	if err != nil {
		return models.Task{}, err
	}

	_, err = s.db.ExecContext(ctx, `UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?, tags = ?,
        project = ?, category = ?, assigned_to = ?, deadline = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		current.Title, current.Description, string(current.Status), string(current.Priority), tags,
		current.Project, current.Category, current.AssignedTo, current.Deadline, id)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	return s.GetTask(ctx, id)
}

// DeleteTask removes a task by id.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		t        models.Task
		tags     string
		deadline sql.NullTime
	)
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &tags, &t.Project,
		&t.Category, &t.AssignedTo, &t.CreatedBy, &deadline, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, err
		}
		return models.Task{}, fmt.Errorf("scan task: %w", err)
	}
	if deadline.Valid {
		d := deadline.Time
		t.Deadline = &d
	}
	if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
		return models.Task{}, fmt.Errorf("decode tags: %w", err)
	}
	return t, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(raw), nil
}
