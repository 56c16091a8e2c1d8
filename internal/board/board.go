package board

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smb-ai-solution/kanban/internal/models"
)

// TaskPatch is a partial task update sent to the persistence collaborator.
// Nil fields are left untouched.
type TaskPatch struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Status      *models.Status   `json:"status,omitempty"`
	Priority    *models.Priority `json:"priority,omitempty"`
	Tags        *[]string        `json:"tags,omitempty"`
	Project     *string          `json:"project,omitempty"`
	Category    *string          `json:"category,omitempty"`
	AssignedTo  *string          `json:"assigned_to,omitempty"`
	Deadline    *time.Time       `json:"deadline,omitempty"`
}

// Persistence is the remote collaborator that durably stores tasks. The
// credential it uses is injected at its construction, never ambient state.
type Persistence interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, t models.Task) (models.Task, error)
	UpdateTask(ctx context.Context, id string, patch TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Fields are the caller-supplied attributes of a new task. Title is required,
// everything else is optional and defaulted server-side.
type Fields struct {
	Title       string
	Description string
	Priority    models.Priority
	Tags        []string
	Project     string
	Category    string
	AssignedTo  string
	Deadline    *time.Time
}

// Manager owns the in-memory view of tasks partitioned into the four fixed
// columns and keeps it consistent with the persistence collaborator. Every
// mutation is applied optimistically and rolled back when the remote call
// fails, so the local board never drifts from what the server accepted.
//
// Operations against the same task are serialized: while a task has a
// persistence call outstanding, further mutations of it fail with
// ErrTaskBusy. Operations against different tasks proceed concurrently.
type Manager struct {
	mu      sync.Mutex
	columns map[models.Status][]models.Task
	busy    map[string]struct{}

	store  Persistence
	logger *slog.Logger
}

// New constructs an empty board backed by the given persistence collaborator.
func New(store Persistence, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	columns := make(map[models.Status][]models.Task, len(models.Columns))
	for _, col := range models.Columns {
		columns[col] = nil
	}
	return &Manager{
		columns: columns,
		busy:    make(map[string]struct{}),
		store:   store,
		logger:  logger,
	}
}

// LoadBoard fetches all visible tasks and partitions them by status. On
// failure the previously loaded board is retained and a LoadError returned.
func (m *Manager) LoadBoard(ctx context.Context) (map[models.Status][]models.Task, error) {
	tasks, err := m.store.ListTasks(ctx)
	if err != nil {
		return nil, &LoadError{Err: err}
	}

	columns := make(map[models.Status][]models.Task, len(models.Columns))
	for _, col := range models.Columns {
		columns[col] = nil
	}
	for _, t := range tasks {
		if !models.ValidStatus(t.Status) {
			m.logger.Warn("dropping task with unknown status",
				slog.String("task", t.ID), slog.String("status", string(t.Status)))
			continue
		}
		columns[t.Status] = append(columns[t.Status], t)
	}

	m.mu.Lock()
	m.columns = columns
	m.mu.Unlock()

	return m.Snapshot(), nil
}

// CreateTask appends a new task to the end of the target column, persists it,
// and replaces the optimistic entry with the server-assigned record. The
// optimistic append is rolled back when persistence fails.
func (m *Manager) CreateTask(ctx context.Context, column models.Status, fields Fields) (models.Task, error) {
	if !models.ValidStatus(column) {
		return models.Task{}, fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	if fields.Title == "" {
		return models.Task{}, fmt.Errorf("title is required")
	}

	draft := models.Task{
		ID:          "pending-" + uuid.NewString(),
		Title:       fields.Title,
		Description: fields.Description,
		Status:      column,
		Priority:    fields.Priority,
		Tags:        fields.Tags,
		Project:     fields.Project,
		Category:    fields.Category,
		AssignedTo:  fields.AssignedTo,
		Deadline:    fields.Deadline,
	}

	var created models.Task
	err := m.mutate(ctx, draft.ID,
		func() func() {
			m.columns[column] = append(m.columns[column], draft)
			return func() {
				if _, idx, ok := m.locate(draft.ID); ok {
					m.columns[column] = removeAt(m.columns[column], idx)
				}
			}
		},
		func(ctx context.Context) (func(), error) {
			t, err := m.store.CreateTask(ctx, draft)
			if err != nil {
				return nil, &CreateError{Title: fields.Title, Err: err}
			}
			created = t
			return func() {
				if _, idx, ok := m.locate(draft.ID); ok {
					m.columns[column][idx] = t
				}
			}, nil
		})
	if err != nil {
		return models.Task{}, err
	}
	return created, nil
}

// MoveTask relocates a task between columns, or reorders it within one.
//
// A same-column move is a pure visual reorder and never touches the server.
// A cross-column move sets the task's status, inserts it at the clamped
// target index, and persists the status change only; on failure the task is
// restored to its original column and index and a MoveError is returned.
// A task absent from the source column is a defensive no-op.
func (m *Manager) MoveTask(ctx context.Context, taskID string, from, to models.Status, targetIndex int) error {
	if !models.ValidStatus(from) {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, from)
	}
	if !models.ValidStatus(to) {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, to)
	}

	m.mu.Lock()
	srcIndex := indexOf(m.columns[from], taskID)
	if srcIndex < 0 {
		m.mu.Unlock()
		return nil
	}
	if _, busy := m.busy[taskID]; busy {
		m.mu.Unlock()
		return ErrTaskBusy
	}

	if from == to {
		// Intra-column order is a client-side concern; nothing to persist.
		task := m.columns[from][srcIndex]
		m.columns[from] = removeAt(m.columns[from], srcIndex)
		m.columns[from] = insertAt(m.columns[from], task, targetIndex)
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	status := to
	return m.mutate(ctx, taskID,
		func() func() {
			idx := indexOf(m.columns[from], taskID)
			if idx < 0 {
				return func() {}
			}
			task := m.columns[from][idx]
			m.columns[from] = removeAt(m.columns[from], idx)
			task.Status = to
			m.columns[to] = insertAt(m.columns[to], task, targetIndex)
			return func() {
				if cur := indexOf(m.columns[to], taskID); cur >= 0 {
					restored := m.columns[to][cur]
					m.columns[to] = removeAt(m.columns[to], cur)
					restored.Status = from
					m.columns[from] = insertAt(m.columns[from], restored, idx)
				}
			}
		},
		func(ctx context.Context) (func(), error) {
			t, err := m.store.UpdateTask(ctx, taskID, TaskPatch{Status: &status})
			if err != nil {
				return nil, &MoveError{TaskID: taskID, Err: err}
			}
			return func() {
				if cur := indexOf(m.columns[to], taskID); cur >= 0 {
					m.columns[to][cur] = t
				}
			}, nil
		})
}

// EditTask applies a partial field update to a task. Status changes through
// this path are rejected so that column membership is enforced in MoveTask
// alone. On persistence failure the pre-edit snapshot is restored.
func (m *Manager) EditTask(ctx context.Context, taskID string, patch TaskPatch) (models.Task, error) {
	if patch.Status != nil {
		return models.Task{}, fmt.Errorf("%w (task %s)", ErrStatusEdit, taskID)
	}

	m.mu.Lock()
	col, idx, ok := m.locate(taskID)
	if !ok {
		m.mu.Unlock()
		return models.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	snapshot := m.columns[col][idx]
	m.mu.Unlock()

	var updated models.Task
	err := m.mutate(ctx, taskID,
		func() func() {
			if cur := indexOf(m.columns[col], taskID); cur >= 0 {
				m.columns[col][cur] = applyPatch(m.columns[col][cur], patch)
			}
			return func() {
				if cur := indexOf(m.columns[col], taskID); cur >= 0 {
					m.columns[col][cur] = snapshot
				}
			}
		},
		func(ctx context.Context) (func(), error) {
			t, err := m.store.UpdateTask(ctx, taskID, patch)
			if err != nil {
				return nil, &EditError{TaskID: taskID, Err: err}
			}
			updated = t
			return func() {
				if cur := indexOf(m.columns[col], taskID); cur >= 0 {
					m.columns[col][cur] = t
				}
			}, nil
		})
	if err != nil {
		return models.Task{}, err
	}
	return updated, nil
}

// DeleteTask removes a task from its column and the persistence collaborator.
// On failure the task is restored at its prior position.
func (m *Manager) DeleteTask(ctx context.Context, taskID string) error {
	m.mu.Lock()
	col, _, ok := m.locate(taskID)
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	m.mu.Unlock()

	return m.mutate(ctx, taskID,
		func() func() {
			cur := indexOf(m.columns[col], taskID)
			if cur < 0 {
				return func() {}
			}
			task := m.columns[col][cur]
			m.columns[col] = removeAt(m.columns[col], cur)
			return func() {
				m.columns[col] = insertAt(m.columns[col], task, cur)
			}
		},
		func(ctx context.Context) (func(), error) {
			if err := m.store.DeleteTask(ctx, taskID); err != nil {
				return nil, &DeleteError{TaskID: taskID, Err: err}
			}
			return func() {}, nil
		})
}

// Snapshot returns a copy of the current board, safe for the caller to keep.
func (m *Manager) Snapshot() map[models.Status][]models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[models.Status][]models.Task, len(models.Columns))
	for _, col := range models.Columns {
		out[col] = append([]models.Task(nil), m.columns[col]...)
	}
	return out
}

// Column returns a copy of one column's task list.
func (m *Manager) Column(status models.Status) []models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Task(nil), m.columns[status]...)
}

// mutate is the shared optimistic-update path: apply the local change under
// the lock, release it for the remote call, then either commit the server's
// view of the task or roll the local change back. The task stays marked busy
// for the duration so concurrent mutations of it are refused.
func (m *Manager) mutate(ctx context.Context, taskID string, apply func() func(), persist func(context.Context) (func(), error)) error {
	m.mu.Lock()
	if _, busy := m.busy[taskID]; busy {
		m.mu.Unlock()
		return ErrTaskBusy
	}
	m.busy[taskID] = struct{}{}
	rollback := apply()
	m.mu.Unlock()

	commit, err := persist(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.busy, taskID)
	if err != nil {
		rollback()
		return err
	}
	commit()
	return nil
}

// locate finds a task anywhere on the board. Must be called with the lock held.
func (m *Manager) locate(taskID string) (models.Status, int, bool) {
	for _, col := range models.Columns {
		if idx := indexOf(m.columns[col], taskID); idx >= 0 {
			return col, idx, true
		}
	}
	return "", -1, false
}

func indexOf(list []models.Task, id string) int {
	for i, t := range list {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func removeAt(list []models.Task, i int) []models.Task {
	return append(list[:i:i], list[i+1:]...)
}

func insertAt(list []models.Task, t models.Task, i int) []models.Task {
	if i < 0 {
		i = 0
	}
	if i > len(list) {
		i = len(list)
	}
	out := make([]models.Task, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, t)
	return append(out, list[i:]...)
}

func applyPatch(t models.Task, patch TaskPatch) models.Task {
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.Tags != nil {
		t.Tags = *patch.Tags
	}
	if patch.Project != nil {
		t.Project = *patch.Project
	}
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	if patch.AssignedTo != nil {
		t.AssignedTo = *patch.AssignedTo
	}
	if patch.Deadline != nil {
		t.Deadline = patch.Deadline
	}
	return t
}
