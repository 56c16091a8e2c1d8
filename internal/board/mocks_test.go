package board

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/smb-ai-solution/kanban/internal/models"
)

// ErrMockRemote is the simulated network failure used across the tests.
var ErrMockRemote = errors.New("mock remote failure")

// MockPersistence is an in-memory persistence collaborator with per-call
// failure injection.
type MockPersistence struct {
	mu    sync.Mutex
	Tasks []models.Task

	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// UpdateFunc, when set, replaces the default update behavior entirely.
	UpdateFunc func(ctx context.Context, id string, patch TaskPatch) (models.Task, error)

	ListCalls   int
	CreateCalls int
	UpdateCalls int
	DeleteCalls int
	LastPatch   TaskPatch

	nextID int
}

func NewMockPersistence(tasks ...models.Task) *MockPersistence {
	return &MockPersistence{Tasks: tasks}
}

func (m *MockPersistence) ListTasks(ctx context.Context) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]models.Task(nil), m.Tasks...), nil
}

func (m *MockPersistence) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.CreateErr != nil {
		return models.Task{}, m.CreateErr
	}
	m.nextID++
	t.ID = fmt.Sprintf("srv-%d", m.nextID)
	m.Tasks = append(m.Tasks, t)
	return t, nil
}

func (m *MockPersistence) UpdateTask(ctx context.Context, id string, patch TaskPatch) (models.Task, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	m.LastPatch = patch
	if m.UpdateErr != nil {
		return models.Task{}, m.UpdateErr
	}
	for i, t := range m.Tasks {
		if t.ID == id {
			m.Tasks[i] = applyPatchWithStatus(t, patch)
			return m.Tasks[i], nil
		}
	}
	return models.Task{}, fmt.Errorf("task %s not found", id)
}

func (m *MockPersistence) DeleteTask(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	for i, t := range m.Tasks {
		if t.ID == id {
			m.Tasks = append(m.Tasks[:i], m.Tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("task %s not found", id)
}

func applyPatchWithStatus(t models.Task, patch TaskPatch) models.Task {
	t = applyPatch(t, patch)
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	return t
}
