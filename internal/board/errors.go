package board

import "errors"

// Sentinel errors reported by the manager before any remote call is made.
var (
	// ErrTaskBusy means the task has a persistence call outstanding and the
	// new operation was refused to avoid a lost-update race.
	ErrTaskBusy = errors.New("task has an outstanding operation")

	// ErrUnknownColumn means the requested status is not one of the fixed
	// board columns.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrStatusEdit means a status change was attempted through EditTask.
	// Column membership only changes through MoveTask.
	ErrStatusEdit = errors.New("status cannot be changed through edit")

	// ErrTaskNotFound means the task is not present on the board.
	ErrTaskNotFound = errors.New("task not on board")
)

// LoadError wraps a failed board fetch. The previously loaded board, if any,
// is retained.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string { return "load board: " + e.Err.Error() }
func (e *LoadError) Unwrap() error { return e.Err }

// CreateError wraps a failed task creation after the optimistic append was
// rolled back.
type CreateError struct {
	Title string
	Err   error
}

func (e *CreateError) Error() string { return "create task " + e.Title + ": " + e.Err.Error() }
func (e *CreateError) Unwrap() error { return e.Err }

// MoveError wraps a failed column move after the task was restored to its
// original column and index.
type MoveError struct {
	TaskID string
	Err    error
}

func (e *MoveError) Error() string { return "move task " + e.TaskID + ": " + e.Err.Error() }
func (e *MoveError) Unwrap() error { return e.Err }

// EditError wraps a failed field update after the pre-edit snapshot was
// restored.
type EditError struct {
	TaskID string
	Err    error
}

func (e *EditError) Error() string { return "edit task " + e.TaskID + ": " + e.Err.Error() }
func (e *EditError) Unwrap() error { return e.Err }

// DeleteError wraps a failed deletion after the task was restored to its
// prior position.
type DeleteError struct {
	TaskID string
	Err    error
}

func (e *DeleteError) Error() string { return "delete task " + e.TaskID + ": " + e.Err.Error() }
func (e *DeleteError) Unwrap() error { return e.Err }
