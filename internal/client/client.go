// Package client implements the board's persistence collaborator against the
// kanban REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/smb-ai-solution/kanban/internal/board"
	"github.com/smb-ai-solution/kanban/internal/models"
)

// ErrUnauthorized is returned when the server rejects the credential. The
// caller must tear down the session rather than retry.
var ErrUnauthorized = errors.New("unauthorized")

// Credential is the bearer token attached to every request. It is passed in
// explicitly at construction instead of living in ambient shared state.
type Credential struct {
	Token string
}

// API talks to a running kanban server over HTTP.
type API struct {
	baseURL    string
	cred       Credential
	httpClient *http.Client
}

var _ board.Persistence = (*API)(nil)

// New builds an API client for the given base URL and credential.
func New(baseURL string, cred Credential, timeout time.Duration) *API {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &API{
		baseURL:    strings.TrimRight(baseURL, "/"),
		cred:       cred,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ListTasks fetches every task visible to the credential's user.
func (a *API) ListTasks(ctx context.Context) ([]models.Task, error) {
	var out struct {
		Tasks []models.Task `json:"tasks"`
	}
	if err := a.do(ctx, http.MethodGet, "/api/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

// CreateTask persists a new task and returns the server-assigned record.
func (a *API) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	payload := map[string]any{
		"title":       t.Title,
		"description": t.Description,
		"status":      t.Status,
		"priority":    t.Priority,
		"tags":        t.Tags,
		"project":     t.Project,
		"category":    t.Category,
		"assigned_to": t.AssignedTo,
	}
	if t.Deadline != nil {
		payload["deadline"] = t.Deadline
	}

	var out struct {
		Task models.Task `json:"task"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/tasks", payload, &out); err != nil {
		return models.Task{}, err
	}
	return out.Task, nil
}

// UpdateTask sends a partial patch; nil patch fields are omitted on the wire.
func (a *API) UpdateTask(ctx context.Context, id string, patch board.TaskPatch) (models.Task, error) {
	var out struct {
		Task models.Task `json:"task"`
	}
	if err := a.do(ctx, http.MethodPut, "/api/tasks/"+id, patch, &out); err != nil {
		return models.Task{}, err
	}
	return out.Task, nil
}

// DeleteTask removes a task by id.
func (a *API) DeleteTask(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/api/tasks/"+id, nil, nil)
}

func (a *API) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.cred.Token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		raw, readErr := io.ReadAll(resp.Body)
		if readErr == nil && json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
