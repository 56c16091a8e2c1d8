package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/smb-ai-solution/kanban/internal/auth"
	"github.com/smb-ai-solution/kanban/internal/chat"
	"github.com/smb-ai-solution/kanban/internal/models"
	"github.com/smb-ai-solution/kanban/internal/storage/sqlite"
)

type testEnv struct {
	srv     *Server
	store   *sqlite.Store
	webhook *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"response": "assistant says hi"})
	}))
	t.Cleanup(webhook.Close)

	tokens := auth.NewManager("test-secret", time.Hour)
	relay := chat.NewRelay(webhook.URL, time.Second, nil)
	srv := New(store, tokens, relay, nil, "", "")

	return &testEnv{srv: srv, store: store, webhook: webhook}
}

func (e *testEnv) request(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.srv.Engine().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func (e *testEnv) registerAndLogin(t *testing.T, username string) string {
	t.Helper()

	rec := e.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username, "password": "sup3r-secret", "full_name": "Test User",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", username, rec.Code, rec.Body.String())
	}

	rec = e.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username, "password": "sup3r-secret",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, rec.Code, rec.Body.String())
	}
	out := decode[struct {
		Token string `json:"token"`
	}](t, rec)
	if out.Token == "" {
		t.Fatal("login returned empty token")
	}
	return out.Token
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "alice")

	rec := env.request(t, http.MethodGet, "/api/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: status %d", rec.Code)
	}
	out := decode[struct {
		User models.User `json:"user"`
	}](t, rec)
	if out.User.Username != "alice" || out.User.Role != models.RoleUser {
		t.Errorf("me = %+v", out.User)
	}

	// Duplicate registration conflicts.
	rec = env.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "password": "sup3r-secret", "full_name": "Twin",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register: status %d, want 409", rec.Code)
	}

	// Wrong password rejected.
	rec = env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice", "password": "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login: status %d, want 401", rec.Code)
	}
}

func TestTasksRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	if rec := env.request(t, http.MethodGet, "/api/tasks", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status %d, want 401", rec.Code)
	}
	if rec := env.request(t, http.MethodGet, "/api/tasks", "garbage", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status %d, want 401", rec.Code)
	}
}

func TestTaskLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "alice")

	rec := env.request(t, http.MethodPost, "/api/tasks", token, map[string]any{
		"title": "x", "tags": []string{"backend"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", rec.Code, rec.Body.String())
	}
	created := decode[struct {
		Task models.Task `json:"task"`
	}](t, rec)
	if created.Task.ID == "" {
		t.Fatal("task id not assigned")
	}
	if created.Task.Status != models.StatusTodo || created.Task.Priority != models.PriorityP2 {
		t.Errorf("defaults not applied: %+v", created.Task)
	}
	if created.Task.Project != "General" {
		t.Errorf("project = %q, want General bucket", created.Task.Project)
	}

	// The move path: a status-only patch.
	rec = env.request(t, http.MethodPut, "/api/tasks/"+created.Task.ID, token, map[string]string{
		"status": "inprogress",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("move update: status %d body %s", rec.Code, rec.Body.String())
	}
	moved := decode[struct {
		Task models.Task `json:"task"`
	}](t, rec)
	if moved.Task.Status != models.StatusInProgress {
		t.Errorf("status = %s, want inprogress", moved.Task.Status)
	}
	if moved.Task.Title != "x" {
		t.Errorf("status-only patch changed title to %q", moved.Task.Title)
	}

	// Unknown status is rejected.
	rec = env.request(t, http.MethodPut, "/api/tasks/"+created.Task.ID, token, map[string]string{
		"status": "archived",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid status: status %d, want 400", rec.Code)
	}

	rec = env.request(t, http.MethodDelete, "/api/tasks/"+created.Task.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status %d", rec.Code)
	}

	rec = env.request(t, http.MethodGet, "/api/tasks", token, nil)
	list := decode[struct {
		Tasks []models.Task `json:"tasks"`
	}](t, rec)
	if len(list.Tasks) != 0 {
		t.Errorf("tasks after delete = %v, want none", list.Tasks)
	}

	rec = env.request(t, http.MethodDelete, "/api/tasks/"+created.Task.ID, token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("double delete: status %d, want 404", rec.Code)
	}
}

func TestTasksScopedPerUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerAndLogin(t, "alice")
	bob := env.registerAndLogin(t, "bob")

	rec := env.request(t, http.MethodPost, "/api/tasks", alice, map[string]string{"title": "alice task"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d", rec.Code)
	}

	rec = env.request(t, http.MethodGet, "/api/tasks", bob, nil)
	list := decode[struct {
		Tasks []models.Task `json:"tasks"`
	}](t, rec)
	if len(list.Tasks) != 0 {
		t.Errorf("bob sees alice's tasks: %v", list.Tasks)
	}
}

func TestProjectDeleteLeavesTasksDangling(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "alice")

	rec := env.request(t, http.MethodPost, "/api/projects", token, map[string]string{
		"name": "Website", "color": "teal",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project: status %d body %s", rec.Code, rec.Body.String())
	}
	project := decode[struct {
		Project models.Project `json:"project"`
	}](t, rec)

	rec = env.request(t, http.MethodPost, "/api/tasks", token, map[string]string{
		"title": "landing page", "project": "Website",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create task: status %d", rec.Code)
	}

	rec = env.request(t, http.MethodDelete, "/api/projects/"+project.Project.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete project: status %d", rec.Code)
	}

	// The task keeps its stale project name.
	rec = env.request(t, http.MethodGet, "/api/tasks", token, nil)
	list := decode[struct {
		Tasks []models.Task `json:"tasks"`
	}](t, rec)
	if len(list.Tasks) != 1 || list.Tasks[0].Project != "Website" {
		t.Errorf("tasks = %v, want one with dangling project Website", list.Tasks)
	}
}

func TestChatRelayAndHistory(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "alice")

	rec := env.request(t, http.MethodPost, "/api/chat", token, map[string]string{"message": "hello"})
	if rec.Code != http.StatusOK {
		t.Fatalf("chat: status %d body %s", rec.Code, rec.Body.String())
	}
	out := decode[struct {
		Message models.ChatMessage `json:"message"`
	}](t, rec)
	if out.Message.Role != "assistant" || out.Message.Content != "assistant says hi" {
		t.Errorf("reply = %+v", out.Message)
	}

	rec = env.request(t, http.MethodGet, "/api/chat/history", token, nil)
	history := decode[struct {
		Messages []models.ChatMessage `json:"messages"`
	}](t, rec)
	if len(history.Messages) != 2 {
		t.Fatalf("history has %d messages, want user+assistant", len(history.Messages))
	}
	if history.Messages[0].Role != "user" || history.Messages[1].Role != "assistant" {
		t.Errorf("history order = %v", history.Messages)
	}
}

func TestChatFallsBackWhenWebhookDown(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "alice")
	env.webhook.Close()

	rec := env.request(t, http.MethodPost, "/api/chat", token, map[string]string{"message": "anyone there?"})
	if rec.Code != http.StatusOK {
		t.Fatalf("chat with dead webhook: status %d", rec.Code)
	}
	out := decode[struct {
		Message models.ChatMessage `json:"message"`
	}](t, rec)
	if out.Message.Content != chat.FallbackReply {
		t.Errorf("reply = %q, want fallback", out.Message.Content)
	}
}

func TestAnalyticsSummary(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "alice")

	for _, task := range []map[string]string{
		{"title": "one"},
		{"title": "two", "status": "completed"},
	} {
		if rec := env.request(t, http.MethodPost, "/api/tasks", token, task); rec.Code != http.StatusCreated {
			t.Fatalf("create: status %d", rec.Code)
		}
	}

	rec := env.request(t, http.MethodGet, "/api/analytics/summary", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("analytics: status %d", rec.Code)
	}
	out := decode[struct {
		Summary struct {
			TotalTasks     int                   `json:"total_tasks"`
			ByStatus       map[models.Status]int `json:"by_status"`
			CompletionRate float64               `json:"completion_rate"`
		} `json:"summary"`
	}](t, rec)
	if out.Summary.TotalTasks != 2 || out.Summary.ByStatus[models.StatusCompleted] != 1 {
		t.Errorf("summary = %+v", out.Summary)
	}
	if out.Summary.CompletionRate != 0.5 {
		t.Errorf("completion rate = %f, want 0.5", out.Summary.CompletionRate)
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	if rec := env.request(t, http.MethodGet, "/api/healthz", "", nil); rec.Code != http.StatusOK {
		t.Errorf("healthz: status %d", rec.Code)
	}
}
