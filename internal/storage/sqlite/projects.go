package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/smb-ai-solution/kanban/internal/models"
)

// ListProjects retrieves the owner's projects ordered by creation date.
func (s *Store) ListProjects(ctx context.Context, owner string) ([]models.Project, error) {
	query := `SELECT id, name, description, color, status, owner, created_at, updated_at FROM projects`
	args := []any{}
	if owner != "" {
		query += ` WHERE owner = ?`
		args = append(args, owner)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Color, &p.Status, &p.Owner, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// CreateProject persists a new project for the owner.
func (s *Store) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	if strings.TrimSpace(p.Name) == "" {
		return models.Project{}, fmt.Errorf("project name must not be empty")
	}
	if p.Owner == "" {
		return models.Project{}, fmt.Errorf("project owner must not be empty")
	}
	if p.Color == "" {
		p.Color = "blue"
	}
	if _, ok := models.ProjectColors[p.Color]; !ok {
		return models.Project{}, fmt.Errorf("invalid project color %q", p.Color)
	}
	if p.Status == "" {
		p.Status = models.ProjectActive
	}
	if !models.ValidProjectStatus(p.Status) {
		return models.Project{}, fmt.Errorf("invalid project status %q", p.Status)
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `INSERT INTO projects(id, name, description, color, status, owner) VALUES(?, ?, ?, ?, ?, ?)`,
		id, strings.TrimSpace(p.Name), strings.TrimSpace(p.Description), p.Color, string(p.Status), p.Owner)
	if err != nil {
		return models.Project{}, fmt.Errorf("insert project: %w", err)
	}
	return s.GetProject(ctx, id)
}

// GetProject fetches a single project by id.
func (s *Store) GetProject(ctx context.Context, id string) (models.Project, error) {
	var p models.Project
	err := s.db.QueryRowContext(ctx, `SELECT id, name, description, color, status, owner, created_at, updated_at FROM projects WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Color, &p.Status, &p.Owner, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// UpdateProject applies a partial update to a project.
func (s *Store) UpdateProject(ctx context.Context, id string, changes map[string]any) (models.Project, error) {
	current, err := s.GetProject(ctx, id)
	if err != nil {
		return models.Project{}, err
	}

	if v, ok := changes["name"].(string); ok {
		if strings.TrimSpace(v) == "" {
			return models.Project{}, fmt.Errorf("project name must not be empty")
		}
		current.Name = strings.TrimSpace(v)
	}
	if v, ok := changes["description"].(string); ok {
		current.Description = strings.TrimSpace(v)
	}
	if v, ok := changes["color"].(string); ok {
		if _, valid := models.ProjectColors[v]; !valid {
			return models.Project{}, fmt.Errorf("invalid project color %q", v)
		}
		current.Color = v
	}
	if v, ok := changes["status"].(string); ok {
		if !models.ValidProjectStatus(models.ProjectStatus(v)) {
			return models.Project{}, fmt.Errorf("invalid project status %q", v)
		}
		current.Status = models.ProjectStatus(v)
	}

	_, err = s.db.ExecContext(ctx, `UPDATE projects SET name = ?, description = ?, color = ?, status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		current.Name, current.Description, current.Color, string(current.Status), id)
	if err != nil {
		return models.Project{}, fmt.Errorf("update project: %w", err)
	}
	return s.GetProject(ctx, id)
}

// DeleteProject removes a project. Tasks referencing it are left untouched;
// they keep the stale project name.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return nil
}
