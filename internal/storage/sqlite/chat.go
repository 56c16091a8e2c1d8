package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/smb-ai-solution/kanban/internal/models"
)

// AppendChatMessage stores one conversation entry for a user.
func (s *Store) AppendChatMessage(ctx context.Context, m models.ChatMessage) (models.ChatMessage, error) {
	if strings.TrimSpace(m.Content) == "" {
		return models.ChatMessage{}, fmt.Errorf("chat message must not be empty")
	}
	if m.Username == "" {
		return models.ChatMessage{}, fmt.Errorf("chat username must not be empty")
	}
	if m.Role != "user" && m.Role != "assistant" {
		return models.ChatMessage{}, fmt.Errorf("invalid chat role %q", m.Role)
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `INSERT INTO chat_messages(id, username, role, content) VALUES(?, ?, ?, ?)`,
		id, m.Username, m.Role, m.Content)
	if err != nil {
		return models.ChatMessage{}, fmt.Errorf("insert chat message: %w", err)
	}

	var out models.ChatMessage
	err = s.db.QueryRowContext(ctx, `SELECT id, username, role, content, created_at FROM chat_messages WHERE id = ?`, id).
		Scan(&out.ID, &out.Username, &out.Role, &out.Content, &out.CreatedAt)
	if err != nil {
		return models.ChatMessage{}, fmt.Errorf("get chat message: %w", err)
	}
	return out, nil
}

// ListChatMessages returns the user's most recent messages, oldest first.
func (s *Store) ListChatMessages(ctx context.Context, username string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, username, role, content, created_at FROM
        (SELECT id, username, role, content, created_at FROM chat_messages WHERE username = ? ORDER BY created_at DESC, id DESC LIMIT ?)
        ORDER BY created_at ASC, id ASC`, username, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.Username, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
