package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"panelhub/server/internal/model"
)

const messageColumns = `id, project_id, sender_id, receiver_id, body, sent_at`

func scanMessage(row pgx.Row) (model.Message, error) {
	var m model.Message
	err := row.Scan(
		&m.ID,
		&m.ProjectID,
		&m.SenderID,
		&m.ReceiverID,
		&m.Body,
		&m.SentAt,
	)
	return m, mapErr(err)
}

func (s *Store) CreateMessage(ctx context.Context, m model.Message) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO messages (id, project_id, sender_id, receiver_id, body, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, m.ID, m.ProjectID, m.SenderID, m.ReceiverID, m.Body, m.SentAt)
	return mapErr(err)
}

func (s *Store) ListMessagesByProject(ctx context.Context, projectID string) ([]model.Message, error) {
	return s.listMessages(ctx, `
		SELECT `+messageColumns+` FROM messages WHERE project_id = $1 ORDER BY sent_at ASC
	`, projectID)
}

func (s *Store) ListMessagesForVendor(ctx context.Context, vendorID string) ([]model.Message, error) {
	return s.listMessages(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY sent_at DESC
	`, vendorID)
}

func (s *Store) listMessages(ctx context.Context, sql string, args ...interface{}) ([]model.Message, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, mapErr(rows.Err())
}
