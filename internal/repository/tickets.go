package repository

import (
	"context"

	"panelhub/server/internal/model"
)

func (s *Store) CreateTicket(ctx context.Context, t model.SupportTicket) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO support_tickets (id, user_id, category, priority, subject, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, t.ID, t.UserID, t.Category, t.Priority, t.Subject, t.Message, t.Status, t.CreatedAt)
	return mapErr(err)
}

func (s *Store) ListTicketsByUser(ctx context.Context, userID string) ([]model.SupportTicket, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, category, priority, subject, message, status, created_at
		FROM support_tickets
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var tickets []model.SupportTicket
	for rows.Next() {
		var t model.SupportTicket
		if err := rows.Scan(&t.ID, &t.UserID, &t.Category, &t.Priority, &t.Subject, &t.Message, &t.Status, &t.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		tickets = append(tickets, t)
	}
	return tickets, mapErr(rows.Err())
}

func (s *Store) GetTicket(ctx context.Context, ticketID, userID string) (model.SupportTicket, error) {
	var t model.SupportTicket
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, category, priority, subject, message, status, created_at
		FROM support_tickets
		WHERE id = $1 AND user_id = $2
	`, ticketID, userID).Scan(&t.ID, &t.UserID, &t.Category, &t.Priority, &t.Subject, &t.Message, &t.Status, &t.CreatedAt)
	return t, mapErr(err)
}
