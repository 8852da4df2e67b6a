package postgresql

import (
	"context"

	"github.com/cruisehub/reseller-backend-go/internal/domain/notification"
	"github.com/cruisehub/reseller-backend-go/internal/pkg/database"
)

type notificationRepositoryImpl struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepositoryImpl{db: db}
}

func (r *notificationRepositoryImpl) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notifications (id, recipient_id, sender_id, type, title, message, data, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8)
	`

	for _, n := range notifications {
		if _, err := q.Exec(ctx, query,
			n.ID, n.RecipientID, n.SenderID, n.Type, n.Title, n.Message, n.Data, n.CreatedAt,
		); err != nil {
			return err
		}
	}

	return nil
}

func (r *notificationRepositoryImpl) CreateAuditBatch(ctx context.Context, records []*notification.AuditRecord) error {
	if len(records) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO audit_logs (id, actor_id, action, entity_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, rec := range records {
		if _, err := q.Exec(ctx, query,
			rec.ID, rec.ActorID, rec.Action, rec.EntityID, rec.Details, rec.Timestamp,
		); err != nil {
			return err
		}
	}

	return nil
}

func (r *notificationRepositoryImpl) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, recipient_id, sender_id, type, title, message, data, is_read, created_at
		FROM notifications
		WHERE recipient_id = $1
	`
	if unreadOnly {
		query += ` AND is_read = false`
	}
	query += ` ORDER BY created_at DESC LIMIT 100`

	rows, err := q.Query(ctx, query, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []notification.Notification
	for rows.Next() {
		var n notification.Notification
		err := rows.Scan(
			&n.ID,
			&n.RecipientID,
			&n.SenderID,
			&n.Type,
			&n.Title,
			&n.Message,
			&n.Data,
			&n.IsRead,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

func (r *notificationRepositoryImpl) MarkRead(ctx context.Context, id, recipientID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		UPDATE notifications SET is_read = true WHERE id = $1 AND recipient_id = $2
	`, id, recipientID)
	return err
}
