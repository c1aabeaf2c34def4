package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/connectone/tradecore/internal/domain/notification"
)

// NotificationRepository implements notification.Repository.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

const notificationColumns = `id, notification_id, trade_id, dedupe_key, channel, priority, title, body, payload, status, target_user_id, retry_count, max_retries, last_error, expires_at, created_at, sent_at, delivered_at, failed_at`

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications
		(notification_id, trade_id, dedupe_key, channel, priority, title, body, payload, status, target_user_id, retry_count, max_retries, expires_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`, n.NotificationID, n.TradeID, n.DedupeKey, n.Channel, n.Priority, n.Title, n.Body, n.Payload, n.Status, n.TargetUserID, n.RetryCount, n.MaxRetries, n.ExpiresAt, n.CreatedAt)
	return err
}

func (r *NotificationRepository) GetByID(ctx context.Context, notificationID uuid.UUID) (*notification.Notification, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications WHERE notification_id=$1
	`, notificationID)
	return scanNotification(row)
}

func (r *NotificationRepository) GetByDedupeKey(ctx context.Context, key string) (*notification.Notification, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications WHERE dedupe_key=$1
	`, key)
	return scanNotification(row)
}

func (r *NotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notifications
		SET status=$1, retry_count=$2, last_error=$3, sent_at=$4, delivered_at=$5, failed_at=$6
		WHERE notification_id=$7
	`, n.Status, n.RetryCount, n.LastError, n.SentAt, n.DeliveredAt, n.FailedAt, n.NotificationID)
	return err
}

func (r *NotificationRepository) List(ctx context.Context, filter notification.Filter, limit, offset int) ([]*notification.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications`
	args := []interface{}{}
	idx := 1
	if filter.TradeID != nil {
		query += " WHERE trade_id=$" + itoa(idx)
		args = append(args, *filter.TradeID)
		idx++
	}
	if filter.Channel != nil {
		query += addWhere(query) + " channel=$" + itoa(idx)
		args = append(args, *filter.Channel)
		idx++
	}
	if filter.Status != nil {
		query += addWhere(query) + " status=$" + itoa(idx)
		args = append(args, *filter.Status)
		idx++
	}
	if filter.TargetUserID != nil {
		query += addWhere(query) + " target_user_id=$" + itoa(idx)
		args = append(args, *filter.TargetUserID)
		idx++
	}
	if filter.Since != nil {
		query += addWhere(query) + " created_at >= $" + itoa(idx)
		args = append(args, *filter.Since)
		idx++
	}
	query += " ORDER BY created_at DESC LIMIT $" + itoa(idx) + " OFFSET $" + itoa(idx+1)
	args = append(args, clampLimit(limit), offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNotifications(rows)
}

func (r *NotificationRepository) ListPending(ctx context.Context, limit int) ([]*notification.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE status=$1 AND (expires_at IS NULL OR expires_at > NOW())
		ORDER BY priority DESC, created_at ASC LIMIT $2
	`, notification.StatusPending, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNotifications(rows)
}

func (r *NotificationRepository) ListRetryable(ctx context.Context, limit int) ([]*notification.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE status=$1 AND retry_count < max_retries AND (expires_at IS NULL OR expires_at > NOW())
		ORDER BY failed_at ASC LIMIT $2
	`, notification.StatusFailed, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNotifications(rows)
}

func (r *NotificationRepository) ExpireOverdue(ctx context.Context) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications SET status=$1
		WHERE status IN ($2, $3) AND expires_at IS NOT NULL AND expires_at <= NOW()
	`, notification.StatusExpired, notification.StatusPending, notification.StatusFailed)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE target_user_id=$1 AND status NOT IN ($2, $3)
	`, userID, notification.StatusDelivered, notification.StatusExpired)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func collectNotifications(rows pgx.Rows) ([]*notification.Notification, error) {
	var items []*notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

func scanNotification(row pgx.Row) (*notification.Notification, error) {
	var n notification.Notification
	var expiresAt, sentAt, deliveredAt, failedAt *time.Time
	if err := row.Scan(&n.ID, &n.NotificationID, &n.TradeID, &n.DedupeKey, &n.Channel, &n.Priority,
		&n.Title, &n.Body, &n.Payload, &n.Status, &n.TargetUserID, &n.RetryCount, &n.MaxRetries,
		&n.LastError, &expiresAt, &n.CreatedAt, &sentAt, &deliveredAt, &failedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	n.ExpiresAt = expiresAt
	n.SentAt = sentAt
	n.DeliveredAt = deliveredAt
	n.FailedAt = failedAt
	return &n, nil
}
