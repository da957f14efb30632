package store

import (
	"context"
	"fmt"

	"github.com/erazemk/milaap/internal/model"
)

// CreateNotification adds a notification for an account.
func CreateNotification(ctx context.Context, db DBTX, accountID int64, title, message, typ string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO notifications (account_id, title, message, notification_type) VALUES (?, ?, ?, ?)`,
		accountID, title, message, typ,
	)
	if err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}
	return nil
}

// ListNotifications returns an account's notifications, newest first. A
// positive limit caps the result.
func ListNotifications(ctx context.Context, db DBTX, accountID int64, unreadOnly bool, limit int) ([]model.Notification, error) {
	query := `SELECT notification_id, account_id, title, message, notification_type, is_read, created_at
	          FROM notifications WHERE account_id = ?`
	args := []any{accountID}
	if unreadOnly {
		query += ` AND is_read = 0`
	}
	query += ` ORDER BY created_at DESC, notification_id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.AccountID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead flags one of the account's notifications as read. It
// reports false when the notification does not belong to the account.
func MarkNotificationRead(ctx context.Context, db DBTX, accountID, id int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE notification_id = ? AND account_id = ?`,
		id, accountID,
	)
	if err != nil {
		return false, fmt.Errorf("marking notification read: %w", err)
	}
	return affected(result)
}

// MarkAllNotificationsRead flags every notification of the account as read.
func MarkAllNotificationsRead(ctx context.Context, db DBTX, accountID int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE account_id = ? AND is_read = 0`, accountID,
	)
	if err != nil {
		return fmt.Errorf("marking all notifications read: %w", err)
	}
	return nil
}

// CountUnreadNotifications counts the account's unread notifications.
func CountUnreadNotifications(ctx context.Context, db DBTX, accountID int64) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE account_id = ? AND is_read = 0`, accountID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return n, nil
}
