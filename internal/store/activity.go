package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/erazemk/milaap/internal/model"
)

// LogActivity appends an entry to the activity log.
func LogActivity(ctx context.Context, db DBTX, accountID int64, role model.Role, action, description, ip string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO activity_log (account_id, role, action, description, ip_address) VALUES (?, ?, ?, ?, ?)`,
		accountID, role, action, description, ip,
	)
	if err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	return nil
}

// ActivityFilter narrows ListActivity. Zero values match everything.
type ActivityFilter struct {
	AccountID int64
	Role      model.Role
	Action    string
	Limit     int
}

// ListActivity returns activity log entries, newest first.
func ListActivity(ctx context.Context, db DBTX, f ActivityFilter) ([]model.Activity, error) {
	var where []string
	var args []any
	if f.AccountID != 0 {
		where = append(where, "account_id = ?")
		args = append(args, f.AccountID)
	}
	if f.Role != "" {
		where = append(where, "role = ?")
		args = append(args, f.Role)
	}
	if f.Action != "" {
		where = append(where, "action = ?")
		args = append(args, f.Action)
	}

	query := `SELECT log_id, account_id, role, action, description, ip_address, created_at FROM activity_log`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, log_id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	defer rows.Close()

	var entries []model.Activity
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.ID, &a.AccountID, &a.Role, &a.Action, &a.Description, &a.IPAddress, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		entries = append(entries, a)
	}
	return entries, rows.Err()
}
