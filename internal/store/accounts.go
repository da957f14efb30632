package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/milaap/internal/model"
)

const accountColumns = `a.account_id, a.role, a.name, a.email, a.phone, a.address, a.password_hash,
	a.status, a.language, a.created_at, COALESCE(a.badge_number, ''), a.station_id,
	COALESCE(s.station_name, ''), COALESCE(a.police_rank, '')`

const accountFrom = `FROM accounts a LEFT JOIN police_stations s ON s.station_id = a.station_id`

func scanAccount(row interface{ Scan(...any) error }, a *model.Account) error {
	return row.Scan(&a.ID, &a.Role, &a.Name, &a.Email, &a.Phone, &a.Address, &a.PasswordHash,
		&a.Status, &a.Language, &a.CreatedAt, &a.BadgeNumber, &a.StationID,
		&a.StationName, &a.PoliceRank)
}

// CreateAccount inserts an account of any role and returns it.
func CreateAccount(ctx context.Context, db DBTX, a *model.Account) (*model.Account, error) {
	status := a.Status
	if status == "" {
		status = model.StatusActive
	}
	lang := a.Language
	if lang == "" {
		lang = model.LangEnglish
	}

	var badge, rank any
	if a.BadgeNumber != "" {
		badge = a.BadgeNumber
	}
	if a.PoliceRank != "" {
		rank = a.PoliceRank
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO accounts (role, name, email, phone, address, password_hash, status, language,
		                       badge_number, station_id, police_rank)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Role, a.Name, a.Email, a.Phone, a.Address, a.PasswordHash, status, lang,
		badge, nullID(a.StationID), rank,
	)
	if err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting account id: %w", err)
	}

	return GetAccount(ctx, db, id)
}

// GetAccount returns an account by ID.
func GetAccount(ctx context.Context, db DBTX, id int64) (*model.Account, error) {
	a := &model.Account{}
	err := scanAccount(db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` `+accountFrom+` WHERE a.account_id = ?`, id), a)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}
	return a, nil
}

// GetAccountByEmail returns the account of the given role registered with email.
func GetAccountByEmail(ctx context.Context, db DBTX, role model.Role, email string) (*model.Account, error) {
	a := &model.Account{}
	err := scanAccount(db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` `+accountFrom+` WHERE a.role = ? AND a.email = ?`, role, email), a)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting account by email: %w", err)
	}
	return a, nil
}

// GetAccountByBadge returns the police account holding badge.
func GetAccountByBadge(ctx context.Context, db DBTX, badge string) (*model.Account, error) {
	a := &model.Account{}
	err := scanAccount(db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` `+accountFrom+` WHERE a.badge_number = ?`, badge), a)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting account by badge: %w", err)
	}
	return a, nil
}

// AccountFilter narrows ListAccounts. Zero values match everything.
type AccountFilter struct {
	Role   model.Role
	Status string
	// Query matches name, email, phone or badge number.
	Query string
}

// ListAccounts returns accounts, newest first.
func ListAccounts(ctx context.Context, db DBTX, f AccountFilter) ([]model.Account, error) {
	var where []string
	var args []any
	if f.Role != "" {
		where = append(where, "a.role = ?")
		args = append(args, f.Role)
	}
	if f.Status != "" {
		where = append(where, "a.status = ?")
		args = append(args, f.Status)
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		where = append(where, "(a.name LIKE ? OR a.email LIKE ? OR a.phone LIKE ? OR a.badge_number LIKE ?)")
		args = append(args, like, like, like, like)
	}

	query := `SELECT ` + accountColumns + ` ` + accountFrom
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY a.created_at DESC, a.account_id DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		if err := scanAccount(rows, &a); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// UpdateAccountProfile updates the descriptive fields of an account.
func UpdateAccountProfile(ctx context.Context, db DBTX, a *model.Account) error {
	var badge, rank any
	if a.BadgeNumber != "" {
		badge = a.BadgeNumber
	}
	if a.PoliceRank != "" {
		rank = a.PoliceRank
	}
	_, err := db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, email = ?, phone = ?, address = ?,
		        badge_number = ?, station_id = ?, police_rank = ?
		 WHERE account_id = ?`,
		a.Name, a.Email, a.Phone, a.Address, badge, nullID(a.StationID), rank, a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating account: %w", err)
	}
	return nil
}

// UpdateAccountPassword updates an account's password hash.
func UpdateAccountPassword(ctx context.Context, db DBTX, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE accounts SET password_hash = ? WHERE account_id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating account password: %w", err)
	}
	return nil
}

// UpdateAccountStatus activates or deactivates an account.
func UpdateAccountStatus(ctx context.Context, db DBTX, id int64, status string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE accounts SET status = ? WHERE account_id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("updating account status: %w", err)
	}
	return nil
}

// UpdateAccountLanguage stores an account's preferred language.
func UpdateAccountLanguage(ctx context.Context, db DBTX, id int64, lang string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE accounts SET language = ? WHERE account_id = ?`,
		lang, id,
	)
	if err != nil {
		return fmt.Errorf("updating account language: %w", err)
	}
	return nil
}

// CountAccounts counts accounts of a role, optionally restricted to a status.
func CountAccounts(ctx context.Context, db DBTX, role model.Role, status string) (int, error) {
	query := `SELECT COUNT(*) FROM accounts WHERE role = ?`
	args := []any{role}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	var n int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting accounts: %w", err)
	}
	return n, nil
}
