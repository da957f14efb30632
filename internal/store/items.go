package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/milaap/internal/model"
)

// itemTable names the table and columns backing one item kind.
type itemTable struct {
	name string
	id   string
	date string
}

func tableFor(kind model.ItemKind) itemTable {
	if kind == model.KindFound {
		return itemTable{name: "found_items", id: "found_item_id", date: "found_date"}
	}
	return itemTable{name: "lost_items", id: "lost_item_id", date: "lost_date"}
}

func (t itemTable) selectSQL() string {
	return fmt.Sprintf(`SELECT i.%[1]s, i.user_id, i.police_id, i.category_id, i.location_id,
	        i.item_name, i.description, i.%[2]s, COALESCE(i.image_path, ''), i.contact_info,
	        i.status, i.created_at,
	        COALESCE(c.category_name, ''), COALESCE(l.location_name, ''),
	        COALESCE(u.name, p.name, ''), COALESCE(u.phone, p.phone, ''),
	        COALESCE(u.email, p.email, ''), COALESCE(s.station_name, '')
	 FROM %[3]s i
	 LEFT JOIN categories c ON c.category_id = i.category_id
	 LEFT JOIN locations l ON l.location_id = i.location_id
	 LEFT JOIN accounts u ON u.account_id = i.user_id
	 LEFT JOIN accounts p ON p.account_id = i.police_id
	 LEFT JOIN police_stations s ON s.station_id = p.station_id`, t.id, t.date, t.name)
}

func scanItem(row interface{ Scan(...any) error }, kind model.ItemKind, it *model.Item) error {
	it.Kind = kind
	return row.Scan(&it.ID, &it.UserID, &it.PoliceID, &it.CategoryID, &it.LocationID,
		&it.Name, &it.Description, &it.Date, &it.ImagePath, &it.ContactInfo,
		&it.Status, &it.CreatedAt,
		&it.CategoryName, &it.LocationName,
		&it.ReporterName, &it.ReporterPhone, &it.ReporterEmail, &it.StationName)
}

// CreateItem inserts a lost or found report. Exactly one of UserID and
// PoliceID must be set.
func CreateItem(ctx context.Context, db DBTX, it *model.Item) (*model.Item, error) {
	t := tableFor(it.Kind)
	status := it.Status
	if status == "" {
		status = model.ItemStatusPending
	}
	var image any
	if it.ImagePath != "" {
		image = it.ImagePath
	}

	result, err := db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (user_id, police_id, category_id, location_id, item_name,
		                             description, %s, image_path, contact_info, status)
		             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, t.name, t.date),
		nullID(it.UserID), nullID(it.PoliceID), it.CategoryID, it.LocationID, it.Name,
		it.Description, it.Date, image, it.ContactInfo, status,
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s item: %w", it.Kind, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting %s item id: %w", it.Kind, err)
	}

	return GetItem(ctx, db, it.Kind, id)
}

// GetItem returns a lost or found report by ID.
func GetItem(ctx context.Context, db DBTX, kind model.ItemKind, id int64) (*model.Item, error) {
	t := tableFor(kind)
	it := &model.Item{}
	err := scanItem(db.QueryRowContext(ctx, t.selectSQL()+` WHERE i.`+t.id+` = ?`, id), kind, it)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s item: %w", kind, err)
	}
	return it, nil
}

// ItemFilter narrows ListItems. Zero values match everything.
type ItemFilter struct {
	Status     string
	UserID     int64
	PoliceID   int64
	CategoryID int64
	LocationID int64
	// Query matches item name or description.
	Query string
	// Custody restricts results to police-filed reports.
	Custody bool
	Limit   int
}

// ListItems returns reports of one kind, newest first.
func ListItems(ctx context.Context, db DBTX, kind model.ItemKind, f ItemFilter) ([]model.Item, error) {
	t := tableFor(kind)
	var where []string
	var args []any
	if f.Status != "" {
		where = append(where, "i.status = ?")
		args = append(args, f.Status)
	}
	if f.UserID != 0 {
		where = append(where, "i.user_id = ?")
		args = append(args, f.UserID)
	}
	if f.PoliceID != 0 {
		where = append(where, "i.police_id = ?")
		args = append(args, f.PoliceID)
	}
	if f.Custody {
		where = append(where, "i.police_id IS NOT NULL")
	}
	if f.CategoryID != 0 {
		where = append(where, "i.category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.LocationID != 0 {
		where = append(where, "i.location_id = ?")
		args = append(args, f.LocationID)
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		where = append(where, "(i.item_name LIKE ? OR i.description LIKE ?)")
		args = append(args, like, like)
	}

	query := t.selectSQL()
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY i.created_at DESC, i.%s DESC", t.id)
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s items: %w", kind, err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var it model.Item
		if err := scanItem(rows, kind, &it); err != nil {
			return nil, fmt.Errorf("scanning %s item: %w", kind, err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// SetItemStatus unconditionally sets a report's status.
func SetItemStatus(ctx context.Context, db DBTX, kind model.ItemKind, id int64, status string) error {
	t := tableFor(kind)
	_, err := db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET status = ? WHERE %s = ?`, t.name, t.id),
		status, id,
	)
	if err != nil {
		return fmt.Errorf("updating %s item status: %w", kind, err)
	}
	return nil
}

// TransitionItemStatus moves a report from one status to another. It reports
// false when the report was not in the expected status.
func TransitionItemStatus(ctx context.Context, db DBTX, kind model.ItemKind, id int64, from, to string) (bool, error) {
	t := tableFor(kind)
	result, err := db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET status = ? WHERE %s = ? AND status = ?`, t.name, t.id),
		to, id, from,
	)
	if err != nil {
		return false, fmt.Errorf("updating %s item status: %w", kind, err)
	}
	return affected(result)
}

// CountItems counts reports of one kind, optionally restricted to a status.
func CountItems(ctx context.Context, db DBTX, kind model.ItemKind, status string) (int, error) {
	t := tableFor(kind)
	query := `SELECT COUNT(*) FROM ` + t.name
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	var n int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s items: %w", kind, err)
	}
	return n, nil
}

// CountItemsByUser counts the reports of one kind filed by a citizen.
func CountItemsByUser(ctx context.Context, db DBTX, kind model.ItemKind, userID int64) (int, error) {
	t := tableFor(kind)
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+t.name+` WHERE user_id = ?`, userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting %s items by user: %w", kind, err)
	}
	return n, nil
}
