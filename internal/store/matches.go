package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/milaap/internal/model"
)

const matchSelect = `SELECT m.match_id, m.lost_item_id, m.found_item_id, m.matched_by_police,
	        m.status, m.notes, m.matched_at,
	        COALESCE(li.item_name, ''), COALESCE(f.item_name, ''), COALESCE(p.name, ''),
	        COALESCE(s.station_name, '')
	 FROM matched_reports m
	 LEFT JOIN lost_items li ON li.lost_item_id = m.lost_item_id
	 LEFT JOIN found_items f ON f.found_item_id = m.found_item_id
	 LEFT JOIN accounts p ON p.account_id = m.matched_by_police
	 LEFT JOIN police_stations s ON s.station_id = p.station_id`

func scanMatch(row interface{ Scan(...any) error }, m *model.Match) error {
	return row.Scan(&m.ID, &m.LostItemID, &m.FoundItemID, &m.MatchedBy,
		&m.Status, &m.Notes, &m.MatchedAt,
		&m.LostItemName, &m.FoundItemName, &m.OfficerName, &m.StationName)
}

// CreateMatch inserts a matched report. Duplicates are not rejected here.
func CreateMatch(ctx context.Context, db DBTX, lostItemID *int64, foundItemID, policeID int64, status, notes string) (*model.Match, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO matched_reports (lost_item_id, found_item_id, matched_by_police, status, notes)
		 VALUES (?, ?, ?, ?, ?)`,
		nullID(lostItemID), foundItemID, policeID, status, notes,
	)
	if err != nil {
		return nil, fmt.Errorf("creating match: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting match id: %w", err)
	}

	return GetMatch(ctx, db, id)
}

// GetMatch returns a matched report by ID.
func GetMatch(ctx context.Context, db DBTX, id int64) (*model.Match, error) {
	m := &model.Match{}
	err := scanMatch(db.QueryRowContext(ctx, matchSelect+` WHERE m.match_id = ?`, id), m)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting match: %w", err)
	}
	return m, nil
}

// MatchExists reports whether the lost/found pair already has a matched report.
func MatchExists(ctx context.Context, db DBTX, lostItemID, foundItemID int64) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matched_reports WHERE lost_item_id = ? AND found_item_id = ?`,
		lostItemID, foundItemID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking existing match: %w", err)
	}
	return n > 0, nil
}

// MatchFilter narrows ListMatches. Zero values match everything.
type MatchFilter struct {
	PoliceID    int64
	LostItemID  int64
	FoundItemID int64
	Status      string
}

// ListMatches returns matched reports, newest first.
func ListMatches(ctx context.Context, db DBTX, f MatchFilter) ([]model.Match, error) {
	var where []string
	var args []any
	if f.PoliceID != 0 {
		where = append(where, "m.matched_by_police = ?")
		args = append(args, f.PoliceID)
	}
	if f.LostItemID != 0 {
		where = append(where, "m.lost_item_id = ?")
		args = append(args, f.LostItemID)
	}
	if f.FoundItemID != 0 {
		where = append(where, "m.found_item_id = ?")
		args = append(args, f.FoundItemID)
	}
	if f.Status != "" {
		where = append(where, "m.status = ?")
		args = append(args, f.Status)
	}

	query := matchSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY m.matched_at DESC, m.match_id DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		var m model.Match
		if err := scanMatch(rows, &m); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// MatchCandidates returns approved reports of the opposite kind in the same
// category that are not yet matched with the anchor, latest event date first.
func MatchCandidates(ctx context.Context, db DBTX, anchorKind model.ItemKind, anchorID, categoryID int64, limit int) ([]model.Item, error) {
	kind := anchorKind.Opposite()
	t := tableFor(kind)

	// The pair column for the anchor and the candidate in matched_reports.
	anchorCol, candidateCol := "lost_item_id", "found_item_id"
	if anchorKind == model.KindFound {
		anchorCol, candidateCol = "found_item_id", "lost_item_id"
	}

	query := t.selectSQL() + fmt.Sprintf(`
	 WHERE i.status = 'Approved' AND i.category_id = ?
	   AND i.%[1]s NOT IN (SELECT %[2]s FROM matched_reports WHERE %[3]s = ? AND %[2]s IS NOT NULL)
	 ORDER BY i.%[4]s DESC, i.%[1]s DESC
	 LIMIT ?`, t.id, candidateCol, anchorCol, t.date)

	rows, err := db.QueryContext(ctx, query, categoryID, anchorID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing match candidates: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var it model.Item
		if err := scanItem(rows, kind, &it); err != nil {
			return nil, fmt.Errorf("scanning match candidate: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// CountMatches counts matched reports, optionally restricted to a status.
func CountMatches(ctx context.Context, db DBTX, status string) (int, error) {
	query := `SELECT COUNT(*) FROM matched_reports`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	var n int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting matches: %w", err)
	}
	return n, nil
}
