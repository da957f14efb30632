package store

import (
	"context"
	"fmt"
)

// CountCustodyItems counts found items filed by police.
func CountCustodyItems(ctx context.Context, db DBTX) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM found_items WHERE police_id IS NOT NULL`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting custody items: %w", err)
	}
	return n, nil
}

// CountMatchesByPolice counts the matched reports an officer created.
func CountMatchesByPolice(ctx context.Context, db DBTX, policeID int64) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matched_reports WHERE matched_by_police = ?`, policeID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting matches by police: %w", err)
	}
	return n, nil
}

// CountAwaitingCollection counts approved claims not yet handed over.
func CountAwaitingCollection(ctx context.Context, db DBTX) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM item_claims WHERE status = 'Approved' AND collected = 0`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting claims awaiting collection: %w", err)
	}
	return n, nil
}
