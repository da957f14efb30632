package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/milaap/internal/model"
)

const claimSelect = `SELECT c.claim_id, c.found_item_id, c.lost_item_id, c.user_id, c.claim_reason,
	        c.proof_description, c.status, c.reviewed_by, c.reviewed_at, c.notes,
	        c.collected, c.collected_by, c.collected_at,
	        c.citizen_confirmed_collection, c.citizen_confirmed_at, c.created_at,
	        COALESCE(f.item_name, ''), COALESCE(f.image_path, ''), COALESCE(f.found_date, ''),
	        COALESCE(li.item_name, ''), COALESCE(cat.category_name, ''),
	        COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(u.phone, ''),
	        COALESCE(r.name, ''), COALESCE(k.name, '')
	 FROM item_claims c
	 LEFT JOIN found_items f ON f.found_item_id = c.found_item_id
	 LEFT JOIN lost_items li ON li.lost_item_id = c.lost_item_id
	 LEFT JOIN categories cat ON cat.category_id = f.category_id
	 LEFT JOIN accounts u ON u.account_id = c.user_id
	 LEFT JOIN accounts r ON r.account_id = c.reviewed_by
	 LEFT JOIN accounts k ON k.account_id = c.collected_by`

func scanClaim(row interface{ Scan(...any) error }, c *model.Claim) error {
	return row.Scan(&c.ID, &c.FoundItemID, &c.LostItemID, &c.UserID, &c.Reason,
		&c.Proof, &c.Status, &c.ReviewedBy, &c.ReviewedAt, &c.Notes,
		&c.Collected, &c.CollectedBy, &c.CollectedAt,
		&c.CitizenConfirmed, &c.ConfirmedAt, &c.CreatedAt,
		&c.FoundItemName, &c.FoundImagePath, &c.FoundDate,
		&c.LostItemName, &c.CategoryName,
		&c.ClaimantName, &c.ClaimantEmail, &c.ClaimantPhone,
		&c.ReviewedByName, &c.CollectedByName)
}

// CreateClaim inserts a pending claim.
func CreateClaim(ctx context.Context, db DBTX, userID, foundItemID int64, lostItemID *int64, reason, proof string) (*model.Claim, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO item_claims (found_item_id, lost_item_id, user_id, claim_reason, proof_description, status)
		 VALUES (?, ?, ?, ?, ?, 'Pending')`,
		foundItemID, nullID(lostItemID), userID, reason, proof,
	)
	if err != nil {
		return nil, fmt.Errorf("creating claim: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting claim id: %w", err)
	}

	return GetClaim(ctx, db, id)
}

// GetClaim returns a claim by ID.
func GetClaim(ctx context.Context, db DBTX, id int64) (*model.Claim, error) {
	c := &model.Claim{}
	err := scanClaim(db.QueryRowContext(ctx, claimSelect+` WHERE c.claim_id = ?`, id), c)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting claim: %w", err)
	}
	return c, nil
}

// HasClaim reports whether the citizen already claimed the found item.
func HasClaim(ctx context.Context, db DBTX, userID, foundItemID int64) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM item_claims WHERE user_id = ? AND found_item_id = ?`,
		userID, foundItemID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking existing claim: %w", err)
	}
	return n > 0, nil
}

// ClaimFilter narrows ListClaims. Zero values match everything.
type ClaimFilter struct {
	UserID      int64
	FoundItemID int64
	Status      string
	// Collected, when set, restricts results to claims with that collected flag.
	Collected *bool
}

// ListClaims returns claims, newest first.
func ListClaims(ctx context.Context, db DBTX, f ClaimFilter) ([]model.Claim, error) {
	var where []string
	var args []any
	if f.UserID != 0 {
		where = append(where, "c.user_id = ?")
		args = append(args, f.UserID)
	}
	if f.FoundItemID != 0 {
		where = append(where, "c.found_item_id = ?")
		args = append(args, f.FoundItemID)
	}
	if f.Status != "" {
		where = append(where, "c.status = ?")
		args = append(args, f.Status)
	}
	if f.Collected != nil {
		where = append(where, "c.collected = ?")
		args = append(args, *f.Collected)
	}

	query := claimSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY c.created_at DESC, c.claim_id DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing claims: %w", err)
	}
	defer rows.Close()

	var claims []model.Claim
	for rows.Next() {
		var c model.Claim
		if err := scanClaim(rows, &c); err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

// ClaimedFoundItemIDs returns the found items the citizen has claimed.
func ClaimedFoundItemIDs(ctx context.Context, db DBTX, userID int64) ([]int64, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT found_item_id FROM item_claims WHERE user_id = ? ORDER BY found_item_id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing claimed items: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning claimed item: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ReviewClaim records a decision on a pending claim. It reports false when the
// claim is no longer pending.
func ReviewClaim(ctx context.Context, db DBTX, id int64, status string, reviewerID int64, notes string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE item_claims SET status = ?, reviewed_by = ?, reviewed_at = CURRENT_TIMESTAMP, notes = ?
		 WHERE claim_id = ? AND status = 'Pending'`,
		status, reviewerID, notes, id,
	)
	if err != nil {
		return false, fmt.Errorf("reviewing claim: %w", err)
	}
	return affected(result)
}

// MarkClaimCollected records the police handover of an approved claim. An
// already collected claim is overwritten with the new officer and time.
func MarkClaimCollected(ctx context.Context, db DBTX, id, policeID int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE item_claims SET collected = 1, collected_by = ?, collected_at = CURRENT_TIMESTAMP
		 WHERE claim_id = ? AND status = 'Approved'`,
		policeID, id,
	)
	if err != nil {
		return false, fmt.Errorf("marking claim collected: %w", err)
	}
	return affected(result)
}

// ConfirmClaimCollection records the citizen's receipt. It reports false unless
// the claim belongs to the citizen, is approved, collected and not yet confirmed.
func ConfirmClaimCollection(ctx context.Context, db DBTX, id, userID int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE item_claims SET citizen_confirmed_collection = 1, citizen_confirmed_at = CURRENT_TIMESTAMP
		 WHERE claim_id = ? AND user_id = ? AND status = 'Approved'
		   AND collected = 1 AND citizen_confirmed_collection = 0`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("confirming claim collection: %w", err)
	}
	return affected(result)
}

// CountClaims counts claims, optionally restricted to a status.
func CountClaims(ctx context.Context, db DBTX, status string) (int, error) {
	query := `SELECT COUNT(*) FROM item_claims`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	var n int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting claims: %w", err)
	}
	return n, nil
}

// CountClaimsByUser counts a citizen's claims.
func CountClaimsByUser(ctx context.Context, db DBTX, userID int64) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM item_claims WHERE user_id = ?`, userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting claims by user: %w", err)
	}
	return n, nil
}
