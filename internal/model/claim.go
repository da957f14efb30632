package model

import "time"

// Claim is a citizen's request to recover a found item.
type Claim struct {
	ID               int64      `json:"id"`
	FoundItemID      int64      `json:"found_item_id"`
	LostItemID       *int64     `json:"lost_item_id,omitempty"`
	UserID           int64      `json:"user_id"`
	Reason           string     `json:"claim_reason"`
	Proof            string     `json:"proof_description"`
	Status           string     `json:"status"`
	ReviewedBy       *int64     `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	Collected        bool       `json:"collected"`
	CollectedBy      *int64     `json:"collected_by,omitempty"`
	CollectedAt      *time.Time `json:"collected_at,omitempty"`
	CitizenConfirmed bool       `json:"citizen_confirmed_collection"`
	ConfirmedAt      *time.Time `json:"citizen_confirmed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`

	// Joined fields (not always populated).
	FoundItemName   string `json:"found_item_name,omitempty"`
	FoundImagePath  string `json:"found_image,omitempty"`
	FoundDate       string `json:"found_date,omitempty"`
	LostItemName    string `json:"lost_item_name,omitempty"`
	CategoryName    string `json:"category_name,omitempty"`
	ClaimantName    string `json:"claimant_name,omitempty"`
	ClaimantEmail   string `json:"claimant_email,omitempty"`
	ClaimantPhone   string `json:"claimant_phone,omitempty"`
	ReviewedByName  string `json:"reviewed_by_name,omitempty"`
	CollectedByName string `json:"collected_by_name,omitempty"`
}

// Claim statuses.
const (
	ClaimStatusPending  = "Pending"
	ClaimStatusApproved = "Approved"
	ClaimStatusRejected = "Rejected"
)

// ValidClaimStatus reports whether status is a known claim status.
func ValidClaimStatus(status string) bool {
	switch status {
	case ClaimStatusPending, ClaimStatusApproved, ClaimStatusRejected:
		return true
	}
	return false
}

// AwaitingCitizen reports whether police handed the item over and the
// citizen still has to confirm receipt.
func (c *Claim) AwaitingCitizen() bool {
	return c.Status == ClaimStatusApproved && c.Collected && !c.CitizenConfirmed
}

// Decision is a reviewer's verdict on a pending claim or report.
type Decision string

// Decisions.
const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// ParseDecision returns the decision named by s.
func ParseDecision(s string) (Decision, bool) {
	switch d := Decision(s); d {
	case DecisionApprove, DecisionReject:
		return d, true
	}
	return "", false
}
