package model

import "time"

// Match links a lost report to a found report believed to be the same item.
type Match struct {
	ID          int64     `json:"id"`
	LostItemID  *int64    `json:"lost_item_id,omitempty"`
	FoundItemID int64     `json:"found_item_id"`
	MatchedBy   int64     `json:"matched_by_police"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	MatchedAt   time.Time `json:"matched_at"`

	// Joined fields (not always populated).
	LostItemName  string `json:"lost_item_name,omitempty"`
	FoundItemName string `json:"found_item_name,omitempty"`
	OfficerName   string `json:"officer_name,omitempty"`
	StationName   string `json:"station_name,omitempty"`
}

// Match statuses.
const (
	MatchStatusMatched  = "Matched"
	MatchStatusResolved = "Resolved"
)

// ClaimResolutionNote is recorded on matches created by a confirmed collection.
const ClaimResolutionNote = "Item claimed and collected by citizen through claim system"
