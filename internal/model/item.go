package model

import "time"

// ItemKind distinguishes lost reports from found reports.
type ItemKind string

// Item kinds.
const (
	KindLost  ItemKind = "lost"
	KindFound ItemKind = "found"
)

// ParseItemKind returns the kind named by s.
func ParseItemKind(s string) (ItemKind, bool) {
	switch k := ItemKind(s); k {
	case KindLost, KindFound:
		return k, true
	}
	return "", false
}

// Opposite returns the kind a match pairs this kind with.
func (k ItemKind) Opposite() ItemKind {
	if k == KindLost {
		return KindFound
	}
	return KindLost
}

// Item is a lost or found item report.
type Item struct {
	ID          int64     `json:"id"`
	Kind        ItemKind  `json:"kind"`
	UserID      *int64    `json:"user_id,omitempty"`
	PoliceID    *int64    `json:"police_id,omitempty"`
	CategoryID  int64     `json:"category_id"`
	LocationID  int64     `json:"location_id"`
	Name        string    `json:"item_name"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	ImagePath   string    `json:"image_path,omitempty"`
	ContactInfo string    `json:"contact_info,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`

	// Joined fields (not always populated).
	CategoryName  string `json:"category_name,omitempty"`
	LocationName  string `json:"location_name,omitempty"`
	ReporterName  string `json:"reporter_name,omitempty"`
	ReporterPhone string `json:"reporter_phone,omitempty"`
	ReporterEmail string `json:"reporter_email,omitempty"`
	StationName   string `json:"station_name,omitempty"`
}

// ReportedByPolice reports whether a police officer filed the report.
func (i *Item) ReportedByPolice() bool { return i.PoliceID != nil }

// ReporterRole returns the role of whoever filed the report.
func (i *Item) ReporterRole() Role {
	if i.ReportedByPolice() {
		return RolePolice
	}
	return RoleCitizen
}

// Item statuses.
const (
	ItemStatusPending  = "Pending"
	ItemStatusApproved = "Approved"
	ItemStatusRejected = "Rejected"
	ItemStatusReturned = "Returned"
	ItemStatusResolved = "Resolved"
)

// ValidItemStatus reports whether status is a known item status.
func ValidItemStatus(status string) bool {
	switch status {
	case ItemStatusPending, ItemStatusApproved, ItemStatusRejected, ItemStatusReturned, ItemStatusResolved:
		return true
	}
	return false
}

// DateLayout is the format of item event dates.
const DateLayout = "2006-01-02"

// CustodyContactPrefix marks found items held in police custody.
const CustodyContactPrefix = "Police Custody - Ref: "
