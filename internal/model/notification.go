package model

import "time"

// Notification is a message addressed to one account.
type Notification struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification types.
const (
	NotifySystem = "System"
	NotifyReport = "Report"
	NotifyClaim  = "Claim"
	NotifyMatch  = "Match"
	NotifyAdmin  = "Admin"
)

// Activity is an audit log entry.
type Activity struct {
	ID          int64     `json:"id"`
	AccountID   int64     `json:"account_id"`
	Role        Role      `json:"role"`
	Action      string    `json:"action"`
	Description string    `json:"description,omitempty"`
	IPAddress   string    `json:"ip_address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
