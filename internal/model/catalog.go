package model

import "time"

// Category groups item reports; matching only pairs items of one category.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Location is a named place where items are lost or found.
type Location struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Station is a police station officers are assigned to.
type Station struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	ContactNo string    `json:"contact_no"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidCatalogStatus reports whether status is Active or Inactive.
func ValidCatalogStatus(status string) bool {
	return status == StatusActive || status == StatusInactive
}
