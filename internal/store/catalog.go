package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/milaap/internal/model"
)

// CreateCategory creates a new active category.
func CreateCategory(ctx context.Context, db DBTX, name, description string) (*model.Category, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO categories (category_name, description) VALUES (?, ?)`,
		name, description,
	)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting category id: %w", err)
	}

	return GetCategory(ctx, db, id)
}

// GetCategory returns a category by ID.
func GetCategory(ctx context.Context, db DBTX, id int64) (*model.Category, error) {
	c := &model.Category{}
	err := db.QueryRowContext(ctx,
		`SELECT category_id, category_name, description, status, created_at
		 FROM categories WHERE category_id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.Status, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return c, nil
}

// GetCategoryByName returns a category by its unique name.
func GetCategoryByName(ctx context.Context, db DBTX, name string) (*model.Category, error) {
	c := &model.Category{}
	err := db.QueryRowContext(ctx,
		`SELECT category_id, category_name, description, status, created_at
		 FROM categories WHERE category_name = ?`, name,
	).Scan(&c.ID, &c.Name, &c.Description, &c.Status, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category by name: %w", err)
	}
	return c, nil
}

// ListCategories returns categories ordered by name. With activeOnly set,
// inactive categories are skipped.
func ListCategories(ctx context.Context, db DBTX, activeOnly bool) ([]model.Category, error) {
	query := `SELECT category_id, category_name, description, status, created_at FROM categories`
	if activeOnly {
		query += ` WHERE status = 'Active'`
	}
	query += ` ORDER BY category_name`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Status, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateCategory updates a category's fields.
func UpdateCategory(ctx context.Context, db DBTX, id int64, name, description, status string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE categories SET category_name = ?, description = ?, status = ? WHERE category_id = ?`,
		name, description, status, id,
	)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category.
func DeleteCategory(ctx context.Context, db DBTX, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM categories WHERE category_id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	return nil
}

// CategoryInUse reports whether any lost or found report references the category.
func CategoryInUse(ctx context.Context, db DBTX, id int64) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM lost_items WHERE category_id = ?)
		      + (SELECT COUNT(*) FROM found_items WHERE category_id = ?)`,
		id, id,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking category usage: %w", err)
	}
	return n > 0, nil
}

// CreateLocation creates a new active location.
func CreateLocation(ctx context.Context, db DBTX, name string) (*model.Location, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO locations (location_name) VALUES (?)`, name,
	)
	if err != nil {
		return nil, fmt.Errorf("creating location: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting location id: %w", err)
	}

	return GetLocation(ctx, db, id)
}

// GetLocation returns a location by ID.
func GetLocation(ctx context.Context, db DBTX, id int64) (*model.Location, error) {
	l := &model.Location{}
	err := db.QueryRowContext(ctx,
		`SELECT location_id, location_name, status, created_at FROM locations WHERE location_id = ?`, id,
	).Scan(&l.ID, &l.Name, &l.Status, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting location: %w", err)
	}
	return l, nil
}

// ListLocations returns locations ordered by name.
func ListLocations(ctx context.Context, db DBTX, activeOnly bool) ([]model.Location, error) {
	query := `SELECT location_id, location_name, status, created_at FROM locations`
	if activeOnly {
		query += ` WHERE status = 'Active'`
	}
	query += ` ORDER BY location_name`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Status, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// UpdateLocationStatus activates or deactivates a location.
func UpdateLocationStatus(ctx context.Context, db DBTX, id int64, status string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE locations SET status = ? WHERE location_id = ?`, status, id,
	)
	if err != nil {
		return fmt.Errorf("updating location status: %w", err)
	}
	return nil
}

// CreateStation creates a police station.
func CreateStation(ctx context.Context, db DBTX, name, address, contactNo string) (*model.Station, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO police_stations (station_name, station_address, contact_no) VALUES (?, ?, ?)`,
		name, address, contactNo,
	)
	if err != nil {
		return nil, fmt.Errorf("creating station: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting station id: %w", err)
	}

	return GetStation(ctx, db, id)
}

// GetStation returns a police station by ID.
func GetStation(ctx context.Context, db DBTX, id int64) (*model.Station, error) {
	s := &model.Station{}
	err := db.QueryRowContext(ctx,
		`SELECT station_id, station_name, station_address, contact_no, created_at
		 FROM police_stations WHERE station_id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.Address, &s.ContactNo, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting station: %w", err)
	}
	return s, nil
}

// ListStations returns all police stations ordered by name.
func ListStations(ctx context.Context, db DBTX) ([]model.Station, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT station_id, station_name, station_address, contact_no, created_at
		 FROM police_stations ORDER BY station_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing stations: %w", err)
	}
	defer rows.Close()

	var stations []model.Station
	for rows.Next() {
		var s model.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.ContactNo, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning station: %w", err)
		}
		stations = append(stations, s)
	}
	return stations, rows.Err()
}
