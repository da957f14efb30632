package store

import (
	"context"
	"testing"

	"github.com/erazemk/milaap/internal/db"
	"github.com/erazemk/milaap/internal/model"
)

func TestCategoryLifecycle(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c, err := CreateCategory(ctx, database, "Phone", "Mobile phones")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if c.Status != model.StatusActive {
		t.Errorf("expected Active, got %q", c.Status)
	}

	if _, err := CreateCategory(ctx, database, "Phone", "again"); err == nil {
		t.Error("expected duplicate category name to fail")
	}

	if err := UpdateCategory(ctx, database, c.ID, "Mobile", "Phones", model.StatusInactive); err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	byName, _ := GetCategoryByName(ctx, database, "Mobile")
	if byName == nil || byName.ID != c.ID {
		t.Fatalf("expected renamed category, got %+v", byName)
	}

	active, _ := ListCategories(ctx, database, true)
	if len(active) != 0 {
		t.Errorf("expected no active categories, got %d", len(active))
	}
	all, _ := ListCategories(ctx, database, false)
	if len(all) != 1 {
		t.Errorf("expected 1 category, got %d", len(all))
	}

	if err := DeleteCategory(ctx, database, c.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	gone, _ := GetCategory(ctx, database, c.ID)
	if gone != nil {
		t.Error("expected category to be deleted")
	}
}

func TestCategoryInUse(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database)

	inUse, err := CategoryInUse(ctx, database, f.category.ID)
	if err != nil {
		t.Fatalf("CategoryInUse: %v", err)
	}
	if inUse {
		t.Error("expected unused category")
	}

	f.item(t, database, model.KindFound, "Black Wallet", "2024-03-01", model.ItemStatusPending)

	inUse, _ = CategoryInUse(ctx, database, f.category.ID)
	if !inUse {
		t.Error("expected category in use after a found report")
	}
}

func TestLocationsAndStations(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	l, _ := CreateLocation(ctx, database, "Bus Stand")
	CreateLocation(ctx, database, "Airport")
	UpdateLocationStatus(ctx, database, l.ID, model.StatusInactive)

	active, err := ListLocations(ctx, database, true)
	if err != nil {
		t.Fatalf("ListLocations: %v", err)
	}
	if len(active) != 1 || active[0].Name != "Airport" {
		t.Errorf("expected only Airport active, got %+v", active)
	}

	CreateStation(ctx, database, "B Division", "", "")
	CreateStation(ctx, database, "A Division", "", "")
	stations, err := ListStations(ctx, database)
	if err != nil {
		t.Fatalf("ListStations: %v", err)
	}
	if len(stations) != 2 || stations[0].Name != "A Division" {
		t.Errorf("expected stations ordered by name, got %+v", stations)
	}
}
