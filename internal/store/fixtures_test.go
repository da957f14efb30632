package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/erazemk/milaap/internal/model"
)

// fixture holds the catalog and accounts most store tests need.
type fixture struct {
	category *model.Category
	location *model.Location
	station  *model.Station
	citizen  *model.Account
	police   *model.Account
}

func newFixture(t *testing.T, database *sql.DB) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{}
	var err error
	if f.category, err = CreateCategory(ctx, database, "Wallet", "Wallets and purses"); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if f.location, err = CreateLocation(ctx, database, "Race Course"); err != nil {
		t.Fatalf("CreateLocation: %v", err)
	}
	if f.station, err = CreateStation(ctx, database, "A Division", "Jubilee Garden", "0281222333"); err != nil {
		t.Fatalf("CreateStation: %v", err)
	}
	if f.citizen, err = CreateAccount(ctx, database, &model.Account{
		Role: model.RoleCitizen, Name: "Asha", Email: "asha@example.com",
		Phone: "9876543210", Address: "Kalawad Road", PasswordHash: "hash",
	}); err != nil {
		t.Fatalf("CreateAccount citizen: %v", err)
	}
	if f.police, err = CreateAccount(ctx, database, &model.Account{
		Role: model.RolePolice, Name: "Officer Jadeja", Email: "jadeja@police.example",
		Phone: "9123456780", PasswordHash: "hash", BadgeNumber: "RJK-101",
		StationID: &f.station.ID, PoliceRank: "Sub-Inspector",
	}); err != nil {
		t.Fatalf("CreateAccount police: %v", err)
	}
	return f
}

func (f *fixture) item(t *testing.T, database *sql.DB, kind model.ItemKind, name, date, status string) *model.Item {
	t.Helper()
	it, err := CreateItem(context.Background(), database, &model.Item{
		Kind: kind, UserID: &f.citizen.ID, CategoryID: f.category.ID, LocationID: f.location.ID,
		Name: name, Description: name + " description", Date: date, Status: status,
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	return it
}
