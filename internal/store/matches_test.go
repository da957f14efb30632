package store

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/erazemk/milaap/internal/db"
	"github.com/erazemk/milaap/internal/model"
)

func itemNames(items []model.Item) []string {
	var names []string
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names
}

func TestMatchCandidates(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database)

	anchor := f.item(t, database, model.KindLost, "Black Wallet", "2024-03-01", model.ItemStatusApproved)
	older := f.item(t, database, model.KindFound, "Leather Wallet", "2024-03-02", model.ItemStatusApproved)
	newer := f.item(t, database, model.KindFound, "Black Wallet", "2024-03-05", model.ItemStatusApproved)
	f.item(t, database, model.KindFound, "Pending Wallet", "2024-03-06", model.ItemStatusPending)

	other, _ := CreateCategory(ctx, database, "Phone", "Phones")
	CreateItem(ctx, database, &model.Item{
		Kind: model.KindFound, UserID: &f.citizen.ID, CategoryID: other.ID, LocationID: f.location.ID,
		Name: "Phone", Description: "Phone", Date: "2024-03-07", Status: model.ItemStatusApproved,
	})

	got, err := MatchCandidates(ctx, database, model.KindLost, anchor.ID, f.category.ID, 10)
	if err != nil {
		t.Fatalf("MatchCandidates: %v", err)
	}
	if diff := cmp.Diff([]string{"Black Wallet", "Leather Wallet"}, itemNames(got)); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}
	for _, it := range got {
		if it.Kind != model.KindFound {
			t.Errorf("expected found candidates, got %q", it.Kind)
		}
	}

	CreateMatch(ctx, database, &anchor.ID, newer.ID, f.police.ID, model.MatchStatusMatched, "")

	got, _ = MatchCandidates(ctx, database, model.KindLost, anchor.ID, f.category.ID, 10)
	if len(got) != 1 || got[0].ID != older.ID {
		t.Errorf("expected matched item excluded, got %+v", itemNames(got))
	}

	// From the found side the lost anchor is already matched with newer.
	got, _ = MatchCandidates(ctx, database, model.KindFound, newer.ID, f.category.ID, 10)
	if len(got) != 0 {
		t.Errorf("expected no lost candidates, got %+v", itemNames(got))
	}

	got, _ = MatchCandidates(ctx, database, model.KindLost, anchor.ID, f.category.ID, 0)
	if len(got) != 0 {
		t.Errorf("expected zero limit to return nothing, got %d", len(got))
	}
}

func TestCreateMatchAndExists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database)

	lost := f.item(t, database, model.KindLost, "Black Wallet", "2024-03-01", model.ItemStatusApproved)
	found := f.item(t, database, model.KindFound, "Black Wallet", "2024-03-02", model.ItemStatusApproved)

	exists, _ := MatchExists(ctx, database, lost.ID, found.ID)
	if exists {
		t.Error("expected no match yet")
	}

	m, err := CreateMatch(ctx, database, &lost.ID, found.ID, f.police.ID, model.MatchStatusMatched, "same wallet")
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	if m.Status != model.MatchStatusMatched || m.OfficerName != "Officer Jadeja" {
		t.Errorf("unexpected match %+v", m)
	}

	exists, err = MatchExists(ctx, database, lost.ID, found.ID)
	if err != nil {
		t.Fatalf("MatchExists: %v", err)
	}
	if !exists {
		t.Error("expected match to exist")
	}

	// The store does not prevent a second row for the pair.
	if _, err := CreateMatch(ctx, database, &lost.ID, found.ID, f.police.ID, model.MatchStatusResolved, model.ClaimResolutionNote); err != nil {
		t.Fatalf("CreateMatch duplicate: %v", err)
	}
	all, _ := ListMatches(ctx, database, MatchFilter{FoundItemID: found.ID})
	if len(all) != 2 {
		t.Errorf("expected 2 rows for the pair, got %d", len(all))
	}

	resolved, _ := CountMatches(ctx, database, model.MatchStatusResolved)
	if resolved != 1 {
		t.Errorf("expected 1 resolved match, got %d", resolved)
	}
	byOfficer, _ := CountMatchesByPolice(ctx, database, f.police.ID)
	if byOfficer != 2 {
		t.Errorf("expected 2 matches by officer, got %d", byOfficer)
	}
}

func TestCreateMatchWithoutLostItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database)

	found := f.item(t, database, model.KindFound, "Black Wallet", "2024-03-02", model.ItemStatusApproved)

	m, err := CreateMatch(ctx, database, nil, found.ID, f.police.ID, model.MatchStatusResolved, model.ClaimResolutionNote)
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	if m.LostItemID != nil {
		t.Errorf("expected no lost item, got %d", *m.LostItemID)
	}
	if m.FoundItemName != "Black Wallet" {
		t.Errorf("expected found item name, got %q", m.FoundItemName)
	}
}
