package portal

import (
	"context"
	"fmt"
	"strings"

	"github.com/erazemk/milaap/internal/events"
	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/store"
)

// MaxCandidates caps the match suggestions for one report.
const MaxCandidates = 10

// MatchCandidates suggests approved reports of the opposite kind in the
// anchor's category that are not yet matched with it.
func (s *Service) MatchCandidates(ctx context.Context, actor model.Actor, anchorKind model.ItemKind, anchorID int64) ([]model.Item, error) {
	if err := authorize(actor, model.CapMatchReports); err != nil {
		return nil, err
	}
	anchor, err := store.GetItem(ctx, s.DB, anchorKind, anchorID)
	if err != nil {
		return nil, err
	}
	if anchor == nil {
		return nil, ErrNotFound
	}
	return store.MatchCandidates(ctx, s.DB, anchorKind, anchor.ID, anchor.CategoryID, MaxCandidates)
}

// MatchInput pairs an anchor report with a candidate of the opposite kind.
type MatchInput struct {
	AnchorKind  model.ItemKind
	AnchorID    int64
	CandidateID int64
	Notes       string
}

// CreateMatch links a lost and a found report. Both must be approved and share
// a category, and the pair must not be matched already. Citizen reporters of
// either side are notified.
func (s *Service) CreateMatch(ctx context.Context, actor model.Actor, in MatchInput) (*model.Match, error) {
	if err := authorize(actor, model.CapMatchReports); err != nil {
		return nil, err
	}
	if _, ok := model.ParseItemKind(string(in.AnchorKind)); !ok || in.AnchorID == 0 || in.CandidateID == 0 {
		return nil, invalid("errors.required_fields")
	}

	anchor, err := store.GetItem(ctx, s.DB, in.AnchorKind, in.AnchorID)
	if err != nil {
		return nil, err
	}
	candidate, err := store.GetItem(ctx, s.DB, in.AnchorKind.Opposite(), in.CandidateID)
	if err != nil {
		return nil, err
	}
	if anchor == nil || candidate == nil {
		return nil, ErrNotFound
	}
	if anchor.Status != model.ItemStatusApproved || candidate.Status != model.ItemStatusApproved {
		return nil, ErrInvalidState
	}
	if anchor.CategoryID != candidate.CategoryID {
		return nil, ErrCategoryMismatch
	}

	lost, found := anchor, candidate
	if in.AnchorKind == model.KindFound {
		lost, found = candidate, anchor
	}

	exists, err := store.MatchExists(ctx, s.DB, lost.ID, found.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrMatchExists
	}

	match, err := store.CreateMatch(ctx, s.DB, &lost.ID, found.ID, actor.ActorID(),
		model.MatchStatusMatched, strings.TrimSpace(in.Notes))
	if err != nil {
		return nil, err
	}

	// Police-filed reports have no citizen to notify.
	if lost.UserID != nil {
		s.notify(ctx, *lost.UserID, message{
			Type:     model.NotifyMatch,
			TitleKey: "police.match.match_found_title",
			BodyKey:  "police.match.match_found_lost_message",
			Params:   map[string]string{"item": lost.Name},
		})
	}
	if found.UserID != nil {
		s.notify(ctx, *found.UserID, message{
			Type:     model.NotifyMatch,
			TitleKey: "police.match.match_found_title",
			BodyKey:  "police.match.match_found_found_message",
			Params:   map[string]string{"item": found.Name},
		})
	}
	s.logActivity(ctx, actor, "Create Match",
		fmt.Sprintf("Matched lost item #%d (%s) with found item #%d (%s)", lost.ID, lost.Name, found.ID, found.Name))
	s.publish(ctx, events.MatchCreated, actor, match.ID, map[string]string{
		"lost_item_id":  itoa(lost.ID),
		"found_item_id": itoa(found.ID),
	})

	return match, nil
}

// Matches lists matched reports. Police see every match; with mine set only
// their own.
func (s *Service) Matches(ctx context.Context, actor model.Actor, mine bool) ([]model.Match, error) {
	if err := authorize(actor, model.CapMatchReports); err != nil {
		return nil, err
	}
	f := store.MatchFilter{}
	if mine {
		f.PoliceID = actor.ActorID()
	}
	return store.ListMatches(ctx, s.DB, f)
}
