package portal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/erazemk/milaap/internal/events"
	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/store"
)

// ClaimInput is a citizen's claim on a found item.
type ClaimInput struct {
	FoundItemID int64
	// LostItemID optionally links the citizen's own lost report.
	LostItemID *int64
	Reason     string
	Proof      string
}

// SubmitClaim files a pending claim on an approved found item. Only the
// claimant is notified; the finder is not.
func (s *Service) SubmitClaim(ctx context.Context, actor model.Actor, in ClaimInput) (*model.Claim, error) {
	if err := authorize(actor, model.CapClaimItems); err != nil {
		return nil, err
	}
	in.Reason = strings.TrimSpace(in.Reason)
	in.Proof = strings.TrimSpace(in.Proof)
	if in.FoundItemID == 0 || in.Reason == "" || in.Proof == "" {
		return nil, invalid("errors.required_fields")
	}

	found, err := store.GetItem(ctx, s.DB, model.KindFound, in.FoundItemID)
	if err != nil {
		return nil, err
	}
	if found == nil || found.Status != model.ItemStatusApproved {
		return nil, ErrNotFound
	}

	if in.LostItemID != nil && *in.LostItemID != 0 {
		lost, err := store.GetItem(ctx, s.DB, model.KindLost, *in.LostItemID)
		if err != nil {
			return nil, err
		}
		if lost == nil || lost.UserID == nil || *lost.UserID != actor.ActorID() {
			return nil, ErrNotFound
		}
	}

	has, err := store.HasClaim(ctx, s.DB, actor.ActorID(), found.ID)
	if err != nil {
		return nil, err
	}
	if has {
		return nil, ErrAlreadyClaimed
	}

	claim, err := store.CreateClaim(ctx, s.DB, actor.ActorID(), found.ID, in.LostItemID, in.Reason, in.Proof)
	if err != nil {
		// A concurrent submission may have won the unique index.
		if has, _ := store.HasClaim(ctx, s.DB, actor.ActorID(), found.ID); has {
			return nil, ErrAlreadyClaimed
		}
		return nil, err
	}

	s.notify(ctx, actor.ActorID(), message{
		Type:     model.NotifyClaim,
		TitleKey: "citizen.claim_item.notification_title",
		BodyKey:  "citizen.claim_item.notification_message",
		Params:   map[string]string{"item": found.Name},
	})
	s.logActivity(ctx, actor, "Claim Item", fmt.Sprintf("Claimed found item #%d (%s)", found.ID, found.Name))
	s.publish(ctx, events.ClaimSubmitted, actor, claim.ID, map[string]string{"found_item_id": itoa(found.ID)})

	slog.Info("claim submitted", "claim", claim.ID, "found_item", found.ID, "user", actor.ActorID())
	return claim, nil
}

// ReviewClaim approves or rejects a pending claim. Decided claims cannot be
// reviewed again.
func (s *Service) ReviewClaim(ctx context.Context, actor model.Actor, claimID int64, decision model.Decision, notes string) (*model.Claim, error) {
	if err := authorize(actor, model.CapReviewClaims); err != nil {
		return nil, err
	}

	status := model.ClaimStatusApproved
	titleKey, bodyKey, action := "police.review_claims.claim_approved_title", "police.review_claims.claim_approved_message", "Approve Claim"
	fallbacks := map[string]string{"notes": "common.no_notes"}
	switch decision {
	case model.DecisionApprove:
	case model.DecisionReject:
		status = model.ClaimStatusRejected
		titleKey, bodyKey, action = "police.review_claims.claim_rejected_title", "police.review_claims.claim_rejected_message", "Reject Claim"
		fallbacks = map[string]string{"reason": "common.no_reason_provided"}
	default:
		return nil, invalid("errors.invalid_decision")
	}
	notes = strings.TrimSpace(notes)

	claim, err := store.GetClaim(ctx, s.DB, claimID)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, ErrNotFound
	}

	ok, err := store.ReviewClaim(ctx, s.DB, claimID, status, actor.ActorID(), notes)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidState
	}

	s.notify(ctx, claim.UserID, message{
		Type:      model.NotifyClaim,
		TitleKey:  titleKey,
		BodyKey:   bodyKey,
		Params:    map[string]string{"item": claim.FoundItemName, "notes": notes, "reason": notes},
		Fallbacks: fallbacks,
	})
	s.logActivity(ctx, actor, action, fmt.Sprintf("Claim #%d for %s", claimID, claim.FoundItemName))
	s.publish(ctx, events.ClaimReviewed, actor, claimID, map[string]string{"status": status})

	return store.GetClaim(ctx, s.DB, claimID)
}

// MarkCollected records that police handed an approved claim's item over.
// Repeating it is allowed and notifies the claimant again.
func (s *Service) MarkCollected(ctx context.Context, actor model.Actor, claimID int64) (*model.Claim, error) {
	if err := authorize(actor, model.CapReviewClaims); err != nil {
		return nil, err
	}

	claim, err := store.GetClaim(ctx, s.DB, claimID)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, ErrNotFound
	}

	ok, err := store.MarkClaimCollected(ctx, s.DB, claimID, actor.ActorID())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidState
	}

	s.notify(ctx, claim.UserID, message{
		Type:     model.NotifyClaim,
		TitleKey: "police.review_claims.item_collected_title",
		BodyKey:  "police.review_claims.item_collected_message",
		Params:   map[string]string{"item": claim.FoundItemName},
	})
	s.logActivity(ctx, actor, "Item Collected", fmt.Sprintf("Claim #%d for %s", claimID, claim.FoundItemName))
	s.publish(ctx, events.ClaimCollected, actor, claimID, nil)

	return store.GetClaim(ctx, s.DB, claimID)
}

// ConfirmCollection records the citizen's receipt of a collected claim. In one
// transaction it resolves the match and returns the found item; when no
// collecting officer is recorded the match is skipped but the item is still
// marked Returned.
func (s *Service) ConfirmCollection(ctx context.Context, actor model.Actor, claimID int64) (*model.Claim, error) {
	if err := authorize(actor, model.CapClaimItems); err != nil {
		return nil, err
	}

	claim, err := store.GetClaim(ctx, s.DB, claimID)
	if err != nil {
		return nil, err
	}
	if claim == nil || claim.UserID != actor.ActorID() {
		return nil, ErrNotFound
	}

	err = store.InTx(ctx, s.DB, func(tx *sql.Tx) error {
		ok, err := store.ConfirmClaimCollection(ctx, tx, claimID, actor.ActorID())
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidState
		}

		current, err := store.GetClaim(ctx, tx, claimID)
		if err != nil {
			return err
		}

		if current.CollectedBy != nil {
			if _, err := store.CreateMatch(ctx, tx, current.LostItemID, current.FoundItemID,
				*current.CollectedBy, model.MatchStatusResolved, model.ClaimResolutionNote); err != nil {
				return err
			}
			if current.LostItemID != nil {
				if err := store.SetItemStatus(ctx, tx, model.KindLost, *current.LostItemID, model.ItemStatusResolved); err != nil {
					return err
				}
			}
		}

		if err := store.SetItemStatus(ctx, tx, model.KindFound, current.FoundItemID, model.ItemStatusReturned); err != nil {
			return err
		}

		return store.LogActivity(ctx, tx, actor.ActorID(), actor.ActorRole(), "Confirm Collection",
			fmt.Sprintf("Confirmed collection of %s (claim #%d)", current.FoundItemName, claimID), ClientIP(ctx))
	})
	if err != nil {
		if !errors.Is(err, ErrInvalidState) {
			slog.Error("confirming collection", "claim", claimID, "user", actor.ActorID(), "error", err)
		}
		return nil, err
	}

	s.publish(ctx, events.CollectionConfirmed, actor, claimID, map[string]string{"found_item_id": itoa(claim.FoundItemID)})
	return store.GetClaim(ctx, s.DB, claimID)
}

// Claims lists claims visible to the actor: a citizen's own, or all claims
// for reviewing police. An empty status matches every status.
func (s *Service) Claims(ctx context.Context, actor model.Actor, status string) ([]model.Claim, error) {
	if status != "" && !model.ValidClaimStatus(status) {
		return nil, invalid("errors.invalid_status")
	}
	f := store.ClaimFilter{Status: status}
	switch {
	case actor != nil && actor.ActorRole().Can(model.CapReviewClaims):
	case actor != nil && actor.ActorRole().Can(model.CapClaimItems):
		f.UserID = actor.ActorID()
	default:
		return nil, ErrForbidden
	}
	return store.ListClaims(ctx, s.DB, f)
}

// AwaitingHandover lists approved claims whose item police have not yet
// handed over.
func (s *Service) AwaitingHandover(ctx context.Context, actor model.Actor) ([]model.Claim, error) {
	if err := authorize(actor, model.CapReviewClaims); err != nil {
		return nil, err
	}
	collected := false
	return store.ListClaims(ctx, s.DB, store.ClaimFilter{Status: model.ClaimStatusApproved, Collected: &collected})
}

// ItemClaims lists every claim on one found item for police.
func (s *Service) ItemClaims(ctx context.Context, actor model.Actor, foundItemID int64) ([]model.Claim, error) {
	if err := authorize(actor, model.CapReviewClaims); err != nil {
		return nil, err
	}
	found, err := store.GetItem(ctx, s.DB, model.KindFound, foundItemID)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return store.ListClaims(ctx, s.DB, store.ClaimFilter{FoundItemID: foundItemID})
}

// Claim returns one claim if the actor may see it.
func (s *Service) Claim(ctx context.Context, actor model.Actor, claimID int64) (*model.Claim, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	claim, err := store.GetClaim(ctx, s.DB, claimID)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, ErrNotFound
	}
	if !actor.ActorRole().Can(model.CapReviewClaims) && claim.UserID != actor.ActorID() {
		return nil, ErrNotFound
	}
	return claim, nil
}

// ClaimedFoundItemIDs returns the found items the citizen already claimed.
func (s *Service) ClaimedFoundItemIDs(ctx context.Context, actor model.Actor) ([]int64, error) {
	if err := authorize(actor, model.CapClaimItems); err != nil {
		return nil, err
	}
	return store.ClaimedFoundItemIDs(ctx, s.DB, actor.ActorID())
}
