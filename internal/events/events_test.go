package events

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/erazemk/milaap/internal/model"
)

func TestNewEvent(t *testing.T) {
	actor := &model.Account{ID: 7, Role: model.RolePolice}
	e := New(MatchCreated, actor, 42, map[string]string{"lost_item_id": "3"})

	if _, err := uuid.Parse(e.ID); err != nil {
		t.Errorf("expected uuid id, got %q", e.ID)
	}
	if e.ActorID != 7 || e.ActorRole != model.RolePolice {
		t.Errorf("unexpected actor %d/%s", e.ActorID, e.ActorRole)
	}
	if e.SubjectID != 42 || e.Attributes["lost_item_id"] != "3" {
		t.Errorf("unexpected subject %+v", e)
	}
	if e.OccurredAt.IsZero() {
		t.Error("expected timestamp")
	}

	anon := New(AccountRegistered, nil, 1, nil)
	if anon.ActorID != 0 || anon.ActorRole != "" {
		t.Errorf("expected no actor, got %d/%s", anon.ActorID, anon.ActorRole)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	ctx := context.Background()

	r.Publish(ctx, New(ClaimSubmitted, nil, 1, nil))
	r.Publish(ctx, New(ClaimReviewed, nil, 1, nil))

	types := r.Types()
	if len(types) != 2 || types[0] != ClaimSubmitted || types[1] != ClaimReviewed {
		t.Errorf("unexpected types %v", types)
	}

	events := r.Events()
	events[0].Type = "mutated"
	if r.Events()[0].Type != ClaimSubmitted {
		t.Error("expected Events to return a copy")
	}
}
