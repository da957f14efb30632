package portal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/erazemk/milaap/internal/events"
	"github.com/erazemk/milaap/internal/imaging"
	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/store"
)

// SearchLimit caps search and browse results.
const SearchLimit = 100

// ReportInput is a lost or found item report.
type ReportInput struct {
	Kind        model.ItemKind
	CategoryID  int64
	LocationID  int64
	Name        string
	Description string
	Date        string
	ContactInfo string
	// CustodyRef is the police reference of a custody item. Defaults to the
	// officer's badge number.
	CustodyRef string
	// Image is an optional photo, validated and re-encoded before storage.
	Image io.Reader
}

func (s *Service) validateReport(ctx context.Context, in *ReportInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Date = strings.TrimSpace(in.Date)
	in.ContactInfo = strings.TrimSpace(in.ContactInfo)

	v := &ValidationError{}
	if _, ok := model.ParseItemKind(string(in.Kind)); !ok {
		return ErrNotFound
	}
	if in.Name == "" || in.Description == "" || in.Date == "" || in.CategoryID == 0 || in.LocationID == 0 {
		v.add("errors.required_fields")
	}
	if in.Date != "" {
		d, err := time.Parse(model.DateLayout, in.Date)
		if err != nil {
			v.add("errors.invalid_date")
		} else if d.After(s.now()) {
			v.add("errors.future_date")
		}
	}
	if in.CategoryID != 0 {
		c, err := store.GetCategory(ctx, s.DB, in.CategoryID)
		if err != nil {
			return err
		}
		if c == nil || c.Status != model.StatusActive {
			v.add("errors.invalid_category")
		}
	}
	if in.LocationID != 0 {
		l, err := store.GetLocation(ctx, s.DB, in.LocationID)
		if err != nil {
			return err
		}
		if l == nil || l.Status != model.StatusActive {
			v.add("errors.invalid_location")
		}
	}
	return v.err()
}

// saveImage validates and stores an optional upload, returning its reference.
func (s *Service) saveImage(ctx context.Context, kind model.ItemKind, r io.Reader) (string, error) {
	if r == nil {
		return "", nil
	}
	photo, err := imaging.Normalize(r)
	if errors.Is(err, imaging.ErrTooLarge) {
		return "", invalid("errors.image_too_large")
	}
	if err != nil {
		slog.Warn("rejecting upload", "kind", kind, "error", err)
		return "", invalid("errors.invalid_image")
	}
	if s.Uploads == nil {
		return "", errors.New("no upload storage configured")
	}
	return s.Uploads.Save(ctx, kind, photo.JPEG)
}

// SubmitReport files a lost or found report. Citizen reports await admin
// approval. Found items filed by police are custody items and are approved
// immediately.
func (s *Service) SubmitReport(ctx context.Context, actor model.Actor, in ReportInput) (*model.Item, error) {
	if err := authorize(actor, model.CapReportItems); err != nil {
		return nil, err
	}
	if err := s.validateReport(ctx, &in); err != nil {
		return nil, err
	}

	item := &model.Item{
		Kind:        in.Kind,
		CategoryID:  in.CategoryID,
		LocationID:  in.LocationID,
		Name:        in.Name,
		Description: in.Description,
		Date:        in.Date,
		ContactInfo: in.ContactInfo,
		Status:      model.ItemStatusPending,
	}
	id := actor.ActorID()
	action := "Report Lost"
	if in.Kind == model.KindFound {
		action = "Report Found"
	}

	switch actor.ActorRole() {
	case model.RolePolice:
		item.PoliceID = &id
		if in.Kind == model.KindFound {
			ref := strings.TrimSpace(in.CustodyRef)
			if ref == "" {
				officer, err := store.GetAccount(ctx, s.DB, id)
				if err != nil {
					return nil, err
				}
				if officer != nil {
					ref = officer.BadgeNumber
				}
			}
			item.Status = model.ItemStatusApproved
			item.ContactInfo = model.CustodyContactPrefix + ref
			action = "Upload Custody Item"
		}
	default:
		item.UserID = &id
	}

	ref, err := s.saveImage(ctx, in.Kind, in.Image)
	if err != nil {
		return nil, err
	}
	item.ImagePath = ref

	created, err := store.CreateItem(ctx, s.DB, item)
	if err != nil {
		if ref != "" {
			if derr := s.Uploads.Delete(ctx, ref); derr != nil {
				slog.Warn("removing orphaned upload", "ref", ref, "error", derr)
			}
		}
		return nil, err
	}

	if created.UserID != nil {
		s.notify(ctx, *created.UserID, message{
			Type:     model.NotifyReport,
			TitleKey: fmt.Sprintf("citizen.report_%s.notification_title", in.Kind),
			BodyKey:  fmt.Sprintf("citizen.report_%s.notification_message", in.Kind),
			Params:   map[string]string{"item": created.Name},
		})
	}
	s.logActivity(ctx, actor, action, fmt.Sprintf("%s item #%d: %s", in.Kind, created.ID, created.Name))
	s.publish(ctx, events.ReportSubmitted, actor, created.ID, map[string]string{
		"kind":   string(in.Kind),
		"status": created.Status,
	})

	return created, nil
}

// ReviewReport approves or rejects a pending report. The citizen reporter is
// notified; a rejection carries the reason.
func (s *Service) ReviewReport(ctx context.Context, actor model.Actor, kind model.ItemKind, itemID int64, decision model.Decision, reason string) (*model.Item, error) {
	if err := authorize(actor, model.CapApproveReports); err != nil {
		return nil, err
	}

	var status, verdict, action string
	switch decision {
	case model.DecisionApprove:
		status, verdict, action = model.ItemStatusApproved, "approved", "Approve"
	case model.DecisionReject:
		status, verdict, action = model.ItemStatusRejected, "rejected", "Reject"
	default:
		return nil, invalid("errors.invalid_decision")
	}
	label := "Lost"
	if kind == model.KindFound {
		label = "Found"
	}
	reason = strings.TrimSpace(reason)

	item, err := store.GetItem(ctx, s.DB, kind, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}

	ok, err := store.TransitionItemStatus(ctx, s.DB, kind, itemID, model.ItemStatusPending, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidState
	}

	if item.UserID != nil {
		prefix := fmt.Sprintf("admin.approve_%s.notification_%s", kind, verdict)
		s.notify(ctx, *item.UserID, message{
			Type:      model.NotifyAdmin,
			TitleKey:  prefix + "_title",
			BodyKey:   prefix + "_message",
			Params:    map[string]string{"item": item.Name, "reason": reason},
			Fallbacks: map[string]string{"reason": "common.no_reason_provided"},
		})
	}
	s.logActivity(ctx, actor, fmt.Sprintf("%s %s Item", action, label),
		fmt.Sprintf("%s item #%d: %s", kind, itemID, item.Name))
	s.publish(ctx, events.ReportReviewed, actor, itemID, map[string]string{
		"kind":   string(kind),
		"status": status,
	})

	return store.GetItem(ctx, s.DB, kind, itemID)
}

// Report returns one report. Unapproved reports are only visible to their
// reporter, police and administrators.
func (s *Service) Report(ctx context.Context, actor model.Actor, kind model.ItemKind, id int64) (*model.Item, error) {
	item, err := store.GetItem(ctx, s.DB, kind, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	if item.Status == model.ItemStatusApproved {
		return item, nil
	}
	if actor == nil {
		return nil, ErrNotFound
	}
	role := actor.ActorRole()
	if role == model.RolePolice || role == model.RoleAdmin {
		return item, nil
	}
	if item.UserID != nil && *item.UserID == actor.ActorID() {
		return item, nil
	}
	return nil, ErrNotFound
}

// ReportMatches returns the matches police recorded for one of the actor's
// own reports, newest first. Other reports read as not found.
func (s *Service) ReportMatches(ctx context.Context, actor model.Actor, kind model.ItemKind, id int64) ([]model.Match, error) {
	if err := authorize(actor, model.CapReportItems); err != nil {
		return nil, err
	}
	item, err := store.GetItem(ctx, s.DB, kind, id)
	if err != nil {
		return nil, err
	}
	if item == nil || !filedBy(item, actor) {
		return nil, ErrNotFound
	}

	f := store.MatchFilter{FoundItemID: id}
	if kind == model.KindLost {
		f = store.MatchFilter{LostItemID: id}
	}
	return store.ListMatches(ctx, s.DB, f)
}

// filedBy reports whether actor filed item.
func filedBy(item *model.Item, actor model.Actor) bool {
	owner := item.UserID
	if actor.ActorRole() == model.RolePolice {
		owner = item.PoliceID
	}
	return owner != nil && *owner == actor.ActorID()
}

// SearchInput filters the public search.
type SearchInput struct {
	Query      string
	CategoryID int64
	LocationID int64
}

// Search finds approved reports of one kind by name or description.
func (s *Service) Search(ctx context.Context, kind model.ItemKind, in SearchInput) ([]model.Item, error) {
	return store.ListItems(ctx, s.DB, kind, store.ItemFilter{
		Status:     model.ItemStatusApproved,
		Query:      strings.TrimSpace(in.Query),
		CategoryID: in.CategoryID,
		LocationID: in.LocationID,
		Limit:      SearchLimit,
	})
}

// MyReports lists the reports the actor filed.
func (s *Service) MyReports(ctx context.Context, actor model.Actor, kind model.ItemKind) ([]model.Item, error) {
	if err := authorize(actor, model.CapReportItems); err != nil {
		return nil, err
	}
	f := store.ItemFilter{UserID: actor.ActorID()}
	if actor.ActorRole() == model.RolePolice {
		f = store.ItemFilter{PoliceID: actor.ActorID()}
	}
	return store.ListItems(ctx, s.DB, kind, f)
}

// BrowseReports lists reports of one kind by status for police and
// administrators. An empty status matches every status.
func (s *Service) BrowseReports(ctx context.Context, actor model.Actor, kind model.ItemKind, status string) ([]model.Item, error) {
	if actor == nil || !(actor.ActorRole().Can(model.CapMatchReports) || actor.ActorRole().Can(model.CapApproveReports)) {
		return nil, ErrForbidden
	}
	if status != "" && !model.ValidItemStatus(status) {
		return nil, invalid("errors.invalid_status")
	}
	return store.ListItems(ctx, s.DB, kind, store.ItemFilter{Status: status, Limit: SearchLimit})
}

// PendingReports lists reports awaiting admin approval.
func (s *Service) PendingReports(ctx context.Context, actor model.Actor, kind model.ItemKind) ([]model.Item, error) {
	if err := authorize(actor, model.CapApproveReports); err != nil {
		return nil, err
	}
	return store.ListItems(ctx, s.DB, kind, store.ItemFilter{Status: model.ItemStatusPending})
}

// CustodyItems lists found items filed by police.
func (s *Service) CustodyItems(ctx context.Context, actor model.Actor) ([]model.Item, error) {
	if err := authorize(actor, model.CapMatchReports); err != nil {
		return nil, err
	}
	return store.ListItems(ctx, s.DB, model.KindFound, store.ItemFilter{Custody: true})
}
