package portal

import (
	"context"

	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/store"
)

// RecentActivityLimit caps dashboard activity feeds.
const RecentActivityLimit = 10

// AdminStats summarises the whole portal.
type AdminStats struct {
	ActiveCitizens int `json:"active_citizens"`
	ActivePolice   int `json:"active_police"`
	LostTotal      int `json:"lost_total"`
	LostPending    int `json:"lost_pending"`
	FoundTotal     int `json:"found_total"`
	FoundPending   int `json:"found_pending"`
	Matched        int `json:"matched"`
	Resolved       int `json:"resolved"`
}

// PoliceStats summarises the claim and custody queues for an officer.
type PoliceStats struct {
	PendingClaims      int `json:"pending_claims"`
	AwaitingCollection int `json:"awaiting_collection"`
	CustodyItems       int `json:"custody_items"`
	MyMatches          int `json:"my_matches"`
}

// CitizenStats summarises a citizen's own activity.
type CitizenStats struct {
	LostReports  int `json:"lost_reports"`
	FoundReports int `json:"found_reports"`
	Claims       int `json:"claims"`
	Unread       int `json:"unread_notifications"`
}

// counter accumulates the first error of a series of counts.
type counter struct {
	err error
}

func (c *counter) count(n *int, fn func() (int, error)) {
	if c.err != nil {
		return
	}
	*n, c.err = fn()
}

// AdminDashboard returns portal-wide statistics.
func (s *Service) AdminDashboard(ctx context.Context, actor model.Actor) (AdminStats, error) {
	var st AdminStats
	if err := authorize(actor, model.CapApproveReports); err != nil {
		return st, err
	}
	var c counter
	c.count(&st.ActiveCitizens, func() (int, error) {
		return store.CountAccounts(ctx, s.DB, model.RoleCitizen, model.StatusActive)
	})
	c.count(&st.ActivePolice, func() (int, error) {
		return store.CountAccounts(ctx, s.DB, model.RolePolice, model.StatusActive)
	})
	c.count(&st.LostTotal, func() (int, error) { return store.CountItems(ctx, s.DB, model.KindLost, "") })
	c.count(&st.LostPending, func() (int, error) {
		return store.CountItems(ctx, s.DB, model.KindLost, model.ItemStatusPending)
	})
	c.count(&st.FoundTotal, func() (int, error) { return store.CountItems(ctx, s.DB, model.KindFound, "") })
	c.count(&st.FoundPending, func() (int, error) {
		return store.CountItems(ctx, s.DB, model.KindFound, model.ItemStatusPending)
	})
	c.count(&st.Matched, func() (int, error) { return store.CountMatches(ctx, s.DB, model.MatchStatusMatched) })
	c.count(&st.Resolved, func() (int, error) { return store.CountMatches(ctx, s.DB, model.MatchStatusResolved) })
	return st, c.err
}

// PoliceDashboard returns the officer's work queues.
func (s *Service) PoliceDashboard(ctx context.Context, actor model.Actor) (PoliceStats, error) {
	var st PoliceStats
	if err := authorize(actor, model.CapReviewClaims); err != nil {
		return st, err
	}
	var c counter
	c.count(&st.PendingClaims, func() (int, error) { return store.CountClaims(ctx, s.DB, model.ClaimStatusPending) })
	c.count(&st.AwaitingCollection, func() (int, error) { return store.CountAwaitingCollection(ctx, s.DB) })
	c.count(&st.CustodyItems, func() (int, error) { return store.CountCustodyItems(ctx, s.DB) })
	c.count(&st.MyMatches, func() (int, error) { return store.CountMatchesByPolice(ctx, s.DB, actor.ActorID()) })
	return st, c.err
}

// CitizenDashboard returns the citizen's own counts.
func (s *Service) CitizenDashboard(ctx context.Context, actor model.Actor) (CitizenStats, error) {
	var st CitizenStats
	if err := authorize(actor, model.CapClaimItems); err != nil {
		return st, err
	}
	id := actor.ActorID()
	var c counter
	c.count(&st.LostReports, func() (int, error) { return store.CountItemsByUser(ctx, s.DB, model.KindLost, id) })
	c.count(&st.FoundReports, func() (int, error) { return store.CountItemsByUser(ctx, s.DB, model.KindFound, id) })
	c.count(&st.Claims, func() (int, error) { return store.CountClaimsByUser(ctx, s.DB, id) })
	c.count(&st.Unread, func() (int, error) { return store.CountUnreadNotifications(ctx, s.DB, id) })
	return st, c.err
}

// RecentActivity returns the latest audit entries. Administrators see every
// entry; others only their own.
func (s *Service) RecentActivity(ctx context.Context, actor model.Actor, limit int) ([]model.Activity, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	if limit <= 0 {
		limit = RecentActivityLimit
	}
	f := store.ActivityFilter{Limit: limit}
	if !actor.ActorRole().Can(model.CapManageAccounts) {
		f.AccountID = actor.ActorID()
	}
	return store.ListActivity(ctx, s.DB, f)
}
