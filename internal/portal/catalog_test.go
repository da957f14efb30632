package portal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erazemk/milaap/internal/model"
)

func TestCategoryManagement(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	bags, err := e.svc.SaveCategory(ctx, e.admin, 0, "Bags", "Bags and luggage", "")
	require.NoError(t, err)
	require.Equal(t, model.StatusActive, bags.Status)

	_, err = e.svc.SaveCategory(ctx, e.admin, 0, "Wallet", "Again", "")
	require.Equal(t, "errors.name_taken", MessageKey(err))

	bags, err = e.svc.SaveCategory(ctx, e.admin, bags.ID, "Bags", "Bags and luggage", model.StatusInactive)
	require.NoError(t, err)
	require.Equal(t, model.StatusInactive, bags.Status)

	// Citizens only see active categories.
	visible, err := e.svc.Categories(ctx, e.owner)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	all, err := e.svc.Categories(ctx, e.admin)
	require.NoError(t, err)
	require.Len(t, all, 2)

	e.report(t, e.owner, model.KindLost, "Wallet", false)
	require.ErrorIs(t, e.svc.DeleteCategory(ctx, e.admin, e.category.ID), ErrInUse)
	require.NoError(t, e.svc.DeleteCategory(ctx, e.admin, bags.ID))
	require.ErrorIs(t, e.svc.DeleteCategory(ctx, e.admin, bags.ID), ErrNotFound)

	_, err = e.svc.SaveCategory(ctx, e.police, 0, "Keys", "Keys", "")
	require.ErrorIs(t, err, ErrForbidden)
}

func TestLocationsAndStations(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	l, err := e.svc.AddLocation(ctx, e.admin, "Bus Stand")
	require.NoError(t, err)
	_, err = e.svc.AddLocation(ctx, e.admin, "race course")
	require.Equal(t, "errors.name_taken", MessageKey(err))

	require.NoError(t, e.svc.SetLocationStatus(ctx, e.admin, l.ID, model.StatusInactive))
	visible, err := e.svc.Locations(ctx, nil)
	require.NoError(t, err)
	require.Len(t, visible, 1)

	_, err = e.svc.AddStation(ctx, e.admin, "B Division", "", "")
	require.Equal(t, "errors.required_fields", MessageKey(err))
	_, err = e.svc.AddStation(ctx, e.admin, "B Division", "Bhaktinagar", "0281444555")
	require.NoError(t, err)
	stations, err := e.svc.Stations(ctx)
	require.NoError(t, err)
	require.Len(t, stations, 2)
}

func TestSettings(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	st, err := e.svc.Settings(ctx)
	require.NoError(t, err)
	require.Equal(t, "Rajkot E Milaap", st.SiteName)
	require.Equal(t, "contact@rajkotemilaap.com", st.ContactEmail)

	err = e.svc.UpdateSettings(ctx, e.admin, Settings{SiteName: "Milaap", ContactEmail: "bad"})
	require.Equal(t, "errors.invalid_email", MessageKey(err))

	require.NoError(t, e.svc.UpdateSettings(ctx, e.admin, Settings{SiteName: "Milaap", ContactEmail: "help@milaap.example"}))
	st, err = e.svc.Settings(ctx)
	require.NoError(t, err)
	require.Equal(t, Settings{SiteName: "Milaap", ContactEmail: "help@milaap.example"}, st)
}

func TestNotificationsAndDashboards(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	found := e.report(t, e.finder, model.KindFound, "Black Wallet", true)
	e.report(t, e.owner, model.KindLost, "Brown Wallet", false)
	claim := e.claim(t, found, nil)

	n, err := e.svc.UnreadCount(ctx, e.owner)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	list, err := e.svc.Notifications(ctx, e.owner, true)
	require.NoError(t, err)
	require.ErrorIs(t, e.svc.MarkNotificationRead(ctx, e.finder, list[0].ID), ErrNotFound)
	require.NoError(t, e.svc.MarkNotificationRead(ctx, e.owner, list[0].ID))
	n, _ = e.svc.UnreadCount(ctx, e.owner)
	require.Equal(t, 1, n)
	require.NoError(t, e.svc.MarkAllNotificationsRead(ctx, e.owner))
	n, _ = e.svc.UnreadCount(ctx, e.owner)
	require.Zero(t, n)

	admin, err := e.svc.AdminDashboard(ctx, e.admin)
	require.NoError(t, err)
	require.Equal(t, AdminStats{
		ActiveCitizens: 2, ActivePolice: 1,
		LostTotal: 1, LostPending: 1,
		FoundTotal: 1, FoundPending: 0,
	}, admin)

	_, err = e.svc.ReviewClaim(ctx, e.police, claim.ID, model.DecisionApprove, "ok")
	require.NoError(t, err)
	police, err := e.svc.PoliceDashboard(ctx, e.police)
	require.NoError(t, err)
	require.Equal(t, PoliceStats{AwaitingCollection: 1}, police)

	citizen, err := e.svc.CitizenDashboard(ctx, e.owner)
	require.NoError(t, err)
	require.Equal(t, CitizenStats{LostReports: 1, Claims: 1, Unread: 1}, citizen)

	_, err = e.svc.AdminDashboard(ctx, e.owner)
	require.ErrorIs(t, err, ErrForbidden)

	recent, err := e.svc.RecentActivity(ctx, e.owner, 0)
	require.NoError(t, err)
	require.Equal(t, "Claim Item", recent[0].Action)
	for _, a := range recent {
		require.Equal(t, e.owner.ID, a.AccountID)
	}
}
