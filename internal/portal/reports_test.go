package portal

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erazemk/milaap/internal/events"
	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/store"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSubmitReportValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   ReportInput
		want string
	}{
		{"missing fields", ReportInput{Kind: model.KindLost}, "errors.required_fields"},
		{"bad date", ReportInput{Kind: model.KindLost, CategoryID: e.category.ID, LocationID: e.location.ID,
			Name: "Phone", Description: "Black", Date: "15/06/2025"}, "errors.invalid_date"},
		{"future date", ReportInput{Kind: model.KindLost, CategoryID: e.category.ID, LocationID: e.location.ID,
			Name: "Phone", Description: "Black", Date: "2025-06-16"}, "errors.future_date"},
		{"unknown category", ReportInput{Kind: model.KindLost, CategoryID: 999, LocationID: e.location.ID,
			Name: "Phone", Description: "Black", Date: "2025-06-15"}, "errors.invalid_category"},
		{"not an image", ReportInput{Kind: model.KindFound, CategoryID: e.category.ID, LocationID: e.location.ID,
			Name: "Phone", Description: "Black", Date: "2025-06-15", Image: strings.NewReader("plain text")}, "errors.invalid_image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.SubmitReport(ctx, e.owner, tt.in)
			require.Error(t, err)
			require.Equal(t, tt.want, MessageKey(err))
		})
	}

	n, err := store.CountItems(ctx, e.db, model.KindLost, "")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestSubmitReportInactiveCategory(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, store.UpdateCategory(ctx, e.db, e.category.ID, "Wallet", "Wallets", model.StatusInactive))

	_, err := e.svc.SubmitReport(ctx, e.owner, ReportInput{Kind: model.KindLost, CategoryID: e.category.ID,
		LocationID: e.location.ID, Name: "Wallet", Description: "Brown", Date: "2025-06-15"})
	require.Equal(t, "errors.invalid_category", MessageKey(err))
}

func TestCitizenReportIsPending(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	item, err := e.svc.SubmitReport(ctx, e.finder, ReportInput{
		Kind: model.KindFound, CategoryID: e.category.ID, LocationID: e.location.ID,
		Name: "Black Wallet", Description: "Leather", Date: "2025-06-15", ContactInfo: "9876500000",
		Image: bytes.NewReader(pngBytes(t)),
	})
	require.NoError(t, err)
	require.Equal(t, model.ItemStatusPending, item.Status)
	require.NotNil(t, item.UserID)
	require.Equal(t, e.finder.ID, *item.UserID)
	require.True(t, strings.HasPrefix(item.ImagePath, "uploads/found/"), "image path %q", item.ImagePath)

	rc, err := e.svc.Uploads.Open(ctx, item.ImagePath)
	require.NoError(t, err)
	rc.Close()

	require.Equal(t, []string{"Found item reported"}, e.notifications(t, e.finder))
	require.Equal(t, []string{events.ReportSubmitted}, e.events.Types())

	activity, err := store.ListActivity(ctx, e.db, store.ActivityFilter{AccountID: e.finder.ID})
	require.NoError(t, err)
	require.Len(t, activity, 1)
	require.Equal(t, "Report Found", activity[0].Action)
}

func TestPoliceCustodyItemIsApproved(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	item, err := e.svc.SubmitReport(ctx, e.police, ReportInput{
		Kind: model.KindFound, CategoryID: e.category.ID, LocationID: e.location.ID,
		Name: "Blue Bag", Description: "Left at the bus stand", Date: "2025-06-14",
	})
	require.NoError(t, err)
	require.Equal(t, model.ItemStatusApproved, item.Status)
	require.Nil(t, item.UserID)
	require.Equal(t, model.CustodyContactPrefix+"RJK-101", item.ContactInfo)

	custody, err := e.svc.CustodyItems(ctx, e.police)
	require.NoError(t, err)
	require.Len(t, custody, 1)

	// Officers have no inbox entry for their own uploads.
	require.Empty(t, e.notifications(t, e.police))
}

func TestApproveFoundReportNotifiesReporter(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	item := e.report(t, e.finder, model.KindFound, "Black Wallet", false)

	approved, err := e.svc.ReviewReport(ctx, e.admin, model.KindFound, item.ID, model.DecisionApprove, "")
	require.NoError(t, err)
	require.Equal(t, model.ItemStatusApproved, approved.Status)

	titles := e.notifications(t, e.finder)
	require.Equal(t, "Found item report approved", titles[0])

	list, err := store.ListNotifications(ctx, e.db, e.finder.ID, false, 1)
	require.NoError(t, err)
	require.Equal(t, model.NotifyAdmin, list[0].Type)
	require.Contains(t, list[0].Message, "Black Wallet")

	_, err = e.svc.ReviewReport(ctx, e.admin, model.KindFound, item.ID, model.DecisionReject, "duplicate")
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestRejectReportIncludesReason(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	withReason := e.report(t, e.owner, model.KindLost, "Red Umbrella", false)
	_, err := e.svc.ReviewReport(ctx, e.admin, model.KindLost, withReason.ID, model.DecisionReject, "Not enough detail")
	require.NoError(t, err)

	withoutReason := e.report(t, e.owner, model.KindLost, "Green Bottle", false)
	_, err = e.svc.ReviewReport(ctx, e.admin, model.KindLost, withoutReason.ID, model.DecisionReject, "  ")
	require.NoError(t, err)

	// Newest first: each report has a submission and a rejection notice.
	list, err := store.ListNotifications(ctx, e.db, e.owner.ID, false, 0)
	require.NoError(t, err)
	require.Len(t, list, 4)
	require.Equal(t, "Lost item report rejected", list[0].Title)
	require.Contains(t, list[0].Message, "No reason provided")
	require.Contains(t, list[2].Message, "Not enough detail")
}

func TestNotificationUsesRecipientLanguage(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.svc.SetLanguage(ctx, e.finder, model.LangGujarati))

	item := e.report(t, e.finder, model.KindFound, "Black Wallet", true)
	require.Equal(t, model.ItemStatusApproved, item.Status)

	titles := e.notifications(t, e.finder)
	require.Equal(t, e.svc.Text.T(model.LangGujarati, "admin.approve_found.notification_approved_title", nil), titles[0])
	require.NotEqual(t, "Found item report approved", titles[0])
}

func TestReportVisibility(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pending := e.report(t, e.owner, model.KindLost, "Watch", false)

	_, err := e.svc.Report(ctx, e.finder, model.KindLost, pending.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = e.svc.Report(ctx, nil, model.KindLost, pending.ID)
	require.ErrorIs(t, err, ErrNotFound)

	got, err := e.svc.Report(ctx, e.owner, model.KindLost, pending.ID)
	require.NoError(t, err)
	require.Equal(t, "Watch", got.Name)
	_, err = e.svc.Report(ctx, e.police, model.KindLost, pending.ID)
	require.NoError(t, err)

	results, err := e.svc.Search(ctx, model.KindLost, SearchInput{Query: "watch"})
	require.NoError(t, err)
	require.Empty(t, results)

	_, err = e.svc.ReviewReport(ctx, e.admin, model.KindLost, pending.ID, model.DecisionApprove, "")
	require.NoError(t, err)
	results, err = e.svc.Search(ctx, model.KindLost, SearchInput{Query: "watch"})
	require.NoError(t, err)
	require.Len(t, results, 1)
}
