package web

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erazemk/milaap/internal/auth"
	"github.com/erazemk/milaap/internal/db"
	"github.com/erazemk/milaap/internal/events"
	"github.com/erazemk/milaap/internal/i18n"
	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/portal"
	"github.com/erazemk/milaap/internal/store"
	"github.com/erazemk/milaap/internal/uploads"
)

const testJWTSecret = "test-secret"

type testSite struct {
	*httptest.Server
	svc      *portal.Service
	category *model.Category
	location *model.Location
	accounts map[model.Role]*model.Account
}

func setupSite(t *testing.T, templatesDir string) *testSite {
	t.Helper()
	database := db.NewTestDB(t)
	disk, err := uploads.NewDisk(t.TempDir())
	require.NoError(t, err)
	svc := portal.New(database, &events.Recorder{}, disk, i18n.MustLoad())

	handler, err := NewRouter(svc, Options{JWTSecret: testJWTSecret, TemplatesDir: templatesDir})
	require.NoError(t, err)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	ctx := context.Background()
	site := &testSite{Server: server, svc: svc, accounts: map[model.Role]*model.Account{}}
	site.category, err = store.CreateCategory(ctx, database, "Wallet", "Wallets and purses")
	require.NoError(t, err)
	site.location, err = store.CreateLocation(ctx, database, "Race Course")
	require.NoError(t, err)
	station, err := store.CreateStation(ctx, database, "A Division", "Jubilee Garden", "0281222333")
	require.NoError(t, err)

	hash, err := auth.HashPassword("password")
	require.NoError(t, err)
	for _, a := range []*model.Account{
		{Role: model.RoleCitizen, Name: "Asha", Email: "asha@example.com", Phone: "9876543210", Address: "Kalawad Road"},
		{Role: model.RolePolice, Name: "Officer Jadeja", Email: "jadeja@police.example", Phone: "9123456780",
			BadgeNumber: "RJK-101", StationID: &station.ID, PoliceRank: "Sub-Inspector"},
		{Role: model.RoleAdmin, Name: "Admin", Email: "admin@example.com"},
	} {
		a.PasswordHash = hash
		created, err := store.CreateAccount(ctx, database, a)
		require.NoError(t, err)
		site.accounts[a.Role] = created
	}
	return site
}

// browser keeps cookies between requests and does not follow redirects.
type browser struct {
	client *http.Client
	base   string
}

func (s *testSite) browser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		base: s.URL,
	}
}

// page is the JSON rendering of a page.
type page struct {
	Name    string          `json:"page"`
	Title   string          `json:"title"`
	Site    string          `json:"site_name"`
	Success string          `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func (b *browser) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := b.client.Get(b.base + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (b *browser) page(t *testing.T, path string) page {
	t.Helper()
	resp := b.get(t, path)
	require.Equal(t, http.StatusOK, resp.StatusCode, "GET %s", path)
	var p page
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	return p
}

// post submits a form and returns the redirect target.
func (b *browser) post(t *testing.T, path string, form url.Values) string {
	t.Helper()
	resp, err := b.client.PostForm(b.base+path, form)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode, "POST %s", path)
	return resp.Header.Get("Location")
}

func (b *browser) login(t *testing.T, site *testSite, role model.Role) {
	t.Helper()
	target := b.post(t, "/login", url.Values{
		"role": {string(role)}, "login": {site.accounts[role].Email}, "password": {"password"},
	})
	require.Equal(t, "/"+string(role), target)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(2, 2, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func TestLoginRedirectsToRoleDashboard(t *testing.T) {
	site := setupSite(t, "")
	b := site.browser(t)

	target := b.post(t, "/login", url.Values{"role": {"citizen"}, "login": {"asha@example.com"}, "password": {"wrong"}})
	require.Equal(t, "/login?role=citizen", target)
	p := b.page(t, target)
	require.Equal(t, "login", p.Name)
	require.Equal(t, "Invalid email or password.", p.Error)

	// The flash is shown once.
	require.Empty(t, b.page(t, target).Error)

	b.login(t, site, model.RoleCitizen)
	p = b.page(t, "/citizen")
	require.Equal(t, "citizen_dashboard", p.Name)
	require.Equal(t, "Rajkot E Milaap", p.Site)

	// A signed-in visitor is sent to their dashboard.
	resp := b.get(t, "/")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/citizen", resp.Header.Get("Location"))

	police := site.browser(t)
	target = police.post(t, "/login", url.Values{"role": {"police"}, "login": {"RJK-101"}, "password": {"password"}})
	require.Equal(t, "/police", target)
}

func TestRoleGuards(t *testing.T) {
	site := setupSite(t, "")
	anon := site.browser(t)

	resp := anon.get(t, "/police/claims")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login?role=police", resp.Header.Get("Location"))

	resp = anon.get(t, "/notifications")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	citizen := site.browser(t)
	citizen.login(t, site, model.RoleCitizen)
	require.Equal(t, http.StatusForbidden, citizen.get(t, "/admin").StatusCode)
	require.Equal(t, http.StatusForbidden, citizen.get(t, "/police/match").StatusCode)
}

func TestRegisterThenLogin(t *testing.T) {
	site := setupSite(t, "")
	b := site.browser(t)

	bad := url.Values{"name": {"Meera"}, "email": {"meera@example.com"}, "phone": {"123"},
		"address": {"University Road"}, "password": {"secret1"}, "confirm_password": {"secret1"}}
	require.Equal(t, "/register", b.post(t, "/register", bad))
	require.Equal(t, "Phone number must be 10 digits.", b.page(t, "/register").Error)

	good := url.Values{"name": {"Meera"}, "email": {"meera@example.com"}, "phone": {"9898989898"},
		"address": {"University Road"}, "password": {"secret1"}, "confirm_password": {"secret1"}}
	target := b.post(t, "/register", good)
	require.Equal(t, "/login?role=citizen", target)
	require.Equal(t, "Registration successful. You can now log in.", b.page(t, target).Success)

	target = b.post(t, "/login", url.Values{"role": {"citizen"}, "login": {"meera@example.com"}, "password": {"secret1"}})
	require.Equal(t, "/citizen", target)
}

func TestRegisterShowsEveryValidationError(t *testing.T) {
	site := setupSite(t, "")
	b := site.browser(t)

	form := url.Values{"name": {"Meera"}, "email": {"not-an-email"}, "phone": {"123"},
		"address": {"University Road"}, "password": {"abc"}, "confirm_password": {"abd"}}
	require.Equal(t, "/register", b.post(t, "/register", form))

	var want []string
	for _, key := range []string{
		"errors.invalid_email", "errors.invalid_phone", "errors.password_too_short", "errors.password_mismatch",
	} {
		want = append(want, site.svc.Text.T(model.LangEnglish, key, nil))
	}
	require.Equal(t, strings.Join(want, " "), b.page(t, "/register").Error)
}

func TestClaimLifecycleThroughPages(t *testing.T) {
	site := setupSite(t, "")
	ctx := context.Background()

	// Police record a custody item with a photo.
	police := site.browser(t)
	police.login(t, site, model.RolePolice)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range map[string]string{
		"category_id": id(site.category.ID), "location_id": id(site.location.ID),
		"item_name": "Black Wallet", "description": "Leather, two cards inside", "date": "2025-06-10",
		"custody_ref": "GD-42",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("image", "wallet.png")
	require.NoError(t, err)
	_, err = fw.Write(pngBytes(t))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := police.client.Post(site.URL+"/police/custody", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "Custody item recorded.", police.page(t, "/police/custody").Success)

	// The item is public and claimable.
	citizen := site.browser(t)
	citizen.login(t, site, model.RoleCitizen)
	var search struct {
		Results []model.Item   `json:"results"`
		Claimed map[string]any `json:"claimed"`
	}
	require.NoError(t, json.Unmarshal(citizen.page(t, "/search/found?q=wallet").Data, &search))
	require.Len(t, search.Results, 1)
	require.Empty(t, search.Claimed)
	found := search.Results[0]
	require.Equal(t, model.CustodyContactPrefix+"GD-42", found.ContactInfo)

	// The photo is served.
	img := citizen.get(t, "/"+found.ImagePath)
	require.Equal(t, http.StatusOK, img.StatusCode)
	require.Equal(t, "image/jpeg", img.Header.Get("Content-Type"))

	claimForm := url.Values{"found_item_id": {id(found.ID)}, "claim_reason": {"It is mine"}, "proof_description": {"Aadhaar card inside"}}
	require.Equal(t, "/citizen/claims", citizen.post(t, "/citizen/claims", claimForm))
	require.Equal(t, "Your claim has been submitted for review.", citizen.page(t, "/citizen/claims").Success)

	citizen.post(t, "/citizen/claims", claimForm)
	require.Equal(t, "You have already claimed this item.", citizen.page(t, "/citizen/claims").Error)

	claims, err := site.svc.Claims(ctx, site.accounts[model.RoleCitizen], "")
	require.NoError(t, err)
	require.Len(t, claims, 1)
	claimID := id(claims[0].ID)

	// Police approve and hand over.
	require.Equal(t, "/police/claims", police.post(t, "/police/claims", url.Values{"claim_id": {claimID}, "action": {"approve"}, "notes": {"Bring ID"}}))
	require.Equal(t, "Claim approved.", police.page(t, "/police/claims").Success)

	var listed struct {
		Claims []model.Claim `json:"claims"`
	}
	require.NoError(t, json.Unmarshal(police.page(t, "/police/claims?status=handover").Data, &listed))
	require.Len(t, listed.Claims, 1)

	police.post(t, "/police/claims", url.Values{"claim_id": {claimID}, "action": {"collected"}})
	require.Equal(t, "Item marked as collected.", police.page(t, "/police/claims?status=all").Success)

	listed.Claims = nil
	require.NoError(t, json.Unmarshal(police.page(t, "/police/claims?status=handover").Data, &listed))
	require.Empty(t, listed.Claims)
	require.NoError(t, json.Unmarshal(police.page(t, "/police/claims?found="+id(found.ID)).Data, &listed))
	require.Len(t, listed.Claims, 1)

	// The citizen confirms.
	citizen.post(t, "/citizen/claims", url.Values{"action": {"confirm"}, "claim_id": {claimID}})
	require.Equal(t, "Thank you for confirming the collection.", citizen.page(t, "/citizen/claims").Success)

	item, err := site.svc.Report(ctx, site.accounts[model.RolePolice], model.KindFound, found.ID)
	require.NoError(t, err)
	require.Equal(t, model.ItemStatusReturned, item.Status)

	// Owner notifications: claim submitted, approved, handed over.
	n, err := site.svc.UnreadCount(ctx, site.accounts[model.RoleCitizen])
	require.NoError(t, err)
	require.Equal(t, 3, n)
	citizen.post(t, "/notifications", url.Values{"action": {"read_all"}})
	n, err = site.svc.UnreadCount(ctx, site.accounts[model.RoleCitizen])
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestAdminApprovesReport(t *testing.T) {
	site := setupSite(t, "")
	ctx := context.Background()
	item, err := site.svc.SubmitReport(ctx, site.accounts[model.RoleCitizen], portal.ReportInput{
		Kind: model.KindLost, CategoryID: site.category.ID, LocationID: site.location.ID,
		Name: "Brown Wallet", Description: "Near the gate", Date: "2025-06-01",
	})
	require.NoError(t, err)

	admin := site.browser(t)
	admin.login(t, site, model.RoleAdmin)

	var pending struct {
		Items []model.Item `json:"items"`
	}
	require.NoError(t, json.Unmarshal(admin.page(t, "/admin/reports/lost").Data, &pending))
	require.Len(t, pending.Items, 1)

	admin.post(t, "/admin/reports/lost", url.Values{"id": {id(item.ID)}, "action": {"maybe"}})
	require.Equal(t, "Invalid action.", admin.page(t, "/admin/reports/lost").Error)

	admin.post(t, "/admin/reports/lost", url.Values{"id": {id(item.ID)}, "action": {"approve"}})
	require.Equal(t, "Report approved.", admin.page(t, "/admin/reports/lost").Success)

	admin.post(t, "/admin/reports/lost", url.Values{"id": {id(item.ID)}, "action": {"reject"}})
	require.Equal(t, "This action is no longer possible.", admin.page(t, "/admin/reports/lost").Error)

	require.Equal(t, http.StatusNotFound, admin.get(t, "/admin/reports/stolen").StatusCode)
}

func TestReportDetailShowsPoliceMatch(t *testing.T) {
	site := setupSite(t, "")
	ctx := context.Background()
	citizen, officer, admin := site.accounts[model.RoleCitizen], site.accounts[model.RolePolice], site.accounts[model.RoleAdmin]

	lost, err := site.svc.SubmitReport(ctx, citizen, portal.ReportInput{
		Kind: model.KindLost, CategoryID: site.category.ID, LocationID: site.location.ID,
		Name: "Brown Wallet", Description: "Near the gate", Date: "2025-06-01",
	})
	require.NoError(t, err)
	_, err = site.svc.ReviewReport(ctx, admin, model.KindLost, lost.ID, model.DecisionApprove, "")
	require.NoError(t, err)
	custody, err := site.svc.SubmitReport(ctx, officer, portal.ReportInput{
		Kind: model.KindFound, CategoryID: site.category.ID, LocationID: site.location.ID,
		Name: "Wallet", Description: "Handed in", Date: "2025-06-02",
	})
	require.NoError(t, err)
	_, err = site.svc.CreateMatch(ctx, officer, portal.MatchInput{
		AnchorKind: model.KindLost, AnchorID: lost.ID, CandidateID: custody.ID,
	})
	require.NoError(t, err)

	b := site.browser(t)
	b.login(t, site, model.RoleCitizen)
	p := b.page(t, "/citizen/reports/lost/"+id(lost.ID))
	require.Equal(t, "report_detail", p.Name)
	require.Equal(t, "Report details", p.Title)

	var data struct {
		Item    model.Item    `json:"item"`
		Matches []model.Match `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(p.Data, &data))
	require.Equal(t, "Brown Wallet", data.Item.Name)
	require.Equal(t, "Asha", data.Item.ReporterName)
	require.Len(t, data.Matches, 1)
	require.Equal(t, "Wallet", data.Matches[0].FoundItemName)
	require.Equal(t, "A Division", data.Matches[0].StationName)

	// The custody item is not the citizen's report.
	require.Equal(t, http.StatusNotFound, b.get(t, "/citizen/reports/found/"+id(custody.ID)).StatusCode)
	require.Equal(t, http.StatusNotFound, b.get(t, "/citizen/reports/lost/abc").StatusCode)
}

func TestDeactivationBlocksNewLoginsOnly(t *testing.T) {
	site := setupSite(t, "")
	citizen := site.accounts[model.RoleCitizen]

	open := site.browser(t)
	open.login(t, site, model.RoleCitizen)

	require.NoError(t, site.svc.SetAccountStatus(context.Background(),
		site.accounts[model.RoleAdmin], citizen.ID, model.StatusInactive))

	// The session issued before deactivation lasts until it expires.
	require.Equal(t, "citizen_dashboard", open.page(t, "/citizen").Name)

	fresh := site.browser(t)
	target := fresh.post(t, "/login", url.Values{"role": {"citizen"}, "login": {citizen.Email}, "password": {"password"}})
	require.Equal(t, "/login?role=citizen", target)
	require.Equal(t, site.svc.Text.T(model.LangEnglish, "errors.account_inactive", nil), fresh.page(t, target).Error)
}

func TestLanguageSwitch(t *testing.T) {
	site := setupSite(t, "")
	b := site.browser(t)

	require.Equal(t, "/login", b.post(t, "/language", url.Values{"lang": {"hi"}, "return": {"/login"}}))
	p := b.page(t, "/login")
	require.Equal(t, "लॉग इन", p.Title)

	// Only local return paths are followed.
	require.Equal(t, "/", b.post(t, "/language", url.Values{"lang": {"gu"}, "return": {"//evil.example"}}))

	b.post(t, "/language", url.Values{"lang": {"fr"}, "return": {"/login"}})
	require.NotEmpty(t, b.page(t, "/login").Error)

	// Signed-in users keep the choice on their account.
	citizen := site.browser(t)
	citizen.login(t, site, model.RoleCitizen)
	citizen.post(t, "/language", url.Values{"lang": {"gu"}, "return": {"/citizen"}})
	account, err := site.svc.Account(context.Background(), site.accounts[model.RoleCitizen])
	require.NoError(t, err)
	require.Equal(t, model.LangGujarati, account.Language)
}

func TestLogoutRevokesSession(t *testing.T) {
	site := setupSite(t, "")
	b := site.browser(t)
	b.login(t, site, model.RoleCitizen)

	siteURL, err := url.Parse(site.URL)
	require.NoError(t, err)
	var token string
	for _, c := range b.client.Jar.Cookies(siteURL) {
		if c.Name == tokenCookie {
			token = c.Value
		}
	}
	require.NotEmpty(t, token)

	require.Equal(t, "/login", b.post(t, "/logout", nil))

	// Replaying the old cookie no longer works.
	req, err := http.NewRequest(http.MethodGet, site.URL+"/citizen", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: tokenCookie, Value: token})
	resp, err := (&http.Client{CheckRedirect: b.client.CheckRedirect}).Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login?role=citizen", resp.Header.Get("Location"))
}

func TestUploadRejectsUnknownNames(t *testing.T) {
	site := setupSite(t, "")
	b := site.browser(t)
	require.Equal(t, http.StatusNotFound, b.get(t, "/uploads/found/passwd").StatusCode)
	require.Equal(t, http.StatusNotFound, b.get(t, "/uploads/found/0b5e4b9e-3f7a-4f55-8f0f-1f2e3d4c5b6a.jpg").StatusCode)
	require.Equal(t, http.StatusNotFound, b.get(t, "/uploads/stolen/0b5e4b9e-3f7a-4f55-8f0f-1f2e3d4c5b6a.jpg").StatusCode)
}

func TestHTMLTemplates(t *testing.T) {
	site := setupSite(t, "../../templates")
	b := site.browser(t)

	resp := b.get(t, "/login?role=police")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	html, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(html), "<title>Log in | Rajkot E Milaap</title>")
	require.Contains(t, string(html), "badge number")

	b.login(t, site, model.RoleCitizen)
	resp = b.get(t, "/citizen/report/lost")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	html, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(html), "Race Course"), "location options are listed")
}
