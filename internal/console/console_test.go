package console

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"numis/console/internal/api"
	"numis/console/internal/audit"
	auditdomain "numis/console/internal/audit/domain"
	auditservice "numis/console/internal/audit/service"
	coindomain "numis/console/internal/coin/domain"
	coinrepo "numis/console/internal/coin/repository"
	dashboarddomain "numis/console/internal/dashboard/domain"
	identitydomain "numis/console/internal/identity/domain"
	identityservice "numis/console/internal/identity/service"
	"numis/console/internal/mfa"
	mfadomain "numis/console/internal/mfa/domain"
	"numis/console/internal/security"
	"numis/console/internal/session"
	sessiondomain "numis/console/internal/session/domain"
	sessionrepo "numis/console/internal/session/repository"
	userdomain "numis/console/internal/user/domain"
)

type fakeAuth struct {
	mfa   bool
	code  string
	token string
}

func (a *fakeAuth) Login(_ context.Context, email, password string) (*identitydomain.LoginResult, error) {
	if password != "secret" {
		return nil, &api.Error{StatusCode: 401, Detail: "Incorrect email or password"}
	}
	if a.mfa {
		return &identitydomain.LoginResult{MFARequired: true}, nil
	}
	return &identitydomain.LoginResult{Token: &identitydomain.Token{AccessToken: a.token}}, nil
}

func (a *fakeAuth) LoginMFA(_ context.Context, _, _, code string) (*identitydomain.Token, error) {
	if code != a.code {
		return nil, &api.Error{StatusCode: 401, Detail: "Invalid MFA code"}
	}
	return &identitydomain.Token{AccessToken: a.token}, nil
}

type fakeCoins struct {
	mu       sync.Mutex
	coins    map[int64]*coindomain.Coin
	created  []coindomain.Input
	updated  []coindomain.Input
	deleted  []int64
	adjusted []coindomain.Adjustment
	imported []string
	exported []coindomain.ExportFormat
}

func newFakeCoins() *fakeCoins {
	return &fakeCoins{coins: map[int64]*coindomain.Coin{
		7: {ID: 7, Title: "Brazil 1 Real 1998", Country: "Brazil", FaceValue: "1 Real", Year: 1998, Quantity: 2,
			Originality: coindomain.OriginalityOriginal},
	}}
}

func (f *fakeCoins) List(_ context.Context, _ coindomain.Filter) (*coindomain.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &coindomain.Page{Meta: coindomain.PageMeta{Page: 1, PageSize: 20, TotalPages: 1}}
	for _, c := range f.coins {
		p.Data = append(p.Data, *c)
	}
	p.Meta.TotalItems = len(p.Data)
	return p, nil
}

func (f *fakeCoins) Get(_ context.Context, id int64) (*coindomain.Coin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.coins[id]
	if !ok {
		return nil, &api.Error{StatusCode: 404, Detail: "Coin not found"}
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCoins) Create(_ context.Context, in coindomain.Input, _, _ *coinrepo.Image) (*coindomain.Coin, error) {
	if err := in.ValidateCreate(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	c := &coindomain.Coin{ID: 8, Title: *in.Title, Country: *in.Country, FaceValue: *in.FaceValue, Year: *in.Year}
	f.coins[c.ID] = c
	return c, nil
}

func (f *fakeCoins) Update(_ context.Context, id int64, in coindomain.Input, _, _ *coinrepo.Image) (*coindomain.Coin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, in)
	c := f.coins[id]
	if in.Country != nil {
		c.Country = *in.Country
	}
	return c, nil
}

func (f *fakeCoins) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	delete(f.coins, id)
	return nil
}

func (f *fakeCoins) Adjust(_ context.Context, id int64, a coindomain.Adjustment) (*coindomain.Coin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adjusted = append(f.adjusted, a)
	c := f.coins[id]
	c.Quantity += a.Delta
	cp := *c
	return &cp, nil
}

func (f *fakeCoins) ImportFile(_ context.Context, path string) (*coindomain.ImportResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imported = append(f.imported, path)
	return &coindomain.ImportResult{Inserted: 3, Errors: 1}, nil
}

func (f *fakeCoins) ExportTo(_ context.Context, format coindomain.ExportFormat, dir string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exported = append(f.exported, format)
	return filepath.Join(dir, "coins."+string(format)), nil
}

type fakeSummaries struct{}

func (fakeSummaries) Summary(context.Context) (*dashboarddomain.Summary, error) {
	return &dashboarddomain.Summary{
		TotalCoins:          1234,
		TotalCountries:      2,
		TotalOriginals:      1000,
		TotalReplicas:       200,
		TotalEstimatedValue: decimal.RequireFromString("98765.4"),
		ByCountry:           []dashboarddomain.CountryCount{{Country: "Brazil", Count: 1200}, {Country: "Peru", Count: 34}},
		ByOriginality:       []dashboarddomain.OriginalityCount{{Originality: coindomain.OriginalityReplica, Count: 200}},
	}, nil
}

type fakeTrail struct{}

func (fakeTrail) List(_ context.Context, f auditdomain.Filter) (*auditservice.Page, error) {
	var before, after auditdomain.Object
	if err := json.Unmarshal([]byte(`{"quantity":1}`), &before); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(`{"quantity":3,"note":"restock"}`), &after); err != nil {
		return nil, err
	}
	delta := 2
	rec := auditdomain.AuditLog{ID: 11, Action: auditdomain.ActionAdjustIn, DeltaQuantity: &delta,
		Before: before, After: after, Note: "restock", ActorEmail: "ana@example.com"}
	return &auditservice.Page{
		Entries: []auditservice.Entry{{Record: rec, Changes: audit.Changes(&rec)}},
		Meta:    auditdomain.PageMeta{Page: 1, PageSize: 20, TotalItems: 1, TotalPages: 1},
	}, nil
}

type fakeMFA struct {
	enabled  bool
	verified []string
}

func (m *fakeMFA) Status(context.Context) (*mfadomain.Status, error) {
	return &mfadomain.Status{Email: "ana@example.com", Enabled: m.enabled}, nil
}

func (m *fakeMFA) Setup(context.Context) (*mfadomain.Enrollment, error) {
	return &mfadomain.Enrollment{
		URI:     "otpauth://totp/Numis:ana@example.com?secret=JBSWY3DPEHPK3PXP&issuer=Numis",
		Issuer:  "Numis",
		Account: "ana@example.com",
		Secret:  "JBSWY3DPEHPK3PXP",
	}, nil
}

func (m *fakeMFA) Verify(_ context.Context, code string) (string, error) {
	code, err := mfa.CheckCode(code)
	if err != nil {
		return "", err
	}
	m.verified = append(m.verified, code)
	return "MFA enabled successfully", nil
}

func (m *fakeMFA) Disable(context.Context, string) (string, error) {
	return "MFA disabled", nil
}

type fakeUsers struct{}

func (fakeUsers) Me(context.Context) (*userdomain.User, error) {
	return &userdomain.User{ID: 5, Email: "ana@example.com", DisplayName: "Ana"}, nil
}

type consoleFixture struct {
	console *Console
	store   *session.Store
	coins   *fakeCoins
	mfa     *fakeMFA
	out     *bytes.Buffer
	in      *ScriptedPrompter
}

func newConsoleFixture(t *testing.T, auth *fakeAuth, answers ...string) *consoleFixture {
	t.Helper()
	store := session.NewStore(sessionrepo.NewMemoryStore(), nil)
	store.Init(context.Background())
	return newConsoleFixtureWithStore(t, store, auth, answers...)
}

// newConsoleFixtureWithStore leaves store as given, so tests can drive its Init.
func newConsoleFixtureWithStore(t *testing.T, store *session.Store, auth *fakeAuth, answers ...string) *consoleFixture {
	t.Helper()
	if auth.token == "" {
		auth.token = security.NewTestToken("5", time.Hour)
	}
	f := &consoleFixture{
		store: store,
		coins: newFakeCoins(),
		mfa:   &fakeMFA{},
		out:   &bytes.Buffer{},
		in:    NewScriptedPrompter(answers...),
	}
	flow := identityservice.NewAuthFlow(auth, store, nil, nil, 0)
	scr := NewScreen(f.out, f.in, testPresenter(), "")
	f.console = New(Deps{
		Flow:      flow,
		Sessions:  store,
		Access:    adminAccess{},
		Coins:     f.coins,
		Summaries: fakeSummaries{},
		Audit:     fakeTrail{},
		MFA:       f.mfa,
		Users:     fakeUsers{},
		QRDir:     t.TempDir(),
	}, scr)
	return f
}

func (f *consoleFixture) signIn(t *testing.T) {
	t.Helper()
	if err := f.store.Establish(context.Background(), security.NewTestToken("5", time.Hour)); err != nil {
		t.Fatal(err)
	}
}

func (f *consoleFixture) run(t *testing.T, start string) string {
	t.Helper()
	if err := f.console.Run(context.Background(), start); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return f.out.String()
}

func TestConsole_LoginWithSecondFactorReturnsToNext(t *testing.T) {
	f := newConsoleFixture(t, &fakeAuth{mfa: true, code: "123456"},
		"ana@example.com", "secret", "12345", "654321", "123 456")
	out := f.run(t, "/admin/coins")

	if !f.store.Snapshot().Authenticated {
		t.Fatal("not authenticated")
	}
	if !strings.Contains(out, "Invalid input: totp_code: must be 6 digits") {
		t.Errorf("malformed code not reported: %q", out)
	}
	if !strings.Contains(out, "Invalid MFA code") {
		t.Errorf("rejected code not reported: %q", out)
	}
	if !strings.Contains(out, "Manage coins") {
		t.Errorf("did not land on the requested page: %q", out)
	}
	if got := f.console.Navigator().History().Entries(); len(got) != 1 || got[0] != "/admin/coins" {
		t.Errorf("history = %v", got)
	}
}

func TestConsole_LoginWithoutNextLandsOnDashboard(t *testing.T) {
	f := newConsoleFixture(t, &fakeAuth{}, "ana@example.com", "secret")
	out := f.run(t, "/admin/login?next=%2Fcoins%2F7")
	if !strings.Contains(out, "Dashboard") || !strings.Contains(out, "1,234") {
		t.Errorf("dashboard not shown: %q", out)
	}
	if !strings.Contains(out, "$ 98,765.40") {
		t.Errorf("estimated value not formatted: %q", out)
	}
	if cur := f.console.Navigator().Current(); cur != DefaultLanding {
		t.Errorf("current = %q", cur)
	}
}

func TestConsole_LoginFailureStaysAnonymous(t *testing.T) {
	f := newConsoleFixture(t, &fakeAuth{}, "ana@example.com", "wrong")
	out := f.run(t, "/admin/login")
	if f.store.Snapshot().Authenticated {
		t.Fatal("authenticated after bad password")
	}
	if !strings.Contains(out, "! Incorrect email or password") {
		t.Errorf("output = %q", out)
	}
}

func loadingStore(t *testing.T) (*session.Store, *sessionrepo.MemoryStore) {
	t.Helper()
	repo := sessionrepo.NewMemoryStore()
	if err := repo.Put(context.Background(), sessiondomain.TokenKey, security.NewTestToken("5", time.Hour)); err != nil {
		t.Fatal(err)
	}
	return session.NewStore(repo, nil), repo
}

func TestConsole_LoginPageWaitsForStoredSession(t *testing.T) {
	store, _ := loadingStore(t)
	f := newConsoleFixtureWithStore(t, store, &fakeAuth{})

	done := make(chan error, 1)
	go func() { done <- f.console.Open(context.Background(), "/admin/login") }()
	store.Init(context.Background())
	if err := <-done; err != nil {
		t.Fatalf("Open: %v\n%s", err, f.out.String())
	}
	if !strings.Contains(f.out.String(), "You are already signed in.") {
		t.Errorf("output = %q", f.out.String())
	}
	if len(f.in.Asked) != 0 {
		t.Errorf("prompted %v with a stored session", f.in.Asked)
	}
}

func TestConsole_LogoutWhileLoadingStaysSignedOut(t *testing.T) {
	store, repo := loadingStore(t)
	f := newConsoleFixtureWithStore(t, store, &fakeAuth{})

	done := make(chan error, 1)
	go func() { done <- f.console.Logout(context.Background()) }()
	store.Init(context.Background())
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if store.Snapshot().Authenticated || store.Token() != "" {
		t.Errorf("snapshot after logout = %+v", store.Snapshot())
	}
	if _, ok, _ := repo.Get(context.Background(), sessiondomain.TokenKey); ok {
		t.Error("token still persisted")
	}
}

func TestConsole_PausedSecondFactorCancelledOnLeave(t *testing.T) {
	auth := &fakeAuth{mfa: true, code: "123456"}
	f := newConsoleFixture(t, auth, "ana@example.com", "secret", "", "/")
	f.run(t, "/admin/login")
	if got := f.console.deps.Flow.State(); got != identitydomain.StateAnonymous {
		t.Errorf("state after leaving login = %v, want anonymous", got)
	}
}

func TestConsole_GalleryAndDetail(t *testing.T) {
	f := newConsoleFixture(t, &fakeAuth{}, "/coins/7", "/coins/99", "exit", "never read")
	out := f.run(t, "/")
	for _, want := range []string{"Coin gallery", "Brazil 1 Real 1998", "2 available", "Original", "does not exist"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if f.in.Remaining() != 1 {
		t.Errorf("exit did not stop the shell")
	}
}

func TestConsole_CreateCoinValidatesBeforeSending(t *testing.T) {
	blank := make([]string, 14)
	answers := append([]string{}, blank...)
	answers = append(answers, "open /admin/coins/new",
		"Brazil", "1 Real", "1998", "", "2", "original", "", "", "10,50", "", "2020-05-01", "", "", "",
		"", "")
	f := newConsoleFixture(t, &fakeAuth{}, answers...)
	f.signIn(t)
	out := f.run(t, "/admin/coins/new")

	if !strings.Contains(out, "Invalid input: country: is required; face_value: is required; year: is required") {
		t.Errorf("missing validation message: %q", out)
	}
	if len(f.coins.created) != 1 {
		t.Fatalf("created = %d, want 1", len(f.coins.created))
	}
	in := f.coins.created[0]
	if *in.Title != "Brazil 1 Real 1998" || *in.Quantity != 2 || !in.PurchasePrice.Equal(decimal.RequireFromString("10.5")) {
		t.Errorf("input = title %q qty %d price %s", *in.Title, *in.Quantity, in.PurchasePrice)
	}
	if in.AcquisitionDate == nil || in.AcquisitionDate.Format("2006-01-02") != "2020-05-01" {
		t.Errorf("acquisition date = %v", in.AcquisitionDate)
	}
	if in.Condition != nil {
		t.Errorf("blank condition was sent")
	}
	if cur := f.console.Navigator().Current(); cur != adminCoinsPath {
		t.Errorf("current = %q", cur)
	}
}

func TestConsole_EditMissingCoinReturnsToList(t *testing.T) {
	f := newConsoleFixture(t, &fakeAuth{})
	f.signIn(t)
	out := f.run(t, "/admin/coins/edit/99")
	if !strings.Contains(out, "Coin #99 was not found.") {
		t.Errorf("output = %q", out)
	}
	if cur := f.console.Navigator().Current(); cur != adminCoinsPath {
		t.Errorf("current = %q", cur)
	}
	if len(f.coins.updated) != 0 {
		t.Error("update sent for a missing coin")
	}
}

func TestConsole_EditKeepsBlankFields(t *testing.T) {
	answers := []string{"Peru"}
	answers = append(answers, make([]string, 13)...)
	answers = append(answers, "", "")
	f := newConsoleFixture(t, &fakeAuth{}, answers...)
	f.signIn(t)
	f.run(t, "/admin/coins/edit/7")
	if len(f.coins.updated) != 1 {
		t.Fatalf("updated = %d", len(f.coins.updated))
	}
	in := f.coins.updated[0]
	if in.Country == nil || *in.Country != "Peru" || in.FaceValue != nil || in.Year != nil {
		t.Errorf("update = %+v", in)
	}
}

func TestConsole_DeleteNeedsConfirmation(t *testing.T) {
	f := newConsoleFixture(t, &fakeAuth{}, "n", "/admin/coins/delete/7", "yes")
	f.signIn(t)
	f.run(t, "/admin/coins/delete/7")
	if len(f.coins.deleted) != 1 || f.coins.deleted[0] != 7 {
		t.Errorf("deleted = %v", f.coins.deleted)
	}
}

func TestConsole_Adjust(t *testing.T) {
	f := newConsoleFixture(t, &fakeAuth{}, "+3", " restock ")
	f.signIn(t)
	out := f.run(t, "/admin/coins/adjust/7")
	if len(f.coins.adjusted) != 1 || f.coins.adjusted[0].Delta != 3 {
		t.Fatalf("adjusted = %v", f.coins.adjusted)
	}
	if !strings.Contains(out, "is now 5.") {
		t.Errorf("output = %q", out)
	}
}

func TestConsole_ImportAndExport(t *testing.T) {
	f := newConsoleFixture(t, &fakeAuth{}, "/admin/coins/export?format=csv&dir=/tmp/out")
	f.signIn(t)
	out := f.run(t, "/admin/coins/import?file=coins.csv")
	if len(f.coins.imported) != 1 || f.coins.imported[0] != "coins.csv" {
		t.Errorf("imported = %v", f.coins.imported)
	}
	if !strings.Contains(out, "Imported 3 coins.") || !strings.Contains(out, "1 rows could not be imported.") {
		t.Errorf("import output = %q", out)
	}
	if len(f.coins.exported) != 1 || f.coins.exported[0] != coindomain.ExportCSV {
		t.Errorf("exported = %v", f.coins.exported)
	}
	if !strings.Contains(out, "Wrote "+filepath.Join("/tmp/out", "coins.csv")) {
		t.Errorf("export output = %q", out)
	}
}

func TestConsole_AuditLog(t *testing.T) {
	f := newConsoleFixture(t, &fakeAuth{})
	f.signIn(t)
	out := f.run(t, "/admin/audit-logs?action=adjust-in")
	for _, want := range []string{"ADJUST IN", "ana@example.com", "+2", "Quantity", "note", "restock"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}

func TestConsole_AuditLogBadFilter(t *testing.T) {
	f := newConsoleFixture(t, &fakeAuth{})
	f.signIn(t)
	out := f.run(t, "/admin/audit-logs?date_from=yesterday")
	if !strings.Contains(out, "Invalid input: date_from") {
		t.Errorf("output = %q", out)
	}
}

func TestConsole_EnableSecondFactor(t *testing.T) {
	f := newConsoleFixture(t, &fakeAuth{}, "y", "12", "123456")
	f.signIn(t)
	out := f.run(t, "/admin/security")
	if len(f.mfa.verified) != 1 || f.mfa.verified[0] != "123456" {
		t.Fatalf("verified = %v", f.mfa.verified)
	}
	if !strings.Contains(out, "JBSWY3DPEHPK3PXP") || !strings.Contains(out, "MFA enabled successfully") {
		t.Errorf("output = %q", out)
	}
	qr := filepath.Join(f.console.deps.QRDir, "numis-mfa-qr.png")
	if fi, err := os.Stat(qr); err != nil || fi.Size() == 0 {
		t.Errorf("qr not written: %v", err)
	}
}

func TestConsole_WhoamiAndLogout(t *testing.T) {
	f := newConsoleFixture(t, &fakeAuth{}, "whoami", "logout", "whoami", "bogus", "back")
	f.signIn(t)
	out := f.run(t, "")
	if !strings.Contains(out, "Ana") || !strings.Contains(out, "Signed out.") || !strings.Contains(out, "Not signed in.") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "Unknown command bogus") || !strings.Contains(out, "Nothing to go back to.") {
		t.Errorf("output = %q", out)
	}
	if f.store.Snapshot().Authenticated {
		t.Error("still authenticated")
	}
}
