// Package console renders the catalog client as a text console: a router of pages, a navigator
// that applies the route guard on every navigation, and an interactive shell.
package console

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"numis/console/internal/platform/guard"
	"numis/console/internal/policy/engine"
	sessiondomain "numis/console/internal/session/domain"
	"numis/console/internal/telemetry"
	userdomain "numis/console/internal/user/domain"
)

// UserReader returns the signed-in account.
type UserReader interface {
	Me(ctx context.Context) (*userdomain.User, error)
}

// Deps are the collaborators of a Console. Emitter and Logger may be nil.
type Deps struct {
	Flow      LoginFlow
	Sessions  SessionView
	Access    engine.RouteAccess
	Coins     CoinManager
	Summaries Summaries
	Audit     AuditTrail
	MFA       SecondFactor
	Users     UserReader
	// QRDir receives the enrollment QR image.
	QRDir   string
	Emitter telemetry.EventEmitter
	Logger  *zap.Logger
}

// Console is the navigable client.
type Console struct {
	deps   Deps
	screen *Screen
	router *Router
	nav    *Navigator
	logger *zap.Logger
}

// New builds the route table and navigator.
func New(d Deps, scr *Screen) *Console {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	c := &Console{deps: d, screen: scr, logger: d.Logger}
	c.router = c.routes()
	c.nav = NewNavigator(c.router, guard.New(d.Access, d.Logger), d.Sessions, scr, d.Emitter, d.Logger)
	return c
}

func (c *Console) routes() *Router {
	d := c.deps
	r := NewRouter()
	r.Handle("/", "Gallery", &galleryView{coins: d.Coins})
	r.Handle("/coins/:id", "Coin", &coinView{coins: d.Coins})
	login := r.Handle(engine.LoginPath, "Sign in", &loginView{flow: d.Flow, sessions: d.Sessions, access: d.Access, logger: d.Logger})
	login.OnLeave = d.Flow.Cancel
	r.Handle("/admin", "Admin", HandlerFunc(func(_ context.Context, _ *Request, scr *Screen) error {
		scr.RedirectReplace(DefaultLanding)
		return nil
	}))
	r.Handle("/admin/dashboard", "Dashboard", &dashboardView{summaries: d.Summaries})
	r.Handle("/admin/coins", "Manage coins", &coinsView{coins: d.Coins})
	r.Handle("/admin/coins/new", "New coin", &coinFormView{coins: d.Coins})
	r.Handle("/admin/coins/edit/:id", "Edit coin", &coinFormView{coins: d.Coins, edit: true})
	r.Handle("/admin/coins/delete/:id", "Delete coin", &coinDeleteView{coins: d.Coins})
	r.Handle("/admin/coins/adjust/:id", "Adjust quantity", &coinAdjustView{coins: d.Coins})
	r.Handle("/admin/coins/import", "Import coins", &coinImportView{coins: d.Coins})
	r.Handle("/admin/coins/export", "Export coins", &coinExportView{coins: d.Coins})
	r.Handle("/admin/audit-logs", "Audit log", &auditView{trail: d.Audit})
	r.Handle("/admin/security", "Security", &securityView{mfa: d.MFA, qrDir: d.QRDir, logger: d.Logger})
	return r
}

// Navigator returns the console's navigator.
func (c *Console) Navigator() *Navigator { return c.nav }

// Open navigates to target.
func (c *Console) Open(ctx context.Context, target string) error {
	return c.nav.Open(ctx, target)
}

// Whoami prints the signed-in account.
func (c *Console) Whoami(ctx context.Context) error {
	snap, err := waitLoaded(ctx, c.deps.Sessions)
	if err != nil {
		return err
	}
	if !snap.Authenticated {
		c.screen.Notice("Not signed in.")
		return nil
	}
	u, err := c.deps.Users.Me(ctx)
	if err != nil {
		c.screen.Error(DescribeError(err))
		return err
	}
	c.screen.Field("Name", u.Name())
	c.screen.Field("Email", u.Email)
	mfa := "disabled"
	if u.IsMFAEnabled {
		mfa = "enabled"
	}
	c.screen.Field("Two-factor", mfa)
	if id := snap.Identity; id != nil && !id.ExpiresAt.IsZero() {
		c.screen.Field("Session expires", id.ExpiresAt.Local().Format(c.screen.DateLayout))
		if id.Expired(time.Now()) {
			c.screen.Notice("The session token has expired. Sign in again.")
		}
	}
	return nil
}

// Logout ends the session.
func (c *Console) Logout(ctx context.Context) error {
	if _, err := waitLoaded(ctx, c.deps.Sessions); err != nil {
		return err
	}
	if err := c.deps.Flow.Logout(ctx); err != nil {
		c.screen.Error(DescribeError(err))
		return err
	}
	c.screen.Notice("Signed out.")
	return nil
}

// waitLoaded returns the session snapshot once the persisted session has been read.
func waitLoaded(ctx context.Context, sessions SessionView) (sessiondomain.Snapshot, error) {
	snap := sessions.Snapshot()
	if !snap.Loading {
		return snap, nil
	}
	select {
	case <-sessions.Ready():
	case <-ctx.Done():
		return snap, ctx.Err()
	}
	return sessions.Snapshot(), nil
}

// Help lists the shell commands and pages.
func (c *Console) Help() {
	c.screen.Println("Commands: open <path>, <path>, back, login, logout, whoami, help, exit")
	rows := make([][]string, 0, len(c.router.Routes()))
	for _, rt := range c.router.Routes() {
		rows = append(rows, []string{rt.Pattern, rt.Title})
	}
	c.screen.Table([]string{"PATH", "PAGE"}, rows)
}

// Run is the interactive shell. It opens start (unless empty) and reads commands until exit or
// end of input. Page errors are shown and do not end the shell.
func (c *Console) Run(ctx context.Context, start string) error {
	defer c.nav.Stop()
	if start != "" {
		_ = c.nav.Open(ctx, start)
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line, err := c.screen.In.Line("\nnumis " + c.nav.Current())
		if err != nil {
			if errors.Is(err, ErrNoInput) {
				return nil
			}
			return err
		}
		if quit := c.exec(ctx, strings.TrimSpace(line)); quit {
			return nil
		}
	}
}

// exec runs one shell command and reports whether the shell should exit.
func (c *Console) exec(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch {
	case cmd == "":
	case cmd == "exit" || cmd == "quit":
		return true
	case cmd == "help" || cmd == "?":
		c.Help()
	case cmd == "open" && arg != "":
		_ = c.nav.Open(ctx, arg)
	case strings.HasPrefix(cmd, "/"):
		_ = c.nav.Open(ctx, line)
	case cmd == "back":
		if ok, _ := c.nav.Back(ctx); !ok {
			c.screen.Notice("Nothing to go back to.")
		}
	case cmd == "login":
		_ = c.nav.Open(ctx, engine.LoginPath)
	case cmd == "logout":
		_ = c.Logout(ctx)
	case cmd == "whoami":
		_ = c.Whoami(ctx)
	default:
		c.screen.Error("Unknown command " + cmd + ". Type help.")
	}
	return false
}
