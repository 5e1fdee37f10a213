package console

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	identitydomain "numis/console/internal/identity/domain"
	identityservice "numis/console/internal/identity/service"
	mfaservice "numis/console/internal/mfa/service"
	"numis/console/internal/platform/validation"
	"numis/console/internal/policy/engine"
)

// DefaultLanding is where a successful login goes when there is no protected next target.
const DefaultLanding = "/admin/dashboard"

// loginView signs in at /admin/login, asking for a second factor when the backend wants one.
type loginView struct {
	flow     LoginFlow
	sessions SessionView
	access   engine.RouteAccess
	logger   *zap.Logger
}

func (v *loginView) Serve(ctx context.Context, req *Request, scr *Screen) error {
	// The route is public, so the guard does not wait for the stored session.
	if _, err := waitLoaded(ctx, v.sessions); err != nil {
		return err
	}
	next := v.landing(ctx, req.Query.Get("next"))
	scr.Heading("Sign in")

	state := v.flow.State()
	switch state {
	case identitydomain.StateAuthenticated:
		scr.Notice("You are already signed in.")
		scr.RedirectReplace(next)
		return nil
	case identitydomain.StateAwaitingSecondFactor:
		if email, ok := v.flow.PendingEmail(); ok {
			scr.Notice("Continuing sign-in for " + email + ".")
		}
	default:
		email, err := scr.In.Line("Email")
		if err != nil {
			return err
		}
		password, err := scr.In.Secret("Password")
		if err != nil {
			return err
		}
		state, err = v.flow.Login(ctx, email, password)
		if err != nil {
			return err
		}
	}

	if state == identitydomain.StateAwaitingSecondFactor {
		done, err := v.secondFactor(ctx, scr)
		if err != nil || !done {
			return err
		}
	}
	scr.Notice("Signed in.")
	scr.RedirectReplace(next)
	return nil
}

// secondFactor prompts until a code is accepted. A blank answer stops prompting and leaves the
// challenge pending; reopening the login page continues it.
func (v *loginView) secondFactor(ctx context.Context, scr *Screen) (bool, error) {
	scr.Notice("Enter the 6-digit code from your authenticator app.")
	for {
		code, err := scr.In.Line("Code")
		if err != nil {
			return false, err
		}
		if strings.TrimSpace(code) == "" {
			scr.Notice("Sign-in paused. Open /admin/login again to enter the code.")
			return false, nil
		}
		state, err := v.flow.SubmitCode(ctx, code)
		if err == nil && state == identitydomain.StateAuthenticated {
			return true, nil
		}
		if errors.Is(err, identityservice.ErrChallengeExpired) || errors.Is(err, identityservice.ErrStaleAttempt) ||
			errors.Is(err, context.Canceled) || state != identitydomain.StateAwaitingSecondFactor {
			return false, err
		}
		scr.Error(DescribeError(err))
	}
}

// landing returns next when it names a protected route, else DefaultLanding.
func (v *loginView) landing(ctx context.Context, next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return DefaultLanding
	}
	p := engine.CleanPath(next)
	if p == engine.LoginPath {
		return DefaultLanding
	}
	protected, err := v.access.Protected(ctx, p)
	if err != nil || !protected {
		return DefaultLanding
	}
	return next
}

// securityView manages the authenticator at /admin/security.
type securityView struct {
	mfa    SecondFactor
	qrDir  string
	logger *zap.Logger
}

func (v *securityView) Serve(ctx context.Context, req *Request, scr *Screen) error {
	st, err := v.mfa.Status(ctx)
	if err != nil {
		return err
	}
	scr.Heading("Security")
	scr.Field("Account", st.Email)
	if st.Enabled {
		scr.Field("Two-factor", "enabled")
		return v.disable(ctx, scr)
	}
	scr.Field("Two-factor", "disabled")
	return v.enable(ctx, scr)
}

func (v *securityView) enable(ctx context.Context, scr *Screen) error {
	ok, err := Confirm(scr.In, "Enable two-factor authentication?")
	if err != nil || !ok {
		return err
	}
	e, err := v.mfa.Setup(ctx)
	if err != nil {
		return err
	}
	scr.Field("Issuer", e.Issuer)
	scr.Field("Account", e.Account)
	scr.Field("Secret", e.Secret)
	qr := filepath.Join(v.qrDir, "numis-mfa-qr.png")
	if err := mfaservice.WriteQR(e, qr, mfaservice.DefaultQRSize); err != nil {
		v.logger.Warn("console: write enrollment qr", zap.Error(err))
		scr.Error("Could not write the QR code; add the secret to your app by hand.")
	} else {
		scr.Notice("Scan the QR code saved at " + qr)
	}
	scr.Println("Provisioning URI: " + e.URI)

	return v.codeLoop(scr, "Code to confirm", func(code string) (string, error) {
		return v.mfa.Verify(ctx, code)
	}, "Two-factor authentication enabled.")
}

func (v *securityView) disable(ctx context.Context, scr *Screen) error {
	ok, err := Confirm(scr.In, "Disable two-factor authentication?")
	if err != nil || !ok {
		return err
	}
	return v.codeLoop(scr, "Current code", func(code string) (string, error) {
		return v.mfa.Disable(ctx, code)
	}, "Two-factor authentication disabled.")
}

// codeLoop re-prompts on malformed codes only; a server rejection ends the attempt.
func (v *securityView) codeLoop(scr *Screen, label string, submit func(string) (string, error), fallback string) error {
	for {
		code, err := scr.In.Line(label)
		if err != nil {
			return err
		}
		if strings.TrimSpace(code) == "" {
			scr.Notice("Nothing changed.")
			return nil
		}
		detail, err := submit(code)
		if _, invalid := validation.As(err); invalid {
			scr.Error(DescribeError(err))
			continue
		}
		if err != nil {
			return err
		}
		if detail == "" {
			detail = fallback
		}
		scr.Notice(detail)
		return nil
	}
}
