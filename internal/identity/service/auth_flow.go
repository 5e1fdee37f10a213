package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"numis/console/internal/identity/domain"
	"numis/console/internal/mfa"
	mfadomain "numis/console/internal/mfa/domain"
	"numis/console/internal/platform/validation"
	sessiondomain "numis/console/internal/session/domain"
	"numis/console/internal/telemetry"
	telemetrydomain "numis/console/internal/telemetry/domain"
)

// Sentinel errors for the auth flow; the console maps them to notices.
var (
	ErrAlreadyAuthenticated = errors.New("already signed in")
	ErrNoChallenge          = errors.New("no second factor pending")
	ErrChallengeExpired     = errors.New("second factor challenge expired; sign in again")
	ErrNoToken              = errors.New("login succeeded but no token was issued")
	// ErrStaleAttempt is returned when a response arrives after the attempt was superseded
	// (cancelled, logged out or replaced). The response is discarded.
	ErrStaleAttempt = errors.New("login attempt superseded")
)

// DefaultChallengeTTL bounds how long a pending second factor is kept.
const DefaultChallengeTTL = 5 * time.Minute

const eventSource = "auth_flow"

// AuthRepo is the minimal backend surface the flow needs.
type AuthRepo interface {
	Login(ctx context.Context, email, password string) (*domain.LoginResult, error)
	LoginMFA(ctx context.Context, email, password, code string) (*domain.Token, error)
}

// SessionStore is the minimal session store the flow needs.
type SessionStore interface {
	Snapshot() sessiondomain.Snapshot
	Establish(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// AuthFlow drives Anonymous -> (AwaitingSecondFactor ->) Authenticated and back on logout.
// Authenticated is read from the session store; the flow itself only holds the pending challenge.
// The mutex is never held across a backend call.
type AuthFlow struct {
	auth     AuthRepo
	sessions SessionStore
	emitter  telemetry.EventEmitter
	logger   *zap.Logger
	ttl      time.Duration
	nowF     func() time.Time

	mu      sync.Mutex
	pending *mfadomain.Challenge
	gen     uint64
}

// NewAuthFlow returns an AuthFlow. emitter and logger may be nil; ttl <= 0 means DefaultChallengeTTL.
func NewAuthFlow(auth AuthRepo, sessions SessionStore, emitter telemetry.EventEmitter, logger *zap.Logger, ttl time.Duration) *AuthFlow {
	if emitter == nil {
		emitter = telemetry.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultChallengeTTL
	}
	return &AuthFlow{
		auth:     auth,
		sessions: sessions,
		emitter:  emitter,
		logger:   logger,
		ttl:      ttl,
		nowF:     time.Now,
	}
}

// State returns the current flow state.
func (f *AuthFlow) State() domain.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stateLocked()
}

func (f *AuthFlow) stateLocked() domain.State {
	if f.sessions.Snapshot().Authenticated {
		return domain.StateAuthenticated
	}
	if f.pending != nil {
		return domain.StateAwaitingSecondFactor
	}
	return domain.StateAnonymous
}

// PendingEmail returns the email of the pending challenge, if any.
func (f *AuthFlow) PendingEmail() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending == nil {
		return "", false
	}
	return f.pending.Email, true
}

// Login submits the primary credentials. Blank email or password fail validation without a
// backend call. A response asking for a second factor moves to AwaitingSecondFactor even if it
// also carries a token; a plain token response establishes the session.
func (f *AuthFlow) Login(ctx context.Context, email, password string) (domain.State, error) {
	email = strings.TrimSpace(email)
	var v validation.Builder
	v.Require("email", email)
	v.Require("password", password)
	if err := v.Err(); err != nil {
		return f.State(), err
	}

	f.mu.Lock()
	if f.sessions.Snapshot().Authenticated {
		f.mu.Unlock()
		return domain.StateAuthenticated, ErrAlreadyAuthenticated
	}
	f.dropPendingLocked()
	f.gen++
	attempt := f.gen
	f.mu.Unlock()

	res, err := f.auth.Login(ctx, email, password)

	f.mu.Lock()
	defer f.mu.Unlock()
	if attempt != f.gen {
		f.logger.Debug("auth: discarding stale login response")
		return f.stateLocked(), ErrStaleAttempt
	}
	if err != nil {
		f.logger.Info("auth: login failed", zap.Error(err))
		f.emit(ctx, telemetrydomain.EventLoginFailed, email, "")
		return domain.StateAnonymous, fmt.Errorf("login: %w", err)
	}
	if res.MFARequired {
		f.pending = mfadomain.NewChallenge(email, password, f.nowF(), f.ttl)
		f.logger.Info("auth: second factor required")
		f.emit(ctx, telemetrydomain.EventMFAChallenge, email, "")
		return domain.StateAwaitingSecondFactor, nil
	}
	token := res.BearerToken()
	if token == "" {
		return domain.StateAnonymous, ErrNoToken
	}
	f.establishLocked(ctx, token)
	f.emit(ctx, telemetrydomain.EventLogin, email, "password")
	return domain.StateAuthenticated, nil
}

// SubmitCode answers the pending challenge. The code is normalized and must be six digits before
// anything is sent. A rejected code keeps the challenge pending; there is no retry limit on this
// side (the backend enforces its own lockout).
func (f *AuthFlow) SubmitCode(ctx context.Context, code string) (domain.State, error) {
	f.mu.Lock()
	if f.pending == nil {
		state := f.stateLocked()
		f.mu.Unlock()
		return state, ErrNoChallenge
	}
	normalized, err := mfa.CheckCode(code)
	if err != nil {
		f.mu.Unlock()
		return domain.StateAwaitingSecondFactor, err
	}
	if f.pending.Expired(f.nowF()) {
		f.dropPendingLocked()
		f.gen++
		f.mu.Unlock()
		f.logger.Info("auth: second factor challenge expired")
		return domain.StateAnonymous, ErrChallengeExpired
	}
	challenge := f.pending
	email, password := challenge.Email, challenge.Password
	f.gen++
	attempt := f.gen
	f.mu.Unlock()

	tok, err := f.auth.LoginMFA(ctx, email, password, normalized)

	f.mu.Lock()
	defer f.mu.Unlock()
	if attempt != f.gen || f.pending != challenge {
		f.logger.Debug("auth: discarding stale second factor response")
		return f.stateLocked(), ErrStaleAttempt
	}
	if err != nil {
		f.logger.Info("auth: second factor rejected", zap.Error(err))
		f.emit(ctx, telemetrydomain.EventLoginFailed, email, "totp")
		return domain.StateAwaitingSecondFactor, fmt.Errorf("verify code: %w", err)
	}
	if tok == nil || strings.TrimSpace(tok.AccessToken) == "" {
		return domain.StateAwaitingSecondFactor, ErrNoToken
	}
	f.dropPendingLocked()
	f.establishLocked(ctx, strings.TrimSpace(tok.AccessToken))
	f.emit(ctx, telemetrydomain.EventMFAVerified, email, "totp")
	return domain.StateAuthenticated, nil
}

// Cancel abandons a pending challenge and any in-flight attempt, returning to Anonymous.
// It is a no-op when nothing is pending.
func (f *AuthFlow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	if f.pending != nil {
		f.dropPendingLocked()
		f.logger.Debug("auth: second factor challenge cancelled")
	}
}

// Logout ends the session. In-flight attempts are discarded when they return.
func (f *AuthFlow) Logout(ctx context.Context) error {
	f.mu.Lock()
	f.gen++
	f.dropPendingLocked()
	subject := f.subjectLocked()
	err := f.sessions.Clear(ctx)
	f.mu.Unlock()

	f.emitSubject(ctx, telemetrydomain.EventLogout, subject, nil)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (f *AuthFlow) dropPendingLocked() {
	if f.pending != nil {
		f.pending.Wipe()
		f.pending = nil
	}
}

// establishLocked sets the session. A persistence failure is logged; the session still holds in
// memory for this process.
func (f *AuthFlow) establishLocked(ctx context.Context, token string) {
	if err := f.sessions.Establish(ctx, token); err != nil {
		f.logger.Warn("auth: session established but not persisted", zap.Error(err))
	}
}

func (f *AuthFlow) subjectLocked() string {
	if id := f.sessions.Snapshot().Identity; id != nil {
		return id.Subject
	}
	return ""
}

func (f *AuthFlow) emit(ctx context.Context, eventType, email, method string) {
	attrs := map[string]string{"email_domain": emailDomain(email)}
	if method != "" {
		attrs["method"] = method
	}
	f.emitSubject(ctx, eventType, f.subjectLocked(), attrs)
}

func (f *AuthFlow) emitSubject(ctx context.Context, eventType, subject string, attrs map[string]string) {
	ev := telemetry.NewEvent(eventType, eventSource, attrs)
	ev.Subject = subject
	if err := f.emitter.Emit(ctx, ev); err != nil {
		f.logger.Debug("auth: telemetry emit failed", zap.Error(err))
	}
}

func emailDomain(email string) string {
	if i := strings.LastIndexByte(email, '@'); i >= 0 {
		return strings.ToLower(email[i+1:])
	}
	return ""
}
