// Package guard decides, on every navigation, whether a route renders, waits for the session to
// load, or redirects to the login page.
package guard

import (
	"context"

	"go.uber.org/zap"

	"numis/console/internal/policy/engine"
	sessiondomain "numis/console/internal/session/domain"
)

// Outcome is the guard's verdict for one navigation.
type Outcome int

const (
	// Wait means the session is still loading; show a neutral indicator and decide later.
	Wait Outcome = iota
	Render
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Wait:
		return "wait"
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the result of Evaluate.
type Decision struct {
	Outcome Outcome
	// RedirectTo is set for Redirect.
	RedirectTo string
	// Replace asks the navigator to replace the current history entry instead of pushing, so
	// history back never lands on the guarded route.
	Replace bool
	// Next is the originally requested path, for the login page to return to.
	Next string
}

// Guard applies the route access policy to a session snapshot. It keeps no state between calls.
type Guard struct {
	access engine.RouteAccess
	logger *zap.Logger
}

// New returns a Guard. logger may be nil.
func New(access engine.RouteAccess, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{access: access, logger: logger}
}

// Evaluate decides what to do with a navigation to path given the current session.
// Public routes always render. Protected routes wait while loading, render when authenticated and
// otherwise redirect to the login page. A policy error counts as protected.
func (g *Guard) Evaluate(ctx context.Context, path string, snap sessiondomain.Snapshot) Decision {
	protected, err := g.access.Protected(ctx, path)
	if err != nil {
		g.logger.Warn("guard: route policy failed, treating route as protected", zap.String("path", path), zap.Error(err))
		protected = true
	}
	if !protected {
		return Decision{Outcome: Render}
	}
	if snap.Loading {
		return Decision{Outcome: Wait}
	}
	if snap.Authenticated {
		return Decision{Outcome: Render}
	}
	return Decision{
		Outcome:    Redirect,
		RedirectTo: engine.LoginPath,
		Replace:    true,
		Next:       engine.CleanPath(path),
	}
}
