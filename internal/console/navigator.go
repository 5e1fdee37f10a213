package console

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"numis/console/internal/platform/guard"
	sessiondomain "numis/console/internal/session/domain"
	"numis/console/internal/telemetry"
	telemetrydomain "numis/console/internal/telemetry/domain"
)

// maxRedirects bounds redirect chains within one navigation.
const maxRedirects = 8

// SessionView is the read side of the session store.
type SessionView interface {
	Snapshot() sessiondomain.Snapshot
	Ready() <-chan struct{}
}

type historyMode int

const (
	modePush historyMode = iota
	modeReplace
)

// Navigator resolves targets to routes, applies the guard on every navigation and keeps history.
// Starting a navigation cancels the previous one.
type Navigator struct {
	router   *Router
	guard    *guard.Guard
	sessions SessionView
	screen   *Screen
	emitter  telemetry.EventEmitter
	logger   *zap.Logger
	history  History

	mu      sync.Mutex
	cancel  context.CancelFunc
	current *Route
}

// NewNavigator returns a Navigator. emitter and logger may be nil.
func NewNavigator(router *Router, g *guard.Guard, sessions SessionView, screen *Screen, emitter telemetry.EventEmitter, logger *zap.Logger) *Navigator {
	if emitter == nil {
		emitter = telemetry.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Navigator{
		router:   router,
		guard:    g,
		sessions: sessions,
		screen:   screen,
		emitter:  emitter,
		logger:   logger,
	}
}

// Open navigates to target, pushing a history entry.
func (n *Navigator) Open(ctx context.Context, target string) error {
	return n.navigate(ctx, target, modePush, 0)
}

// Replace navigates to target, replacing the current history entry.
func (n *Navigator) Replace(ctx context.Context, target string) error {
	return n.navigate(ctx, target, modeReplace, 0)
}

// Back returns to the previous history entry, re-running the guard. The bool is false when there
// is nothing to go back to.
func (n *Navigator) Back(ctx context.Context) (bool, error) {
	prev, ok := n.history.Back()
	if !ok {
		return false, nil
	}
	return true, n.navigate(ctx, prev, modeReplace, 0)
}

// Current returns the current history entry.
func (n *Navigator) Current() string {
	cur, _ := n.history.Current()
	return cur
}

// History exposes the navigation stack.
func (n *Navigator) History() *History { return &n.history }

// Stop cancels the in-flight navigation, if any.
func (n *Navigator) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
}

func (n *Navigator) begin(parent context.Context) context.Context {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cancel != nil {
		n.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	n.cancel = cancel
	return ctx
}

func (n *Navigator) navigate(parent context.Context, target string, mode historyMode, hops int) error {
	if hops > maxRedirects {
		n.screen.Error(DescribeError(ErrRedirectLoop))
		return ErrRedirectLoop
	}
	route, req, ok := n.router.Match(target)
	if !ok {
		n.screen.Error(DescribeError(ErrNoRoute) + " (" + req.Path + ")")
		return ErrNoRoute
	}
	ctx := n.begin(parent)

	decision := n.guard.Evaluate(ctx, req.Path, n.sessions.Snapshot())
	if decision.Outcome == guard.Wait {
		n.screen.Notice("Loading session…")
		select {
		case <-n.sessions.Ready():
		case <-ctx.Done():
			return ctx.Err()
		}
		decision = n.guard.Evaluate(ctx, req.Path, n.sessions.Snapshot())
	}
	n.emit(ctx, req.Path, decision.Outcome)

	switch decision.Outcome {
	case guard.Redirect:
		// The guarded target never enters history; the login page takes the slot it would have had.
		next := decision.RedirectTo + "?" + url.Values{"next": {req.Target()}}.Encode()
		return n.navigate(parent, next, mode, hops+1)
	case guard.Render:
	default:
		// Still loading after Ready: the store was closed.
		return context.Canceled
	}

	n.enter(route)
	if mode == modeReplace {
		n.history.Replace(req.Target())
	} else {
		n.history.Push(req.Target())
	}

	err := route.Handler.Serve(ctx, req, n.screen)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, context.Canceled) {
			n.logger.Debug("console: navigation superseded", zap.String("path", req.Path))
			return err
		}
		if IsEmptyState(err) {
			n.screen.Notice(msgNotFound)
		} else {
			n.screen.Error(DescribeError(err))
		}
		n.logger.Info("console: route failed", zap.String("path", req.Path), zap.Error(err))
		n.screen.takeRedirect()
		return err
	}
	if r := n.screen.takeRedirect(); r != nil {
		next := modePush
		if r.replace {
			next = modeReplace
		}
		return n.navigate(parent, r.target, next, hops+1)
	}
	return nil
}

// enter records route as current, running the previous route's OnLeave when it changes.
func (n *Navigator) enter(route *Route) {
	n.mu.Lock()
	prev := n.current
	n.current = route
	n.mu.Unlock()
	if prev != nil && prev != route && prev.OnLeave != nil {
		prev.OnLeave()
	}
}

func (n *Navigator) emit(ctx context.Context, path string, outcome guard.Outcome) {
	attrs := map[string]string{"path": path, "outcome": outcome.String()}
	ev := telemetry.NewEvent(telemetrydomain.EventNavigation, "navigator", attrs)
	if id := n.sessions.Snapshot().Identity; id != nil {
		ev.Subject = id.Subject
	}
	if err := n.emitter.Emit(ctx, ev); err != nil {
		n.logger.Debug("console: telemetry emit failed", zap.Error(err))
	}
}
