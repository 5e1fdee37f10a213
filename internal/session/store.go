// Package session owns the console's authentication state: the bearer token, the identity decoded
// from it, and the startup loading flag the route guard waits on.
package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"numis/console/internal/session/domain"
	"numis/console/internal/session/repository"
)

var (
	// ErrEmptyToken is returned by Establish when the token is empty.
	ErrEmptyToken = errors.New("session: empty token")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("session: store closed")
)

// Store holds the current session. Create one per process with NewStore, call Init once at
// startup and Close at shutdown.
type Store struct {
	repo   repository.Repository
	logger *zap.Logger

	mu      sync.RWMutex
	sess    domain.Session
	loading bool
	closed  bool
	// changes counts Establish and Clear calls; Init keeps a session set while it was reading.
	changes uint64

	initOnce sync.Once
	ready    chan struct{}
}

// NewStore returns a store in the loading state. logger may be nil.
func NewStore(repo repository.Repository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		repo:    repo,
		logger:  logger,
		loading: true,
		ready:   make(chan struct{}),
	}
}

// Init loads the persisted token. A missing, unreadable or malformed token leaves the store
// unauthenticated; Init never fails. Only the first call has any effect.
func (s *Store) Init(ctx context.Context) {
	s.initOnce.Do(func() {
		s.mu.RLock()
		seen := s.changes
		s.mu.RUnlock()

		var sess domain.Session
		token, ok, err := s.repo.Get(ctx, domain.TokenKey)
		switch {
		case err != nil:
			s.logger.Warn("session: load persisted token", zap.Error(err))
		case ok && token != "":
			sess = domain.New(token)
			if sess.Identity == nil {
				s.logger.Info("session: persisted token payload not decodable")
			}
		}

		s.mu.Lock()
		if s.changes == seen {
			s.sess = sess
		} else {
			s.logger.Debug("session: changed while loading, persisted token ignored")
		}
		s.loading = false
		authenticated := s.sess.Authenticated
		s.mu.Unlock()
		close(s.ready)
		s.logger.Debug("session: initialized", zap.Bool("authenticated", authenticated))
	})
}

// Ready is closed once Init has completed.
func (s *Store) Ready() <-chan struct{} { return s.ready }

// Loading reports whether Init has not completed yet.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Snapshot returns the current session and loading flag.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Snapshot{Session: s.sess, Loading: s.loading}
}

// Token returns the current bearer token, or "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.Token
}

// Establish makes token the current session and persists it. When persisting fails the session
// is still established in memory and the error is returned.
func (s *Store) Establish(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.sess = domain.New(token)
	s.changes++
	s.mu.Unlock()

	if err := s.repo.Put(ctx, domain.TokenKey, token); err != nil {
		s.logger.Warn("session: persist token", zap.Error(err))
		return err
	}
	return nil
}

// Clear drops the session and removes the persisted token. The in-memory session is cleared even
// when removal fails.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.sess = domain.Session{}
	s.changes++
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, domain.TokenKey); err != nil {
		s.logger.Warn("session: remove persisted token", zap.Error(err))
		return err
	}
	return nil
}

// Close ends the store's lifecycle. The persisted token is kept for the next start.
func (s *Store) Close() error {
	s.initOnce.Do(func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		close(s.ready)
	})
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
