package session

import (
	// Go Internal Packages
	"context"
	"sync"

	// External Packages
	"go.uber.org/zap"
)

// Store persists the bearer credential between console invocations.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Session is the credential context injected into the transport layer. Rejected credentials
// are reported through Invalidate; presentation code subscribes with OnInvalidated.
type Session struct {
	store  Store
	logger *zap.Logger

	mu          sync.Mutex
	token       string
	invalidated bool
	subscribers []func()
}

// New creates a session whose token is read from store.
func New(ctx context.Context, store Store, logger *zap.Logger) (*Session, error) {
	token, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Session{store: store, logger: logger, token: token}, nil
}

// Token returns the current bearer credential, empty when logged out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Valid reports whether a credential is held and has not been rejected.
func (s *Session) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && !s.invalidated
}

// Login stores a fresh credential.
func (s *Session) Login(ctx context.Context, token string) error {
	if err := s.store.Save(ctx, token); err != nil {
		return err
	}
	s.mu.Lock()
	s.token = token
	s.invalidated = false
	s.mu.Unlock()
	return nil
}

// OnInvalidated registers fn to run when the credential is rejected.
func (s *Session) OnInvalidated(fn func()) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// Invalidate drops the credential and notifies subscribers. Repeated calls for the same
// credential notify once.
func (s *Session) Invalidate(ctx context.Context) {
	s.mu.Lock()
	if s.invalidated {
		s.mu.Unlock()
		return
	}
	s.invalidated = true
	s.token = ""
	subscribers := append([]func(){}, s.subscribers...)
	s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error("failed to clear session store", zap.Error(err))
	}
	s.logger.Warn("session invalidated, login required")
	for _, fn := range subscribers {
		fn()
	}
}
