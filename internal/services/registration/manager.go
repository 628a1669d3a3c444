package registration

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/classreg/internal/dependencies/clock"
	"github.com/mcoot/classreg/internal/dependencies/random"
	"github.com/mcoot/classreg/internal/model"
	"github.com/mcoot/classreg/internal/services/catalog"
)

const (
	// TokenLength is the length of generated session tokens
	TokenLength = 32
	// TokenAlphabet is the characters used in session tokens
	TokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Config holds configuration for the session manager
type Config struct {
	IdleTimeout time.Duration
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		IdleTimeout: 2 * time.Hour,
	}
}

type entry struct {
	mu       sync.Mutex
	session  *Session
	lastSeen time.Time
}

// Manager keeps registration sessions in memory, keyed by token
type Manager struct {
	catalog *catalog.Catalog
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
	cfg     Config

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewManager creates a new session manager
func NewManager(catalog *catalog.Catalog, clock clock.Clock, random random.Random, logger *slog.Logger, cfg Config) *Manager {
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = DefaultConfig().IdleTimeout
	}
	return &Manager{
		catalog:  catalog,
		clock:    clock,
		random:   random,
		logger:   logger,
		cfg:      cfg,
		sessions: make(map[string]*entry),
	}
}

// Create starts a new session and returns its token
func (m *Manager) Create() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var token string
	for {
		token = m.random.String(TokenLength, TokenAlphabet)
		if _, exists := m.sessions[token]; !exists {
			break
		}
	}

	m.sessions[token] = &entry{
		session:  NewSession(token, m.random),
		lastSeen: m.clock.Now(),
	}
	return token
}

// With runs fn on the session while holding its lock. It returns
// model.ErrSessionNotFound for unknown or idle-expired tokens.
func (m *Manager) With(token string, fn func(s *Session) error) error {
	e, err := m.lookup(token)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = m.clock.Now()
	return fn(e.session)
}

// Exists reports whether the token names a live session
func (m *Manager) Exists(token string) bool {
	_, err := m.lookup(token)
	return err == nil
}

// Sweep discards idle sessions and returns how many were removed
func (m *Manager) Sweep() int {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for token, e := range m.sessions {
		e.mu.Lock()
		idle := now.Sub(e.lastSeen) > m.cfg.IdleTimeout
		e.mu.Unlock()
		if idle {
			delete(m.sessions, token)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Debug("registration sessions swept", "removed", removed)
	}
	return removed
}

// Submit checks the session's selection against the current classes and
// merges it into the shared roster. It returns the registration summary.
func (m *Manager) Submit(ctx context.Context, token string) ([]model.ClassRegistration, error) {
	var summary []model.ClassRegistration

	err := m.With(token, func(s *Session) error {
		if s.Submitted() {
			return model.ErrAlreadySubmitted
		}

		classes := m.catalog.Classes()
		if err := s.Recheck(classes); err != nil {
			return err
		}
		if !s.CanSubmit() {
			return model.ErrNothingToSubmit
		}

		if _, err := m.catalog.Submit(ctx, s.selection); err != nil {
			return err
		}

		summary = s.Summary(classes)
		s.MarkSubmitted(summary)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}

func (m *Manager) lookup(token string) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[token]
	if !ok {
		return nil, model.ErrSessionNotFound
	}

	e.mu.Lock()
	expired := m.clock.Now().Sub(e.lastSeen) > m.cfg.IdleTimeout
	e.mu.Unlock()
	if expired {
		delete(m.sessions, token)
		return nil, model.ErrSessionNotFound
	}
	return e, nil
}
