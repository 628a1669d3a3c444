// Package admin implements the shared-password gate in front of the admin
// screens. It hides those screens from casual visitors and is not an
// access-control boundary.
package admin

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/classreg/internal/dependencies/clock"
	"github.com/mcoot/classreg/internal/model"
)

const (
	tokenIssuer  = "classreg"
	tokenSubject = "admin"
)

// Config holds configuration for the admin gate
type Config struct {
	// Password is the shared admin password. Empty disables admin login.
	Password string

	// Secret signs admin tokens. Empty generates a per-process secret.
	Secret []byte

	TokenTTL   time.Duration
	BcryptCost int
}

// DefaultConfig returns default admin gate configuration
func DefaultConfig() Config {
	return Config{
		TokenTTL:   12 * time.Hour,
		BcryptCost: bcrypt.DefaultCost,
	}
}

// Service issues and checks admin tokens
type Service struct {
	hash   []byte
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
	logger *slog.Logger
}

// New creates the admin gate
func New(cfg Config, clock clock.Clock, logger *slog.Logger) (*Service, error) {
	defaults := DefaultConfig()
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = defaults.TokenTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = defaults.BcryptCost
	}

	secret := cfg.Secret
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate admin secret: %w", err)
		}
	}

	var hash []byte
	if cfg.Password != "" {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.Password), cfg.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
	} else {
		logger.Warn("admin password not configured, admin login disabled")
	}

	return &Service{
		hash:   hash,
		secret: secret,
		ttl:    cfg.TokenTTL,
		clock:  clock,
		logger: logger,
	}, nil
}

// Login exchanges the admin password for a signed token
func (s *Service) Login(password string) (string, time.Time, error) {
	if s.hash == nil {
		return "", time.Time{}, model.ErrInvalidPassword
	}
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(password)); err != nil {
		s.logger.Info("admin login rejected")
		return "", time.Time{}, model.ErrInvalidPassword
	}

	now := s.clock.Now()
	expires := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   tokenSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign admin token: %w", err)
	}
	return signed, expires, nil
}

// Validate checks a token's signature, issuer and expiry
func (s *Service) Validate(token string) error {
	if token == "" {
		return model.ErrInvalidToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithSubject(tokenSubject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)

	claims := &jwt.RegisteredClaims{}
	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return errors.Join(model.ErrInvalidToken, err)
	}
	return nil
}
