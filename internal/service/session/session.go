// Package session issues and validates session credentials. One active
// session per user; credentials are uuid4 strings the client holds in
// plaintext while the store keeps only a bcrypt hash.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/codespark/backend/internal/db"
	apperr "github.com/codespark/backend/internal/errors"
)

// TTL is the fixed session lifetime. Expiry is checked lazily on use.
const TTL = 24 * time.Hour

// Store is the session persistence contract, satisfied by the Mongo
// repository and by in-memory fakes in tests.
type Store interface {
	GetActiveByUsername(ctx context.Context, username string) (*db.Session, error)
	Insert(ctx context.Context, session *db.Session) error
	DeactivateAllFor(ctx context.Context, username string) error
	Deactivate(ctx context.Context, id bson.ObjectID) error
	TouchLastUsed(ctx context.Context, id bson.ObjectID) error
}

// UserStore is the slice of user access the authenticator needs.
type UserStore interface {
	GetActive(ctx context.Context, username string) (*db.User, error)
}

type Service struct {
	sessions Store
	users    UserStore
	log      *slog.Logger
	now      func() time.Time
}

func New(sessions Store, users UserStore, log *slog.Logger) *Service {
	return &Service{
		sessions: sessions,
		users:    users,
		log:      log,
		now:      time.Now,
	}
}

// Create issues a new session for the user and returns the plaintext
// credential. All other active sessions for the user are deactivated first;
// the single-session policy is an explicit invariant here, not a side
// effect of deletion ordering.
func (s *Service) Create(ctx context.Context, username string) (string, error) {
	if _, err := s.users.GetActive(ctx, username); err != nil {
		return "", err
	}

	if err := s.sessions.DeactivateAllFor(ctx, username); err != nil {
		return "", err
	}

	credential := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	now := s.now()
	session := &db.Session{
		Username:       username,
		CredentialHash: string(hash),
		Active:         true,
		CreatedAt:      now,
		ExpiredAt:      now.Add(TTL),
		LastUsed:       now,
	}
	if err := s.sessions.Insert(ctx, session); err != nil {
		return "", err
	}

	s.log.Info("session created", "user", username, "expires", session.ExpiredAt)
	return credential, nil
}

// Authenticate validates a claimed username and presented plaintext
// credential. Every failure collapses to Unauthenticated: unknown or
// inactive user, no active session, expired session (flipped inactive as a
// side effect), or hash mismatch. Success refreshes last_used.
func (s *Service) Authenticate(ctx context.Context, username, credential string) error {
	if username == "" || credential == "" {
		return apperr.Unauthenticated("missing credentials")
	}

	if _, err := s.users.GetActive(ctx, username); err != nil {
		return apperr.Unauthenticated("unknown user")
	}

	session, err := s.sessions.GetActiveByUsername(ctx, username)
	if err != nil {
		return apperr.Unauthenticated("no active session")
	}

	if session.Expired(s.now()) {
		// lazy expiry: flip inactive so later lookups stop finding it
		if err := s.sessions.Deactivate(ctx, session.ID); err != nil {
			s.log.Warn("failed to deactivate expired session", "user", username, "err", err)
		}
		return apperr.Unauthenticated("session expired")
	}

	// bcrypt comparison is constant-time
	if err := bcrypt.CompareHashAndPassword([]byte(session.CredentialHash), []byte(credential)); err != nil {
		return apperr.Unauthenticated("credential mismatch")
	}

	if err := s.sessions.TouchLastUsed(ctx, session.ID); err != nil {
		s.log.Warn("failed to touch session", "user", username, "err", err)
	}
	return nil
}
