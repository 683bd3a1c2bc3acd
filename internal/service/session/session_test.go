package session

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/codespark/backend/internal/db"
	apperr "github.com/codespark/backend/internal/errors"
)

type memSessions struct {
	sessions map[bson.ObjectID]*db.Session
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[bson.ObjectID]*db.Session)}
}

func (m *memSessions) GetActiveByUsername(_ context.Context, username string) (*db.Session, error) {
	var latest *db.Session
	for _, s := range m.sessions {
		if s.Username != username || !s.Active {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, apperr.NotFound("session for " + username)
	}
	cp := *latest
	return &cp, nil
}

func (m *memSessions) Insert(_ context.Context, session *db.Session) error {
	session.ID = bson.NewObjectID()
	cp := *session
	m.sessions[session.ID] = &cp
	return nil
}

func (m *memSessions) DeactivateAllFor(_ context.Context, username string) error {
	for _, s := range m.sessions {
		if s.Username == username {
			s.Active = false
		}
	}
	return nil
}

func (m *memSessions) Deactivate(_ context.Context, id bson.ObjectID) error {
	if s, ok := m.sessions[id]; ok {
		s.Active = false
	}
	return nil
}

func (m *memSessions) TouchLastUsed(_ context.Context, id bson.ObjectID) error {
	if s, ok := m.sessions[id]; ok {
		s.LastUsed = time.Now()
	}
	return nil
}

func (m *memSessions) activeCount(username string) int {
	n := 0
	for _, s := range m.sessions {
		if s.Username == username && s.Active {
			n++
		}
	}
	return n
}

type memUsers struct {
	active map[string]bool
}

func (m *memUsers) GetActive(_ context.Context, username string) (*db.User, error) {
	if !m.active[username] {
		return nil, apperr.NotFound("user " + username)
	}
	return &db.User{Username: username, Active: true}, nil
}

func newTestService() (*Service, *memSessions) {
	sessions := newMemSessions()
	users := &memUsers{active: map[string]bool{"alice": true}}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(sessions, users, log), sessions
}

func TestCreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	credential, err := svc.Create(ctx, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, credential)

	assert.NoError(t, svc.Authenticate(ctx, "alice", credential))
}

func TestAuthenticateRejectsWrongCredential(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Create(ctx, "alice")
	require.NoError(t, err)

	err = svc.Authenticate(ctx, "alice", "not-the-credential")
	assert.True(t, apperr.Is(err, apperr.ErrUnauthenticated))
}

func TestAuthenticateRejectsUnknownUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	err := svc.Authenticate(ctx, "mallory", "whatever")
	assert.True(t, apperr.Is(err, apperr.ErrUnauthenticated))
}

func TestAuthenticateRejectsMissingCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	assert.True(t, apperr.Is(svc.Authenticate(ctx, "", ""), apperr.ErrUnauthenticated))
	assert.True(t, apperr.Is(svc.Authenticate(ctx, "alice", ""), apperr.ErrUnauthenticated))
}

func TestSingleSessionPolicy(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	first, err := svc.Create(ctx, "alice")
	require.NoError(t, err)

	second, err := svc.Create(ctx, "alice")
	require.NoError(t, err)

	// only the newest session survives
	assert.Equal(t, 1, store.activeCount("alice"))
	assert.True(t, apperr.Is(svc.Authenticate(ctx, "alice", first), apperr.ErrUnauthenticated))
	assert.NoError(t, svc.Authenticate(ctx, "alice", second))
}

func TestLazyExpiryFlipsSessionInactive(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	credential, err := svc.Create(ctx, "alice")
	require.NoError(t, err)

	// move the clock past the 24h expiry
	svc.now = func() time.Time { return time.Now().Add(TTL + time.Minute) }

	err = svc.Authenticate(ctx, "alice", credential)
	assert.True(t, apperr.Is(err, apperr.ErrUnauthenticated))
	assert.Equal(t, 0, store.activeCount("alice"))
}

func TestAuthenticateRefreshesLastUsed(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	credential, err := svc.Create(ctx, "alice")
	require.NoError(t, err)

	var id bson.ObjectID
	for sid := range store.sessions {
		id = sid
	}
	before := store.sessions[id].LastUsed

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, svc.Authenticate(ctx, "alice", credential))

	assert.True(t, store.sessions[id].LastUsed.After(before))
}
