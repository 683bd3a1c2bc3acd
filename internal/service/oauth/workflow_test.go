package oauth_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codespark/backend/internal/db"
	apperr "github.com/codespark/backend/internal/errors"
	"github.com/codespark/backend/internal/service/oauth"
)

type fakeProvider struct {
	exchangeErr error
	fetchErr    error
	username    string
}

func (f *fakeProvider) LoginURL() string { return "https://example.com/authorize" }

func (f *fakeProvider) ExchangeCode(context.Context, string) (string, error) {
	if f.exchangeErr != nil {
		return "", f.exchangeErr
	}
	return "token", nil
}

func (f *fakeProvider) FetchUsername(context.Context, string) (string, error) {
	if f.fetchErr != nil {
		return "", f.fetchErr
	}
	return f.username, nil
}

type fakeUsers struct {
	users    map[string]*db.User
	inserted []string
	touched  []string
}

func (f *fakeUsers) GetActive(_ context.Context, username string) (*db.User, error) {
	if u, ok := f.users[username]; ok && u.Active {
		return u, nil
	}
	return nil, apperr.NotFound("user " + username)
}

func (f *fakeUsers) Insert(_ context.Context, user *db.User) error {
	f.users[user.Username] = user
	f.inserted = append(f.inserted, user.Username)
	return nil
}

func (f *fakeUsers) TouchLastLogin(_ context.Context, username string) error {
	f.touched = append(f.touched, username)
	return nil
}

type fakeSessions struct {
	created []string
}

func (f *fakeSessions) Create(_ context.Context, username string) (string, error) {
	f.created = append(f.created, username)
	return "plaintext-credential", nil
}

func newWorkflow(provider *fakeProvider, users *fakeUsers) (*oauth.Workflow, *fakeSessions) {
	sessions := &fakeSessions{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return oauth.NewWorkflow(provider, users, sessions, log), sessions
}

func TestRunCreatesUserAndSession(t *testing.T) {
	ctx := context.Background()
	users := &fakeUsers{users: map[string]*db.User{}}
	wf, sessions := newWorkflow(&fakeProvider{username: "octocat"}, users)

	result, err := wf.Run(ctx, "good-code")
	require.NoError(t, err)

	assert.Equal(t, "octocat", result.Username)
	assert.Equal(t, "plaintext-credential", result.SessionID)
	assert.False(t, result.HasProfile) // fresh profile is empty

	assert.Equal(t, []string{"octocat"}, users.inserted)
	assert.Equal(t, []string{"octocat"}, users.touched)
	assert.Equal(t, []string{"octocat"}, sessions.created)
}

func TestRunReportsCompleteProfile(t *testing.T) {
	ctx := context.Background()
	users := &fakeUsers{users: map[string]*db.User{
		"octocat": {
			Username:         "octocat",
			Email:            "octo@example.com",
			DiscordUsername:  "octo#0001",
			NaturalLanguages: "English",
			Background:       "Go, Rust",
			LookingFor:       "A partner to work on a project",
			HowContribute:    "I can help you with your project",
			Active:           true,
		},
	}}
	wf, _ := newWorkflow(&fakeProvider{username: "octocat"}, users)

	result, err := wf.Run(ctx, "good-code")
	require.NoError(t, err)

	assert.True(t, result.HasProfile)
	assert.Empty(t, users.inserted) // existing user is reused
}

func TestRunMissingCode(t *testing.T) {
	ctx := context.Background()
	users := &fakeUsers{users: map[string]*db.User{}}
	wf, _ := newWorkflow(&fakeProvider{username: "octocat"}, users)

	_, err := wf.Run(ctx, "")
	assert.True(t, apperr.Is(err, apperr.ErrInvalidOperation))
}

func TestRunAbortsOnExchangeFailure(t *testing.T) {
	ctx := context.Background()
	users := &fakeUsers{users: map[string]*db.User{}}
	provider := &fakeProvider{exchangeErr: apperr.UpstreamFailure("provider down")}
	wf, sessions := newWorkflow(provider, users)

	_, err := wf.Run(ctx, "code")
	assert.True(t, apperr.Is(err, apperr.ErrUpstreamFailure))
	assert.Empty(t, users.inserted)
	assert.Empty(t, sessions.created)
}
