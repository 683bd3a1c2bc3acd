package oauth

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/codespark/backend/internal/db"
	apperr "github.com/codespark/backend/internal/errors"
)

// Provider is the outbound provider contract; *Client satisfies it.
type Provider interface {
	LoginURL() string
	ExchangeCode(ctx context.Context, code string) (string, error)
	FetchUsername(ctx context.Context, accessToken string) (string, error)
}

// UserStore is the slice of user access the login flow needs.
type UserStore interface {
	GetActive(ctx context.Context, username string) (*db.User, error)
	Insert(ctx context.Context, user *db.User) error
	TouchLastLogin(ctx context.Context, username string) error
}

// SessionIssuer issues a fresh session credential for a user.
type SessionIssuer interface {
	Create(ctx context.Context, username string) (string, error)
}

// Workflow runs the whole login: exchange the code, resolve the username,
// ensure a user document exists, rotate the session.
type Workflow struct {
	provider Provider
	users    UserStore
	sessions SessionIssuer
	log      *slog.Logger
}

func NewWorkflow(provider Provider, users UserStore, sessions SessionIssuer, log *slog.Logger) *Workflow {
	return &Workflow{
		provider: provider,
		users:    users,
		sessions: sessions,
		log:      log,
	}
}

// LoginURL proxies the provider authorize URL.
func (w *Workflow) LoginURL() string { return w.provider.LoginURL() }

// LoginResult is handed back to the client exactly once; the session
// credential is not recoverable afterwards.
type LoginResult struct {
	Username   string `json:"username"`
	SessionID  string `json:"session_id"`
	HasProfile bool   `json:"has_profile"`
}

// Run performs the redirect-callback half of the handshake. The two
// provider calls run sequentially with no retry; any failure aborts the
// whole login.
func (w *Workflow) Run(ctx context.Context, code string) (*LoginResult, error) {
	if code == "" {
		return nil, apperr.InvalidOperation("missing authorization code")
	}

	accessToken, err := w.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	username, err := w.provider.FetchUsername(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	user, err := w.users.GetActive(ctx, username)
	switch {
	case apperr.Is(err, apperr.ErrNotFound):
		user = blankUser(username)
		if err := w.users.Insert(ctx, user); err != nil {
			return nil, err
		}
		w.log.Info("created user profile", "user", username)
	case err != nil:
		return nil, err
	}

	if err := w.users.TouchLastLogin(ctx, username); err != nil {
		w.log.Warn("failed to touch last_login", "user", username, "err", err)
	}

	credential, err := w.sessions.Create(ctx, username)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Username:   username,
		SessionID:  credential,
		HasProfile: profileComplete(user),
	}, nil
}

func blankUser(username string) *db.User {
	now := time.Now()
	return &db.User{
		Username:  username,
		Likes:     []bson.ObjectID{},
		Matches:   []bson.ObjectID{},
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
		LastLogin: now,
	}
}

func profileComplete(user *db.User) bool {
	return user.Email != "" &&
		user.DiscordUsername != "" &&
		user.NaturalLanguages != "" &&
		user.Background != "" &&
		user.LookingFor != "" &&
		user.HowContribute != ""
}
