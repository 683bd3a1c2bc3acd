package relationship

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/codespark/backend/internal/db"
	"github.com/codespark/backend/internal/repository"
)

// Store contracts the engine consumes. The Mongo repositories satisfy them;
// tests substitute in-memory implementations.

type UserStore interface {
	GetActive(ctx context.Context, username string) (*db.User, error)
	UpdateProfile(ctx context.Context, username string, fields repository.ProfileFields) error
	AppendLikeRef(ctx context.Context, usernames []string, likeID bson.ObjectID) error
	AppendMatchRef(ctx context.Context, usernames []string, matchID bson.ObjectID) error
	ListActiveExcluding(ctx context.Context, exclude []string, limit int) ([]db.User, error)
}

type LikeStore interface {
	GetActiveDirected(ctx context.Context, from, to string) (*db.Like, error)
	Insert(ctx context.Context, like *db.Like) error
	Deactivate(ctx context.Context, id bson.ObjectID, at time.Time) error
	GetByIDs(ctx context.Context, ids []bson.ObjectID) ([]db.Like, error)
	CountActiveIncoming(ctx context.Context, username string) (int64, error)
}

type MatchStore interface {
	GetActiveBetween(ctx context.Context, a, b string) (*db.Match, error)
	Insert(ctx context.Context, match *db.Match) error
	Deactivate(ctx context.Context, id bson.ObjectID, at time.Time) error
	GetByIDs(ctx context.Context, ids []bson.ObjectID) ([]db.Match, error)
}

// LikeCounter is the optional cache for the incoming-like counter. All
// methods are best effort; a nil counter disables caching.
type LikeCounter interface {
	GetLikeCount(ctx context.Context, username string) (int64, bool, error)
	UpdateLikeCount(ctx context.Context, username string, count int64) error
	IncrLikeCount(ctx context.Context, username string)
	DecrLikeCount(ctx context.Context, username string)
}
