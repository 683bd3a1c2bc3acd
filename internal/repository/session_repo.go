package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/codespark/backend/internal/db"
	apperr "github.com/codespark/backend/internal/errors"
)

// SessionRepository provides data access for the sessions collection.
type SessionRepository struct {
	coll *mongo.Collection
}

// NewSessionRepository creates a repository bound to the given client.
func NewSessionRepository(client *db.Client) *SessionRepository {
	return &SessionRepository{coll: client.Sessions()}
}

// GetActiveByUsername returns the user's single active session. The
// single-session policy makes more than one a bug, but if the invariant is
// ever violated the most recent session wins.
func (r *SessionRepository) GetActiveByUsername(ctx context.Context, username string) (*db.Session, error) {
	var session db.Session
	err := r.coll.FindOne(ctx,
		bson.M{"username": username, "active": true},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("session for " + username)
		}
		return nil, err
	}
	return &session, nil
}

// Insert creates a new session record and fills in its id.
func (r *SessionRepository) Insert(ctx context.Context, session *db.Session) error {
	res, err := r.coll.InsertOne(ctx, session)
	if err != nil {
		return err
	}
	session.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

// DeactivateAllFor flips every active session for the user inactive. Runs
// before each new session is created to enforce the single-session policy.
func (r *SessionRepository) DeactivateAllFor(ctx context.Context, username string) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"username": username, "active": true},
		bson.M{"$set": bson.M{"active": false}},
	)
	return err
}

// Deactivate flips one session inactive, used for lazy expiry.
func (r *SessionRepository) Deactivate(ctx context.Context, id bson.ObjectID) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"active": false}},
	)
	return err
}

// TouchLastUsed refreshes last_used after a successful credential check.
func (r *SessionRepository) TouchLastUsed(ctx context.Context, id bson.ObjectID) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_used": time.Now()}},
	)
	return err
}
