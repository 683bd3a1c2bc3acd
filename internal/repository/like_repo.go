package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/codespark/backend/internal/db"
	apperr "github.com/codespark/backend/internal/errors"
)

// LikeRepository provides data access for the likes collection. Likes are
// never hard-deleted; deactivation flips the active flag and records
// deleted_at so the audit history survives.
type LikeRepository struct {
	coll *mongo.Collection
}

// NewLikeRepository creates a repository bound to the given client.
func NewLikeRepository(client *db.Client) *LikeRepository {
	return &LikeRepository{coll: client.Likes()}
}

// GetActiveDirected returns the active like from -> to, regardless of
// is_like. The engine guarantees at most one such record exists.
func (r *LikeRepository) GetActiveDirected(ctx context.Context, from, to string) (*db.Like, error) {
	var like db.Like
	err := r.coll.FindOne(ctx, bson.M{
		"user_id":       from,
		"liked_user_id": to,
		"active":        true,
	}).Decode(&like)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("like " + from + "->" + to)
		}
		return nil, err
	}
	return &like, nil
}

// Insert creates a new like/dislike record and fills in its id.
func (r *LikeRepository) Insert(ctx context.Context, like *db.Like) error {
	res, err := r.coll.InsertOne(ctx, like)
	if err != nil {
		return err
	}
	like.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

// Deactivate flips a like inactive with the given deletion timestamp. Match
// creation passes one shared timestamp for both consumed directions.
func (r *LikeRepository) Deactivate(ctx context.Context, id bson.ObjectID, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "active": true},
		bson.M{"$set": bson.M{"active": false, "deleted_at": at}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("active like " + id.Hex())
	}
	return nil
}

// GetByIDs resolves like ids in bulk, any active state. Ids that resolve to
// nothing are simply absent from the result; callers filter.
func (r *LikeRepository) GetByIDs(ctx context.Context, ids []bson.ObjectID) ([]db.Like, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var likes []db.Like
	if err := cur.All(ctx, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

// CountActiveIncoming counts active likes targeting the given user. Backs
// the cache-first like counter.
func (r *LikeRepository) CountActiveIncoming(ctx context.Context, username string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{
		"liked_user_id": username,
		"is_like":       true,
		"active":        true,
	})
}
