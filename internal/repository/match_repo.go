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

// MatchRepository provides data access for the matches collection.
type MatchRepository struct {
	coll *mongo.Collection
}

// NewMatchRepository creates a repository bound to the given client.
func NewMatchRepository(client *db.Client) *MatchRepository {
	return &MatchRepository{coll: client.Matches()}
}

// GetActiveBetween returns the active match between a and b. Storage is
// directional, so both (a, b) and (b, a) orderings are probed in one query.
func (r *MatchRepository) GetActiveBetween(ctx context.Context, a, b string) (*db.Match, error) {
	var match db.Match
	err := r.coll.FindOne(ctx, bson.M{
		"active": true,
		"$or": []bson.M{
			{"user_id": a, "matched_user_id": b},
			{"user_id": b, "matched_user_id": a},
		},
	}).Decode(&match)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("match " + a + "/" + b)
		}
		return nil, err
	}
	return &match, nil
}

// Insert creates a new match record and fills in its id.
func (r *MatchRepository) Insert(ctx context.Context, match *db.Match) error {
	res, err := r.coll.InsertOne(ctx, match)
	if err != nil {
		return err
	}
	match.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

// Deactivate flips a match inactive with the given deletion timestamp. The
// match id stays in both users' matches sequences as historical reference.
func (r *MatchRepository) Deactivate(ctx context.Context, id bson.ObjectID, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "active": true},
		bson.M{"$set": bson.M{"active": false, "deleted_at": at}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("active match " + id.Hex())
	}
	return nil
}

// GetByIDs resolves match ids in bulk, any active state.
func (r *MatchRepository) GetByIDs(ctx context.Context, ids []bson.ObjectID) ([]db.Match, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var matches []db.Match
	if err := cur.All(ctx, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}
