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

// UserRepository provides data access for the users collection.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository creates a repository bound to the given client.
func NewUserRepository(client *db.Client) *UserRepository {
	return &UserRepository{coll: client.Users()}
}

// GetActive returns the user with the given username if it exists and is
// active. Inactive users are invisible to every relationship query.
func (r *UserRepository) GetActive(ctx context.Context, username string) (*db.User, error) {
	var user db.User
	err := r.coll.FindOne(ctx, bson.M{"username": username, "active": true}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("user " + username)
		}
		return nil, err
	}
	return &user, nil
}

// Insert creates a new user document. Username collisions surface as
// Conflict via the unique index.
func (r *UserRepository) Insert(ctx context.Context, user *db.User) error {
	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("username " + user.Username)
		}
		return err
	}
	user.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

// ProfileFields is the editable subset of a user document. Username,
// profile picture, and timestamps are managed elsewhere. Fields are pointers
// so a request body naming only some keys leaves the others untouched.
type ProfileFields struct {
	Email            *string `json:"email,omitempty"`
	DiscordUsername  *string `json:"discord_username,omitempty"`
	NaturalLanguages *string `json:"natural_languages,omitempty"`
	Background       *string `json:"background,omitempty"`
	LookingFor       *string `json:"looking_for,omitempty"`
	HowContribute    *string `json:"how_contribute,omitempty"`
}

// set returns the $set document for the fields that were actually provided.
func (f ProfileFields) set() bson.M {
	set := bson.M{"updated_at": time.Now()}
	if f.Email != nil {
		set["email"] = *f.Email
	}
	if f.DiscordUsername != nil {
		set["discord_username"] = *f.DiscordUsername
	}
	if f.NaturalLanguages != nil {
		set["natural_languages"] = *f.NaturalLanguages
	}
	if f.Background != nil {
		set["background"] = *f.Background
	}
	if f.LookingFor != nil {
		set["looking_for"] = *f.LookingFor
	}
	if f.HowContribute != nil {
		set["how_contribute"] = *f.HowContribute
	}
	return set
}

// UpdateProfile writes the provided editable fields and bumps updated_at.
// Fields absent from the request keep their stored values.
func (r *UserRepository) UpdateProfile(ctx context.Context, username string, fields ProfileFields) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"username": username, "active": true},
		bson.M{"$set": fields.set()},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user " + username)
	}
	return nil
}

// TouchLastLogin updates last_login, called on every successful OAuth login.
func (r *UserRepository) TouchLastLogin(ctx context.Context, username string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"last_login": time.Now()}},
	)
	return err
}

// SetProfilePicture stores the picture filename reference on the user.
func (r *UserRepository) SetProfilePicture(ctx context.Context, username, filename string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"username": username, "active": true},
		bson.M{"$set": bson.M{"profile_picture": filename, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user " + username)
	}
	return nil
}

// AppendLikeRef appends a like id to both participants' likes sequences.
// The lists are denormalized caches; both sides get the id so either user's
// like-list query can resolve direction later.
func (r *UserRepository) AppendLikeRef(ctx context.Context, usernames []string, likeID bson.ObjectID) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"username": bson.M{"$in": usernames}},
		bson.M{"$push": bson.M{"likes": likeID}},
	)
	return err
}

// AppendMatchRef appends a match id to both participants' matches sequences.
func (r *UserRepository) AppendMatchRef(ctx context.Context, usernames []string, matchID bson.ObjectID) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"username": bson.M{"$in": usernames}},
		bson.M{"$push": bson.M{"matches": matchID}},
	)
	return err
}

// ListActiveExcluding returns up to limit active users whose usernames are
// not in exclude, most recently logged in first. Backs the discovery feed.
func (r *UserRepository) ListActiveExcluding(ctx context.Context, exclude []string, limit int) ([]db.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "last_login", Value: -1}}).
		SetLimit(int64(limit))

	filter := bson.M{"active": true}
	if len(exclude) > 0 {
		filter["username"] = bson.M{"$nin": exclude}
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []db.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
