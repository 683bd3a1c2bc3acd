package db

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is a document in the users collection.
//
// Likes and Matches are denormalized back-references: ordered id lists of
// every Like/Match document this user participates in, on either side. The
// collections own the records; these lists are caches the engine appends to
// on every mutation and read paths resolve lazily, dropping dangling or
// inactive targets.
//
// Optional profile fields added after launch may be absent on old documents;
// omitempty on read leaves them as "".
type User struct {
	ID               bson.ObjectID   `bson:"_id,omitempty"`
	Username         string          `bson:"username"`
	Email            string          `bson:"email,omitempty"`
	DiscordUsername  string          `bson:"discord_username,omitempty"`
	ProfilePicture   string          `bson:"profile_picture,omitempty"`
	NaturalLanguages string          `bson:"natural_languages,omitempty"`
	Background       string          `bson:"background,omitempty"`
	LookingFor       string          `bson:"looking_for,omitempty"`
	HowContribute    string          `bson:"how_contribute,omitempty"`
	Likes            []bson.ObjectID `bson:"likes"`
	Matches          []bson.ObjectID `bson:"matches"`
	Active           bool            `bson:"active"`
	CreatedAt        time.Time       `bson:"created_at"`
	UpdatedAt        time.Time       `bson:"updated_at"`
	LastLogin        time.Time       `bson:"last_login"`
}

// Like is a directional edge. IsLike=false records a dislike event; dislike
// rows are append-only history and never promote to matches. At most one
// active like may exist per ordered (UserID, LikedUserID) pair, enforced by
// the engine.
type Like struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	UserID      string        `bson:"user_id"`
	LikedUserID string        `bson:"liked_user_id"`
	IsLike      bool          `bson:"is_like"`
	Active      bool          `bson:"active"`
	CreatedAt   time.Time     `bson:"created_at"`
	DeletedAt   *time.Time    `bson:"deleted_at,omitempty"`
}

// Match is a mutually-consented pairing. Storage is directional
// (UserID/MatchedUserID) even though the relationship is symmetric; lookups
// probe both orderings.
type Match struct {
	ID            bson.ObjectID `bson:"_id,omitempty"`
	UserID        string        `bson:"user_id"`
	MatchedUserID string        `bson:"matched_user_id"`
	Active        bool          `bson:"active"`
	CreatedAt     time.Time     `bson:"created_at"`
	DeletedAt     *time.Time    `bson:"deleted_at,omitempty"`
}

// OtherUser returns the counterpart of the given username in this match.
func (m *Match) OtherUser(username string) (string, bool) {
	if m.UserID == username {
		return m.MatchedUserID, true
	}
	if m.MatchedUserID == username {
		return m.UserID, true
	}
	return "", false
}

// Session binds a credential to one user. Only the bcrypt hash of the
// credential is stored; the plaintext is handed to the client once at login.
type Session struct {
	ID             bson.ObjectID `bson:"_id,omitempty"`
	Username       string        `bson:"username"`
	CredentialHash string        `bson:"credential_hash"`
	Active         bool          `bson:"active"`
	CreatedAt      time.Time     `bson:"created_at"`
	ExpiredAt      time.Time     `bson:"expired_at"`
	LastUsed       time.Time     `bson:"last_used"`
}

// Expired reports whether the session has passed its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiredAt)
}
