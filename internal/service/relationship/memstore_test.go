package relationship_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/codespark/backend/internal/db"
	apperr "github.com/codespark/backend/internal/errors"
	"github.com/codespark/backend/internal/repository"
)

// memStore implements the engine's store contracts in memory, mirroring the
// Mongo repositories' semantics (NotFound for absent/inactive records,
// append-only edges, directional match probing).
type memStore struct {
	mu      sync.Mutex
	users   map[string]*db.User
	likes   map[bson.ObjectID]*db.Like
	matches map[bson.ObjectID]*db.Match
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[string]*db.User),
		likes:   make(map[bson.ObjectID]*db.Like),
		matches: make(map[bson.ObjectID]*db.Match),
	}
}

func (m *memStore) addUser(username string, lastLogin time.Time) *db.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &db.User{
		ID:        bson.NewObjectID(),
		Username:  username,
		Likes:     []bson.ObjectID{},
		Matches:   []bson.ObjectID{},
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		LastLogin: lastLogin,
	}
	m.users[username] = u
	return u
}

func (m *memStore) deactivateUser(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[username]; ok {
		u.Active = false
	}
}

// --- UserStore ---

func (m *memStore) GetActive(_ context.Context, username string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok || !u.Active {
		return nil, apperr.NotFound("user " + username)
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) UpdateProfile(_ context.Context, username string, f repository.ProfileFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok || !u.Active {
		return apperr.NotFound("user " + username)
	}
	if f.Email != nil {
		u.Email = *f.Email
	}
	if f.DiscordUsername != nil {
		u.DiscordUsername = *f.DiscordUsername
	}
	if f.NaturalLanguages != nil {
		u.NaturalLanguages = *f.NaturalLanguages
	}
	if f.Background != nil {
		u.Background = *f.Background
	}
	if f.LookingFor != nil {
		u.LookingFor = *f.LookingFor
	}
	if f.HowContribute != nil {
		u.HowContribute = *f.HowContribute
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (m *memStore) AppendLikeRef(_ context.Context, usernames []string, likeID bson.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, name := range usernames {
		if u, ok := m.users[name]; ok {
			u.Likes = append(u.Likes, likeID)
		}
	}
	return nil
}

func (m *memStore) AppendMatchRef(_ context.Context, usernames []string, matchID bson.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, name := range usernames {
		if u, ok := m.users[name]; ok {
			u.Matches = append(u.Matches, matchID)
		}
	}
	return nil
}

func (m *memStore) ListActiveExcluding(_ context.Context, exclude []string, limit int) ([]db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	excluded := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		excluded[e] = struct{}{}
	}

	var out []db.User
	for _, u := range m.users {
		if !u.Active {
			continue
		}
		if _, skip := excluded[u.Username]; skip {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastLogin.After(out[j].LastLogin)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- LikeStore ---

func (m *memStore) GetActiveDirected(_ context.Context, from, to string) (*db.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.likes {
		if l.Active && l.UserID == from && l.LikedUserID == to {
			cp := *l
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("like " + from + "->" + to)
}

func (m *memStore) Insert(_ context.Context, like *db.Like) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	like.ID = bson.NewObjectID()
	cp := *like
	m.likes[like.ID] = &cp
	return nil
}

func (m *memStore) Deactivate(_ context.Context, id bson.ObjectID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.likes[id]; ok && l.Active {
		l.Active = false
		l.DeletedAt = &at
		return nil
	}
	return apperr.NotFound("active like " + id.Hex())
}

func (m *memStore) GetByIDs(_ context.Context, ids []bson.ObjectID) ([]db.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Like
	for _, id := range ids {
		if l, ok := m.likes[id]; ok {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *memStore) CountActiveIncoming(_ context.Context, username string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, l := range m.likes {
		if l.Active && l.IsLike && l.LikedUserID == username {
			n++
		}
	}
	return n, nil
}

func (m *memStore) countLikes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.likes)
}

// matchStore wraps memStore so the Match methods don't collide with the
// Like methods of the same names.
type matchStore struct {
	m *memStore
}

func (s matchStore) GetActiveBetween(_ context.Context, a, b string) (*db.Match, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, mt := range s.m.matches {
		if !mt.Active {
			continue
		}
		if (mt.UserID == a && mt.MatchedUserID == b) || (mt.UserID == b && mt.MatchedUserID == a) {
			cp := *mt
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("match " + a + "/" + b)
}

func (s matchStore) Insert(_ context.Context, match *db.Match) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	match.ID = bson.NewObjectID()
	cp := *match
	s.m.matches[match.ID] = &cp
	return nil
}

func (s matchStore) Deactivate(_ context.Context, id bson.ObjectID, at time.Time) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if mt, ok := s.m.matches[id]; ok && mt.Active {
		mt.Active = false
		mt.DeletedAt = &at
		return nil
	}
	return apperr.NotFound("active match " + id.Hex())
}

func (s matchStore) GetByIDs(_ context.Context, ids []bson.ObjectID) ([]db.Match, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []db.Match
	for _, id := range ids {
		if mt, ok := s.m.matches[id]; ok {
			out = append(out, *mt)
		}
	}
	return out, nil
}
