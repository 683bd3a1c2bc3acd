package relationship

import (
	"context"
	"time"

	apperr "github.com/codespark/backend/internal/errors"
	"github.com/codespark/backend/internal/repository"

	"github.com/codespark/backend/internal/db"
)

// discoverLimit caps the discovery feed. There is no pagination; clients get
// the most recently active candidates and nothing more.
const discoverLimit = 100

// Profile is the full editable field set returned to the profile owner.
type Profile struct {
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	DiscordUsername  string    `json:"discord_username"`
	ProfilePicture   string    `json:"profile_picture"`
	NaturalLanguages string    `json:"natural_languages"`
	Background       string    `json:"background"`
	LookingFor       string    `json:"looking_for"`
	HowContribute    string    `json:"how_contribute"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	LastLogin        time.Time `json:"last_login"`
}

// Complete reports whether every editable field has been filled in.
func (p *Profile) Complete() bool {
	return p.Email != "" &&
		p.DiscordUsername != "" &&
		p.NaturalLanguages != "" &&
		p.Background != "" &&
		p.LookingFor != "" &&
		p.HowContribute != ""
}

// PublicUser is the projection other users see: discovery feed entries and
// like/match list counterparts.
type PublicUser struct {
	Username         string    `json:"username"`
	ProfilePicture   string    `json:"profile_picture"`
	NaturalLanguages string    `json:"natural_languages"`
	Background       string    `json:"background"`
	LookingFor       string    `json:"looking_for"`
	HowContribute    string    `json:"how_contribute"`
	LastLogin        time.Time `json:"last_login"`
}

// LikesView partitions a user's edge list into the two directions.
type LikesView struct {
	ILike   []PublicUser `json:"i_like"`
	LikesMe []PublicUser `json:"likes_me"`
}

// MatchesView lists the counterparts of a user's active matches.
type MatchesView struct {
	Matches []PublicUser `json:"matches"`
}

// GetProfile returns the full profile; NotFound when inactive or absent.
func (s *Service) GetProfile(ctx context.Context, username string) (*Profile, error) {
	user, err := s.users.GetActive(ctx, username)
	if err != nil {
		return nil, err
	}
	return profileOf(user), nil
}

// UpdateProfile applies the provided editable fields; fields absent from the
// request keep their stored values. Username, picture, and created_at never
// change through this path.
func (s *Service) UpdateProfile(ctx context.Context, username string, fields repository.ProfileFields) (*Profile, error) {
	if err := s.users.UpdateProfile(ctx, username, fields); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, username)
}

// GetLikes resolves the subject's likes sequence into active like edges and
// partitions them by direction. Edges whose counterpart user is inactive or
// gone are dropped, not errors; the id lists are caches that may dangle.
func (s *Service) GetLikes(ctx context.Context, username string) (*LikesView, error) {
	return s.partitionEdges(ctx, username, true)
}

// GetDislikes is the same partition over is_like=false records.
func (s *Service) GetDislikes(ctx context.Context, username string) (*LikesView, error) {
	return s.partitionEdges(ctx, username, false)
}

func (s *Service) partitionEdges(ctx context.Context, username string, wantLike bool) (*LikesView, error) {
	user, err := s.users.GetActive(ctx, username)
	if err != nil {
		return nil, err
	}

	edges, err := s.likes.GetByIDs(ctx, user.Likes)
	if err != nil {
		return nil, err
	}

	view := &LikesView{ILike: []PublicUser{}, LikesMe: []PublicUser{}}
	for _, edge := range edges {
		if !edge.Active || edge.IsLike != wantLike {
			continue
		}

		var counterpart string
		var outbound bool
		switch username {
		case edge.UserID:
			counterpart, outbound = edge.LikedUserID, true
		case edge.LikedUserID:
			counterpart, outbound = edge.UserID, false
		default:
			// dangling ref pointing at someone else's edge; drop it
			continue
		}

		pub, err := s.publicUser(ctx, counterpart)
		if err != nil {
			if apperr.Is(err, apperr.ErrNotFound) {
				continue
			}
			return nil, err
		}

		if outbound {
			view.ILike = append(view.ILike, *pub)
		} else {
			view.LikesMe = append(view.LikesMe, *pub)
		}
	}
	return view, nil
}

// GetMatches resolves the subject's matches sequence to active matches and
// returns the other side of each, dropping unresolvable entries.
func (s *Service) GetMatches(ctx context.Context, username string) (*MatchesView, error) {
	user, err := s.users.GetActive(ctx, username)
	if err != nil {
		return nil, err
	}

	matches, err := s.matches.GetByIDs(ctx, user.Matches)
	if err != nil {
		return nil, err
	}

	view := &MatchesView{Matches: []PublicUser{}}
	for _, match := range matches {
		if !match.Active {
			continue
		}
		other, ok := match.OtherUser(username)
		if !ok {
			continue
		}
		pub, err := s.publicUser(ctx, other)
		if err != nil {
			if apperr.Is(err, apperr.ErrNotFound) {
				continue
			}
			return nil, err
		}
		view.Matches = append(view.Matches, *pub)
	}
	return view, nil
}

// Discover returns up to 100 active users the subject has no relationship
// with, most recently logged in first.
//
// The exclusion set is the subject plus every counterpart in the subject's
// resolved like/dislike/match lists, both directions. A subject with no
// likes and no matches skips the resolution entirely.
func (s *Service) Discover(ctx context.Context, username string) ([]PublicUser, error) {
	user, err := s.users.GetActive(ctx, username)
	if err != nil {
		return nil, err
	}

	exclude := map[string]struct{}{username: {}}

	if len(user.Likes) > 0 || len(user.Matches) > 0 {
		edges, err := s.likes.GetByIDs(ctx, user.Likes)
		if err != nil {
			return nil, err
		}
		for _, edge := range edges {
			if !edge.Active {
				continue
			}
			exclude[edge.UserID] = struct{}{}
			exclude[edge.LikedUserID] = struct{}{}
		}

		matches, err := s.matches.GetByIDs(ctx, user.Matches)
		if err != nil {
			return nil, err
		}
		for _, match := range matches {
			if !match.Active {
				continue
			}
			exclude[match.UserID] = struct{}{}
			exclude[match.MatchedUserID] = struct{}{}
		}
	}

	excluded := make([]string, 0, len(exclude))
	for u := range exclude {
		excluded = append(excluded, u)
	}

	users, err := s.users.ListActiveExcluding(ctx, excluded, discoverLimit)
	if err != nil {
		return nil, err
	}

	feed := make([]PublicUser, 0, len(users))
	for i := range users {
		feed = append(feed, *publicOf(&users[i]))
	}
	return feed, nil
}

func (s *Service) publicUser(ctx context.Context, username string) (*PublicUser, error) {
	user, err := s.users.GetActive(ctx, username)
	if err != nil {
		return nil, err
	}
	return publicOf(user), nil
}

func profileOf(user *db.User) *Profile {
	return &Profile{
		Username:         user.Username,
		Email:            user.Email,
		DiscordUsername:  user.DiscordUsername,
		ProfilePicture:   user.ProfilePicture,
		NaturalLanguages: user.NaturalLanguages,
		Background:       user.Background,
		LookingFor:       user.LookingFor,
		HowContribute:    user.HowContribute,
		CreatedAt:        user.CreatedAt,
		UpdatedAt:        user.UpdatedAt,
		LastLogin:        user.LastLogin,
	}
}

func publicOf(user *db.User) *PublicUser {
	return &PublicUser{
		Username:         user.Username,
		ProfilePicture:   user.ProfilePicture,
		NaturalLanguages: user.NaturalLanguages,
		Background:       user.Background,
		LookingFor:       user.LookingFor,
		HowContribute:    user.HowContribute,
		LastLogin:        user.LastLogin,
	}
}
