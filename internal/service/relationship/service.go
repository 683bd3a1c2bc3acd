// Package relationship owns all mutations to likes and matches, and every
// derived read view. The store gives no multi-document transactions; each
// mutation is a best-effort sequential write with state re-checked first,
// and partial application is logged rather than silently dropped.
package relationship

import (
	"context"
	"log/slog"
	"time"

	"github.com/codespark/backend/internal/app"
	"github.com/codespark/backend/internal/db"
	apperr "github.com/codespark/backend/internal/errors"
	"github.com/codespark/backend/internal/repository"
)

// Service implements the relationship engine on top of the store contracts.
type Service struct {
	users   UserStore
	likes   LikeStore
	matches MatchStore
	counter LikeCounter
	log     *slog.Logger
}

// New wires the engine from explicit store implementations.
func New(users UserStore, likes LikeStore, matches MatchStore, counter LikeCounter, log *slog.Logger) *Service {
	return &Service{
		users:   users,
		likes:   likes,
		matches: matches,
		counter: counter,
		log:     log,
	}
}

// NewFromApp builds the engine with Mongo repositories from AppContext.
func NewFromApp(appCtx *app.AppContext) *Service {
	return New(
		repository.NewUserRepository(appCtx.DB),
		repository.NewLikeRepository(appCtx.DB),
		repository.NewMatchRepository(appCtx.DB),
		appCtx.RedisCache,
		appCtx.Logger,
	)
}

// LikeResult reports what a like produced.
type LikeResult struct {
	Matched bool `json:"matched"`
}

// Like records a like from a toward b.
//
// Behavior:
//   - a == b is rejected before any store access.
//   - An active like a -> b already existing is a Conflict.
//   - An active dislike a -> b is revoked by the fresh like.
//   - A reciprocal active like b -> a promotes the pair to a match: both
//     like edges are deactivated with one shared timestamp, the match is
//     inserted, and its id is appended to both users' matches sequences.
//   - Otherwise a fresh active like is inserted and its id appended to both
//     users' likes sequences, so either side's like list resolves direction.
func (s *Service) Like(ctx context.Context, a, b string) (*LikeResult, error) {
	if a == b {
		return nil, apperr.InvalidOperation("cannot like yourself")
	}
	if err := s.requireActiveUsers(ctx, a, b); err != nil {
		return nil, err
	}

	state, edges, err := s.resolvePair(ctx, a, b)
	if err != nil {
		return nil, err
	}

	switch state {
	case StateMatched:
		return nil, apperr.Conflict("already matched with " + b)

	case StateLiked:
		return nil, apperr.Conflict("already liked " + b)

	case StateDisliked:
		// fresh like revokes the dislike, then proceeds as from neutral
		now := time.Now()
		if err := s.likes.Deactivate(ctx, edges.outbound.ID, now); err != nil {
			return nil, err
		}
		if edges.inbound != nil && edges.inbound.IsLike {
			return s.promoteToMatch(ctx, a, b, edges.inbound)
		}
		return s.insertLike(ctx, a, b)

	case StateLikedBy:
		return s.promoteToMatch(ctx, a, b, edges.inbound)

	default: // StateNeutral
		return s.insertLike(ctx, a, b)
	}
}

// insertLike writes a fresh active like a -> b and the denormalized
// back-references on both users.
func (s *Service) insertLike(ctx context.Context, a, b string) (*LikeResult, error) {
	like := &db.Like{
		UserID:      a,
		LikedUserID: b,
		IsLike:      true,
		Active:      true,
		CreatedAt:   time.Now(),
	}
	if err := s.likes.Insert(ctx, like); err != nil {
		return nil, err
	}
	if err := s.users.AppendLikeRef(ctx, []string{a, b}, like.ID); err != nil {
		s.logPartial("like", a, b, "append_like_refs", err)
		return nil, err
	}
	if s.counter != nil {
		s.counter.IncrLikeCount(ctx, b)
	}
	return &LikeResult{Matched: false}, nil
}

// promoteToMatch consumes the reciprocal like pair into a match. The
// just-created a -> b like and the existing b -> a like share one
// deactivation timestamp, which is also the match creation time.
func (s *Service) promoteToMatch(ctx context.Context, a, b string, reciprocal *db.Like) (*LikeResult, error) {
	now := time.Now()

	own := &db.Like{
		UserID:      a,
		LikedUserID: b,
		IsLike:      true,
		Active:      true,
		CreatedAt:   now,
	}
	if err := s.likes.Insert(ctx, own); err != nil {
		return nil, err
	}
	if err := s.users.AppendLikeRef(ctx, []string{a, b}, own.ID); err != nil {
		s.logPartial("match", a, b, "append_like_refs", err)
		return nil, err
	}

	if err := s.likes.Deactivate(ctx, own.ID, now); err != nil {
		s.logPartial("match", a, b, "deactivate_own_like", err)
		return nil, err
	}
	if err := s.likes.Deactivate(ctx, reciprocal.ID, now); err != nil {
		s.logPartial("match", a, b, "deactivate_reciprocal_like", err)
		return nil, err
	}

	match := &db.Match{
		UserID:        a,
		MatchedUserID: b,
		Active:        true,
		CreatedAt:     now,
	}
	if err := s.matches.Insert(ctx, match); err != nil {
		s.logPartial("match", a, b, "insert_match", err)
		return nil, err
	}
	if err := s.users.AppendMatchRef(ctx, []string{a, b}, match.ID); err != nil {
		s.logPartial("match", a, b, "append_match_refs", err)
		return nil, err
	}

	if s.counter != nil {
		// the consumed b -> a like no longer counts toward a's incoming likes
		s.counter.DecrLikeCount(ctx, a)
	}

	return &LikeResult{Matched: true}, nil
}

// Dislike records a dislike from a toward b.
//
// Behavior:
//   - Any active match between the pair is deactivated first; its id stays
//     in both matches sequences as history.
//   - Any active edge a -> b (like or older dislike) is deactivated, keeping
//     the one-active-record-per-ordered-pair invariant.
//   - A new is_like=false record is always inserted and appended to both
//     users' likes sequences. Dislike never fails on missing prior state.
func (s *Service) Dislike(ctx context.Context, a, b string) error {
	if a == b {
		return apperr.InvalidOperation("cannot dislike yourself")
	}
	if err := s.requireActiveUsers(ctx, a, b); err != nil {
		return err
	}

	_, edges, err := s.resolvePair(ctx, a, b)
	if err != nil {
		return err
	}

	now := time.Now()

	if edges.match != nil {
		if err := s.matches.Deactivate(ctx, edges.match.ID, now); err != nil {
			s.logPartial("dislike", a, b, "deactivate_match", err)
			return err
		}
	}

	if edges.outbound != nil {
		if err := s.likes.Deactivate(ctx, edges.outbound.ID, now); err != nil {
			s.logPartial("dislike", a, b, "deactivate_like", err)
			return err
		}
		if edges.outbound.IsLike && s.counter != nil {
			s.counter.DecrLikeCount(ctx, b)
		}
	}

	dislike := &db.Like{
		UserID:      a,
		LikedUserID: b,
		IsLike:      false,
		Active:      true,
		CreatedAt:   now,
	}
	if err := s.likes.Insert(ctx, dislike); err != nil {
		s.logPartial("dislike", a, b, "insert_dislike", err)
		return err
	}
	if err := s.users.AppendLikeRef(ctx, []string{a, b}, dislike.ID); err != nil {
		s.logPartial("dislike", a, b, "append_like_refs", err)
		return err
	}
	return nil
}

// Unmatch deactivates the active match between a and b, probing both storage
// orderings. NotFound when no active match exists.
func (s *Service) Unmatch(ctx context.Context, a, b string) error {
	match, err := s.matches.GetActiveBetween(ctx, a, b)
	if err != nil {
		return err
	}
	return s.matches.Deactivate(ctx, match.ID, time.Now())
}

// CountLikers returns the number of users actively liking the given user.
// Cache-first with the store as fallback; a recount refreshes the cache.
func (s *Service) CountLikers(ctx context.Context, username string) (int64, error) {
	if s.counter != nil {
		if n, ok, err := s.counter.GetLikeCount(ctx, username); err == nil && ok {
			return n, nil
		}
	}

	count, err := s.likes.CountActiveIncoming(ctx, username)
	if err != nil {
		return 0, err
	}

	if s.counter != nil {
		if err := s.counter.UpdateLikeCount(ctx, username, count); err != nil {
			s.log.Warn("like count cache update failed", "user", username, "err", err)
		}
	}
	return count, nil
}

func (s *Service) requireActiveUsers(ctx context.Context, usernames ...string) error {
	for _, u := range usernames {
		if _, err := s.users.GetActive(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

// logPartial reports a multi-document mutation that failed mid-sequence.
// The store offers no transactions; the completed steps stand.
func (s *Service) logPartial(op, a, b, failedStep string, err error) {
	s.log.Error("partial relationship mutation",
		"op", op,
		"user", a,
		"target", b,
		"failed_step", failedStep,
		"err", err,
	)
}
