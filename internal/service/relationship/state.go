package relationship

import (
	"context"

	apperr "github.com/codespark/backend/internal/errors"

	"github.com/codespark/backend/internal/db"
)

// PairState is the explicit relationship state of an ordered pair (A, B).
// The stored documents encode it implicitly through active/is_like flags;
// resolving to a tagged state up front keeps the transition logic in one
// switch instead of scattered flag checks.
type PairState int

const (
	// StateNeutral: no active edge in either direction.
	StateNeutral PairState = iota
	// StateLiked: active like A -> B.
	StateLiked
	// StateLikedBy: active like B -> A only.
	StateLikedBy
	// StateMatched: active match between A and B (either storage order).
	StateMatched
	// StateDisliked: active dislike A -> B. Revocable only by a fresh like.
	StateDisliked
)

func (s PairState) String() string {
	switch s {
	case StateNeutral:
		return "neutral"
	case StateLiked:
		return "liked"
	case StateLikedBy:
		return "liked_by"
	case StateMatched:
		return "matched"
	case StateDisliked:
		return "disliked"
	}
	return "unknown"
}

// pairEdges carries the records backing a resolved state so transitions can
// act on them without re-querying.
type pairEdges struct {
	outbound *db.Like  // active A -> B edge, like or dislike
	inbound  *db.Like  // active B -> A edge, like or dislike
	match    *db.Match // active match, either order
}

// resolvePair probes the store for the current state of (a, b). Called
// immediately before every mutation; there is no in-process locking, so this
// re-check is the only duplicate-write protection.
func (s *Service) resolvePair(ctx context.Context, a, b string) (PairState, pairEdges, error) {
	var edges pairEdges

	match, err := s.matches.GetActiveBetween(ctx, a, b)
	switch {
	case err == nil:
		edges.match = match
	case !apperr.Is(err, apperr.ErrNotFound):
		return StateNeutral, edges, err
	}

	out, err := s.likes.GetActiveDirected(ctx, a, b)
	switch {
	case err == nil:
		edges.outbound = out
	case !apperr.Is(err, apperr.ErrNotFound):
		return StateNeutral, edges, err
	}

	in, err := s.likes.GetActiveDirected(ctx, b, a)
	switch {
	case err == nil:
		edges.inbound = in
	case !apperr.Is(err, apperr.ErrNotFound):
		return StateNeutral, edges, err
	}

	switch {
	case edges.match != nil:
		return StateMatched, edges, nil
	case edges.outbound != nil && !edges.outbound.IsLike:
		return StateDisliked, edges, nil
	case edges.outbound != nil:
		return StateLiked, edges, nil
	case edges.inbound != nil && edges.inbound.IsLike:
		return StateLikedBy, edges, nil
	default:
		return StateNeutral, edges, nil
	}
}
