package db

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	seedLanguages = []string{
		"Python", "Java", "C++", "C#", "JavaScript", "TypeScript",
		"HTML", "CSS", "SQL", "PHP", "Ruby", "Rust",
	}
	seedNaturalLanguages = []string{
		"English", "Spanish", "French", "German", "Chinese",
		"Japanese", "Korean", "Russian", "Arabic",
	}
	seedLookingFor = []string{
		"A partner to work on a project",
		"A partner to learn a language",
		"A partner to teach a language",
		"A partner to work on a project and learn a language",
		"A partner to work on a project and teach a language",
		"A partner to learn a language and teach a language",
	}
	seedHowContribute = []string{
		"I can help you with your project",
		"I can teach you a language",
		"I can learn a language from you",
		"I can help you with your project and teach you a language",
	}
)

// SeedTestData resets the database and populates it with demo users and
// relationship edges.
//
// Behavior:
//  1. Drops the users, sessions, likes, and matches collections.
//  2. Creates 20 users with randomized profiles and last_login times.
//  3. Generates like/dislike edges (~70% likes); every 3rd pair gets a
//     reciprocal like which is promoted to a match the way the engine would:
//     both likes deactivated, match inserted, ids appended on both users.
func SeedTestData(ctx context.Context, c *Client) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, coll := range []string{"users", "sessions", "likes", "matches"} {
		if err := c.db.Collection(coll).Drop(ctx); err != nil {
			return fmt.Errorf("failed to drop %s: %w", coll, err)
		}
	}
	log.Println("Cleared existing data")

	usernames := make([]string, 0, 20)
	for i := 1; i <= 20; i++ {
		username := fmt.Sprintf("dev%d", i)
		usernames = append(usernames, username)

		user := User{
			Username:         username,
			Email:            fmt.Sprintf("dev%d@example.com", i),
			DiscordUsername:  fmt.Sprintf("dev%d#%04d", i, r.Intn(10000)),
			NaturalLanguages: pickSome(r, seedNaturalLanguages),
			Background:       pickSome(r, seedLanguages),
			LookingFor:       seedLookingFor[r.Intn(len(seedLookingFor))],
			HowContribute:    seedHowContribute[r.Intn(len(seedHowContribute))],
			Likes:            []bson.ObjectID{},
			Matches:          []bson.ObjectID{},
			Active:           true,
			CreatedAt:        time.Now(),
			UpdatedAt:        time.Now(),
			LastLogin:        time.Now().Add(-time.Duration(r.Intn(500)) * time.Hour),
		}
		if _, err := c.Users().InsertOne(ctx, user); err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
	}
	log.Println("Seeded 20 users.")

	counter := 0
	for _, from := range usernames {
		for j := 0; j < 6; j++ {
			to := usernames[r.Intn(len(usernames))]
			if to == from {
				continue
			}
			if hasActiveEdge(ctx, c, from, to) {
				continue
			}

			isLike := r.Intn(100) < 70

			if counter%3 == 0 && isLike && !hasActiveEdge(ctx, c, to, from) {
				if err := seedMutualMatch(ctx, c, from, to); err != nil {
					return err
				}
				counter++
				continue
			}

			if err := seedEdge(ctx, c, from, to, isLike); err != nil {
				return err
			}
			counter++
		}
	}

	return nil
}

// seedEdge inserts a single like/dislike edge and appends the id to both
// users' likes lists, mirroring the engine's write sequence.
func seedEdge(ctx context.Context, c *Client, from, to string, isLike bool) error {
	like := Like{
		UserID:      from,
		LikedUserID: to,
		IsLike:      isLike,
		Active:      true,
		CreatedAt:   time.Now(),
	}
	res, err := c.Likes().InsertOne(ctx, like)
	if err != nil {
		return fmt.Errorf("failed to seed like: %w", err)
	}
	id := res.InsertedID.(bson.ObjectID)

	_, err = c.Users().UpdateMany(ctx,
		bson.M{"username": bson.M{"$in": []string{from, to}}},
		bson.M{"$push": bson.M{"likes": id}},
	)
	if err != nil {
		return fmt.Errorf("failed to append like refs: %w", err)
	}
	return nil
}

// seedMutualMatch writes the post-match state for a pair: two deactivated
// likes sharing a deletion timestamp plus an active match referenced on
// both users.
func seedMutualMatch(ctx context.Context, c *Client, a, b string) error {
	now := time.Now()

	for _, pair := range [][2]string{{a, b}, {b, a}} {
		like := Like{
			UserID:      pair[0],
			LikedUserID: pair[1],
			IsLike:      true,
			Active:      false,
			CreatedAt:   now.Add(-time.Hour),
			DeletedAt:   &now,
		}
		res, err := c.Likes().InsertOne(ctx, like)
		if err != nil {
			return fmt.Errorf("failed to seed consumed like: %w", err)
		}
		id := res.InsertedID.(bson.ObjectID)
		if _, err := c.Users().UpdateMany(ctx,
			bson.M{"username": bson.M{"$in": []string{a, b}}},
			bson.M{"$push": bson.M{"likes": id}},
		); err != nil {
			return fmt.Errorf("failed to append like refs: %w", err)
		}
	}

	match := Match{
		UserID:        a,
		MatchedUserID: b,
		Active:        true,
		CreatedAt:     now,
	}
	res, err := c.Matches().InsertOne(ctx, match)
	if err != nil {
		return fmt.Errorf("failed to seed match: %w", err)
	}
	matchID := res.InsertedID.(bson.ObjectID)

	_, err = c.Users().UpdateMany(ctx,
		bson.M{"username": bson.M{"$in": []string{a, b}}},
		bson.M{"$push": bson.M{"matches": matchID}},
	)
	if err != nil {
		return fmt.Errorf("failed to append match refs: %w", err)
	}
	return nil
}

func hasActiveEdge(ctx context.Context, c *Client, from, to string) bool {
	n, err := c.Likes().CountDocuments(ctx, bson.M{
		"user_id":       from,
		"liked_user_id": to,
		"active":        true,
	})
	return err == nil && n > 0
}

func pickSome(r *rand.Rand, pool []string) string {
	n := r.Intn(3) + 1
	picked := ""
	for i := 0; i < n; i++ {
		if picked != "" {
			picked += ", "
		}
		picked += pool[r.Intn(len(pool))]
	}
	return picked
}
