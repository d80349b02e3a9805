package feed

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"newt/internal/cache"
	"newt/internal/like"
	"newt/internal/logger"
	"newt/internal/summary"
)

// ErrEmbedUnavailable is returned when the user has interest signals but the
// embedding provider failed for every one of them. A partial failure degrades
// the feed; a total failure is an error the caller can retry.
var ErrEmbedUnavailable = errors.New("embedding provider unavailable")

const feedCacheTTL = 10 * time.Minute

// Embedder is the slice of the LLM client the assembler needs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

type Assembler struct {
	Likes     *like.Repo
	Summaries *summary.Repo
	Embedder  Embedder
	Cache     *cache.RedisCache

	// PerTopic is how many nearest summaries each interest signal pulls in.
	PerTopic int
}

func NewAssembler(likes *like.Repo, summaries *summary.Repo, emb Embedder, c *cache.RedisCache, perTopic int) *Assembler {
	if perTopic <= 0 {
		perTopic = 2
	}
	return &Assembler{Likes: likes, Summaries: summaries, Embedder: emb, Cache: c, PerTopic: perTopic}
}

// Personalized builds the feed for a user: embed each liked topic, take the
// PerTopic most similar summaries per topic, merge with first-occurrence
// dedup, and order by creation date descending. A user with no likes gets an
// empty feed; the caller falls back to the generic recent list.
func (a *Assembler) Personalized(ctx context.Context, userID uint64) ([]summary.Summary, error) {
	topics, err := a.Likes.TopicsFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(topics) == 0 {
		return nil, nil
	}

	if cached, ok := a.fromCache(ctx, userID); ok {
		return cached, nil
	}

	var (
		merged []summary.Summary
		seen   = make(map[uint64]struct{})
		failed int
	)
	for _, topic := range topics {
		emb, err := a.Embedder.Embed(ctx, topic)
		if err != nil {
			logger.L().Warn("interest signal embedding failed", "topic", topic, "err", err)
			failed++
			continue
		}

		scored, err := a.Summaries.MostSimilar(ctx, emb, a.PerTopic)
		if err != nil {
			return nil, err
		}
		for _, sc := range scored {
			if _, dup := seen[sc.Summary.ID]; dup {
				continue
			}
			seen[sc.Summary.ID] = struct{}{}
			merged = append(merged, sc.Summary)
		}
	}

	if failed == len(topics) {
		return nil, ErrEmbedUnavailable
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if !merged[i].CreatedAt.Equal(merged[j].CreatedAt) {
			return merged[i].CreatedAt.After(merged[j].CreatedAt)
		}
		return merged[i].ID > merged[j].ID
	})

	a.toCache(ctx, userID, merged)
	return merged, nil
}

// Invalidate drops the cached feed, called when interest signals change.
func (a *Assembler) Invalidate(ctx context.Context, userID uint64) {
	if a.Cache == nil {
		return
	}
	if err := a.Cache.Del(ctx, a.Cache.KeyForFeed(userID)); err != nil {
		logger.L().Warn("feed cache invalidation failed", "user_id", userID, "err", err)
	}
}

func (a *Assembler) fromCache(ctx context.Context, userID uint64) ([]summary.Summary, bool) {
	if a.Cache == nil {
		return nil, false
	}
	raw, err := a.Cache.Get(ctx, a.Cache.KeyForFeed(userID))
	if err != nil {
		return nil, false
	}
	var out []summary.Summary
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, false
	}
	return out, true
}

func (a *Assembler) toCache(ctx context.Context, userID uint64, feed []summary.Summary) {
	if a.Cache == nil {
		return
	}
	b, err := json.Marshal(feed)
	if err != nil {
		return
	}
	if err := a.Cache.Set(ctx, a.Cache.KeyForFeed(userID), string(b), feedCacheTTL); err != nil {
		logger.L().Warn("feed cache write failed", "user_id", userID, "err", err)
	}
}
