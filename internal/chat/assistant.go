package chat

import (
	"context"
	"fmt"
	"strings"

	"newt/internal/llm"
	"newt/internal/logger"
	"newt/internal/summary"
)

const systemPrompt = "You are a helpful tech-news assistant. Answer the " +
	"user's question using the provided digest excerpts when they are " +
	"relevant, and say so when they are not."

// Assistant answers free-form questions against the stored digests:
// embed the question, retrieve the most similar summaries, and hand both to
// the language model.
type Assistant struct {
	Summaries *summary.Repo
	LLM       llm.Client
	TopK      int
}

func NewAssistant(repo *summary.Repo, client llm.Client, topK int) *Assistant {
	if topK <= 0 {
		topK = 3
	}
	return &Assistant{Summaries: repo, LLM: client, TopK: topK}
}

type Answer struct {
	Text    string   `json:"answer"`
	Sources []uint64 `json:"summary_ids"`
}

func (a *Assistant) Ask(ctx context.Context, question string) (Answer, error) {
	var retrieved []summary.Scored

	emb, err := a.LLM.Embed(ctx, question)
	if err != nil {
		// degrade to an uncontextualized answer rather than failing the chat
		logger.L().Warn("question embedding failed", "err", err)
	} else {
		retrieved, err = a.Summaries.MostSimilar(ctx, emb, a.TopK)
		if err != nil {
			return Answer{}, err
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	for i, sc := range retrieved {
		fmt.Fprintf(&b, "Digest %d (%s):\nTitle: %s\n%s\n\n", i+1, sc.Summary.Topic, sc.Summary.Title, sc.Summary.Body)
	}

	text, err := a.LLM.GenerateText(ctx, systemPrompt, b.String())
	if err != nil {
		return Answer{}, err
	}

	ans := Answer{Text: strings.TrimSpace(text)}
	for _, sc := range retrieved {
		ans.Sources = append(ans.Sources, sc.Summary.ID)
	}
	return ans, nil
}
