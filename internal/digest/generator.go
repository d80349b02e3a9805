package digest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"newt/internal/llm"
	"newt/internal/logger"
	"newt/internal/news"
	"newt/internal/summary"
)

// DefaultTopics is the curated set a full digest run covers.
var DefaultTopics = []string{
	"machine learning",
	"semiconductors",
	"startups",
	"programming languages",
	"web development",
	"artificial intelligence",
	"software engineering",
	"cloud computing",
	"cybersecurity",
	"data science",
}

var ErrNoArticles = errors.New("no articles found for topic")

const articlesPerTopic = 5

// Fetcher is the slice of the news client the generator needs.
type Fetcher interface {
	Search(ctx context.Context, topic string, max int) ([]news.Article, error)
}

// Generator turns a topic into a stored digest: fetch articles, summarize
// them with the language model, embed the result, persist.
type Generator struct {
	News      Fetcher
	LLM       llm.Client
	Summaries *summary.Repo
}

func NewGenerator(fetcher Fetcher, client llm.Client, repo *summary.Repo) *Generator {
	return &Generator{News: fetcher, LLM: client, Summaries: repo}
}

func (g *Generator) GenerateTopic(ctx context.Context, topic string) (*summary.Summary, error) {
	articles, err := g.News.Search(ctx, topic, articlesPerTopic)
	if err != nil {
		return nil, fmt.Errorf("fetching articles for %q: %w", topic, err)
	}
	if len(articles) == 0 {
		return nil, ErrNoArticles
	}

	body, err := g.LLM.GenerateText(ctx, summarizerPrompt, buildPrompt(topic, articles))
	if err != nil {
		return nil, fmt.Errorf("summarizing %q: %w", topic, err)
	}
	body = strings.TrimSpace(body)

	s := &summary.Summary{
		Topic:   topic,
		Title:   "Tech Updates: " + topic,
		Body:    body,
		Sources: sourceURLs(articles),
	}

	// a digest without an embedding is still servable, it just won't rank
	// in similarity retrieval
	if emb, err := g.LLM.Embed(ctx, body); err != nil {
		logger.L().Warn("digest embedding failed", "topic", topic, "err", err)
	} else {
		s.Embedding = emb
	}

	if err := g.Summaries.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("saving digest for %q: %w", topic, err)
	}
	return s, nil
}

const summarizerPrompt = "You are a neutral, fact-based news summarizer. " +
	"Summarize the provided articles in a balanced and unbiased way, " +
	"reflecting all perspectives."

func buildPrompt(topic string, articles []news.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the following %d articles about %q.\n\n", len(articles), topic)
	for i, a := range articles {
		fmt.Fprintf(&b, "Article %d:\nTitle: %s\nContent: %s\n%s\n\n", i+1, a.Title, a.Description, a.Content)
	}
	return b.String()
}

func sourceURLs(articles []news.Article) pq.StringArray {
	urls := make(pq.StringArray, 0, len(articles))
	for _, a := range articles {
		if a.URL != "" {
			urls = append(urls, a.URL)
		}
	}
	return urls
}
