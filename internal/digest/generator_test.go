package digest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"newt/internal/news"
	"newt/internal/summary"
)

type fakeFetcher struct {
	articles []news.Article
	err      error
}

func (f *fakeFetcher) Search(_ context.Context, _ string, _ int) ([]news.Article, error) {
	return f.articles, f.err
}

type fakeLLM struct {
	reply     string
	embedding []float64
	embedErr  error
}

func (f *fakeLLM) Embed(_ context.Context, _ string) ([]float64, error) {
	return f.embedding, f.embedErr
}

func (f *fakeLLM) GenerateText(_ context.Context, _, _ string) (string, error) {
	return f.reply, nil
}

func newTestRepo(t *testing.T) *summary.Repo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&summary.Summary{}))

	return summary.NewRepo(db)
}

func TestGenerateTopic(t *testing.T) {
	repo := newTestRepo(t)
	fetcher := &fakeFetcher{articles: []news.Article{
		{Title: "a", Description: "d", Content: "c", URL: "https://example.com/a"},
		{Title: "b", Description: "d", Content: "c", URL: "https://example.com/b"},
	}}
	llmFake := &fakeLLM{reply: "  the digest body  ", embedding: []float64{0.1, 0.2}}

	g := NewGenerator(fetcher, llmFake, repo)
	s, err := g.GenerateTopic(context.Background(), "cybersecurity")
	require.NoError(t, err)

	assert.Equal(t, "cybersecurity", s.Topic)
	assert.Equal(t, "Tech Updates: cybersecurity", s.Title)
	assert.Equal(t, "the digest body", s.Body)
	assert.Len(t, s.Sources, 2)
	assert.Len(t, s.Embedding, 2)

	stored, err := repo.ByID(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Body, stored.Body)
}

func TestGenerateTopicNoArticles(t *testing.T) {
	g := NewGenerator(&fakeFetcher{}, &fakeLLM{}, newTestRepo(t))

	_, err := g.GenerateTopic(context.Background(), "cybersecurity")
	assert.ErrorIs(t, err, ErrNoArticles)
}

func TestGenerateTopicFetchError(t *testing.T) {
	g := NewGenerator(&fakeFetcher{err: errors.New("api down")}, &fakeLLM{}, newTestRepo(t))

	_, err := g.GenerateTopic(context.Background(), "cybersecurity")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoArticles)
}

func TestGenerateTopicSavesWithoutEmbedding(t *testing.T) {
	repo := newTestRepo(t)
	fetcher := &fakeFetcher{articles: []news.Article{{Title: "a", URL: "https://example.com/a"}}}
	llmFake := &fakeLLM{reply: "body", embedErr: errors.New("embed down")}

	g := NewGenerator(fetcher, llmFake, repo)
	s, err := g.GenerateTopic(context.Background(), "startups")
	require.NoError(t, err)
	assert.Empty(t, s.Embedding)

	// Still servable from storage.
	_, err = repo.ByID(context.Background(), s.ID)
	require.NoError(t, err)
}
