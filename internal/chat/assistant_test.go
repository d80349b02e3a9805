package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"newt/internal/summary"
)

type fakeLLM struct {
	embedding  []float64
	embedErr   error
	reply      string
	genErr     error
	lastPrompt string
}

func (f *fakeLLM) Embed(_ context.Context, _ string) ([]float64, error) {
	return f.embedding, f.embedErr
}

func (f *fakeLLM) GenerateText(_ context.Context, _, user string) (string, error) {
	f.lastPrompt = user
	return f.reply, f.genErr
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

func TestAskWithRetrieval(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	relevant := summary.Summary{Topic: "ai", Title: "AI digest", Body: "model news", Embedding: []float64{1, 0}}
	offTopic := summary.Summary{Topic: "cloud", Title: "Cloud digest", Body: "outage news", Embedding: []float64{0, 1}}
	require.NoError(t, repo.Save(ctx, &relevant))
	require.NoError(t, repo.Save(ctx, &offTopic))

	llmFake := &fakeLLM{embedding: []float64{1, 0}, reply: " answer text "}
	a := NewAssistant(repo, llmFake, 1)

	ans, err := a.Ask(ctx, "what happened in AI?")
	require.NoError(t, err)

	assert.Equal(t, "answer text", ans.Text)
	assert.Equal(t, []uint64{relevant.ID}, ans.Sources)
	assert.True(t, strings.Contains(llmFake.lastPrompt, "model news"))
	assert.True(t, strings.Contains(llmFake.lastPrompt, "what happened in AI?"))
}

func TestAskDegradesWhenEmbeddingFails(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	s := summary.Summary{Topic: "ai", Title: "AI digest", Body: "model news", Embedding: []float64{1, 0}}
	require.NoError(t, repo.Save(ctx, &s))

	llmFake := &fakeLLM{embedErr: errors.New("embed down"), reply: "best effort"}
	a := NewAssistant(repo, llmFake, 3)

	ans, err := a.Ask(ctx, "anything new?")
	require.NoError(t, err)

	assert.Equal(t, "best effort", ans.Text)
	assert.Empty(t, ans.Sources)
	assert.False(t, strings.Contains(llmFake.lastPrompt, "model news"))
}

func TestAskGenerateFailure(t *testing.T) {
	repo := newTestRepo(t)

	llmFake := &fakeLLM{embedding: []float64{1, 0}, genErr: errors.New("llm down")}
	a := NewAssistant(repo, llmFake, 3)

	_, err := a.Ask(context.Background(), "hello")
	assert.Error(t, err)
}
