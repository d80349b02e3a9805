package news

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchFiltersNonTech(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"q":     r.URL.Query().Get("q"),
			"max":   r.URL.Query().Get("max"),
			"token": r.URL.Query().Get("token"),
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"articles": []map[string]string{
				{"title": "New AI model released", "url": "https://example.com/1"},
				{"title": "Celebrity wedding photos", "url": "https://example.com/2"},
				{"title": "Cloud computing outage", "url": "https://example.com/3"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key123")
	articles, err := c.Search(context.Background(), "ai", 5)
	require.NoError(t, err)

	require.Len(t, articles, 2)
	assert.Equal(t, "New AI model released", articles[0].Title)
	assert.Equal(t, "Cloud computing outage", articles[1].Title)

	assert.Equal(t, "technology ai", gotQuery["q"])
	assert.Equal(t, "10", gotQuery["max"])
	assert.Equal(t, "key123", gotQuery["token"])
}

func TestSearchCapsAtMax(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out := make([]map[string]string, 0, 6)
		for i := 0; i < 6; i++ {
			out = append(out, map[string]string{"title": "software update"})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"articles": out})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key")
	articles, err := c.Search(context.Background(), "software", 2)
	require.NoError(t, err)
	assert.Len(t, articles, 2)
}

func TestSearchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key")
	_, err := c.Search(context.Background(), "ai", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestIsTechRelated(t *testing.T) {
	assert.True(t, isTechRelated("Advances in Machine Learning"))
	assert.True(t, isTechRelated("the startup raised funds"))
	assert.False(t, isTechRelated("local sports results"))
}
