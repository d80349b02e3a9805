package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Article is one fetched news item, pre-filtered to tech content.
type Article struct {
	Title       string
	Description string
	Content     string
	URL         string
	Image       string
}

// techKeywords filters out non-tech articles the search API lets through.
var techKeywords = []string{
	"ai", "artificial intelligence", "machine learning", "ml", "deep learning",
	"software", "programming", "developer", "coding", "computer science",
	"data science", "technology", "tech", "cybersecurity", "cloud computing",
	"blockchain", "robotics", "automation", "quantum computing", "devops",
	"hardware", "software engineering", "computer vision", "nlp", "api",
	"5g", "iot", "internet of things", "startup", "innovation",
}

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type searchResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		Image       string `json:"image"`
	} `json:"articles"`
}

// Search fetches up to max tech-related articles for a topic. The API is
// over-queried (2x) because the keyword filter drops some results.
func (c *Client) Search(ctx context.Context, topic string, max int) ([]Article, error) {
	q := url.Values{}
	q.Set("q", "technology "+topic)
	q.Set("lang", "en")
	q.Set("max", strconv.Itoa(max*2))
	q.Set("topic", "technology")
	q.Set("token", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("news api error (status %d): %s", resp.StatusCode, string(msg))
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decoding news response: %w", err)
	}

	out := make([]Article, 0, max)
	for _, a := range sr.Articles {
		if !isTechRelated(a.Title + " " + a.Description + " " + a.Content) {
			continue
		}
		out = append(out, Article{
			Title:       a.Title,
			Description: a.Description,
			Content:     a.Content,
			URL:         a.URL,
			Image:       a.Image,
		})
		if len(out) >= max {
			break
		}
	}
	return out, nil
}

func isTechRelated(text string) bool {
	text = strings.ToLower(text)
	for _, kw := range techKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
