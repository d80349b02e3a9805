package summary

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("summary not found")

type Repo struct {
	DB *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Save(ctx context.Context, s *Summary) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *Repo) ByID(ctx context.Context, id uint64) (Summary, error) {
	var s Summary
	err := r.DB.WithContext(ctx).First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Summary{}, ErrNotFound
	}
	return s, err
}

func (r *Repo) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&Summary{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Recent returns the newest summaries, newest first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Summary, error) {
	var out []Summary
	err := r.DB.WithContext(ctx).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CreatedSince returns summaries created at or after the cutoff, newest first.
// Callers pass the start of "today" in the reporting timezone.
func (r *Repo) CreatedSince(ctx context.Context, cutoff time.Time) ([]Summary, error) {
	var out []Summary
	err := r.DB.WithContext(ctx).
		Where("created_at >= ?", cutoff).
		Order("created_at desc, id desc").
		Find(&out).Error
	return out, err
}

func (r *Repo) ByTopic(ctx context.Context, topic string, limit int) ([]Summary, error) {
	var out []Summary
	err := r.DB.WithContext(ctx).
		Where("topic = ?", topic).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *Repo) Topics(ctx context.Context) ([]string, error) {
	var out []string
	err := r.DB.WithContext(ctx).Model(&Summary{}).
		Distinct("topic").
		Order("topic asc").
		Pluck("topic", &out).Error
	return out, err
}

// MostSimilar ranks stored summaries by cosine similarity to the query
// embedding and returns the top k. Exact brute-force scan; the corpus is one
// digest per topic per day, so there is nothing to index. Candidates are
// loaded in a fixed order (created_at desc, id desc) which makes tie-breaking
// deterministic across calls.
func (r *Repo) MostSimilar(ctx context.Context, query []float64, k int) ([]Scored, error) {
	var candidates []Summary
	err := r.DB.WithContext(ctx).
		Where("embedding is not null").
		Order("created_at desc, id desc").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	return rank(candidates, query, k), nil
}
