package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"newt/internal/digest"
	"newt/internal/logger"
)

type Worker struct {
	ID        string
	Repo      *Repo
	Generator *digest.Generator
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job, err := w.Repo.Claim(w.ID)
			if err != nil {
				logger.L().Error("worker claim failed", "worker", w.ID, "err", err)
				continue
			}
			if job == nil {
				continue
			}
			w.handle(ctx, job)
		}
	}
}

func (w *Worker) handle(ctx context.Context, job *Job) {
	switch job.Type {
	case TypeDigestGenerate:
		w.handleDigest(ctx, job)
	default:
		_ = w.Repo.MarkFailed(job.ID, "unknown job type")
	}
}

func (w *Worker) handleDigest(ctx context.Context, job *Job) {
	type payload struct {
		Topic string `json:"topic"`
	}
	var p payload
	if err := json.Unmarshal(job.Payload, &p); err != nil || p.Topic == "" {
		_ = w.Repo.MarkFailed(job.ID, "bad payload")
		return
	}

	s, err := w.Generator.GenerateTopic(ctx, p.Topic)
	if err != nil {
		if errors.Is(err, digest.ErrNoArticles) {
			// nothing newsworthy today; not a worker failure
			logger.L().Info("no articles for topic", "topic", p.Topic)
			_ = w.Repo.MarkDone(job.ID)
			return
		}
		w.retry(job, err.Error())
		return
	}

	logger.L().Info("digest generated", "topic", p.Topic, "summary_id", s.ID)
	_ = w.Repo.MarkDone(job.ID)
}

func (w *Worker) retry(job *Job, errMsg string) {
	attempts := job.Attempts + 1
	if attempts >= job.MaxAttempts {
		_ = w.Repo.MarkFailed(job.ID, errMsg)
		return
	}

	sec := math.Min(math.Pow(2, float64(attempts)), 600)
	next := time.Now().Add(time.Duration(sec) * time.Second)

	_ = w.Repo.RetryLater(job.ID, attempts, next, errMsg)
}
