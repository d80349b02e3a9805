package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"newt/internal/jobs"
	"newt/internal/reading"
	"newt/internal/summary"
)

type SummaryHandler struct {
	Summaries *summary.Repo
	Reading   *reading.Service
	Jobs      *jobs.Repo
	Topics    []string
}

type summaryDTO struct {
	ID      uint64    `json:"id"`
	Topic   string    `json:"topic"`
	Title   string    `json:"title"`
	Summary string    `json:"summary"`
	Sources []string  `json:"sources"`
	Date    time.Time `json:"date"`
}

func toDTO(s summary.Summary) summaryDTO {
	return summaryDTO{
		ID:      s.ID,
		Topic:   s.Topic,
		Title:   s.Title,
		Summary: s.Body,
		Sources: []string(s.Sources),
		Date:    s.CreatedAt,
	}
}

func toDTOs(in []summary.Summary) []summaryDTO {
	out := make([]summaryDTO, 0, len(in))
	for _, s := range in {
		out = append(out, toDTO(s))
	}
	return out
}

// Recent serves the generic summary list.
func (h *SummaryHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 10, 100)
	rows, err := h.Summaries.Recent(r.Context(), limit)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDTOs(rows))
}

// Today serves summaries created since midnight in the reporting timezone.
func (h *SummaryHandler) Today(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Summaries.CreatedSince(r.Context(), h.Reading.StartOfToday())
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDTOs(rows))
}

// Past serves older summaries, optionally filtered by topic.
func (h *SummaryHandler) Past(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 20, 200)
	topic := strings.TrimSpace(r.URL.Query().Get("topic"))

	var (
		rows []summary.Summary
		err  error
	)
	if topic != "" {
		rows, err = h.Summaries.ByTopic(r.Context(), topic, limit)
	} else {
		rows, err = h.Summaries.Recent(r.Context(), limit)
	}
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDTOs(rows))
}

func (h *SummaryHandler) ByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	s, err := h.Summaries.ByID(r.Context(), id)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDTO(s))
}

func (h *SummaryHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.Summaries.Topics(r.Context())
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"topics": topics})
}

// Generate enqueues one digest job per curated topic.
func (h *SummaryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	enqueued := 0
	for _, topic := range h.Topics {
		if err := h.Jobs.EnqueueDigest(topic, now); err != nil {
			mapError(w, err)
			return
		}
		enqueued++
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"enqueued": enqueued})
}

func queryLimit(r *http.Request, def, max int) int {
	v := strings.TrimSpace(r.URL.Query().Get("limit"))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
