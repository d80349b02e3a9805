package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"newt/internal/auth"
	"newt/internal/feed"
	"newt/internal/like"
	"newt/internal/summary"
)

type FeedHandler struct {
	Feed      *feed.Assembler
	Likes     *like.Repo
	Summaries *summary.Repo
}

// Personalized serves the interest-driven feed. Users without likes fall
// back to the generic recent list.
func (h *FeedHandler) Personalized(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	rows, err := h.Feed.Personalized(r.Context(), uid)
	if err != nil {
		mapError(w, err)
		return
	}

	personalized := true
	if len(rows) == 0 {
		personalized = false
		rows, err = h.Summaries.Recent(r.Context(), 10)
		if err != nil {
			mapError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"personalized": personalized,
		"summaries":    toDTOs(rows),
	})
}

type likeReq struct {
	Topic string `json:"topic"`
}

func (h *FeedHandler) LikeTopic(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req likeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	req.Topic = strings.TrimSpace(strings.ToLower(req.Topic))
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic required")
		return
	}

	added, err := h.Likes.Add(r.Context(), uid, req.Topic)
	if err != nil {
		mapError(w, err)
		return
	}
	if added {
		h.Feed.Invalidate(r.Context(), uid)
	}
	writeJSON(w, http.StatusOK, map[string]any{"liked": true, "new": added})
}

func (h *FeedHandler) UnlikeTopic(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req likeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	req.Topic = strings.TrimSpace(strings.ToLower(req.Topic))
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic required")
		return
	}

	removed, err := h.Likes.Remove(r.Context(), uid, req.Topic)
	if err != nil {
		mapError(w, err)
		return
	}
	if removed {
		h.Feed.Invalidate(r.Context(), uid)
	}
	writeJSON(w, http.StatusOK, map[string]any{"liked": false, "removed": removed})
}

func (h *FeedHandler) ListLikes(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	topics, err := h.Likes.TopicsFor(r.Context(), uid)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"topics": topics})
}
