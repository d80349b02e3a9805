package handler

import (
	"encoding/json"
	"net/http"

	"newt/internal/auth"
	"newt/internal/reading"
)

type ReadingHandler struct {
	Reading *reading.Service
}

type readSummaryReq struct {
	SummaryID uint64 `json:"summary_id"`
}

// ReadSummary marks a summary as read for the authenticated user. Safe to
// retry: a repeat for the same summary reports already_read and awards
// nothing.
func (h *ReadingHandler) ReadSummary(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req readSummaryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SummaryID == 0 {
		writeError(w, http.StatusBadRequest, "summary_id required")
		return
	}

	res, err := h.Reading.MarkRead(r.Context(), uid, req.SummaryID)
	if err != nil {
		mapError(w, err)
		return
	}

	msg := "marked as read"
	if res.AlreadyRead {
		msg = "already read"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":              true,
		"already_read":         res.AlreadyRead,
		"points_earned":        res.PointsEarned,
		"total_points":         res.TotalPoints,
		"today_reads":          res.TodayReads,
		"total_summaries_read": res.TotalReads,
		"streak":               res.Streak,
		"message":              msg,
	})
}

func (h *ReadingHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	a, err := h.Reading.UserAnalytics(r.Context(), uid)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
