package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"newt/internal/auth"
	"newt/internal/reading"
	"newt/internal/user"
)

type AuthHandler struct {
	Users   *user.Service
	Reading *reading.Service
	JWT     *auth.JWT
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	u, err := h.Users.Create(r.Context(), req.Email, hash)
	if err != nil {
		mapError(w, err)
		return
	}

	token, err := h.JWT.Sign(u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"token": token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}

	u, err := h.Users.ByEmail(r.Context(), req.Email)
	if err != nil || !auth.ComparePassword(u.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.JWT.Sign(u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"token": token})
}

// Me returns the authenticated user's identity plus ledger stats.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	u, err := h.Users.ByID(r.Context(), uid)
	if err != nil {
		mapError(w, err)
		return
	}
	stats, err := h.Reading.UserStats(r.Context(), uid)
	if err != nil {
		mapError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":              u.ID,
		"email":                u.Email,
		"points":               stats.Points,
		"total_summaries_read": stats.TotalReads,
		"today_reads":          stats.TodayReads,
		"streak":               stats.Streak,
	})
}
