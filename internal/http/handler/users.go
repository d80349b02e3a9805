package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"newt/internal/auth"
	"newt/internal/user"
)

type UserHandler struct {
	Users *user.Service
}

type userDTO struct {
	UserID uint64 `json:"user_id"`
	Email  string `json:"email"`
	Points int    `json:"points"`
}

func toUserDTOs(in []user.User) []userDTO {
	out := make([]userDTO, 0, len(in))
	for _, u := range in {
		out = append(out, userDTO{UserID: u.ID, Email: u.Email, Points: u.Points})
	}
	return out
}

// List serves the user discovery page.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 50, 200)
	users, err := h.Users.List(r.Context(), limit)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": toUserDTOs(users)})
}

// Profile serves a public profile with follow counts. The is_following flag
// is relative to the authenticated viewer.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFromContext(r.Context())
	targetID, ok := pathUserID(w, r)
	if !ok {
		return
	}

	u, err := h.Users.ByID(r.Context(), targetID)
	if err != nil {
		mapError(w, err)
		return
	}

	followers, err := h.Users.FollowerCount(r.Context(), targetID)
	if err != nil {
		mapError(w, err)
		return
	}
	following, err := h.Users.FollowingCount(r.Context(), targetID)
	if err != nil {
		mapError(w, err)
		return
	}
	isFollowing, err := h.Users.IsFollowing(r.Context(), viewerID, targetID)
	if err != nil {
		mapError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":         u.ID,
		"email":           u.Email,
		"points":          u.Points,
		"follower_count":  followers,
		"following_count": following,
		"is_following":    isFollowing,
		"streak": map[string]any{
			"current": u.StreakCurrent,
			"max":     u.StreakLongest,
		},
	})
}

func (h *UserHandler) Followers(w http.ResponseWriter, r *http.Request) {
	targetID, ok := pathUserID(w, r)
	if !ok {
		return
	}
	users, err := h.Users.Followers(r.Context(), targetID)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"followers": toUserDTOs(users)})
}

func (h *UserHandler) Following(w http.ResponseWriter, r *http.Request) {
	targetID, ok := pathUserID(w, r)
	if !ok {
		return
	}
	users, err := h.Users.Following(r.Context(), targetID)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"following": toUserDTOs(users)})
}

func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	targetID, ok := pathUserID(w, r)
	if !ok {
		return
	}

	if err := h.Users.Follow(r.Context(), uid, targetID); err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	targetID, ok := pathUserID(w, r)
	if !ok {
		return
	}

	if err := h.Users.Unfollow(r.Context(), uid, targetID); err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func pathUserID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}
