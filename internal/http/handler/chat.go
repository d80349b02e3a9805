package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"newt/internal/chat"
)

type ChatHandler struct {
	Assistant *chat.Assistant
}

type askReq struct {
	Question string `json:"question"`
}

func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question required")
		return
	}

	ans, err := h.Assistant.Ask(r.Context(), req.Question)
	if err != nil {
		writeError(w, http.StatusBadGateway, "assistant unavailable")
		return
	}
	writeJSON(w, http.StatusOK, ans)
}
