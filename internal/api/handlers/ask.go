package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dkapoor/ledgerlens/internal/api/middleware"
)

type askRequest struct {
	Question string `json:"question"`
}

// Ask handles POST /api/ask. A question the system cannot route still gets a
// 200 with guidance and empty data; only operation failures are 5xx.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Question is required")
		return
	}

	resp, err := h.dispatcher.Ask(r.Context(), req.Question)
	if err != nil {
		h.log.Error().Err(err).Str("question", req.Question).Msg("ask failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to answer the question")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, resp)
}
