package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dkapoor/ledgerlens/internal/api/middleware"
	"github.com/dkapoor/ledgerlens/internal/query"
)

// Columns handles GET /api/query/columns
func (h *Handler) Columns(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"columns": h.queries.Columns()})
}

// Paginate handles POST /api/query/paginate
func (h *Handler) Paginate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Page      int64  `json:"page"`
		Limit     int64  `json:"limit"`
		SortBy    string `json:"sortBy"`
		SortOrder int    `json:"sortOrder"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	res, err := h.queries.Paginate(r.Context(), req.Page, req.Limit, req.SortBy, req.SortOrder)
	if err != nil {
		h.log.Error().Err(err).Msg("paginate failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load entries")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, res)
}

// Statistics handles GET /api/query/stats
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.queries.Statistics(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("statistics failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, stats)
}

// Filter handles POST /api/query/filter
func (h *Handler) Filter(w http.ResponseWriter, r *http.Request) {
	var f query.Filters
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	res, err := h.queries.Filter(r.Context(), f)
	if err != nil {
		h.log.Error().Err(err).Msg("filter failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to filter entries")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, res)
}

// Search handles POST /api/query/search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SearchText string   `json:"searchText"`
		Columns    []string `json:"columns"`
		Limit      int64    `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	rows, err := h.queries.Search(r.Context(), req.SearchText, req.Columns, req.Limit)
	if err != nil {
		h.log.Error().Err(err).Msg("search failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to search entries")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"data": rows, "count": len(rows)})
}

// FilterByAmount handles POST /api/query/amount
func (h *Handler) FilterByAmount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MinAmount *float64 `json:"minAmount"`
		MaxAmount *float64 `json:"maxAmount"`
		Limit     int64    `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	rows, err := h.queries.FilterByAmount(r.Context(), req.MinAmount, req.MaxAmount, req.Limit)
	if err != nil {
		h.log.Error().Err(err).Msg("amount filter failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to filter entries")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"data": rows, "count": len(rows)})
}

// FilterByDate handles POST /api/query/date
func (h *Handler) FilterByDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
		DateField string `json:"dateField"`
		Limit     int64  `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	rows, err := h.queries.FilterByDate(r.Context(), req.StartDate, req.EndDate, req.DateField, req.Limit)
	if err != nil {
		h.log.Error().Err(err).Msg("date filter failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to filter entries")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"data": rows, "count": len(rows)})
}

// FilterByStatus handles POST /api/query/status
func (h *Handler) FilterByStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InitiatorStatus string `json:"initiatorStatus"`
		L1Status        string `json:"l1Status"`
		L2Status        string `json:"l2Status"`
		Limit           int64  `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	rows, err := h.queries.FilterByStatus(r.Context(), req.InitiatorStatus, req.L1Status, req.L2Status, req.Limit)
	if err != nil {
		h.log.Error().Err(err).Msg("status filter failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to filter entries")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"data": rows, "count": len(rows)})
}
