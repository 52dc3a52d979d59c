package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dkapoor/ledgerlens/internal/api/middleware"
	"github.com/dkapoor/ledgerlens/internal/upload"
)

// maxUploadBytes caps the multipart form size (64 MiB).
const maxUploadBytes = 64 << 20

// OpenUploadSession handles POST /api/upload/session. The client opens a
// session first so it can subscribe to progress before starting the upload.
func (h *Handler) OpenUploadSession(w http.ResponseWriter, r *http.Request) {
	id := h.uploads.Broker().Open()
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"uploadId": id})
}

// Upload handles POST /api/upload. The workbook arrives as multipart field
// "file"; an optional uploadId query parameter ties the run to a previously
// opened progress session.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if err := upload.ValidateFilename(header.Filename); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	uploadID := r.URL.Query().Get("uploadId")
	if uploadID == "" {
		uploadID = h.uploads.Broker().Open()
	}

	rows, err := h.uploads.Process(r.Context(), uploadID, file)
	if err != nil {
		h.log.Error().Err(err).Str("upload_id", uploadID).Msg("upload failed")
		if errors.Is(err, upload.ErrNotXLSX) {
			middleware.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		middleware.WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"error":    "Upload failed",
			"uploadId": uploadID,
			"rows":     rows,
		})
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Upload completed",
		"uploadId": uploadID,
		"rows":     rows,
		"time":     fmt.Sprintf("%.2f", time.Since(start).Seconds()),
	})
}

// UploadProgress handles GET /api/upload/progress?uploadId=... as a
// server-sent event stream. The stream ends when the upload completes or
// fails.
func (h *Handler) UploadProgress(w http.ResponseWriter, r *http.Request) {
	uploadID := r.URL.Query().Get("uploadId")
	if uploadID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "uploadId is required")
		return
	}

	events, cancel, err := h.uploads.Broker().Subscribe(uploadID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	defer cancel()

	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.WriteError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			if ev.Status == "completed" || ev.Status == "failed" {
				return
			}
		}
	}
}
