package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dataqueryai/dataquery/internal/dataset"
	"github.com/dataqueryai/dataquery/internal/metrics"
	"github.com/dataqueryai/dataquery/internal/middleware"
	"github.com/dataqueryai/dataquery/internal/qa"
)

// ==========================
// QA Handler
// ==========================
type QAHandler struct {
	Datasets *dataset.Store
	Model    qa.Answerer
}

// ==========================
// Ask (question about the current dataset)
// ==========================
func (h *QAHandler) Ask(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsername(r.Context())
	if !ok {
		JSONError(w, "no session", http.StatusUnauthorized)
		return
	}

	var input struct {
		Question string `json:"question"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if input.Question == "" {
		metrics.IncQARequests("rejected")
		JSONValidationError(w, "validation failed",
			map[string]string{"question": "required"}, http.StatusBadRequest)
		return
	}

	ds, ok := h.Datasets.Get(username)
	if !ok {
		metrics.IncQARequests("rejected")
		JSONError(w, "no dataset uploaded", http.StatusConflict)
		return
	}

	// Blocks until the model replies; r.Context() cancels on disconnect.
	answer, err := h.Model.Answer(r.Context(), ds.ColumnTable(), input.Question)
	if err != nil {
		metrics.IncQARequests("error")
		slog.Error("model call failed", "username", username, "error", err)
		JSONError(w, "question answering failed", http.StatusBadGateway)
		return
	}

	metrics.IncQARequests("answered")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(answer)
}
