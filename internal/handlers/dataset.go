package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dataqueryai/dataquery/internal/dataset"
	"github.com/dataqueryai/dataquery/internal/metrics"
	"github.com/dataqueryai/dataquery/internal/middleware"
)

// previewRows is how many rows the summary shows from the top of the table.
const previewRows = 5

// ==========================
// Dataset Handler
// ==========================
type DatasetHandler struct {
	Datasets *dataset.Store
}

// datasetSummary is the JSON view of the current dataset: shape plus a
// head-of-table preview, never the full rows.
type datasetSummary struct {
	Name     string     `json:"name"`
	Columns  []string   `json:"columns"`
	RowCount int        `json:"row_count"`
	Preview  [][]string `json:"preview"`
}

func summarize(d *dataset.Dataset) datasetSummary {
	return datasetSummary{
		Name:     d.Name,
		Columns:  d.Columns,
		RowCount: len(d.Rows),
		Preview:  d.Head(previewRows),
	}
}

// ==========================
// Upload (multipart CSV; replaces the user's current dataset)
// ==========================
func (h *DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsername(r.Context())
	if !ok {
		JSONError(w, "no session", http.StatusUnauthorized)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			JSONError(w, "file too large", http.StatusRequestEntityTooLarge)
			return
		}
		JSONError(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ds, err := dataset.ParseCSV(header.Filename, file)
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			JSONError(w, "file too large", http.StatusRequestEntityTooLarge)
		case errors.Is(err, dataset.ErrEmpty):
			JSONError(w, "empty CSV file", http.StatusBadRequest)
		default:
			JSONError(w, "invalid CSV: "+err.Error(), http.StatusBadRequest)
		}
		return
	}

	h.Datasets.Put(username, ds)
	metrics.IncDatasetUploads()
	metrics.SetDatasetsActive(h.Datasets.Len())
	slog.Info("dataset uploaded", "username", username, "name", ds.Name, "rows", len(ds.Rows))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(summarize(ds))
}

// ==========================
// Get (current dataset summary)
// ==========================
func (h *DatasetHandler) Get(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsername(r.Context())
	if !ok {
		JSONError(w, "no session", http.StatusUnauthorized)
		return
	}

	ds, ok := h.Datasets.Get(username)
	if !ok {
		JSONError(w, "no dataset uploaded", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summarize(ds))
}
