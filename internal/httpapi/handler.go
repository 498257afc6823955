package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/rpattn/coreqc/internal/qc"
	"github.com/rpattn/coreqc/internal/tabular"
)

const maxUploadBytes = 32 << 20

// Handler exposes log validation as an HTTP endpoint.
type Handler struct {
	service *qc.Service
}

// NewHTTPHandler wraps the service with a POST endpoint.
func NewHTTPHandler(service *qc.Service) http.Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("invalid form data: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("file required: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if !tabular.HasExtension(name, h.service.Limits().Extension) {
		http.Error(w, fmt.Sprintf("%v: %s", tabular.ErrNotLogFile, name), http.StatusBadRequest)
		return
	}

	table, err := tabular.Decode(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read log: %v", err), http.StatusBadRequest)
		return
	}

	result := h.service.ValidateTable(name, table)
	writeJSON(w, http.StatusOK, result)
}

// Health answers liveness probes.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
