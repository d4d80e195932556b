// Package api provides HTTP API handlers for the Mudra interaction
// engine.
package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

// TuningAccess is the engine-side surface for the tuning API: reads return
// a consistent snapshot, and updates are handed to the frame loop, which
// installs them at the next frame boundary.
type TuningAccess interface {
	Tuning() config.Tuning
	ApplyTuning(t config.Tuning)
}

// TuningHandler serves the live tuning parameters and persists updates to
// the settings store. Updates take effect from the next processed frame
// and survive restarts through the settings store.
type TuningHandler struct {
	access TuningAccess
	store  *store.Store
	mu     sync.Mutex
}

// NewTuningHandler creates a TuningHandler. store may be nil, in which
// case updates are accepted but not persisted.
func NewTuningHandler(access TuningAccess, s *store.Store) *TuningHandler {
	return &TuningHandler{access: access, store: s}
}

// ServeHTTP implements the http.Handler interface.
func (h *TuningHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w)
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TuningHandler) get(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, h.access.Tuning())
}

func (h *TuningHandler) update(w http.ResponseWriter, r *http.Request) {
	// Serialize concurrent PUTs so their read-modify-write cycles do not
	// interleave; the frame loop itself is untouched by this lock.
	h.mu.Lock()
	defer h.mu.Unlock()

	updated := h.access.Tuning()
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid tuning payload"})
		return
	}

	h.access.ApplyTuning(updated)

	if h.store != nil {
		data, err := updated.YAML()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to serialize tuning"})
			return
		}
		if err := h.store.Settings().Set(store.TuningKey, string(data)); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to persist tuning"})
			return
		}
	}

	writeJSON(w, http.StatusOK, updated)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
