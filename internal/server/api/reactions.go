package api

import (
	"net/http"

	"github.com/ayusman/mudra/internal/store"
)

// ReactionsHandler serves per-object reaction counts and recent reaction
// history.
type ReactionsHandler struct {
	store *store.Store
}

// NewReactionsHandler creates a ReactionsHandler with the given store.
func NewReactionsHandler(s *store.Store) *ReactionsHandler {
	return &ReactionsHandler{store: s}
}

type reactionCountsResponse struct {
	ObjectKey string         `json:"object_key"`
	Counts    map[string]int `json:"counts"`
}

// ServeHTTP implements the http.Handler interface.
// GET /api/reactions?object={key} returns counts per reaction kind.
func (h *ReactionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	objectKey := r.URL.Query().Get("object")
	if objectKey == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing object parameter"})
		return
	}

	counts, err := h.store.Reactions().CountsFor(objectKey)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load reaction counts"})
		return
	}

	writeJSON(w, http.StatusOK, reactionCountsResponse{
		ObjectKey: objectKey,
		Counts:    counts,
	})
}
