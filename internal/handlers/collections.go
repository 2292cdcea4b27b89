package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"monogrid/internal/assets"
)

type CollectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListCollections returns all collections with their asset counts.
func (h *Handlers) ListCollections(w http.ResponseWriter, r *http.Request) {
	cols, err := h.db.ListCollections(r.Context())
	if err != nil {
		writeStoreError(w, err, "Collection not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, cols)
}

// CreateCollection creates a new, empty collection.
func (h *Handlers) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req CollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeJSONError(w, "Name is required", http.StatusBadRequest)
		return
	}

	col, err := h.db.CreateCollection(r.Context(), req.Name, req.Description)
	if err != nil {
		writeStoreError(w, err, "Collection not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, col)
}

// GetCollection returns one collection's metadata.
func (h *Handlers) GetCollection(w http.ResponseWriter, r *http.Request) {
	col, err := h.db.GetCollection(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err, "Collection not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, col)
}

// DeleteCollection removes a collection and its saved assets.
func (h *Handlers) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	if err := h.db.DeleteCollection(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeStoreError(w, err, "Collection not found")
		return
	}
	writeJSONStatus(w, "ok")
}

// ListCollectionAssets returns a collection's saved assets, optionally
// filtered by orientation bucket (landscape, portrait, square).
func (h *Handlers) ListCollectionAssets(w http.ResponseWriter, r *http.Request) {
	orientation := r.URL.Query().Get("orientation")
	switch orientation {
	case "", "landscape", "portrait", "square":
	default:
		writeJSONError(w, "Invalid orientation", http.StatusBadRequest)
		return
	}

	list, err := h.db.ListAssets(r.Context(), mux.Vars(r)["id"], orientation)
	if err != nil {
		writeStoreError(w, err, "Collection not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, list)
}

// AddCollectionAsset saves an asset into a collection. Saving an asset
// twice is a no-op; the response reports whether anything was added.
func (h *Handlers) AddCollectionAsset(w http.ResponseWriter, r *http.Request) {
	var a assets.Asset
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if a.ID == 0 {
		writeJSONError(w, "Asset id is required", http.StatusBadRequest)
		return
	}
	if a.Kind != assets.KindPhoto && a.Kind != assets.KindVideo {
		writeJSONError(w, "Asset kind must be photo or video", http.StatusBadRequest)
		return
	}

	added, err := h.db.AddAsset(r.Context(), mux.Vars(r)["id"], a)
	if err != nil {
		writeStoreError(w, err, "Collection not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]bool{"added": added})
}

// RemoveCollectionAsset removes one asset from a collection.
func (h *Handlers) RemoveCollectionAsset(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	assetID, err := strconv.ParseInt(vars["assetId"], 10, 64)
	if err != nil || assetID <= 0 {
		writeJSONError(w, "Invalid asset id", http.StatusBadRequest)
		return
	}

	if err := h.db.RemoveAsset(r.Context(), vars["id"], assetID); err != nil {
		writeStoreError(w, err, "Asset not in collection")
		return
	}
	writeJSONStatus(w, "ok")
}
