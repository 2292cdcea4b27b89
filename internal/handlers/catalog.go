package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"monogrid/internal/assets"
	"monogrid/internal/logging"
	"monogrid/internal/pexels"
)

// searchOptions builds catalog search options from query parameters.
func searchOptions(r *http.Request) pexels.SearchOptions {
	q := r.URL.Query()
	return pexels.SearchOptions{
		Query:       q.Get("query"),
		Orientation: q.Get("orientation"),
		Size:        q.Get("size"),
		Color:       q.Get("color"),
		Page:        queryInt(r, "page", 1),
		PerPage:     queryInt(r, "per_page", pexels.DefaultPerPage),
	}
}

// assetPage is the browsing response shape: mapped assets plus the
// paging fields the infinite-scroll UI needs.
type assetPage struct {
	Page         int            `json:"page"`
	PerPage      int            `json:"per_page"`
	TotalResults int            `json:"total_results,omitempty"`
	HasNextPage  bool           `json:"has_next_page"`
	Assets       []assets.Asset `json:"assets"`
}

// SearchPhotos proxies a photo search to the catalog.
func (h *Handlers) SearchPhotos(w http.ResponseWriter, r *http.Request) {
	opts := searchOptions(r)
	if opts.Query == "" {
		writeJSONError(w, "query is required", http.StatusBadRequest)
		return
	}

	list, err := h.catalog.SearchPhotos(r.Context(), opts)
	if err != nil {
		logging.Error("photo search failed: %v", err)
		writeJSONError(w, "Catalog unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, assetPage{
		Page:         list.Page,
		PerPage:      list.PerPage,
		TotalResults: list.TotalResults,
		HasNextPage:  list.NextPage != "",
		Assets:       list.Assets(),
	})
}

// CuratedPhotos returns a page of the curated photo feed.
func (h *Handlers) CuratedPhotos(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.CuratedPhotos(r.Context(), queryInt(r, "page", 1), queryInt(r, "per_page", pexels.DefaultPerPage))
	if err != nil {
		logging.Error("curated feed failed: %v", err)
		writeJSONError(w, "Catalog unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, assetPage{
		Page:         list.Page,
		PerPage:      list.PerPage,
		TotalResults: list.TotalResults,
		HasNextPage:  list.NextPage != "",
		Assets:       list.Assets(),
	})
}

// SearchVideos proxies a video search to the catalog.
func (h *Handlers) SearchVideos(w http.ResponseWriter, r *http.Request) {
	opts := searchOptions(r)
	if opts.Query == "" {
		writeJSONError(w, "query is required", http.StatusBadRequest)
		return
	}

	list, err := h.catalog.SearchVideos(r.Context(), opts)
	if err != nil {
		logging.Error("video search failed: %v", err)
		writeJSONError(w, "Catalog unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, assetPage{
		Page:         list.Page,
		PerPage:      list.PerPage,
		TotalResults: list.TotalResults,
		HasNextPage:  list.NextPage != "",
		Assets:       list.Assets(),
	})
}

// PopularVideos returns a page of the popular video feed.
func (h *Handlers) PopularVideos(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.PopularVideos(r.Context(), queryInt(r, "page", 1), queryInt(r, "per_page", pexels.DefaultPerPage))
	if err != nil {
		logging.Error("popular feed failed: %v", err)
		writeJSONError(w, "Catalog unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, assetPage{
		Page:         list.Page,
		PerPage:      list.PerPage,
		TotalResults: list.TotalResults,
		HasNextPage:  list.NextPage != "",
		Assets:       list.Assets(),
	})
}

// Explore lists the catalog's featured collections.
func (h *Handlers) Explore(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.FeaturedCollections(r.Context(), queryInt(r, "page", 1), queryInt(r, "per_page", 20))
	if err != nil {
		logging.Error("featured collections failed: %v", err)
		writeJSONError(w, "Catalog unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{
		"page":          list.Page,
		"per_page":      list.PerPage,
		"has_next_page": list.NextPage != "",
		"collections":   list.Collections,
	})
}

// ExploreDetail returns one featured collection's mixed media as
// tagged assets.
func (h *Handlers) ExploreDetail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	list, err := h.catalog.CollectionMedia(r.Context(), id, queryInt(r, "page", 1), queryInt(r, "per_page", pexels.DefaultPerPage))
	if err != nil {
		logging.Error("collection media failed for %s: %v", id, err)
		writeJSONError(w, "Catalog unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, assetPage{
		Page:        list.Page,
		PerPage:     list.PerPage,
		HasNextPage: list.NextPage != "",
		Assets:      list.Assets(),
	})
}
