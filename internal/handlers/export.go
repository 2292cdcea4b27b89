package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"monogrid/internal/assets"
	"monogrid/internal/database"
	"monogrid/internal/exporter"
	"monogrid/internal/logging"
	"monogrid/internal/streaming"
)

// ExportRequest selects the quality tier and target format for a batch
// download. Unrecognized values fall back to Original / JPG.
type ExportRequest struct {
	Size   string `json:"size"`
	Format string `json:"format"`

	// Name and Assets are used by the ad-hoc selection endpoint only.
	Name   string         `json:"name,omitempty"`
	Assets []assets.Asset `json:"assets,omitempty"`
}

// ExportCollection streams a collection's assets as a ZIP archive.
// Per-asset failures are skipped; the archive is delivered with
// whatever succeeded.
func (h *Handlers) ExportCollection(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id := mux.Vars(r)["id"]
	col, err := h.db.GetCollection(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "Collection not found")
		return
	}

	batch, err := h.db.ListAssets(r.Context(), id, "")
	if err != nil {
		writeStoreError(w, err, "Collection not found")
		return
	}

	h.streamArchive(w, r, col.Name, batch, req)
}

// ExportSelection streams an ad-hoc set of assets (the selection dock)
// as a ZIP archive without touching any stored collection.
func (h *Handlers) ExportSelection(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Assets) == 0 {
		writeJSONError(w, "At least one asset is required", http.StatusBadRequest)
		return
	}

	name := req.Name
	if name == "" {
		name = "monogrid-export"
	}

	h.streamArchive(w, r, name, req.Assets, req)
}

// streamArchive runs the export pipeline and streams the finished
// archive to the client. Once the body starts we can no longer change
// the status code, so delivery errors are only logged.
func (h *Handlers) streamArchive(w http.ResponseWriter, r *http.Request, name string, batch []assets.Asset, req ExportRequest) {
	opts := assets.ExportOptions{
		SizeTier: assets.ParseSizeTier(req.Size),
		Format:   assets.ParseFormat(req.Format),
	}
	filename := assets.ArchiveName(name, opts)

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("X-Export-Requested", fmt.Sprintf("%d", len(batch)))

	// Guard the response against slow or vanished clients; without it
	// a stalled download pins the connection and the archive buffer.
	tw := streaming.NewTimeoutWriter(r.Context(), w, streaming.DefaultTimeoutWriterConfig())
	defer tw.Close()

	result, err := h.exporter.Export(r.Context(), batch, opts, filename, exporter.WriterSink{W: tw})

	var derr *exporter.DeliveryError
	if errors.As(err, &derr) {
		// Headers are gone; the client sees a truncated download.
		logging.Error("Archive delivery failed for %s: %v", filename, err)
		return
	}
	if err != nil {
		logging.Error("Export failed for %s: %v", filename, err)
		return
	}

	logging.Info("Exported %s: %d succeeded, %d failed, %d bytes",
		filename, result.Succeeded, result.Failed, result.Bytes)
}

// ExportPreview reports what an export of a collection would do
// without fetching anything: the resolved entry names and any assets
// that cannot be resolved at the requested tier.
func (h *Handlers) ExportPreview(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id := mux.Vars(r)["id"]
	col, err := h.db.GetCollection(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Collection not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeStoreError(w, err, "Collection not found")
		return
	}

	batch, err := h.db.ListAssets(r.Context(), id, "")
	if err != nil {
		writeStoreError(w, err, "Collection not found")
		return
	}

	opts := assets.ExportOptions{
		SizeTier: assets.ParseSizeTier(req.Size),
		Format:   assets.ParseFormat(req.Format),
	}

	type previewEntry struct {
		ID         int64  `json:"id"`
		Entry      string `json:"entry,omitempty"`
		Resolvable bool   `json:"resolvable"`
	}

	entries := make([]previewEntry, 0, len(batch))
	for i := range batch {
		a := &batch[i]
		e := previewEntry{ID: a.ID}
		if _, err := assets.ResolveURL(a, opts.SizeTier); err == nil {
			e.Resolvable = true
			e.Entry = assets.EntryName(a, opts.Format)
		}
		entries = append(entries, e)
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{
		"filename": assets.ArchiveName(col.Name, opts),
		"entries":  entries,
	})
}
