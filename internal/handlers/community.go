package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"monogrid/internal/database"
)

type PostRequest struct {
	Author   string `json:"author"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	ImageURL string `json:"image_url"`
}

// ListPosts returns all community posts, newest first.
func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.db.ListPosts(r.Context())
	if err != nil {
		writeStoreError(w, err, "Post not found")
		return
	}
	if posts == nil {
		posts = []database.CommunityPost{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, posts)
}

// CreatePost adds a post to the community board.
func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Author == "" || req.Title == "" {
		writeJSONError(w, "Author and title are required", http.StatusBadRequest)
		return
	}

	post, err := h.db.CreatePost(r.Context(), req.Author, req.Title, req.Body, req.ImageURL)
	if err != nil {
		writeStoreError(w, err, "Post not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, post)
}

// LikePost increments a post's like counter.
func (h *Handlers) LikePost(w http.ResponseWriter, r *http.Request) {
	likes, err := h.db.LikePost(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err, "Post not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]int{"likes": likes})
}

// DeletePost removes a post from the board.
func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.db.DeletePost(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeStoreError(w, err, "Post not found")
		return
	}
	writeJSONStatus(w, "ok")
}
