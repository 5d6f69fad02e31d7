package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/quill/internal/models"
)

// PostService defines the post operations required by the PostHandler.
type PostService interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	CreatePost(ctx context.Context, p models.Post) (*models.Post, error)
	UpdatePost(ctx context.Context, id int64, patch models.Post) (*models.Post, error)
	DeletePost(ctx context.Context, id int64) error
}

// PostHandler handles HTTP requests under /api/posts.
type PostHandler struct {
	Posts PostService
}

// CreatePostRequest represents the JSON payload for a new post.
type CreatePostRequest struct {
	Title   string `json:"title" validate:"notblank"`
	Content string `json:"content" validate:"notblank"`
	Author  string `json:"author" validate:"notblank"`
}

// UpdatePostRequest represents the JSON payload for editing a post. Title
// and content overwrite the stored values as given.
type UpdatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// List handles GET /api/posts. Posts are returned newest first.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Posts.ListPosts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// Get handles GET /api/posts/{id}.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	post, err := h.Posts.GetPost(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Create handles POST /api/posts. Title, content and author are required.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	post, err := h.Posts.CreatePost(r.Context(), models.Post{
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// Update handles PUT /api/posts/{id}.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var req UpdatePostRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	post, err := h.Posts.UpdatePost(r.Context(), id, models.Post{Title: req.Title, Content: req.Content})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Delete handles DELETE /api/posts/{id}.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := h.Posts.DeletePost(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post Deleted"})
}
