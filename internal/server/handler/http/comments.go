package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/quill/internal/models"
)

// CommentService defines the comment operations required by the CommentHandler.
type CommentService interface {
	ListComments(ctx context.Context) ([]models.Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]models.Comment, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Comment, error)
	AddComment(ctx context.Context, c models.Comment) (*models.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

// CommentHandler handles HTTP requests under /api/comments.
type CommentHandler struct {
	Comments CommentService
}

// CreateCommentRequest represents the JSON payload for a new comment.
type CreateCommentRequest struct {
	UserID  int64  `json:"userId" validate:"gt=0"`
	PostID  int64  `json:"postId" validate:"gt=0"`
	Content string `json:"content" validate:"notblank"`
}

// List handles GET /api/comments.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	comments, err := h.Comments.ListComments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// ListByPost handles GET /api/comments/post/{postId}.
func (h *CommentHandler) ListByPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "postId")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	comments, err := h.Comments.ListByPost(r.Context(), postID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// ListByUser handles GET /api/comments/user/{userId}.
func (h *CommentHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userId")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	comments, err := h.Comments.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// Create handles POST /api/comments.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCommentRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	comment, err := h.Comments.AddComment(r.Context(), models.Comment{
		UserID:  req.UserID,
		PostID:  req.PostID,
		Content: req.Content,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// Delete handles DELETE /api/comments/{id}.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := h.Comments.DeleteComment(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted"})
}
