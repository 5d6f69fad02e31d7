package service

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/atinyakov/quill/internal/models"
)

// CommentRepository defines the persistence operations needed by the CommentService.
type CommentRepository interface {
	FindAll(ctx context.Context) ([]models.Comment, error)
	FindByPostID(ctx context.Context, postID int64) ([]models.Comment, error)
	FindByUserID(ctx context.Context, userID int64) ([]models.Comment, error)
	Save(ctx context.Context, c *models.Comment) (*models.Comment, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	DeleteByID(ctx context.Context, id int64) error
}

// CommentService implements comment listing, posting and removal.
type CommentService struct {
	repo CommentRepository
	now  func() time.Time
}

// NewCommentService constructs a CommentService.
func NewCommentService(repo CommentRepository) *CommentService {
	return &CommentService{repo: repo, now: time.Now}
}

// ListComments returns every comment.
func (s *CommentService) ListComments(ctx context.Context) ([]models.Comment, error) {
	return s.repo.FindAll(ctx)
}

// ListByPost returns the comments on post postID.
func (s *CommentService) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	return s.repo.FindByPostID(ctx, postID)
}

// ListByUser returns the comments written by user userID.
func (s *CommentService) ListByUser(ctx context.Context, userID int64) ([]models.Comment, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// AddComment persists c, stamping CreatedAt when unset.
func (s *CommentService) AddComment(ctx context.Context, c models.Comment) (*models.Comment, error) {
	c.ID = 0
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now().UTC()
	}
	return s.repo.Save(ctx, &c)
}

// DeleteComment removes comment id, or returns models.ErrNotFound.
func (s *CommentService) DeleteComment(ctx context.Context, id int64) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Wrapf(models.ErrNotFound, "comment %d", id)
	}
	return s.repo.DeleteByID(ctx, id)
}
