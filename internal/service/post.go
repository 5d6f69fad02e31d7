package service

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/atinyakov/quill/internal/models"
)

// PostRepository defines the persistence operations needed by the PostService.
type PostRepository interface {
	FindAll(ctx context.Context) ([]models.Post, error)
	// FindByID returns the post or models.ErrNotFound.
	FindByID(ctx context.Context, id int64) (*models.Post, error)
	Save(ctx context.Context, p *models.Post) (*models.Post, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	DeleteByID(ctx context.Context, id int64) error
}

// PostService implements blog post management.
type PostService struct {
	repo PostRepository
	now  func() time.Time
}

// NewPostService constructs a PostService with the provided PostRepository.
func NewPostService(repo PostRepository) *PostService {
	return &PostService{repo: repo, now: time.Now}
}

// ListPosts returns all posts, newest first.
func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

// GetPost returns the post with id or models.ErrNotFound.
func (s *PostService) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	return s.repo.FindByID(ctx, id)
}

// CreatePost persists p, stamping CreatedAt when unset.
func (s *PostService) CreatePost(ctx context.Context, p models.Post) (*models.Post, error) {
	p.ID = 0
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC()
	}
	return s.repo.Save(ctx, &p)
}

// UpdatePost replaces the title and content of post id. Author and
// creation time are kept.
func (s *PostService) UpdatePost(ctx context.Context, id int64, patch models.Post) (*models.Post, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Title = patch.Title
	existing.Content = patch.Content
	return s.repo.Save(ctx, existing)
}

// DeletePost removes post id, or returns models.ErrNotFound.
func (s *PostService) DeletePost(ctx context.Context, id int64) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Wrapf(models.ErrNotFound, "post %d", id)
	}
	return s.repo.DeleteByID(ctx, id)
}
