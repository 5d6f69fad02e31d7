package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/atinyakov/quill/internal/models"
)

// Counter is anything that can count its records.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// StatsService builds the admin dashboard summary.
type StatsService struct {
	users Counter
	posts Counter
}

// NewStatsService constructs a StatsService over the user and post stores.
func NewStatsService(users, posts Counter) *StatsService {
	return &StatsService{users: users, posts: posts}
}

// Dashboard returns the total number of users and posts.
func (s *StatsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "count users")
	}
	posts, err := s.posts.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "count posts")
	}
	return &models.DashboardStats{TotalUsers: users, TotalPosts: posts}, nil
}
