// Package models defines the core data structures for users, posts and comments.
package models

import (
	"errors"
	"time"
)

// DefaultRole is assigned to users created without a role.
const DefaultRole = "USER"

var (
	// ErrNotFound is returned when a record addressed by id or username does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("record already exists")
)

// User represents a blog account.
type User struct {
	// ID is assigned by the store on first save.
	ID int64 `json:"id"`
	// Username is unique across users.
	Username string `json:"username"`
	// Email is the contact address of the user.
	Email string `json:"email"`
	// Password holds the bcrypt hash once persisted. On inbound payloads it
	// carries the raw password.
	Password string `json:"password"`
	// Role is a free-text classification, "USER" unless set.
	Role string `json:"role"`
}

// Post is a blog entry.
type Post struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	// Author is the username of the creator.
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment is a reader comment attached to a post.
type Comment struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	PostID    int64     `json:"postId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// DashboardStats is the summary shown on the admin dashboard.
type DashboardStats struct {
	TotalUsers int64 `json:"totalUsers"`
	TotalPosts int64 `json:"totalPosts"`
}
