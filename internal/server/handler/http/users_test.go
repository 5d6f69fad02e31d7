package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/atinyakov/quill/internal/credential"
	"github.com/atinyakov/quill/internal/models"
	"github.com/atinyakov/quill/internal/service"
)

// fakeUserService implements UserService and StatsService for testing.
type fakeUserService struct {
	user      *models.User
	users     []models.User
	stats     *models.DashboardStats
	err       error
	gotID     int64
	gotUser   models.User
	gotLogin  LoginRequest
	deleteErr error
}

func (f *fakeUserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	f.gotLogin = LoginRequest{Username: username, Password: password}
	return f.user, f.err
}
func (f *fakeUserService) CreateUser(ctx context.Context, u models.User) (*models.User, error) {
	f.gotUser = u
	return f.user, f.err
}
func (f *fakeUserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	f.gotID = id
	return f.user, f.err
}
func (f *fakeUserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return f.users, f.err
}
func (f *fakeUserService) UpdateUser(ctx context.Context, id int64, patch models.User) (*models.User, error) {
	f.gotID = id
	f.gotUser = patch
	return f.user, f.err
}
func (f *fakeUserService) DeleteUser(ctx context.Context, id int64) error {
	f.gotID = id
	return f.deleteErr
}
func (f *fakeUserService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	return f.stats, f.err
}

func newTestRouter(users *fakeUserService, posts *fakePostService, comments *fakeCommentService) http.Handler {
	if users == nil {
		users = &fakeUserService{}
	}
	if posts == nil {
		posts = &fakePostService{}
	}
	if comments == nil {
		comments = &fakeCommentService{}
	}
	return NewRouter(
		&UserHandler{Users: users, Stats: users},
		&PostHandler{Posts: posts},
		&CommentHandler{Comments: comments},
		zap.NewNop(),
		[]string{"http://localhost:3000"},
	)
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestUserHandler_Login(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice", Password: "$2a$10$hash", Role: "USER"}
	tests := []struct {
		name         string
		body         string
		service      *fakeUserService
		expectedCode int
		expectedBody string
	}{
		{
			name:         "invalid JSON",
			body:         `not a json`,
			service:      &fakeUserService{},
			expectedCode: http.StatusBadRequest,
			expectedBody: "invalid request",
		},
		{
			name:         "invalid credentials",
			body:         `{"username":"alice","password":"wrong"}`,
			service:      &fakeUserService{err: service.ErrInvalidCredentials},
			expectedCode: http.StatusUnauthorized,
			expectedBody: "Invalid username or password",
		},
		{
			name:         "store failure",
			body:         `{"username":"alice","password":"pw"}`,
			service:      &fakeUserService{err: errors.New("db down")},
			expectedCode: http.StatusInternalServerError,
			expectedBody: "internal error",
		},
		{
			name:         "success",
			body:         `{"username":"alice","password":"pw"}`,
			service:      &fakeUserService{user: alice},
			expectedCode: http.StatusOK,
			expectedBody: `"username":"alice"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/users/login", bytes.NewBufferString(tt.body))
			h := &UserHandler{Users: tt.service}
			h.Login(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
			if !bytes.Contains(rec.Body.Bytes(), []byte(tt.expectedBody)) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedBody, rec.Body.String())
			}
		})
	}
}

func TestUserHandler_LoginReturnsHashedRecord(t *testing.T) {
	svc := &fakeUserService{user: &models.User{ID: 3, Username: "alice", Email: "a@blog.com", Password: "$2a$10$hash", Role: "USER"}}
	rec := doJSON(t, newTestRouter(svc, nil, nil), http.MethodPost, "/api/users/login", `{"username":"alice","password":"correct-horse"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	var got models.User
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if got.Password == "correct-horse" || got.Password != "$2a$10$hash" {
		t.Errorf("password field = %q; want stored hash", got.Password)
	}
	if svc.gotLogin.Password != "correct-horse" {
		t.Errorf("service received password %q", svc.gotLogin.Password)
	}
}

func TestUserHandler_Create(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		service      *fakeUserService
		expectedCode int
	}{
		{"missing password", `{"username":"alice"}`, &fakeUserService{}, http.StatusBadRequest},
		{"blank username", `{"username":"  ","password":"pw"}`, &fakeUserService{}, http.StatusBadRequest},
		{"bad email", `{"username":"alice","password":"pw","email":"nope"}`, &fakeUserService{}, http.StatusBadRequest},
		{"duplicate", `{"username":"alice","password":"pw"}`, &fakeUserService{err: models.ErrDuplicate}, http.StatusConflict},
		{"too long", `{"username":"alice","password":"pw"}`, &fakeUserService{err: credential.ErrPasswordTooLong}, http.StatusBadRequest},
		{"created", `{"username":"alice","password":"pw","email":"alice@blog.com"}`, &fakeUserService{user: &models.User{ID: 1, Username: "alice"}}, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, newTestRouter(tt.service, nil, nil), http.MethodPost, "/api/users", tt.body)
			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d (%s)", tt.expectedCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestUserHandler_UpdatePassesEmptyPassword(t *testing.T) {
	svc := &fakeUserService{user: &models.User{ID: 7, Username: "bob"}}
	rec := doJSON(t, newTestRouter(svc, nil, nil), http.MethodPut, "/api/users/7", `{"username":"bob","email":"b@blog.com","password":"","role":"ADMIN"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200 (%s)", rec.Code, rec.Body.String())
	}
	if svc.gotID != 7 {
		t.Errorf("id = %d; want 7", svc.gotID)
	}
	if svc.gotUser.Password != "" || svc.gotUser.Role != "ADMIN" || svc.gotUser.Email != "b@blog.com" {
		t.Errorf("unexpected patch: %+v", svc.gotUser)
	}
}

func TestUserHandler_IDRoutes(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		target       string
		body         string
		service      *fakeUserService
		expectedCode int
	}{
		{"get ok", http.MethodGet, "/api/users/1", "", &fakeUserService{user: &models.User{ID: 1}}, http.StatusOK},
		{"get missing", http.MethodGet, "/api/users/2", "", &fakeUserService{err: models.ErrNotFound}, http.StatusNotFound},
		{"get bad id", http.MethodGet, "/api/users/abc", "", &fakeUserService{}, http.StatusBadRequest},
		{"update missing", http.MethodPut, "/api/users/2", `{"username":"x"}`, &fakeUserService{err: models.ErrNotFound}, http.StatusNotFound},
		{"delete ok", http.MethodDelete, "/api/users/1", "", &fakeUserService{}, http.StatusOK},
		{"delete missing", http.MethodDelete, "/api/users/9", "", &fakeUserService{deleteErr: models.ErrNotFound}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, newTestRouter(tt.service, nil, nil), tt.method, tt.target, tt.body)
			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d (%s)", tt.expectedCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestUserHandler_ListAndStats(t *testing.T) {
	svc := &fakeUserService{
		users: []models.User{{ID: 1, Username: "alice"}, {ID: 2, Username: "bob"}},
		stats: &models.DashboardStats{TotalUsers: 2, TotalPosts: 5},
	}
	router := newTestRouter(svc, nil, nil)

	rec := doJSON(t, router, http.MethodGet, "/api/users", "")
	var users []models.User
	if err := json.NewDecoder(rec.Body).Decode(&users); err != nil || len(users) != 2 {
		t.Fatalf("list users = %v, %v", users, err)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/users/dashboard/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d", rec.Code)
	}
	var stats map[string]int64
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("failed to decode stats: %v", err)
	}
	if stats["totalUsers"] != 2 || stats["totalPosts"] != 5 {
		t.Errorf("stats = %v", stats)
	}
}
