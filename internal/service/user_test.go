package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/atinyakov/quill/internal/credential"
	"github.com/atinyakov/quill/internal/models"
)

type mockUserRepo struct {
	FindByUsernameFunc func(ctx context.Context, username string) (*models.User, error)
	FindByIDFunc       func(ctx context.Context, id int64) (*models.User, error)
	FindAllFunc        func(ctx context.Context) ([]models.User, error)
	SaveFunc           func(ctx context.Context, u *models.User) (*models.User, error)
	ExistsByIDFunc     func(ctx context.Context, id int64) (bool, error)
	DeleteByIDFunc     func(ctx context.Context, id int64) error
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.FindByUsernameFunc(ctx, username)
}
func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return m.FindByIDFunc(ctx, id)
}
func (m *mockUserRepo) FindAll(ctx context.Context) ([]models.User, error) {
	return m.FindAllFunc(ctx)
}
func (m *mockUserRepo) Save(ctx context.Context, u *models.User) (*models.User, error) {
	return m.SaveFunc(ctx, u)
}
func (m *mockUserRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return m.ExistsByIDFunc(ctx, id)
}
func (m *mockUserRepo) DeleteByID(ctx context.Context, id int64) error {
	return m.DeleteByIDFunc(ctx, id)
}

// fakeHasher prefixes passwords with "hashed:" so tests can read them back.
type fakeHasher struct {
	verifyErr error
	hashErr   error
	verified  []string
}

func (f *fakeHasher) Hash(raw string) (string, error) {
	if f.hashErr != nil {
		return "", f.hashErr
	}
	return "hashed:" + raw, nil
}

func (f *fakeHasher) Verify(raw, stored string) (bool, error) {
	f.verified = append(f.verified, stored)
	if f.verifyErr != nil {
		return false, f.verifyErr
	}
	return stored == "hashed:"+raw, nil
}

func (f *fakeHasher) Reconcile(existing, supplied string) (string, error) {
	if supplied == "" {
		return existing, nil
	}
	return f.Hash(supplied)
}

func TestAuthenticate_Success(t *testing.T) {
	want := &models.User{ID: 1, Username: "alice", Password: "hashed:secret"}
	repo := &mockUserRepo{
		FindByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			if username != "alice" {
				t.Errorf("FindByUsername received %q; want %q", username, "alice")
			}
			return want, nil
		},
	}
	svc := NewUserService(repo, &fakeHasher{}, zap.NewNop())

	got, err := svc.Authenticate(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if got != want {
		t.Errorf("Authenticate = %+v; want %+v", got, want)
	}
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	repo := &mockUserRepo{
		FindByUsernameFunc: func(context.Context, string) (*models.User, error) {
			return &models.User{ID: 1, Username: "alice", Password: "hashed:secret"}, nil
		},
	}
	svc := NewUserService(repo, &fakeHasher{}, zap.NewNop())

	_, err := svc.Authenticate(context.Background(), "alice", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Authenticate error = %v; want ErrInvalidCredentials", err)
	}
}

func TestAuthenticate_UnknownUserStillVerifies(t *testing.T) {
	repo := &mockUserRepo{
		FindByUsernameFunc: func(context.Context, string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
	}
	hasher := &fakeHasher{}
	svc := NewUserService(repo, hasher, zap.NewNop())

	_, err := svc.Authenticate(context.Background(), "bob", "anything")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Authenticate error = %v; want ErrInvalidCredentials", err)
	}
	if len(hasher.verified) != 1 {
		t.Errorf("expected one decoy verification, got %d", len(hasher.verified))
	}
}

func TestAuthenticate_MalformedHashLogged(t *testing.T) {
	repo := &mockUserRepo{
		FindByUsernameFunc: func(context.Context, string) (*models.User, error) {
			return &models.User{ID: 9, Username: "legacy", Password: "plaintext"}, nil
		},
	}
	core, logs := observer.New(zapcore.WarnLevel)
	svc := NewUserService(repo, &fakeHasher{verifyErr: credential.ErrMalformedHash}, zap.New(core))

	_, err := svc.Authenticate(context.Background(), "legacy", "plaintext")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Authenticate error = %v; want ErrInvalidCredentials", err)
	}
	entries := logs.FilterMessage("stored password is not a valid hash").All()
	if len(entries) != 1 {
		t.Fatalf("expected one malformed-hash warning, got %d", len(entries))
	}
	if id := entries[0].ContextMap()["user_id"]; id != int64(9) {
		t.Errorf("user_id field = %v; want 9", id)
	}
}

func TestAuthenticate_RepoError(t *testing.T) {
	wantErr := errors.New("db down")
	repo := &mockUserRepo{
		FindByUsernameFunc: func(context.Context, string) (*models.User, error) {
			return nil, wantErr
		},
	}
	svc := NewUserService(repo, &fakeHasher{}, zap.NewNop())

	_, err := svc.Authenticate(context.Background(), "alice", "secret")
	if !errors.Is(err, wantErr) {
		t.Fatalf("Authenticate error = %v; want %v", err, wantErr)
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Error("store failure must not look like bad credentials")
	}
}

func TestCreateUser_HashesAndDefaultsRole(t *testing.T) {
	var saved *models.User
	repo := &mockUserRepo{
		SaveFunc: func(ctx context.Context, u *models.User) (*models.User, error) {
			saved = u
			u.ID = 5
			return u, nil
		},
	}
	svc := NewUserService(repo, &fakeHasher{}, zap.NewNop())

	got, err := svc.CreateUser(context.Background(), models.User{Username: "carol", Email: "c@blog.com", Password: "pw"})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if saved.Password != "hashed:pw" {
		t.Errorf("saved password = %q; want hashed value", saved.Password)
	}
	if saved.Role != models.DefaultRole {
		t.Errorf("saved role = %q; want %q", saved.Role, models.DefaultRole)
	}
	if got.ID != 5 {
		t.Errorf("ID = %d; want 5", got.ID)
	}
}

func TestCreateUser_KeepsRole(t *testing.T) {
	repo := &mockUserRepo{
		SaveFunc: func(ctx context.Context, u *models.User) (*models.User, error) { return u, nil },
	}
	svc := NewUserService(repo, &fakeHasher{}, zap.NewNop())

	got, err := svc.CreateUser(context.Background(), models.User{Username: "root", Password: "pw", Role: "ADMIN"})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if got.Role != "ADMIN" {
		t.Errorf("role = %q; want ADMIN", got.Role)
	}
}

func TestCreateUser_HashError(t *testing.T) {
	repo := &mockUserRepo{
		SaveFunc: func(ctx context.Context, u *models.User) (*models.User, error) {
			t.Fatal("Save must not be called when hashing fails")
			return nil, nil
		},
	}
	svc := NewUserService(repo, &fakeHasher{hashErr: credential.ErrPasswordTooLong}, zap.NewNop())

	_, err := svc.CreateUser(context.Background(), models.User{Username: "dave", Password: "x"})
	if !errors.Is(err, credential.ErrPasswordTooLong) {
		t.Fatalf("CreateUser error = %v; want ErrPasswordTooLong", err)
	}
}

func TestUpdateUser_EmptyPasswordKeepsHash(t *testing.T) {
	repo := &mockUserRepo{
		FindByIDFunc: func(context.Context, int64) (*models.User, error) {
			return &models.User{ID: 2, Username: "erin", Email: "old@blog.com", Password: "hashed:old", Role: "USER"}, nil
		},
		SaveFunc: func(ctx context.Context, u *models.User) (*models.User, error) { return u, nil },
	}
	svc := NewUserService(repo, &fakeHasher{}, zap.NewNop())

	got, err := svc.UpdateUser(context.Background(), 2, models.User{Username: "erin2", Email: "new@blog.com", Role: "ADMIN"})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if got.Password != "hashed:old" {
		t.Errorf("password = %q; want unchanged hash", got.Password)
	}
	if got.Username != "erin2" || got.Email != "new@blog.com" || got.Role != "ADMIN" {
		t.Errorf("fields not overwritten: %+v", got)
	}
}

func TestUpdateUser_NewPassword(t *testing.T) {
	repo := &mockUserRepo{
		FindByIDFunc: func(context.Context, int64) (*models.User, error) {
			return &models.User{ID: 2, Username: "erin", Password: "hashed:old"}, nil
		},
		SaveFunc: func(ctx context.Context, u *models.User) (*models.User, error) { return u, nil },
	}
	svc := NewUserService(repo, &fakeHasher{}, zap.NewNop())

	got, err := svc.UpdateUser(context.Background(), 2, models.User{Username: "erin", Password: "new"})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if got.Password != "hashed:new" {
		t.Errorf("password = %q; want %q", got.Password, "hashed:new")
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	repo := &mockUserRepo{
		FindByIDFunc: func(context.Context, int64) (*models.User, error) {
			return nil, models.ErrNotFound
		},
	}
	svc := NewUserService(repo, &fakeHasher{}, zap.NewNop())

	_, err := svc.UpdateUser(context.Background(), 404, models.User{Username: "x"})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("UpdateUser error = %v; want ErrNotFound", err)
	}
}

func TestDeleteUser(t *testing.T) {
	deleted := false
	repo := &mockUserRepo{
		ExistsByIDFunc: func(ctx context.Context, id int64) (bool, error) { return id == 1, nil },
		DeleteByIDFunc: func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		},
	}
	svc := NewUserService(repo, &fakeHasher{}, zap.NewNop())

	if err := svc.DeleteUser(context.Background(), 1); err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}
	if !deleted {
		t.Error("expected DeleteByID to be called")
	}
	if err := svc.DeleteUser(context.Background(), 2); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("DeleteUser error = %v; want ErrNotFound", err)
	}
}
