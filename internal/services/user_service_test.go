package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campuskit/enrollment-service/internal/auth"
	"github.com/campuskit/enrollment-service/internal/models"
	"github.com/campuskit/enrollment-service/internal/validator"
)

func newUserService(repo *mockRepository) UserService {
	return NewUserService(repo, validator.New(), auth.NewManager("test_secret", time.Hour), newTestLogger())
}

func signupRequest(role models.UserRole) *CreateUserRequest {
	return &CreateUserRequest{
		Name:     "Ana Torres",
		Email:    "ana@example.com",
		Password: "secret123",
		Role:     role,
	}
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous signup as student", func(t *testing.T) {
		repo := newMockRepository()
		service := newUserService(repo)

		user, err := service.Create(ctx, signupRequest(models.RoleStudent), Principal{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID == "" {
			t.Error("ID should be assigned")
		}
		if user.Role != models.RoleStudent {
			t.Errorf("Role = %s, want student", user.Role)
		}

		stored, err := repo.users.GetByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("stored user missing: %v", err)
		}
		if stored.PasswordHash == "secret123" || stored.PasswordHash == "" {
			t.Error("password must be stored as a hash")
		}
	})

	t.Run("anonymous cannot create admin", func(t *testing.T) {
		service := newUserService(newMockRepository())

		_, err := service.Create(ctx, signupRequest(models.RoleAdmin), Principal{})
		if !IsPermission(err) {
			t.Fatalf("want PermissionError, got %v", err)
		}
	})

	t.Run("student cannot create admin", func(t *testing.T) {
		repo := newMockRepository()
		service := newUserService(repo)
		student := seedUser(t, repo, "Luis Vega", "luis@example.com", models.RoleStudent)

		_, err := service.Create(ctx, signupRequest(models.RoleAdmin), Principal{ID: student.ID, Role: models.RoleStudent})
		if !IsPermission(err) {
			t.Fatalf("want PermissionError, got %v", err)
		}
	})

	t.Run("admin creates admin", func(t *testing.T) {
		repo := newMockRepository()
		service := newUserService(repo)
		admin := seedUser(t, repo, "Root", "root@example.com", models.RoleAdmin)

		user, err := service.Create(ctx, signupRequest(models.RoleAdmin), Principal{ID: admin.ID, Role: models.RoleAdmin})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Role != models.RoleAdmin {
			t.Errorf("Role = %s, want admin", user.Role)
		}
	})

	t.Run("taken email is a conflict", func(t *testing.T) {
		repo := newMockRepository()
		service := newUserService(repo)
		seedUser(t, repo, "Ana Torres", "ana@example.com", models.RoleStudent)

		_, err := service.Create(ctx, signupRequest(models.RoleStudent), Principal{})
		ce, ok := AsConflict(err)
		if !ok {
			t.Fatalf("want ConflictError, got %v", err)
		}
		if ce.Code != ConflictEmailTaken {
			t.Errorf("Code = %s, want %s", ce.Code, ConflictEmailTaken)
		}
	})

	t.Run("unknown role fails validation", func(t *testing.T) {
		service := newUserService(newMockRepository())

		_, err := service.Create(ctx, signupRequest("principal"), Principal{})
		if !IsValidation(err) {
			t.Fatalf("want validation error, got %v", err)
		}
	})

	t.Run("short password fails validation", func(t *testing.T) {
		service := newUserService(newMockRepository())

		req := signupRequest(models.RoleStudent)
		req.Password = "abc"
		_, err := service.Create(ctx, req, Principal{})
		if !IsValidation(err) {
			t.Fatalf("want validation error, got %v", err)
		}
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	service := newUserService(repo)

	if _, err := service.Create(ctx, signupRequest(models.RoleStudent), Principal{}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	t.Run("valid credentials return token and user", func(t *testing.T) {
		resp, err := service.Login(ctx, &LoginRequest{Email: "ana@example.com", Password: "secret123"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Token == "" {
			t.Error("token should be issued")
		}
		if resp.User == nil || resp.User.Email != "ana@example.com" {
			t.Errorf("User = %+v, want public ana", resp.User)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Login(ctx, &LoginRequest{Email: "ana@example.com", Password: "wrong"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("want ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email reports the same error", func(t *testing.T) {
		_, err := service.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "secret123"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("want ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	service := newUserService(repo)

	seedUser(t, repo, "Ana Torres", "ana@example.com", models.RoleStudent)
	seedUser(t, repo, "Luis Vega", "luis@example.com", models.RoleStudent)
	seedUser(t, repo, "Carlos Ruiz", "carlos@example.com", models.RoleTeacher)

	t.Run("role filter", func(t *testing.T) {
		got, err := service.List(ctx, UserListFilters{Role: "student"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("len = %d, want 2", len(got))
		}
	})

	t.Run("name filter", func(t *testing.T) {
		got, err := service.List(ctx, UserListFilters{Name: "ruiz"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].Name != "Carlos Ruiz" {
			t.Errorf("got %d users, want Carlos Ruiz only", len(got))
		}
	})

	t.Run("unknown role matches nobody", func(t *testing.T) {
		got, err := service.List(ctx, UserListFilters{Role: "janitor"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("renames and rehashes password", func(t *testing.T) {
		repo := newMockRepository()
		service := newUserService(repo)
		user := seedUser(t, repo, "Ana Torres", "ana@example.com", models.RoleStudent)

		name := "Ana T. Robles"
		password := "newsecret"
		updated, err := service.Update(ctx, user.ID, &UpdateUserRequest{Name: &name, Password: &password})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Name != name {
			t.Errorf("Name = %s, want %s", updated.Name, name)
		}

		stored, _ := repo.users.GetByID(ctx, user.ID)
		if !auth.CheckPassword("newsecret", stored.PasswordHash) {
			t.Error("password hash should verify against the new secret")
		}
	})

	t.Run("moving onto a taken email is a conflict", func(t *testing.T) {
		repo := newMockRepository()
		service := newUserService(repo)
		user := seedUser(t, repo, "Ana Torres", "ana@example.com", models.RoleStudent)
		seedUser(t, repo, "Luis Vega", "luis@example.com", models.RoleStudent)

		email := "luis@example.com"
		_, err := service.Update(ctx, user.ID, &UpdateUserRequest{Email: &email})
		ce, ok := AsConflict(err)
		if !ok {
			t.Fatalf("want ConflictError, got %v", err)
		}
		if ce.Code != ConflictEmailTaken {
			t.Errorf("Code = %s, want %s", ce.Code, ConflictEmailTaken)
		}
	})

	t.Run("unknown id reports not found", func(t *testing.T) {
		service := newUserService(newMockRepository())

		name := "Ana Robles"
		_, err := service.Update(ctx, "5f1c7c90-9a3d-4c77-9b44-aaaaaaaaaaaa", &UpdateUserRequest{Name: &name})
		if !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("want ErrUserNotFound, got %v", err)
		}
	})

	t.Run("malformed id reports not found", func(t *testing.T) {
		service := newUserService(newMockRepository())

		name := "Ana Robles"
		_, err := service.Update(ctx, "not-a-uuid", &UpdateUserRequest{Name: &name})
		if !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("want ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	service := newUserService(repo)
	user := seedUser(t, repo, "Ana Torres", "ana@example.com", models.RoleStudent)

	t.Run("deletes existing", func(t *testing.T) {
		if err := service.Delete(ctx, user.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := service.GetByID(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("want ErrUserNotFound after delete, got %v", err)
		}
	})

	t.Run("second delete reports not found", func(t *testing.T) {
		if err := service.Delete(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("want ErrUserNotFound, got %v", err)
		}
	})
}
