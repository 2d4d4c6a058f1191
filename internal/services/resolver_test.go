package services

import (
	"context"
	"errors"
	"testing"

	"github.com/campuskit/enrollment-service/internal/models"
)

func TestClassifyToken(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want TokenKind
	}{
		{name: "uuid", raw: "2f5a0bb0-94a8-4c58-8467-6e5a4b7e3a01", want: TokenID},
		{name: "email", raw: "ana@example.com", want: TokenEmail},
		{name: "number", raw: "7", want: TokenNumeric},
		{name: "negative number", raw: "-3", want: TokenNumeric},
		{name: "plain name", raw: "Ana Torres", want: TokenName},
		{name: "name with digits", raw: "Algebra 1", want: TokenName},
		{name: "whitespace trimmed", raw: "  ana@example.com ", want: TokenEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyToken(tt.raw)
			if got.Kind != tt.want {
				t.Errorf("ClassifyToken(%q).Kind = %v, want %v", tt.raw, got.Kind, tt.want)
			}
		})
	}
}

func seedUser(t *testing.T, repo *mockRepository, name, email string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email, Role: role, PasswordHash: "x"}
	if err := repo.users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return user
}

func seedCourse(t *testing.T, repo *mockRepository, name, teacherID string, classCode int) *models.Course {
	t.Helper()
	course := &models.Course{Name: name, Description: "d", TeacherID: teacherID, ClassCode: classCode}
	if err := repo.courses.Create(context.Background(), course); err != nil {
		t.Fatalf("seed course %s: %v", name, err)
	}
	return course
}

func TestResolver_ResolveUser(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	resolver := NewResolver(repo)

	ana := seedUser(t, repo, "Ana Torres", "ana@example.com", models.RoleStudent)
	seedUser(t, repo, "Ana Lopez", "ana.lopez@example.com", models.RoleStudent)
	teacher := seedUser(t, repo, "Carlos Ruiz", "carlos@example.com", models.RoleTeacher)

	t.Run("by id", func(t *testing.T) {
		got, err := resolver.ResolveUser(ctx, ana.ID, models.RoleStudent)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != ana.ID {
			t.Errorf("resolved %s, want %s", got.ID, ana.ID)
		}
	})

	t.Run("by email", func(t *testing.T) {
		got, err := resolver.ResolveUser(ctx, "ana@example.com", models.RoleStudent)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != ana.ID {
			t.Errorf("resolved %s, want %s", got.ID, ana.ID)
		}
	})

	t.Run("by unique name", func(t *testing.T) {
		got, err := resolver.ResolveUser(ctx, "Torres", models.RoleStudent)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != ana.ID {
			t.Errorf("resolved %s, want %s", got.ID, ana.ID)
		}
	})

	t.Run("ambiguous name", func(t *testing.T) {
		_, err := resolver.ResolveUser(ctx, "Ana", models.RoleStudent)
		var ae *AmbiguousError
		if !errors.As(err, &ae) {
			t.Fatalf("want AmbiguousError, got %v", err)
		}
		if ae.Matches != 2 {
			t.Errorf("Matches = %d, want 2", ae.Matches)
		}
	})

	t.Run("wrong role reads as not found", func(t *testing.T) {
		_, err := resolver.ResolveUser(ctx, teacher.ID, models.RoleStudent)
		if !errors.Is(err, ErrStudentNotFound) {
			t.Fatalf("want ErrStudentNotFound, got %v", err)
		}
	})

	t.Run("email miss is terminal", func(t *testing.T) {
		// An unknown email never falls through to name matching.
		_, err := resolver.ResolveUser(ctx, "nobody@example.com", models.RoleStudent)
		if !errors.Is(err, ErrStudentNotFound) {
			t.Fatalf("want ErrStudentNotFound, got %v", err)
		}
	})

	t.Run("teacher role uses teacher sentinel", func(t *testing.T) {
		_, err := resolver.ResolveUser(ctx, "nobody", models.RoleTeacher)
		if !errors.Is(err, ErrTeacherNotFound) {
			t.Fatalf("want ErrTeacherNotFound, got %v", err)
		}
	})
}

func TestResolver_ResolveUsersFilter(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	resolver := NewResolver(repo)

	seedUser(t, repo, "Ana Torres", "ana@example.com", models.RoleStudent)
	seedUser(t, repo, "Ana Lopez", "ana.lopez@example.com", models.RoleStudent)

	t.Run("name returns all matches", func(t *testing.T) {
		got, err := resolver.ResolveUsersFilter(ctx, "Ana", models.RoleStudent)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("len = %d, want 2", len(got))
		}
	})

	t.Run("no match reports not found", func(t *testing.T) {
		_, err := resolver.ResolveUsersFilter(ctx, "zzz", models.RoleStudent)
		if !errors.Is(err, ErrStudentNotFound) {
			t.Fatalf("want ErrStudentNotFound, got %v", err)
		}
	})
}

func TestResolver_ResolveCourse(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	resolver := NewResolver(repo)

	teacher := seedUser(t, repo, "Carlos Ruiz", "carlos@example.com", models.RoleTeacher)
	algebra := seedCourse(t, repo, "Algebra", teacher.ID, 3)
	seedCourse(t, repo, "Algebra II", teacher.ID, 4)

	t.Run("by id", func(t *testing.T) {
		got, err := resolver.ResolveCourse(ctx, algebra.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != algebra.ID {
			t.Errorf("resolved %s, want %s", got.ID, algebra.ID)
		}
	})

	t.Run("by class code", func(t *testing.T) {
		got, err := resolver.ResolveCourse(ctx, "3")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != algebra.ID {
			t.Errorf("resolved %s, want %s", got.ID, algebra.ID)
		}
	})

	t.Run("by exact name case-insensitive", func(t *testing.T) {
		got, err := resolver.ResolveCourse(ctx, "algebra")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != algebra.ID {
			t.Errorf("resolved %s, want %s", got.ID, algebra.ID)
		}
	})

	t.Run("numeric miss is terminal", func(t *testing.T) {
		// "9" is not a known class code; it is never retried as a name.
		_, err := resolver.ResolveCourse(ctx, "9")
		if !errors.Is(err, ErrCourseNotFound) {
			t.Fatalf("want ErrCourseNotFound, got %v", err)
		}
	})

	t.Run("partial name does not match", func(t *testing.T) {
		_, err := resolver.ResolveCourse(ctx, "Alge")
		if !errors.Is(err, ErrCourseNotFound) {
			t.Fatalf("want ErrCourseNotFound, got %v", err)
		}
	})
}

func TestResolver_ResolveCoursesFilter(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	resolver := NewResolver(repo)

	teacher := seedUser(t, repo, "Carlos Ruiz", "carlos@example.com", models.RoleTeacher)
	seedCourse(t, repo, "Algebra", teacher.ID, 3)
	seedCourse(t, repo, "Algebra II", teacher.ID, 4)
	seedCourse(t, repo, "History", teacher.ID, 5)

	t.Run("substring matches several", func(t *testing.T) {
		got, err := resolver.ResolveCoursesFilter(ctx, "Algebra")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("len = %d, want 2", len(got))
		}
	})

	t.Run("class code matches one", func(t *testing.T) {
		got, err := resolver.ResolveCoursesFilter(ctx, "5")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].Name != "History" {
			t.Errorf("got %d courses, want History only", len(got))
		}
	})
}
