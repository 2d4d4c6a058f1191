package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/campuskit/enrollment-service/internal/models"
	"github.com/campuskit/enrollment-service/internal/repositories"
)

// ===== TOKEN CLASSIFICATION =====

// TokenKind tags the syntactic shape of a raw identifier token. The shape
// is decided once, up front, and picks the single lookup strategy: an
// empty result at the chosen strategy is terminal, never a fallthrough to
// the next one.
type TokenKind int

const (
	// TokenID is a syntactically valid stored id (UUID).
	TokenID TokenKind = iota
	// TokenEmail contains an @.
	TokenEmail
	// TokenNumeric parses as a base-10 integer (class code lookups).
	TokenNumeric
	// TokenName is anything else: free text matched against names.
	TokenName
)

// Token is a classified identifier token.
type Token struct {
	Kind    TokenKind
	Raw     string
	Numeric int
}

// ClassifyToken decides a raw token's shape. Precedence mirrors the
// lookup order: stored id, then email, then number, then free text.
func ClassifyToken(raw string) Token {
	raw = strings.TrimSpace(raw)
	if _, err := uuid.Parse(raw); err == nil {
		return Token{Kind: TokenID, Raw: raw}
	}
	if strings.Contains(raw, "@") {
		return Token{Kind: TokenEmail, Raw: raw}
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return Token{Kind: TokenNumeric, Raw: raw, Numeric: n}
	}
	return Token{Kind: TokenName, Raw: raw}
}

// ===== RESOLVER =====

// Resolver maps loosely-typed identifier tokens (stored id, email, class
// code, or free-text name) onto stored entities.
type Resolver struct {
	repo repositories.Repository
}

func NewResolver(repo repositories.Repository) *Resolver {
	return &Resolver{repo: repo}
}

// ResolveUser resolves a token to exactly one user holding the given
// role. A record found under a different role reports not-found, so
// callers cannot distinguish "absent" from "wrong role". A name matching
// several users is ambiguous, never an arbitrary pick.
func (r *Resolver) ResolveUser(ctx context.Context, raw string, role models.UserRole) (*models.User, error) {
	notFound := userNotFoundError(role)
	token := ClassifyToken(raw)

	switch token.Kind {
	case TokenID:
		user, err := r.repo.User().GetByIDAndRole(ctx, token.Raw, role)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, notFound
			}
			return nil, fmt.Errorf("failed to resolve user by id: %w", err)
		}
		return user, nil

	case TokenEmail:
		user, err := r.repo.User().GetByEmailAndRole(ctx, token.Raw, role)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, notFound
			}
			return nil, fmt.Errorf("failed to resolve user by email: %w", err)
		}
		return user, nil

	default:
		matches, err := r.repo.User().SearchByName(ctx, token.Raw, &role)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve user by name: %w", err)
		}
		switch len(matches) {
		case 0:
			return nil, notFound
		case 1:
			return matches[0], nil
		default:
			return nil, &AmbiguousError{Kind: string(role), Token: raw, Matches: len(matches)}
		}
	}
}

// ResolveUsersFilter resolves a token for list filtering. Unlike
// ResolveUser, a name matching several users returns the whole set: the
// filter means "any of them".
func (r *Resolver) ResolveUsersFilter(ctx context.Context, raw string, role models.UserRole) ([]*models.User, error) {
	notFound := userNotFoundError(role)
	token := ClassifyToken(raw)

	switch token.Kind {
	case TokenID:
		user, err := r.repo.User().GetByIDAndRole(ctx, token.Raw, role)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, notFound
			}
			return nil, fmt.Errorf("failed to resolve user by id: %w", err)
		}
		return []*models.User{user}, nil

	case TokenEmail:
		user, err := r.repo.User().GetByEmailAndRole(ctx, token.Raw, role)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, notFound
			}
			return nil, fmt.Errorf("failed to resolve user by email: %w", err)
		}
		return []*models.User{user}, nil

	default:
		matches, err := r.repo.User().SearchByName(ctx, token.Raw, &role)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve user by name: %w", err)
		}
		if len(matches) == 0 {
			return nil, notFound
		}
		return matches, nil
	}
}

// ResolveCourse resolves a token to exactly one course: stored id, then
// class code for numeric tokens, then name. Name matching is exact and
// case-insensitive, the strict strategy used when creating an enrollment.
func (r *Resolver) ResolveCourse(ctx context.Context, raw string) (*models.Course, error) {
	token := ClassifyToken(raw)

	switch token.Kind {
	case TokenID:
		course, err := r.repo.Course().GetByID(ctx, token.Raw)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrCourseNotFound
			}
			return nil, fmt.Errorf("failed to resolve course by id: %w", err)
		}
		return course, nil

	case TokenNumeric:
		course, err := r.repo.Course().GetByClassCode(ctx, token.Numeric)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrCourseNotFound
			}
			return nil, fmt.Errorf("failed to resolve course by class code: %w", err)
		}
		return course, nil

	default:
		course, err := r.repo.Course().GetByName(ctx, token.Raw)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrCourseNotFound
			}
			return nil, fmt.Errorf("failed to resolve course by name: %w", err)
		}
		return course, nil
	}
}

// ResolveCoursesFilter resolves a token for list filtering. Name tokens
// match as a case-insensitive substring and may return several courses;
// the filter means "any of them". The looser matching here versus
// ResolveCourse is intentional.
func (r *Resolver) ResolveCoursesFilter(ctx context.Context, raw string) ([]*models.Course, error) {
	token := ClassifyToken(raw)

	switch token.Kind {
	case TokenID:
		course, err := r.repo.Course().GetByID(ctx, token.Raw)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrCourseNotFound
			}
			return nil, fmt.Errorf("failed to resolve course by id: %w", err)
		}
		return []*models.Course{course}, nil

	case TokenNumeric:
		course, err := r.repo.Course().GetByClassCode(ctx, token.Numeric)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrCourseNotFound
			}
			return nil, fmt.Errorf("failed to resolve course by class code: %w", err)
		}
		return []*models.Course{course}, nil

	default:
		matches, err := r.repo.Course().SearchByName(ctx, token.Raw)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve course by name: %w", err)
		}
		if len(matches) == 0 {
			return nil, ErrCourseNotFound
		}
		return matches, nil
	}
}

func userNotFoundError(role models.UserRole) error {
	switch role {
	case models.RoleStudent:
		return ErrStudentNotFound
	case models.RoleTeacher:
		return ErrTeacherNotFound
	default:
		return ErrUserNotFound
	}
}
