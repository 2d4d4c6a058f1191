package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/campuskit/enrollment-service/internal/auth"
	"github.com/campuskit/enrollment-service/internal/models"
	"github.com/campuskit/enrollment-service/internal/repositories"
	"github.com/campuskit/enrollment-service/internal/utils"
	"github.com/campuskit/enrollment-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	validator *validator.Validator
	auth      *auth.Manager
	logger    utils.Logger
}

func NewUserService(repo repositories.Repository, v *validator.Validator, authMgr *auth.Manager, logger utils.Logger) UserService {
	return &userService{
		repo:      repo,
		validator: v,
		auth:      authMgr,
		logger:    logger,
	}
}

// Create registers a new account. Granting the admin role requires an
// authenticated admin principal; anyone (including anonymous callers) may
// create student and teacher accounts.
func (s *userService) Create(ctx context.Context, req *CreateUserRequest, principal Principal) (*models.PublicUser, error) {
	if err := s.validator.GetBusinessValidator().ValidateUserCreate(req); err != nil {
		return nil, err
	}

	role := models.UserRole(req.Role)
	if err := authorizeAdminRoleGrant(principal, role); err != nil {
		return nil, err
	}

	// Friendly pre-check; the unique index on email is the race backstop.
	if _, err := s.repo.User().GetByEmail(ctx, req.Email); err == nil {
		return nil, NewConflictError(ConflictEmailTaken, "email %s is already registered", req.Email)
	} else if !repositories.IsNotFoundError(err) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Role:         role,
		PasswordHash: hash,
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, NewConflictError(ConflictEmailTaken, "email %s is already registered", req.Email)
		}
		return nil, err
	}

	s.logger.Info("user created", "user_id", user.ID, "role", user.Role)
	return user.Public(), nil
}

// Login verifies credentials and issues a signed token. Unknown email and
// wrong password collapse into the same error so callers cannot probe for
// registered addresses.
func (s *userService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := s.validator.GetBusinessValidator().ValidateLogin(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return &LoginResponse{Token: token, User: user.Public()}, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.PublicUser, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUserNotFound
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user.Public(), nil
}

// List returns users matching the optional role and name filters. An
// unknown role value matches nobody rather than failing the request.
func (s *userService) List(ctx context.Context, filters UserListFilters) ([]*models.PublicUser, error) {
	var repoFilters repositories.UserFilters
	if filters.Name != "" {
		name := filters.Name
		repoFilters.Name = &name
	}
	if filters.Role != "" {
		role := models.UserRole(filters.Role)
		if !models.ValidRole(role) {
			return []*models.PublicUser{}, nil
		}
		repoFilters.Role = &role
	}

	users, err := s.repo.User().List(ctx, repoFilters)
	if err != nil {
		return nil, err
	}

	result := make([]*models.PublicUser, 0, len(users))
	for _, u := range users {
		result = append(result, u.Public())
	}
	return result, nil
}

func (s *userService) Update(ctx context.Context, id string, req *UpdateUserRequest) (*models.PublicUser, error) {
	if err := s.validator.GetBusinessValidator().ValidateUserUpdate(req); err != nil {
		return nil, err
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUserNotFound
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil && *req.Email != user.Email {
		if _, err := s.repo.User().GetByEmail(ctx, *req.Email); err == nil {
			return nil, NewConflictError(ConflictEmailTaken, "email %s is already registered", *req.Email)
		} else if !repositories.IsNotFoundError(err) {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = models.UserRole(*req.Role)
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, NewConflictError(ConflictEmailTaken, "email %s is already registered", user.Email)
		}
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.logger.Info("user updated", "user_id", user.ID)
	return user.Public(), nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrUserNotFound
	}

	if err := s.repo.User().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return err
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}
