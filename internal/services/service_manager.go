package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/campuskit/enrollment-service/internal/auth"
	"github.com/campuskit/enrollment-service/internal/events"
	"github.com/campuskit/enrollment-service/internal/repositories"
	"github.com/campuskit/enrollment-service/internal/utils"
	"github.com/campuskit/enrollment-service/internal/validator"
)

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	logger    utils.Logger
	validator *validator.Validator
	auth      *auth.Manager
	publisher events.EventPublisher

	// Service instances
	userService       UserService
	courseService     CourseService
	enrollmentService EnrollmentService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(repo repositories.Repository, logger utils.Logger, v *validator.Validator, authMgr *auth.Manager, publisher events.EventPublisher) ServiceManager {
	return &serviceManager{
		repo:      repo,
		logger:    logger,
		validator: v,
		auth:      authMgr,
		publisher: publisher,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	resolver := NewResolver(sm.repo)

	sm.userService = NewUserService(sm.repo, sm.validator, sm.auth, sm.logger)
	sm.courseService = NewCourseService(sm.repo, resolver, sm.validator, sm.publisher, sm.logger)
	sm.enrollmentService = NewEnrollmentService(sm.repo, resolver, sm.validator, sm.publisher, sm.logger)

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.userService == nil {
		panic("user service not initialized")
	}
	return sm.userService
}

func (sm *serviceManager) Course() CourseService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.courseService == nil {
		panic("course service not initialized")
	}
	return sm.courseService
}

func (sm *serviceManager) Enrollment() EnrollmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.enrollmentService == nil {
		panic("enrollment service not initialized")
	}
	return sm.enrollmentService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close repository", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
