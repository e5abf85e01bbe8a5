package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/playdeckapp/playdeck-server/internal/domain"
	domainerrors "github.com/playdeckapp/playdeck-server/internal/errors"
	"github.com/playdeckapp/playdeck-server/internal/store"
)

// AdminService handles admin-only user management operations.
type AdminService struct {
	store  store.Store
	logger *slog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(store store.Store, logger *slog.Logger) *AdminService {
	return &AdminService{
		store:  store,
		logger: logger,
	}
}

// ListUsers returns all non-deleted users.
func (s *AdminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ListPendingUsers returns all users awaiting approval.
func (s *AdminService) ListPendingUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.store.ListPendingUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending users: %w", err)
	}
	return users, nil
}

// GetUser returns a user by ID.
func (s *AdminService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ApproveUser activates a pending user account.
func (s *AdminService) ApproveUser(ctx context.Context, adminUserID, targetUserID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !user.IsPending() {
		return nil, domainerrors.Conflict("user is not pending approval")
	}

	user.Status = domain.UserStatusActive
	user.ApprovedBy = adminUserID
	user.ApprovedAt = time.Now()
	user.Touch()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("approve user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User approved",
			"admin_id", adminUserID,
			"user_id", targetUserID,
			"email", user.Email,
		)
	}

	return user, nil
}
