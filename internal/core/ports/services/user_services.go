package services

import (
	"context"

	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
	"github.com/faizantanveeer/richloom-finance-app/internal/dto"
)

// UserSvcFacade defines operations for user records. Authentication itself is
// handled by the external identity provider; this only manages the local rows
// that anchor ownership.
type UserSvcFacade interface {
	// CreateUser persists a new user record.
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)

	// GetUserByID retrieves a specific user.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}
