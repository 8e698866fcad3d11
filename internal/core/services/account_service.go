package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/faizantanveeer/richloom-finance-app/internal/apperrors"
	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
	portsrepo "github.com/faizantanveeer/richloom-finance-app/internal/core/ports/repositories"
	portssvc "github.com/faizantanveeer/richloom-finance-app/internal/core/ports/services"
	"github.com/faizantanveeer/richloom-finance-app/internal/dto"
)

// accountService provides account operations for the interactive API.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	if req.InitialBalance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance cannot be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID: uuid.NewString(),
		UserID:    userID,
		Name:      req.Name,
		IsDefault: req.IsDefault,
		Balance:   req.InitialBalance,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	// Ownership check: accounts are only visible to their owner.
	if account.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	return s.accountRepo.ListAccountsByUserID(ctx, userID)
}

func (s *accountService) SetDefaultAccount(ctx context.Context, userID string, accountID string) error {
	if _, err := s.GetAccountByID(ctx, userID, accountID); err != nil {
		return err
	}
	return s.accountRepo.SetDefaultAccount(ctx, userID, accountID)
}
