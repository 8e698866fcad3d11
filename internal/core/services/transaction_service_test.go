package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/faizantanveeer/richloom-finance-app/internal/apperrors"
	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
	portssvc "github.com/faizantanveeer/richloom-finance-app/internal/core/ports/services"
	"github.com/faizantanveeer/richloom-finance-app/internal/core/services"
	"github.com/faizantanveeer/richloom-finance-app/internal/dto"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindDefaultAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SetDefaultAccount(ctx context.Context, userID string, accountID string) error {
	args := m.Called(ctx, userID, accountID)
	return args.Error(0)
}

// --- Test Suite Setup ---

type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo     *MockTransactionRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.TransactionSvcFacade

	userID  string
	account *domain.Account
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewTransactionService(suite.mockTxnRepo, suite.mockAccountRepo)

	suite.userID = uuid.NewString()
	suite.account = &domain.Account{
		AccountID: uuid.NewString(),
		UserID:    suite.userID,
		Name:      "Main",
		IsDefault: true,
	}
}

// --- Test Cases ---

func (suite *TransactionServiceTestSuite) TestCreateTransaction_OneOff() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		AccountID:  suite.account.AccountID,
		Type:       "EXPENSE",
		Amount:     decimal.NewFromInt(45),
		Category:   "groceries",
		OccurredAt: time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(suite.account, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.NotEmpty(txn.TransactionID)
	suite.Equal(domain.Expense, txn.Type)
	suite.False(txn.IsRecurring)
	suite.Nil(txn.RecurringInterval)
	suite.Nil(txn.Status)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_RecurringBecomesActiveSchedule() {
	ctx := context.Background()
	interval := "MONTHLY"
	occurredAt := time.Date(2025, time.January, 31, 9, 0, 0, 0, time.UTC)
	req := dto.CreateTransactionRequest{
		AccountID:         suite.account.AccountID,
		Type:              "EXPENSE",
		Amount:            decimal.NewFromInt(15),
		Category:          "subscriptions",
		OccurredAt:        occurredAt,
		IsRecurring:       true,
		RecurringInterval: &interval,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(suite.account, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.True(txn.IsRecurring)
	suite.Require().NotNil(txn.Status)
	suite.Equal(domain.RecurringActive, *txn.Status)
	// The created row is the first occurrence, so the schedule pointer starts
	// just past it: Jan 31 monthly clamps to Feb 28.
	suite.Require().NotNil(txn.LastProcessedAt)
	suite.Equal(occurredAt, *txn.LastProcessedAt)
	suite.Require().NotNil(txn.NextOccurrenceAt)
	suite.Equal(time.Date(2025, time.February, 28, 9, 0, 0, 0, time.UTC), *txn.NextOccurrenceAt)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_RecurringWithoutIntervalRejected() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		AccountID:   suite.account.AccountID,
		Type:        "EXPENSE",
		Amount:      decimal.NewFromInt(15),
		Category:    "subscriptions",
		OccurredAt:  time.Now().UTC(),
		IsRecurring: true,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(suite.account, nil).Once()

	_, err := suite.service.CreateTransaction(ctx, suite.userID, req)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_OtherUsersAccountRejected() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		AccountID:  suite.account.AccountID,
		Type:       "INCOME",
		Amount:     decimal.NewFromInt(100),
		Category:   "salary",
		OccurredAt: time.Now().UTC(),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(suite.account, nil).Once()

	_, err := suite.service.CreateTransaction(ctx, uuid.NewString(), req)

	// Ownership failures read as not-found, not forbidden.
	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestListTransactions_DefaultsLimit() {
	ctx := context.Background()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(suite.account, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByAccountID", ctx, suite.account.AccountID, 20, (*string)(nil)).
		Return([]domain.Transaction{}, nil, nil).Once()

	txns, nextToken, err := suite.service.ListTransactions(ctx, suite.userID, suite.account.AccountID, 0, nil)

	suite.Require().NoError(err)
	suite.Empty(txns)
	suite.Nil(nextToken)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
