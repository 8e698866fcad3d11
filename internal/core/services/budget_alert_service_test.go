package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
	portssvc "github.com/faizantanveeer/richloom-finance-app/internal/core/ports/services"
	"github.com/faizantanveeer/richloom-finance-app/internal/core/services"
	"github.com/faizantanveeer/richloom-finance-app/internal/utils/recurrence"
)

// MockBudgetRepository is a mock type for the BudgetRepositoryFacade interface
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) FindBudgetByUserID(ctx context.Context, userID string) (*domain.Budget, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindBudgetsForEvaluation(ctx context.Context) ([]domain.BudgetEvaluationCandidate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetEvaluationCandidate), args.Error(1)
}

func (m *MockBudgetRepository) UpsertBudget(ctx context.Context, budget domain.Budget) (*domain.Budget, error) {
	args := m.Called(ctx, budget)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) MarkAlertSent(ctx context.Context, budgetID string, sentAt time.Time) error {
	args := m.Called(ctx, budgetID, sentAt)
	return args.Error(0)
}

// MockAlertNotifier is a mock type for the AlertNotifier interface
type MockAlertNotifier struct {
	mock.Mock
}

func (m *MockAlertNotifier) SendBudgetAlert(ctx context.Context, alert portssvc.BudgetAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertNotifier) SendMonthlyReport(ctx context.Context, report portssvc.MonthlyReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

// --- Test Suite Setup ---

type BudgetAlertServiceTestSuite struct {
	suite.Suite
	mockBudgetRepo *MockBudgetRepository
	mockTxnRepo    *MockTransactionRepository
	mockNotifier   *MockAlertNotifier
	service        portssvc.BudgetAlertSvcFacade

	now  time.Time
	from time.Time
	to   time.Time
}

func (suite *BudgetAlertServiceTestSuite) SetupTest() {
	suite.mockBudgetRepo = new(MockBudgetRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockNotifier = new(MockAlertNotifier)
	suite.service = services.NewBudgetAlertService(suite.mockBudgetRepo, suite.mockTxnRepo, suite.mockNotifier)

	suite.now = time.Date(2025, time.June, 18, 6, 0, 0, 0, time.UTC)
	suite.from, suite.to = recurrence.MonthWindow(suite.now)
}

// newCandidate builds a budget joined with an owner and default account.
func (suite *BudgetAlertServiceTestSuite) newCandidate(amount decimal.Decimal, lastAlertSentAt *time.Time) domain.BudgetEvaluationCandidate {
	userID := uuid.NewString()
	return domain.BudgetEvaluationCandidate{
		Budget: domain.Budget{
			BudgetID:        uuid.NewString(),
			UserID:          userID,
			Amount:          amount,
			LastAlertSentAt: lastAlertSentAt,
		},
		Owner: domain.User{
			UserID: userID,
			Email:  "owner@example.com",
			Name:   "Owner",
		},
		DefaultAccount: &domain.Account{
			AccountID: uuid.NewString(),
			UserID:    userID,
			Name:      "Main",
			IsDefault: true,
		},
	}
}

func (suite *BudgetAlertServiceTestSuite) expectSpend(c domain.BudgetEvaluationCandidate, spend decimal.Decimal) {
	suite.mockTxnRepo.On("SumExpensesInWindow", mock.Anything, c.Budget.UserID, c.DefaultAccount.AccountID, suite.from, suite.to).
		Return(spend, nil).Once()
}

// --- Test Cases ---

func (suite *BudgetAlertServiceTestSuite) TestRunBudgetAlertTick_FirstAlertAtThreshold() {
	ctx := context.Background()
	candidate := suite.newCandidate(decimal.NewFromInt(1000), nil)

	suite.mockBudgetRepo.On("FindBudgetsForEvaluation", ctx).
		Return([]domain.BudgetEvaluationCandidate{candidate}, nil).Once()
	suite.expectSpend(candidate, decimal.NewFromInt(850))
	suite.mockNotifier.On("SendBudgetAlert", mock.Anything, mock.MatchedBy(func(alert portssvc.BudgetAlert) bool {
		return alert.RecipientEmail == candidate.Owner.Email && alert.PercentUsed.Equal(decimal.NewFromInt(85))
	})).Return(nil).Once()
	suite.mockBudgetRepo.On("MarkAlertSent", mock.Anything, candidate.Budget.BudgetID, suite.now).Return(nil).Once()

	summary, err := suite.service.RunBudgetAlertTick(ctx, suite.now)

	suite.Require().NoError(err)
	suite.Equal(1, summary.Alerted)
	suite.Equal(0, summary.Failed)
	suite.mockBudgetRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *BudgetAlertServiceTestSuite) TestRunBudgetAlertTick_NoSecondAlertSameMonth() {
	ctx := context.Background()
	alreadySent := suite.now.AddDate(0, 0, -3)
	candidate := suite.newCandidate(decimal.NewFromInt(1000), &alreadySent)

	suite.mockBudgetRepo.On("FindBudgetsForEvaluation", ctx).
		Return([]domain.BudgetEvaluationCandidate{candidate}, nil).Once()
	// Spend climbed to 95% since the first alert; still no second send.
	suite.expectSpend(candidate, decimal.NewFromInt(950))

	summary, err := suite.service.RunBudgetAlertTick(ctx, suite.now)

	suite.Require().NoError(err)
	suite.Equal(0, summary.Alerted)
	suite.Equal(1, summary.Skipped)
	suite.mockNotifier.AssertNotCalled(suite.T(), "SendBudgetAlert", mock.Anything, mock.Anything)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "MarkAlertSent", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BudgetAlertServiceTestSuite) TestRunBudgetAlertTick_NewMonthRearmsBelowThreshold() {
	ctx := context.Background()
	lastMonth := time.Date(2025, time.May, 28, 12, 0, 0, 0, time.UTC)
	candidate := suite.newCandidate(decimal.NewFromInt(1000), &lastMonth)

	suite.mockBudgetRepo.On("FindBudgetsForEvaluation", ctx).
		Return([]domain.BudgetEvaluationCandidate{candidate}, nil).Once()
	// Only 10% used, but a new calendar month started since the last alert.
	suite.expectSpend(candidate, decimal.NewFromInt(100))
	suite.mockNotifier.On("SendBudgetAlert", mock.Anything, mock.MatchedBy(func(alert portssvc.BudgetAlert) bool {
		return alert.PercentUsed.Equal(decimal.NewFromInt(10))
	})).Return(nil).Once()
	suite.mockBudgetRepo.On("MarkAlertSent", mock.Anything, candidate.Budget.BudgetID, suite.now).Return(nil).Once()

	summary, err := suite.service.RunBudgetAlertTick(ctx, suite.now)

	suite.Require().NoError(err)
	suite.Equal(1, summary.Alerted)
	suite.mockNotifier.AssertExpectations(suite.T())
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func (suite *BudgetAlertServiceTestSuite) TestRunBudgetAlertTick_BelowThresholdNeverAlerted() {
	ctx := context.Background()
	candidate := suite.newCandidate(decimal.NewFromInt(1000), nil)

	suite.mockBudgetRepo.On("FindBudgetsForEvaluation", ctx).
		Return([]domain.BudgetEvaluationCandidate{candidate}, nil).Once()
	suite.expectSpend(candidate, decimal.NewFromInt(799))

	summary, err := suite.service.RunBudgetAlertTick(ctx, suite.now)

	suite.Require().NoError(err)
	suite.Equal(0, summary.Alerted)
	suite.Equal(1, summary.Skipped)
	suite.mockNotifier.AssertNotCalled(suite.T(), "SendBudgetAlert", mock.Anything, mock.Anything)
}

func (suite *BudgetAlertServiceTestSuite) TestRunBudgetAlertTick_ZeroBudgetWithSpendAlerts() {
	ctx := context.Background()
	candidate := suite.newCandidate(decimal.Zero, nil)

	suite.mockBudgetRepo.On("FindBudgetsForEvaluation", ctx).
		Return([]domain.BudgetEvaluationCandidate{candidate}, nil).Once()
	suite.expectSpend(candidate, decimal.NewFromInt(5))
	// Any spend against a zero budget counts as fully used.
	suite.mockNotifier.On("SendBudgetAlert", mock.Anything, mock.MatchedBy(func(alert portssvc.BudgetAlert) bool {
		return alert.PercentUsed.Equal(decimal.NewFromInt(100))
	})).Return(nil).Once()
	suite.mockBudgetRepo.On("MarkAlertSent", mock.Anything, candidate.Budget.BudgetID, suite.now).Return(nil).Once()

	summary, err := suite.service.RunBudgetAlertTick(ctx, suite.now)

	suite.Require().NoError(err)
	suite.Equal(1, summary.Alerted)
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *BudgetAlertServiceTestSuite) TestRunBudgetAlertTick_ZeroBudgetZeroSpendSkipped() {
	ctx := context.Background()
	candidate := suite.newCandidate(decimal.Zero, nil)

	suite.mockBudgetRepo.On("FindBudgetsForEvaluation", ctx).
		Return([]domain.BudgetEvaluationCandidate{candidate}, nil).Once()
	suite.expectSpend(candidate, decimal.Zero)

	summary, err := suite.service.RunBudgetAlertTick(ctx, suite.now)

	suite.Require().NoError(err)
	suite.Equal(1, summary.Skipped)
	suite.mockNotifier.AssertNotCalled(suite.T(), "SendBudgetAlert", mock.Anything, mock.Anything)
}

func (suite *BudgetAlertServiceTestSuite) TestRunBudgetAlertTick_NoDefaultAccountSkipped() {
	ctx := context.Background()
	candidate := suite.newCandidate(decimal.NewFromInt(1000), nil)
	candidate.DefaultAccount = nil

	suite.mockBudgetRepo.On("FindBudgetsForEvaluation", ctx).
		Return([]domain.BudgetEvaluationCandidate{candidate}, nil).Once()

	summary, err := suite.service.RunBudgetAlertTick(ctx, suite.now)

	suite.Require().NoError(err)
	suite.Equal(1, summary.Skipped)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SumExpensesInWindow", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockNotifier.AssertNotCalled(suite.T(), "SendBudgetAlert", mock.Anything, mock.Anything)
}

func (suite *BudgetAlertServiceTestSuite) TestRunBudgetAlertTick_DeliveryFailureLeavesMarkerUntouched() {
	ctx := context.Background()
	candidate := suite.newCandidate(decimal.NewFromInt(1000), nil)

	suite.mockBudgetRepo.On("FindBudgetsForEvaluation", ctx).
		Return([]domain.BudgetEvaluationCandidate{candidate}, nil).Once()
	suite.expectSpend(candidate, decimal.NewFromInt(900))
	suite.mockNotifier.On("SendBudgetAlert", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	summary, err := suite.service.RunBudgetAlertTick(ctx, suite.now)

	suite.Require().NoError(err)
	suite.Equal(0, summary.Alerted)
	suite.Equal(1, summary.Failed)
	// Marker untouched: the next tick retries the send.
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "MarkAlertSent", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BudgetAlertServiceTestSuite) TestRunBudgetAlertTick_EvaluationQueryErrorFailsTick() {
	ctx := context.Background()
	suite.mockBudgetRepo.On("FindBudgetsForEvaluation", ctx).Return(nil, assert.AnError).Once()

	_, err := suite.service.RunBudgetAlertTick(ctx, suite.now)

	suite.Require().Error(err)
}

func TestBudgetAlertServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BudgetAlertServiceTestSuite))
}
