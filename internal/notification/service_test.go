package notification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/financeflow/internal/budget"
	"github.com/MrJamesThe3rd/financeflow/internal/category"
	"github.com/MrJamesThe3rd/financeflow/internal/goal"
	"github.com/MrJamesThe3rd/financeflow/internal/notification"
	"github.com/MrJamesThe3rd/financeflow/internal/period"
	"github.com/MrJamesThe3rd/financeflow/internal/recurring"
	"github.com/MrJamesThe3rd/financeflow/internal/todo"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

var now = time.Date(2024, 6, 20, 9, 30, 0, 0, time.UTC)

func day(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return t
}

func TestService_List(t *testing.T) {
	userID := uuid.New()

	ctrl := gomock.NewController(t)
	repo := notification.NewMockRepository(ctrl)

	repo.EXPECT().
		ListNotifications(gomock.Any(), userID, notification.ListLimit).
		Return([]*notification.Notification{{Title: "a"}}, nil)

	got, err := notification.NewService(repo).List(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func sweepInput() (notification.SweepInput, map[string]uuid.UUID) {
	ids := map[string]uuid.UUID{
		"food":    uuid.New(),
		"rent":    uuid.New(),
		"todo":    uuid.New(),
		"done":    uuid.New(),
		"netflix": uuid.New(),
		"far":     uuid.New(),
		"goal":    uuid.New(),
		"open":    uuid.New(),
	}

	past := day("2024-06-18")
	future := day("2024-07-01")
	completed := now.Add(-time.Hour)

	in := notification.SweepInput{
		Now:   now,
		Month: period.Month("2024-06"),
		Transactions: []*transaction.Transaction{
			{Date: day("2024-06-03"), Type: transaction.TypeExpense, CategoryID: ids["food"], Amount: decimal.NewFromInt(85)},
			{Date: day("2024-06-04"), Type: transaction.TypeExpense, CategoryID: ids["rent"], Amount: decimal.NewFromInt(500)},
		},
		Budgets: []*budget.Budget{
			{CategoryID: ids["food"], Amount: decimal.NewFromInt(100), Month: "2024-06"},
			{CategoryID: ids["rent"], Amount: decimal.NewFromInt(1000), Month: "2024-06"},
		},
		Categories: []*category.Category{
			{ID: ids["food"], Name: "Food"},
			{ID: ids["rent"], Name: "Rent"},
		},
		Todos: []*todo.Todo{
			{ID: ids["todo"], Title: "Pay tax", Status: todo.StatusActive, DueDate: &past},
			{ID: ids["done"], Title: "Filed", Status: todo.StatusDone, DueDate: &past},
		},
		Recurring: []*recurring.Item{
			{ID: ids["netflix"], Name: "Netflix", Amount: decimal.NewFromInt(15), NextDate: day("2024-06-22"), IsActive: true},
			{ID: ids["far"], Name: "Insurance", Amount: decimal.NewFromInt(90), NextDate: future, IsActive: true},
		},
		Goals: []*goal.Goal{
			{ID: ids["goal"], Name: "Bike", TargetAmount: decimal.NewFromInt(300), CurrentAmount: decimal.NewFromInt(300), CompletedAt: &completed},
			{ID: ids["open"], Name: "House", TargetAmount: decimal.NewFromInt(1000)},
		},
	}

	return in, ids
}

func TestService_Sweep(t *testing.T) {
	userID := uuid.New()
	in, ids := sweepInput()
	startOfDay := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)

	ctrl := gomock.NewController(t)
	repo := notification.NewMockRepository(ctrl)

	repo.EXPECT().Exists(gomock.Any(), userID, notification.TypeBudgetWarning, ids["food"], startOfDay).Return(false, nil)
	repo.EXPECT().Exists(gomock.Any(), userID, notification.TypeTodoOverdue, ids["todo"], startOfDay).Return(false, nil)
	repo.EXPECT().Exists(gomock.Any(), userID, notification.TypeBillReminder, ids["netflix"], startOfDay).Return(true, nil)
	repo.EXPECT().Exists(gomock.Any(), userID, notification.TypeGoalMilestone, ids["goal"], time.Time{}).Return(false, nil)

	var stored []*notification.Notification

	repo.EXPECT().
		CreateNotification(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n *notification.Notification) error {
			stored = append(stored, n)
			return nil
		}).
		Times(3)

	got, err := notification.NewService(repo).Sweep(context.Background(), userID, in)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, stored, got)

	assert.Equal(t, notification.TypeBudgetWarning, got[0].Type)
	assert.Equal(t, "Budget warning: Food", got[0].Title)
	assert.Contains(t, got[0].Message, "85%")
	require.NotNil(t, got[0].ReferenceID)
	assert.Equal(t, ids["food"], *got[0].ReferenceID)

	assert.Equal(t, notification.TypeTodoOverdue, got[1].Type)
	assert.Equal(t, notification.TypeGoalMilestone, got[2].Type)

	for _, n := range got {
		assert.Equal(t, userID, n.UserID)
		assert.False(t, n.IsRead)
	}
}

func TestService_Sweep_OverBudgetMessage(t *testing.T) {
	userID := uuid.New()
	catID := uuid.New()

	in := notification.SweepInput{
		Now:   now,
		Month: "2024-06",
		Transactions: []*transaction.Transaction{
			{Date: day("2024-06-03"), Type: transaction.TypeExpense, CategoryID: catID, Amount: decimal.NewFromInt(130)},
		},
		Budgets:    []*budget.Budget{{CategoryID: catID, Amount: decimal.NewFromInt(100), Month: "2024-06"}},
		Categories: []*category.Category{{ID: catID, Name: "Fun"}},
	}

	ctrl := gomock.NewController(t)
	repo := notification.NewMockRepository(ctrl)

	repo.EXPECT().Exists(gomock.Any(), userID, notification.TypeBudgetWarning, catID, gomock.Any()).Return(false, nil)
	repo.EXPECT().CreateNotification(gomock.Any(), gomock.Any()).Return(nil)

	got, err := notification.NewService(repo).Sweep(context.Background(), userID, in)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "You are over your Fun budget by 30.00.", got[0].Message)
}

func TestService_Sweep_Nothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := notification.NewMockRepository(ctrl)

	got, err := notification.NewService(repo).Sweep(context.Background(), uuid.New(), notification.SweepInput{Now: now, Month: "2024-06"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestService_Sweep_RepoError(t *testing.T) {
	in, _ := sweepInput()
	boom := errors.New("boom")

	ctrl := gomock.NewController(t)
	repo := notification.NewMockRepository(ctrl)

	repo.EXPECT().Exists(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, boom)

	got, err := notification.NewService(repo).Sweep(context.Background(), uuid.New(), in)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, got)
}
