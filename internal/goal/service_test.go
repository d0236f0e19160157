package goal_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/financeflow/internal/goal"
)

func TestService_Create(t *testing.T) {
	userID := uuid.New()

	ctrl := gomock.NewController(t)
	repo := goal.NewMockRepository(ctrl)

	repo.EXPECT().
		CreateGoal(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, g *goal.Goal) error {
			assert.True(t, g.CurrentAmount.IsZero())
			assert.Nil(t, g.CompletedAt)

			g.ID = uuid.New()

			return nil
		})

	svc := goal.NewService(repo)

	got, err := svc.Create(context.Background(), goal.CreateParams{
		UserID:       userID,
		Name:         "Emergency fund",
		TargetAmount: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	assert.Equal(t, "Emergency fund", got.Name)

	_, err = svc.Create(context.Background(), goal.CreateParams{UserID: userID, Name: "", TargetAmount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, goal.ErrInvalid)

	_, err = svc.Create(context.Background(), goal.CreateParams{UserID: userID, Name: "Bike", TargetAmount: decimal.Zero})
	assert.ErrorIs(t, err, goal.ErrInvalid)
}

func TestService_AddFunds_CompletesOnce(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()

	stored := &goal.Goal{
		ID:            id,
		UserID:        userID,
		Name:          "Laptop",
		TargetAmount:  decimal.NewFromInt(1000),
		CurrentAmount: decimal.NewFromInt(900),
	}

	ctrl := gomock.NewController(t)
	repo := goal.NewMockRepository(ctrl)

	repo.EXPECT().GetGoal(gomock.Any(), userID, id).Return(stored, nil).Times(3)
	repo.EXPECT().UpdateGoal(gomock.Any(), stored).Return(nil).Times(3)

	svc := goal.NewService(repo)

	g, err := svc.AddFunds(context.Background(), userID, id, decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.Nil(t, g.CompletedAt, "950 of 1000 is not complete")

	g, err = svc.AddFunds(context.Background(), userID, id, decimal.NewFromInt(50))
	require.NoError(t, err)
	require.NotNil(t, g.CompletedAt, "reaching the target exactly completes the goal")

	first := *g.CompletedAt

	time.Sleep(time.Millisecond)

	g, err = svc.AddFunds(context.Background(), userID, id, decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.Equal(t, first, *g.CompletedAt, "completion is stamped once")
	assert.Equal(t, "1010", g.CurrentAmount.String())
}

func TestService_AddFunds_RejectsNonPositive(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := goal.NewMockRepository(ctrl)

	_, err := goal.NewService(repo).AddFunds(context.Background(), uuid.New(), uuid.New(), decimal.Zero)
	assert.ErrorIs(t, err, goal.ErrInvalid)
}

func TestService_Update_NeverClearsCompletion(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()
	done := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	stored := &goal.Goal{
		ID:            id,
		UserID:        userID,
		Name:          "Trip",
		TargetAmount:  decimal.NewFromInt(500),
		CurrentAmount: decimal.NewFromInt(500),
		CompletedAt:   &done,
	}

	ctrl := gomock.NewController(t)
	repo := goal.NewMockRepository(ctrl)

	repo.EXPECT().GetGoal(gomock.Any(), userID, id).Return(stored, nil)
	repo.EXPECT().UpdateGoal(gomock.Any(), gomock.Any()).Return(nil)

	g, err := goal.NewService(repo).Update(context.Background(), userID, id, goal.UpdateParams{
		TargetAmount: new(decimal.NewFromInt(2000)),
	})
	require.NoError(t, err)
	require.NotNil(t, g.CompletedAt)
	assert.Equal(t, done, *g.CompletedAt)
}
