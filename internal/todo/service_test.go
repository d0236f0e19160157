package todo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/financeflow/internal/todo"
)

func TestService_Create(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name      string
		params    todo.CreateParams
		setupMock func(m *todo.MockRepository)
		wantErr   bool
	}{
		{
			name:   "DefaultsToActiveMedium",
			params: todo.CreateParams{UserID: userID, Title: "Pay rent"},
			setupMock: func(m *todo.MockRepository) {
				m.EXPECT().
					CreateTodo(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, td *todo.Todo) error {
						assert.Equal(t, todo.StatusActive, td.Status)
						assert.Equal(t, todo.PriorityMedium, td.Priority)

						td.ID = uuid.New()

						return nil
					})
			},
		},
		{
			name:    "EmptyTitle",
			params:  todo.CreateParams{UserID: userID, Title: " "},
			wantErr: true,
		},
		{
			name:    "UnknownPriority",
			params:  todo.CreateParams{UserID: userID, Title: "x", Priority: "urgent"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := todo.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := todo.NewService(repo).Create(context.Background(), tt.params)
			if tt.wantErr {
				assert.ErrorIs(t, err, todo.ErrInvalid)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func TestService_Toggle(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()

	stored := &todo.Todo{ID: id, UserID: userID, Title: "File taxes", Status: todo.StatusActive}

	ctrl := gomock.NewController(t)
	repo := todo.NewMockRepository(ctrl)

	repo.EXPECT().GetTodo(gomock.Any(), userID, id).Return(stored, nil).Times(2)
	repo.EXPECT().UpdateTodo(gomock.Any(), stored).Return(nil).Times(2)

	svc := todo.NewService(repo)

	got, err := svc.Toggle(context.Background(), userID, id)
	require.NoError(t, err)
	assert.Equal(t, todo.StatusDone, got.Status)
	assert.NotNil(t, got.CompletedAt)

	got, err = svc.Toggle(context.Background(), userID, id)
	require.NoError(t, err)
	assert.Equal(t, todo.StatusActive, got.Status)
	assert.Nil(t, got.CompletedAt)
}

func TestService_Toggle_WriteFailure(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()

	ctrl := gomock.NewController(t)
	repo := todo.NewMockRepository(ctrl)

	repo.EXPECT().GetTodo(gomock.Any(), userID, id).Return(&todo.Todo{ID: id, Status: todo.StatusActive}, nil)
	repo.EXPECT().UpdateTodo(gomock.Any(), gomock.Any()).Return(errors.New("timeout"))

	_, err := todo.NewService(repo).Toggle(context.Background(), userID, id)
	assert.EqualError(t, err, "timeout")
}

func TestTodo_Overdue(t *testing.T) {
	today := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)
	yesterday := time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)
	todayDue := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	assert.True(t, (&todo.Todo{Status: todo.StatusActive, DueDate: &yesterday}).Overdue(today))
	assert.False(t, (&todo.Todo{Status: todo.StatusActive, DueDate: &todayDue}).Overdue(today))
	assert.False(t, (&todo.Todo{Status: todo.StatusDone, DueDate: &yesterday}).Overdue(today))
	assert.False(t, (&todo.Todo{Status: todo.StatusActive}).Overdue(today))
}
