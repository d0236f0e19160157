package category_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/financeflow/internal/category"
)

func TestService_Create(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name      string
		params    category.CreateParams
		setupMock func(m *category.MockRepository)
		wantErr   error
	}{
		{
			name:   "Success",
			params: category.CreateParams{UserID: userID, Name: " Food ", Type: category.TypeExpense},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().
					CreateCategory(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *category.Category) error {
						assert.Equal(t, "Food", c.Name)
						assert.Equal(t, "tag", c.Icon)
						assert.False(t, c.IsDefault)

						c.ID = uuid.New()

						return nil
					})
			},
		},
		{
			name:    "EmptyName",
			params:  category.CreateParams{UserID: userID, Name: "  ", Type: category.TypeExpense},
			wantErr: category.ErrInvalid,
		},
		{
			name:    "UnknownType",
			params:  category.CreateParams{UserID: userID, Name: "Gifts", Type: "transfer"},
			wantErr: category.ErrInvalid,
		},
		{
			name:   "RepoError",
			params: category.CreateParams{UserID: userID, Name: "Gifts", Type: category.TypeBoth},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := category.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := category.NewService(repo).Create(context.Background(), tt.params)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func TestLookup(t *testing.T) {
	food := &category.Category{ID: uuid.New(), Name: "Food", Icon: "utensils"}
	lookup := category.NewLookup([]*category.Category{food, nil})

	assert.Equal(t, "Food", lookup.Name(food.ID, "Other"))
	assert.Equal(t, "utensils", lookup.Icon(food.ID))
	assert.Equal(t, "Other", lookup.Name(uuid.New(), "Other"))
	assert.Equal(t, "Other", lookup.Name(uuid.Nil, "Other"))
}

func TestFindByName(t *testing.T) {
	cats := []*category.Category{{Name: "Food"}, {Name: "Salary"}}

	c, ok := category.FindByName(cats, " salary")
	require.True(t, ok)
	assert.Equal(t, "Salary", c.Name)

	_, ok = category.FindByName(cats, "Rent")
	assert.False(t, ok)
}
