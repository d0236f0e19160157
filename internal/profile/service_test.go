package profile_test

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

	"github.com/MrJamesThe3rd/financeflow/internal/profile"
)

func TestProfile_Activation(t *testing.T) {
	activated := time.Now()
	yes, no := true, false

	tests := []struct {
		name    string
		profile profile.Profile
		want    profile.Activation
	}{
		{name: "fresh signup", profile: profile.Profile{}, want: profile.ActivationPending},
		{name: "active flag without approval", profile: profile.Profile{IsActive: &yes}, want: profile.ActivationPending},
		{name: "approved", profile: profile.Profile{ActivatedAt: &activated}, want: profile.ActivationActive},
		{name: "approved and active", profile: profile.Profile{ActivatedAt: &activated, IsActive: &yes}, want: profile.ActivationActive},
		{name: "switched off", profile: profile.Profile{ActivatedAt: &activated, IsActive: &no}, want: profile.ActivationDeactivated},
		{name: "switched off before approval", profile: profile.Profile{IsActive: &no}, want: profile.ActivationDeactivated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.profile.Activation())
		})
	}
}

func TestService_Activation(t *testing.T) {
	userID := uuid.New()
	activated := time.Now()

	ctrl := gomock.NewController(t)
	repo := profile.NewMockRepository(ctrl)
	svc := profile.NewService(repo)

	repo.EXPECT().GetProfile(gomock.Any(), userID).Return(nil, profile.ErrNotFound)

	got, err := svc.Activation(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, profile.ActivationPending, got)

	repo.EXPECT().GetProfile(gomock.Any(), userID).Return(&profile.Profile{ActivatedAt: &activated}, nil)

	got, err = svc.Activation(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, profile.ActivationActive, got)

	boom := errors.New("connection reset")
	repo.EXPECT().GetProfile(gomock.Any(), userID).Return(nil, boom)

	_, err = svc.Activation(context.Background(), userID)
	assert.ErrorIs(t, err, boom)
}

func TestService_Get_DefaultCurrency(t *testing.T) {
	userID := uuid.New()

	ctrl := gomock.NewController(t)
	repo := profile.NewMockRepository(ctrl)

	repo.EXPECT().GetProfile(gomock.Any(), userID).Return(&profile.Profile{ID: userID}, nil)

	got, err := profile.NewService(repo).Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, profile.DefaultCurrency, got.Currency)
}

func TestService_Update(t *testing.T) {
	userID := uuid.New()
	activated := time.Now()

	tests := []struct {
		name    string
		params  profile.UpdateParams
		wantErr error
		check   func(t *testing.T, p *profile.Profile)
	}{
		{
			name: "all fields",
			params: profile.UpdateParams{
				Name:           new(" Ana "),
				Currency:       new("eur"),
				InitialBalance: new(decimal.NewFromInt(250)),
			},
			check: func(t *testing.T, p *profile.Profile) {
				assert.Equal(t, "Ana", p.Name)
				assert.Equal(t, "EUR", p.Currency)
				assert.True(t, decimal.NewFromInt(250).Equal(p.InitialBalance))
				assert.Equal(t, profile.ActivationActive, p.Activation())
			},
		},
		{
			name:    "unknown currency",
			params:  profile.UpdateParams{Currency: new("XXY")},
			wantErr: profile.ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := profile.NewMockRepository(ctrl)

			repo.EXPECT().
				GetProfile(gomock.Any(), userID).
				Return(&profile.Profile{ID: userID, Currency: "IDR", ActivatedAt: &activated}, nil)

			if tt.wantErr == nil {
				repo.EXPECT().UpdateProfile(gomock.Any(), gomock.Any()).Return(nil)
			}

			got, err := profile.NewService(repo).Update(context.Background(), userID, tt.params)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestService_ResetData(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name    string
		repoErr error
	}{
		{name: "wipes the user's data"},
		{name: "unknown user", repoErr: profile.ErrNotFound},
		{name: "store failure", repoErr: errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := profile.NewMockRepository(ctrl)

			repo.EXPECT().ResetData(gomock.Any(), userID).Return(tt.repoErr)

			err := profile.NewService(repo).ResetData(context.Background(), userID)
			if tt.repoErr != nil {
				assert.ErrorIs(t, err, tt.repoErr)
				return
			}

			require.NoError(t, err)
		})
	}
}
