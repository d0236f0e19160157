package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestService_Status(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)
	future := now.AddDate(0, 1, 0)

	tests := []struct {
		name    string
		sub     *Subscription
		repoErr error
		want    Status
		wantErr bool
	}{
		{name: "no row", repoErr: ErrNotFound, want: StatusInactive},
		{name: "active without expiry", sub: &Subscription{Status: StatusActive}, want: StatusActive},
		{name: "active until next month", sub: &Subscription{Status: StatusActive, ExpiryDate: &future}, want: StatusActive},
		{name: "expired", sub: &Subscription{Status: StatusActive, ExpiryDate: &past}, want: StatusInactive},
		{name: "expires now", sub: &Subscription{Status: StatusActive, ExpiryDate: &now}, want: StatusInactive},
		{name: "inactive", sub: &Subscription{Status: StatusInactive, ExpiryDate: &future}, want: StatusInactive},
		{name: "lookup failure", repoErr: errors.New("timeout"), want: StatusInactive, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID := uuid.New()

			ctrl := gomock.NewController(t)
			repo := NewMockRepository(ctrl)
			repo.EXPECT().GetSubscription(gomock.Any(), userID).Return(tt.sub, tt.repoErr)

			svc := NewService(repo)
			svc.now = func() time.Time { return now }

			got, err := svc.Status(context.Background(), userID)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.want, got)
		})
	}
}
