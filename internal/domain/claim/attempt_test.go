package claim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAttempt(t *testing.T) {
	tests := []struct {
		name     string
		ticketID string
		userID   string
		rewardID string
		wantErr  error
	}{
		{
			name:     "正常系: 試行の作成",
			ticketID: "6f1d2c3e-1b2a-4c5d-9e8f-001122334455",
			userID:   "9999999999",
			rewardID: "fXHVo5uRLaEPsdNnjgSq",
		},
		{
			name:     "異常系: チケットIDが空",
			ticketID: "",
			userID:   "9999999999",
			rewardID: "r-1",
			wantErr:  ErrInvalidAttempt,
		},
		{
			name:     "異常系: チケットIDに不正な文字",
			ticketID: "ticket id; drop",
			userID:   "9999999999",
			rewardID: "r-1",
			wantErr:  ErrInvalidAttempt,
		},
		{
			name:     "異常系: ユーザーIDが空",
			ticketID: "t-1",
			rewardID: "r-1",
			wantErr:  ErrInvalidAttempt,
		},
		{
			name:     "異常系: リワードIDが空",
			ticketID: "t-1",
			userID:   "u-1",
			wantErr:  ErrInvalidAttempt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewAttempt(tt.ticketID, tt.userID, tt.rewardID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ticketID, got.TicketID())
			assert.Equal(t, tt.userID, got.UserID())
			assert.Equal(t, tt.rewardID, got.RewardID())
			assert.Equal(t, AttemptStatusPending, got.Status())
			assert.Empty(t, got.ErrorMessage())
			assert.False(t, got.CreatedAt().IsZero())
		})
	}
}

func TestAttempt_Transitions(t *testing.T) {
	a, err := NewAttempt("t-1", "u-1", "r-1")
	require.NoError(t, err)

	a.MarkFailed("500 Internal Server Error: boom")
	assert.Equal(t, AttemptStatusFailed, a.Status())
	assert.Equal(t, "500 Internal Server Error: boom", a.ErrorMessage())

	a.MarkSucceeded()
	assert.True(t, a.Status().IsSucceeded())
	assert.Empty(t, a.ErrorMessage())
	assert.False(t, a.UpdatedAt().Before(a.CreatedAt()))
}

func TestNewAttemptStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    AttemptStatus
		wantErr bool
	}{
		{name: "正常系: pending", input: "pending", want: AttemptStatusPending},
		{name: "正常系: succeeded", input: "succeeded", want: AttemptStatusSucceeded},
		{name: "正常系: failed", input: "failed", want: AttemptStatusFailed},
		{name: "異常系: 無効な値", input: "completed", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewAttemptStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, got.Valid())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}
