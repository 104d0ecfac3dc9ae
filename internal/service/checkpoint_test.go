package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"stock_harvester/internal/domain"
	"stock_harvester/internal/service/mocks"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestCheckpointManager_PendingTickers(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockCheckpointStore(ctrl)
	m := NewCheckpointManager(store, newTestLogger())

	store.EXPECT().Completed(gomock.Any(), "run-1", domain.MarketA).
		Return(map[string]struct{}{"600000": {}}, nil).Times(1)
	store.EXPECT().Completed(gomock.Any(), "run-1", domain.MarketHK).
		Return(map[string]struct{}{}, nil).Times(1)

	full := []domain.Ticker{pufa, tencent, pingan}
	pending, err := m.PendingTickers(context.Background(), "run-1", full)

	require.NoError(t, err)
	assert.Equal(t, []domain.Ticker{tencent, pingan}, pending)
}

func TestCheckpointManager_PendingTickersStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockCheckpointStore(ctrl)
	m := NewCheckpointManager(store, newTestLogger())

	store.EXPECT().Completed(gomock.Any(), "run-1", domain.MarketA).Return(nil, domain.ErrStoreUnavailable)

	_, err := m.PendingTickers(context.Background(), "run-1", []domain.Ticker{pufa})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestCheckpointManager_MarkStarted(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockCheckpointStore(ctrl)
	m := NewCheckpointManager(store, newTestLogger())

	store.EXPECT().Start(gomock.Any(), "fresh", true).Return(nil)
	store.EXPECT().Start(gomock.Any(), "old", false).Return(nil)
	store.EXPECT().Start(gomock.Any(), "broken", true).Return(errors.New("boom"))

	require.NoError(t, m.MarkStarted(context.Background(), "fresh", false))
	require.NoError(t, m.MarkStarted(context.Background(), "old", true))

	err := m.MarkStarted(context.Background(), "broken", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start checkpoint broken")
}

func TestCheckpointManager_OnTickerCompleteWrapsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockCheckpointStore(ctrl)
	m := NewCheckpointManager(store, newTestLogger())

	store.EXPECT().MarkComplete(gomock.Any(), "run-1", tencent).Return(domain.ErrStoreUnavailable)

	err := m.OnTickerComplete(context.Background(), "run-1", tencent)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "HK:0700")
}
