package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxo/cashflow-engine/cashflow"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSnapshot(t *testing.T) cashflow.Snapshot {
	t.Helper()
	l := cashflow.NewLedger()
	l.UpsertInitialBalance(cashflow.InitialBalance{
		BankCode: "001", Amount: decimal.RequireFromString("1234.56"),
	})
	rev := l.AddRevenue(cashflow.NewRevenue{
		ClientName: "Acme", Type: "Sale",
		Amount:  decimal.RequireFromString("500"),
		DueDate: cashflow.NewDay(2024, time.June, 1),
	})
	l.ConfirmRevenue(rev.ID)
	return l.Snapshot()
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	snap := sampleSnapshot(t)

	require.NoError(t, s.Save(ctx, "default", snap))

	loaded, err := s.Load(ctx, "default")
	require.NoError(t, err)

	require.Len(t, loaded.Revenues, 1)
	assert.True(t, loaded.Revenues[0].CreditDate.Equal(cashflow.NewDay(2024, time.June, 3)),
		"derived credit date survives persistence")
	assert.True(t, loaded.Revenues[0].Amount.Equal(decimal.RequireFromString("500")))
	assert.Equal(t, snap.ConfirmedRevenueIDs, loaded.ConfirmedRevenueIDs)
	require.Len(t, loaded.InitialBalances, 1)
	assert.True(t, loaded.InitialBalances[0].Amount.Equal(decimal.RequireFromString("1234.56")))
}

func TestStore_SaveOverwritesSameName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "default", sampleSnapshot(t)))
	require.NoError(t, s.Save(ctx, "default", cashflow.Snapshot{}))

	loaded, err := s.Load(ctx, "default")
	require.NoError(t, err)
	assert.Empty(t, loaded.Revenues, "second save replaces the first")

	infos, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestStore_LoadUnknownNameIsNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load(context.Background(), "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, cashflow.ErrSnapshotNotFound)
}

func TestStore_ListOrdersMostRecentFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "a", cashflow.Snapshot{}))
	require.NoError(t, s.Save(ctx, "b", cashflow.Snapshot{}))

	infos, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	for _, info := range infos {
		assert.NotEmpty(t, info.SavedAt)
	}
}
