package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/xixi-finance/tracker/internal/model"
	"github.com/xixi-finance/tracker/internal/repository"
)

func draft(date string, amount int64, category string, tp model.Type) model.Transaction {
	return model.Transaction{
		Date:     date,
		Amount:   decimal.NewFromInt(amount),
		Category: category,
		Type:     tp,
	}
}

func TestStore_CreatePersistsAndAssignsID(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocalLedger()
	store := NewStore(repo, nil)
	store.Load(ctx)

	created, err := store.Create(ctx, draft("2026-08-30", 1000, "Salary", model.TypeIncome))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	// persisted ledger equals the in-memory one after the mutation
	reloaded := NewStore(repo, nil)
	reloaded.Load(ctx)
	require.Equal(t, store.List(), reloaded.List())
}

func TestStore_UpdateReplacesByID(t *testing.T) {
	ctx := context.Background()
	store := NewStore(repository.NewLocalLedger(), nil)
	store.Load(ctx)

	created, err := store.Create(ctx, draft("2026-08-30", 1000, "Salary", model.TypeIncome))
	require.NoError(t, err)

	replacement := draft("2026-08-31", 1200, "Freelance", model.TypeIncome)
	found, err := store.Update(ctx, created.ID, replacement)
	require.NoError(t, err)
	require.True(t, found)

	records := store.List()
	require.Len(t, records, 1)
	require.Equal(t, created.ID, records[0].ID)
	require.Equal(t, "Freelance", records[0].Category)
	require.True(t, records[0].Amount.Equal(decimal.NewFromInt(1200)))
}

func TestStore_UpdateUnknownIDLeavesLedgerUntouched(t *testing.T) {
	ctx := context.Background()
	store := NewStore(repository.NewLocalLedger(), nil)
	store.Load(ctx)

	_, err := store.Create(ctx, draft("2026-08-30", 1000, "Salary", model.TypeIncome))
	require.NoError(t, err)
	before := store.List()

	found, err := store.Update(ctx, "missing", draft("2026-08-31", 5, "Food", model.TypeExpense))
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, before, store.List())
}

func TestStore_DeleteUnknownIDLeavesLedgerUntouched(t *testing.T) {
	ctx := context.Background()
	store := NewStore(repository.NewLocalLedger(), nil)
	store.Load(ctx)

	_, err := store.Create(ctx, draft("2026-08-30", 1000, "Salary", model.TypeIncome))
	require.NoError(t, err)
	before := store.List()

	found, err := store.Delete(ctx, "missing")
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, before, store.List())
}

func TestStore_DeleteRemovesAndPersists(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocalLedger()
	store := NewStore(repo, nil)
	store.Load(ctx)

	created, err := store.Create(ctx, draft("2026-08-30", 1000, "Salary", model.TypeIncome))
	require.NoError(t, err)
	_, err = store.Create(ctx, draft("2026-08-31", 400, "Food", model.TypeExpense))
	require.NoError(t, err)

	found, err := store.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, store.List(), 1)

	reloaded := NewStore(repo, nil)
	reloaded.Load(ctx)
	require.Equal(t, store.List(), reloaded.List())
}

func TestStore_ListSortedByDateDescending(t *testing.T) {
	ctx := context.Background()
	store := NewStore(repository.NewLocalLedger(), nil)
	store.Load(ctx)

	_, err := store.Create(ctx, draft("2026-06-01", 10, "Food", model.TypeExpense))
	require.NoError(t, err)
	_, err = store.Create(ctx, draft("2026-08-01", 20, "Rent", model.TypeExpense))
	require.NoError(t, err)
	_, err = store.Create(ctx, draft("2026-07-01", 30, "Transport", model.TypeExpense))
	require.NoError(t, err)

	records := store.List()
	require.Equal(t, []string{"2026-08-01", "2026-07-01", "2026-06-01"},
		[]string{records[0].Date, records[1].Date, records[2].Date})
}

func TestStore_PublishesSnapshotPerMutation(t *testing.T) {
	ctx := context.Background()
	events := make(chan []model.Transaction, 8)
	store := NewStore(repository.NewLocalLedger(), events)
	store.Load(ctx)
	require.Empty(t, <-events) // startup snapshot

	created, err := store.Create(ctx, draft("2026-08-30", 1000, "Salary", model.TypeIncome))
	require.NoError(t, err)
	require.Len(t, <-events, 1)

	found, err := store.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Empty(t, <-events)
}

func TestStore_LoadPublishesRestoredLedger(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocalLedger()

	seeded := NewStore(repo, nil)
	seeded.Load(ctx)
	_, err := seeded.Create(ctx, draft("2026-08-30", 1000, "Salary", model.TypeIncome))
	require.NoError(t, err)
	_, err = seeded.Create(ctx, draft("2026-08-31", 400, "Food", model.TypeExpense))
	require.NoError(t, err)

	// a restarted store must hand the restored ledger to the advisor
	events := make(chan []model.Transaction, 8)
	restarted := NewStore(repo, events)
	restarted.Load(ctx)
	require.Len(t, <-events, 2)
}
