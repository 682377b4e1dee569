package finance_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pvaz/bolso/internal/finance"
)

// newMemStorage wires a MockStorage to an in-memory map so sequences of
// mutations behave like a real entry store. The map is returned so tests can
// assert on what was persisted.
func newMemStorage(t *testing.T) (*finance.MockStorage, map[string][]byte) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := finance.NewMockStorage(ctrl)
	data := make(map[string][]byte)

	m.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		AnyTimes().
		DoAndReturn(func(_ context.Context, key string) ([]byte, error) {
			return data[key], nil
		})

	m.EXPECT().
		Set(gomock.Any(), gomock.Any(), gomock.Any()).
		AnyTimes().
		DoAndReturn(func(_ context.Context, key string, value []byte) error {
			data[key] = append([]byte(nil), value...)
			return nil
		})

	m.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		AnyTimes().
		DoAndReturn(func(_ context.Context, key string) error {
			delete(data, key)
			return nil
		})

	return m, data
}

func newStore(t *testing.T) (*finance.Store, map[string][]byte) {
	t.Helper()

	storage, data := newMemStorage(t)

	store, err := finance.NewStore(context.Background(), storage)
	require.NoError(t, err)

	return store, data
}

func addTx(t *testing.T, store *finance.Store, kind finance.Type, amount int64, category string, date time.Time) *finance.Transaction {
	t.Helper()

	tx, err := store.AddTransaction(context.Background(), finance.TransactionParams{
		Type:     kind,
		Amount:   amount,
		Category: category,
		Date:     date,
	})
	require.NoError(t, err)

	return tx
}

func TestStore_AddAndDeleteAccounting(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	date := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

	first := addTx(t, store, finance.TypeIncome, 1000, "Salário", date)
	addTx(t, store, finance.TypeExpense, 300, "Alimentação", date)
	assert.Len(t, store.Transactions(), 2)

	// Deleting an unknown id leaves the collection length unchanged.
	require.NoError(t, store.DeleteTransaction(ctx, "transaction-0"))
	assert.Len(t, store.Transactions(), 2)

	require.NoError(t, store.DeleteTransaction(ctx, first.ID))
	assert.Len(t, store.Transactions(), 1)

	goal, err := store.AddGoal(ctx, finance.GoalParams{Title: "Reserva", TargetAmount: 500})
	require.NoError(t, err)
	assert.Len(t, store.Goals(), 1)

	require.NoError(t, store.DeleteGoal(ctx, "goal-0"))
	assert.Len(t, store.Goals(), 1)

	require.NoError(t, store.DeleteGoal(ctx, goal.ID))
	assert.Empty(t, store.Goals())
}

func TestStore_TransactionsNewestFirst(t *testing.T) {
	store, _ := newStore(t)

	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	addTx(t, store, finance.TypeExpense, 100, "first", date)
	addTx(t, store, finance.TypeExpense, 200, "second", date)

	txs := store.Transactions()
	require.Len(t, txs, 2)
	assert.Equal(t, "second", txs[0].Category)
	assert.Equal(t, "first", txs[1].Category)
}

func TestStore_MonthlyTransactionsBoundaries(t *testing.T) {
	store, _ := newStore(t)

	// 2024 is a leap year; February ends on the 29th.
	prevLastInstant := time.Date(2024, 2, 29, 23, 59, 59, 999000000, time.UTC)
	firstInstant := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	lastInstant := time.Date(2024, 3, 31, 23, 59, 59, 999000000, time.UTC)

	addTx(t, store, finance.TypeExpense, 100, "before", prevLastInstant)
	addTx(t, store, finance.TypeExpense, 200, "start", firstInstant)
	addTx(t, store, finance.TypeExpense, 300, "end", lastInstant)

	monthly := store.MonthlyTransactions(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))
	require.Len(t, monthly, 2)

	categories := []string{monthly[0].Category, monthly[1].Category}
	assert.ElementsMatch(t, []string{"start", "end"}, categories)
}

func TestStore_TotalsMonthScopedAndAllTime(t *testing.T) {
	store, _ := newStore(t)

	march := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)

	addTx(t, store, finance.TypeIncome, 1000, "Salário", march)
	addTx(t, store, finance.TypeExpense, 300, "Alimentação", march)
	addTx(t, store, finance.TypeIncome, 2000, "Salário", april)
	addTx(t, store, finance.TypeExpense, 500, "Transporte", april)

	assert.Equal(t, int64(1000), store.TotalIncome(&march))
	assert.Equal(t, int64(300), store.TotalExpenses(&march))

	// Omitting the date switches to all-time.
	assert.Equal(t, int64(3000), store.TotalIncome(nil))
	assert.Equal(t, int64(800), store.TotalExpenses(nil))

	// Balance is always all-time, whatever month-scoped figures callers
	// fetched before.
	assert.Equal(t, int64(2200), store.Balance())
	assert.Equal(t, store.TotalIncome(nil)-store.TotalExpenses(nil), store.Balance())
}

func TestStore_MonthScenario(t *testing.T) {
	store, _ := newStore(t)

	addTx(t, store, finance.TypeIncome, 1000, "Salário", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	addTx(t, store, finance.TypeExpense, 300, "Alimentação", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))

	query := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, int64(1000), store.TotalIncome(&query))
	assert.Equal(t, int64(300), store.TotalExpenses(&query))
	assert.Equal(t, int64(700), store.Balance())
}

func TestStore_CategoryExpenses(t *testing.T) {
	store, _ := newStore(t)

	march := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	addTx(t, store, finance.TypeExpense, 300, "Alimentação", march)
	addTx(t, store, finance.TypeExpense, 200, "Alimentação", march)
	addTx(t, store, finance.TypeExpense, 150, "Transporte", march)
	addTx(t, store, finance.TypeIncome, 5000, "Salário", march)
	addTx(t, store, finance.TypeExpense, 400, "Lazer", time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC))

	byCategory := store.CategoryExpenses(&march)
	assert.Equal(t, map[string]int64{
		"Alimentação": 500,
		"Transporte":  150,
	}, byCategory)

	// Income categories never show up, and the map total matches the
	// expense total for the same scope.
	var sum int64
	for _, v := range byCategory {
		sum += v
	}
	assert.Equal(t, store.TotalExpenses(&march), sum)

	allTime := store.CategoryExpenses(nil)
	assert.Equal(t, int64(400), allTime["Lazer"])
	assert.NotContains(t, allTime, "Salário")
}

func TestStore_MonthlySummary(t *testing.T) {
	store, _ := newStore(t)

	march := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	addTx(t, store, finance.TypeIncome, 1000, "Salário", march)
	addTx(t, store, finance.TypeExpense, 300, "Alimentação", march)

	summary := store.MonthlySummary(march)
	assert.Equal(t, finance.Summary{
		Month:    "2024-03",
		Income:   1000,
		Expenses: 300,
		Balance:  700,
	}, summary)
}

func TestStore_UpdateGoalOverwrites(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	goal, err := store.AddGoal(ctx, finance.GoalParams{
		Title:         "Viagem",
		TargetAmount:  500,
		CurrentAmount: 100,
		Deadline:      time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		Category:      "Lazer",
	})
	require.NoError(t, err)

	// SetCurrentAmount replaces the value outright; the store never adds.
	require.NoError(t, store.UpdateGoal(ctx, goal.ID, finance.SetCurrentAmount(250)))

	goals := store.Goals()
	require.Len(t, goals, 1)
	assert.Equal(t, int64(250), goals[0].CurrentAmount)

	newDeadline := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpdateGoal(ctx, goal.ID,
		finance.SetTitle("Viagem Europa"),
		finance.SetDeadline(newDeadline),
	))

	goals = store.Goals()
	assert.Equal(t, "Viagem Europa", goals[0].Title)
	assert.Equal(t, newDeadline, goals[0].Deadline)
	assert.Equal(t, int64(250), goals[0].CurrentAmount)
}

func TestStore_UpdateGoalUnknownID(t *testing.T) {
	store, data := newStore(t)
	ctx := context.Background()

	_, err := store.AddGoal(ctx, finance.GoalParams{Title: "Reserva", TargetAmount: 1000})
	require.NoError(t, err)

	// Unknown ids are silently absorbed, and the entry is persisted anyway.
	delete(data, "bolso_goals")
	require.NoError(t, store.UpdateGoal(ctx, "goal-0", finance.SetCurrentAmount(999)))

	goals := store.Goals()
	require.Len(t, goals, 1)
	assert.Equal(t, int64(0), goals[0].CurrentAmount)
	assert.Contains(t, data, "bolso_goals")
}

func TestStore_AddBudgetEnforcesUniqueness(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	_, err := store.AddBudget(ctx, finance.BudgetParams{
		Category: "Alimentação",
		Limit:    80000,
		Month:    "2024-03",
	})
	require.NoError(t, err)

	_, err = store.AddBudget(ctx, finance.BudgetParams{
		Category: "Alimentação",
		Limit:    90000,
		Month:    "2024-03",
	})
	assert.ErrorIs(t, err, finance.ErrDuplicateBudget)
	assert.Len(t, store.Budgets(), 1)

	// Same category in another month is fine.
	_, err = store.AddBudget(ctx, finance.BudgetParams{
		Category: "Alimentação",
		Limit:    80000,
		Month:    "2024-04",
	})
	require.NoError(t, err)
	assert.Len(t, store.Budgets(), 2)
}

func TestStore_ClearAllData(t *testing.T) {
	store, data := newStore(t)
	ctx := context.Background()

	addTx(t, store, finance.TypeIncome, 1000, "Salário", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))

	_, err := store.AddGoal(ctx, finance.GoalParams{Title: "Reserva", TargetAmount: 1000})
	require.NoError(t, err)

	_, err = store.AddBudget(ctx, finance.BudgetParams{Category: "Alimentação", Limit: 500, Month: "2024-03"})
	require.NoError(t, err)

	require.NoError(t, store.ClearAllData(ctx))

	assert.Zero(t, store.TotalIncome(nil))
	assert.Zero(t, store.Balance())
	assert.Empty(t, store.Transactions())
	assert.Empty(t, store.Goals())
	assert.Empty(t, store.Budgets())

	assert.NotContains(t, data, "bolso_transactions")
	assert.NotContains(t, data, "bolso_goals")
	assert.NotContains(t, data, "bolso_budgets")
}

func TestStore_HydrationRoundTrip(t *testing.T) {
	storage, _ := newMemStorage(t)
	ctx := context.Background()

	store, err := finance.NewStore(ctx, storage)
	require.NoError(t, err)

	addTx(t, store, finance.TypeIncome, 350000, "Salário", time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC))

	tx, err := store.AddTransaction(ctx, finance.TransactionParams{
		Type:        finance.TypeExpense,
		Amount:      12990,
		Category:    "Assinaturas",
		Description: "Streaming",
		Date:        time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC),
		Recurring:   true,
	})
	require.NoError(t, err)
	assert.True(t, tx.Recurring)

	_, err = store.AddGoal(ctx, finance.GoalParams{
		Title:        "Reserva de emergência",
		TargetAmount: 1000000,
		Deadline:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Category:     "Segurança",
	})
	require.NoError(t, err)

	_, err = store.AddBudget(ctx, finance.BudgetParams{
		Category: "Alimentação",
		Limit:    80000,
		Month:    "2024-03",
	})
	require.NoError(t, err)

	// A second store hydrated from the same entries sees identical records.
	reloaded, err := finance.NewStore(ctx, storage)
	require.NoError(t, err)

	assert.Equal(t, store.Transactions(), reloaded.Transactions())
	assert.Equal(t, store.Goals(), reloaded.Goals())
	assert.Equal(t, store.Budgets(), reloaded.Budgets())
}

func TestStore_HydrationFaultPropagates(t *testing.T) {
	storage, data := newMemStorage(t)
	data["bolso_transactions"] = []byte("{definitely not an array")

	store, err := finance.NewStore(context.Background(), storage)
	assert.Error(t, err)
	assert.Nil(t, store)
}
