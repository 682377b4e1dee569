package finance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Keys of the three persisted collection entries.
const (
	keyTransactions = "bolso_transactions"
	keyGoals        = "bolso_goals"
	keyBudgets      = "bolso_budgets"
)

// ErrDuplicateBudget is returned by AddBudget when a budget already exists
// for the same category and month.
var ErrDuplicateBudget = errors.New("budget already exists for this category and month")

//go:generate mockgen -source=store.go -destination=storage_mock.go -package=finance
type Storage interface {
	// Get returns the value stored under key, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store owns the three collections and mirrors each one to storage as a whole
// serialized array after every mutation. The persisted copies are read once at
// construction and are never the source of truth while the process is alive.
//
// The store is single-writer: it must be driven from one goroutine (the UI
// event loop). Queries are pure and synchronous.
type Store struct {
	storage Storage

	transactions []Transaction // newest first
	goals        []Goal
	budgets      []Budget
}

// NewStore hydrates a store from the persisted entries. A malformed entry
// aborts construction; absence of an entry is treated as an empty collection.
func NewStore(ctx context.Context, storage Storage) (*Store, error) {
	s := &Store{
		storage:      storage,
		transactions: []Transaction{},
		goals:        []Goal{},
		budgets:      []Budget{},
	}

	if err := loadEntry(ctx, storage, keyTransactions, &s.transactions); err != nil {
		return nil, err
	}

	if err := loadEntry(ctx, storage, keyGoals, &s.goals); err != nil {
		return nil, err
	}

	if err := loadEntry(ctx, storage, keyBudgets, &s.budgets); err != nil {
		return nil, err
	}

	return s, nil
}

func loadEntry[T any](ctx context.Context, storage Storage, key string, dst *[]T) error {
	raw, err := storage.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("reading %s: %w", key, err)
	}

	if raw == nil {
		return nil
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}

	return nil
}

func (s *Store) persist(ctx context.Context, key string, collection any) error {
	raw, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	if err := s.storage.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}

	return nil
}

type TransactionParams struct {
	Type        Type
	Amount      int64
	Category    string
	Description string
	Date        time.Time
	Recurring   bool
}

// AddTransaction prepends a new transaction (the sequence stays newest-first)
// and persists the whole collection. The store performs no validation; callers
// check required fields before calling.
func (s *Store) AddTransaction(ctx context.Context, params TransactionParams) (*Transaction, error) {
	tx := Transaction{
		ID:          newID("transaction"),
		Type:        params.Type,
		Amount:      params.Amount,
		Category:    params.Category,
		Description: params.Description,
		Date:        params.Date,
		Recurring:   params.Recurring,
	}

	s.transactions = append([]Transaction{tx}, s.transactions...)

	if err := s.persist(ctx, keyTransactions, s.transactions); err != nil {
		return nil, err
	}

	return &tx, nil
}

type GoalParams struct {
	Title         string
	TargetAmount  int64
	CurrentAmount int64
	Deadline      time.Time
	Category      string
	Description   string
}

// AddGoal appends a new goal and persists the whole collection.
func (s *Store) AddGoal(ctx context.Context, params GoalParams) (*Goal, error) {
	goal := Goal{
		ID:            newID("goal"),
		Title:         params.Title,
		TargetAmount:  params.TargetAmount,
		CurrentAmount: params.CurrentAmount,
		Deadline:      params.Deadline,
		Category:      params.Category,
		Description:   params.Description,
	}

	s.goals = append(s.goals, goal)

	if err := s.persist(ctx, keyGoals, s.goals); err != nil {
		return nil, err
	}

	return &goal, nil
}

type BudgetParams struct {
	Category string
	Limit    int64
	Spent    int64
	Month    string // YYYY-MM
}

// AddBudget appends a new budget and persists the whole collection. At most
// one budget may exist per (category, month) pair; the store enforces this
// even though callers are expected to pre-check before asking.
func (s *Store) AddBudget(ctx context.Context, params BudgetParams) (*Budget, error) {
	for _, b := range s.budgets {
		if b.Category == params.Category && b.Month == params.Month {
			return nil, ErrDuplicateBudget
		}
	}

	budget := Budget{
		ID:       newID("budget"),
		Category: params.Category,
		Limit:    params.Limit,
		Spent:    params.Spent,
		Month:    params.Month,
	}

	s.budgets = append(s.budgets, budget)

	if err := s.persist(ctx, keyBudgets, s.budgets); err != nil {
		return nil, err
	}

	return &budget, nil
}

// GoalUpdate is a single field-replacement command applied by UpdateGoal.
// Each command overwrites its field outright; contributions are computed by
// the caller (SetCurrentAmount(current + delta)), never by the store.
type GoalUpdate func(*Goal)

func SetTitle(title string) GoalUpdate {
	return func(g *Goal) { g.Title = title }
}

func SetTargetAmount(cents int64) GoalUpdate {
	return func(g *Goal) { g.TargetAmount = cents }
}

func SetCurrentAmount(cents int64) GoalUpdate {
	return func(g *Goal) { g.CurrentAmount = cents }
}

func SetDeadline(deadline time.Time) GoalUpdate {
	return func(g *Goal) { g.Deadline = deadline }
}

func SetCategory(category string) GoalUpdate {
	return func(g *Goal) { g.Category = category }
}

func SetDescription(description string) GoalUpdate {
	return func(g *Goal) { g.Description = description }
}

// UpdateGoal applies the given commands to the goal with the given id. An
// unknown id is silently ignored; the goals entry is persisted either way.
func (s *Store) UpdateGoal(ctx context.Context, id string, updates ...GoalUpdate) error {
	for i := range s.goals {
		if s.goals[i].ID != id {
			continue
		}

		for _, apply := range updates {
			apply(&s.goals[i])
		}

		break
	}

	return s.persist(ctx, keyGoals, s.goals)
}

// DeleteTransaction removes the transaction with the given id, if any, and
// persists. Deleting an unknown id is a no-op.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	s.transactions = removeByID(s.transactions, id, func(t Transaction) string { return t.ID })
	return s.persist(ctx, keyTransactions, s.transactions)
}

// DeleteGoal removes the goal with the given id, if any, and persists.
func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	s.goals = removeByID(s.goals, id, func(g Goal) string { return g.ID })
	return s.persist(ctx, keyGoals, s.goals)
}

// DeleteBudget removes the budget with the given id, if any, and persists.
func (s *Store) DeleteBudget(ctx context.Context, id string) error {
	s.budgets = removeByID(s.budgets, id, func(b Budget) string { return b.ID })
	return s.persist(ctx, keyBudgets, s.budgets)
}

func removeByID[T any](items []T, id string, idOf func(T) string) []T {
	for i, item := range items {
		if idOf(item) == id {
			return append(items[:i], items[i+1:]...)
		}
	}

	return items
}

// MonthlyTransactions returns the transactions whose date falls within the
// inclusive calendar-month interval containing date.
func (s *Store) MonthlyTransactions(date time.Time) []Transaction {
	start, end := monthInterval(date)

	var out []Transaction

	for _, tx := range s.transactions {
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}

		out = append(out, tx)
	}

	return out
}

// TotalIncome sums income amounts. A nil date means all-time; a non-nil date
// restricts the sum to that date's calendar month.
func (s *Store) TotalIncome(date *time.Time) int64 {
	return s.sumByType(TypeIncome, date)
}

// TotalExpenses sums expense amounts, with the same optional month scoping as
// TotalIncome.
func (s *Store) TotalExpenses(date *time.Time) int64 {
	return s.sumByType(TypeExpense, date)
}

func (s *Store) sumByType(kind Type, date *time.Time) int64 {
	var sum int64

	for _, tx := range s.scoped(date) {
		if tx.Type == kind {
			sum += tx.Amount
		}
	}

	return sum
}

func (s *Store) scoped(date *time.Time) []Transaction {
	if date == nil {
		return s.transactions
	}

	return s.MonthlyTransactions(*date)
}

// Balance is always computed over the full transaction set. It takes no date
// on purpose: income and expenses switch to month scope when given a date,
// the balance never does.
func (s *Store) Balance() int64 {
	return s.TotalIncome(nil) - s.TotalExpenses(nil)
}

// CategoryExpenses maps category labels to summed expense amounts, scoped by
// month when date is non-nil. Categories without matching expenses in scope
// are absent from the map.
func (s *Store) CategoryExpenses(date *time.Time) map[string]int64 {
	totals := make(map[string]int64)

	for _, tx := range s.scoped(date) {
		if tx.Type != TypeExpense {
			continue
		}

		totals[tx.Category] += tx.Amount
	}

	return totals
}

// Summary is a compact income/expense overview for one calendar month.
type Summary struct {
	Month    string // YYYY-MM
	Income   int64
	Expenses int64
	Balance  int64
}

// MonthlySummary aggregates income, expenses and their difference for the
// month containing date. Unlike Balance, the Balance field here is
// month-scoped; it is the figure dashboards show next to the month's totals.
func (s *Store) MonthlySummary(date time.Time) Summary {
	income := s.TotalIncome(&date)
	expenses := s.TotalExpenses(&date)

	return Summary{
		Month:    MonthToken(date),
		Income:   income,
		Expenses: expenses,
		Balance:  income - expenses,
	}
}

// ClearAllData empties the three collections and removes their persisted
// entries. Irreversible; any confirmation happens before calling.
func (s *Store) ClearAllData(ctx context.Context) error {
	s.transactions = []Transaction{}
	s.goals = []Goal{}
	s.budgets = []Budget{}

	for _, key := range []string{keyTransactions, keyGoals, keyBudgets} {
		if err := s.storage.Delete(ctx, key); err != nil {
			return fmt.Errorf("removing %s: %w", key, err)
		}
	}

	return nil
}

// Transactions returns a copy of the transaction sequence, newest first.
func (s *Store) Transactions() []Transaction {
	out := make([]Transaction, len(s.transactions))
	copy(out, s.transactions)

	return out
}

// Goals returns a copy of the goal sequence in insertion order.
func (s *Store) Goals() []Goal {
	out := make([]Goal, len(s.goals))
	copy(out, s.goals)

	return out
}

// Budgets returns a copy of the budget sequence in insertion order.
func (s *Store) Budgets() []Budget {
	out := make([]Budget, len(s.budgets))
	copy(out, s.budgets)

	return out
}
