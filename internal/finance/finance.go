package finance

import (
	"strconv"
	"time"
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Transaction is a single recorded money movement. Transactions are immutable
// after creation; there is no update operation.
type Transaction struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	Amount      int64     `json:"amount"` // Amount in cents
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Recurring   bool      `json:"recurring,omitempty"`
}

// Goal is a savings target with a deadline and a progress amount.
type Goal struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	TargetAmount  int64     `json:"targetAmount"`  // Amount in cents
	CurrentAmount int64     `json:"currentAmount"` // Amount in cents
	Deadline      time.Time `json:"deadline"`
	Category      string    `json:"category"`
	Description   string    `json:"description,omitempty"`
}

// Budget is a per-category monthly spending ceiling. Spent is carried in the
// persisted layout but views recompute it from live category aggregates
// instead of trusting the stored value.
type Budget struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Limit    int64  `json:"limit"` // Amount in cents
	Spent    int64  `json:"spent"` // Amount in cents
	Month    string `json:"month"` // YYYY-MM
}

// MonthToken returns the YYYY-MM token of the month containing t.
func MonthToken(t time.Time) string {
	return t.Format("2006-01")
}

// newID builds a time-derived identifier such as "transaction-1709647523...".
// Uniqueness relies on clock resolution; there is no collision guard.
func newID(kind string) string {
	return kind + "-" + strconv.FormatInt(time.Now().UnixNano(), 10)
}

// monthInterval returns the inclusive calendar-month interval containing t:
// from the month's first instant through 23:59:59.999 of its last day.
func monthInterval(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)

	return start, end
}
