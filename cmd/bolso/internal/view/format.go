package view

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const saveTimeout = 5 * time.Second

// SaveCtx returns a context with a standard timeout for storage writes.
func SaveCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), saveTimeout)
}

// FormatAmount formats an amount in cents as Brazilian currency,
// e.g. 123456 -> "R$ 1.234,56".
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	reais := strconv.FormatInt(cents/100, 10)

	var sb strings.Builder
	for i, r := range reais {
		if i > 0 && (len(reais)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(r)
	}

	return fmt.Sprintf("%sR$ %s,%02d", sign, sb.String(), cents%100)
}

// FormatDate formats a time.Time as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// ParseAmount converts user input like "1234,56" or "1234.56" into cents.
func ParseAmount(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("valor inválido")
	}

	if v < 0 {
		return 0, fmt.Errorf("o valor não pode ser negativo")
	}

	return int64(math.Round(v * 100)), nil
}

// ParseDate parses user input in YYYY-MM-DD form.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("data inválida (AAAA-MM-DD)")
	}

	return t, nil
}

// ProgressBar renders a fixed-width bar for a 0-100+ percentage.
func ProgressBar(percentage float64, width int) string {
	if percentage < 0 {
		percentage = 0
	}

	filled := int(math.Min(percentage, 100) / 100 * float64(width))

	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
