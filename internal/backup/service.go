package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pvaz/bolso/internal/finance"
)

// Backup is the export document: a snapshot of the three collections plus the
// moment it was taken.
type Backup struct {
	Transactions []finance.Transaction `json:"transactions"`
	Goals        []finance.Goal        `json:"goals"`
	Budgets      []finance.Budget      `json:"budgets"`
	ExportDate   time.Time             `json:"exportDate"`
}

// Service produces and reads backup documents on behalf of the UI.
type Service struct {
	store *finance.Store
}

func NewService(store *finance.Store) *Service {
	return &Service{store: store}
}

// Export writes a snapshot of all collections to a dated JSON file inside
// dir, creating the directory if needed, and returns the file's path.
func (s *Service) Export(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	b := Backup{
		Transactions: s.store.Transactions(),
		Goals:        s.store.Goals(),
		Budgets:      s.store.Budgets(),
		ExportDate:   time.Now(),
	}

	raw, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding backup: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("bolso-backup-%s.json", b.ExportDate.Format("2006-01-02")))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("writing backup file: %w", err)
	}

	return path, nil
}

// Import parses and shape-checks a backup document. It deliberately does not
// feed the parsed records back into the store: callers show the counts and
// leave the live collections untouched.
func (s *Service) Import(r io.Reader) (*Backup, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}

	var b Backup
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("decoding backup: %w", err)
	}

	for _, tx := range b.Transactions {
		if tx.Type != finance.TypeIncome && tx.Type != finance.TypeExpense {
			return nil, fmt.Errorf("transaction %s: unknown type %q", tx.ID, tx.Type)
		}
	}

	return &b, nil
}

// Summary renders per-collection counts for the result screen.
func (s *Service) Summary(b *Backup) string {
	return fmt.Sprintf("%d transações, %d metas, %d orçamentos (exportado em %s)",
		len(b.Transactions), len(b.Goals), len(b.Budgets),
		b.ExportDate.Format("02/01/2006"))
}
