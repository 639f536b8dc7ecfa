// Package store provides a SQLite-backed cache of parsed ledger files.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/pennywise/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed ledger caching. The ledger files stay the
// source of truth; rows are replaced whenever a file's mtime or size changes.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked mtime and size for a file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// CachedFile is one ledger file's content as stored in the cache.
type CachedFile struct {
	Path        string
	Ledger      model.Ledger
	ParseErrors int
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all tracked files.
func (c *Cache) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := c.db.Query("SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveFile replaces everything cached for path with the given ledger.
func (c *Cache) SaveFile(path string, l model.Ledger, parseErrors int, mtimeNs, sizeBytes int64) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Cascades to every child table.
	if _, err := tx.Exec("DELETE FROM file_tracker WHERE file_path = ?", path); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`INSERT INTO file_tracker (file_path, mtime_ns, size_bytes, parse_errors, parsed_at)
		VALUES (?, ?, ?, ?, ?)`, path, mtimeNs, sizeBytes, parseErrors, now)
	if err != nil {
		return err
	}

	if l.HasAccount {
		_, err = tx.Exec(`INSERT INTO accounts (file_path, balance, monthly_income, monthly_expenses)
			VALUES (?, ?, ?, ?)`,
			path, l.Account.Balance.String(), l.Account.MonthlyIncome.String(), l.Account.MonthlyExpenses.String())
		if err != nil {
			return err
		}
	}

	for i, cat := range l.Categories {
		_, err = tx.Exec(`INSERT INTO categories (file_path, pos, name, spent, limit_amount, color)
			VALUES (?, ?, ?, ?, ?, ?)`,
			path, i, cat.Name, cat.Spent.String(), cat.Limit.String(), cat.Color)
		if err != nil {
			return err
		}
	}

	for i, g := range l.Goals {
		_, err = tx.Exec(`INSERT INTO goals (file_path, pos, name, current_amount, target_amount, monthly_contribution)
			VALUES (?, ?, ?, ?, ?, ?)`,
			path, i, g.Name, g.Current.String(), g.Target.String(), g.MonthlyContribution.String())
		if err != nil {
			return err
		}
	}

	for i, t := range l.Transactions {
		recurring := 0
		if t.Recurring {
			recurring = 1
		}
		_, err = tx.Exec(`INSERT INTO transactions
			(file_path, pos, tx_id, name, category, amount, tx_date, status, recurring)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			path, i, t.ID, t.Name, t.Category, t.Amount.String(),
			t.Date.Format(time.RFC3339Nano), string(t.Status), recurring)
		if err != nil {
			return err
		}
	}

	for i, m := range l.Monthly {
		_, err = tx.Exec(`INSERT INTO monthly (file_path, pos, month, income, spending)
			VALUES (?, ?, ?, ?, ?)`,
			path, i, m.Month.Format("2006-01"), m.Income.String(), m.Spending.String())
		if err != nil {
			return err
		}
	}

	for i, n := range l.Notes {
		_, err = tx.Exec(`INSERT INTO notes (file_path, pos, section, body) VALUES (?, ?, ?, ?)`,
			path, i, n.Section, n.Text)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadFiles reads the cached ledger for each of the given paths. Paths that
// are not cached are absent from the result.
func (c *Cache) LoadFiles(paths []string) (map[string]*CachedFile, error) {
	out := make(map[string]*CachedFile, len(paths))
	for _, p := range paths {
		out[p] = nil
	}

	rows, err := c.db.Query("SELECT file_path, parse_errors FROM file_tracker")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var path string
		var pe int
		if err := rows.Scan(&path, &pe); err != nil {
			_ = rows.Close()
			return nil, err
		}
		if _, want := out[path]; want {
			out[path] = &CachedFile{Path: path, ParseErrors: pe}
		}
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for p, cf := range out {
		if cf == nil {
			delete(out, p)
		}
	}

	if err := c.loadAccounts(out); err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	if err := c.loadCategories(out); err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	if err := c.loadGoals(out); err != nil {
		return nil, fmt.Errorf("loading goals: %w", err)
	}
	if err := c.loadTransactions(out); err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	if err := c.loadMonthly(out); err != nil {
		return nil, fmt.Errorf("loading monthly: %w", err)
	}
	if err := c.loadNotes(out); err != nil {
		return nil, fmt.Errorf("loading notes: %w", err)
	}
	return out, nil
}

func (c *Cache) loadAccounts(files map[string]*CachedFile) error {
	rows, err := c.db.Query("SELECT file_path, balance, monthly_income, monthly_expenses FROM accounts")
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var path string
		var a model.Account
		if err := rows.Scan(&path, &a.Balance, &a.MonthlyIncome, &a.MonthlyExpenses); err != nil {
			return err
		}
		if cf, ok := files[path]; ok {
			cf.Ledger.Account = a
			cf.Ledger.HasAccount = true
		}
	}
	return rows.Err()
}

func (c *Cache) loadCategories(files map[string]*CachedFile) error {
	rows, err := c.db.Query("SELECT file_path, name, spent, limit_amount, color FROM categories ORDER BY file_path, pos")
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var path string
		var cat model.BudgetCategory
		var color sql.NullString
		if err := rows.Scan(&path, &cat.Name, &cat.Spent, &cat.Limit, &color); err != nil {
			return err
		}
		cat.Color = color.String
		if cf, ok := files[path]; ok {
			cf.Ledger.Categories = append(cf.Ledger.Categories, cat)
		}
	}
	return rows.Err()
}

func (c *Cache) loadGoals(files map[string]*CachedFile) error {
	rows, err := c.db.Query(`SELECT file_path, name, current_amount, target_amount, monthly_contribution
		FROM goals ORDER BY file_path, pos`)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var path string
		var g model.SavingsGoal
		if err := rows.Scan(&path, &g.Name, &g.Current, &g.Target, &g.MonthlyContribution); err != nil {
			return err
		}
		if cf, ok := files[path]; ok {
			cf.Ledger.Goals = append(cf.Ledger.Goals, g)
		}
	}
	return rows.Err()
}

func (c *Cache) loadTransactions(files map[string]*CachedFile) error {
	rows, err := c.db.Query(`SELECT file_path, tx_id, name, category, amount, tx_date, status, recurring
		FROM transactions ORDER BY file_path, pos`)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var path, dateStr, status string
		var name, category sql.NullString
		var t model.Transaction
		var recurring int
		if err := rows.Scan(&path, &t.ID, &name, &category, &t.Amount, &dateStr, &status, &recurring); err != nil {
			return err
		}
		t.Name = name.String
		t.Category = category.String
		t.Status = model.TransactionStatus(status)
		t.Recurring = recurring != 0
		t.Date, err = time.Parse(time.RFC3339Nano, dateStr)
		if err != nil {
			return fmt.Errorf("transaction %s date: %w", t.ID, err)
		}
		if cf, ok := files[path]; ok {
			cf.Ledger.Transactions = append(cf.Ledger.Transactions, t)
		}
	}
	return rows.Err()
}

func (c *Cache) loadMonthly(files map[string]*CachedFile) error {
	rows, err := c.db.Query("SELECT file_path, month, income, spending FROM monthly ORDER BY file_path, pos")
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var path, month string
		var m model.MonthlyTotals
		if err := rows.Scan(&path, &month, &m.Income, &m.Spending); err != nil {
			return err
		}
		m.Month, err = time.Parse("2006-01", month)
		if err != nil {
			return fmt.Errorf("month %q: %w", month, err)
		}
		if cf, ok := files[path]; ok {
			cf.Ledger.Monthly = append(cf.Ledger.Monthly, m)
		}
	}
	return rows.Err()
}

func (c *Cache) loadNotes(files map[string]*CachedFile) error {
	rows, err := c.db.Query("SELECT file_path, section, body FROM notes ORDER BY file_path, pos")
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var path string
		var n model.Note
		if err := rows.Scan(&path, &n.Section, &n.Text); err != nil {
			return err
		}
		if cf, ok := files[path]; ok {
			cf.Ledger.Notes = append(cf.Ledger.Notes, n)
		}
	}
	return rows.Err()
}

// DeleteFile forgets a ledger file and everything it contributed.
func (c *Cache) DeleteFile(filePath string) error {
	_, err := c.db.Exec("DELETE FROM file_tracker WHERE file_path = ?", filePath)
	return err
}

// FileCount returns the number of cached ledger files.
func (c *Cache) FileCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM file_tracker").Scan(&count)
	return count, err
}
