package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"kantin/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the persistent transaction store. The handle is
// opened once at startup and shared; database/sql is safe for
// concurrent use across independent operations.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements store.TransactionWriter.
func (r *SQLiteRepository) Append(ctx context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (product_name, unit_price, qty, total, payment_method, receipt_ref, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ProductName, t.UnitPrice.Rupiah, t.Qty, t.Total.Rupiah,
		string(t.PaymentMethod), t.ReceiptRef, t.CreatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"product", t.ProductName,
		"total", t.Total.Rupiah,
		"payment_method", t.PaymentMethod)

	return id, nil
}

// Get implements store.TransactionGetter.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, product_name, unit_price, qty, total, payment_method, receipt_ref, created_at
		 FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return core.Transaction{}, fmt.Errorf("transaction %d not found", id)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// Recent implements store.DashboardReader.
func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, product_name, unit_price, qty, total, payment_method, receipt_ref, created_at
		 FROM transactions ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent transactions: %w", err)
	}
	return out, nil
}

// TodaySummary implements store.DashboardReader.
func (r *SQLiteRepository) TodaySummary(ctx context.Context, now time.Time) (core.DaySummary, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var summary core.DaySummary
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total), 0), COUNT(*) FROM transactions WHERE created_at >= ?`,
		midnight.Unix()).Scan(&summary.TotalRevenue.Rupiah, &summary.Count)
	if err != nil {
		return core.DaySummary{}, fmt.Errorf("query today summary: %w", err)
	}
	return summary, nil
}

// RevenueTrend implements store.DashboardReader. Rows in the window are
// grouped in Go so day boundaries follow the caller's local timezone
// rather than sqlite's UTC date().
func (r *SQLiteRepository) RevenueTrend(ctx context.Context, now time.Time, days int) ([]core.RevenuePoint, error) {
	cutoff := now.AddDate(0, 0, -days)
	rows, err := r.db.QueryContext(ctx,
		`SELECT created_at, total FROM transactions WHERE created_at >= ? AND created_at <= ?`,
		cutoff.Unix(), now.Unix())
	if err != nil {
		return nil, fmt.Errorf("query revenue trend: %w", err)
	}
	defer rows.Close()

	byDay := make(map[string]int64)
	for rows.Next() {
		var createdAt, total int64
		if err := rows.Scan(&createdAt, &total); err != nil {
			return nil, fmt.Errorf("scan revenue row: %w", err)
		}
		day := time.Unix(createdAt, 0).In(now.Location()).Format("2006-01-02")
		byDay[day] += total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revenue rows: %w", err)
	}

	dates := make([]string, 0, len(byDay))
	for d := range byDay {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	points := make([]core.RevenuePoint, 0, len(dates))
	for _, d := range dates {
		points = append(points, core.RevenuePoint{Date: d, Revenue: core.Money{Rupiah: byDay[d]}})
	}
	return points, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t         core.Transaction
		method    string
		createdAt int64
	)
	err := row.Scan(&t.ID, &t.ProductName, &t.UnitPrice.Rupiah, &t.Qty,
		&t.Total.Rupiah, &method, &t.ReceiptRef, &createdAt)
	if err != nil {
		return core.Transaction{}, err
	}
	t.PaymentMethod = core.PaymentMethod(method)
	t.CreatedAt = time.Unix(createdAt, 0)
	return t, nil
}
