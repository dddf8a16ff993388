package store

import (
	"context"
	"time"

	"kantin/internal/core"
)

// Ports for the transaction store. The store is append-only: there is
// no update or delete operation.
type (
	TransactionWriter interface {
		// Append persists one transaction and returns its assigned id.
		Append(ctx context.Context, t core.Transaction) (int64, error)
	}

	TransactionGetter interface {
		Get(ctx context.Context, id int64) (core.Transaction, error)
	}

	// DashboardReader computes a fresh snapshot on every call; there is
	// no incremental maintenance. The reference time is passed in so
	// the day boundaries are testable.
	DashboardReader interface {
		// Recent returns the newest records in descending creation order.
		Recent(ctx context.Context, limit int) ([]core.Transaction, error)
		// TodaySummary sums records created on or after local midnight of now.
		TodaySummary(ctx context.Context, now time.Time) (core.DaySummary, error)
		// RevenueTrend sums records per local calendar day over the last
		// `days` days up to now, ascending by date. Days without sales
		// are absent from the series.
		RevenueTrend(ctx context.Context, now time.Time, days int) ([]core.RevenuePoint, error)
	}
)
