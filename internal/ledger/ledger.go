// Package ledger exports recorded sales to an external bookkeeping
// spreadsheet. The export is asynchronous and best-effort; the store
// remains the source of truth.
package ledger

import (
	"context"

	"kantin/internal/core"
)

// Appender appends one sale row to the ledger.
type Appender interface {
	AppendSale(ctx context.Context, t core.Transaction) error
}
