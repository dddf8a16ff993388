package worker

import (
	"context"
	"fmt"
	"log/slog"

	"kantin/internal/amqp"
	"kantin/internal/ledger"
	"kantin/internal/store"
)

// LedgerWorker exports recorded sales to the bookkeeping ledger. It
// consumes sale-recorded messages, loads the record from the store and
// appends one ledger row per sale.
type LedgerWorker struct {
	store  store.TransactionGetter
	ledger ledger.Appender
}

func NewLedgerWorker(store store.TransactionGetter, ledger ledger.Appender) *LedgerWorker {
	return &LedgerWorker{
		store:  store,
		ledger: ledger,
	}
}

// HandleSaleRecorded processes a single sale-recorded message.
func (w *LedgerWorker) HandleSaleRecorded(ctx context.Context, msg *amqp.SaleRecordedMessage) error {
	t, err := w.store.Get(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get transaction from store: %w", err)
	}

	if err := w.ledger.AppendSale(ctx, t); err != nil {
		return fmt.Errorf("append sale to ledger: %w", err)
	}

	slog.InfoContext(ctx, "Sale exported to ledger",
		"id", t.ID,
		"product", t.ProductName,
		"total", t.Total.Rupiah)

	return nil
}
