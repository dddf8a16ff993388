package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"kantin/internal/core"
	"kantin/internal/store"
)

// EventPublisher announces a persisted sale to interested consumers.
// A nil publisher disables the feed.
type EventPublisher interface {
	PublishSaleRecorded(ctx context.Context, id int64) error
}

// SaleInput is the already-parsed form submission. Zero Qty means the
// field was absent; an empty PaymentMethod defaults to Cash.
type SaleInput struct {
	ProductName   string
	UnitPrice     int64
	Qty           int64
	PaymentMethod string
	ReceiptRef    string
}

// SaleService validates and records sales. It is the only writer of
// transaction records.
type SaleService struct {
	store  store.TransactionWriter
	events EventPublisher
	now    func() time.Time
}

func NewSaleService(store store.TransactionWriter, events EventPublisher) *SaleService {
	return &SaleService{
		store:  store,
		events: events,
		now:    time.Now,
	}
}

// Record creates exactly one transaction record or fails without side
// effects. Validation order: product name and price first, then the
// QRIS receipt requirement.
func (s *SaleService) Record(ctx context.Context, in SaleInput) (core.Transaction, error) {
	name := strings.TrimSpace(in.ProductName)
	if name == "" {
		return core.Transaction{}, core.ErrEmptyProduct
	}
	if in.UnitPrice <= 0 {
		return core.Transaction{}, core.ErrInvalidAmount
	}

	qty := in.Qty
	if qty <= 0 {
		qty = 1
	}

	method, err := core.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return core.Transaction{}, err
	}

	if method == core.QRIS && in.ReceiptRef == "" {
		return core.Transaction{}, core.ErrMissingReceipt
	}

	// Receipt references are only kept for QRIS payments.
	ref := ""
	if method == core.QRIS {
		ref = in.ReceiptRef
	}

	t := core.Transaction{
		ProductName:   name,
		UnitPrice:     core.Money{Rupiah: in.UnitPrice},
		Qty:           qty,
		Total:         core.Money{Rupiah: in.UnitPrice * qty},
		PaymentMethod: method,
		ReceiptRef:    ref,
		CreatedAt:     s.now(),
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	id, err := s.store.Append(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	t.ID = id

	// Fire-and-forget: the sale is already persisted.
	if s.events != nil {
		if err := s.events.PublishSaleRecorded(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish sale recorded message",
				"id", id, "error", err)
		}
	}

	return t, nil
}
