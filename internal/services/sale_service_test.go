package services

import (
	"context"
	"errors"
	"testing"

	"kantin/internal/core"
	"kantin/internal/store/memory"
)

type fakePublisher struct {
	published []int64
	err       error
}

func (f *fakePublisher) PublishSaleRecorded(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, id)
	return nil
}

func TestRecordCashSale(t *testing.T) {
	s := memory.New()
	svc := NewSaleService(s, nil)

	tx, err := svc.Record(context.Background(), SaleInput{
		ProductName:   "Air Mineral",
		UnitPrice:     3000,
		Qty:           2,
		PaymentMethod: "Cash",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if tx.Total.Rupiah != 6000 {
		t.Fatalf("total = %d, want 6000", tx.Total.Rupiah)
	}
	if tx.ReceiptRef != "" {
		t.Fatalf("cash sale must have no receipt reference, got %q", tx.ReceiptRef)
	}
	if tx.ID == 0 || tx.CreatedAt.IsZero() {
		t.Fatalf("id/createdAt not assigned: %+v", tx)
	}
}

func TestRecordDefaults(t *testing.T) {
	svc := NewSaleService(memory.New(), nil)

	tx, err := svc.Record(context.Background(), SaleInput{
		ProductName: "Mochi Strawberry",
		UnitPrice:   10000,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if tx.Qty != 1 {
		t.Fatalf("qty = %d, want default 1", tx.Qty)
	}
	if tx.PaymentMethod != core.Cash {
		t.Fatalf("payment method = %q, want default Cash", tx.PaymentMethod)
	}
	if tx.Total.Rupiah != 10000 {
		t.Fatalf("total = %d, want 10000", tx.Total.Rupiah)
	}
}

func TestRecordQRISRequiresReceipt(t *testing.T) {
	s := memory.New()
	svc := NewSaleService(s, nil)

	_, err := svc.Record(context.Background(), SaleInput{
		ProductName:   "Dimsum Kukus",
		UnitPrice:     18000,
		Qty:           1,
		PaymentMethod: "QRIS",
	})
	if !errors.Is(err, core.ErrMissingReceipt) {
		t.Fatalf("got %v, want ErrMissingReceipt", err)
	}
	recent, _ := s.Recent(context.Background(), 10)
	if len(recent) != 0 {
		t.Fatalf("no record may be created when recording fails")
	}
}

func TestRecordQRISWithReceipt(t *testing.T) {
	svc := NewSaleService(memory.New(), nil)

	tx, err := svc.Record(context.Background(), SaleInput{
		ProductName:   "Dimsum Kukus",
		UnitPrice:     18000,
		Qty:           1,
		PaymentMethod: "QRIS",
		ReceiptRef:    "data:image/png;base64,aGkK",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if tx.ReceiptRef == "" {
		t.Fatalf("receipt reference not kept")
	}
}

func TestRecordDropsReceiptForCash(t *testing.T) {
	svc := NewSaleService(memory.New(), nil)

	tx, err := svc.Record(context.Background(), SaleInput{
		ProductName:   "Air Mineral",
		UnitPrice:     3000,
		PaymentMethod: "Cash",
		ReceiptRef:    "data:image/png;base64,aGkK",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if tx.ReceiptRef != "" {
		t.Fatalf("receipt reference must be dropped for cash, got %q", tx.ReceiptRef)
	}
}

func TestRecordIncompleteData(t *testing.T) {
	svc := NewSaleService(memory.New(), nil)

	if _, err := svc.Record(context.Background(), SaleInput{UnitPrice: 3000}); !errors.Is(err, core.ErrEmptyProduct) {
		t.Fatalf("got %v, want ErrEmptyProduct", err)
	}
	if _, err := svc.Record(context.Background(), SaleInput{ProductName: "Air Mineral"}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("got %v, want ErrInvalidAmount", err)
	}
	if _, err := svc.Record(context.Background(), SaleInput{ProductName: "Air Mineral", UnitPrice: 3000, PaymentMethod: "Transfer"}); !errors.Is(err, core.ErrInvalidPayment) {
		t.Fatalf("got %v, want ErrInvalidPayment", err)
	}
}

func TestRecordPublishesEvent(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewSaleService(memory.New(), pub)

	tx, err := svc.Record(context.Background(), SaleInput{ProductName: "Mochi Matcha", UnitPrice: 12000})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(pub.published) != 1 || pub.published[0] != tx.ID {
		t.Fatalf("published = %v, want [%d]", pub.published, tx.ID)
	}
}

func TestRecordPublishFailureIsNonFatal(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewSaleService(memory.New(), pub)

	if _, err := svc.Record(context.Background(), SaleInput{ProductName: "Mochi Matcha", UnitPrice: 12000}); err != nil {
		t.Fatalf("publish failure must not fail the sale, got %v", err)
	}
}
