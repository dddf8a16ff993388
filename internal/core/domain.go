package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Cash PaymentMethod = "Cash"
	QRIS PaymentMethod = "QRIS"
)

type (
	PaymentMethod string

	Money struct {
		Rupiah int64
	}

	// Transaction is one recorded sale. Records are append-only: once
	// created they are never updated or deleted.
	Transaction struct {
		ID            int64         `json:"id"`
		ProductName   string        `json:"productName"`
		UnitPrice     Money         `json:"price"`
		Qty           int64         `json:"qty"`
		Total         Money         `json:"total"`
		PaymentMethod PaymentMethod `json:"paymentMethod"`
		ReceiptRef    string        `json:"receiptRef,omitempty"`
		CreatedAt     time.Time     `json:"createdAt"`
	}
)

var (
	ErrEmptyProduct      = errors.New("empty product name")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidQty        = errors.New("invalid quantity")
	ErrInvalidPayment    = errors.New("invalid payment method")
	ErrMissingReceipt    = errors.New("missing receipt for QRIS payment")
	ErrUnexpectedReceipt = errors.New("receipt not allowed for cash payment")
	ErrTotalMismatch     = errors.New("total does not match unit price times quantity")
)

// ParsePaymentMethod maps a raw form value to a payment method.
// An empty value defaults to Cash.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.TrimSpace(s) {
	case "":
		return Cash, nil
	case string(Cash):
		return Cash, nil
	case string(QRIS):
		return QRIS, nil
	default:
		return "", ErrInvalidPayment
	}
}

func (p PaymentMethod) Valid() bool {
	return p == Cash || p == QRIS
}

func (m Money) Validate() error {
	if m.Rupiah <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.ProductName)) == 0 {
		return ErrEmptyProduct
	}
	if len(t.ProductName) > 200 {
		return errors.New("product name too long (max 200 characters)")
	}
	if err := t.UnitPrice.Validate(); err != nil {
		return err
	}
	if t.Qty <= 0 {
		return ErrInvalidQty
	}
	if !t.PaymentMethod.Valid() {
		return ErrInvalidPayment
	}
	if t.Total.Rupiah != t.UnitPrice.Rupiah*t.Qty {
		return ErrTotalMismatch
	}
	switch t.PaymentMethod {
	case QRIS:
		if t.ReceiptRef == "" {
			return ErrMissingReceipt
		}
	default:
		if t.ReceiptRef != "" {
			return ErrUnexpectedReceipt
		}
	}
	return nil
}
