package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"kantin/internal/core"
	"kantin/internal/receipt"
)

func (s *Server) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	in, up, err := s.parseSaleForm(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		writeError(w, http.StatusBadRequest, "Format permintaan tidak valid")
		return
	}

	// An attached image is resolved inline when the payment needs proof
	// and no reference was resolved beforehand.
	if up != nil && in.ReceiptRef == "" && in.PaymentMethod == string(core.QRIS) {
		ref, err := s.resolver.Resolve(r.Context(), *up)
		if err != nil {
			slog.ErrorContext(r.Context(), "Receipt resolution error", "error", err)
			status, msg := s.receiptErrorResponse(err)
			writeError(w, status, msg)
			return
		}
		in.ReceiptRef = ref
	}

	tx, err := s.sales.Record(r.Context(), in)
	if err != nil {
		slog.ErrorContext(r.Context(), "Sale recording error", "error", err, "product", in.ProductName)
		status, msg := saleErrorResponse(err)
		writeError(w, status, msg)
		return
	}

	// Subsequent dashboard reads must observe the new record.
	s.invalidateSnapshot()

	slog.InfoContext(r.Context(), "Sale recorded",
		"id", tx.ID,
		"product", tx.ProductName,
		"total", tx.Total.Rupiah,
		"payment_method", tx.PaymentMethod)
	writeSuccess(w, "Transaksi berhasil disimpan!")
}

// saleErrorResponse maps recorder failures to a status code and the
// message shown next to the form.
func saleErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrEmptyProduct),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidQty):
		return http.StatusUnprocessableEntity, "Data tidak lengkap"
	case errors.Is(err, core.ErrMissingReceipt):
		return http.StatusUnprocessableEntity, "Bukti transaksi QRIS wajib diunggah sampai selesai!"
	case errors.Is(err, core.ErrInvalidPayment):
		return http.StatusUnprocessableEntity, "Metode pembayaran tidak dikenal"
	default:
		return http.StatusInternalServerError, "Gagal menyimpan data ke Database"
	}
}

func (s *Server) receiptErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, receipt.ErrEmptyPayload):
		return http.StatusBadRequest, "File kosong atau tidak terbaca."
	case errors.Is(err, receipt.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Maksimal ukuran gambar adalah %d MB!", s.maxBytes>>20)
	case errors.Is(err, receipt.ErrUploadFailed):
		return http.StatusBadGateway, "Gagal mengunggah bukti: " + err.Error()
	default:
		return http.StatusInternalServerError, "Gagal memproses gambar."
	}
}
