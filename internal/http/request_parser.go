package http

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"kantin/internal/core"
	"kantin/internal/receipt"
	"kantin/internal/services"
)

// sanitizeInput removes potentially dangerous characters and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	// Remove control characters except tab, newline, carriage return
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// parseSaleForm extracts a SaleInput and, for multipart submissions, the
// optional inline receipt upload. Malformed price or qty values parse to
// zero; the recorder treats zero qty as "default to 1" and zero price as
// incomplete data, matching how the form behaves.
func (s *Server) parseSaleForm(r *http.Request) (services.SaleInput, *receipt.Upload, error) {
	var up *receipt.Upload

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(s.maxBytes + 1<<20); err != nil {
			return services.SaleInput{}, nil, err
		}
		if r.MultipartForm != nil {
			if files := r.MultipartForm.File["receipt"]; len(files) > 0 {
				u, err := readUpload(files[0], s.maxBytes)
				if err != nil {
					return services.SaleInput{}, nil, err
				}
				up = u
			}
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return services.SaleInput{}, nil, err
		}
	}

	in := services.SaleInput{
		ProductName:   sanitizeInput(r.Form.Get("productName")),
		PaymentMethod: strings.TrimSpace(r.Form.Get("paymentMethod")),
		ReceiptRef:    strings.TrimSpace(r.Form.Get("receiptRef")),
	}
	if v := strings.TrimSpace(r.Form.Get("price")); v != "" {
		if price, err := core.ParseRupiah(v); err == nil {
			in.UnitPrice = price
		}
	}
	if v := strings.TrimSpace(r.Form.Get("qty")); v != "" {
		if qty, err := strconv.ParseInt(v, 10, 64); err == nil {
			in.Qty = qty
		}
	}

	return in, up, nil
}

// readUpload reads one multipart file into memory, stopping one byte
// past the configured limit so oversized payloads are detected without
// slurping them whole.
func readUpload(fh *multipart.FileHeader, maxBytes int64) (*receipt.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, err
	}

	return &receipt.Upload{
		Filename: fh.Filename,
		MIME:     fh.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}
