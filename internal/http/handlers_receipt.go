package http

import (
	"log/slog"
	"net/http"

	"kantin/internal/receipt"
)

// handleUploadReceipt resolves an image into a receipt reference ahead
// of the sale submission. Only useful with the drive strategy, where the
// upload can run while the cashier finishes the form; the inline
// strategy answers just as well.
func (s *Server) handleUploadReceipt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	if err := r.ParseMultipartForm(s.maxBytes + 1<<20); err != nil {
		slog.ErrorContext(r.Context(), "Parse multipart error", "error", err)
		writeError(w, http.StatusBadRequest, "Format permintaan tidak valid")
		return
	}

	var up *receipt.Upload
	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["file"]; len(files) > 0 {
			u, err := readUpload(files[0], s.maxBytes)
			if err != nil {
				slog.ErrorContext(r.Context(), "Read upload error", "error", err)
				writeError(w, http.StatusBadRequest, "File kosong atau tidak terbaca.")
				return
			}
			up = u
		}
	}
	if up == nil {
		writeError(w, http.StatusBadRequest, "File kosong atau tidak terbaca.")
		return
	}

	ref, err := s.resolver.Resolve(r.Context(), *up)
	if err != nil {
		slog.ErrorContext(r.Context(), "Receipt resolution error", "error", err, "filename", up.Filename)
		status, msg := s.receiptErrorResponse(err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, apiResult{Status: "success", URL: ref})
}
