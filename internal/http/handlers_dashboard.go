package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"kantin/internal/core"
)

const (
	recentLimit = 10
	trendDays   = 7
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	snap, err := s.getSnapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard snapshot error", "error", err)
		writeError(w, http.StatusInternalServerError, "Gagal memuat data dashboard")
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// getSnapshot serves the cached snapshot when fresh, otherwise computes
// it from the store. Recording a sale deletes the cached entry so the
// next read observes the new record.
func (s *Server) getSnapshot(ctx context.Context) (core.DashboardSnapshot, error) {
	if snap, found := s.snapshotCache.Get(snapshotKey); found {
		slog.DebugContext(ctx, "Dashboard snapshot cache hit")
		return snap, nil
	}

	// Small timeout so a slow store does not hang the dashboard.
	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()

	now := time.Now()

	recent, err := s.dash.Recent(cctx, recentLimit)
	if err != nil {
		return core.DashboardSnapshot{}, fmt.Errorf("read recent transactions: %w", err)
	}
	today, err := s.dash.TodaySummary(cctx, now)
	if err != nil {
		return core.DashboardSnapshot{}, fmt.Errorf("read today summary: %w", err)
	}
	chart, err := s.dash.RevenueTrend(cctx, now, trendDays)
	if err != nil {
		return core.DashboardSnapshot{}, fmt.Errorf("read revenue trend: %w", err)
	}

	if recent == nil {
		recent = []core.Transaction{}
	}
	if chart == nil {
		chart = []core.RevenuePoint{}
	}

	snap := core.DashboardSnapshot{Recent: recent, Today: today, Chart: chart}
	s.snapshotCache.Set(snapshotKey, snap)
	slog.DebugContext(ctx, "Dashboard snapshot cached",
		"recent", len(snap.Recent),
		"today_revenue", snap.Today.TotalRevenue.Rupiah,
		"chart_days", len(snap.Chart))
	return snap, nil
}

// handleReceiptByID serves the stored receipt reference for one record,
// addressed as /api/transactions/{id}/receipt.
func (s *Server) handleReceiptByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[1] != "receipt" {
		http.NotFound(w, r)
		return
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "ID transaksi tidak valid")
		return
	}

	tx, err := s.getter.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Transaksi tidak ditemukan")
		return
	}
	if tx.ReceiptRef == "" {
		writeError(w, http.StatusNotFound, "Tidak ada bukti untuk transaksi ini")
		return
	}

	writeJSON(w, http.StatusOK, apiResult{Status: "success", URL: tx.ReceiptRef})
}
