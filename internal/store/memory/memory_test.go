package memory

import (
	"context"
	"testing"
	"time"

	"kantin/internal/core"
)

func sale(product string, price, qty int64, at time.Time) core.Transaction {
	return core.Transaction{
		ProductName:   product,
		UnitPrice:     core.Money{Rupiah: price},
		Qty:           qty,
		Total:         core.Money{Rupiah: price * qty},
		PaymentMethod: core.Cash,
		CreatedAt:     at,
	}
}

func TestAppendAssignsIDs(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()

	id1, err := s.Append(ctx, sale("Mochi Coklat", 10000, 1, now))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	id2, err := s.Append(ctx, sale("Air Mineral", 3000, 2, now))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if id1 != 1 || id2 != 2 {
		t.Fatalf("ids = %d, %d, want 1, 2", id1, id2)
	}

	got, err := s.Get(ctx, id2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Total.Rupiah != 6000 {
		t.Fatalf("total = %d, want 6000", got.Total.Rupiah)
	}
	if _, err := s.Get(ctx, 99); err == nil {
		t.Fatalf("expected error for unknown id")
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New()
	bad := sale("", 3000, 1, time.Now())
	if _, err := s.Append(context.Background(), bad); err == nil {
		t.Fatalf("expected validation error")
	}
	recent, _ := s.Recent(context.Background(), 10)
	if len(recent) != 0 {
		t.Fatalf("no record should be created on validation failure")
	}
}

func TestRecentNewestFirstLimited(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2026, 8, 30, 9, 0, 0, 0, time.Local)
	for i := 0; i < 12; i++ {
		if _, err := s.Append(ctx, sale("Mochi Matcha", 12000, 1, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	recent, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 10 {
		t.Fatalf("len = %d, want 10", len(recent))
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].CreatedAt.After(recent[i-1].CreatedAt) {
			t.Fatalf("recent not in descending order at %d", i)
		}
	}
	if !recent[0].CreatedAt.Equal(base.Add(11 * time.Minute)) {
		t.Fatalf("newest record missing from head")
	}
}

func TestTodaySummary(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.Local)

	// Two sales today, one just before midnight yesterday.
	if _, err := s.Append(ctx, sale("Mochi Strawberry", 10000, 1, now.Add(-2*time.Hour))); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := s.Append(ctx, sale("Air Mineral", 3000, 2, now.Add(-1*time.Hour))); err != nil {
		t.Fatalf("append: %v", err)
	}
	yesterday := time.Date(2026, 8, 29, 23, 59, 0, 0, time.Local)
	if _, err := s.Append(ctx, sale("Dimsum Kukus", 18000, 1, yesterday)); err != nil {
		t.Fatalf("append: %v", err)
	}

	summary, err := s.TodaySummary(ctx, now)
	if err != nil {
		t.Fatalf("today summary: %v", err)
	}
	if summary.TotalRevenue.Rupiah != 16000 || summary.Count != 2 {
		t.Fatalf("summary = {%d %d}, want {16000 2}", summary.TotalRevenue.Rupiah, summary.Count)
	}
}

func TestTodaySummaryEmptyStore(t *testing.T) {
	s := New()
	summary, err := s.TodaySummary(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("today summary: %v", err)
	}
	if summary.TotalRevenue.Rupiah != 0 || summary.Count != 0 {
		t.Fatalf("summary = {%d %d}, want {0 0}", summary.TotalRevenue.Rupiah, summary.Count)
	}
}

func TestRevenueTrend(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.Local)

	// Two sales on one day, one three days ago, one outside the window.
	if _, err := s.Append(ctx, sale("Mochi Coklat", 10000, 1, now.Add(-1*time.Hour))); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := s.Append(ctx, sale("Mochi Coklat", 10000, 2, now.Add(-2*time.Hour))); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := s.Append(ctx, sale("Dimsum Kukus", 18000, 1, now.AddDate(0, 0, -3))); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := s.Append(ctx, sale("Air Mineral", 3000, 1, now.AddDate(0, 0, -8))); err != nil {
		t.Fatalf("append: %v", err)
	}

	points, err := s.RevenueTrend(ctx, now, 7)
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	// Days with no sales must be absent, not zero entries.
	if len(points) != 2 {
		t.Fatalf("len = %d, want 2 (%v)", len(points), points)
	}
	if points[0].Date != "2026-08-27" || points[0].Revenue.Rupiah != 18000 {
		t.Fatalf("points[0] = %+v", points[0])
	}
	if points[1].Date != "2026-08-30" || points[1].Revenue.Rupiah != 30000 {
		t.Fatalf("points[1] = %+v", points[1])
	}
	for i := 1; i < len(points); i++ {
		if points[i].Date < points[i-1].Date {
			t.Fatalf("series not ascending")
		}
	}
}
