package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"kantin/internal/core"
)

// Store keeps transactions in memory. It is the default backend for
// local development and the test double for the sqlite repository.
type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Transaction
}

func New() *Store {
	return &Store{nextID: 1}
}

// Append validates and stores the transaction, assigning its id.
func (s *Store) Append(_ context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextID
	s.nextID++
	s.items = append(s.items, t)
	return t.ID, nil
}

func (s *Store) Get(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.items {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, fmt.Errorf("transaction %d not found", id)
}

func (s *Store) Recent(_ context.Context, limit int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Transaction(nil), s.items...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) TodaySummary(_ context.Context, now time.Time) (core.DaySummary, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	s.mu.Lock()
	defer s.mu.Unlock()
	var summary core.DaySummary
	for _, t := range s.items {
		if t.CreatedAt.Before(midnight) {
			continue
		}
		summary.TotalRevenue.Rupiah += t.Total.Rupiah
		summary.Count++
	}
	return summary, nil
}

func (s *Store) RevenueTrend(_ context.Context, now time.Time, days int) ([]core.RevenuePoint, error) {
	cutoff := now.AddDate(0, 0, -days)
	s.mu.Lock()
	defer s.mu.Unlock()
	byDay := make(map[string]int64)
	for _, t := range s.items {
		if t.CreatedAt.Before(cutoff) || t.CreatedAt.After(now) {
			continue
		}
		byDay[t.CreatedAt.In(now.Location()).Format("2006-01-02")] += t.Total.Rupiah
	}
	dates := make([]string, 0, len(byDay))
	for d := range byDay {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	points := make([]core.RevenuePoint, 0, len(dates))
	for _, d := range dates {
		points = append(points, core.RevenuePoint{Date: d, Revenue: core.Money{Rupiah: byDay[d]}})
	}
	return points, nil
}
