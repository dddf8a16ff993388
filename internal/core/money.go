// Package core holds the sale domain types and money handling.
//
// Amounts are whole rupiah stored as int64; the currency has no
// fractional unit in practice, so there is no cents arithmetic.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseRupiah converts a form amount string to whole rupiah.
//
// Thousands separators ("15.000" or "15,000") are tolerated since both
// appear in Indonesian input. Only positive integral amounts are valid.
func ParseRupiah(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", "")
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if v <= 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// MarshalJSON renders money as a bare number, matching the stored
// record shape ("total": 6000).
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(m.Rupiah, 10)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return ErrInvalidAmount
	}
	m.Rupiah = v
	return nil
}
