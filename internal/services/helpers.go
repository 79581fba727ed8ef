package services

import (
	"strings"

	"github.com/shopspring/decimal"

	"homeplanner/internal/nullable"
)

func nullableDecimal(d *decimal.Decimal) nullable.Field[decimal.Decimal] {
	return nullable.FromPtr(d)
}

// trimmedPtr trims s and treats blank strings as absent.
func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func nonNegative(d *decimal.Decimal) bool {
	return d == nil || !d.IsNegative()
}
