package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStock_String(t *testing.T) {
	s := Stock{Symbol: "AAPL", NumberOfShares: 16, PurchasePrice: 40678}
	assert.Equal(t, "AAPL - 16 shares purchased at $406.78", s.String())

	s = Stock{Symbol: "SBUX", NumberOfShares: 1, PurchasePrice: 5}
	assert.Equal(t, "SBUX - 1 shares purchased at $0.05", s.String())

	s = Stock{Symbol: "BRK", NumberOfShares: 2, PurchasePrice: 123456789}
	assert.Equal(t, "BRK - 2 shares purchased at $1,234,567.89", s.String())
}
