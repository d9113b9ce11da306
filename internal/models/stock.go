package models

import (
	"fmt"

	"github.com/magabrotheeeer/stonks/internal/lib/price"
)

// Stock — акция, купленная пользователем.
//
// Цена покупки хранится в центах: 24.10 -> 2410, 100.00 -> 10000.
type Stock struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"user_id"`
	Symbol         string `json:"symbol"`
	NumberOfShares int64  `json:"number_of_shares"`
	PurchasePrice  int64  `json:"purchase_price"`
}

// String возвращает описание позиции, например "AAPL - 16 shares purchased at $406.78".
func (s Stock) String() string {
	return fmt.Sprintf("%s - %d shares purchased at %s",
		s.Symbol, s.NumberOfShares, price.Format(s.PurchasePrice, price.DefaultCurrency))
}
