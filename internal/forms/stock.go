package forms

import (
	"errors"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/stonks/internal/lib/price"
	"github.com/magabrotheeeer/stonks/internal/models"
)

// StockForm — проверенные данные формы добавления акции.
type StockForm struct {
	Symbol         string `validate:"required,alpha,max=5"`
	NumberOfShares int64  `validate:"gt=0"`
	PurchasePrice  int64  `validate:"gte=0"`
}

// ParseStock разбирает поля формы добавления акции.
//
// Тикер должен состоять из 1-5 букв и приводится к верхнему регистру,
// количество акций — целое число, цена — десятичное число с точкой.
func ParseStock(symbol, shares, purchasePrice string) (models.Stock, error) {
	errs := ValidationErrors{}
	form := StockForm{Symbol: strings.TrimSpace(symbol)}

	shares = strings.TrimSpace(shares)
	if shares == "" {
		errs.add("NumberOfShares", "field NumberOfShares is a required field")
	} else if n, err := strconv.ParseInt(shares, 10, 64); err != nil {
		errs.add("NumberOfShares", "field NumberOfShares must be a whole number")
	} else {
		form.NumberOfShares = n
	}

	if strings.TrimSpace(purchasePrice) == "" {
		errs.add("PurchasePrice", "field PurchasePrice is a required field")
	} else if cents, err := price.ParseCents(purchasePrice); errors.Is(err, price.ErrTooLarge) {
		errs.add("PurchasePrice", "field PurchasePrice is too large")
	} else if err != nil {
		errs.add("PurchasePrice", "field PurchasePrice must be a decimal number like 45.67")
	} else {
		form.PurchasePrice = cents
	}

	if err := validate.Struct(form); err != nil {
		fromValidator(err, errs)
	}
	if len(errs) > 0 {
		return models.Stock{}, errs
	}

	return models.Stock{
		Symbol:         strings.ToUpper(form.Symbol),
		NumberOfShares: form.NumberOfShares,
		PurchasePrice:  form.PurchasePrice,
	}, nil
}
