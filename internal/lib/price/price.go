// Package price переводит цены между пользовательским вводом и целыми центами.
//
// Цены хранятся в базе как целое число центов, чтобы избежать ошибок
// округления: 24.10 -> 2410, 100.00 -> 10000.
package price

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency — валюта отображения по умолчанию.
const DefaultCurrency = money.USD

var (
	// ErrInvalid возвращается для строк, не являющихся десятичным числом с точкой.
	ErrInvalid = errors.New("price must be a decimal number like 45.67")
	// ErrNegative возвращается для отрицательных цен.
	ErrNegative = errors.New("price must not be negative")
	// ErrTooLarge возвращается, если цена в центах не помещается в int64.
	ErrTooLarge = errors.New("price is too large")
)

var decimalRe = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

var hundred = decimal.NewFromInt(100)

// ParseCents разбирает строку вида "432.17" и возвращает цену в центах.
// Дробная часть длиннее двух знаков округляется до цента.
func ParseCents(s string) (int64, error) {
	const op = "price.ParseCents"
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%s: %w", op, ErrNegative)
	}
	if !decimalRe.MatchString(s) {
		return 0, fmt.Errorf("%s: %q: %w", op, s, ErrInvalid)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %w", op, ErrInvalid, err)
	}
	cents := d.Mul(hundred).Round(0)
	if !cents.BigInt().IsInt64() {
		return 0, fmt.Errorf("%s: %q: %w", op, s, ErrTooLarge)
	}
	return cents.IntPart(), nil
}

// Decimal возвращает цену в центах в виде строки "432.17".
func Decimal(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// Format возвращает цену в центах с символом валюты, например "$432.17".
// Неизвестный код валюты заменяется DefaultCurrency.
func Format(cents int64, currency string) string {
	if currency == "" || money.GetCurrency(currency) == nil {
		currency = DefaultCurrency
	}
	return money.New(cents, currency).Display()
}
