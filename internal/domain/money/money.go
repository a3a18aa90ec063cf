// Package money provides a decimal money value carried with its currency.
//
// Amounts are shopspring decimals serialized as decimal strings, never bare
// floats, so no precision is lost crossing the wire or through arithmetic.
package money

import "github.com/shopspring/decimal"

// DefaultCurrency is the fallback currency code used when no line item is
// present to derive one from.
const DefaultCurrency = "USD"

// Money is an amount in a specific currency.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	return Money{Amount: decimal.Zero, CurrencyCode: currency}
}

// New builds a Money from a decimal amount and currency code.
func New(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, CurrencyCode: currency}
}

// FromString parses a decimal string into a Money. Invalid input yields a
// zero amount rather than an error: remote payloads occasionally carry empty
// amounts and callers treat those as zero.
func FromString(amount, currency string) Money {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		d = decimal.Zero
	}
	return Money{Amount: d, CurrencyCode: currency}
}

// Add returns m plus other. The receiver's currency wins; amounts in mixed
// currencies are never produced by the callers (a cart has one currency).
func (m Money) Add(other Money) Money {
	return Money{Amount: m.Amount.Add(other.Amount), CurrencyCode: m.CurrencyCode}
}

// MulInt returns the amount scaled by an integer quantity.
func (m Money) MulInt(n int) Money {
	return Money{
		Amount:       m.Amount.Mul(decimal.NewFromInt(int64(n))),
		CurrencyCode: m.CurrencyCode,
	}
}

// DivInt returns the amount divided by an integer quantity. Used to re-derive
// a unit price from a recorded line total. Division by zero returns zero.
func (m Money) DivInt(n int) Money {
	if n == 0 {
		return Zero(m.CurrencyCode)
	}
	return Money{
		Amount:       m.Amount.Div(decimal.NewFromInt(int64(n))),
		CurrencyCode: m.CurrencyCode,
	}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// Equal reports whether two Money values have the same amount and currency.
func (m Money) Equal(other Money) bool {
	return m.CurrencyCode == other.CurrencyCode && m.Amount.Equal(other.Amount)
}

// String formats the value as "<amount> <currency>".
func (m Money) String() string {
	return m.Amount.String() + " " + m.CurrencyCode
}
