package domain

import (
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used whenever no explicit currency is given.
const DefaultCurrency = "USD"

// Money is an exact-decimal monetary amount with a currency. It is a
// value type: every operation returns a new Money and never mutates the
// receiver. Amounts are never negative.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney validates and builds a Money. An empty currency defaults to USD.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if currency == "" {
		currency = DefaultCurrency
	}
	if amount.IsNegative() {
		return Money{}, Validationf("money amount cannot be negative, got %s", amount)
	}
	return Money{amount: amount, currency: currency}, nil
}

// ParseMoney builds a Money from a decimal string such as "15.00".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, Validationf("invalid money amount: %q", s)
	}
	return NewMoney(d, DefaultCurrency)
}

// MustMoney is ParseMoney for trusted literals; it panics on bad input.
// Intended for constants and tests only.
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }

// AmountString returns the exact decimal representation used for
// persistence, e.g. "15.5". No binary floating point anywhere.
func (m Money) AmountString() string { return m.amount.String() }

// String formats for display: "$15.00".
func (m Money) String() string {
	return "$" + m.amount.StringFixed(2)
}

func (m Money) assertSameCurrency(other Money) error {
	if m.normCurrency() != other.normCurrency() {
		return Validationf("cannot combine %s with %s", m.normCurrency(), other.normCurrency())
	}
	return nil
}

// normCurrency lets the zero value Money{} act as $0.00 USD.
func (m Money) normCurrency() string {
	if m.currency == "" {
		return DefaultCurrency
	}
	return m.currency
}

func (m Money) Add(other Money) (Money, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.normCurrency()}, nil
}

// Sub fails rather than produce a negative amount.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return Money{}, err
	}
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, Validationf("money subtraction would result in a negative amount")
	}
	return Money{amount: result, currency: m.normCurrency()}, nil
}

// MulInt multiplies by a whole count. Money is never multiplied by
// fractional factors in this domain.
func (m Money) MulInt(factor int) Money {
	return Money{
		amount:   m.amount.Mul(decimal.NewFromInt(int64(factor))),
		currency: m.normCurrency(),
	}
}

func (m Money) Equal(other Money) bool {
	return m.normCurrency() == other.normCurrency() && m.amount.Equal(other.amount)
}

// LessThan compares amounts, enforcing matching currencies.
func (m Money) LessThan(other Money) (bool, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.LessThan(other.amount), nil
}

// Quantity is a positive integer count of items. The zero value is not a
// valid Quantity; construct via NewQuantity.
type Quantity struct {
	value int
}

func NewQuantity(value int) (Quantity, error) {
	if value <= 0 {
		return Quantity{}, Validationf("quantity must be positive, got %d", value)
	}
	return Quantity{value: value}, nil
}

func (q Quantity) Value() int { return q.value }
