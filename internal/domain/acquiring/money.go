package acquiring

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor currency units (kopecks). The acquiring API
// accepts and returns minor units only; major-unit values exist purely for
// display and receipt construction.
type Money struct {
	kopecks int64
}

func NewMoney(kopecks int64) Money {
	return Money{kopecks: kopecks}
}

// NewMoneyFromMajor converts a major-unit decimal amount (rubles) into Money,
// truncating anything beyond two decimal places.
func NewMoneyFromMajor(major decimal.Decimal) Money {
	return Money{kopecks: major.Mul(decimal.NewFromInt(100)).IntPart()}
}

func (m Money) Kopecks() int64 {
	return m.kopecks
}

func (m Money) Major() decimal.Decimal {
	return decimal.NewFromInt(m.kopecks).Div(decimal.NewFromInt(100))
}

func (m Money) IsPositive() bool {
	return m.kopecks > 0
}

func (m Money) String() string {
	return m.Major().StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.kopecks)
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var kopecks int64
	if err := json.Unmarshal(data, &kopecks); err != nil {
		return err
	}
	m.kopecks = kopecks
	return nil
}
