package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Price is an amount in minor currency units (cents).
//
// Suppliers are not consistent about how they encode prices: some send a bare
// number of currency units ("12.5"), others a string with a trailing unit
// token ("12.50 USD"). UnmarshalJSON accepts both and normalizes to cents.
// The canonical outbound encoding is a decimal string without a unit token.
type Price int64

func (p Price) Mul(quantity int) Price {
	return p * Price(quantity)
}

func (p Price) String() string {
	return fmt.Sprintf("%d.%02d", p/100, p%100)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*p = 0
		return nil
	}

	// Strip a trailing unit token such as "USD" or "EUR".
	if fields := strings.Fields(s); len(fields) == 2 {
		s = fields[0]
	}

	units, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid price %q: %w", string(data), err)
	}
	if units < 0 {
		return fmt.Errorf("invalid price %q: negative", string(data))
	}

	*p = Price(units*100 + 0.5)
	return nil
}
