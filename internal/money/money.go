// Package money provides integer-cent currency arithmetic. Amounts are
// never represented as floating point anywhere in the system.
package money

import "fmt"

// Cents is a monetary amount in integer cents.
type Cents int64

// IsPositive reports whether the amount is strictly greater than zero.
func (c Cents) IsPositive() bool {
	return c > 0
}

// Format renders the amount as a dollar string, e.g. 1234 -> "$12.34".
// Negative amounts render as "-$0.66".
func (c Cents) Format() string {
	v := c
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/100, v%100)
}
