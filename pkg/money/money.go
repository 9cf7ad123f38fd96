// Package money handles the millicent unit used for every price and
// balance in the system: 1 major currency unit == 100,000 millicents.
// All arithmetic stays in int64 millicents; floats exist only at the
// display/input boundary.
package money

import (
	"fmt"
	"math"
)

const MillicentsPerUnit = 100 * 1000

// FromFloat converts a major-unit amount (e.g. pesos) to millicents.
func FromFloat(value float64) int64 {
	return int64(math.Round(value * MillicentsPerUnit))
}

// ToFloat converts millicents to major units for display.
func ToFloat(mc int64) float64 {
	return float64(mc) / MillicentsPerUnit
}

// FormatAmount renders a millicent amount as a major-unit decimal string
// for SMS text, trimming to two places ("12.50").
func FormatAmount(mc int64) string {
	return fmt.Sprintf("%.2f", ToFloat(mc))
}
