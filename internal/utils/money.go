package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatMoney keeps consistent two-decimal formatting for currency fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// RoundCents rounds to the nearest cent. Accumulation stays unrounded;
// rounding happens only here, at presentation or classification points.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// ParseAmount parses a user-entered monetary value ("12.50", "$12.50").
// Rejects non-numeric, NaN/Inf and negative input.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("monto vacío")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("monto inválido: %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("monto inválido: %q", s)
	}
	return v, nil
}
