package utils

import "math"

// RoundToCents arredonda um valor monetário para duas casas, com meio centavo
// indo para longe de zero. Um resultado -0 volta como 0.
func RoundToCents(v float64) float64 {
	cents := math.Round(v*100) / 100
	if cents == 0 {
		return 0
	}

	return cents
}
