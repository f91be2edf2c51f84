package utils

import "math"

func RoundTo(n float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(n*pow) / pow
}

// RoundMoney rounds to 2 decimal places, the precision used for all
// wallet and commission amounts.
func RoundMoney(n float64) float64 {
	return RoundTo(n, 2)
}
