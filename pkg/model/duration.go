package model

import (
	"fmt"
	"math"
)

// Round2 rounds x to 2 decimal places, half away from zero. All averages and
// hour conversions go through this function.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Hours converts minutes to hours rounded to 2 decimal places
func Hours(minutes int) float64 {
	return Round2(float64(minutes) / 60)
}

// FormatDuration renders minutes as "<minutes> min (<hours> h)"
func FormatDuration(minutes int) string {
	return fmt.Sprintf("%d min (%.2f h)", minutes, Hours(minutes))
}

// DifficultyStars renders difficulty as stars. Out of range values are clamped.
func DifficultyStars(d int) string {
	n := max(0, min(MaxDifficulty, d))
	stars := make([]byte, n)
	for i := range stars {
		stars[i] = '*'
	}
	return string(stars)
}
