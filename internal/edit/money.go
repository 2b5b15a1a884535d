package edit

import (
	"math"
	"strconv"
	"strings"
)

// Thresholds bounds the magnitude bands that trigger disambiguation. Council
// financial figures are almost always in the millions-to-billions range, so
// values whose digit count falls in [SuspectMin, SuspectMax] or above
// RejectOver are flagged before submission rather than silently accepted.
type Thresholds struct {
	SuspectMin int
	SuspectMax int
	RejectOver int
}

// DefaultThresholds returns the standard magnitude bands.
func DefaultThresholds() Thresholds {
	return Thresholds{SuspectMin: 3, SuspectMax: 6, RejectOver: 10}
}

// Disambiguation asks the user to confirm a suspect monetary magnitude.
// Resolution is keep-as-entered, use the suggestion, or cancel and re-edit.
type Disambiguation struct {
	Entered   string
	Suggested string
}

// MagnitudeCheck flags monetary values whose magnitude looks like a
// transposed-zero entry error. Values with SuspectMin to SuspectMax digits
// get a ×1000 suggestion (the figure was probably entered in thousands);
// values with more than RejectOver digits get a ÷1000 suggestion. Values
// outside both bands, and values that do not parse as numbers, pass through
// with a nil result. Runs strictly before any network call.
func MagnitudeCheck(value string, th Thresholds) *Disambiguation {
	parsed, ok := parseAmount(value)
	if !ok {
		return nil
	}

	digits := magnitudeDigits(parsed)
	var suggested float64
	switch {
	case digits >= th.SuspectMin && digits <= th.SuspectMax:
		suggested = parsed * 1000
	case digits > th.RejectOver:
		suggested = parsed / 1000
	default:
		return nil
	}

	return &Disambiguation{
		Entered:   value,
		Suggested: strconv.FormatFloat(suggested, 'f', -1, 64),
	}
}

// parseAmount strips common currency formatting before parsing.
func parseAmount(value string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '£', '$', '€', ',', ' ':
			return -1
		}
		return r
	}, strings.TrimSpace(value))

	if cleaned == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// magnitudeDigits counts the digits in the integer part of the amount.
func magnitudeDigits(amount float64) int {
	n := math.Trunc(math.Abs(amount))
	digits := 0
	for n >= 1 {
		n = math.Trunc(n / 10)
		digits++
	}
	return digits
}
