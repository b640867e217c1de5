package metrics

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//nolint:gochecknoglobals // printer is safe for concurrent use once built
var printer = message.NewPrinter(language.English)

// FormatNumber formats n with thousand separators: 18248 -> "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat rounds f to precision decimals and groups the integer part:
// FormatFloat(1234.567, 2) -> "1,234.57". Values that round to zero print
// without a sign.
func FormatFloat(f float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	mult := math.Pow(10, float64(precision))
	rounded := f
	if scaled := f * mult; !math.IsInf(scaled, 0) {
		rounded = math.Round(scaled) / mult
	}
	if rounded == 0 {
		// drop negative zero
		rounded = 0
	}
	return printer.Sprintf("%.*f", precision, rounded)
}

func FormatTons(t float64) string { return FormatFloat(t, 1) + " t" }

func FormatCurrency(v float64) string {
	if v < 0 {
		return "-$" + FormatFloat(-v, 2)
	}
	return "$" + FormatFloat(v, 2)
}

func FormatPercent(p float64) string {
	s := FormatFloat(p, 1)
	if p > 0 && s != "0.0" {
		s = "+" + s
	}
	return s + "%"
}
