package service

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/fakhrymubarak/weather-lookup/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// roundHalfUp rounds .5 toward positive infinity, so -2.5 becomes -2.
// Comparing against the floor avoids v+0.5 rounding up just below .5.
func roundHalfUp(v float64) int {
	f := math.Floor(v)
	if v-f >= 0.5 {
		f++
	}
	return int(f)
}

// capitalizeFirst upper-cases the first character only. The mapping may widen it ("ß" -> "SS").
func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	// Casers are stateful, so one per call.
	return cases.Upper(language.Und).String(string(r)) + s[size:]
}

// FormatReading projects a reading into display text. iconURL is a template with one %s.
func FormatReading(r *model.Reading, iconURL string) model.View {
	tempUnit := r.Units.TemperatureSymbol()

	return model.View{
		Temperature: fmt.Sprintf("%d%s", roundHalfUp(r.Temperature), tempUnit),
		FeelsLike:   fmt.Sprintf("Feels like: %d%s", roundHalfUp(r.FeelsLike), tempUnit),
		Details: []string{
			fmt.Sprintf("%s, %s", r.Location, r.Country),
			capitalizeFirst(r.Description),
			fmt.Sprintf("Humidity: %d%%", r.Humidity),
			fmt.Sprintf("Wind: %d %s", roundHalfUp(r.WindSpeed), r.Units.WindLabel()),
			fmt.Sprintf("Pressure: %d hPa", r.Pressure),
		},
		IconURL: fmt.Sprintf(iconURL, r.Icon),
		IconAlt: r.Description,
	}
}
