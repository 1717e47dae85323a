package model

import "fmt"

// Units is the unit preference. Its value doubles as the provider's `units` token.
type Units string

const (
	Metric   Units = "metric"
	Imperial Units = "imperial"
)

// ParseUnits accepts the provider tokens only.
func ParseUnits(s string) (Units, error) {
	switch Units(s) {
	case Metric, Imperial:
		return Units(s), nil
	}
	return "", fmt.Errorf("unknown units %q", s)
}

// Toggle flips between metric and imperial.
func (u Units) Toggle() Units {
	if u == Imperial {
		return Metric
	}
	return Imperial
}

func (u Units) TemperatureSymbol() string {
	if u == Imperial {
		return "°F"
	}
	return "°C"
}

func (u Units) WindLabel() string {
	if u == Imperial {
		return "mph"
	}
	return "m/s"
}

// SwitchLabel names the unit a toggle would switch to.
func (u Units) SwitchLabel() string {
	if u == Imperial {
		return "Switch to Celsius"
	}
	return "Switch to Fahrenheit"
}

// QueryState is the user input a client holds between requests.
type QueryState struct {
	City  string
	Units Units
}

// Reading is one current-conditions result, in the units it was requested with.
type Reading struct {
	Location    string  `json:"location"`
	Country     string  `json:"country"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Description string  `json:"description"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Pressure    int     `json:"pressure"`
	Icon        string  `json:"icon"`
	Units       Units   `json:"units"`
}
