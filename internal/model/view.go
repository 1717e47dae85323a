package model

// ViewState is the visual state of a presentation surface.
type ViewState string

const (
	StateIdle    ViewState = "idle"
	StatePending ViewState = "pending"
	StateSettled ViewState = "settled"
)

// View is the rendered form of a Reading, split into the display regions.
type View struct {
	Temperature string   `json:"temperature"`
	FeelsLike   string   `json:"feels_like"`
	Details     []string `json:"details"`
	IconURL     string   `json:"icon_url"`
	IconAlt     string   `json:"icon_alt"`
}

// Display is the full state of a presentation surface: the three regions plus the unit toggle label.
type Display struct {
	State       ViewState `json:"state"`
	Temperature string    `json:"temperature"`
	FeelsLike   string    `json:"feels_like,omitempty"`
	Details     []string  `json:"details"`
	IconURL     string    `json:"icon_url,omitempty"`
	IconAlt     string    `json:"icon_alt,omitempty"`
	IconVisible bool      `json:"icon_visible"`
	UnitLabel   string    `json:"unit_label"`
}
