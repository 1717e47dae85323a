package service

import (
	"sync"

	"github.com/fakhrymubarak/weather-lookup/internal/model"
)

// Recorder is an in-memory Surface. It keeps the current Display and every state it passed through.
type Recorder struct {
	mu          sync.Mutex
	display     model.Display
	transitions []model.ViewState
}

func NewRecorder() *Recorder {
	return &Recorder{
		display: model.Display{State: model.StateIdle, Details: []string{}},
	}
}

func (r *Recorder) ShowPending() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clear(model.StatePending, model.MsgLoading)
}

func (r *Recorder) ShowWeather(view model.View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.display.State = model.StateSettled
	r.display.Temperature = view.Temperature
	r.display.FeelsLike = view.FeelsLike
	r.display.Details = append([]string{}, view.Details...)
	r.display.IconURL = view.IconURL
	r.display.IconAlt = view.IconAlt
	r.display.IconVisible = true
	r.transitions = append(r.transitions, model.StateSettled)
}

func (r *Recorder) ShowError(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clear(model.StateSettled, message)
}

func (r *Recorder) SetUnitLabel(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.display.UnitLabel = label
}

// clear resets every region and puts text in the temperature region. Callers hold mu.
func (r *Recorder) clear(state model.ViewState, text string) {
	r.display.State = state
	r.display.Temperature = text
	r.display.FeelsLike = ""
	r.display.Details = []string{}
	r.display.IconURL = ""
	r.display.IconAlt = ""
	r.display.IconVisible = false
	r.transitions = append(r.transitions, state)
}

// Display returns a copy of the current surface state.
func (r *Recorder) Display() model.Display {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.display
	d.Details = append([]string{}, r.display.Details...)
	return d
}

func (r *Recorder) Transitions() []model.ViewState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.ViewState(nil), r.transitions...)
}
