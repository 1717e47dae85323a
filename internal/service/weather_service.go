package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/fakhrymubarak/weather-lookup/internal/config"
	"github.com/fakhrymubarak/weather-lookup/internal/model"
	"github.com/fakhrymubarak/weather-lookup/internal/repository"
	"go.uber.org/zap"
)

// Surface is where a WeatherService renders. Calls are serialized by the service and must not
// call back into it.
type Surface interface {
	ShowPending()
	ShowWeather(view model.View)
	ShowError(message string)
	SetUnitLabel(label string)
}

// WeatherService mediates between user input, the weather provider and a Surface.
// It is safe for concurrent use; only the most recent request writes to the surface.
type WeatherService struct {
	WeatherRepo repository.WeatherRepository

	surface Surface
	iconURL string
	logger  *zap.SugaredLogger

	mu         sync.Mutex
	state      model.QueryState
	generation uint64
}

type Option func(*WeatherService)

func WithUnits(u model.Units) Option {
	return func(s *WeatherService) {
		s.state.Units = u
	}
}

func WithIconURL(tmpl string) Option {
	return func(s *WeatherService) {
		s.iconURL = tmpl
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *WeatherService) {
		s.logger = l
	}
}

// NewWeatherService creates a service in the idle state and sets the surface's unit label.
func NewWeatherService(repo repository.WeatherRepository, surface Surface, opts ...Option) *WeatherService {
	s := &WeatherService{
		WeatherRepo: repo,
		surface:     surface,
		iconURL:     config.GetOpenWeatherIconUrl(),
		logger:      config.GetLogger(),
		state:       model.QueryState{Units: config.GetDefaultUnits()},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.surface.SetUnitLabel(s.state.Units.SwitchLabel())
	return s
}

// State returns a copy of the current input and unit preference.
func (s *WeatherService) State() model.QueryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetCity records typed input without issuing a request.
func (s *WeatherService) SetCity(city string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.City = city
}

// RequestWeather fetches current conditions for city in the current units and renders the
// outcome. Errors are always *model.WeatherError.
func (s *WeatherService) RequestWeather(ctx context.Context, city string) (*model.Reading, error) {
	city = strings.TrimSpace(city)

	s.mu.Lock()
	s.state.City = city
	units := s.state.Units
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	if city == "" {
		err := model.NewValidationError(model.MsgCityRequired)
		s.fail(gen, city, err)
		return nil, err
	}

	s.render(gen, s.surface.ShowPending)
	s.logger.Debugw("Requesting weather", "city", city, "units", units)

	reading, err := s.WeatherRepo.CurrentWeather(ctx, city, units)
	if err != nil {
		we := toWeatherError(err)
		s.fail(gen, city, we)
		return nil, we
	}

	view := FormatReading(reading, s.iconURL)
	if !s.render(gen, func() { s.surface.ShowWeather(view) }) {
		s.logger.Debugw("Discarding stale weather response", "city", city)
	}
	return reading, nil
}

// ToggleUnit flips the unit preference and, if a city is entered, fetches it again in the new units.
func (s *WeatherService) ToggleUnit(ctx context.Context) model.Units {
	s.mu.Lock()
	s.state.Units = s.state.Units.Toggle()
	units := s.state.Units
	city := strings.TrimSpace(s.state.City)
	s.surface.SetUnitLabel(units.SwitchLabel())
	s.mu.Unlock()

	if city != "" {
		_, _ = s.RequestWeather(ctx, city)
	}
	return units
}

// render calls fn if gen is still the latest request.
func (s *WeatherService) render(gen uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	fn()
	return true
}

func (s *WeatherService) fail(gen uint64, city string, err *model.WeatherError) {
	// Bad input and provider refusals are expected, so only transport failures log at error.
	if err.Kind == model.KindTransport {
		s.logger.Errorw("Weather request failed", "kind", err.Kind.String(), "city", city, "error", err)
	} else {
		s.logger.Warnw("Weather request failed", "kind", err.Kind.String(), "city", city, "error", err)
	}
	if !s.render(gen, func() { s.surface.ShowError(err.Message) }) {
		s.logger.Debugw("Discarding stale weather error", "city", city)
	}
}

func toWeatherError(err error) *model.WeatherError {
	var we *model.WeatherError
	if errors.As(err, &we) {
		return we
	}
	return model.NewTransportError(err)
}
