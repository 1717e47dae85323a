package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/fakhrymubarak/weather-lookup/internal/model"
)

var (
	ErrMalformedResponse = errors.New("malformed weather data")
	ErrNoConditions      = errors.New("malformed weather data: no weather conditions")
)

// WeatherRepository defines the interface for weather data access
type WeatherRepository interface {
	CurrentWeather(ctx context.Context, city string, units model.Units) (*model.Reading, error)
}

// weatherRepository implements WeatherRepository against the OpenWeatherMap current weather API
type weatherRepository struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewWeatherRepository creates a new weather repository instance. The default client has no timeout.
func NewWeatherRepository(apiURL, apiKey string, httpClient ...*http.Client) WeatherRepository {
	client := http.DefaultClient
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &weatherRepository{
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: client,
	}
}

// CurrentWeather issues one GET for city in the given units. Every error it returns is a
// *model.WeatherError of kind provider or transport.
func (r *weatherRepository) CurrentWeather(ctx context.Context, city string, units model.Units) (*model.Reading, error) {
	endpoint, err := r.buildURL(city, units)
	if err != nil {
		return nil, model.NewTransportError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, model.NewTransportError(err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, model.NewTransportError(stripURL(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, model.NewTransportError(fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeFailure(resp.StatusCode, body)
	}

	return decodeReading(body, units)
}

func (r *weatherRepository) buildURL(city string, units model.Units) (string, error) {
	u, err := url.Parse(r.apiURL)
	if err != nil {
		return "", fmt.Errorf("invalid api url: %w", err)
	}
	params := u.Query()
	params.Set("q", city)
	params.Set("appid", r.apiKey)
	params.Set("units", string(units))
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// decodeFailure maps a non-2xx body to a provider error, or a transport error if the body is not JSON.
func decodeFailure(status int, body []byte) error {
	var data model.OpenWeatherMapError
	if err := json.Unmarshal(body, &data); err != nil {
		return model.NewTransportError(fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}
	return model.NewProviderError(status, data.Message)
}

func decodeReading(body []byte, units model.Units) (*model.Reading, error) {
	var data model.OpenWeatherMapResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, model.NewTransportError(fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}
	if len(data.Weather) == 0 {
		return nil, model.NewTransportError(ErrNoConditions)
	}

	return &model.Reading{
		Location:    data.Name,
		Country:     data.Sys.Country,
		Temperature: data.Main.Temp,
		FeelsLike:   data.Main.FeelsLike,
		Description: data.Weather[0].Description,
		Humidity:    data.Main.Humidity,
		WindSpeed:   data.Wind.Speed,
		Pressure:    data.Main.Pressure,
		Icon:        data.Weather[0].Icon,
		Units:       units,
	}, nil
}

// stripURL drops the request URL from client errors; it carries the credential.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
