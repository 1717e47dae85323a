package integrationtest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/fakhrymubarak/weather-lookup/internal/config"
	"github.com/fakhrymubarak/weather-lookup/internal/handler"
	"github.com/fakhrymubarak/weather-lookup/internal/model"
	"github.com/fakhrymubarak/weather-lookup/internal/repository"
	"github.com/fakhrymubarak/weather-lookup/internal/service"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const testAPIKey = "test_api_key"

type providerCall struct {
	city  string
	units string
}

type WeatherAPITestSuite struct {
	suite.Suite
	owm        *httptest.Server
	httpServer *httptest.Server
	repo       repository.WeatherRepository

	mu    sync.Mutex
	calls []providerCall
}

func (suite *WeatherAPITestSuite) SetupSuite() {
	suite.owm = suite.mockOWMApi()
	viper.Set("openweathermap.api_url", suite.owm.URL+"/data/2.5/weather")
	config.ReloadConfigForTest()

	suite.repo = repository.NewWeatherRepository(config.GetOpenWeatherApiUrl(), testAPIKey)
	h := handler.NewWeatherHandler(suite.repo)
	h.Logger = zap.NewNop().Sugar()
	suite.httpServer = httptest.NewServer(h.Routes())
}

func (suite *WeatherAPITestSuite) TearDownSuite() {
	if suite.httpServer != nil {
		suite.httpServer.Close()
	}
	if suite.owm != nil {
		suite.owm.Close()
	}
}

func (suite *WeatherAPITestSuite) SetupTest() {
	suite.mu.Lock()
	suite.calls = nil
	suite.mu.Unlock()
}

func (suite *WeatherAPITestSuite) providerCalls() []providerCall {
	suite.mu.Lock()
	defer suite.mu.Unlock()
	return append([]providerCall(nil), suite.calls...)
}

func TestWeatherAPITestSuite(t *testing.T) {
	suite.Run(t, new(WeatherAPITestSuite))
}

type displayResponse struct {
	Data    model.Display `json:"data"`
	Error   *string       `json:"error"`
	Message string        `json:"message"`
}

func (suite *WeatherAPITestSuite) TestWeatherEndpoint() {
	tests := []struct {
		name          string
		query         string
		wantStatus    int
		wantProviders int
		validate      func(t *testing.T, resp displayResponse)
	}{
		{
			name:          "Success - London metric",
			query:         "?city=London",
			wantStatus:    http.StatusOK,
			wantProviders: 1,
			validate: func(t *testing.T, resp displayResponse) {
				assert.Equal(t, "15°C", resp.Data.Temperature)
				assert.Equal(t, "Feels like: 14°C", resp.Data.FeelsLike)
				assert.Equal(t, []string{
					"London, GB",
					"Clear sky",
					"Humidity: 70%",
					"Wind: 3 m/s",
					"Pressure: 1012 hPa",
				}, resp.Data.Details)
				assert.Equal(t, "https://openweathermap.org/img/wn/01d@2x.png", resp.Data.IconURL)
				assert.True(t, resp.Data.IconVisible)
			},
		},
		{
			name:          "Success - padded city is trimmed",
			query:         "?city=%20%20London%20",
			wantStatus:    http.StatusOK,
			wantProviders: 1,
		},
		{
			name:          "Failed - City not found",
			query:         "?city=Nonexistentville",
			wantStatus:    http.StatusNotFound,
			wantProviders: 1,
			validate: func(t *testing.T, resp displayResponse) {
				assert.Equal(t, "city not found", resp.Data.Temperature)
				assert.Empty(t, resp.Data.Details)
				assert.False(t, resp.Data.IconVisible)
			},
		},
		{
			name:          "Failed - Empty city",
			query:         "?city=",
			wantStatus:    http.StatusBadRequest,
			wantProviders: 0,
			validate: func(t *testing.T, resp displayResponse) {
				assert.Equal(t, "Please enter a city name.", resp.Data.Temperature)
			},
		},
		{
			name:          "Failed - Provider error without message",
			query:         "?city=Silent",
			wantStatus:    http.StatusNotFound,
			wantProviders: 1,
			validate: func(t *testing.T, resp displayResponse) {
				assert.Equal(t, "City not found", resp.Data.Temperature)
			},
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()

			resp, err := suite.httpServer.Client().Get(suite.httpServer.URL + "/weather" + tt.query)
			suite.Require().NoError(err)
			defer resp.Body.Close()

			assert.Equal(suite.T(), tt.wantStatus, resp.StatusCode)
			assert.Len(suite.T(), suite.providerCalls(), tt.wantProviders)

			var body displayResponse
			suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
			if tt.validate != nil {
				tt.validate(suite.T(), body)
			}
		})
	}
}

func (suite *WeatherAPITestSuite) TestProviderReceivesEscapedCityAndUnits() {
	resp, err := suite.httpServer.Client().Get(suite.httpServer.URL + "/weather?city=" + "San%20Jos%C3%A9&units=imperial")
	suite.Require().NoError(err)
	resp.Body.Close()

	suite.Equal([]providerCall{{city: "San José", units: "imperial"}}, suite.providerCalls())
}

func (suite *WeatherAPITestSuite) TestToggleRefetchesWithFlippedUnits() {
	rec := service.NewRecorder()
	svc := service.NewWeatherService(suite.repo, rec,
		service.WithUnits(model.Metric),
		service.WithLogger(zap.NewNop().Sugar()),
	)
	svc.SetCity("Paris")

	suite.Equal(model.Imperial, svc.ToggleUnit(context.Background()))
	suite.Equal([]providerCall{{city: "Paris", units: "imperial"}}, suite.providerCalls())
	suite.Equal("Switch to Celsius", rec.Display().UnitLabel)
	suite.Equal("15°F", rec.Display().Temperature)
}

func (suite *WeatherAPITestSuite) TestHealth() {
	resp, err := suite.httpServer.Client().Get(suite.httpServer.URL + "/health")
	suite.Require().NoError(err)
	defer resp.Body.Close()
	suite.Equal(http.StatusOK, resp.StatusCode)
}

// mockOWMApi answers London and Paris from the fixture, Silent with an empty error body and
// anything else with the provider's 404 payload.
func (suite *WeatherAPITestSuite) mockOWMApi() *httptest.Server {
	fixture, err := os.ReadFile("testdata/london.json")
	suite.Require().NoError(err)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		suite.mu.Lock()
		suite.calls = append(suite.calls, providerCall{city: q, units: r.URL.Query().Get("units")})
		suite.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("appid") != testAPIKey {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
			return
		}
		switch q {
		case "London", "Paris", "San José":
			_, _ = w.Write(fixture)
		case "Silent":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
		}
	}))
}
