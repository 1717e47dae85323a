package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fakhrymubarak/weather-lookup/internal/config"
	"github.com/fakhrymubarak/weather-lookup/internal/model"
	"github.com/fakhrymubarak/weather-lookup/internal/repository"
	"github.com/fakhrymubarak/weather-lookup/internal/service"
	"go.uber.org/zap"
)

// WeatherHandler serves rendered weather displays over HTTP. Each request gets its own
// WeatherService, so no query state is shared between callers.
type WeatherHandler struct {
	WeatherRepo repository.WeatherRepository
	Logger      *zap.SugaredLogger
}

func NewWeatherHandler(repo repository.WeatherRepository) *WeatherHandler {
	return &WeatherHandler{
		WeatherRepo: repo,
		Logger:      config.GetLogger(),
	}
}

// Routes registers the handler endpoints on a new mux.
func (h *WeatherHandler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/weather", h.HandleWeather)
	mux.HandleFunc("/health", h.HandleHealth)
	return mux
}

func (h *WeatherHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Errorw("could not encode json", "error", err)
	}
}

func (h *WeatherHandler) writeError(w http.ResponseWriter, statusCode int, errMsg string, data interface{}) {
	h.writeJSONResponse(w, statusCode, model.Response{
		Data:    data,
		Error:   &errMsg,
		Message: "Error",
	})
}

func (h *WeatherHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, model.Response{Message: "ok"})
}

// HandleWeather answers GET /weather?city=...&units=metric|imperial with the rendered display.
func (h *WeatherHandler) HandleWeather(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}

	units := config.GetDefaultUnits()
	if raw := r.URL.Query().Get("units"); raw != "" {
		u, err := model.ParseUnits(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid 'units' query parameter: use metric or imperial", nil)
			return
		}
		units = u
	}

	rec := service.NewRecorder()
	svc := service.NewWeatherService(h.WeatherRepo, rec,
		service.WithUnits(units),
		service.WithLogger(h.Logger),
	)

	_, err := svc.RequestWeather(r.Context(), r.URL.Query().Get("city"))
	display := rec.Display()
	if err != nil {
		h.writeError(w, statusFor(err), err.Error(), display)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    display,
		Message: "Success",
	})
}

func statusFor(err error) int {
	var we *model.WeatherError
	if !errors.As(err, &we) {
		return http.StatusInternalServerError
	}
	switch we.Kind {
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindProvider:
		if we.Status == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}
