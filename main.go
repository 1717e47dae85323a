package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fakhrymubarak/weather-lookup/internal/config"
	"github.com/fakhrymubarak/weather-lookup/internal/handler"
	"github.com/fakhrymubarak/weather-lookup/internal/repository"
	"github.com/fakhrymubarak/weather-lookup/internal/service"
	"github.com/fakhrymubarak/weather-lookup/internal/terminal"
)

func main() {
	logger := config.GetLogger()
	defer func() { _ = logger.Sync() }()

	apiKey := config.GetOpenWeatherMapAPIKey()
	if apiKey == "" {
		logger.Fatal("OPENWEATHERMAP_API_KEY is not set")
	}

	httpClient := &http.Client{Timeout: config.GetRequestTimeout()}
	repo := repository.NewWeatherRepository(config.GetOpenWeatherApiUrl(), apiKey, httpClient)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	if len(os.Args) > 1 && os.Args[1] == "serve" {
		err = serve(ctx, newServer(handler.NewWeatherHandler(repo).Routes()))
	} else {
		client := service.NewWeatherService(repo, terminal.NewSurface(os.Stdout),
			service.WithLogger(config.GetTerminalLogger()),
		)
		err = terminal.Run(ctx, client, os.Stdin)
	}
	if err != nil {
		logger.Fatalw("Weather client stopped", "error", err)
	}
}

func newServer(h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + config.GetServerPort(),
		Handler:           h,
		ReadHeaderTimeout: config.GetServerTimeout("read_header_timeout"),
		ReadTimeout:       config.GetServerTimeout("read_timeout"),
		WriteTimeout:      config.GetServerTimeout("write_timeout"),
		IdleTimeout:       config.GetServerTimeout("idle_timeout"),
	}
}

// serve runs srv until ctx is done, then shuts it down.
func serve(ctx context.Context, srv *http.Server) error {
	logger := config.GetLogger()
	serverErr := make(chan error, 1)
	go func() {
		logger.Infow("Weather server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
