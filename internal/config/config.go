package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fakhrymubarak/weather-lookup/internal/model"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once
var terminalLogger *zap.SugaredLogger
var terminalLoggerOnce sync.Once

const (
	defaultAPIURL  = "https://api.openweathermap.org/data/2.5/weather"
	defaultIconURL = "https://openweathermap.org/img/wn/%s@2x.png"
)

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func setDefaults() {
	viper.SetDefault("openweathermap.api_url", defaultAPIURL)
	viper.SetDefault("openweathermap.icon_url", defaultIconURL)
	viper.SetDefault("openweathermap.timeout", "0s")
	viper.SetDefault("units.default", string(model.Metric))
	viper.SetDefault("log.terminal_level", "error")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_header_timeout", "15s")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "10s")
	viper.SetDefault("server.idle_timeout", "30s")
}

func initConfig() {
	once.Do(func() {
		setDefaults()
		viper.SetEnvPrefix("WEATHER")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		root, err := getProjectRoot()
		if err != nil {
			GetLogger().Warnw("Project root not found, using defaults", "error", err)
			return
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
		viper.AddConfigPath(root)
		if err = viper.ReadInConfig(); err != nil {
			GetLogger().Warnw("Error reading config file", "error", err)
		}

		if isTestRun() {
			viper.SetConfigName("config_test")
			if err = viper.MergeInConfig(); err != nil {
				GetLogger().Warnw("Error reading test config file", "error", err)
			}
		}
	})
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func GetOpenWeatherApiUrl() string {
	initConfig()
	return viper.GetString("openweathermap.api_url")
}

// GetOpenWeatherIconUrl returns the icon URL template. It holds a single %s for the icon id.
func GetOpenWeatherIconUrl() string {
	initConfig()
	return viper.GetString("openweathermap.icon_url")
}

func GetOpenWeatherMapAPIKey() string {
	_ = godotenv.Load()
	return os.Getenv("OPENWEATHERMAP_API_KEY")
}

// GetRequestTimeout returns the outbound request timeout. Zero means no timeout.
func GetRequestTimeout() time.Duration {
	initConfig()
	return parseDuration(viper.GetString("openweathermap.timeout"), 0)
}

// GetDefaultUnits returns the unit preference a new client starts with.
// Unknown values fall back to metric.
func GetDefaultUnits() model.Units {
	initConfig()
	u, err := model.ParseUnits(viper.GetString("units.default"))
	if err != nil {
		GetLogger().Warnw("Invalid default units, falling back to metric", "error", err)
		return model.Metric
	}
	return u
}

func GetServerPort() string {
	initConfig()
	return viper.GetString("server.port")
}

func GetServerTimeout(key string) time.Duration {
	initConfig()
	return parseDuration(viper.GetString("server."+key), 15*time.Second)
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}

// GetTerminalLogger logs to stderr alongside the interactive prompt. Failures are already shown
// to the user there, so it defaults to error level and never attaches stack traces.
func GetTerminalLogger() *zap.SugaredLogger {
	terminalLoggerOnce.Do(func() {
		initConfig()
		level, err := zapcore.ParseLevel(viper.GetString("log.terminal_level"))
		if err != nil {
			GetLogger().Warnw("Invalid terminal log level, using error", "error", err)
			level = zapcore.ErrorLevel
		}
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		cfg.DisableStacktrace = true
		l, err := cfg.Build()
		if err != nil {
			panic(err)
		}
		terminalLogger = l.Sugar()
	})
	return terminalLogger
}
