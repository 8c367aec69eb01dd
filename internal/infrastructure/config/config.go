package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig encapsulates all runtime configuration knobs.
type AppConfig struct {
	App           AppSettings
	HTTP          HTTPSettings
	Auth          AuthSettings
	Log           LogSettings
	CNPJA         CNPJASettings
	Processamento ProcessamentoSettings
	Export        ExportSettings
}

type AppSettings struct {
	Name        string
	Version     string
	Environment string
}

type HTTPSettings struct {
	Port             int
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	WriteTimeoutLote time.Duration // extended timeout covering a full-size paced batch
	IdleTimeout      time.Duration
	ShutdownTimeout  time.Duration
}

type AuthSettings struct {
	Enabled     bool
	IssuerURI   string
	JWKSetURI   string
	ClockSkew   time.Duration
	BypassPaths []string
}

type LogSettings struct {
	Level string
}

// CNPJASettings configures the CNPJá classification client.
type CNPJASettings struct {
	BaseURL        string
	Timeout        time.Duration
	MaxTentativas  int
	BackoffInicial time.Duration
	BackoffMaximo  time.Duration
}

// ProcessamentoSettings configures the batch orchestrator.
type ProcessamentoSettings struct {
	LimiteChaves int           // maximum keys accepted per batch
	Intervalo    time.Duration // minimum spacing between classification call starts
}

// ExportSettings configures optional output columns.
type ExportSettings struct {
	IncluirCodigoDV bool
}

// Load resolves the application configuration from environment variables.
// It first attempts to load variables from a .env file if it exists.
// Environment variables set in the system take precedence over .env values.
func Load() (AppConfig, error) {
	_ = godotenv.Load()

	cfg := AppConfig{
		App: AppSettings{
			Name:        getEnv("APP_NAME", "nfe_dados"),
			Version:     getEnv("APP_VERSION", "0.1.0"),
			Environment: getEnv("APP_ENV", "local"),
		},
		HTTP: HTTPSettings{
			Port:             getEnvAsInt("APP_PORT", 8080),
			ReadTimeout:      getEnvAsDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:     getEnvAsDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			WriteTimeoutLote: getEnvAsDuration("HTTP_WRITE_TIMEOUT_LOTE", 40*time.Minute),
			IdleTimeout:      getEnvAsDuration("HTTP_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout:  getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Auth: AuthSettings{
			Enabled:     getEnvAsBool("AUTH_ENABLED", false),
			IssuerURI:   strings.TrimSpace(os.Getenv("JWT_ISSUER_URI")),
			JWKSetURI:   strings.TrimSpace(os.Getenv("JWT_JWK_SET_URI")),
			ClockSkew:   getEnvAsDuration("AUTH_CLOCK_SKEW", 2*time.Minute),
			BypassPaths: getEnvAsCSV("AUTH_BYPASS_PATHS", []string{"/health", "/metrics"}),
		},
		Log: LogSettings{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		CNPJA: CNPJASettings{
			BaseURL:        getEnv("CNPJA_BASE_URL", "https://open.cnpja.com"),
			Timeout:        getEnvAsDuration("CNPJA_TIMEOUT", 10*time.Second),
			MaxTentativas:  getEnvAsInt("CNPJA_MAX_TENTATIVAS", 5),
			BackoffInicial: getEnvAsDuration("CNPJA_BACKOFF_INICIAL", 5*time.Second),
			BackoffMaximo:  getEnvAsDuration("CNPJA_BACKOFF_MAXIMO", 60*time.Second),
		},
		Processamento: ProcessamentoSettings{
			LimiteChaves: getEnvAsInt("LOTE_LIMITE_CHAVES", 400),
			Intervalo:    getEnvAsDuration("LOTE_INTERVALO_CONSULTAS", 4*time.Second),
		},
		Export: ExportSettings{
			IncluirCodigoDV: getEnvAsBool("EXPORT_INCLUIR_CODIGO_DV", true),
		},
	}

	if cfg.CNPJA.BaseURL == "" {
		return cfg, errors.New("invalid config: CNPJA_BASE_URL must not be empty")
	}
	if cfg.CNPJA.MaxTentativas < 1 {
		return cfg, errors.New("invalid config: CNPJA_MAX_TENTATIVAS must be at least 1")
	}
	if cfg.Processamento.LimiteChaves <= 0 {
		return cfg, errors.New("invalid config: LOTE_LIMITE_CHAVES must be greater than 0")
	}
	if cfg.Processamento.Intervalo < 0 {
		return cfg, errors.New("invalid config: LOTE_INTERVALO_CONSULTAS must not be negative")
	}

	// The extended write timeout has to outlive a worst-case batch:
	// LimiteChaves paced calls plus per-call timeouts.
	minimo := time.Duration(cfg.Processamento.LimiteChaves) * cfg.Processamento.Intervalo
	if cfg.HTTP.WriteTimeoutLote < minimo {
		return cfg, fmt.Errorf("invalid config: HTTP_WRITE_TIMEOUT_LOTE %s is shorter than a full batch (%s)", cfg.HTTP.WriteTimeoutLote, minimo)
	}

	if cfg.Auth.Enabled {
		if cfg.Auth.IssuerURI == "" {
			return cfg, errors.New("invalid config: JWT_ISSUER_URI is required when AUTH_ENABLED=true")
		}
		if cfg.Auth.JWKSetURI == "" {
			return cfg, errors.New("invalid config: JWT_JWK_SET_URI is required when AUTH_ENABLED=true")
		}
	}

	return cfg, nil
}

// Address returns the HTTP listen address in host:port form.
func (h HTTPSettings) Address() string {
	return fmt.Sprintf(":%d", h.Port)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsCSV(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}
