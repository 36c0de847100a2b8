package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port            int
	ConexaBaseURL   string
	ConexaTimeout   time.Duration
	RedisURL        string
	SessionSecret   string
	SessionTTL      time.Duration
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	Timezone        string
	AllowOrigins    []string
	RateLimitPublic RateLimitConfig
	RateLimitAuth   RateLimitConfig
	AuditDBDSN      string
}

// RateLimitConfig representa limites simples para throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	cfg.ConexaBaseURL = strings.TrimRight(getEnv("CONEXA_BASE_URL", ""), "/")
	if cfg.ConexaBaseURL == "" {
		return nil, errors.New("CONEXA_BASE_URL obrigatório")
	}

	conexaTimeout, err := parseDurationEnv("CONEXA_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.ConexaTimeout = conexaTimeout

	cfg.RedisURL = getEnv("REDIS_URL", "")
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL obrigatório")
	}

	cfg.SessionSecret = strings.TrimSpace(getEnv("SESSION_SECRET", ""))
	if len(cfg.SessionSecret) < 32 {
		return nil, errors.New("SESSION_SECRET deve ter pelo menos 32 caracteres")
	}

	sessionTTL, err := parseDurationEnv("SESSION_TTL", 12*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.SessionTTL = sessionTTL

	accessTTL, err := parseDurationEnv("ACCESS_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.AccessTTL = accessTTL

	refreshTTL, err := parseDurationEnv("REFRESH_TTL", 30*24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.RefreshTTL = refreshTTL

	cfg.Timezone = strings.TrimSpace(getEnv("PEDAGOGICAL_TZ", "America/Sao_Paulo"))
	if cfg.Timezone == "" {
		cfg.Timezone = "America/Sao_Paulo"
	}

	allowOrigins := strings.Split(getEnv("ALLOW_ORIGINS", ""), ",")
	cfg.AllowOrigins = nil
	for _, origin := range allowOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}

	cfg.RateLimitPublic, err = parseRateLimitEnv("RATE_LIMIT_PUBLIC", RateLimitConfig{RequestsPerSecond: 10, Burst: 20})
	if err != nil {
		return nil, err
	}
	cfg.RateLimitAuth, err = parseRateLimitEnv("RATE_LIMIT_AUTH", RateLimitConfig{RequestsPerSecond: 10, Burst: 40})
	if err != nil {
		return nil, err
	}

	// Auditoria é opcional: sem DSN o serviço sobe sem Postgres.
	cfg.AuditDBDSN = strings.TrimSpace(getEnv("AUDIT_DB_DSN", ""))

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

// parseRateLimitEnv lê <prefix>_RPS e <prefix>_BURST, mantendo os
// defaults quando as variáveis não estão definidas.
func parseRateLimitEnv(prefix string, def RateLimitConfig) (RateLimitConfig, error) {
	out := def

	if val := getEnv(prefix+"_RPS", ""); val != "" {
		rps, err := strconv.ParseFloat(val, 64)
		if err != nil || rps <= 0 {
			return RateLimitConfig{}, errors.New(prefix + "_RPS inválido")
		}
		out.RequestsPerSecond = rps
	}

	if val := getEnv(prefix+"_BURST", ""); val != "" {
		burst, err := strconv.Atoi(val)
		if err != nil || burst <= 0 {
			return RateLimitConfig{}, errors.New(prefix + "_BURST inválido")
		}
		out.Burst = burst
	}

	return out, nil
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}
