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

const defaultAPIURL = "https://notehub-public.goit.study/api"

type Config struct {
	HTTPAddr string

	APIBaseURL string
	APIToken   string
	APITimeout time.Duration
	APIRate    float64
	APIBurst   int

	QueryStaleTime time.Duration
	QueryGCTime    time.Duration

	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	Site Site
}

// DevAPI configures the local stand-in for the notes service.
type DevAPI struct {
	HTTPAddr             string
	DatabaseURL          string
	JWTSecret            string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
}

var ErrMissingEnv = errors.New("missing env")

// Load reads the web front configuration. A .env file in the working
// directory is applied first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:         getenv("HTTP_ADDR", ":3000"),
		APIBaseURL:       strings.TrimRight(getenv("NOTEHUB_API_URL", defaultAPIURL), "/"),
		APIToken:         getenv("NOTEHUB_TOKEN", ""),
		RateLimitEnabled: getenv("RATE_LIMIT_ENABLED", "true") == "true",
	}

	var err error
	if cfg.APITimeout, err = getDuration("NOTEHUB_API_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.APIRate, err = getFloat("NOTEHUB_API_RPS", 10); err != nil {
		return Config{}, err
	}
	if cfg.APIBurst, err = getInt("NOTEHUB_API_BURST", 20); err != nil {
		return Config{}, err
	}
	if cfg.QueryStaleTime, err = getDuration("QUERY_STALE_TIME", 0); err != nil {
		return Config{}, err
	}
	if cfg.QueryGCTime, err = getDuration("QUERY_GC_TIME", 5*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitRPS, err = getFloat("RATE_LIMIT_RPS", 5); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 20); err != nil {
		return Config{}, err
	}

	if cfg.Site, err = LoadSite(getenv("NOTEHUB_SITE_CONFIG", "")); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadDevAPI() (DevAPI, error) {
	_ = godotenv.Load()

	cfg := DevAPI{
		HTTPAddr:             getenv("DEVAPI_ADDR", ":8081"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	var err error
	if cfg.DatabaseURL, err = requireEnv("DATABASE_URL"); err != nil {
		return DevAPI{}, err
	}
	if cfg.JWTSecret, err = requireEnv("JWT_SECRET"); err != nil {
		return DevAPI{}, err
	}
	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func requireEnv(key string) (string, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, key)
	}
	return v, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := getenv(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := getenv(key, "")
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return f, nil
}

func getInt(key string, def int) (int, error) {
	v := getenv(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

// JWTSecret reads only the signing secret, for commands that mint dev
// tokens without a database.
func JWTSecret() (string, error) {
	_ = godotenv.Load()
	return requireEnv("JWT_SECRET")
}
