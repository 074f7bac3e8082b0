package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/kirillkom/paperless-date-normalizer/internal/core/domain"
)

const DefaultAPIURL = "http://localhost:8000/api/"

type Config struct {
	DocumentID int
	APIToken   string
	APIURL     string
	// APIURLDefaulted is true when PAPERLESS_API_URL was not provided.
	APIURLDefaulted bool

	LogLevel    string
	DryRun      bool
	HTTPTimeout time.Duration

	NATSURL     string
	NATSSubject string

	PushgatewayURL string
}

func Load() (Config, error) {
	documentID, err := requiredInt("DOCUMENT_ID")
	if err != nil {
		return Config{}, err
	}
	token, err := required("PAPERLESS_API_TOKEN")
	if err != nil {
		return Config{}, err
	}

	// A set but empty value is used as-is, only an unset variable defaults.
	apiURL, provided := os.LookupEnv("PAPERLESS_API_URL")
	defaulted := !provided
	if defaulted {
		apiURL = DefaultAPIURL
	}

	return Config{
		DocumentID:      documentID,
		APIToken:        token,
		APIURL:          apiURL,
		APIURLDefaulted: defaulted,

		LogLevel:    mustEnv("LOG_LEVEL", "info"),
		DryRun:      mustEnvBool("DRY_RUN", false),
		HTTPTimeout: time.Duration(mustEnvInt("PAPERLESS_HTTP_TIMEOUT_SECONDS", 0)) * time.Second,

		NATSURL:     mustEnv("NATS_URL", ""),
		NATSSubject: mustEnv("NATS_SUBJECT", "documents.normalized"),

		PushgatewayURL: mustEnv("METRICS_PUSHGATEWAY_URL", ""),
	}, nil
}

// EnvFile is the dotenv path read before Load.
func EnvFile() string {
	return mustEnv("ENV_FILE", ".env")
}

// LoadDotEnv fills unset variables from a dotenv file. Variables already in
// the environment win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return domain.WrapError(domain.ErrConfig, "load env file "+path, err)
	}
	return nil
}

func required(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", domain.WrapError(domain.ErrConfig, key, errors.New("environment variable is not set"))
	}
	return v, nil
}

func requiredInt(key string) (int, error) {
	v, err := required(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return 0, domain.WrapError(domain.ErrConfig, key, fmt.Errorf("unable to parse %q to integer: %w", v, err))
	}
	return int(n), nil
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
