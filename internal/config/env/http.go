package env

import (
	"fmt"
	"net"
	"os"
	"time"

	"spinny_backend/internal/config"
)

const (
	httpHostEnvName            = "HTTP_HOST"
	httpPortEnvName            = "HTTP_PORT"
	httpReadTimeoutEnvName     = "HTTP_READ_TIMEOUT"
	httpShutdownTimeoutEnvName = "HTTP_SHUTDOWN_TIMEOUT"
)

type httpConfig struct {
	host            string
	port            string
	readTimeout     time.Duration
	shutdownTimeout time.Duration
}

func NewHTTPConfig() (config.HTTPConfig, error) {
	port := os.Getenv(httpPortEnvName)
	if len(port) == 0 {
		return nil, fmt.Errorf("http port not found")
	}

	readTimeout, err := durationOr(httpReadTimeoutEnvName, 10*time.Second)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := durationOr(httpShutdownTimeoutEnvName, 5*time.Second)
	if err != nil {
		return nil, err
	}

	return &httpConfig{
		host:            os.Getenv(httpHostEnvName),
		port:            port,
		readTimeout:     readTimeout,
		shutdownTimeout: shutdownTimeout,
	}, nil
}

func (cfg *httpConfig) Address() string {
	return net.JoinHostPort(cfg.host, cfg.port)
}

func (cfg *httpConfig) ReadTimeout() time.Duration {
	return cfg.readTimeout
}

func (cfg *httpConfig) ShutdownTimeout() time.Duration {
	return cfg.shutdownTimeout
}

// durationOr - значение из окружения или значение по умолчанию
func durationOr(name string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return d, nil
}
