package env

import (
	"errors"
	"os"
	"strconv"

	"spinny_backend/internal/config"
)

const (
	pusherAppIDEnvName   = "PUSHER_APP_ID"
	pusherKeyEnvName     = "PUSHER_KEY"
	pusherSecretEnvName  = "PUSHER_SECRET"
	pusherClusterEnvName = "PUSHER_CLUSTER"
	pusherHostEnvName    = "PUSHER_HOST"
	pusherSecureEnvName  = "PUSHER_SECURE"
)

type pusherConfig struct {
	appID   string
	key     string
	secret  string
	cluster string
	host    string
	secure  bool
}

// NewPusherConfig - без PUSHER_APP_ID конфиг выключен, это не ошибка
func NewPusherConfig() (config.PusherConfig, error) {
	cfg := &pusherConfig{
		appID:   os.Getenv(pusherAppIDEnvName),
		key:     os.Getenv(pusherKeyEnvName),
		secret:  os.Getenv(pusherSecretEnvName),
		cluster: os.Getenv(pusherClusterEnvName),
		host:    os.Getenv(pusherHostEnvName),
		secure:  true,
	}
	if cfg.appID == "" {
		return cfg, nil
	}
	if cfg.key == "" || cfg.secret == "" {
		return nil, errors.New("pusher key or secret not found")
	}
	if raw := os.Getenv(pusherSecureEnvName); raw != "" {
		secure, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.New("invalid " + pusherSecureEnvName)
		}
		cfg.secure = secure
	}
	return cfg, nil
}

func (c *pusherConfig) Enabled() bool   { return c.appID != "" }
func (c *pusherConfig) AppID() string   { return c.appID }
func (c *pusherConfig) Key() string     { return c.key }
func (c *pusherConfig) Secret() string  { return c.secret }
func (c *pusherConfig) Cluster() string { return c.cluster }
func (c *pusherConfig) Host() string    { return c.host }
func (c *pusherConfig) Secure() bool    { return c.secure }
