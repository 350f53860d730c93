package config

import (
	"time"

	"github.com/joho/godotenv"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

type HTTPConfig interface {
	Address() string
	ReadTimeout() time.Duration
	ShutdownTimeout() time.Duration
}

type PGConfig interface {
	DSN() string
}

type JWTConfig interface {
	AccessTokenSecretKey() []byte
	AccessTokenDuration() time.Duration
}

type LoggerConfig interface {
	Env() string
}

// PusherConfig - настройки hosted pub/sub. Если Enabled() == false, события уходят только в локальный хаб
type PusherConfig interface {
	Enabled() bool
	AppID() string
	Key() string
	Secret() string
	Cluster() string
	Host() string
	Secure() bool
}

type JournalConfig interface {
	Dir() string
}

// SpinConfig - параметры отрисовки колеса на сервере
type SpinConfig interface {
	UpDuration() time.Duration
	DownDuration() time.Duration
	Size() float64
	Width() int
	Height() int
	Background() string
	FontPath() string
	FontPoints() float64
	Colors() []string
	ButtonText() string
	LabelMaxRunes() int
	GIFFrameStep() int
	GIFDelay() time.Duration
}
