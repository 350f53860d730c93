package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewSpinConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
spin:
  up_duration: 50ms
  down_duration: 2s
  size: 200
  colors: ["#ff0000", "gold"]
  gif:
    frame_step: 5
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := NewSpinConfigFromYAML(path)
	if err != nil {
		t.Fatalf("NewSpinConfigFromYAML: %v", err)
	}
	if cfg.UpDuration() != 50*time.Millisecond || cfg.DownDuration() != 2*time.Second {
		t.Fatalf("durations = %s, %s", cfg.UpDuration(), cfg.DownDuration())
	}
	if cfg.Size() != 200 || len(cfg.Colors()) != 2 || cfg.GIFFrameStep() != 5 {
		t.Fatalf("unexpected config: size=%v colors=%v step=%d", cfg.Size(), cfg.Colors(), cfg.GIFFrameStep())
	}
	if cfg.Width() != 1000 || cfg.LabelMaxRunes() != 21 || cfg.ButtonText() != "Spin" {
		t.Fatalf("defaults not applied: width=%d label=%d button=%q", cfg.Width(), cfg.LabelMaxRunes(), cfg.ButtonText())
	}
}

func TestNewSpinConfigMissingFile(t *testing.T) {
	cfg, err := NewSpinConfigFromYAML(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if cfg.UpDuration() != 100*time.Millisecond || cfg.DownDuration() != time.Second {
		t.Fatalf("defaults = %s, %s", cfg.UpDuration(), cfg.DownDuration())
	}
}

func TestNewHTTPConfig(t *testing.T) {
	t.Setenv(httpHostEnvName, "127.0.0.1")
	t.Setenv(httpPortEnvName, "8080")
	t.Setenv(httpReadTimeoutEnvName, "")

	cfg, err := NewHTTPConfig()
	if err != nil {
		t.Fatalf("NewHTTPConfig: %v", err)
	}
	if cfg.Address() != "127.0.0.1:8080" {
		t.Fatalf("address = %q", cfg.Address())
	}
	if cfg.ReadTimeout() != 10*time.Second {
		t.Fatalf("read timeout = %s", cfg.ReadTimeout())
	}

	t.Setenv(httpReadTimeoutEnvName, "soon")
	if _, err := NewHTTPConfig(); err == nil {
		t.Fatal("invalid duration accepted")
	}
}

func TestNewPusherConfig(t *testing.T) {
	t.Setenv(pusherAppIDEnvName, "")
	cfg, err := NewPusherConfig()
	if err != nil || cfg.Enabled() {
		t.Fatalf("disabled config: %v, enabled=%v", err, cfg != nil && cfg.Enabled())
	}

	t.Setenv(pusherAppIDEnvName, "42")
	t.Setenv(pusherKeyEnvName, "")
	if _, err := NewPusherConfig(); err == nil {
		t.Fatal("missing key accepted")
	}

	t.Setenv(pusherKeyEnvName, "key")
	t.Setenv(pusherSecretEnvName, "secret")
	t.Setenv(pusherSecureEnvName, "false")
	cfg, err = NewPusherConfig()
	if err != nil {
		t.Fatalf("NewPusherConfig: %v", err)
	}
	if !cfg.Enabled() || cfg.Secure() || cfg.AppID() != "42" {
		t.Fatalf("config = %+v", cfg)
	}
}

func TestNewJWTConfig(t *testing.T) {
	t.Setenv(accessTokenKeyEnvName, "secret")
	t.Setenv(accessTokenDurationEnvName, "15m")

	cfg, err := NewJWTConfig()
	if err != nil {
		t.Fatalf("NewJWTConfig: %v", err)
	}
	if string(cfg.AccessTokenSecretKey()) != "secret" || cfg.AccessTokenDuration() != 15*time.Minute {
		t.Fatalf("config = %s, %s", cfg.AccessTokenSecretKey(), cfg.AccessTokenDuration())
	}
}
