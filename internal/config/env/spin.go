package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"spinny_backend/internal/config"
	"spinny_backend/internal/spin"
)

type spinFile struct {
	Spin spinYAML `yaml:"spin"`
}

type spinYAML struct {
	UpDuration    time.Duration `yaml:"up_duration"`
	DownDuration  time.Duration `yaml:"down_duration"`
	Size          float64       `yaml:"size"`
	Width         int           `yaml:"width"`
	Height        int           `yaml:"height"`
	Background    string        `yaml:"background"`
	FontPath      string        `yaml:"font_path"`
	FontPoints    float64       `yaml:"font_points"`
	Colors        []string      `yaml:"colors"`
	ButtonText    string        `yaml:"button_text"`
	LabelMaxRunes int           `yaml:"label_max_runes"`
	GIF           struct {
		FrameStep int           `yaml:"frame_step"`
		Delay     time.Duration `yaml:"delay"`
	} `yaml:"gif"`
}

type spinConfig struct {
	c spinYAML
}

// NewSpinConfigFromYAML читает секцию spin. Отсутствующий файл дает значения по умолчанию
func NewSpinConfigFromYAML(path string) (config.SpinConfig, error) {
	var f spinFile
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	c := f.Spin
	if c.UpDuration == 0 {
		c.UpDuration = spin.DefaultUpDuration
	}
	if c.DownDuration == 0 {
		c.DownDuration = spin.DefaultDownDuration
	}
	if c.Size == 0 {
		c.Size = spin.DefaultSize
	}
	if c.Width == 0 {
		c.Width = spin.DefaultWidth
	}
	if c.Height == 0 {
		c.Height = spin.DefaultHeight
	}
	if c.Background == "" {
		c.Background = "white"
	}
	if c.FontPoints == 0 {
		c.FontPoints = 16
	}
	if c.ButtonText == "" {
		c.ButtonText = spin.DefaultButtonText
	}
	if c.LabelMaxRunes == 0 {
		c.LabelMaxRunes = spin.DefaultLabelMaxRunes
	}
	if c.GIF.FrameStep == 0 {
		c.GIF.FrameStep = 3
	}
	if c.GIF.Delay == 0 {
		c.GIF.Delay = 40 * time.Millisecond
	}

	if c.UpDuration < 0 || c.DownDuration < 0 || c.Size < 0 || c.Width < 0 || c.Height < 0 || c.GIF.FrameStep < 0 {
		return nil, fmt.Errorf("%s: negative spin settings", path)
	}

	return &spinConfig{c: c}, nil
}

func (s *spinConfig) UpDuration() time.Duration   { return s.c.UpDuration }
func (s *spinConfig) DownDuration() time.Duration { return s.c.DownDuration }
func (s *spinConfig) Size() float64               { return s.c.Size }
func (s *spinConfig) Width() int                  { return s.c.Width }
func (s *spinConfig) Height() int                 { return s.c.Height }
func (s *spinConfig) Background() string          { return s.c.Background }
func (s *spinConfig) FontPath() string            { return s.c.FontPath }
func (s *spinConfig) FontPoints() float64         { return s.c.FontPoints }
func (s *spinConfig) Colors() []string            { return s.c.Colors }
func (s *spinConfig) ButtonText() string          { return s.c.ButtonText }
func (s *spinConfig) LabelMaxRunes() int          { return s.c.LabelMaxRunes }
func (s *spinConfig) GIFFrameStep() int           { return s.c.GIF.FrameStep }
func (s *spinConfig) GIFDelay() time.Duration     { return s.c.GIF.Delay }
