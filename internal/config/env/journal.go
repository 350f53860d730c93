package env

import (
	"os"

	"spinny_backend/internal/config"
)

const journalDirEnvName = "JOURNAL_DIR"

type journalConfig struct {
	dir string
}

// NewJournalConfig - пустой каталог выключает журнал событий
func NewJournalConfig() (config.JournalConfig, error) {
	return &journalConfig{dir: os.Getenv(journalDirEnvName)}, nil
}

func (c *journalConfig) Dir() string {
	return c.dir
}
