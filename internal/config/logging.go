package config

import (
	"fmt"

	nested "github.com/antonfisher/nested-logrus-formatter"
	log "github.com/sirupsen/logrus"
)

// SetupLogging configures the global logger from the log settings.
func SetupLogging(c LogConfig) error {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}

	log.SetLevel(level)
	log.SetFormatter(&nested.Formatter{
		HideKeys:        true,
		FieldsOrder:     []string{"module", "source", "request_id"},
		TimestampFormat: "2006-01-02 15:04:05",
		NoColors:        c.NoColors,
	})

	return nil
}
