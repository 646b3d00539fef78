package cmd

import (
	"os"

	"registrar/config"

	log "github.com/sirupsen/logrus"
)

// SetupLogging configures the global logger from cfg
func SetupLogging(cfg *config.Config) {
	log.SetOutput(os.Stdout)

	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Warnf("Unknown log level %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
