package util

import (
	"os"

	log "github.com/sirupsen/logrus"
)

func init() {
	SetupLogging(false, false)
}

// SetupLogging sends log messages to stderr without timestamps. Debug
// messages (including every external command run) are shown when verbose
// is set; only warnings and errors when quiet is set.
func SetupLogging(verbose, quiet bool) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
	})
	switch {
	case verbose:
		log.SetLevel(log.DebugLevel)
	case quiet:
		log.SetLevel(log.WarnLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

func Verbosef(format string, v ...interface{}) {
	log.Debugf(format, v...)
}
