package logger

import (
	"os"

	logger "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

var L = &logger.Logger{
	Out:   os.Stderr,
	Level: logger.InfoLevel,
	Hooks: make(logger.LevelHooks),
	Formatter: &prefixed.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
	},
}

// SetLevel parses level ("debug", "info", ...) and applies it to L.
// Unknown levels leave L untouched and return the parse error.
func SetLevel(level string) error {
	lvl, err := logger.ParseLevel(level)
	if err != nil {
		return err
	}
	L.SetLevel(lvl)
	return nil
}

// Component returns an entry prefixed with the component name.
func Component(name string) *logger.Entry {
	return L.WithField("prefix", name)
}
