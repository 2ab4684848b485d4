// Package logrus adapts a logrus logger to cryptofolio.Logger.
package logrus

import (
	"fmt"
	"io"

	"github.com/etnz/cryptofolio"
	"github.com/sirupsen/logrus"
)

type wrapper struct {
	*logrus.Entry
}

func (w *wrapper) WithField(key string, value interface{}) cryptofolio.Logger {
	return &wrapper{w.Entry.WithField(key, value)}
}

func (w *wrapper) WithFields(fields map[string]interface{}) cryptofolio.Logger {
	return &wrapper{w.Entry.WithFields(fields)}
}

// ConfigureStandardLogger sets up the logrus standard logger and returns it.
//
// format is "json" or "text", level any level logrus can parse. Logs go to out,
// the command output is kept apart on stdout.
func ConfigureStandardLogger(out io.Writer, format, level string) (cryptofolio.Logger, error) {
	fieldMap := logrus.FieldMap{
		logrus.FieldKeyLevel: "severity",
		logrus.FieldKeyMsg:   "message",
	}

	if format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{
			FieldMap: fieldMap,
		})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			FieldMap:      fieldMap,
		})
	}

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("could not parse log level: %w", err)
	}
	logrus.SetLevel(logLevel)
	logrus.SetOutput(out)

	return &wrapper{
		logrus.StandardLogger().WithFields(map[string]interface{}{}),
	}, nil
}
