package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup configures the process-wide logrus logger.
func Setup(level, format, service, environment string) *logrus.Entry {
	logrus.SetOutput(os.Stdout)

	if strings.EqualFold(format, "text") {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)

	return logrus.WithFields(logrus.Fields{
		"service":     service,
		"environment": environment,
	})
}
