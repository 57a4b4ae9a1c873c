package contract

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger. It writes to stderr so stdout stays clean for results.
var Logger = newLogger()

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

// SetLogLevel parses a logrus level name and applies it to Logger.
func SetLogLevel(level string) error {
	if level == "" {
		return nil
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid --log-level value: %w", err)
	}
	Logger.SetLevel(parsed)
	return nil
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger.WithError(err).Error(msg)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	if err != nil {
		Logger.WithError(err).Warn(msg)
		return
	}
	Logger.Warn(msg)
}

// LogDebug logs a debug message to stderr.
func LogDebug(msg string, err error) {
	if err != nil {
		Logger.WithError(err).Debug(msg)
		return
	}
	Logger.Debug(msg)
}

// StepLogger returns an entry tagged with the repository and pipeline step.
func StepLogger(owner, repo, step string) *logrus.Entry {
	return Logger.WithFields(logrus.Fields{
		"owner": owner,
		"repo":  repo,
		"step":  step,
	})
}
