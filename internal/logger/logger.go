package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/feedingfoundation/locator/internal/constants"
)

// Logger is the process-wide logger. It stays nil until Init runs, and every
// helper below is a no-op in that state.
var Logger *log.Logger

// Config controls where and how verbosely the locator logs.
type Config struct {
	Debug     bool
	ConfigDir string
	// Stderr, when set, receives a copy of every record in debug mode.
	// Defaults to os.Stderr.
	Stderr io.Writer
}

// Init opens the rotating log file under <ConfigDir>/logs and installs the
// global logger.
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	file := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.LogFileName),
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	}

	var w io.Writer = file
	level := log.InfoLevel
	if cfg.Debug {
		stderr := cfg.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		w = io.MultiWriter(stderr, file)
		level = log.DebugLevel
	}

	Logger = log.NewWithOptions(w, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return nil
}

// Component returns a child logger tagged with the given component name, or
// nil before Init.
func Component(name string) *log.Logger {
	if Logger == nil {
		return nil
	}
	return Logger.With("component", name)
}

func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs msg and exits with status 1, even before Init.
func Fatal(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
