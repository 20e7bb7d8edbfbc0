// Package logger holds the process-wide structured logger. Entries go to a
// rotating file under the config directory, and to stderr too when debugging
// outside the TUI. Calls made before Init are dropped.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/wellday/internal/constants"
)

// Logger is nil until Init runs.
var Logger *log.Logger

type Config struct {
	// Debug lowers the level from warn to debug and adds caller info.
	Debug     bool
	ConfigDir string
	// Quiet keeps debug output off stderr while the TUI owns the terminal.
	Quiet bool
}

// File is where Init writes the log for a config directory.
func File(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

// Init replaces the global logger.
func Init(cfg Config) error {
	path := File(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var out io.Writer = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // MB
		MaxBackups: 3,
		MaxAge:     14,
		Compress:   true,
	}
	if cfg.Debug && !cfg.Quiet {
		out = io.MultiWriter(os.Stderr, out)
	}

	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
	}
	Logger = log.NewWithOptions(out, log.Options{
		Level:           level,
		Prefix:          constants.AppName,
		ReportTimestamp: true,
		ReportCaller:    cfg.Debug,
	})
	return nil
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
