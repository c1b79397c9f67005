package common

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/lni/dragonboat/v4/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerNames lists the loggers used by techlog packages.
var LoggerNames = []string{"store", "persist", "session", "cli"}

var factoryOnce sync.Once

// --------------------------------------------------------------------------
// Custom Logger (implements dragonboats logger.ILogger)
// --------------------------------------------------------------------------

// techlogLogger implements the ILogger interface on top of a zap logger
type techlogLogger struct {
	level logger.LogLevel
	sugar *zap.SugaredLogger
}

func (l *techlogLogger) SetLevel(level logger.LogLevel) {
	l.level = level
}

func (l *techlogLogger) Debugf(format string, args ...interface{}) {
	if l.level >= logger.DEBUG {
		l.sugar.Debugf(format, args...)
	}
}

func (l *techlogLogger) Infof(format string, args ...interface{}) {
	if l.level >= logger.INFO {
		l.sugar.Infof(format, args...)
	}
}

func (l *techlogLogger) Warningf(format string, args ...interface{}) {
	if l.level >= logger.WARNING {
		l.sugar.Warnf(format, args...)
	}
}

func (l *techlogLogger) Errorf(format string, args ...interface{}) {
	if l.level >= logger.ERROR {
		l.sugar.Errorf(format, args...)
	}
}

func (l *techlogLogger) Panicf(format string, args ...interface{}) {
	if l.level >= logger.CRITICAL {
		l.sugar.Panicf(format, args...)
	}
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// NewLoggerFactory returns a logger factory writing to out.
// Level filtering is done by the ILogger, the zap core accepts everything.
func NewLoggerFactory(out zapcore.WriteSyncer) logger.Factory {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(out), zapcore.DebugLevel)
	base := zap.New(core)

	return func(pkgName string) logger.ILogger {
		return &techlogLogger{
			level: logger.INFO,
			sugar: base.Named(pkgName).Sugar(),
		}
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// ParseLogLevel converts a string level to logger.LogLevel
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG, nil
	case "info":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return logger.INFO, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// InitLoggers installs the zap backed logger factory and applies the configured level
func InitLoggers(config Config) error {
	level, err := ParseLogLevel(config.LogLevel)
	if err != nil {
		return err
	}

	factoryOnce.Do(func() {
		logger.SetLoggerFactory(NewLoggerFactory(zapcore.AddSync(os.Stderr)))
	})

	for _, name := range LoggerNames {
		logger.GetLogger(name).SetLevel(level)
	}
	return nil
}
