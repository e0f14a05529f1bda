package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	unsupportedLogLevelTemplate  = "unsupported log level: %s"
	unsupportedLogFormatTemplate = "unsupported log format: %s"
	consoleTimestampLayout       = "15:04:05"
)

// LogLevel names a logging threshold accepted by the CLI and configuration.
type LogLevel string

// Supported log levels.
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat names a log encoding.
type LogFormat string

// Supported log formats. Console is human-oriented; structured emits JSON lines.
const (
	LogFormatStructured LogFormat = "structured"
	LogFormatConsole    LogFormat = "console"
)

var zapLevels = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

var encoderBuilders = map[LogFormat]func() zapcore.Encoder{
	LogFormatStructured: func() zapcore.Encoder {
		return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	},
	LogFormatConsole: newConsoleEncoder,
}

// LoggerFactory creates loggers that share one output sink.
type LoggerFactory struct {
	sink zapcore.WriteSyncer
}

// NewLoggerFactory returns a factory writing to standard error.
func NewLoggerFactory() *LoggerFactory {
	return NewLoggerFactoryWithOutput(os.Stderr)
}

// NewLoggerFactoryWithOutput returns a factory writing to output, or to standard error when output is nil.
func NewLoggerFactoryWithOutput(output io.Writer) *LoggerFactory {
	if output == nil {
		output = os.Stderr
	}
	return &LoggerFactory{sink: zapcore.Lock(zapcore.AddSync(output))}
}

// CreateLogger builds a logger for the given level and format. Both are matched case-insensitively.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	level, levelKnown := zapLevels[LogLevel(normalizeName(string(requestedLogLevel)))]
	if !levelKnown {
		return nil, fmt.Errorf(unsupportedLogLevelTemplate, requestedLogLevel)
	}
	buildEncoder, formatKnown := encoderBuilders[LogFormat(normalizeName(string(requestedLogFormat)))]
	if !formatKnown {
		return nil, fmt.Errorf(unsupportedLogFormatTemplate, requestedLogFormat)
	}
	return zap.New(zapcore.NewCore(buildEncoder(), factory.sink, level)), nil
}

func newConsoleEncoder() zapcore.Encoder {
	encoderConfiguration := zap.NewDevelopmentEncoderConfig()
	encoderConfiguration.EncodeTime = zapcore.TimeEncoderOfLayout(consoleTimestampLayout)
	encoderConfiguration.CallerKey = zapcore.OmitKey
	encoderConfiguration.EncodeCaller = nil
	return zapcore.NewConsoleEncoder(encoderConfiguration)
}

func normalizeName(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// SyncLogger flushes logger. Terminals reject fsync with ENOTSUP or EINVAL; those are not reported.
func SyncLogger(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}
	syncError := logger.Sync()
	if errors.Is(syncError, syscall.ENOTSUP) || errors.Is(syncError, syscall.EINVAL) {
		return nil
	}
	return syncError
}
