package ui

import (
	"go.uber.org/zap"

	"github.com/temirov/daybegin/internal/execshell"
)

const (
	elapsedFieldConstant = "elapsed"
)

// ConsoleCommandEventLogger writes one readable log line per command lifecycle event.
// Finished commands log at info, non-zero exits at warn, and spawn failures at error.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

// NewConsoleCommandEventLogger constructs an event logger writing to logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger}
}

// CommandStarted implements execshell.CommandEventObserver by logging the start message at info.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(event execshell.CommandEvent) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildStartedMessage(event.Command))
}

// CommandCompleted implements execshell.CommandEventObserver by logging success at info and a non-zero exit at warn.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(event execshell.CommandEvent) {
	if eventLogger == nil {
		return
	}
	elapsedField := zap.Duration(elapsedFieldConstant, event.Elapsed)
	if event.Result.ExitCode != 0 {
		eventLogger.logger.Warn(eventLogger.formatter.BuildFailureMessage(event.Command, event.Result), elapsedField)
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildSuccessMessage(event.Command, event.Result), elapsedField)
}

// CommandExecutionFailed implements execshell.CommandEventObserver by logging the spawn failure at error.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(event execshell.CommandEvent) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildExecutionFailureMessage(event.Command, event.Failure), zap.Duration(elapsedFieldConstant, event.Elapsed))
}
