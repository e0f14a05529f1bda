package shellcommands

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/daybegin/internal/execshell"
	"github.com/temirov/daybegin/internal/platform"
)

const (
	loggerMissingMessageConstant          = "shell command runner logger not configured"
	commandExecutorMissingMessageConstant = "shell command runner command executor not configured"
	commandFailureTemplateConstant        = "shell command %d of %d (%q) failed: %w"
	commandsCompletedMessageConstant      = "shell commands completed"
	executedCountFieldConstant            = "executed"
	workingDirectoryFieldConstant         = "working_directory"
)

// ErrLoggerNotConfigured indicates the runner was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerMissingMessageConstant)

// ErrCommandExecutorNotConfigured indicates the runner was constructed without a command executor.
var ErrCommandExecutorNotConfigured = errors.New(commandExecutorMissingMessageConstant)

// CommandExecutor runs a fully described command.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// Runner executes an ordered list of shell command strings through the platform shell.
type Runner struct {
	logger           *zap.Logger
	executor         CommandExecutor
	platformTag      platform.Tag
	workingDirectory string
}

// NewRunner constructs a Runner that executes commands in workingDirectory.
func NewRunner(logger *zap.Logger, executor CommandExecutor, platformTag platform.Tag, workingDirectory string) (*Runner, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if executor == nil {
		return nil, ErrCommandExecutorNotConfigured
	}
	return &Runner{logger: logger, executor: executor, platformTag: platformTag, workingDirectory: workingDirectory}, nil
}

// Run executes commands in order, stopping at the first failure, and reports how many ran.
func (runner *Runner) Run(executionContext context.Context, commands []string) (int, error) {
	executedCount := 0
	for commandIndex, commandText := range commands {
		command := platform.ShellCommand(runner.platformTag, commandText)
		command.Details.WorkingDirectory = runner.workingDirectory

		executedCount++
		if _, executionError := runner.executor.Execute(executionContext, command); executionError != nil {
			return executedCount, fmt.Errorf(commandFailureTemplateConstant, commandIndex+1, len(commands), command.Details.Label, executionError)
		}
	}

	runner.logger.Info(
		commandsCompletedMessageConstant,
		zap.Int(executedCountFieldConstant, executedCount),
		zap.String(workingDirectoryFieldConstant, runner.workingDirectory),
	)
	return executedCount, nil
}
