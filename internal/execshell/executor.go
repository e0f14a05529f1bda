package execshell

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	commandStartedLogMessageConstant   = "command started"
	commandCompletedLogMessageConstant = "command completed"
	commandFailedLogMessageConstant    = "command failed"
	commandSpawnLogMessageConstant     = "command could not be started"
	logFieldCommandNameConstant        = "command_name"
	logFieldCommandKindConstant        = "command_kind"
	logFieldArgumentsConstant          = "arguments"
	logFieldWorkingDirectoryConstant   = "working_directory"
	logFieldExitCodeConstant           = "exit_code"
	logFieldStandardOutputConstant     = "stdout"
	logFieldStandardErrorConstant      = "stderr"
	logFieldElapsedConstant            = "elapsed"
)

// ShellExecutor validates, runs, and logs external commands.
type ShellExecutor struct {
	logger   *zap.Logger
	runner   CommandRunner
	observer CommandEventObserver
	clock    func() time.Time
}

// NewShellExecutor constructs a ShellExecutor that does not report lifecycle events.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	return NewShellExecutorWithObserver(logger, runner, nil)
}

// NewShellExecutorWithObserver constructs a ShellExecutor that reports lifecycle events to observer.
func NewShellExecutorWithObserver(logger *zap.Logger, runner CommandRunner, observer CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	if observer == nil {
		observer = CommandEventObservers{}
	}
	return &ShellExecutor{logger: logger, runner: runner, observer: observer, clock: time.Now}, nil
}

// Execute runs the command and classifies the outcome.
//
// Blank input fails with ErrCommandEmpty before the runner is called. A
// non-zero exit yields CommandFailedError; a spawn failure yields
// CommandExecutionError.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if validationError := validateCommand(command); validationError != nil {
		return ExecutionResult{}, validationError
	}

	commandFields := []zap.Field{
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.String(logFieldCommandKindConstant, string(command.Kind)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	}

	executor.logger.Debug(commandStartedLogMessageConstant, commandFields...)
	executor.observer.CommandStarted(CommandEvent{Command: command})

	startedAt := executor.clock()
	executionResult, runError := executor.runner.Run(executionContext, command)
	elapsed := executor.clock().Sub(startedAt)

	if runError != nil {
		executor.logger.Debug(commandSpawnLogMessageConstant, append(commandFields, zap.Duration(logFieldElapsedConstant, elapsed), zap.Error(runError))...)
		executor.observer.CommandExecutionFailed(CommandEvent{Command: command, Failure: runError, Elapsed: elapsed})
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	resultFields := append(commandFields,
		zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
		zap.Duration(logFieldElapsedConstant, elapsed),
		zap.String(logFieldStandardOutputConstant, strings.TrimSpace(executionResult.StandardOutput)),
		zap.String(logFieldStandardErrorConstant, strings.TrimSpace(executionResult.StandardError)),
	)

	executor.observer.CommandCompleted(CommandEvent{Command: command, Result: executionResult, Elapsed: elapsed})
	if executionResult.ExitCode != 0 {
		executor.logger.Debug(commandFailedLogMessageConstant, resultFields...)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Debug(commandCompletedLogMessageConstant, resultFields...)
	return executionResult, nil
}

// ExecuteGit runs git with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Kind: CommandKindGit, Details: details})
}

func validateCommand(command ShellCommand) error {
	if len(strings.TrimSpace(string(command.Name))) == 0 {
		return ErrCommandEmpty
	}
	switch command.Kind {
	case CommandKindShell, CommandKindApplicationLaunch, CommandKindApplicationWait:
		if len(strings.TrimSpace(command.Details.Label)) == 0 {
			return ErrCommandEmpty
		}
	}
	return nil
}
