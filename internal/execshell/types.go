package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	gitCommandNameConstant                  = "git"
	commandKindGitConstant                  = "git"
	commandKindShellConstant                = "shell"
	commandKindApplicationLaunchConstant    = "application_launch"
	commandKindApplicationWaitConstant      = "application_wait"
	commandEmptyMessageConstant             = "command must not be empty"
	loggerNotConfiguredMessageConstant      = "shell executor logger not configured"
	runnerNotConfiguredMessageConstant      = "shell executor command runner not configured"
	commandFailedTemplateConstant           = "%s failed with exit code %d"
	commandFailedWithOutputTemplateConstant = "%s failed with exit code %d: %s"
	commandExecutionTemplateConstant        = "%s could not be started: %v"
)

// CommandName identifies the executable invoked for a command.
type CommandName string

// CommandGit identifies the git executable.
const CommandGit CommandName = CommandName(gitCommandNameConstant)

// CommandKind classifies what a command does on behalf of the routine.
type CommandKind string

// Supported command kinds.
const (
	CommandKindGit               CommandKind = CommandKind(commandKindGitConstant)
	CommandKindShell             CommandKind = CommandKind(commandKindShellConstant)
	CommandKindApplicationLaunch CommandKind = CommandKind(commandKindApplicationLaunchConstant)
	CommandKindApplicationWait   CommandKind = CommandKind(commandKindApplicationWaitConstant)
)

// CommandDetails describes arguments and execution modifiers for a command.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
	// Label is the user-facing subject of the command: the configured shell
	// command text or application identifier.
	Label string
}

// ShellCommand couples an executable with its details.
type ShellCommand struct {
	Name    CommandName
	Kind    CommandKind
	Details CommandDetails
}

// ExecutionResult captures the observable results of executing a command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner runs a ShellCommand and reports its result. A non-zero exit
// code is reported through ExecutionResult, not through the error.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// ErrCommandEmpty indicates the command, shell text, or application identifier was blank.
var ErrCommandEmpty = errors.New(commandEmptyMessageConstant)

// ErrLoggerNotConfigured indicates the executor was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates the executor was constructed without a runner.
var ErrCommandRunnerNotConfigured = errors.New(runnerNotConfiguredMessageConstant)

// CommandFailedError reports a command that ran and exited with a non-zero code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failing command, its exit code, and captured standard error.
func (failure CommandFailedError) Error() string {
	label := describeCommand(failure.Command)
	trimmedStandardError := strings.TrimSpace(failure.Result.StandardError)
	if len(trimmedStandardError) == 0 {
		return fmt.Sprintf(commandFailedTemplateConstant, label, failure.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailedWithOutputTemplateConstant, label, failure.Result.ExitCode, trimmedStandardError)
}

// CommandExecutionError reports a command that could not be started.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the command and the underlying spawn failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionTemplateConstant, describeCommand(failure.Command), failure.Cause)
}

// Unwrap exposes the underlying spawn failure.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

func describeCommand(command ShellCommand) string {
	trimmedLabel := strings.TrimSpace(command.Details.Label)
	if len(trimmedLabel) > 0 {
		return trimmedLabel
	}
	parts := []string{string(command.Name)}
	parts = append(parts, command.Details.Arguments...)
	return strings.Join(parts, " ")
}
