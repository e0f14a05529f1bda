package applications

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/daybegin/internal/execshell"
	"github.com/temirov/daybegin/internal/platform"
)

const (
	loggerMissingMessageConstant          = "application launcher logger not configured"
	commandExecutorMissingMessageConstant = "application launcher command executor not configured"
	launchFailureTemplateConstant         = "failed to launch application %q: %w"
	waitFailureTemplateConstant           = "application %q did not exit cleanly: %w"
	launchedMessageConstant               = "application launched"
	exitedMessageConstant                 = "application exited"
	applicationFieldConstant              = "application"
	applicationPathFieldConstant          = "path"
	platformFieldConstant                 = "platform"
)

// ErrLoggerNotConfigured indicates the launcher was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerMissingMessageConstant)

// ErrCommandExecutorNotConfigured indicates the launcher was constructed without a command executor.
var ErrCommandExecutorNotConfigured = errors.New(commandExecutorMissingMessageConstant)

// CommandExecutor runs a fully described command.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// Dependencies enumerates the collaborators required by Launcher.
type Dependencies struct {
	Logger          *zap.Logger
	CommandExecutor CommandExecutor
}

// Settings describes where applications live and which platform launch form applies.
type Settings struct {
	Platform             platform.Tag
	ApplicationDirectory string
}

// Launcher starts configured applications through the platform launcher.
type Launcher struct {
	logger   *zap.Logger
	executor CommandExecutor
	settings Settings
}

// NewLauncher constructs a Launcher.
func NewLauncher(dependencies Dependencies, settings Settings) (*Launcher, error) {
	if dependencies.Logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if dependencies.CommandExecutor == nil {
		return nil, ErrCommandExecutorNotConfigured
	}
	return &Launcher{logger: dependencies.Logger, executor: dependencies.CommandExecutor, settings: settings}, nil
}

// Launch asks the platform to start each application in order and stops at the first failure.
func (launcher *Launcher) Launch(executionContext context.Context, applications []string) error {
	for _, application := range applications {
		applicationPath := launcher.ResolvePath(application)
		command := platform.ApplicationCommand(launcher.settings.Platform, application, applicationPath, false)
		if _, executionError := launcher.executor.Execute(executionContext, command); executionError != nil {
			return fmt.Errorf(launchFailureTemplateConstant, application, executionError)
		}
		launcher.logger.Info(
			launchedMessageConstant,
			zap.String(applicationFieldConstant, application),
			zap.String(applicationPathFieldConstant, applicationPath),
			zap.String(platformFieldConstant, string(launcher.settings.Platform)),
		)
	}
	return nil
}

// Wait runs the blocking launch form of each application in order and fails on the first non-zero exit.
func (launcher *Launcher) Wait(executionContext context.Context, applications []string) error {
	for _, application := range applications {
		applicationPath := launcher.ResolvePath(application)
		command := platform.ApplicationCommand(launcher.settings.Platform, application, applicationPath, true)
		if _, executionError := launcher.executor.Execute(executionContext, command); executionError != nil {
			return fmt.Errorf(waitFailureTemplateConstant, application, executionError)
		}
		launcher.logger.Info(exitedMessageConstant, zap.String(applicationFieldConstant, application))
	}
	return nil
}

// ResolvePath joins relative identifiers to the configured application directory.
func (launcher *Launcher) ResolvePath(application string) string {
	trimmedApplication := strings.TrimSpace(application)
	applicationDirectory := strings.TrimSpace(launcher.settings.ApplicationDirectory)
	if len(trimmedApplication) == 0 || len(applicationDirectory) == 0 || filepath.IsAbs(trimmedApplication) {
		return trimmedApplication
	}
	return filepath.Join(applicationDirectory, trimmedApplication)
}
