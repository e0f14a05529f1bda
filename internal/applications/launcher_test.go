package applications_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/daybegin/internal/applications"
	"github.com/temirov/daybegin/internal/execshell"
	"github.com/temirov/daybegin/internal/platform"
)

type recordingExecutor struct {
	failures map[string]error
	commands []execshell.ShellCommand
}

func (executor *recordingExecutor) Execute(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	executor.commands = append(executor.commands, command)
	if failure, exists := executor.failures[command.Details.Label]; exists {
		return execshell.ExecutionResult{}, failure
	}
	return execshell.ExecutionResult{}, nil
}

func newLauncher(t *testing.T, executor *recordingExecutor, settings applications.Settings) *applications.Launcher {
	t.Helper()
	launcher, creationError := applications.NewLauncher(applications.Dependencies{Logger: zap.NewNop(), CommandExecutor: executor}, settings)
	require.NoError(t, creationError)
	return launcher
}

func TestNewLauncherValidatesDependencies(t *testing.T) {
	_, missingLogger := applications.NewLauncher(applications.Dependencies{CommandExecutor: &recordingExecutor{}}, applications.Settings{})
	require.ErrorIs(t, missingLogger, applications.ErrLoggerNotConfigured)

	_, missingExecutor := applications.NewLauncher(applications.Dependencies{Logger: zap.NewNop()}, applications.Settings{})
	require.ErrorIs(t, missingExecutor, applications.ErrCommandExecutorNotConfigured)
}

func TestResolvePath(t *testing.T) {
	testCases := []struct {
		name        string
		directory   string
		application string
		expected    string
	}{
		{name: "joined", directory: "/Applications", application: "Docker.app", expected: "/Applications/Docker.app"},
		{name: "absolute", directory: "/Applications", application: "/opt/tools/editor", expected: "/opt/tools/editor"},
		{name: "no_directory", directory: "", application: "firefox", expected: "firefox"},
		{name: "trimmed", directory: " /usr/bin ", application: " firefox ", expected: "/usr/bin/firefox"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			launcher := newLauncher(t, &recordingExecutor{}, applications.Settings{Platform: platform.TagLinux, ApplicationDirectory: testCase.directory})
			require.Equal(t, testCase.expected, launcher.ResolvePath(testCase.application))
		})
	}
}

func TestLaunchUsesPlatformLaunchFormInOrder(t *testing.T) {
	executor := &recordingExecutor{}
	launcher := newLauncher(t, executor, applications.Settings{Platform: platform.TagDarwin, ApplicationDirectory: "/Applications"})

	require.NoError(t, launcher.Launch(context.Background(), []string{"Docker.app", "Visual Studio Code.app"}))
	require.Len(t, executor.commands, 2)

	require.Equal(t, execshell.CommandName("open"), executor.commands[0].Name)
	require.Equal(t, []string{"-a", "/Applications/Docker.app"}, executor.commands[0].Details.Arguments)
	require.Equal(t, execshell.CommandKindApplicationLaunch, executor.commands[0].Kind)
	require.Equal(t, []string{"-a", "/Applications/Visual Studio Code.app"}, executor.commands[1].Details.Arguments)
}

func TestLaunchStopsAtFirstFailure(t *testing.T) {
	launchFailure := errors.New("application not found")
	executor := &recordingExecutor{failures: map[string]error{"Missing.app": launchFailure}}
	launcher := newLauncher(t, executor, applications.Settings{Platform: platform.TagDarwin, ApplicationDirectory: "/Applications"})

	launchError := launcher.Launch(context.Background(), []string{"Docker.app", "Missing.app", "Slack.app"})
	require.ErrorIs(t, launchError, launchFailure)
	require.ErrorContains(t, launchError, `failed to launch application "Missing.app"`)
	require.Len(t, executor.commands, 2)
}

func TestLaunchWithNoApplicationsRunsNothing(t *testing.T) {
	executor := &recordingExecutor{}
	launcher := newLauncher(t, executor, applications.Settings{Platform: platform.TagLinux})

	require.NoError(t, launcher.Launch(context.Background(), nil))
	require.NoError(t, launcher.Wait(context.Background(), nil))
	require.Empty(t, executor.commands)
}

func TestWaitUsesBlockingForm(t *testing.T) {
	executor := &recordingExecutor{}
	launcher := newLauncher(t, executor, applications.Settings{Platform: platform.TagLinux, ApplicationDirectory: "/usr/bin"})

	require.NoError(t, launcher.Wait(context.Background(), []string{"firefox"}))
	require.Len(t, executor.commands, 1)
	require.Equal(t, execshell.CommandName("/usr/bin/firefox"), executor.commands[0].Name)
	require.Equal(t, execshell.CommandKindApplicationWait, executor.commands[0].Kind)
}

func TestWaitFailsOnNonZeroExit(t *testing.T) {
	exitFailure := execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: "/usr/bin/firefox", Kind: execshell.CommandKindApplicationWait, Details: execshell.CommandDetails{Label: "firefox"}},
		Result:  execshell.ExecutionResult{ExitCode: 3},
	}
	executor := &recordingExecutor{failures: map[string]error{"firefox": exitFailure}}
	launcher := newLauncher(t, executor, applications.Settings{Platform: platform.TagLinux, ApplicationDirectory: "/usr/bin"})

	waitError := launcher.Wait(context.Background(), []string{"firefox", "thunderbird"})

	var failedError execshell.CommandFailedError
	require.ErrorAs(t, waitError, &failedError)
	require.Equal(t, 3, failedError.Result.ExitCode)
	require.Len(t, executor.commands, 1)
}

func TestLaunchWithOperatingSystemRunnerReportsMissingExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("the detached launch form requires a POSIX shell")
	}
	applicationDirectory := t.TempDir()
	scriptPath := filepath.Join(applicationDirectory, "morning-tool")
	require.NoError(t, os.WriteFile(scriptPath, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	notExecutablePath := filepath.Join(applicationDirectory, "notes.txt")
	require.NoError(t, os.WriteFile(notExecutablePath, []byte("notes"), 0o644))

	executor, executorError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	require.NoError(t, executorError)
	launcher, launcherError := applications.NewLauncher(
		applications.Dependencies{Logger: zap.NewNop(), CommandExecutor: executor},
		applications.Settings{Platform: platform.TagLinux, ApplicationDirectory: applicationDirectory},
	)
	require.NoError(t, launcherError)

	testCases := []struct {
		name          string
		applications  []string
		expectedError string
	}{
		{name: "executable_in_directory", applications: []string{"morning-tool"}},
		{name: "absolute_path", applications: []string{"/bin/sh"}},
		{name: "missing_file", applications: []string{"definitely-not-installed-daybegin", "morning-tool"}, expectedError: `failed to launch application "definitely-not-installed-daybegin"`},
		{name: "not_executable", applications: []string{"notes.txt"}, expectedError: `failed to launch application "notes.txt"`},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			launchError := launcher.Launch(context.Background(), testCase.applications)
			if len(testCase.expectedError) == 0 {
				require.NoError(t, launchError)
				return
			}
			require.ErrorContains(t, launchError, testCase.expectedError)
			var commandFailure execshell.CommandFailedError
			require.ErrorAs(t, launchError, &commandFailure)
			require.Equal(t, 127, commandFailure.Result.ExitCode)
		})
	}
}
