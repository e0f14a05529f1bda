package ui_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/daybegin/internal/execshell"
	"github.com/temirov/daybegin/internal/platform"
	"github.com/temirov/daybegin/internal/ui"
)

type scriptedRunner struct {
	results map[string]execshell.ExecutionResult
	failure error
}

func (runner scriptedRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	if command.Details.Label == "missing" {
		return execshell.ExecutionResult{}, runner.failure
	}
	return runner.results[command.Details.Label], nil
}

func TestCommandTallyCountsEvents(testInstance *testing.T) {
	tally := &ui.CommandTally{}
	tally.CommandStarted(execshell.CommandEvent{})
	tally.CommandCompleted(execshell.CommandEvent{Elapsed: time.Second})
	tally.CommandStarted(execshell.CommandEvent{})
	tally.CommandCompleted(execshell.CommandEvent{Result: execshell.ExecutionResult{ExitCode: 1}, Elapsed: 2 * time.Second})
	tally.CommandStarted(execshell.CommandEvent{})
	tally.CommandExecutionFailed(execshell.CommandEvent{Failure: errors.New("not found"), Elapsed: time.Millisecond})

	require.Equal(testInstance, ui.CommandTotals{Started: 3, Succeeded: 1, Failed: 2, Elapsed: 3*time.Second + time.Millisecond}, tally.Totals())
}

func TestCommandTallyObservesExecutor(testInstance *testing.T) {
	tally := &ui.CommandTally{}
	runner := scriptedRunner{
		results: map[string]execshell.ExecutionResult{"true": {}, "false": {ExitCode: 1}},
		failure: errors.New("exec: not found"),
	}
	executor, creationError := execshell.NewShellExecutorWithObserver(zap.NewNop(), runner, execshell.CommandEventObservers{ui.NewConsoleCommandEventLogger(zap.NewNop()), tally})
	require.NoError(testInstance, creationError)

	for _, commandText := range []string{"true", "false", "missing"} {
		_, _ = executor.Execute(context.Background(), platform.ShellCommand(platform.TagLinux, commandText))
	}

	totals := tally.Totals()
	require.Equal(testInstance, 3, totals.Started)
	require.Equal(testInstance, 1, totals.Succeeded)
	require.Equal(testInstance, 2, totals.Failed)
}
