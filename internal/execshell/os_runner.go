package execshell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"maps"
	"os"
	"os/exec"
	"slices"
	"strings"
)

const (
	environmentAssignmentSeparatorConstant = "="
)

// OSCommandRunner starts commands as child processes with os/exec.
type OSCommandRunner struct {
	standardOutputStream io.Writer
	standardErrorStream  io.Writer
	baseEnvironment      func() []string
}

// OSCommandRunnerOption customizes an OSCommandRunner.
type OSCommandRunnerOption func(*OSCommandRunner)

// WithOutputStreams copies child output to the given writers while it is still captured.
// A nil writer leaves that stream captured only.
func WithOutputStreams(standardOutputStream io.Writer, standardErrorStream io.Writer) OSCommandRunnerOption {
	return func(runner *OSCommandRunner) {
		runner.standardOutputStream = standardOutputStream
		runner.standardErrorStream = standardErrorStream
	}
}

// NewOSCommandRunner constructs a runner that inherits the process environment.
func NewOSCommandRunner(options ...OSCommandRunnerOption) *OSCommandRunner {
	runner := &OSCommandRunner{baseEnvironment: os.Environ}
	for _, option := range options {
		if option != nil {
			option(runner)
		}
	}
	return runner
}

// Run starts the command and waits for it.
//
// A process that exits with any status yields a result and a nil error; only
// failures to start or wait surface as errors.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	process := exec.CommandContext(executionContext, string(command.Name), command.Details.Arguments...)
	process.Dir = command.Details.WorkingDirectory
	process.Env = runner.environmentFor(command.Details.EnvironmentVariables)
	if len(command.Details.StandardInput) > 0 {
		process.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	var capturedOutput, capturedError bytes.Buffer
	process.Stdout = tee(&capturedOutput, runner.standardOutputStream)
	process.Stderr = tee(&capturedError, runner.standardErrorStream)

	runError := process.Run()
	result := ExecutionResult{StandardOutput: capturedOutput.String(), StandardError: capturedError.String()}
	if runError == nil {
		return result, nil
	}

	var exitError *exec.ExitError
	if !errors.As(runError, &exitError) {
		return ExecutionResult{}, runError
	}
	result.ExitCode = exitError.ExitCode()
	return result, nil
}

// environmentFor returns nil (inherit) without overrides; otherwise the base
// environment with overridden keys replaced, followed by the overrides in key order.
func (runner *OSCommandRunner) environmentFor(overrides map[string]string) []string {
	if len(overrides) == 0 {
		return nil
	}

	environment := make([]string, 0, len(overrides))
	for _, assignment := range runner.baseEnvironment() {
		name, _, _ := strings.Cut(assignment, environmentAssignmentSeparatorConstant)
		if _, overridden := overrides[name]; overridden {
			continue
		}
		environment = append(environment, assignment)
	}
	for _, name := range slices.Sorted(maps.Keys(overrides)) {
		environment = append(environment, name+environmentAssignmentSeparatorConstant+overrides[name])
	}
	return environment
}

func tee(capture *bytes.Buffer, stream io.Writer) io.Writer {
	if stream == nil {
		return capture
	}
	return io.MultiWriter(capture, stream)
}
