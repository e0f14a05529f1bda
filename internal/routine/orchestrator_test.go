package routine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/daybegin/internal/gitsync"
)

type recordingStage struct {
	name      string
	enabled   bool
	failure   error
	execution *[]string
}

func (stage recordingStage) Name() string {
	return stage.name
}

func (stage recordingStage) Enabled() bool {
	return stage.enabled
}

func (stage recordingStage) Execute(context.Context) error {
	*stage.execution = append(*stage.execution, stage.name)
	return stage.failure
}

type stubSynchronizer struct {
	calls   *[]string
	options []gitsync.Options
	failure error
}

func (synchronizer *stubSynchronizer) Sync(_ context.Context, options gitsync.Options) (gitsync.Result, error) {
	*synchronizer.calls = append(*synchronizer.calls, "sync")
	synchronizer.options = append(synchronizer.options, options)
	return gitsync.Result{}, synchronizer.failure
}

type stubLauncher struct {
	calls         *[]string
	launchFailure error
	waitFailure   error
}

func (launcher *stubLauncher) Launch(context.Context, []string) error {
	*launcher.calls = append(*launcher.calls, "launch")
	return launcher.launchFailure
}

func (launcher *stubLauncher) Wait(context.Context, []string) error {
	*launcher.calls = append(*launcher.calls, "wait")
	return launcher.waitFailure
}

type stubCommandRunner struct {
	calls    *[]string
	commands []string
	failure  error
}

func (runner *stubCommandRunner) Run(_ context.Context, commands []string) (int, error) {
	*runner.calls = append(*runner.calls, "shell")
	runner.commands = commands
	return len(commands), runner.failure
}

func TestNewOrchestratorRequiresLogger(t *testing.T) {
	orchestrator, creationError := NewOrchestrator(nil, nil)
	require.ErrorIs(t, creationError, ErrLoggerNotConfigured)
	require.Nil(t, orchestrator)
}

func TestOrchestratorRunsEnabledStagesInOrder(t *testing.T) {
	executed := []string{}
	core, logs := observer.New(zapcore.InfoLevel)
	orchestrator, creationError := NewOrchestrator(zap.New(core), []Stage{
		recordingStage{name: "first", enabled: true, execution: &executed},
		recordingStage{name: "second", enabled: false, execution: &executed},
		nil,
		recordingStage{name: "third", enabled: true, execution: &executed},
	})
	require.NoError(t, creationError)

	summary, runError := orchestrator.Run(context.Background())
	require.NoError(t, runError)
	require.Equal(t, []string{"first", "third"}, executed)
	require.Equal(t, Summary{ExecutedStages: []string{"first", "third"}, SkippedStages: []string{"second"}}, summary)

	skippedLogs := logs.FilterMessage(stageSkippedMessageConstant).All()
	require.Len(t, skippedLogs, 1)
	require.Equal(t, "second", skippedLogs[0].ContextMap()[stageFieldConstant])
}

func TestOrchestratorHaltsOnFirstFailure(t *testing.T) {
	executed := []string{}
	stageFailure := errors.New("exit status 2")
	orchestrator, creationError := NewOrchestrator(zap.NewNop(), []Stage{
		recordingStage{name: "first", enabled: true, execution: &executed},
		recordingStage{name: "second", enabled: true, failure: stageFailure, execution: &executed},
		recordingStage{name: "third", enabled: true, execution: &executed},
	})
	require.NoError(t, creationError)

	summary, runError := orchestrator.Run(context.Background())
	require.ErrorIs(t, runError, stageFailure)
	require.EqualError(t, runError, "stage second failed: exit status 2")
	require.Equal(t, []string{"first", "second"}, executed)
	require.Equal(t, []string{"first", "second"}, summary.ExecutedStages)
}

func TestDailyRoutineStageSelection(t *testing.T) {
	testCases := []struct {
		name          string
		plan          Plan
		expectedCalls []string
		expectedSkips []string
	}{
		{
			name:          "everything_configured",
			plan:          Plan{BranchName: "feature", Applications: []string{"Docker.app"}, WaitForApplications: true, ShellCommands: []string{"make build"}},
			expectedCalls: []string{"sync", "launch", "wait", "shell"},
			expectedSkips: []string{},
		},
		{
			name:          "no_branch_no_wait",
			plan:          Plan{Applications: []string{"Docker.app"}, ShellCommands: []string{"make build"}},
			expectedCalls: []string{"launch", "shell"},
			expectedSkips: []string{StageNameGitSync, StageNameWaitForApplications},
		},
		{
			name:          "wait_without_applications",
			plan:          Plan{BranchName: "  ", WaitForApplications: true},
			expectedCalls: []string{},
			expectedSkips: []string{StageNameGitSync, StageNameLaunchApplications, StageNameWaitForApplications, StageNameShellCommands},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			calls := []string{}
			orchestrator, creationError := NewDailyRoutine(zap.NewNop(), Dependencies{
				Synchronizer: &stubSynchronizer{calls: &calls},
				Launcher:     &stubLauncher{calls: &calls},
				Runner:       &stubCommandRunner{calls: &calls},
			}, testCase.plan)
			require.NoError(t, creationError)

			summary, runError := orchestrator.Run(context.Background())
			require.NoError(t, runError)
			require.Equal(t, testCase.expectedCalls, calls)
			require.Equal(t, testCase.expectedSkips, summary.SkippedStages)
		})
	}
}

func TestDailyRoutinePassesPlanToServices(t *testing.T) {
	calls := []string{}
	synchronizer := &stubSynchronizer{calls: &calls}
	runner := &stubCommandRunner{calls: &calls}
	orchestrator, creationError := NewDailyRoutine(zap.NewNop(), Dependencies{
		Synchronizer: synchronizer,
		Launcher:     &stubLauncher{calls: &calls},
		Runner:       runner,
	}, Plan{
		RepositoryPath: "/work/project",
		BranchName:     "feature",
		RemoteName:     "upstream",
		RebasePolicy:   gitsync.RebasePolicyNever,
		ShellCommands:  []string{"true", "false"},
	})
	require.NoError(t, creationError)

	_, runError := orchestrator.Run(context.Background())
	require.NoError(t, runError)
	require.Equal(t, []gitsync.Options{{RepositoryPath: "/work/project", BranchName: "feature", RemoteName: "upstream", RebasePolicy: gitsync.RebasePolicyNever}}, synchronizer.options)
	require.Equal(t, []string{"true", "false"}, runner.commands)
}

func TestDailyRoutineStopsAfterFailedStage(t *testing.T) {
	testCases := []struct {
		name          string
		synchronizer  error
		launch        error
		wait          error
		shell         error
		expectedCalls []string
		expectedStage string
	}{
		{name: "git_sync", synchronizer: errors.New("pull failed"), expectedCalls: []string{"sync"}, expectedStage: StageNameGitSync},
		{name: "launch", launch: errors.New("not found"), expectedCalls: []string{"sync", "launch"}, expectedStage: StageNameLaunchApplications},
		{name: "wait", wait: errors.New("exit 1"), expectedCalls: []string{"sync", "launch", "wait"}, expectedStage: StageNameWaitForApplications},
		{name: "shell", shell: errors.New("exit 2"), expectedCalls: []string{"sync", "launch", "wait", "shell"}, expectedStage: StageNameShellCommands},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			calls := []string{}
			orchestrator, creationError := NewDailyRoutine(zap.NewNop(), Dependencies{
				Synchronizer: &stubSynchronizer{calls: &calls, failure: testCase.synchronizer},
				Launcher:     &stubLauncher{calls: &calls, launchFailure: testCase.launch, waitFailure: testCase.wait},
				Runner:       &stubCommandRunner{calls: &calls, failure: testCase.shell},
			}, Plan{BranchName: "feature", Applications: []string{"Docker.app"}, WaitForApplications: true, ShellCommands: []string{"make"}})
			require.NoError(t, creationError)

			_, runError := orchestrator.Run(context.Background())
			require.Error(t, runError)
			require.ErrorContains(t, runError, "stage "+testCase.expectedStage+" failed")
			require.Equal(t, testCase.expectedCalls, calls)
		})
	}
}
