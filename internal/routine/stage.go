package routine

import (
	"context"

	"github.com/temirov/daybegin/internal/gitsync"
)

const (
	// StageNameGitSync identifies the branch synchronization stage.
	StageNameGitSync = "git-sync"
	// StageNameLaunchApplications identifies the application launch stage.
	StageNameLaunchApplications = "launch-applications"
	// StageNameWaitForApplications identifies the stage that blocks on application exit.
	StageNameWaitForApplications = "wait-for-applications"
	// StageNameShellCommands identifies the shell command stage.
	StageNameShellCommands = "shell-commands"
)

// Stage is one discrete step of the routine.
type Stage interface {
	Name() string
	Enabled() bool
	Execute(executionContext context.Context) error
}

// BranchSynchronizer synchronizes a git branch.
type BranchSynchronizer interface {
	Sync(executionContext context.Context, options gitsync.Options) (gitsync.Result, error)
}

// ApplicationLauncher starts applications and waits for them.
type ApplicationLauncher interface {
	Launch(executionContext context.Context, applications []string) error
	Wait(executionContext context.Context, applications []string) error
}

// CommandListRunner executes an ordered list of shell commands.
type CommandListRunner interface {
	Run(executionContext context.Context, commands []string) (int, error)
}

// GitSyncStage synchronizes the configured branch.
type GitSyncStage struct {
	Synchronizer BranchSynchronizer
	Options      gitsync.Options
}

// Name implements Stage.
func (stage GitSyncStage) Name() string {
	return StageNameGitSync
}

// Enabled reports whether a branch is configured.
func (stage GitSyncStage) Enabled() bool {
	return len(stage.Options.BranchName) > 0
}

// Execute implements Stage.
func (stage GitSyncStage) Execute(executionContext context.Context) error {
	_, syncError := stage.Synchronizer.Sync(executionContext, stage.Options)
	return syncError
}

// LaunchApplicationsStage launches the configured applications.
type LaunchApplicationsStage struct {
	Launcher     ApplicationLauncher
	Applications []string
}

// Name implements Stage.
func (stage LaunchApplicationsStage) Name() string {
	return StageNameLaunchApplications
}

// Enabled reports whether any application is configured.
func (stage LaunchApplicationsStage) Enabled() bool {
	return len(stage.Applications) > 0
}

// Execute implements Stage.
func (stage LaunchApplicationsStage) Execute(executionContext context.Context) error {
	return stage.Launcher.Launch(executionContext, stage.Applications)
}

// WaitForApplicationsStage blocks until each configured application exits.
type WaitForApplicationsStage struct {
	Launcher     ApplicationLauncher
	Applications []string
	WaitEnabled  bool
}

// Name implements Stage.
func (stage WaitForApplicationsStage) Name() string {
	return StageNameWaitForApplications
}

// Enabled reports whether waiting was requested and applications are configured.
func (stage WaitForApplicationsStage) Enabled() bool {
	return stage.WaitEnabled && len(stage.Applications) > 0
}

// Execute implements Stage.
func (stage WaitForApplicationsStage) Execute(executionContext context.Context) error {
	return stage.Launcher.Wait(executionContext, stage.Applications)
}

// ShellCommandsStage runs the configured shell commands.
type ShellCommandsStage struct {
	Runner   CommandListRunner
	Commands []string
}

// Name implements Stage.
func (stage ShellCommandsStage) Name() string {
	return StageNameShellCommands
}

// Enabled reports whether any shell command is configured.
func (stage ShellCommandsStage) Enabled() bool {
	return len(stage.Commands) > 0
}

// Execute implements Stage.
func (stage ShellCommandsStage) Execute(executionContext context.Context) error {
	_, runError := stage.Runner.Run(executionContext, stage.Commands)
	return runError
}
