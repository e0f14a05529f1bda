package routine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/daybegin/internal/gitsync"
)

const (
	stageExecutionErrorTemplateConstant = "stage %s failed: %w"
	loggerMissingMessageConstant        = "routine logger not configured"
	stageSkippedMessageConstant         = "stage skipped"
	stageStartedMessageConstant         = "stage started"
	stageCompletedMessageConstant       = "stage completed"
	stageFieldConstant                  = "stage"
)

// ErrLoggerNotConfigured indicates the orchestrator was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerMissingMessageConstant)

// Summary lists the stages a run executed and skipped, in order.
type Summary struct {
	ExecutedStages []string
	SkippedStages  []string
}

// Orchestrator runs stages sequentially and halts at the first failure.
type Orchestrator struct {
	logger *zap.Logger
	stages []Stage
}

// NewOrchestrator constructs an Orchestrator for the provided stages.
func NewOrchestrator(logger *zap.Logger, stages []Stage) (*Orchestrator, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	return &Orchestrator{logger: logger, stages: append([]Stage{}, stages...)}, nil
}

// Run executes every enabled stage in order.
func (orchestrator *Orchestrator) Run(executionContext context.Context) (Summary, error) {
	summary := Summary{ExecutedStages: []string{}, SkippedStages: []string{}}
	for stageIndex := range orchestrator.stages {
		stage := orchestrator.stages[stageIndex]
		if stage == nil {
			continue
		}
		if !stage.Enabled() {
			orchestrator.logger.Info(stageSkippedMessageConstant, zap.String(stageFieldConstant, stage.Name()))
			summary.SkippedStages = append(summary.SkippedStages, stage.Name())
			continue
		}

		orchestrator.logger.Debug(stageStartedMessageConstant, zap.String(stageFieldConstant, stage.Name()))
		summary.ExecutedStages = append(summary.ExecutedStages, stage.Name())
		if executeError := stage.Execute(executionContext); executeError != nil {
			return summary, fmt.Errorf(stageExecutionErrorTemplateConstant, stage.Name(), executeError)
		}
		orchestrator.logger.Debug(stageCompletedMessageConstant, zap.String(stageFieldConstant, stage.Name()))
	}
	return summary, nil
}

// Plan describes what a daily routine should do.
type Plan struct {
	RepositoryPath      string
	BranchName          string
	RemoteName          string
	RebasePolicy        gitsync.RebasePolicy
	Applications        []string
	WaitForApplications bool
	ShellCommands       []string
}

// Dependencies enumerates the services the daily routine stages delegate to.
type Dependencies struct {
	Synchronizer BranchSynchronizer
	Launcher     ApplicationLauncher
	Runner       CommandListRunner
}

// NewDailyRoutine builds the git sync, launch, wait, and shell command stages in that order.
func NewDailyRoutine(logger *zap.Logger, dependencies Dependencies, plan Plan) (*Orchestrator, error) {
	applications := append([]string{}, plan.Applications...)
	stages := []Stage{
		GitSyncStage{
			Synchronizer: dependencies.Synchronizer,
			Options: gitsync.Options{
				RepositoryPath: plan.RepositoryPath,
				BranchName:     strings.TrimSpace(plan.BranchName),
				RemoteName:     plan.RemoteName,
				RebasePolicy:   plan.RebasePolicy,
			},
		},
		LaunchApplicationsStage{Launcher: dependencies.Launcher, Applications: applications},
		WaitForApplicationsStage{Launcher: dependencies.Launcher, Applications: applications, WaitEnabled: plan.WaitForApplications},
		ShellCommandsStage{Runner: dependencies.Runner, Commands: append([]string{}, plan.ShellCommands...)},
	}
	return NewOrchestrator(logger, stages)
}

