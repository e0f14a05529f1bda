package gitsync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/daybegin/internal/execshell"
	"github.com/temirov/daybegin/internal/prompt"
)

const (
	gitExecutorMissingMessageConstant           = "git executor not configured"
	confirmationPrompterMissingMessageConstant  = "confirmation prompter not configured"
	unknownRebasePolicyTemplateConstant         = "unknown rebase policy %q"
	currentBranchFailureTemplateConstant        = "failed to determine current branch in %s: %w"
	pullFailureTemplateConstant                 = "failed to pull branch %q from %s: %w"
	updateFailureTemplateConstant               = "failed to update branch %q from %s: %w"
	rebaseConfirmationFailureTemplateConstant   = "failed to confirm rebase of branch %q: %w"
	defaultBranchFailureTemplateConstant        = "failed to determine default branch of %s: %w"
	statusFailureTemplateConstant               = "failed to inspect worktree of branch %q: %w"
	stashConfirmationFailureTemplateConstant    = "failed to confirm stash for branch %q: %w"
	stashPushFailureTemplateConstant            = "failed to stash changes on branch %q: %w"
	rebaseFailureTemplateConstant               = "failed to rebase branch %q onto %q: %w"
	stashPopFailureTemplateConstant             = "failed to restore stashed changes on branch %q: %w"
	rebasePromptTemplateConstant                = "Rebase %s onto %s?"
	stashPromptTemplateConstant                 = "Branch %s has uncommitted changes. Stash them before rebasing?"
	defaultRemoteNameConstant                   = "origin"
	remoteHeadReferenceTemplateConstant         = "refs/remotes/%s/HEAD"
	remoteReferencePrefixTemplateConstant       = "refs/remotes/%s/"
	remoteTrackingBranchTemplateConstant        = "%s/%s"
	fastForwardRefspecTemplateConstant          = "%s:%s"
	gitRevParseSubcommandConstant               = "rev-parse"
	gitAbbreviatedReferenceFlagConstant         = "--abbrev-ref"
	gitHeadReferenceConstant                    = "HEAD"
	gitFetchSubcommandConstant                  = "fetch"
	gitPullSubcommandConstant                   = "pull"
	gitSymbolicReferenceSubcommandConstant      = "symbolic-ref"
	gitStatusSubcommandConstant                 = "status"
	gitPorcelainFlagConstant                    = "--porcelain"
	gitStashSubcommandConstant                  = "stash"
	gitStashPushActionConstant                  = "push"
	gitStashPopActionConstant                   = "pop"
	gitIncludeUntrackedFlagConstant             = "--include-untracked"
	gitRebaseSubcommandConstant                 = "rebase"
	gitRebaseAbortFlagConstant                  = "--abort"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	skippedNoBranchMessageConstant              = "git sync skipped: no branch configured"
	currentBranchMessageConstant                = "current git branch"
	fetchWarningMessageConstant                 = "git fetch failed, continuing with local state"
	defaultFetchWarningMessageConstant          = "git fetch of default branch failed, rebasing onto last known state"
	branchNotCheckedOutMessageConstant          = "branch is not checked out, updated without checkout; rebase skipped"
	rebaseDisabledMessageConstant               = "rebase skipped by policy"
	rebaseDeclinedMessageConstant               = "rebase declined"
	rebaseOnDefaultBranchMessageConstant        = "rebase skipped: branch is the default branch"
	stashDeclinedMessageConstant                = "rebase skipped: commit or stash your changes manually, then rebase"
	rebaseCompletedMessageConstant              = "rebase completed"
	rebaseAbortWarningMessageConstant           = "git rebase --abort failed"
	stashRestoreWarningMessageConstant          = "failed to restore stashed changes after rebase failure"
	syncCompletedMessageConstant                = "git sync completed"
	repositoryPathFieldConstant                 = "repository_path"
	branchFieldConstant                         = "branch"
	currentBranchFieldConstant                  = "current_branch"
	defaultBranchFieldConstant                  = "default_branch"
	remoteFieldConstant                         = "remote"
	rebasedFieldConstant                        = "rebased"
	stashedFieldConstant                        = "stashed"
)

// RebasePolicy selects how the rebase onto the default branch is decided.
type RebasePolicy string

const (
	// RebasePolicyPrompt asks the confirmation prompter.
	RebasePolicyPrompt RebasePolicy = "prompt"
	// RebasePolicyAlways rebases without asking.
	RebasePolicyAlways RebasePolicy = "always"
	// RebasePolicyNever never rebases.
	RebasePolicyNever RebasePolicy = "never"
)

// ParseRebasePolicy converts a configuration value into a RebasePolicy. Blank values map to RebasePolicyPrompt.
func ParseRebasePolicy(value string) (RebasePolicy, error) {
	normalized := RebasePolicy(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case "":
		return RebasePolicyPrompt, nil
	case RebasePolicyPrompt, RebasePolicyAlways, RebasePolicyNever:
		return normalized, nil
	default:
		return "", fmt.Errorf(unknownRebasePolicyTemplateConstant, value)
	}
}

// GitExecutor exposes the git invocation used by the sync service.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrConfirmationPrompterNotConfigured indicates the confirmation prompter dependency was missing.
var ErrConfirmationPrompterNotConfigured = errors.New(confirmationPrompterMissingMessageConstant)

// ErrLoggerNotConfigured indicates the logger dependency was missing.
var ErrLoggerNotConfigured = errors.New("logger not configured")

// Dependencies enumerates external collaborators required for sync operations.
type Dependencies struct {
	Logger      *zap.Logger
	GitExecutor GitExecutor
	Prompter    prompt.ConfirmationPrompter
}

// Options configures a single sync.
type Options struct {
	RepositoryPath string
	BranchName     string
	RemoteName     string
	RebasePolicy   RebasePolicy
}

// Result captures the observable outcomes of a sync.
type Result struct {
	Skipped        bool
	CurrentBranch  string
	UpdatedInPlace bool
	DefaultBranch  string
	Rebased        bool
	Stashed        bool
}

// Service synchronizes a configured branch with its remote and optionally rebases it onto the default branch.
type Service struct {
	logger   *zap.Logger
	executor GitExecutor
	prompter prompt.ConfirmationPrompter
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.Prompter == nil {
		return nil, ErrConfirmationPrompterNotConfigured
	}
	return &Service{logger: dependencies.Logger, executor: dependencies.GitExecutor, prompter: dependencies.Prompter}, nil
}

// Sync brings the configured branch up to date with its remote.
//
// When the branch is checked out it is fetched and pulled, then rebased onto the
// freshly fetched remote default branch when the policy allows. Otherwise the
// branch is fast-forwarded in place with "git fetch <remote> <branch>:<branch>"
// and the checkout is left untouched.
func (service *Service) Sync(executionContext context.Context, options Options) (Result, error) {
	branchName := strings.TrimSpace(options.BranchName)
	if len(branchName) == 0 {
		service.logger.Info(skippedNoBranchMessageConstant)
		return Result{Skipped: true}, nil
	}

	repositoryPath := strings.TrimSpace(options.RepositoryPath)
	remoteName := strings.TrimSpace(options.RemoteName)
	if len(remoteName) == 0 {
		remoteName = defaultRemoteNameConstant
	}
	rebasePolicy, policyError := ParseRebasePolicy(string(options.RebasePolicy))
	if policyError != nil {
		return Result{}, policyError
	}

	result := Result{}

	currentBranch, currentBranchError := service.runGit(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitAbbreviatedReferenceFlagConstant, gitHeadReferenceConstant)
	if currentBranchError != nil {
		return Result{}, fmt.Errorf(currentBranchFailureTemplateConstant, describeRepository(repositoryPath), currentBranchError)
	}
	result.CurrentBranch = currentBranch
	service.logger.Info(currentBranchMessageConstant, zap.String(currentBranchFieldConstant, currentBranch), zap.String(repositoryPathFieldConstant, repositoryPath))

	if currentBranch != branchName {
		refspec := fmt.Sprintf(fastForwardRefspecTemplateConstant, branchName, branchName)
		if _, updateError := service.runGit(executionContext, repositoryPath, gitFetchSubcommandConstant, remoteName, refspec); updateError != nil {
			return Result{}, fmt.Errorf(updateFailureTemplateConstant, branchName, remoteName, updateError)
		}
		result.UpdatedInPlace = true
		service.logger.Info(branchNotCheckedOutMessageConstant, zap.String(branchFieldConstant, branchName), zap.String(currentBranchFieldConstant, currentBranch))
		return result, nil
	}

	if _, fetchError := service.runGit(executionContext, repositoryPath, gitFetchSubcommandConstant, remoteName, branchName); fetchError != nil {
		service.logger.Warn(fetchWarningMessageConstant, zap.String(branchFieldConstant, branchName), zap.String(remoteFieldConstant, remoteName), zap.Error(fetchError))
	}

	if _, pullError := service.runGit(executionContext, repositoryPath, gitPullSubcommandConstant, remoteName, branchName); pullError != nil {
		return Result{}, fmt.Errorf(pullFailureTemplateConstant, branchName, remoteName, pullError)
	}

	if rebaseError := service.rebaseOntoDefault(executionContext, repositoryPath, branchName, remoteName, rebasePolicy, &result); rebaseError != nil {
		return Result{}, rebaseError
	}

	service.logger.Info(
		syncCompletedMessageConstant,
		zap.String(branchFieldConstant, branchName),
		zap.Bool(rebasedFieldConstant, result.Rebased),
		zap.Bool(stashedFieldConstant, result.Stashed),
	)
	return result, nil
}

func (service *Service) rebaseOntoDefault(executionContext context.Context, repositoryPath string, branchName string, remoteName string, policy RebasePolicy, result *Result) error {
	if policy == RebasePolicyNever {
		service.logger.Info(rebaseDisabledMessageConstant, zap.String(branchFieldConstant, branchName))
		return nil
	}

	remoteHead, symbolicReferenceError := service.runGit(executionContext, repositoryPath, gitSymbolicReferenceSubcommandConstant, fmt.Sprintf(remoteHeadReferenceTemplateConstant, remoteName))
	if symbolicReferenceError != nil {
		return fmt.Errorf(defaultBranchFailureTemplateConstant, remoteName, symbolicReferenceError)
	}
	defaultBranch := strings.TrimPrefix(remoteHead, fmt.Sprintf(remoteReferencePrefixTemplateConstant, remoteName))
	result.DefaultBranch = defaultBranch

	if defaultBranch == branchName {
		service.logger.Info(rebaseOnDefaultBranchMessageConstant, zap.String(branchFieldConstant, branchName))
		return nil
	}

	if _, fetchError := service.runGit(executionContext, repositoryPath, gitFetchSubcommandConstant, remoteName, defaultBranch); fetchError != nil {
		service.logger.Warn(defaultFetchWarningMessageConstant, zap.String(defaultBranchFieldConstant, defaultBranch), zap.String(remoteFieldConstant, remoteName), zap.Error(fetchError))
	}
	upstream := fmt.Sprintf(remoteTrackingBranchTemplateConstant, remoteName, defaultBranch)

	if policy == RebasePolicyPrompt {
		confirmed, confirmationError := service.prompter.Confirm(fmt.Sprintf(rebasePromptTemplateConstant, branchName, upstream))
		if confirmationError != nil {
			return fmt.Errorf(rebaseConfirmationFailureTemplateConstant, branchName, confirmationError)
		}
		if !confirmed {
			service.logger.Info(rebaseDeclinedMessageConstant, zap.String(branchFieldConstant, branchName))
			return nil
		}
	}

	worktreeStatus, statusError := service.runGit(executionContext, repositoryPath, gitStatusSubcommandConstant, gitPorcelainFlagConstant)
	if statusError != nil {
		return fmt.Errorf(statusFailureTemplateConstant, branchName, statusError)
	}

	if len(worktreeStatus) > 0 {
		stashConfirmed, stashConfirmationError := service.prompter.Confirm(fmt.Sprintf(stashPromptTemplateConstant, branchName))
		if stashConfirmationError != nil {
			return fmt.Errorf(stashConfirmationFailureTemplateConstant, branchName, stashConfirmationError)
		}
		if !stashConfirmed {
			service.logger.Warn(stashDeclinedMessageConstant, zap.String(branchFieldConstant, branchName))
			return nil
		}
		if _, stashError := service.runGit(executionContext, repositoryPath, gitStashSubcommandConstant, gitStashPushActionConstant, gitIncludeUntrackedFlagConstant); stashError != nil {
			return fmt.Errorf(stashPushFailureTemplateConstant, branchName, stashError)
		}
		result.Stashed = true
	}

	if _, rebaseError := service.runGit(executionContext, repositoryPath, gitRebaseSubcommandConstant, upstream, branchName); rebaseError != nil {
		service.recoverFromFailedRebase(executionContext, repositoryPath, branchName, result.Stashed)
		return fmt.Errorf(rebaseFailureTemplateConstant, branchName, upstream, rebaseError)
	}
	result.Rebased = true

	if result.Stashed {
		if _, popError := service.runGit(executionContext, repositoryPath, gitStashSubcommandConstant, gitStashPopActionConstant); popError != nil {
			return fmt.Errorf(stashPopFailureTemplateConstant, branchName, popError)
		}
	}

	service.logger.Info(rebaseCompletedMessageConstant, zap.String(branchFieldConstant, branchName), zap.String(defaultBranchFieldConstant, upstream))
	return nil
}

func (service *Service) recoverFromFailedRebase(executionContext context.Context, repositoryPath string, branchName string, stashed bool) {
	if _, abortError := service.runGit(executionContext, repositoryPath, gitRebaseSubcommandConstant, gitRebaseAbortFlagConstant); abortError != nil {
		service.logger.Warn(rebaseAbortWarningMessageConstant, zap.String(branchFieldConstant, branchName), zap.Error(abortError))
	}
	if !stashed {
		return
	}
	if _, popError := service.runGit(executionContext, repositoryPath, gitStashSubcommandConstant, gitStashPopActionConstant); popError != nil {
		service.logger.Warn(stashRestoreWarningMessageConstant, zap.String(branchFieldConstant, branchName), zap.Error(popError))
	}
}

func (service *Service) runGit(executionContext context.Context, repositoryPath string, arguments ...string) (string, error) {
	details := execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant,
		},
	}
	executionResult, executionError := service.executor.ExecuteGit(executionContext, details)
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

func describeRepository(repositoryPath string) string {
	if len(repositoryPath) == 0 {
		return "."
	}
	return repositoryPath
}
