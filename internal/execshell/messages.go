package execshell

import (
	"fmt"
	"slices"
	"strings"
)

const (
	unknownFailureMessageConstant         = "unknown error"
	unknownValueLabelConstant             = "unknown"
	currentDirectoryLabelConstant         = "current directory"
	inDirectoryTemplateConstant           = "%s in %s"
	directorySuffixTemplateConstant       = " (in %s)"
	detailSuffixTemplateConstant          = ": %s"
	detachedHeadTemplateConstant          = "%s is in a detached HEAD state"
	currentBranchResolvedTemplateConstant = "Current branch in %s is %s"
	gitHeadReferenceConstant              = "HEAD"
	gitAbbrevRefFlagConstant              = "--abbrev-ref"
	gitRebaseAbortFlagConstant            = "--abort"
	gitStashPopActionConstant             = "pop"
	referenceSeparatorConstant            = ", "
	argumentSeparatorConstant             = " "
	flagPrefixConstant                    = "-"
)

// lifecycleWording holds the four templates used across a command's lifecycle.
// Every template receives the subject first; failed also receives the exit code
// and a stderr suffix, unstartable receives the failure text.
type lifecycleWording struct {
	started     string
	succeeded   string
	failed      string
	unstartable string
}

func gitWording(presentVerb string, pastVerb string, baseVerb string) lifecycleWording {
	return lifecycleWording{
		started:     presentVerb + " %s",
		succeeded:   pastVerb + " %s",
		failed:      "Failed to " + baseVerb + " %s (exit code %d%s)",
		unstartable: "Unable to " + baseVerb + " %s: %s",
	}
}

var genericWording = lifecycleWording{
	started:     "Running %s",
	succeeded:   "Completed %s",
	failed:      "%s failed with exit code %d%s",
	unstartable: "%s failed: %s",
}

var shellWording = lifecycleWording{
	started:     "Running shell command %s",
	succeeded:   "Finished shell command %s",
	failed:      "Shell command %s failed with exit code %d%s",
	unstartable: "Unable to run shell command %s: %s",
}

var launchWording = lifecycleWording{
	started:     "Launching %s",
	succeeded:   "Launched %s",
	failed:      "Failed to launch %s (exit code %d%s)",
	unstartable: "Unable to launch %s: %s",
}

var waitWording = lifecycleWording{
	started:     "Waiting for %s to exit",
	succeeded:   "%s exited",
	failed:      "%s exited with code %d%s",
	unstartable: "Unable to wait for %s: %s",
}

var statusWording = lifecycleWording{
	started:     "Reviewing working tree status in %s",
	succeeded:   "Collected working tree status for %s",
	failed:      "Failed to review working tree status in %s (exit code %d%s)",
	unstartable: "Unable to review working tree status in %s: %s",
}

var (
	currentBranchWording = gitWording("Identifying current branch in", "Identified current branch in", "identify current branch in")
	fetchWording         = gitWording("Fetching", "Fetched", "fetch")
	pullWording          = gitWording("Pulling", "Pulled", "pull")
	defaultBranchWording = gitWording("Resolving default branch from", "Resolved default branch from", "resolve default branch from")
	stashWording         = gitWording("Stashing local changes in", "Stashed local changes in", "stash local changes in")
	stashPopWording      = gitWording("Restoring stashed changes in", "Restored stashed changes in", "restore stashed changes in")
	rebaseWording        = gitWording("Rebasing", "Rebased", "rebase")
	rebaseAbortWording   = gitWording("Aborting rebase in", "Aborted rebase in", "abort rebase in")
)

// commandNarrative pairs a wording with the subject it describes.
type commandNarrative struct {
	wording       lifecycleWording
	subject       string
	startedSuffix string
	success       func(ExecutionResult) string
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	story := narrate(command)
	return fmt.Sprintf(story.wording.started, story.subject) + story.startedSuffix
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand, result ExecutionResult) string {
	story := narrate(command)
	if story.success != nil {
		return story.success(result)
	}
	return fmt.Sprintf(story.wording.succeeded, story.subject)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	story := narrate(command)
	return fmt.Sprintf(story.wording.failed, story.subject, result.ExitCode, detailSuffix(result.StandardError))
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	story := narrate(command)
	failureText := unknownFailureMessageConstant
	if failure != nil {
		failureText = failure.Error()
	}
	return fmt.Sprintf(story.wording.unstartable, story.subject, failureText)
}

func narrate(command ShellCommand) commandNarrative {
	switch command.Kind {
	case CommandKindShell:
		return commandNarrative{
			wording:       shellWording,
			subject:       fmt.Sprintf("%q", strings.TrimSpace(command.Details.Label)),
			startedSuffix: directorySuffix(command.Details.WorkingDirectory),
			success: func(result ExecutionResult) string {
				label := fmt.Sprintf("%q", strings.TrimSpace(command.Details.Label))
				return fmt.Sprintf(shellWording.succeeded, label) + detailSuffix(result.StandardOutput)
			},
		}
	case CommandKindApplicationLaunch:
		return commandNarrative{wording: launchWording, subject: orUnknown(command.Details.Label)}
	case CommandKindApplicationWait:
		return commandNarrative{wording: waitWording, subject: orUnknown(command.Details.Label)}
	case CommandKindGit:
		if story, recognized := narrateGit(command); recognized {
			return story
		}
	}
	return genericNarrative(command)
}

func narrateGit(command ShellCommand) (commandNarrative, bool) {
	arguments := trimmedArguments(command.Details.Arguments)
	if len(arguments) == 0 {
		return commandNarrative{}, false
	}
	directory := directoryLabel(command.Details.WorkingDirectory)

	switch arguments[0] {
	case "rev-parse":
		if !slices.Contains(arguments, gitAbbrevRefFlagConstant) {
			return commandNarrative{}, false
		}
		return commandNarrative{
			wording: currentBranchWording,
			subject: directory,
			success: func(result ExecutionResult) string {
				branch := strings.TrimSpace(result.StandardOutput)
				if len(branch) == 0 || strings.EqualFold(branch, gitHeadReferenceConstant) {
					return fmt.Sprintf(detachedHeadTemplateConstant, directory)
				}
				return fmt.Sprintf(currentBranchResolvedTemplateConstant, directory, branch)
			},
		}, true
	case "fetch", "pull":
		remote, references := splitRemoteAndReferences(arguments[1:])
		subject := fmt.Sprintf("%s from %s", orUnknown(strings.Join(references, referenceSeparatorConstant)), orUnknown(remote))
		wording := fetchWording
		if arguments[0] == "pull" {
			wording = pullWording
		}
		return commandNarrative{wording: wording, subject: fmt.Sprintf(inDirectoryTemplateConstant, subject, directory)}, true
	case "status":
		return commandNarrative{wording: statusWording, subject: directory}, true
	case "symbolic-ref":
		reference := orUnknown(argumentAt(arguments, 1))
		return commandNarrative{wording: defaultBranchWording, subject: fmt.Sprintf(inDirectoryTemplateConstant, reference, directory)}, true
	case "stash":
		if argumentAt(arguments, 1) == gitStashPopActionConstant {
			return commandNarrative{wording: stashPopWording, subject: directory}, true
		}
		return commandNarrative{wording: stashWording, subject: directory}, true
	case "rebase":
		if slices.Contains(arguments, gitRebaseAbortFlagConstant) {
			return commandNarrative{wording: rebaseAbortWording, subject: directory}, true
		}
		subject := fmt.Sprintf("%s onto %s", orUnknown(argumentAt(arguments, 2)), orUnknown(argumentAt(arguments, 1)))
		return commandNarrative{wording: rebaseWording, subject: fmt.Sprintf(inDirectoryTemplateConstant, subject, directory)}, true
	default:
		return commandNarrative{}, false
	}
}

func genericNarrative(command ShellCommand) commandNarrative {
	label := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		label += argumentSeparatorConstant + strings.Join(command.Details.Arguments, argumentSeparatorConstant)
	}
	return commandNarrative{wording: genericWording, subject: label + directorySuffix(command.Details.WorkingDirectory)}
}

func trimmedArguments(arguments []string) []string {
	trimmed := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		trimmed = append(trimmed, strings.TrimSpace(argument))
	}
	return trimmed
}

// splitRemoteAndReferences treats the first positional argument as the remote
// and the remaining positional arguments as references.
func splitRemoteAndReferences(arguments []string) (string, []string) {
	var remote string
	var references []string
	for _, argument := range arguments {
		if len(argument) == 0 || strings.HasPrefix(argument, flagPrefixConstant) {
			continue
		}
		if len(remote) == 0 {
			remote = argument
			continue
		}
		references = append(references, argument)
	}
	return remote, references
}

func argumentAt(arguments []string, index int) string {
	if index < 0 || index >= len(arguments) {
		return ""
	}
	return arguments[index]
}

func directoryLabel(workingDirectory string) string {
	trimmed := strings.TrimSpace(workingDirectory)
	if len(trimmed) == 0 {
		return currentDirectoryLabelConstant
	}
	return trimmed
}

func directorySuffix(workingDirectory string) string {
	trimmed := strings.TrimSpace(workingDirectory)
	if len(trimmed) == 0 {
		return ""
	}
	return fmt.Sprintf(directorySuffixTemplateConstant, trimmed)
}

func detailSuffix(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) == 0 {
		return ""
	}
	return fmt.Sprintf(detailSuffixTemplateConstant, trimmed)
}

func orUnknown(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return unknownValueLabelConstant
	}
	return trimmed
}
