package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/temirov/daybegin/internal/prompt"
)

const (
	wizardGreetingConstant               = "No configuration found. Let's create one."
	wizardCompletedTemplateConstant      = "Configuration written to %s\n"
	workDirectoryPromptConstant          = "Working directory"
	gitBranchPromptConstant              = "Git branch to synchronize"
	shellCommandsPromptConstant          = "Shell commands (comma-separated)"
	applicationsPromptConstant           = "Applications (comma-separated)"
	wizardPrompterMissingMessageConstant = "configuration wizard prompter not configured"
	wizardPromptErrorTemplateConstant    = "failed to read %s: %w"
)

// ErrWizardPrompterNotConfigured indicates the wizard was constructed without a value prompter.
var ErrWizardPrompterNotConfigured = errors.New(wizardPrompterMissingMessageConstant)

// Wizard interactively builds a first configuration from defaults.
type Wizard struct {
	prompter prompt.ValuePrompter
	output   io.Writer
}

// NewWizard constructs a Wizard that asks through prompter and greets on output.
func NewWizard(prompter prompt.ValuePrompter, output io.Writer) (*Wizard, error) {
	if prompter == nil {
		return nil, ErrWizardPrompterNotConfigured
	}
	if output == nil {
		output = io.Discard
	}
	return &Wizard{prompter: prompter, output: output}, nil
}

// Run asks for the working directory, branch, shell commands, and applications, starting from defaults.
func (wizard *Wizard) Run(defaults Configuration) (Configuration, error) {
	configuration := defaults
	color.New(color.FgYellow, color.Bold).Fprintln(wizard.output, wizardGreetingConstant)

	workDirectory, workDirectoryError := wizard.prompter.PromptValue(workDirectoryPromptConstant, defaults.WorkDirectory)
	if workDirectoryError != nil {
		return Configuration{}, fmt.Errorf(wizardPromptErrorTemplateConstant, workDirectoryPromptConstant, workDirectoryError)
	}
	configuration.WorkDirectory = workDirectory

	gitBranch, gitBranchError := wizard.prompter.PromptValue(gitBranchPromptConstant, defaults.GitBranch)
	if gitBranchError != nil {
		return Configuration{}, fmt.Errorf(wizardPromptErrorTemplateConstant, gitBranchPromptConstant, gitBranchError)
	}
	configuration.GitBranch = gitBranch

	shellCommands, shellCommandsError := wizard.prompter.PromptList(shellCommandsPromptConstant, defaults.ShellCommands)
	if shellCommandsError != nil {
		return Configuration{}, fmt.Errorf(wizardPromptErrorTemplateConstant, shellCommandsPromptConstant, shellCommandsError)
	}
	configuration.ShellCommands = shellCommands

	applications, applicationsError := wizard.prompter.PromptList(applicationsPromptConstant, defaults.Applications)
	if applicationsError != nil {
		return Configuration{}, fmt.Errorf(wizardPromptErrorTemplateConstant, applicationsPromptConstant, applicationsError)
	}
	configuration.Applications = applications

	return configuration, nil
}

// CreateFile runs the wizard and persists the result at filePath.
func (wizard *Wizard) CreateFile(filePath string, defaults Configuration) (Configuration, error) {
	configuration, runError := wizard.Run(defaults)
	if runError != nil {
		return Configuration{}, runError
	}
	if writeError := WriteFile(filePath, configuration); writeError != nil {
		return Configuration{}, writeError
	}
	color.New(color.FgGreen).Fprintf(wizard.output, wizardCompletedTemplateConstant, filePath)
	return configuration, nil
}
