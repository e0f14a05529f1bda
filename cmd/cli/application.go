package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/daybegin/internal/applications"
	"github.com/temirov/daybegin/internal/config"
	"github.com/temirov/daybegin/internal/execshell"
	"github.com/temirov/daybegin/internal/gitsync"
	"github.com/temirov/daybegin/internal/platform"
	"github.com/temirov/daybegin/internal/prompt"
	"github.com/temirov/daybegin/internal/routine"
	"github.com/temirov/daybegin/internal/shellcommands"
	"github.com/temirov/daybegin/internal/ui"
	"github.com/temirov/daybegin/internal/utils"
	"github.com/temirov/daybegin/internal/utils/flags"
	pathutils "github.com/temirov/daybegin/internal/utils/path"
)

const (
	applicationNameConstant                  = "daybegin"
	applicationShortDescriptionConstant      = "Performs common tasks at the start of your work day"
	applicationLongDescriptionConstant       = "daybegin synchronizes a git branch, launches your applications, and runs your shell commands, stopping at the first failure."
	configFileFlagNameConstant               = "config"
	configFileFlagUsageConstant              = "Optional path to a configuration file (YAML, TOML, or JSON)."
	logLevelFlagNameConstant                 = "log-level"
	logLevelFlagUsageConstant                = "Override the configured log level."
	logFormatFlagNameConstant                = "log-format"
	logFormatFlagUsageConstant               = "Override the configured log format."
	verboseFlagNameConstant                  = "verbose"
	verboseFlagShorthandConstant             = "v"
	verboseFlagUsageConstant                 = "Turn on verbose (debug) logging."
	workDirectoryFlagNameConstant            = "dir"
	workDirectoryFlagShorthandConstant       = "d"
	workDirectoryFlagUsageConstant           = "Directory git and shell commands run in, overriding work_dir."
	assumeYesFlagNameConstant                = "yes"
	assumeYesFlagShorthandConstant           = "y"
	assumeYesFlagUsageConstant               = "Answer yes to every confirmation prompt."
	rebaseFlagNameConstant                   = "rebase"
	rebaseFlagUsageConstant                  = "Override how the branch is rebased onto the default branch."
	waitFlagNameConstant                     = "wait"
	waitFlagShorthandConstant                = "w"
	waitFlagUsageConstant                    = "Wait for launched applications to exit before running shell commands."
	environmentPrefixConstant                = "DAYBEGIN"
	configurationNameConstant                = "config"
	configurationTypeConstant                = "yaml"
	configurationDirectoryNameConstant       = ".daybegin"
	configurationFileNameConstant            = configurationNameConstant + "." + configurationTypeConstant
	configurationInitializedMessageConstant  = "configuration initialized"
	routineStartedMessageConstant            = "daily routine started"
	routineCompletedMessageConstant          = "daily routine completed"
	configurationLogLevelFieldConstant       = "log_level"
	configurationLogFormatFieldConstant      = "log_format"
	configurationFileFieldConstant           = "config_file"
	workingDirectoryFieldConstant            = "working_directory"
	runIdentifierFieldConstant               = "run_id"
	executedStagesFieldConstant              = "executed_stages"
	skippedStagesFieldConstant               = "skipped_stages"
	commandCountFieldConstant                = "commands"
	commandElapsedFieldConstant              = "commands_elapsed"
	configurationLoadErrorTemplateConstant   = "unable to load configuration: %w"
	configurationCreateErrorTemplateConstant = "unable to create configuration: %w"
	homeDirectoryErrorTemplateConstant       = "unable to determine home directory: %w"
	loggerCreationErrorTemplateConstant      = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant          = "unable to flush logger: %w"
	workingDirectoryErrorTemplateConstant    = "unable to use working directory %s: %w"
	currentDirectoryErrorTemplateConstant    = "unable to determine current directory: %w"
	routineAssemblyErrorTemplateConstant     = "unable to assemble daily routine: %w"
	exitErrorTemplateConstant                = "%v\n"
	notADirectoryMessageConstant             = "not a directory"
)

var logFormatChoices = []string{
	string(utils.LogFormatConsole),
	string(utils.LogFormatStructured),
}

var rebasePolicyChoices = []string{
	string(gitsync.RebasePolicyPrompt),
	string(gitsync.RebasePolicyAlways),
	string(gitsync.RebasePolicyNever),
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          config.Configuration
	configurationMetadata  utils.LoadedConfiguration
	commandContextAccessor utils.CommandContextAccessor
	homeExpander           *pathutils.HomeExpander
	platformTag            platform.Tag
	interactivePrompter    *prompt.IOPrompter
	commandTally           *ui.CommandTally
	output                 io.Writer
	errorOutput            io.Writer
	currentDirectory       func() (string, error)
	runIdentifierGenerator func() string
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	verboseFlagValue       bool
	workDirectoryFlagValue string
	assumeYesFlagValue     bool
	rebaseFlagValue        string
	waitFlagValue          bool
}

// NewApplication assembles a CLI application bound to the process standard streams.
func NewApplication() *Application {
	return NewApplicationWithStreams(os.Stdin, os.Stdout, os.Stderr)
}

// NewApplicationWithStreams assembles a CLI application bound to the provided streams.
func NewApplicationWithStreams(input io.Reader, output io.Writer, errorOutput io.Writer) *Application {
	application := &Application{
		loggerFactory:          utils.NewLoggerFactoryWithOutput(errorOutput),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		homeExpander:           pathutils.NewHomeExpander(),
		platformTag:            platform.Current(),
		interactivePrompter:    prompt.NewIOPrompter(input, output),
		commandTally:           &ui.CommandTally{},
		output:                 output,
		errorOutput:            errorOutput,
		currentDirectory:       os.Getwd,
		runIdentifierGenerator: uuid.NewString,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRoutine(command)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.SetIn(input)
	cobraCommand.SetOut(output)
	cobraCommand.SetErr(errorOutput)

	persistentFlags := cobraCommand.PersistentFlags()
	persistentFlags.StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	persistentFlags.StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	flags.AddChoiceFlag(persistentFlags, &application.logFormatFlagValue, logFormatFlagNameConstant, string(utils.LogFormatConsole), logFormatChoices, logFormatFlagUsageConstant)
	persistentFlags.BoolVarP(&application.verboseFlagValue, verboseFlagNameConstant, verboseFlagShorthandConstant, false, verboseFlagUsageConstant)

	commandFlags := cobraCommand.Flags()
	commandFlags.StringVarP(&application.workDirectoryFlagValue, workDirectoryFlagNameConstant, workDirectoryFlagShorthandConstant, "", workDirectoryFlagUsageConstant)
	commandFlags.BoolVarP(&application.assumeYesFlagValue, assumeYesFlagNameConstant, assumeYesFlagShorthandConstant, false, assumeYesFlagUsageConstant)
	flags.AddChoiceFlag(commandFlags, &application.rebaseFlagValue, rebaseFlagNameConstant, string(gitsync.RebasePolicyPrompt), rebasePolicyChoices, rebaseFlagUsageConstant)
	flags.AddToggleFlag(commandFlags, &application.waitFlagValue, waitFlagNameConstant, waitFlagShorthandConstant, false, waitFlagUsageConstant)

	application.rootCommand = cobraCommand
	return application
}

// Execute runs the root command and flushes the logger.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := utils.SyncLogger(application.logger); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance bound to the process streams and runs it.
func Execute() error {
	return NewApplication().Execute()
}

// Run executes the application with arguments (program name first) and returns the process exit code.
func Run(arguments []string, input io.Reader, output io.Writer, errorOutput io.Writer) int {
	application := NewApplicationWithStreams(input, output, errorOutput)
	if len(arguments) > 0 {
		arguments = arguments[1:]
	}
	application.rootCommand.SetArgs(arguments)
	if executionError := application.Execute(); executionError != nil {
		fmt.Fprintf(errorOutput, exitErrorTemplateConstant, executionError)
		return 1
	}
	return 0
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	homeDirectory, homeDirectoryError := application.homeExpander.HomeDirectory()
	if homeDirectoryError != nil {
		return fmt.Errorf(homeDirectoryErrorTemplateConstant, homeDirectoryError)
	}
	configurationDirectory := filepath.Join(homeDirectory, configurationDirectoryNameConstant)

	explicitConfigurationPath := application.homeExpander.Expand(strings.TrimSpace(application.configurationFilePath))
	configurationLoader := utils.NewConfigurationLoader(configurationNameConstant, configurationTypeConstant, environmentPrefixConstant, []string{configurationDirectory})
	embeddedConfiguration, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	configurationLoader.SetEmbeddedConfiguration(embeddedConfiguration, embeddedConfigurationType)

	var loadedConfiguration config.Configuration
	configurationMetadata, loadError := configurationLoader.LoadConfiguration(explicitConfigurationPath, &loadedConfiguration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	if !configurationMetadata.FileFound() {
		defaultConfigurationPath := filepath.Join(configurationDirectory, configurationFileNameConstant)
		wizard, wizardError := config.NewWizard(application.interactivePrompter, application.output)
		if wizardError != nil {
			return fmt.Errorf(configurationCreateErrorTemplateConstant, wizardError)
		}
		createdConfiguration, createError := wizard.CreateFile(defaultConfigurationPath, loadedConfiguration)
		if createError != nil {
			return fmt.Errorf(configurationCreateErrorTemplateConstant, createError)
		}
		loadedConfiguration = createdConfiguration
		configurationMetadata = utils.LoadedConfiguration{ConfigFileUsed: defaultConfigurationPath}
	}

	if overrideError := application.applyFlagOverrides(command, &loadedConfiguration); overrideError != nil {
		return overrideError
	}
	application.configuration = loadedConfiguration.Normalize(application.platformTag, application.homeExpander)
	application.configurationMetadata = configurationMetadata

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(command.Context(), application.configurationMetadata.ConfigFileUsed)
		updatedContext = application.commandContextAccessor.WithRunIdentifier(updatedContext, application.runIdentifierGenerator())
		command.SetContext(updatedContext)
	}

	return nil
}

func (application *Application) applyFlagOverrides(command *cobra.Command, configuration *config.Configuration) error {
	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		configuration.Common.LogFormat = application.logFormatFlagValue
	}
	if application.verboseFlagValue {
		configuration.Common.LogLevel = string(utils.LogLevelDebug)
	}
	if application.persistentFlagChanged(command, workDirectoryFlagNameConstant) {
		workDirectory, absoluteError := filepath.Abs(application.homeExpander.Expand(application.workDirectoryFlagValue))
		if absoluteError != nil {
			return fmt.Errorf(workingDirectoryErrorTemplateConstant, application.workDirectoryFlagValue, absoluteError)
		}
		configuration.WorkDirectory = workDirectory
	}
	if application.persistentFlagChanged(command, rebaseFlagNameConstant) {
		configuration.Rebase = application.rebaseFlagValue
	}
	if application.persistentFlagChanged(command, waitFlagNameConstant) {
		configuration.WaitForApplications = application.waitFlagValue
	}
	return nil
}

func (application *Application) runRoutine(command *cobra.Command) error {
	workingDirectory, workingDirectoryError := application.resolveWorkingDirectory()
	if workingDirectoryError != nil {
		return workingDirectoryError
	}

	rebasePolicy, policyError := gitsync.ParseRebasePolicy(application.configuration.Rebase)
	if policyError != nil {
		return policyError
	}

	executionContext := command.Context()
	if runIdentifier, found := application.commandContextAccessor.RunIdentifier(executionContext); found {
		application.logger = application.logger.With(zap.String(runIdentifierFieldConstant, runIdentifier))
	}
	configurationFilePath, _ := application.commandContextAccessor.ConfigurationFilePath(executionContext)
	application.logger.Info(
		routineStartedMessageConstant,
		zap.String(configurationFileFieldConstant, configurationFilePath),
		zap.String(workingDirectoryFieldConstant, workingDirectory),
	)

	dailyRoutine, assemblyError := application.assembleRoutine(workingDirectory, rebasePolicy)
	if assemblyError != nil {
		return fmt.Errorf(routineAssemblyErrorTemplateConstant, assemblyError)
	}

	summary, runError := dailyRoutine.Run(executionContext)
	if runError != nil {
		return runError
	}

	commandTotals := application.commandTally.Totals()
	application.logger.Info(
		routineCompletedMessageConstant,
		zap.String(workingDirectoryFieldConstant, workingDirectory),
		zap.Strings(executedStagesFieldConstant, summary.ExecutedStages),
		zap.Strings(skippedStagesFieldConstant, summary.SkippedStages),
		zap.Int(commandCountFieldConstant, commandTotals.Started),
		zap.Duration(commandElapsedFieldConstant, commandTotals.Elapsed),
	)
	return nil
}

func (application *Application) assembleRoutine(workingDirectory string, rebasePolicy gitsync.RebasePolicy) (*routine.Orchestrator, error) {
	var runnerOptions []execshell.OSCommandRunnerOption
	if application.configuration.Common.StreamOutput {
		runnerOptions = append(runnerOptions, execshell.WithOutputStreams(utils.NewFlushingWriter(application.output), utils.NewFlushingWriter(application.errorOutput)))
	}
	commandRunner := execshell.NewOSCommandRunner(runnerOptions...)

	commandObservers := execshell.CommandEventObservers{ui.NewConsoleCommandEventLogger(application.logger), application.commandTally}
	executor, executorError := execshell.NewShellExecutorWithObserver(application.logger, commandRunner, commandObservers)
	if executorError != nil {
		return nil, executorError
	}

	var confirmationPrompter prompt.ConfirmationPrompter = application.interactivePrompter
	if application.assumeYesFlagValue {
		confirmationPrompter = prompt.NewAssumeYesPrompter(application.output)
	}

	synchronizer, synchronizerError := gitsync.NewService(gitsync.Dependencies{
		Logger:      application.logger,
		GitExecutor: executor,
		Prompter:    confirmationPrompter,
	})
	if synchronizerError != nil {
		return nil, synchronizerError
	}

	launcher, launcherError := applications.NewLauncher(
		applications.Dependencies{Logger: application.logger, CommandExecutor: executor},
		applications.Settings{Platform: application.platformTag, ApplicationDirectory: application.configuration.ApplicationDirectory},
	)
	if launcherError != nil {
		return nil, launcherError
	}

	shellCommandRunner, shellCommandRunnerError := shellcommands.NewRunner(application.logger, executor, application.platformTag, workingDirectory)
	if shellCommandRunnerError != nil {
		return nil, shellCommandRunnerError
	}

	return routine.NewDailyRoutine(
		application.logger,
		routine.Dependencies{
			Synchronizer: synchronizer,
			Launcher:     launcher,
			Runner:       shellCommandRunner,
		},
		routine.Plan{
			RepositoryPath:      workingDirectory,
			BranchName:          application.configuration.GitBranch,
			RemoteName:          application.configuration.GitRemote,
			RebasePolicy:        rebasePolicy,
			Applications:        application.configuration.Applications,
			WaitForApplications: application.configuration.WaitForApplications,
			ShellCommands:       application.configuration.ShellCommands,
		},
	)
}

func (application *Application) resolveWorkingDirectory() (string, error) {
	workingDirectory := application.configuration.WorkDirectory
	if len(workingDirectory) == 0 {
		currentDirectory, currentDirectoryError := application.currentDirectory()
		if currentDirectoryError != nil {
			return "", fmt.Errorf(currentDirectoryErrorTemplateConstant, currentDirectoryError)
		}
		return currentDirectory, nil
	}

	directoryInfo, statError := os.Stat(workingDirectory)
	if statError != nil {
		return "", fmt.Errorf(workingDirectoryErrorTemplateConstant, workingDirectory, statError)
	}
	if !directoryInfo.IsDir() {
		return "", fmt.Errorf(workingDirectoryErrorTemplateConstant, workingDirectory, errors.New(notADirectoryMessageConstant))
	}
	return workingDirectory, nil
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.Flags(),
		command.PersistentFlags(),
		command.InheritedFlags(),
	}
	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}
	return false
}
