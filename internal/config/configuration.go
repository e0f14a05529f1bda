package config

import (
	"strings"

	"github.com/temirov/daybegin/internal/gitsync"
	"github.com/temirov/daybegin/internal/platform"
	pathutils "github.com/temirov/daybegin/internal/utils/path"
)

const (
	defaultRootDirectoryConstant = "~"
	defaultGitRemoteConstant     = "origin"
	defaultLogLevelConstant      = "info"
	defaultLogFormatConstant     = "console"
)

// Configuration is the persisted daybegin configuration.
type Configuration struct {
	Common               CommonConfiguration `mapstructure:"common" yaml:"common"`
	RootDirectory        string              `mapstructure:"root_dir" yaml:"root_dir"`
	WorkDirectory        string              `mapstructure:"work_dir" yaml:"work_dir"`
	GitBranch            string              `mapstructure:"git_branch" yaml:"git_branch"`
	GitRemote            string              `mapstructure:"git_remote" yaml:"git_remote"`
	Rebase               string              `mapstructure:"rebase" yaml:"rebase"`
	ShellCommands        []string            `mapstructure:"shell_commands" yaml:"shell_commands"`
	Applications         []string            `mapstructure:"applications" yaml:"applications"`
	ApplicationDirectory string              `mapstructure:"app_dir" yaml:"app_dir"`
	WaitForApplications  bool                `mapstructure:"wait_for_applications" yaml:"wait_for_applications"`
}

// CommonConfiguration stores logging and output settings.
type CommonConfiguration struct {
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat    string `mapstructure:"log_format" yaml:"log_format"`
	StreamOutput bool   `mapstructure:"stream_output" yaml:"stream_output"`
}

// Default returns the configuration used when nothing is configured.
func Default() Configuration {
	return Configuration{
		Common: CommonConfiguration{
			LogLevel:  defaultLogLevelConstant,
			LogFormat: defaultLogFormatConstant,
		},
		RootDirectory: defaultRootDirectoryConstant,
		GitRemote:     defaultGitRemoteConstant,
		Rebase:        string(gitsync.RebasePolicyPrompt),
		ShellCommands: []string{"make clean", "make build"},
		Applications:  []string{"Docker.app", "Visual Studio Code.app"},
	}
}

// Normalize fills platform and fallback defaults and resolves paths.
//
// The application directory falls back to the platform default; a relative
// work directory is resolved against the root directory.
func (configuration Configuration) Normalize(platformTag platform.Tag, homeExpander *pathutils.HomeExpander) Configuration {
	normalized := configuration
	normalized.Common.LogLevel = strings.ToLower(strings.TrimSpace(configuration.Common.LogLevel))
	normalized.Common.LogFormat = strings.ToLower(strings.TrimSpace(configuration.Common.LogFormat))

	normalized.RootDirectory = strings.TrimSpace(configuration.RootDirectory)
	if len(normalized.RootDirectory) == 0 {
		normalized.RootDirectory = defaultRootDirectoryConstant
	}
	normalized.RootDirectory = homeExpander.Expand(normalized.RootDirectory)
	normalized.WorkDirectory = homeExpander.ResolveAgainst(normalized.RootDirectory, configuration.WorkDirectory)

	normalized.GitBranch = strings.TrimSpace(configuration.GitBranch)
	normalized.GitRemote = strings.TrimSpace(configuration.GitRemote)
	if len(normalized.GitRemote) == 0 {
		normalized.GitRemote = defaultGitRemoteConstant
	}
	normalized.Rebase = strings.ToLower(strings.TrimSpace(configuration.Rebase))
	if len(normalized.Rebase) == 0 {
		normalized.Rebase = string(gitsync.RebasePolicyPrompt)
	}

	normalized.ApplicationDirectory = strings.TrimSpace(configuration.ApplicationDirectory)
	if len(normalized.ApplicationDirectory) == 0 {
		normalized.ApplicationDirectory = platform.DefaultApplicationDirectory(platformTag)
	} else {
		normalized.ApplicationDirectory = homeExpander.Expand(normalized.ApplicationDirectory)
	}

	normalized.ShellCommands = append([]string{}, configuration.ShellCommands...)
	normalized.Applications = append([]string{}, configuration.Applications...)
	return normalized
}
