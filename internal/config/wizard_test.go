package config_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/daybegin/internal/config"
	"github.com/temirov/daybegin/internal/prompt"
)

type failingValuePrompter struct{}

func (failingValuePrompter) PromptValue(string, string) (string, error) {
	return "", errors.New("input closed")
}

func (failingValuePrompter) PromptList(string, []string) ([]string, error) {
	return nil, errors.New("input closed")
}

func TestNewWizardRequiresPrompter(t *testing.T) {
	wizard, creationError := config.NewWizard(nil, nil)
	require.ErrorIs(t, creationError, config.ErrWizardPrompterNotConfigured)
	require.Nil(t, wizard)
}

func TestWizardRunKeepsDefaultsOnBlankAnswers(t *testing.T) {
	var output bytes.Buffer
	wizard, creationError := config.NewWizard(prompt.NewIOPrompter(strings.NewReader("\n\n\n\n"), &output), &output)
	require.NoError(t, creationError)

	configuration, runError := wizard.Run(config.Default())
	require.NoError(t, runError)
	require.Equal(t, config.Default(), configuration)
	require.Contains(t, output.String(), "No configuration found")
}

func TestWizardRunAppliesAnswers(t *testing.T) {
	answers := strings.Join([]string{"~/src/app", "develop", "make lint, make test", "Slack.app"}, "\n") + "\n"
	wizard, creationError := config.NewWizard(prompt.NewIOPrompter(strings.NewReader(answers), nil), nil)
	require.NoError(t, creationError)

	configuration, runError := wizard.Run(config.Default())
	require.NoError(t, runError)
	require.Equal(t, "~/src/app", configuration.WorkDirectory)
	require.Equal(t, "develop", configuration.GitBranch)
	require.Equal(t, []string{"make lint", "make test"}, configuration.ShellCommands)
	require.Equal(t, []string{"Slack.app"}, configuration.Applications)
	require.Equal(t, "origin", configuration.GitRemote)
}

func TestWizardRunPropagatesPromptErrors(t *testing.T) {
	wizard, creationError := config.NewWizard(failingValuePrompter{}, nil)
	require.NoError(t, creationError)

	_, runError := wizard.Run(config.Default())
	require.ErrorContains(t, runError, "failed to read Working directory: input closed")
}

func TestWizardCreateFileLeavesNoFileWhenInputCloses(t *testing.T) {
	configurationPath := filepath.Join(t.TempDir(), ".daybegin", "config.yaml")
	wizard, creationError := config.NewWizard(prompt.NewIOPrompter(strings.NewReader("~/src\n"), nil), nil)
	require.NoError(t, creationError)

	_, createError := wizard.CreateFile(configurationPath, config.Default())
	require.ErrorIs(t, createError, io.EOF)
	require.ErrorContains(t, createError, "failed to read Git branch to synchronize")
	require.NoFileExists(t, configurationPath)
}

func TestWizardCreateFileWritesLoadableYAML(t *testing.T) {
	configurationPath := filepath.Join(t.TempDir(), ".daybegin", "config.yaml")
	wizard, creationError := config.NewWizard(prompt.NewIOPrompter(strings.NewReader("\nmain\n\n\n"), nil), nil)
	require.NoError(t, creationError)

	created, createError := wizard.CreateFile(configurationPath, config.Default())
	require.NoError(t, createError)
	require.Equal(t, "main", created.GitBranch)

	content, readError := os.ReadFile(configurationPath)
	require.NoError(t, readError)

	var decoded config.Configuration
	require.NoError(t, yaml.Unmarshal(content, &decoded))
	require.Equal(t, created, decoded)
	require.Contains(t, string(content), "git_branch: main")
	require.Contains(t, string(content), "shell_commands:")
}

func TestWriteFileReportsDirectoryErrors(t *testing.T) {
	blockingFile := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(blockingFile, []byte("x"), 0o600))

	writeError := config.WriteFile(filepath.Join(blockingFile, "config.yaml"), config.Default())
	require.ErrorContains(t, writeError, "failed to create configuration directory")
}
