package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	configurationDirectoryPermissionsConstant   = 0o755
	configurationFilePermissionsConstant        = 0o644
	configurationEncodeErrorTemplateConstant    = "failed to encode configuration: %w"
	configurationDirectoryErrorTemplateConstant = "failed to create configuration directory %s: %w"
	configurationWriteErrorTemplateConstant     = "failed to write configuration file %s: %w"
)

// WriteFile persists configuration as YAML at filePath, creating parent directories as needed.
func WriteFile(filePath string, configuration Configuration) error {
	encoded, encodeError := yaml.Marshal(configuration)
	if encodeError != nil {
		return fmt.Errorf(configurationEncodeErrorTemplateConstant, encodeError)
	}

	directory := filepath.Dir(filePath)
	if directoryError := os.MkdirAll(directory, configurationDirectoryPermissionsConstant); directoryError != nil {
		return fmt.Errorf(configurationDirectoryErrorTemplateConstant, directory, directoryError)
	}

	if writeError := os.WriteFile(filePath, encoded, configurationFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(configurationWriteErrorTemplateConstant, filePath, writeError)
	}
	return nil
}
