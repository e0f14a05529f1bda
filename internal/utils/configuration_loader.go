package utils

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	nestedKeySeparatorConstant       = "."
	environmentKeySeparatorConstant  = "_"
	listValueSeparatorConstant       = ","
	readConfigurationErrorTemplate   = "failed to read configuration: %w"
	decodeConfigurationErrorTemplate = "failed to parse configuration: %w"
	mergeDefaultsErrorTemplate       = "failed to merge embedded configuration: %w"
)

// ConfigurationLoader layers embedded defaults, a configuration file and
// prefixed environment variables into a single decoded structure.
type ConfigurationLoader struct {
	configurationName string
	configurationType string
	environmentPrefix string
	searchPaths       []string
	defaults          []byte
	defaultsType      string
}

// LoadedConfiguration describes where the loaded values came from.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// FileFound reports whether a configuration file contributed to the loaded values.
func (loaded LoadedConfiguration) FileFound() bool {
	return len(loaded.ConfigFileUsed) > 0
}

// NewConfigurationLoader creates a loader that looks for configurationName in searchPaths
// and reads environment variables named environmentPrefix_KEY.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	return &ConfigurationLoader{
		configurationName: configurationName,
		configurationType: configurationType,
		environmentPrefix: environmentPrefix,
		searchPaths:       append([]string(nil), searchPaths...),
	}
}

// SetEmbeddedConfiguration registers defaults merged underneath any configuration file.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte, configurationType string) {
	if loader == nil {
		return
	}
	loader.defaults = append([]byte(nil), configurationData...)
	loader.defaultsType = strings.TrimSpace(configurationType)
}

// LoadConfiguration decodes the layered configuration into targetConfiguration.
//
// A file missing from the search paths is not an error; LoadedConfiguration.FileFound reports it.
// An explicit configurationFilePath that cannot be read is an error.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, targetConfiguration any) (LoadedConfiguration, error) {
	layers := viper.New()

	if mergeError := loader.mergeDefaults(layers); mergeError != nil {
		return LoadedConfiguration{}, mergeError
	}
	if readError := loader.mergeFile(layers, configurationFilePath); readError != nil {
		return LoadedConfiguration{}, readError
	}
	loader.bindEnvironment(layers)

	decodeHook := viper.DecodeHook(StringToTrimmedSliceHookFunc(listValueSeparatorConstant))
	if decodeError := layers.Unmarshal(targetConfiguration, decodeHook); decodeError != nil {
		return LoadedConfiguration{}, fmt.Errorf(decodeConfigurationErrorTemplate, decodeError)
	}
	return LoadedConfiguration{ConfigFileUsed: layers.ConfigFileUsed()}, nil
}

func (loader *ConfigurationLoader) mergeDefaults(layers *viper.Viper) error {
	if len(loader.defaults) == 0 {
		return nil
	}
	defaultsType := loader.defaultsType
	if len(defaultsType) == 0 {
		defaultsType = loader.configurationType
	}
	defaultsLayer := viper.New()
	defaultsLayer.SetConfigType(defaultsType)
	if readError := defaultsLayer.ReadConfig(bytes.NewReader(loader.defaults)); readError != nil {
		return fmt.Errorf(mergeDefaultsErrorTemplate, readError)
	}
	if mergeError := layers.MergeConfigMap(defaultsLayer.AllSettings()); mergeError != nil {
		return fmt.Errorf(mergeDefaultsErrorTemplate, mergeError)
	}
	return nil
}

// mergeFile leaves the config type unset so the file extension selects the decoder.
// Only an explicit path without an extension falls back to the loader's configuration type.
func (loader *ConfigurationLoader) mergeFile(layers *viper.Viper, explicitPath string) error {
	if len(explicitPath) > 0 {
		layers.SetConfigFile(explicitPath)
		if len(filepath.Ext(explicitPath)) == 0 {
			layers.SetConfigType(loader.configurationType)
		}
	} else {
		layers.SetConfigName(loader.configurationName)
		for _, searchPath := range loader.searchPaths {
			layers.AddConfigPath(searchPath)
		}
	}

	readError := layers.MergeInConfig()
	var notFound viper.ConfigFileNotFoundError
	if readError == nil || (len(explicitPath) == 0 && errors.As(readError, &notFound)) {
		return nil
	}
	return fmt.Errorf(readConfigurationErrorTemplate, readError)
}

func (loader *ConfigurationLoader) bindEnvironment(layers *viper.Viper) {
	layers.SetEnvPrefix(loader.environmentPrefix)
	layers.SetEnvKeyReplacer(strings.NewReplacer(nestedKeySeparatorConstant, environmentKeySeparatorConstant))
	layers.AutomaticEnv()
}

// StringToTrimmedSliceHookFunc splits strings bound for []string fields on separator,
// trimming entries and dropping blanks. Environment overrides rely on it for list settings.
func StringToTrimmedSliceHookFunc(separator string) mapstructure.DecodeHookFuncType {
	stringSliceType := reflect.TypeOf([]string{})
	return func(sourceType reflect.Type, targetType reflect.Type, data any) (any, error) {
		rawValue, isString := data.(string)
		if sourceType.Kind() != reflect.String || targetType != stringSliceType || !isString {
			return data, nil
		}
		values := []string{}
		for _, entry := range strings.Split(rawValue, separator) {
			if trimmed := strings.TrimSpace(entry); len(trimmed) > 0 {
				values = append(values, trimmed)
			}
		}
		return values, nil
	}
}
