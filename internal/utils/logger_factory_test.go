package utils_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/daybegin/internal/utils"
)

const testLogMessageConstant = "logger_factory_test_message"

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name                string
		requestedLogLevel   utils.LogLevel
		requestedLogFormat  utils.LogFormat
		expectError         bool
		expectStructuredLog bool
		expectDebugVisible  bool
	}{
		{
			name:                "debug_structured",
			requestedLogLevel:   utils.LogLevelDebug,
			requestedLogFormat:  utils.LogFormatStructured,
			expectStructuredLog: true,
			expectDebugVisible:  true,
		},
		{
			name:                "info_structured",
			requestedLogLevel:   utils.LogLevelInfo,
			requestedLogFormat:  utils.LogFormatStructured,
			expectStructuredLog: true,
		},
		{
			name:               "info_console_mixed_case",
			requestedLogLevel:  utils.LogLevel(" INFO "),
			requestedLogFormat: utils.LogFormat("Console"),
		},
		{
			name:               "unsupported_level",
			requestedLogLevel:  utils.LogLevel("verbose"),
			requestedLogFormat: utils.LogFormatStructured,
			expectError:        true,
		},
		{
			name:               "unsupported_format",
			requestedLogLevel:  utils.LogLevelInfo,
			requestedLogFormat: utils.LogFormat("xml"),
			expectError:        true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			var output bytes.Buffer
			logger, creationError := utils.NewLoggerFactoryWithOutput(&output).CreateLogger(testCase.requestedLogLevel, testCase.requestedLogFormat)
			if testCase.expectError {
				require.Error(subtest, creationError)
				require.Nil(subtest, logger)
				return
			}
			require.NoError(subtest, creationError)

			logger.Debug("debug_marker")
			logger.Info(testLogMessageConstant, zap.String("stage", "git-sync"))
			require.NoError(subtest, logger.Sync())

			require.Equal(subtest, testCase.expectDebugVisible, strings.Contains(output.String(), "debug_marker"))

			lines := strings.Split(strings.TrimSpace(output.String()), "\n")
			lastLine := lines[len(lines)-1]
			if testCase.expectStructuredLog {
				var payload map[string]any
				require.NoError(subtest, json.Unmarshal([]byte(lastLine), &payload))
				require.Equal(subtest, testLogMessageConstant, payload["msg"])
				require.Equal(subtest, "git-sync", payload["stage"])
				return
			}
			require.Contains(subtest, lastLine, testLogMessageConstant)
			require.Contains(subtest, lastLine, `"stage": "git-sync"`)
		})
	}
}

func TestSyncLoggerIgnoresNilLogger(testInstance *testing.T) {
	require.NoError(testInstance, utils.SyncLogger(nil))
	require.NoError(testInstance, utils.SyncLogger(zap.NewNop()))
}
