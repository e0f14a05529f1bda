package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/daybegin/internal/utils/path"
)

const testHomeDirectoryConstant = "/home/developer"

func newTestExpander() *pathutils.HomeExpander {
	return pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})
}

func TestHomeExpanderExpand(testInstance *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "tilde_only", input: "~", expected: testHomeDirectoryConstant},
		{name: "tilde_prefix", input: "~/src/project", expected: filepath.Join(testHomeDirectoryConstant, "src", "project")},
		{name: "absolute", input: "/opt/project", expected: "/opt/project"},
		{name: "relative", input: "src", expected: "src"},
		{name: "other_user", input: "~other/src", expected: "~other/src"},
		{name: "empty", input: "", expected: ""},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			require.Equal(subtest, testCase.expected, newTestExpander().Expand(testCase.input))
		})
	}
}

func TestHomeExpanderLeavesPathWhenHomeUnknown(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return "", errors.New("no home")
	})
	require.Equal(testInstance, "~/src", expander.Expand("~/src"))

	_, homeError := expander.HomeDirectory()
	require.Error(testInstance, homeError)
}

func TestHomeExpanderResolveAgainst(testInstance *testing.T) {
	testCases := []struct {
		name      string
		base      string
		candidate string
		expected  string
	}{
		{name: "relative_to_home_base", base: "~", candidate: "src/project", expected: filepath.Join(testHomeDirectoryConstant, "src", "project")},
		{name: "absolute_candidate", base: "~", candidate: "/srv/app/", expected: "/srv/app"},
		{name: "tilde_candidate", base: "/ignored", candidate: "~/work", expected: filepath.Join(testHomeDirectoryConstant, "work")},
		{name: "empty_candidate", base: "~", candidate: "  ", expected: ""},
		{name: "empty_base", base: "", candidate: "./src", expected: "src"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			require.Equal(subtest, testCase.expected, newTestExpander().ResolveAgainst(testCase.base, testCase.candidate))
		})
	}
}
