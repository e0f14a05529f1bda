package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const homeShortcut = "~"

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander resolves "~" and "~/..." paths against the user's home directory.
// The provider is consulted at most once.
type HomeExpander struct {
	lookupHome func() (string, error)
}

// NewHomeExpander returns an expander backed by os.UserHomeDir.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider returns an expander backed by provider, or os.UserHomeDir when provider is nil.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{lookupHome: sync.OnceValues(provider)}
}

// HomeDirectory returns the resolved home directory, or an error when it cannot be determined.
func (expander *HomeExpander) HomeDirectory() (string, error) {
	return expander.lookupHome()
}

// Expand replaces a leading "~" or "~/" with the home directory.
// "~user" forms and paths without a shortcut are returned unchanged, as is every path when the home directory is unknown.
func (expander *HomeExpander) Expand(candidatePath string) string {
	remainder, hasShortcut := strings.CutPrefix(candidatePath, homeShortcut)
	if expander == nil || !hasShortcut {
		return candidatePath
	}
	if len(remainder) > 0 && remainder[0] != '/' && remainder[0] != os.PathSeparator {
		return candidatePath
	}

	homeDirectory, homeError := expander.HomeDirectory()
	if homeError != nil || len(homeDirectory) == 0 {
		return candidatePath
	}
	if len(remainder) == 0 {
		return homeDirectory
	}
	return filepath.Join(homeDirectory, remainder[1:])
}

// ResolveAgainst expands candidatePath and, when it is relative, joins it to the expanded baseDirectory.
// A blank candidatePath resolves to "".
func (expander *HomeExpander) ResolveAgainst(baseDirectory string, candidatePath string) string {
	candidate := strings.TrimSpace(candidatePath)
	if len(candidate) == 0 {
		return ""
	}

	resolved := expander.Expand(candidate)
	if !filepath.IsAbs(resolved) {
		if base := expander.Expand(strings.TrimSpace(baseDirectory)); len(base) > 0 {
			resolved = filepath.Join(base, resolved)
		}
	}
	return filepath.Clean(resolved)
}
