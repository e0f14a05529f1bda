package platform

import (
	"runtime"
	"strings"

	"github.com/temirov/daybegin/internal/execshell"
)

const (
	darwinTagConstant                   = "darwin"
	windowsTagConstant                  = "windows"
	linuxTagConstant                    = "linux"
	posixShellNameConstant              = "sh"
	posixShellCommandFlagConstant       = "-c"
	windowsShellNameConstant            = "cmd"
	windowsShellCommandFlagConstant     = "/C"
	windowsStartCommandConstant         = "start"
	windowsStartTitleConstant           = ""
	windowsStartWaitFlagConstant        = "/WAIT"
	darwinOpenCommandConstant           = "open"
	darwinOpenApplicationFlagConstant   = "-a"
	darwinOpenWaitFlagConstant          = "-W"
	posixDetachedLaunchScriptConstant   = `case "$0" in */*) [ -f "$0" ] && [ -x "$0" ] || exit 127 ;; *) command -v "$0" >/dev/null 2>&1 || exit 127 ;; esac; nohup "$0" >/dev/null 2>&1 &`
	darwinApplicationDirectoryConstant  = "/Applications"
	windowsApplicationDirectoryConstant = `C:\Program Files`
	defaultApplicationDirectoryConstant = "/usr/bin"
)

// Tag identifies an operating system family.
type Tag string

// Known platform tags. Any other tag is treated like Linux.
const (
	TagDarwin  Tag = Tag(darwinTagConstant)
	TagWindows Tag = Tag(windowsTagConstant)
	TagLinux   Tag = Tag(linuxTagConstant)
)

// Current returns the tag of the running operating system.
func Current() Tag {
	return Tag(runtime.GOOS)
}

// ShellCommand wraps commandText in the platform shell interpreter.
func ShellCommand(tag Tag, commandText string) execshell.ShellCommand {
	trimmedCommandText := strings.TrimSpace(commandText)
	if tag == TagWindows {
		return execshell.ShellCommand{
			Name:    execshell.CommandName(windowsShellNameConstant),
			Kind:    execshell.CommandKindShell,
			Details: execshell.CommandDetails{Arguments: []string{windowsShellCommandFlagConstant, trimmedCommandText}, Label: trimmedCommandText},
		}
	}
	return execshell.ShellCommand{
		Name:    execshell.CommandName(posixShellNameConstant),
		Kind:    execshell.CommandKindShell,
		Details: execshell.CommandDetails{Arguments: []string{posixShellCommandFlagConstant, trimmedCommandText}, Label: trimmedCommandText},
	}
}

// ApplicationCommand builds the launcher invocation for applicationPath.
//
// The returning form hands the application to the OS and exits; the blocking
// form returns only after the application exits. On Linux the returning form
// backgrounds the process, so it first exits 127 when the target is not an
// executable file or a command on PATH.
func ApplicationCommand(tag Tag, identifier string, applicationPath string, blocking bool) execshell.ShellCommand {
	kind := execshell.CommandKindApplicationLaunch
	if blocking {
		kind = execshell.CommandKindApplicationWait
	}
	details := execshell.CommandDetails{Label: strings.TrimSpace(identifier)}

	switch tag {
	case TagDarwin:
		arguments := []string{darwinOpenApplicationFlagConstant, applicationPath}
		if blocking {
			arguments = append([]string{darwinOpenWaitFlagConstant}, arguments...)
		}
		details.Arguments = arguments
		return execshell.ShellCommand{Name: execshell.CommandName(darwinOpenCommandConstant), Kind: kind, Details: details}
	case TagWindows:
		arguments := []string{windowsShellCommandFlagConstant, windowsStartCommandConstant, windowsStartTitleConstant}
		if blocking {
			arguments = append(arguments, windowsStartWaitFlagConstant)
		}
		details.Arguments = append(arguments, applicationPath)
		return execshell.ShellCommand{Name: execshell.CommandName(windowsShellNameConstant), Kind: kind, Details: details}
	default:
		if blocking {
			return execshell.ShellCommand{Name: execshell.CommandName(applicationPath), Kind: kind, Details: details}
		}
		details.Arguments = []string{posixShellCommandFlagConstant, posixDetachedLaunchScriptConstant, applicationPath}
		return execshell.ShellCommand{Name: execshell.CommandName(posixShellNameConstant), Kind: kind, Details: details}
	}
}

// DefaultApplicationDirectory returns the directory applications are searched in when none is configured.
func DefaultApplicationDirectory(tag Tag) string {
	switch tag {
	case TagDarwin:
		return darwinApplicationDirectoryConstant
	case TagWindows:
		return windowsApplicationDirectoryConstant
	default:
		return defaultApplicationDirectoryConstant
	}
}
