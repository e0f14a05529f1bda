// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging and error classification via ShellExecutor,
// exposes OSCommandRunner for default process execution, and defines the
// abstractions daybegin uses to run git, shell interpreters, and application
// launchers in a testable manner.
package execshell
