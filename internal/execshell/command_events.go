package execshell

import "time"

// CommandEvent is one lifecycle notification for a command.
// Result is set on completion, Failure on a spawn failure, and Elapsed on both.
type CommandEvent struct {
	Command ShellCommand
	Result  ExecutionResult
	Failure error
	Elapsed time.Duration
}

// CommandEventObserver receives command lifecycle notifications from ShellExecutor.
type CommandEventObserver interface {
	CommandStarted(event CommandEvent)
	CommandCompleted(event CommandEvent)
	CommandExecutionFailed(event CommandEvent)
}

// CommandEventObservers fans every event out to its members in order. Nil members are ignored.
type CommandEventObservers []CommandEventObserver

// CommandStarted implements CommandEventObserver.
func (observers CommandEventObservers) CommandStarted(event CommandEvent) {
	for _, observer := range observers {
		if observer != nil {
			observer.CommandStarted(event)
		}
	}
}

// CommandCompleted implements CommandEventObserver.
func (observers CommandEventObservers) CommandCompleted(event CommandEvent) {
	for _, observer := range observers {
		if observer != nil {
			observer.CommandCompleted(event)
		}
	}
}

// CommandExecutionFailed implements CommandEventObserver.
func (observers CommandEventObservers) CommandExecutionFailed(event CommandEvent) {
	for _, observer := range observers {
		if observer != nil {
			observer.CommandExecutionFailed(event)
		}
	}
}
