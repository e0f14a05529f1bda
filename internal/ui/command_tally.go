package ui

import (
	"sync"
	"time"

	"github.com/temirov/daybegin/internal/execshell"
)

// CommandTotals summarizes the commands a run executed.
type CommandTotals struct {
	Started   int
	Succeeded int
	Failed    int
	Elapsed   time.Duration
}

// CommandTally counts command lifecycle events. The zero value is ready to use.
type CommandTally struct {
	mutex  sync.Mutex
	totals CommandTotals
}

// CommandStarted implements execshell.CommandEventObserver by counting the start.
func (tally *CommandTally) CommandStarted(execshell.CommandEvent) {
	tally.mutex.Lock()
	defer tally.mutex.Unlock()
	tally.totals.Started++
}

// CommandCompleted implements execshell.CommandEventObserver by counting the exit as a success or a failure and adding its elapsed time.
func (tally *CommandTally) CommandCompleted(event execshell.CommandEvent) {
	tally.mutex.Lock()
	defer tally.mutex.Unlock()
	if event.Result.ExitCode == 0 {
		tally.totals.Succeeded++
	} else {
		tally.totals.Failed++
	}
	tally.totals.Elapsed += event.Elapsed
}

// CommandExecutionFailed implements execshell.CommandEventObserver by counting a failure and adding its elapsed time.
func (tally *CommandTally) CommandExecutionFailed(event execshell.CommandEvent) {
	tally.mutex.Lock()
	defer tally.mutex.Unlock()
	tally.totals.Failed++
	tally.totals.Elapsed += event.Elapsed
}

// Totals returns a snapshot of the counts so far.
func (tally *CommandTally) Totals() CommandTotals {
	tally.mutex.Lock()
	defer tally.mutex.Unlock()
	return tally.totals
}
