// Package platform maps an operating system tag to the invocation forms
// daybegin uses: the shell interpreter for configured commands, the
// application launcher in its returning and blocking forms, and the default
// application directory. Every function is pure so the mapping can be tested
// without spawning processes.
package platform
