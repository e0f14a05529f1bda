// Package shellcommands runs the configured shell commands one after another
// in the working directory, halting at the first failure.
package shellcommands
