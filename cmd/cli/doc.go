// Package cli wires the daybegin root command: it loads configuration,
// builds the logger, and runs the daily routine.
package cli
