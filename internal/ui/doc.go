// Package ui renders process lifecycle events as concise console messages and
// tallies them, so routine progress stays readable while detailed telemetry
// flows through the structured logger.
package ui
