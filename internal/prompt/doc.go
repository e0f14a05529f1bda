// Package prompt provides the interactive capabilities daybegin needs:
// yes/no confirmations and value prompts with defaults. Callers depend on the
// ConfirmationPrompter and ValuePrompter interfaces so tests can script answers.
package prompt
