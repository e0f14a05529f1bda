package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const (
	affirmativeShortAnswerConstant = "y"
	affirmativeLongAnswerConstant  = "yes"
	confirmationSuffixConstant     = " (y/n): "
	valuePromptTemplateConstant    = "%s [%s]: "
	listSeparatorConstant          = ","
	listDisplaySeparatorConstant   = ", "
	assumedAnswerConstant          = "y\n"
)

// ErrInputClosed reports that input ended before an answer was given. It wraps io.EOF.
var ErrInputClosed = fmt.Errorf("input closed before an answer was given: %w", io.EOF)

// ConfirmationPrompter asks the user a yes/no question.
type ConfirmationPrompter interface {
	Confirm(prompt string) (bool, error)
}

// ValuePrompter asks the user for free-form values with defaults.
type ValuePrompter interface {
	PromptValue(label string, defaultValue string) (string, error)
	PromptList(label string, defaultValues []string) ([]string, error)
}

// IOPrompter reads responses from an io.Reader and writes prompts to an io.Writer.
type IOPrompter struct {
	reader      *bufio.Reader
	writer      io.Writer
	promptColor *color.Color
}

// NewIOPrompter constructs a prompter from the provided reader and writer.
func NewIOPrompter(input io.Reader, output io.Writer) *IOPrompter {
	if input == nil {
		input = strings.NewReader("")
	}
	return &IOPrompter{
		reader:      bufio.NewReader(input),
		writer:      output,
		promptColor: color.New(color.FgCyan, color.Bold),
	}
}

// Confirm writes the prompt and interprets affirmative responses (y/yes).
func (prompter *IOPrompter) Confirm(prompt string) (bool, error) {
	if writeError := prompter.writePrompt(prompt + confirmationSuffixConstant); writeError != nil {
		return false, writeError
	}

	response, readError := prompter.readLine()
	if readError != nil {
		return false, readError
	}

	switch strings.ToLower(response) {
	case affirmativeShortAnswerConstant, affirmativeLongAnswerConstant:
		return true, nil
	default:
		return false, nil
	}
}

// PromptValue asks for a value and returns defaultValue when the answer is blank.
func (prompter *IOPrompter) PromptValue(label string, defaultValue string) (string, error) {
	if writeError := prompter.writePrompt(fmt.Sprintf(valuePromptTemplateConstant, label, defaultValue)); writeError != nil {
		return "", writeError
	}

	response, readError := prompter.readLine()
	if readError != nil {
		return "", readError
	}
	if len(response) == 0 {
		return defaultValue, nil
	}
	return response, nil
}

// PromptList asks for comma-separated values and returns defaultValues when the answer is blank.
func (prompter *IOPrompter) PromptList(label string, defaultValues []string) ([]string, error) {
	defaultDisplay := strings.Join(defaultValues, listDisplaySeparatorConstant)
	if writeError := prompter.writePrompt(fmt.Sprintf(valuePromptTemplateConstant, label, defaultDisplay)); writeError != nil {
		return nil, writeError
	}

	response, readError := prompter.readLine()
	if readError != nil {
		return nil, readError
	}
	if len(response) == 0 {
		return append([]string{}, defaultValues...), nil
	}

	values := make([]string, 0)
	for _, candidate := range strings.Split(response, listSeparatorConstant) {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		values = append(values, trimmed)
	}
	return values, nil
}

func (prompter *IOPrompter) writePrompt(prompt string) error {
	if prompter.writer == nil {
		return nil
	}
	_, writeError := prompter.promptColor.Fprint(prompter.writer, prompt)
	return writeError
}

// readLine returns the next trimmed line. A final line without a newline is still an answer;
// reaching EOF with nothing read yields ErrInputClosed.
func (prompter *IOPrompter) readLine() (string, error) {
	response, readError := prompter.reader.ReadString('\n')
	switch {
	case readError == nil:
		return strings.TrimSpace(response), nil
	case errors.Is(readError, io.EOF) && len(response) > 0:
		return strings.TrimSpace(response), nil
	case errors.Is(readError, io.EOF):
		return "", ErrInputClosed
	default:
		return "", readError
	}
}

// AssumeYesPrompter answers every confirmation affirmatively without reading input.
type AssumeYesPrompter struct {
	writer io.Writer
}

// NewAssumeYesPrompter constructs a prompter that echoes each prompt to output and confirms it.
func NewAssumeYesPrompter(output io.Writer) *AssumeYesPrompter {
	return &AssumeYesPrompter{writer: output}
}

// Confirm implements ConfirmationPrompter.
func (prompter *AssumeYesPrompter) Confirm(prompt string) (bool, error) {
	if prompter.writer != nil {
		if _, writeError := io.WriteString(prompter.writer, prompt+confirmationSuffixConstant+assumedAnswerConstant); writeError != nil {
			return false, writeError
		}
	}
	return true, nil
}
