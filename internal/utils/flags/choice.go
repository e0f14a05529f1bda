package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	choiceSeparator          = "|"
	choiceParseErrorTemplate = "invalid value %q, expected one of %s"
	choiceTypeName           = "choice"
)

// FormatChoiceUsage renders "`<a|B|c>` description", upper-casing the default choice.
// Blank and repeated choices are left out of the placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	defaultKey := strings.ToLower(strings.TrimSpace(defaultChoice))
	var rendered []string
	for _, choice := range distinctChoices(choices) {
		if strings.ToLower(choice) == defaultKey {
			choice = strings.ToUpper(choice)
		}
		rendered = append(rendered, choice)
	}
	return usageWithPlaceholder("<"+strings.Join(rendered, choiceSeparator)+">", description)
}

// AddChoiceFlag registers a string flag that only accepts one of choices, compared case-insensitively.
// The target keeps its current value until the flag is set, and receives the choice as spelled in choices.
func AddChoiceFlag(flagSet *pflag.FlagSet, target *string, name string, defaultChoice string, choices []string, description string) {
	if flagSet == nil || target == nil || len(name) == 0 {
		return
	}
	allowed := distinctChoices(choices)
	flagSet.Var(&parsedValue[string]{
		target:   target,
		parse:    func(rawValue string) (string, error) { return matchChoice(rawValue, allowed) },
		render:   func(current string) string { return current },
		typeName: choiceTypeName,
	}, name, FormatChoiceUsage(defaultChoice, choices, description))
}

func matchChoice(rawValue string, allowed []string) (string, error) {
	wanted := strings.TrimSpace(rawValue)
	for _, choice := range allowed {
		if strings.EqualFold(choice, wanted) {
			return choice, nil
		}
	}
	return "", fmt.Errorf(choiceParseErrorTemplate, rawValue, strings.Join(allowed, choiceSeparator))
}

func distinctChoices(choices []string) []string {
	seen := make(map[string]bool, len(choices))
	distinct := make([]string, 0, len(choices))
	for _, choice := range choices {
		trimmed := strings.TrimSpace(choice)
		key := strings.ToLower(trimmed)
		if len(trimmed) == 0 || seen[key] {
			continue
		}
		seen[key] = true
		distinct = append(distinct, trimmed)
	}
	return distinct
}
