package flags

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

const (
	toggleParseErrorTemplate  = "invalid toggle value %q"
	toggleEnabledPlaceholder  = "<YES|no>"
	toggleDisabledPlaceholder = "<yes|NO>"
	toggleTypeName            = "bool"
)

var (
	affirmativeLiterals = []string{"true", "yes", "on", "y", "1"}
	negativeLiterals    = []string{"false", "no", "off", "n", "0"}
)

// AddToggleFlag registers a boolean flag that accepts yes/no style values ("--wait", "--wait=no").
// The target is reset to defaultValue at registration.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}
	if target == nil {
		target = new(bool)
	}
	*target = defaultValue

	placeholder := toggleDisabledPlaceholder
	if defaultValue {
		placeholder = toggleEnabledPlaceholder
	}
	flagSet.VarP(&parsedValue[bool]{
		target:   target,
		parse:    ParseToggle,
		render:   strconv.FormatBool,
		typeName: toggleTypeName,
	}, name, shorthand, usageWithPlaceholder(placeholder, usage))
	flagSet.Lookup(name).NoOptDefVal = strconv.FormatBool(true)
}

// ParseToggle interprets yes/no style literals. A blank value means true.
func ParseToggle(rawValue string) (bool, error) {
	literal := strings.ToLower(strings.TrimSpace(rawValue))
	switch {
	case len(literal) == 0:
		return true, nil
	case slices.Contains(affirmativeLiterals, literal):
		return true, nil
	case slices.Contains(negativeLiterals, literal):
		return false, nil
	default:
		return false, fmt.Errorf(toggleParseErrorTemplate, rawValue)
	}
}
