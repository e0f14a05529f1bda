package flags

import (
	"fmt"
	"strings"
)

const (
	placeholderOnlyUsageTemplate        = "`%s`"
	placeholderDescriptionUsageTemplate = "`%s` %s"
)

// parsedValue adapts a parse function into a pflag.Value that writes through to target.
type parsedValue[T any] struct {
	target *T
	parse    func(string) (T, error)
	render   func(T) string
	typeName string
}

func (value *parsedValue[T]) Set(rawValue string) error {
	parsed, parseError := value.parse(rawValue)
	if parseError != nil {
		return parseError
	}
	*value.target = parsed
	return nil
}

func (value *parsedValue[T]) String() string {
	if value == nil || value.target == nil {
		return ""
	}
	return value.render(*value.target)
}

func (value *parsedValue[T]) Type() string {
	return value.typeName
}

func usageWithPlaceholder(placeholder string, description string) string {
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf(placeholderOnlyUsageTemplate, placeholder)
	}
	return fmt.Sprintf(placeholderDescriptionUsageTemplate, placeholder, trimmedDescription)
}
