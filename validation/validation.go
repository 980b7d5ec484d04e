package validation

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
)

type Violations struct {
	Errors map[string][]error
}

func (violations Violations) IsEmpty() bool {
	return len(violations.Errors) == 0
}

// Error joins every violation, sorted by attribute name.
func (violations Violations) Error() string {
	names := make([]string, 0, len(violations.Errors))
	for name := range violations.Errors {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		for _, err := range violations.Errors[name] {
			if b.Len() > 0 {
				b.WriteString("; ")
			}
			b.WriteString(err.Error())
		}
	}

	return b.String()
}

// ValidateMap checks every attribute in data against its rules. Supported
// rules are "required", "min:N", "max:N" and "in:a|b|c".
func ValidateMap(data map[string]any, rules map[string][]string) Violations {
	var violations Violations
	violations.Errors = make(map[string][]error)

	for attributeName, attributeValue := range data {
		attributeRules, attributeRulesExists := rules[attributeName]
		if !attributeRulesExists {
			violations.Errors[attributeName] = append(violations.Errors[attributeName], fmt.Errorf("validation: no rules found :: %s", attributeName))
			continue
		}

		var errorCollection []error
		for _, attributeRule := range attributeRules {
			if err := validate(attributeRule, attributeName, attributeValue); err != nil {
				errorCollection = append(errorCollection, err)
			}
		}

		if len(errorCollection) != 0 {
			violations.Errors[attributeName] = errorCollection
		}
	}

	return violations
}

func validate(rule string, name string, value any) error {
	rule, argument, _ := strings.Cut(rule, ":")

	switch rule {
	case "required":
		{
			err := fmt.Errorf("%s is required", name)

			switch v := value.(type) {
			case nil:
				{
					return err
				}
			case string:
				{
					if v == "" {
						return err
					}
				}
			case []any:
				{
					if len(v) == 0 {
						return err
					}
				}
			}
		}
	case "min", "max":
		{
			bound, err := strconv.Atoi(argument)
			if err != nil {
				return fmt.Errorf("invalid validation rule :: %s:%s", rule, argument)
			}

			size, ok := sizeOf(value)
			if !ok {
				return fmt.Errorf("%s must be a number", name)
			}

			if rule == "min" && size < bound {
				return fmt.Errorf("%s must be at least %d", name, bound)
			}
			if rule == "max" && size > bound {
				return fmt.Errorf("%s must be at most %d", name, bound)
			}
		}
	case "in":
		{
			options := strings.Split(argument, "|")
			if !slices.Contains(options, fmt.Sprint(value)) {
				return fmt.Errorf("%s must be one of %s", name, strings.Join(options, ", "))
			}
		}
	default:
		{
			return fmt.Errorf("invalid validation rule :: %s", rule)
		}
	}

	return nil
}

// sizeOf returns the numeric value of ints and integer strings, and the
// length of any other string.
func sizeOf(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n, true
		}
		return len(v), true
	}

	return 0, false
}
