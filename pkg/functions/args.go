package functions

import (
	"fmt"
	"regexp"
	"strings"
)

// argPattern matches "name (type1, type2, optional, default=value)".
var argPattern = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*(?:\((.*)\))?\s*$`)

// ParseArg parses an argument declaration such as
// "value2 (number, range<number>, repeating)".
func ParseArg(decl, description string) (ArgDefinition, error) {
	m := argPattern.FindStringSubmatch(decl)
	if m == nil {
		return ArgDefinition{}, fmt.Errorf("invalid argument declaration %q", decl)
	}
	arg := ArgDefinition{Name: m[1], Description: description}
	if strings.TrimSpace(m[2]) == "" {
		arg.Type = []ArgType{TypeAny}
		return arg, nil
	}

	for _, part := range splitArgParams(m[2]) {
		part = strings.TrimSpace(part)
		lower := strings.ToLower(part)
		switch {
		case lower == "optional":
			arg.Optional = true
		case lower == "repeating":
			arg.Repeating = true
		case strings.HasPrefix(lower, "default="):
			arg.Default = strings.TrimSpace(part[len("default="):])
			if arg.Default == "" {
				return ArgDefinition{}, fmt.Errorf("argument %q: empty default value", arg.Name)
			}
		default:
			t := ArgType(strings.ToUpper(strings.ReplaceAll(part, " ", "")))
			if !knownTypes[t] {
				return ArgDefinition{}, fmt.Errorf("argument %q: unknown type %q", arg.Name, part)
			}
			arg.Type = append(arg.Type, t)
		}
	}
	if len(arg.Type) == 0 {
		arg.Type = []ArgType{TypeAny}
	}
	return arg, nil
}

// Arg is like ParseArg but panics if the declaration is malformed.
// It simplifies the initialization of registries.
func Arg(decl, description string) ArgDefinition {
	arg, err := ParseArg(decl, description)
	if err != nil {
		panic("functions: " + err.Error())
	}
	return arg
}

// splitArgParams splits on commas that are not inside a quoted default.
func splitArgParams(s string) []string {
	var parts []string
	inQuote := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
