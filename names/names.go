package names

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	capitalizedWord = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	lowerToUpper    = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// VarName converts an object id to a snake case variable name.
// "BoxIN" -> "box_in", "KinaliRobot" -> "kinali_robot".
// The result is always a valid identifier; it is not meant to be inverted.
func VarName(id string) string {
	s := capitalizedWord.ReplaceAllString(id, "${1}_${2}")
	s = lowerToUpper.ReplaceAllString(s, "${1}_${2}")
	s = strings.ToLower(s)
	return sanitize(s)
}

// ModuleName is the file name stem of the module holding an object type.
func ModuleName(typeName string) string {
	return VarName(typeName)
}

// ActionPointBinding is the name bound to an action point in generated modules.
func ActionPointBinding(objectID, apID string) string {
	return sanitize(objectID + "_" + apID)
}

func sanitize(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if i == 0 && unicode.IsDigit(r) {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	ret := b.String()
	if ret == "" {
		return "_"
	}
	if keywords[ret] || universals[ret] {
		ret += "_"
	}
	return ret
}
