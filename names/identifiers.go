package names

import "unicode"

var keywords = map[string]bool{
	"and": true, "break": true, "continue": true, "def": true, "elif": true,
	"else": true, "for": true, "if": true, "in": true, "lambda": true,
	"load": true, "not": true, "or": true, "pass": true, "return": true,
	"while": true,
	// reserved
	"as": true, "assert": true, "async": true, "await": true, "class": true,
	"del": true, "except": true, "finally": true, "from": true, "global": true,
	"import": true, "is": true, "nonlocal": true, "raise": true, "try": true,
	"with": true, "yield": true,
}

var universals = map[string]bool{
	"None": true, "True": true, "False": true,
}

// reserved are attributes of the resources value that are not action bindings,
// and names loaded by generated modules.
var reserved = map[string]bool{
	"objects":       true,
	"project":       true,
	"scene":         true,
	"actions":       true,
	"action_points": true,
	"action":        true,
	"action_point":  true,
	"resources":     true,
}

// Resources is the name of the resources constructor loaded by generated scripts.
const Resources = "Resources"

// IsIdentifier reports whether s can be used verbatim as a binding name.
func IsIdentifier(s string) bool {
	if s == "" || keywords[s] || universals[s] {
		return false
	}
	for i, r := range s {
		if r >= unicode.MaxASCII {
			return false
		}
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// IsReserved reports whether name is an attribute of the resources value that cannot be an action id.
func IsReserved(name string) bool {
	return reserved[name]
}
