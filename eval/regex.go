package eval

import (
	"regexp"

	predexp "github.com/hugr-lab/predexp-go"
)

// InlineFlags returns the RE2 flag group equivalent to string_regex flags.
// RegexExtended and RegexNoSub do not change matching: RE2 syntax is
// already extended and the evaluator never reports submatches.
func InlineFlags(flags uint32) string {
	prefix := ""
	if flags&predexp.RegexICase != 0 {
		prefix += "i"
	}
	if flags&predexp.RegexNewline != 0 {
		// ^ and $ match at line breaks; . stops at them.
		prefix += "m-s"
	} else {
		prefix += "s"
	}
	return "(?" + prefix + ")"
}

func compileRegex(pattern string, flags uint32) (*regexp.Regexp, error) {
	return regexp.Compile(InlineFlags(flags) + pattern)
}
