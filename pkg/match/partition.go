package match

import (
	"regexp"
	"strings"
)

// partitionsMatch implements spec.md §4.4's partition-matching rule: two
// entities match on PARTITION when their name sets are equal, share a
// literal name, or one side's glob pattern matches a name on the other
// side (checked in both directions). Two empty partition sets match (the
// default, un-partitioned case).
func partitionsMatch(a, b []string) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	for _, an := range a {
		for _, bn := range b {
			if an == bn {
				return true
			}
			if globMatch(an, bn) || globMatch(bn, an) {
				return true
			}
		}
	}
	return false
}

// globMatch reports whether name matches the DDS partition glob pattern,
// translated to an anchored regexp per spec.md §4.4:
//
//	*       any run of characters
//	?       any single character
//	[...]   a character class, kept as-is; a leading '!' becomes '^'
//	\c      escapes c, taken literally
//	+       kept as a regex quantifier
//	other   escaped literally
//
// A '[' with no matching ']' is not a class: it is taken as a literal
// bracket.
func globMatch(pattern, name string) bool {
	re, err := regexp.Compile(translateGlob(pattern))
	if err != nil {
		return false
	}
	return re.MatchString(name)
}

func translateGlob(pattern string) string {
	var out strings.Builder
	out.WriteByte('^')
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch c {
		case '*':
			out.WriteString(".*")
		case '?':
			out.WriteString(".")
		case '+':
			out.WriteByte('+')
		case '\\':
			if i+1 < len(runes) {
				i++
				out.WriteString(regexp.QuoteMeta(string(runes[i])))
			} else {
				out.WriteString(regexp.QuoteMeta(string(c)))
			}
		case '[':
			end := closingBracket(runes, i)
			if end < 0 {
				out.WriteString(regexp.QuoteMeta("["))
				continue
			}
			out.WriteByte('[')
			class := runes[i+1 : end]
			if len(class) > 0 && class[0] == '!' {
				out.WriteByte('^')
				class = class[1:]
			}
			out.WriteString(string(class))
			out.WriteByte(']')
			i = end
		default:
			out.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	out.WriteByte('$')
	return out.String()
}

func closingBracket(runes []rune, open int) int {
	for j := open + 1; j < len(runes); j++ {
		if runes[j] == ']' {
			return j
		}
	}
	return -1
}
