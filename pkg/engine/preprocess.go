package engine

import "strings"

// kwPrefix marks keyword arguments after preprocessing: :x becomes the
// string "__kw_x", which parseArgs recognizes.
const kwPrefix = "__kw_"

// preprocessSource rewrites console source into what zygomys reads:
//
//   - :keyword becomes "__kw_keyword"
//   - kebab-case names become snake_case, so (set-dimensions ...) calls
//     the set_dimensions builtin; a minus sign before a digit or a space
//     is left alone
//   - ; comments become // comments
//
// Text inside double-quoted strings is copied unchanged, so object names
// such as "left-leg" keep their hyphens.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)

	for i := 0; i < len(source); {
		c := source[i]
		switch {
		case c == '"':
			j := stringEnd(source, i)
			out.WriteString(source[i:j])
			i = j

		case c == ';':
			j := strings.IndexByte(source[i:], '\n')
			if j < 0 {
				j = len(source)
			} else {
				j += i
			}
			out.WriteString("//")
			out.WriteString(strings.TrimLeft(source[i:j], ";"))
			i = j

		case c == ':' && i+1 < len(source) && isLetter(source[i+1]):
			j := i + 1
			for j < len(source) && (isNameChar(source[j]) || source[j] == '-') {
				j++
			}
			out.WriteString(`"` + kwPrefix + source[i+1:j] + `"`)
			i = j

		case c == '-' && i > 0 && i+1 < len(source) && isNameChar(source[i-1]) && isLetter(source[i+1]):
			out.WriteByte('_')
			i++

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// stringEnd returns the index just past the string literal opening at i.
// An unterminated literal runs to the end of source.
func stringEnd(source string, i int) int {
	for j := i + 1; j < len(source); j++ {
		switch source[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		}
	}
	return len(source)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
