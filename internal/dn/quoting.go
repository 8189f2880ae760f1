package dn

import "strings"

// IsLegacyQuoted reports whether value contains an unescaped double quote,
// the LDAPv2 way of protecting special characters in attribute values.
func IsLegacyQuoted(value string) bool {
	escaped := false
	for i := 0; i < len(value); i++ {
		switch {
		case escaped:
			escaped = false
		case value[i] == '\\':
			escaped = true
		case value[i] == '"':
			return true
		}
	}
	return false
}

// ConvertLegacyQuoting rewrites quoted attribute values in RFC 4514 escaped
// form, e.g. `cn="Doe, John",o=x` becomes `cn=Doe\, John,o=x`.
func ConvertLegacyQuoting(value string) string {
	var out strings.Builder
	out.Grow(len(value) + 8)

	var quoted strings.Builder
	inQuotes := false
	escaped := false
	for i := 0; i < len(value); i++ {
		c := value[i]
		if inQuotes {
			switch {
			case escaped:
				quoted.WriteByte(c)
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				out.WriteString(escapeValue(quoted.String()))
				quoted.Reset()
				inQuotes = false
			default:
				quoted.WriteByte(c)
			}
			continue
		}
		switch {
		case escaped:
			out.WriteByte(c)
			escaped = false
		case c == '\\':
			out.WriteByte(c)
			escaped = true
		case c == '"':
			inQuotes = true
		default:
			out.WriteByte(c)
		}
	}
	if inQuotes {
		// Unterminated quote: keep what was collected, escaped.
		out.WriteString(escapeValue(quoted.String()))
	}
	return out.String()
}

// escapeValue escapes special characters in a DN attribute value according
// to RFC 4514.
func escapeValue(value string) string {
	if value == "" {
		return value
	}

	var b strings.Builder
	b.Grow(len(value) + 8)
	last := len(value) - 1
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch c {
		case ',', '+', '"', '\\', '<', '>', ';':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '#':
			if i == 0 {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
		case ' ':
			if i == 0 || i == last {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
		case 0:
			b.WriteString("\\00")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
