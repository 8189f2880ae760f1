// Package dn implements the distinguished-name checks used when validating an
// instance configuration: syntax validity, LDAPv2 quote conversion and
// detection of 8-bit characters.
package dn

import (
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// IsValid reports whether value is a distinguished name with at least one
// RDN whose attributes all carry a type and a value. A bare value such as
// "example" is not a DN. Values using LDAPv2 quoting are converted before
// parsing.
func IsValid(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	if IsLegacyQuoted(value) {
		value = ConvertLegacyQuoting(value)
	}

	parsed, err := ldap.ParseDN(value)
	if err != nil || parsed == nil || len(parsed.RDNs) == 0 {
		return false
	}
	for _, rdn := range parsed.RDNs {
		if len(rdn.Attributes) == 0 {
			return false
		}
		for _, attr := range rdn.Attributes {
			if strings.TrimSpace(attr.Type) == "" || attr.Value == "" {
				return false
			}
		}
	}
	return true
}

// Normalize returns the DN with LDAPv2 quoting converted and surrounding
// whitespace removed. Other formatting is preserved.
func Normalize(value string) string {
	value = strings.TrimSpace(value)
	if IsLegacyQuoted(value) {
		return ConvertLegacyQuoting(value)
	}
	return value
}

// Contains8Bit reports whether s contains any byte with the high bit set.
func Contains8Bit(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return true
		}
	}
	return false
}

// LeadingRDN returns the type and value of the first attribute of the first
// RDN, e.g. ("dc", "example") for "dc=example,dc=com".
func LeadingRDN(value string) (attrType, attrValue string, err error) {
	parsed, err := ldap.ParseDN(Normalize(value))
	if err != nil {
		return "", "", err
	}
	if len(parsed.RDNs) == 0 || len(parsed.RDNs[0].Attributes) == 0 {
		return "", "", fmt.Errorf("%q has no RDN", value)
	}
	a := parsed.RDNs[0].Attributes[0]
	return a.Type, a.Value, nil
}
