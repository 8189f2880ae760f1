package dn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"simple", "dc=example,dc=com", true},
		{"spaces after comma", "dc=example, dc=com", true},
		{"single rdn", "cn=Directory Manager", true},
		{"multi valued rdn", "cn=a+sn=b,o=x", true},
		{"escaped comma", `cn=Doe\, John,o=x`, true},
		{"legacy quoted", `cn="Doe, John",o=x`, true},
		{"empty", "", false},
		{"blank", "   ", false},
		{"bare value", "example", false},
		{"missing value", "cn=", false},
		{"missing type", "=example", false},
		{"trailing garbage", "dc=example,com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsValid(tt.value), tt.value)
		})
	}
}

func TestContains8Bit(t *testing.T) {
	t.Parallel()
	assert.False(t, Contains8Bit(""))
	assert.False(t, Contains8Bit("plain ascii ~!@#$%^&*()"))
	assert.False(t, Contains8Bit("\x7f"))
	assert.True(t, Contains8Bit("caf\xc3\xa9"))
	assert.True(t, Contains8Bit("\x80"))
	assert.True(t, Contains8Bit("pass\xffword"))

	for b := 0; b < 0x80; b++ {
		assert.False(t, Contains8Bit(string([]byte{byte(b)})))
	}
	for b := 0x80; b <= 0xff; b++ {
		assert.True(t, Contains8Bit(string([]byte{'a', byte(b)})))
	}
}

func TestIsLegacyQuoted(t *testing.T) {
	t.Parallel()
	assert.True(t, IsLegacyQuoted(`cn="a, b",o=x`))
	assert.True(t, IsLegacyQuoted(`o="x"`))
	assert.False(t, IsLegacyQuoted(`cn=a\, b,o=x`))
	assert.False(t, IsLegacyQuoted(`cn=a\"b,o=x`))
	assert.False(t, IsLegacyQuoted("dc=example,dc=com"))
}

func TestConvertLegacyQuoting(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{`cn="Doe, John",o=x`, `cn=Doe\, John,o=x`},
		{`o="a+b;c"`, `o=a\+b\;c`},
		{`cn="#1 fan"`, `cn=\#1 fan`},
		{`cn=" padded "`, `cn=\ padded\ `},
		{`cn="say \"hi\""`, `cn=say \"hi\"`},
		{`cn=plain,o=x`, `cn=plain,o=x`},
		{`cn="open`, `cn=open`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ConvertLegacyQuoting(tt.in))
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "dc=example,dc=com", Normalize("  dc=example,dc=com "))
	assert.Equal(t, `o=a\, b`, Normalize(`o="a, b"`))
}

func TestLeadingRDN(t *testing.T) {
	t.Parallel()

	typ, val, err := LeadingRDN("dc=example,dc=com")
	assert.NoError(t, err)
	assert.Equal(t, "dc", typ)
	assert.Equal(t, "example", val)

	typ, val, err = LeadingRDN(`o="Example, Inc",c=US`)
	assert.NoError(t, err)
	assert.Equal(t, "o", typ)
	assert.Equal(t, "Example, Inc", val)

	_, _, err = LeadingRDN("not a dn")
	assert.Error(t, err)
}
