package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_BufferIsNotStyled(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	p := New(&buf)
	assert.False(t, p.styled)
}

func TestPrinter_PlainOutput(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	p := Plain(&buf)

	p.Title("dsinstall")
	p.Section("Result")
	p.Success("Created new Directory Server")
	p.Failure("servport.error:could not create server ldap1 - in use")

	assert.Equal(t, "dsinstall\n\nResult\n"+
		"[OK] Created new Directory Server\n"+
		"[!!] servport.error:could not create server ldap1 - in use\n", buf.String())
}

func TestPrinter_WarningIndentsContinuationLines(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	Plain(&buf).Warning("No more servers may be installed on this system.\nPlease refer to documentation")

	assert.Equal(t, "[??] No more servers may be installed on this system.\n"+
		"     Please refer to documentation\n", buf.String())
}

func TestPrinter_Rows(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	Plain(&buf).Rows([][2]string{
		{"instance", "/opt/slapd-ldap1"},
		{"changelog dir", ""},
	})

	assert.Equal(t, "  instance       /opt/slapd-ldap1\n"+
		"  changelog dir  -\n", buf.String())
}
