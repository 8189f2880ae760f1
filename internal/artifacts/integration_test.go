package artifacts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuffixEntry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		suffix string
		class  string
		attr   string
		value  string
	}{
		{"dc=example,dc=com", "domain", "dc", "example"},
		{"o=NetscapeRoot", "organization", "o", "NetscapeRoot"},
		{"ou=People,o=x", "organizationalUnit", "ou", "People"},
		{"cn=stuff", "extensibleObject", "cn", "stuff"},
	}
	for _, tt := range tests {
		t.Run(tt.suffix, func(t *testing.T) {
			t.Parallel()
			e, err := SuffixEntry(tt.suffix)
			require.NoError(t, err)
			assert.Equal(t, tt.suffix, e.DN)
			assert.Equal(t, []string{"top", tt.class}, e.Get("objectclass"))
			assert.Equal(t, tt.value, e.First(tt.attr))
		})
	}

	_, err := SuffixEntry("")
	assert.Error(t, err)
}

func TestIntegrationEntries(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.RegisterManagement = true
	cfg.NetscapeRoot = "o=NetscapeRoot"
	cfg.AdminUID = "admin"
	cfg.ConsumerDN = "cn=consumer,cn=config"

	entries, err := IntegrationEntries(cfg, "{SSHA}a", "{SSHA}c")
	require.NoError(t, err)

	var dns []string
	for _, e := range entries {
		dns = append(dns, e.DN)
	}
	assert.Equal(t, []string{
		"dc=example,dc=com",
		"o=NetscapeRoot",
		"ou=TopologyManagement,o=NetscapeRoot",
		"ou=Administrators,ou=TopologyManagement,o=NetscapeRoot",
		"uid=admin,ou=Administrators,ou=TopologyManagement,o=NetscapeRoot",
		"cn=consumer,cn=config",
	}, dns)
	assert.Equal(t, "{SSHA}a", entries[4].First("userPassword"))
	assert.Equal(t, "{SSHA}c", entries[5].First("userPassword"))
	assert.Equal(t, []string{"consumer"}, entries[5].Get("cn"))
}

func TestIntegrationEntries_ExistingDirectories(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.UseExistingUserDS = true
	cfg.UseExistingConfigDS = true
	cfg.NetscapeRoot = "o=NetscapeRoot"
	cfg.AdminUID = "uid=admin,o=elsewhere"

	entries, err := IntegrationEntries(cfg, "", "")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, "uid=admin,o=elsewhere", AdminDN(cfg))
}
