package validation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dsforge/dsinstall/internal/config"
	"github.com/dsforge/dsinstall/internal/dn"
	"github.com/dsforge/dsinstall/internal/netutil"
	"github.com/dsforge/dsinstall/internal/platform"
	"github.com/dsforge/dsinstall/internal/provisioning"

	"github.com/google/uuid"
)

// ShellChars may not appear in a server id.
const ShellChars = "/ &;`'\"|*!?~<>^()[]{}$\\"

// MinPasswordLength is the shortest accepted root password.
const MinPasswordLength = 8

const msgNoValue = "No value specified for the parameter."

// Report carries what validation learned about the host.
type Report struct {
	// PortsVerified is set when the port checks ran and passed.
	PortsVerified bool
	// Owner is the resolved run-as account when files must be chowned to it.
	Owner *platform.Account
}

// Validate runs the checks in order and returns the first failure.
// Advisories, such as LDAPv2 quoting conversions, are passed to advise.
func Validate(ctx context.Context, cfg *config.InstanceConfig, ops platform.Ops, advise func(string)) (Report, *provisioning.FieldError) {
	if advise == nil {
		advise = func(string) {}
	}
	var report Report

	if cfg.NeedsStart() {
		if ferr := checkPorts(ctx, cfg, ops, advise); ferr != nil {
			return report, ferr
		}
		report.PortsVerified = true
	}

	if ferr := CheckServerID(cfg.ServerID); ferr != nil {
		return report, ferr
	}

	if ops.Kind() == platform.POSIX {
		owner, ferr := checkUser(cfg.ServerUser, ops)
		if ferr != nil {
			return report, ferr
		}
		report.Owner = owner
	}

	if ferr := checkThreads(cfg, ops.Kind()); ferr != nil {
		return report, ferr
	}

	if ferr := checkDNs(cfg, advise); ferr != nil {
		return report, ferr
	}

	if ferr := checkPasswords(cfg); ferr != nil {
		return report, ferr
	}

	if ferr := checkAdminUID(cfg.AdminUID, advise); ferr != nil {
		return report, ferr
	}

	return report, nil
}

// CheckPort validates one port number and probes it.
func CheckPort(ctx context.Context, field, address string, port int, ops platform.Ops, advise func(string)) *provisioning.FieldError {
	if port < 1 || port > 65535 {
		return provisioning.NewFieldError(field, "Valid port numbers are between 1 and 65535")
	}
	state, err := ops.BindTest(ctx, address, port)
	if err != nil {
		advise(fmt.Sprintf("Port %d: that port is not available (%v)", port, err))
		return nil
	}
	switch state {
	case netutil.PortInUse:
		return provisioning.NewFieldError(field, "Port %d is already in use", port)
	case netutil.PortDenied:
		return provisioning.NewFieldError(field, "Ports below 1024 require super user access.  "+
			"You must run the installation as root to install on that port.")
	}
	return nil
}

// CheckPrimaryPort checks the clear port. Port 0 is accepted when an LDAPI
// socket is configured.
func CheckPrimaryPort(ctx context.Context, cfg *config.InstanceConfig, ops platform.Ops, advise func(string)) *provisioning.FieldError {
	if cfg.Port == 0 && cfg.LDAPIEnabled && cfg.LDAPIPath != "" {
		return nil
	}
	return CheckPort(ctx, "servport", cfg.BindAddress, cfg.Port, ops, advise)
}

func checkPorts(ctx context.Context, cfg *config.InstanceConfig, ops platform.Ops, advise func(string)) *provisioning.FieldError {
	if ferr := CheckPrimaryPort(ctx, cfg, ops, advise); ferr != nil {
		return ferr
	}
	if cfg.Secure && cfg.SecurePort != 0 {
		return CheckPort(ctx, "secservport", cfg.BindAddress, cfg.SecurePort, ops, advise)
	}
	return nil
}

// CheckServerID rejects server ids containing shell metacharacters.
func CheckServerID(id string) *provisioning.FieldError {
	if i := strings.IndexAny(id, ShellChars); i >= 0 {
		return provisioning.NewFieldError("servid",
			"You used a shell-specific character in your server id (the character was %c).", id[i])
	}
	return nil
}

// checkUser resolves the run-as user. When running privileged, it also
// proves that a file can be chowned to that user and returns the account
// so created files are handed over.
func checkUser(name string, ops platform.Ops) (*platform.Account, *provisioning.FieldError) {
	if name == "" {
		return nil, nil
	}
	acct, err := ops.LookupUser(name)
	if err != nil || acct == nil {
		return nil, provisioning.NewFieldError("servuser",
			"Can't find a user named '%s'.\nPlease select or create another user.", name)
	}
	if !ops.IsPrivileged() {
		return nil, nil
	}

	scratch := filepath.Join(os.TempDir(), "trychown."+uuid.NewString())
	// #nosec G304 -- scratch name is generated here
	f, err := os.Create(scratch)
	if err != nil {
		return acct, nil
	}
	_ = f.Close()
	defer func() { _ = os.Remove(scratch) }()

	if err := ops.Chown(scratch, acct); err != nil {
		return nil, provisioning.NewFieldError("servuser",
			"Can't change a file to be owned by %s.\nPlease select or create another user.", name)
	}
	return acct, nil
}

// positiveNumber reports whether s is all digits and greater than zero.
func positiveNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	n, err := strconv.Atoi(s)
	return err == nil && n > 0
}

func checkThreads(cfg *config.InstanceConfig, kind platform.Kind) *provisioning.FieldError {
	if kind == platform.POSIX && !positiveNumber(cfg.NumProcs) {
		return provisioning.NewFieldError("numprocs", "The number of processes must be not be zero or negative.")
	}
	if !positiveNumber(cfg.MaxThreads) {
		return provisioning.NewFieldError("maxthreads", "The maximum threads must be not be zero or negative.")
	}
	if !positiveNumber(cfg.MinThreads) {
		return provisioning.NewFieldError("minthreads", "The minumum threads must be not be zero or negative.")
	}
	minT, _ := strconv.Atoi(cfg.MinThreads)
	maxT, _ := strconv.Atoi(cfg.MaxThreads)
	if minT > maxT {
		return provisioning.NewFieldError("minthreads", "Minimum threads must be less than maximum threads.")
	}
	return nil
}

// CheckDN validates value as a DN for field.
func CheckDN(field, value string) *provisioning.FieldError {
	if strings.TrimSpace(value) == "" {
		return provisioning.NewFieldError(field, msgNoValue)
	}
	if !dn.IsValid(value) {
		return provisioning.NewFieldError(field, "The given value [%s] is not a valid DN.", value)
	}
	return nil
}

// QuotingAdvisory returns the conversion notice for an LDAPv2 quoted DN, or
// "" when value is not quoted that way.
func QuotingAdvisory(value string) string {
	if value == "" || !dn.IsLegacyQuoted(value) {
		return ""
	}
	return fmt.Sprintf("The given value [%s] is quoted in the deprecated LDAPv2 style quoting format. "+
		"It will be automatically converted to use the LDAPv3 style escaped format [%s].",
		value, dn.ConvertLegacyQuoting(value))
}

func checkDNs(cfg *config.InstanceConfig, advise func(string)) *provisioning.FieldError {
	note := func(v string) {
		if msg := QuotingAdvisory(v); msg != "" {
			advise(msg)
		}
	}

	if !cfg.UseExistingUserDS {
		if ferr := CheckDN("suffix", cfg.Suffix); ferr != nil {
			return ferr
		}
	}
	note(cfg.Suffix)

	if ferr := CheckDN("rootdn", cfg.RootDN); ferr != nil {
		return ferr
	}
	note(cfg.RootDN)

	optional := []struct{ field, value string }{
		{"replicationdn", cfg.ReplicationDN},
		{"consumerdn", cfg.ConsumerDN},
		{"changelogsuffix", cfg.ChangelogSuffix},
		{"netscaperoot", cfg.NetscapeRoot},
		{"samplesuffix", cfg.SampleSuffix},
	}
	for _, o := range optional {
		if o.value == "" {
			continue
		}
		if ferr := CheckDN(o.field, o.value); ferr != nil {
			return ferr
		}
		note(o.value)
	}
	return nil
}

func eightBit(field, value string) *provisioning.FieldError {
	if dn.Contains8Bit(value) {
		return provisioning.NewFieldError(field, "The given value [%s] contains invalid 8 bit characters.", value)
	}
	return nil
}

func checkPasswords(cfg *config.InstanceConfig) *provisioning.FieldError {
	if ferr := eightBit("rootpw", cfg.RootPW); ferr != nil {
		return ferr
	}
	if cfg.RootPWHashed == "" && len(cfg.RootPW) < MinPasswordLength {
		return provisioning.NewFieldError("rootpw", "The password must be at least %d characters long.", MinPasswordLength)
	}
	secrets := []struct{ field, value string }{
		{"cfg_sspt_uidpw", cfg.AdminPW},
		{"replicationpw", cfg.ReplicationPW},
		{"consumerpw", cfg.ConsumerPW},
	}
	for _, s := range secrets {
		if ferr := eightBit(s.field, s.value); ferr != nil {
			return ferr
		}
	}
	return nil
}

// checkAdminUID accepts a DN, or failing that a bare uid without 8-bit
// characters.
func checkAdminUID(uid string, advise func(string)) *provisioning.FieldError {
	if uid == "" {
		return nil
	}
	if dn.IsValid(uid) {
		if msg := QuotingAdvisory(uid); msg != "" {
			advise(msg)
		}
		return nil
	}
	return eightBit("cfg_sspt_uid", uid)
}
