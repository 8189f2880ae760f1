package wizard

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/dsforge/dsinstall/internal/dn"
	"github.com/dsforge/dsinstall/internal/provisioning/validation"
)

// runIdentityGroup prompts for the server id, host name and port.
func runIdentityGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server Identifier").
				Description("Names the instance directory, e.g. slapd-<id>").
				Value(&result.ServerID).
				Validate(validateServerID),
			huh.NewInput().
				Title("Server Name").
				Description("Fully qualified host name clients use").
				Value(&result.ServerName),
			huh.NewInput().
				Title("Port").
				Description("LDAP port the server listens on").
				Value(&result.Port).
				Validate(validatePort),
			huh.NewInput().
				Title("Bind Address (Optional)").
				Description("Leave empty to listen on all interfaces").
				Value(&result.BindAddress),
		).Title("Server Identity"),
	).RunWithContext(ctx)
}

// runNamingGroup prompts for the suffix and the directory manager DN.
func runNamingGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Suffix").
				Description("Root of the directory tree, e.g. dc=example, dc=com").
				Value(&result.Suffix).
				Validate(validateDN),
			huh.NewInput().
				Title("Directory Manager DN").
				Value(&result.RootDN).
				Validate(validateDN),
		).Title("Directory Naming"),
	).RunWithContext(ctx)
}

// runCredentialsGroup prompts for the directory manager password twice and
// the storage scheme.
func runCredentialsGroup(ctx context.Context, result *WizardResult) error {
	var confirm string

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Directory Manager Password").
				EchoMode(huh.EchoModePassword).
				Value(&result.RootPW).
				Validate(validatePassword),
			huh.NewInput().
				Title("Confirm Password").
				EchoMode(huh.EchoModePassword).
				Value(&confirm).
				Validate(func(s string) error {
					return validateConfirm(result.RootPW, s)
				}),
			huh.NewSelect[string]().
				Title("Password Storage Scheme").
				Options(SchemesToOptions()...).
				Value(&result.PasswordScheme),
		).Title("Credentials"),
	).RunWithContext(ctx)
}

// runRuntimeGroup prompts for the run-as user, start-up and initial data.
func runRuntimeGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server User (Optional)").
				Description("Account the server runs as; ignored on Windows").
				Value(&result.ServerUser),
			huh.NewConfirm().
				Title("Start the server after installation?").
				Value(&result.StartServer),
			huh.NewInput().
				Title("Initial LDIF (Optional)").
				Description("Local path or s3:// URL imported after start").
				Value(&result.InstallLDIF),
		).Title("Runtime"),
	).RunWithContext(ctx)
}

// runManagementGroup asks whether to register with the management topology
// and, if so, for the administrator credentials.
func runManagementGroup(ctx context.Context, result *WizardResult) error {
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Register with the management topology?").
				Description("Adds o=NetscapeRoot entries; the server will be started").
				Value(&result.RegisterManagement),
		).Title("Management"),
	).RunWithContext(ctx)
	if err != nil || !result.RegisterManagement {
		return err
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Administrator UID").
				Value(&result.AdminUID).
				Validate(validateRequired),
			huh.NewInput().
				Title("Administrator Password").
				EchoMode(huh.EchoModePassword).
				Value(&result.AdminPW).
				Validate(validatePassword),
		).Title("Management Administrator"),
	).RunWithContext(ctx)
}

// runTuningGroup prompts for thread counts and optional features.
func runTuningGroup(ctx context.Context, adv *AdvancedOptions) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Processes").
				Value(&adv.NumProcs).
				Validate(validateThreads),
			huh.NewInput().
				Title("Maximum Threads").
				Value(&adv.MaxThreads).
				Validate(validateThreads),
			huh.NewInput().
				Title("Minimum Threads").
				Value(&adv.MinThreads).
				Validate(validateThreads),
			huh.NewConfirm().
				Title("Disable schema checking?").
				Value(&adv.DisableSchemaChecking),
			huh.NewConfirm().
				Title("Enable LDAPI?").
				Value(&adv.LDAPIEnabled),
		).Title("Tuning"),
	).RunWithContext(ctx)
}

func validateServerID(s string) error {
	if strings.TrimSpace(s) == "" {
		return errServerIDRequired
	}
	if fe := validation.CheckServerID(s); fe != nil {
		return fe
	}
	return nil
}

func validatePort(s string) error {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || p < 1 || p > 65535 {
		return errPortInvalid
	}
	return nil
}

func validateDN(s string) error {
	if strings.TrimSpace(s) == "" {
		return errDNRequired
	}
	if !dn.IsValid(s) {
		return errDNInvalid
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < 8 {
		return errPasswordShort
	}
	return nil
}

func validateConfirm(pw, confirm string) error {
	if pw != confirm {
		return errPasswordMismatch
	}
	return nil
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errValueRequired
	}
	return nil
}

func validateThreads(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return errThreadsInvalid
	}
	return nil
}
