package wizard

import (
	"context"
	"fmt"

	"github.com/dsforge/dsinstall/internal/config"
)

// WizardResult holds all the answers from the interactive wizard.
type WizardResult struct {
	// Identity
	ServerID   string
	ServerName string

	// Network
	Port        string
	BindAddress string

	// Naming
	Suffix         string
	RootDN         string
	RootPW         string
	PasswordScheme string

	// Runtime
	ServerUser  string
	StartServer bool
	InstallLDIF string

	// Management integration
	RegisterManagement bool
	AdminUID           string
	AdminPW            string

	// Advanced options (only set in advanced mode)
	AdvancedOptions *AdvancedOptions
}

// AdvancedOptions holds tuning settings most installs leave at defaults.
type AdvancedOptions struct {
	NumProcs              string
	MaxThreads            string
	MinThreads            string
	DisableSchemaChecking bool
	LDAPIEnabled          bool
	LDAPIPath             string
}

// NewResult returns a result prefilled with installer defaults.
func NewResult() (*WizardResult, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	return &WizardResult{
		ServerID:       cfg.ServerID,
		ServerName:     cfg.ServerName,
		Port:           fmt.Sprintf("%d", cfg.Port),
		Suffix:         cfg.Suffix,
		RootDN:         cfg.RootDN,
		PasswordScheme: cfg.PasswordScheme,
		ServerUser:     cfg.ServerUser,
		StartServer:    cfg.StartServer,
		AdminUID:       "admin",
	}, nil
}

// RunWizard runs the interactive configuration wizard.
// If advanced is true, additional configuration options are shown.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context, advanced bool) (*WizardResult, error) {
	result, err := NewResult()
	if err != nil {
		return nil, err
	}

	if err := runIdentityGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("identity: %w", err)
	}

	if err := runNamingGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("naming: %w", err)
	}

	if err := runCredentialsGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("credentials: %w", err)
	}

	if err := runRuntimeGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("runtime: %w", err)
	}

	if err := runManagementGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("management: %w", err)
	}

	if advanced {
		adv := &AdvancedOptions{NumProcs: "4", MaxThreads: "32", MinThreads: "4"}
		if err := runTuningGroup(ctx, adv); err != nil {
			return nil, fmt.Errorf("tuning: %w", err)
		}
		result.AdvancedOptions = adv
	}

	return result, nil
}
