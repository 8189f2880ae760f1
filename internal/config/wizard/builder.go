package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dsforge/dsinstall/internal/config"
)

// BuildConfig creates an InstanceConfig from the wizard result. Settings
// the wizard does not ask about keep their installer defaults.
func BuildConfig(result *WizardResult) (*config.InstanceConfig, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}

	port, err := strconv.Atoi(strings.TrimSpace(result.Port))
	if err != nil {
		return nil, fmt.Errorf("invalid port %q: %w", result.Port, err)
	}

	cfg.ServerID = strings.TrimSpace(result.ServerID)
	if result.ServerName != "" {
		cfg.ServerName = strings.TrimSpace(result.ServerName)
	}
	cfg.Port = port
	cfg.BindAddress = strings.TrimSpace(result.BindAddress)
	cfg.Suffix = result.Suffix
	cfg.RootDN = result.RootDN
	cfg.RootPW = result.RootPW
	if result.PasswordScheme != "" {
		cfg.PasswordScheme = result.PasswordScheme
	}
	cfg.ServerUser = strings.TrimSpace(result.ServerUser)
	cfg.StartServer = result.StartServer
	cfg.InstallLDIF = strings.TrimSpace(result.InstallLDIF)

	if result.RegisterManagement {
		cfg.RegisterManagement = true
		cfg.AdminUID = result.AdminUID
		cfg.AdminPW = result.AdminPW
	}

	if adv := result.AdvancedOptions; adv != nil {
		applyAdvancedOptions(cfg, adv)
	}

	return cfg, nil
}

// applyAdvancedOptions applies tuning answers to the config.
func applyAdvancedOptions(cfg *config.InstanceConfig, adv *AdvancedOptions) {
	if adv.NumProcs != "" {
		cfg.NumProcs = adv.NumProcs
	}
	if adv.MaxThreads != "" {
		cfg.MaxThreads = adv.MaxThreads
	}
	if adv.MinThreads != "" {
		cfg.MinThreads = adv.MinThreads
	}
	cfg.DisableSchemaChecking = adv.DisableSchemaChecking
	cfg.LDAPIEnabled = adv.LDAPIEnabled
	cfg.LDAPIPath = adv.LDAPIPath
}
