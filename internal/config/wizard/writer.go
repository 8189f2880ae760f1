package wizard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dsforge/dsinstall/internal/config"
)

// Function variable for dependency injection in tests.
var confirmOverwrite = defaultConfirmOverwrite

// WriteConfig writes the config to a YAML file with a descriptive header.
// If fullOutput is false, only the settings the wizard asked about are
// written; the rest fall back to defaults when the file is loaded.
func WriteConfig(cfg *config.InstanceConfig, outputPath string, fullOutput bool) error {
	var yamlBytes []byte
	var err error

	if fullOutput {
		yamlBytes, err = yaml.Marshal(cfg)
	} else {
		yamlBytes, err = yaml.Marshal(buildMinimalConfig(cfg))
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(generateHeader(outputPath, fullOutput))
	sb.WriteString("\n")
	sb.Write(yamlBytes)

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// MinimalConfig is the short form of an instance file. Its keys are a
// subset of InstanceConfig's so the loader accepts it unchanged.
type MinimalConfig struct {
	ServerID           string `yaml:"servid"`
	ServerName         string `yaml:"servname"`
	Port               int    `yaml:"servport"`
	BindAddress        string `yaml:"bind_address,omitempty"`
	Suffix             string `yaml:"suffix"`
	RootDN             string `yaml:"rootdn"`
	RootPW             string `yaml:"rootpw"`
	PasswordScheme     string `yaml:"password_scheme,omitempty"`
	ServerUser         string `yaml:"servuser,omitempty"`
	StartServer        bool   `yaml:"start_server"`
	InstallLDIF        string `yaml:"install_ldif_file,omitempty"`
	RegisterManagement bool   `yaml:"cfg_sspt,omitempty"`
	AdminUID           string `yaml:"cfg_sspt_uid,omitempty"`
	AdminPW            string `yaml:"cfg_sspt_uidpw,omitempty"`
	NumProcs           string `yaml:"numprocs,omitempty"`
	MaxThreads         string `yaml:"maxthreads,omitempty"`
	MinThreads         string `yaml:"minthreads,omitempty"`
	DisableSchemaCheck bool   `yaml:"disable_schema_checking,omitempty"`
	LDAPIEnabled       bool   `yaml:"ldapi_enabled,omitempty"`
}

func buildMinimalConfig(cfg *config.InstanceConfig) *MinimalConfig {
	minCfg := &MinimalConfig{
		ServerID:           cfg.ServerID,
		ServerName:         cfg.ServerName,
		Port:               cfg.Port,
		BindAddress:        cfg.BindAddress,
		Suffix:             cfg.Suffix,
		RootDN:             cfg.RootDN,
		RootPW:             cfg.RootPW,
		ServerUser:         cfg.ServerUser,
		StartServer:        cfg.StartServer,
		InstallLDIF:        cfg.InstallLDIF,
		RegisterManagement: cfg.RegisterManagement,
		DisableSchemaCheck: cfg.DisableSchemaChecking,
		LDAPIEnabled:       cfg.LDAPIEnabled,
	}

	// Only non-default tuning is written
	if cfg.PasswordScheme != string(DefaultScheme) {
		minCfg.PasswordScheme = cfg.PasswordScheme
	}
	if cfg.NumProcs != "4" {
		minCfg.NumProcs = cfg.NumProcs
	}
	if cfg.MaxThreads != "32" {
		minCfg.MaxThreads = cfg.MaxThreads
	}
	if cfg.MinThreads != "4" {
		minCfg.MinThreads = cfg.MinThreads
	}

	if cfg.RegisterManagement {
		minCfg.AdminUID = cfg.AdminUID
		minCfg.AdminPW = cfg.AdminPW
	}
	return minCfg
}

// generateHeader creates the YAML file header comment.
func generateHeader(outputPath string, fullOutput bool) string {
	mode := "minimal"
	note := "\n# Note: This is a minimal config. Use --full flag for all options."
	if fullOutput {
		mode = "full"
		note = ""
	}
	return fmt.Sprintf(`# dsinstall instance configuration
# Generated by: dsinstall init
# Generated at: %s
# Output mode: %s%s
#
# This file holds the Directory Manager password; keep it private.
#
# Usage:
#   dsinstall create -c %s
`, time.Now().Format(time.RFC3339), mode, note, outputPath)
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ConfirmOverwrite prompts the user to confirm overwriting an existing file.
func ConfirmOverwrite(path string) (bool, error) {
	return confirmOverwrite(path)
}

// defaultConfirmOverwrite is the default implementation that prompts via stdin.
func defaultConfirmOverwrite(path string) (bool, error) {
	fmt.Printf("\nFile already exists: %s\n", path)
	fmt.Print("Overwrite? (y/n): ")

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false, err
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
