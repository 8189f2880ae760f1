package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsforge/dsinstall/internal/config"
	"github.com/dsforge/dsinstall/internal/config/wizard"
)

// saveAndRestoreInitFactories saves and restores init factory functions.
func saveAndRestoreInitFactories(t *testing.T) {
	t.Helper()
	origFileExists := wizardFileExists
	origConfirmOverwrite := wizardConfirmOverwrite
	origRunWizard := wizardRunWizard
	origBuildConfig := wizardBuildConfig
	origWriteConfig := wizardWriteConfig

	t.Cleanup(func() {
		wizardFileExists = origFileExists
		wizardConfirmOverwrite = origConfirmOverwrite
		wizardRunWizard = origRunWizard
		wizardBuildConfig = origBuildConfig
		wizardWriteConfig = origWriteConfig
	})
}

func wizardAnswers() *wizard.WizardResult {
	return &wizard.WizardResult{
		ServerID:    "ldap1",
		ServerName:  "ldap1.example.com",
		Port:        "389",
		Suffix:      "dc=example,dc=com",
		RootDN:      "cn=Directory Manager",
		RootPW:      "secret123",
		ServerUser:  "dirsrv",
		StartServer: true,
	}
}

func TestPrintWelcome(t *testing.T) {
	t.Run("basic mode", func(t *testing.T) {
		output := captureOutput(func() {
			printWelcome(false, false)
		})

		assert.Contains(t, output, "dsinstall - Directory Server instance setup")
		assert.NotContains(t, output, "advanced mode")
		assert.Contains(t, output, "Minimal output mode")
	})

	t.Run("advanced mode", func(t *testing.T) {
		output := captureOutput(func() {
			printWelcome(true, false)
		})
		assert.Contains(t, output, "Running in advanced mode")
	})

	t.Run("full output mode", func(t *testing.T) {
		output := captureOutput(func() {
			printWelcome(false, true)
		})
		assert.Contains(t, output, "Full output mode")
	})
}

func TestPrintInitSuccess(t *testing.T) {
	cfg := &config.InstanceConfig{
		ServerID:           "ldap1",
		ServerName:         "ldap1.example.com",
		Port:               389,
		Suffix:             "dc=example,dc=com",
		RootDN:             "cn=Directory Manager",
		ServerUser:         "dirsrv",
		RegisterManagement: true,
		AdminUID:           "admin",
	}

	output := captureOutput(func() {
		printInitSuccess("ldap1.yaml", cfg)
	})

	assert.Contains(t, output, "File: ldap1.yaml")
	assert.Contains(t, output, "ldap1.example.com:389")
	assert.Contains(t, output, "Runs as:     dirsrv")
	assert.Contains(t, output, "registered as admin")
	assert.Contains(t, output, "dsinstall validate -c ldap1.yaml")
	assert.Contains(t, output, "dsinstall create -c ldap1.yaml")
}

func TestInit_Success(t *testing.T) {
	saveAndRestoreInitFactories(t)

	wizardFileExists = func(string) bool { return false }
	wizardRunWizard = func(_ context.Context, advanced bool) (*wizard.WizardResult, error) {
		assert.True(t, advanced)
		return wizardAnswers(), nil
	}
	var written *config.InstanceConfig
	var writtenPath string
	var writtenFull bool
	wizardWriteConfig = func(cfg *config.InstanceConfig, path string, full bool) error {
		written, writtenPath, writtenFull = cfg, path, full
		return nil
	}

	var err error
	output := captureOutput(func() {
		err = Init(context.Background(), "ldap1.yaml", true, true)
	})
	require.NoError(t, err)

	require.NotNil(t, written)
	assert.Equal(t, "ldap1", written.ServerID)
	assert.Equal(t, 389, written.Port)
	assert.Equal(t, "ldap1.yaml", writtenPath)
	assert.True(t, writtenFull)
	assert.Contains(t, output, "Configuration saved!")
}

func TestInit_OverwriteDeclined(t *testing.T) {
	saveAndRestoreInitFactories(t)

	wizardFileExists = func(string) bool { return true }
	wizardConfirmOverwrite = func(string) (bool, error) { return false, nil }
	wizardRunWizard = func(context.Context, bool) (*wizard.WizardResult, error) {
		t.Fatal("wizard should not run")
		return nil, nil
	}

	var err error
	output := captureOutput(func() {
		err = Init(context.Background(), "ldap1.yaml", false, false)
	})
	require.NoError(t, err)
	assert.Contains(t, output, "Aborted.")
}

func TestInit_ConfirmError(t *testing.T) {
	saveAndRestoreInitFactories(t)

	wizardFileExists = func(string) bool { return true }
	wizardConfirmOverwrite = func(string) (bool, error) { return false, errors.New("EOF") }

	err := Init(context.Background(), "ldap1.yaml", false, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read confirmation")
}

func TestInit_WizardCanceled(t *testing.T) {
	saveAndRestoreInitFactories(t)

	wizardFileExists = func(string) bool { return false }
	wizardRunWizard = func(context.Context, bool) (*wizard.WizardResult, error) {
		return nil, errors.New("user aborted")
	}

	var err error
	captureOutput(func() {
		err = Init(context.Background(), "ldap1.yaml", false, false)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wizard canceled")
}

func TestInit_BuildError(t *testing.T) {
	saveAndRestoreInitFactories(t)

	wizardFileExists = func(string) bool { return false }
	wizardRunWizard = func(context.Context, bool) (*wizard.WizardResult, error) {
		answers := wizardAnswers()
		answers.Port = "ldap"
		return answers, nil
	}

	var err error
	captureOutput(func() {
		err = Init(context.Background(), "ldap1.yaml", false, false)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build config")
}

func TestInit_WriteError(t *testing.T) {
	saveAndRestoreInitFactories(t)

	wizardFileExists = func(string) bool { return false }
	wizardRunWizard = func(context.Context, bool) (*wizard.WizardResult, error) {
		return wizardAnswers(), nil
	}
	wizardWriteConfig = func(*config.InstanceConfig, string, bool) error {
		return errors.New("read-only filesystem")
	}

	var err error
	captureOutput(func() {
		err = Init(context.Background(), "ldap1.yaml", false, false)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write config")
}
