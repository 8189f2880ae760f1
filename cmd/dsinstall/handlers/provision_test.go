package handlers

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsforge/dsinstall/internal/artifacts"
	"github.com/dsforge/dsinstall/internal/config"
	"github.com/dsforge/dsinstall/internal/fsutil"
	"github.com/dsforge/dsinstall/internal/orchestration"
	"github.com/dsforge/dsinstall/internal/paths"
	"github.com/dsforge/dsinstall/internal/provisioning"
	testutil "github.com/dsforge/dsinstall/internal/testing"
)

func succeeded(flow orchestration.Flow) *fakeCreator {
	state := provisioning.NewState()
	state.ServerRunning = true
	state.Artifacts = []artifacts.Result{
		{Path: "/opt/slapd-ldap1/start-slapd", Outcome: fsutil.Written},
		{Path: "/opt/slapd-ldap1/stop-slapd", Outcome: fsutil.Written},
		{Path: "/opt/slapd-ldap1/ldap.conf", Outcome: fsutil.Skipped},
	}
	state.Advisories = []string{"Notice: template missing"}
	msg := orchestration.CreatedMessage
	if flow == orchestration.FlowUpdate {
		msg = orchestration.UpdatedMessage
	}
	return &fakeCreator{result: &orchestration.Result{
		Flow:    flow,
		Message: msg,
		Layout:  &paths.Layout{Instance: "/opt/slapd-ldap1"},
		State:   state,
	}}
}

func TestCreate_Success(t *testing.T) {
	saveAndRestoreFactories(t)
	stubConfig(testConfig())
	stubOps(testutil.NewMockOps())
	creator := succeeded(orchestration.FlowCreate)
	var optCount int
	stubCreator(creator, &optCount)

	var out bytes.Buffer
	err := Create(context.Background(), "instance.yaml", Options{Output: &out})
	require.NoError(t, err)

	assert.Equal(t, 1, creator.created)
	assert.Equal(t, 0, creator.updated)
	assert.Equal(t, 3, optCount)

	text := out.String()
	assert.Contains(t, text, "[OK] Created new Directory Server")
	assert.Contains(t, text, "/opt/slapd-ldap1")
	assert.Contains(t, text, "Files written  2")
	assert.Contains(t, text, "Running        true")
	assert.Contains(t, text, "Advisories")
	assert.Contains(t, text, "[??] Notice: template missing")
}

func TestCreate_Failure(t *testing.T) {
	saveAndRestoreFactories(t)
	stubConfig(testConfig())
	stubOps(testutil.NewMockOps())
	cause := provisioning.NewFieldError("servport", "The port is in use.")
	stubCreator(&fakeCreator{
		result: &orchestration.Result{
			Flow:    orchestration.FlowCreate,
			Message: "servport.error:could not create server ldap1 - The port is in use.",
			Field:   "servport",
			Err:     cause,
		},
		err: cause,
	}, nil)

	var out bytes.Buffer
	err := Create(context.Background(), "instance.yaml", Options{Output: &out})
	require.ErrorIs(t, err, ErrProvisioningFailed)
	assert.Equal(t, "[!!] servport.error:could not create server ldap1 - The port is in use.\n", out.String())
}

func TestUpdate_RunsUpdateFlow(t *testing.T) {
	saveAndRestoreFactories(t)
	stubConfig(testConfig())
	stubOps(testutil.NewMockOps())
	creator := succeeded(orchestration.FlowUpdate)
	stubCreator(creator, nil)

	var out bytes.Buffer
	require.NoError(t, Update(context.Background(), "instance.yaml", Options{Output: &out}))

	assert.Equal(t, 0, creator.created)
	assert.Equal(t, 1, creator.updated)
	assert.Contains(t, out.String(), "[OK] Updated Directory Server")
	assert.NotContains(t, out.String(), "Running")
}

func TestCreate_LoadConfigError(t *testing.T) {
	saveAndRestoreFactories(t)
	loadConfig = func(string) (*config.InstanceConfig, error) {
		return nil, errors.New("no such file")
	}
	creator := succeeded(orchestration.FlowCreate)
	stubCreator(creator, nil)

	err := Create(context.Background(), "missing.yaml", Options{Output: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
	assert.Equal(t, 0, creator.created)
}

func TestCreate_UnsupportedLogFormat(t *testing.T) {
	saveAndRestoreFactories(t)
	stubConfig(testConfig())
	creator := succeeded(orchestration.FlowCreate)
	stubCreator(creator, nil)

	err := Create(context.Background(), "instance.yaml", Options{LogFormat: "xml", Output: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported log format "xml"`)
	assert.Equal(t, 0, creator.created)
}

func TestCreate_WritesMetricsFile(t *testing.T) {
	saveAndRestoreFactories(t)
	stubConfig(testConfig())
	stubOps(testutil.NewMockOps())
	stubCreator(succeeded(orchestration.FlowCreate), nil)

	metricsFile := filepath.Join(t.TempDir(), "dsinstall.prom")
	require.NoError(t, Create(context.Background(), "instance.yaml",
		Options{Output: &bytes.Buffer{}, MetricsFile: metricsFile}))

	_, err := os.Stat(metricsFile)
	assert.NoError(t, err)
}

func TestCreate_MetricsFileError(t *testing.T) {
	saveAndRestoreFactories(t)
	stubConfig(testConfig())
	stubOps(testutil.NewMockOps())
	stubCreator(succeeded(orchestration.FlowCreate), nil)

	metricsFile := filepath.Join(t.TempDir(), "missing", "dsinstall.prom")
	err := Create(context.Background(), "instance.yaml", Options{Output: &bytes.Buffer{}, MetricsFile: metricsFile})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write metrics")
}

func TestNewObserver(t *testing.T) {
	t.Parallel()

	text, err := newObserver(Options{})
	require.NoError(t, err)
	assert.IsType(t, &provisioning.ConsoleObserver{}, text)

	var out bytes.Buffer
	jsonObs, err := newObserver(Options{LogFormat: LogFormatJSON, Output: &out})
	require.NoError(t, err)
	require.IsType(t, &provisioning.LogrObserver{}, jsonObs)

	jsonObs.WithFields(map[string]string{"run": "r1"}).Event(provisioning.Event{
		Type:    provisioning.EventNotice,
		Phase:   "start",
		Message: "Your new directory server has been started.",
	})
	assert.Contains(t, out.String(), `"msg":"Your new directory server has been started."`)
	assert.Contains(t, out.String(), `"run":"r1"`)
	assert.Contains(t, out.String(), `"phase":"start"`)
}

func TestNewObserver_VerboseShowsResourceEvents(t *testing.T) {
	t.Parallel()

	for _, verbose := range []bool{false, true} {
		var out bytes.Buffer
		obs, err := newObserver(Options{LogFormat: LogFormatJSON, Verbose: verbose, Output: &out})
		require.NoError(t, err)

		obs.Event(provisioning.Event{Type: provisioning.EventResourceCreated, Resource: "/opt/slapd-ldap1", Message: "created"})
		if verbose {
			assert.Contains(t, out.String(), "/opt/slapd-ldap1")
		} else {
			assert.Empty(t, out.String())
		}
	}
}
