package layout

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsforge/dsinstall/internal/fsutil"
	"github.com/dsforge/dsinstall/internal/platform"
	"github.com/dsforge/dsinstall/internal/provisioning"
	testutil "github.com/dsforge/dsinstall/internal/testing"
)

func TestPlan_Order(t *testing.T) {
	t.Parallel()
	f := testutil.NewInstanceFixture(t, testutil.NewConfigBuilder().Build())

	plan := Plan(f.Layout, "")
	labels := make([]string, len(plan))
	for i, d := range plan {
		labels[i] = d.Label
	}
	assert.Equal(t, []string{
		"instance dir", "config dir", "schema dir", "log dir", "lock dir", "run dir",
		"tmp dir", "cert dir", "db dir", "ldif dir", "dsml dir", "bak dir", "config backup dir",
	}, labels)

	plan = Plan(f.Layout, "/var/lib/changelogdb")
	last := plan[len(plan)-1]
	assert.Equal(t, "changelog dir", last.Label)
	assert.Equal(t, "/var/lib/changelogdb", last.Path)
}

func TestProvisioner_CreatesTree(t *testing.T) {
	t.Parallel()
	f := testutil.NewInstanceFixture(t, testutil.NewConfigBuilder().Build())
	l := f.Layout
	l.Cert = filepath.Join(f.Config.Prefix, "certs")
	ctx := f.Context(context.Background())

	p := NewProvisioner()
	assert.Equal(t, "mkdirs", p.Name())
	require.NoError(t, p.Provision(ctx))

	for _, d := range Plan(l, "") {
		info, err := os.Stat(d.Path)
		require.NoError(t, err, d.Label)
		assert.True(t, info.IsDir())
	}

	for _, dir := range []string{l.Log, l.Lock, l.Run, l.Tmp, l.Cert} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.Equal(t, fsutil.SecureDirMode, info.Mode().Perm(), dir)
	}
	info, err := os.Stat(l.DB)
	require.NoError(t, err)
	assert.Equal(t, fsutil.DirMode, info.Mode().Perm())

	assert.NotEmpty(t, f.Observer.Events(provisioning.EventResourceCreated))
	assert.Zero(t, f.Ops.Called("Chown"), "no owner resolved")
}

func TestProvisioner_Idempotent(t *testing.T) {
	t.Parallel()
	f := testutil.NewInstanceFixture(t, testutil.NewConfigBuilder().Build())
	require.NoError(t, NewProvisioner().Provision(f.Context(context.Background())))

	second := testutil.NewRecordingObserver()
	ctx := f.Context(context.Background())
	ctx.Observer = second
	require.NoError(t, NewProvisioner().Provision(ctx))

	assert.Empty(t, second.Events(provisioning.EventResourceCreated))
	assert.Len(t, second.Events(provisioning.EventResourceExists), len(Plan(f.Layout, "")))
}

func TestProvisioner_ChownsToOwner(t *testing.T) {
	t.Parallel()
	f := testutil.NewInstanceFixture(t, testutil.NewConfigBuilder().Build())
	var chowned []string
	f.Ops.ChownFunc = func(path string, owner *platform.Account) error {
		assert.Equal(t, "dirsrv", owner.Name)
		chowned = append(chowned, path)
		return nil
	}
	ctx := f.Context(context.Background())
	ctx.State.Owner = &platform.Account{Name: "dirsrv", UID: 389, GID: 389}

	require.NoError(t, NewProvisioner().Provision(ctx))
	assert.Contains(t, chowned, f.Layout.Instance)
	assert.Contains(t, chowned, f.Layout.DB)
}

func TestProvisioner_Failure(t *testing.T) {
	t.Parallel()
	f := testutil.NewInstanceFixture(t, testutil.NewConfigBuilder().Build())
	blocker := filepath.Join(f.Config.Prefix, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	f.Layout.DB = filepath.Join(blocker, "db")

	err := NewProvisioner().Provision(f.Context(context.Background()))
	require.Error(t, err)
	assert.Equal(t, provisioning.KindResource, provisioning.KindOf(err))
	assert.Contains(t, err.Error(), `for "db dir" failed`)
}

func TestProvisioner_ChownFailure(t *testing.T) {
	t.Parallel()
	f := testutil.NewInstanceFixture(t, testutil.NewConfigBuilder().Build())
	f.Ops.ChownFunc = func(string, *platform.Account) error { return errors.New("denied") }
	ctx := f.Context(context.Background())
	ctx.State.Owner = &platform.Account{Name: "dirsrv"}

	err := NewProvisioner().Provision(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chown")
}
