package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsforge/dsinstall/internal/platform"
	"github.com/dsforge/dsinstall/internal/provisioning"
	testutil "github.com/dsforge/dsinstall/internal/testing"
)

func TestPhase_Provision(t *testing.T) {
	t.Parallel()
	f := testutil.NewInstanceFixture(t, validConfig().Build())
	f.Ops.Privileged = true
	f.Config.ServerUser = "dirsrv"
	ctx := f.Context(context.Background())

	require.NoError(t, NewPhase().Provision(ctx))
	assert.True(t, ctx.State.PortsVerified)
	require.NotNil(t, ctx.State.Owner)
	assert.Equal(t, "dirsrv", ctx.State.Owner.Name)
}

func TestPhase_ProvisionFailure(t *testing.T) {
	t.Parallel()
	f := testutil.NewInstanceFixture(t, validConfig().WithThreads("4", "8", "2").Build())
	ctx := f.Context(context.Background())

	err := NewPhase().Provision(ctx)
	require.Error(t, err)

	var ferr *provisioning.FieldError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, "minthreads", ferr.Field)
	assert.Len(t, f.Observer.Events(provisioning.EventValidationError), 1)
}

func TestPrecheckPhase(t *testing.T) {
	t.Parallel()

	t.Run("only enabled on windows", func(t *testing.T) {
		t.Parallel()
		f := testutil.NewInstanceFixture(t, validConfig().Build())
		ctx := f.Context(context.Background())
		assert.False(t, NewPrecheckPhase().Enabled(ctx))

		f.Ops.KindValue = platform.Windows
		assert.True(t, NewPrecheckPhase().Enabled(ctx))
	})

	t.Run("collision", func(t *testing.T) {
		t.Parallel()
		f := testutil.NewInstanceFixture(t, validConfig().Build())
		f.Ops.KindValue = platform.Windows
		var queried string
		f.Ops.ServiceExistsFn = func(name string) (bool, error) { queried = name; return true, nil }

		err := NewPrecheckPhase().Provision(f.Context(context.Background()))
		require.Error(t, err)
		assert.Equal(t, "slapd-test1", queried)

		field, msg := provisioning.Describe(err)
		assert.Equal(t, "servid", field)
		assert.Equal(t, "Server test1 already exists: cannot create another.  Please choose a different name or delete the existing server.", msg)
		assert.Equal(t, provisioning.KindService, provisioning.KindOf(err))
	})

	t.Run("no collision", func(t *testing.T) {
		t.Parallel()
		f := testutil.NewInstanceFixture(t, validConfig().Build())
		f.Ops.KindValue = platform.Windows
		assert.NoError(t, NewPrecheckPhase().Provision(f.Context(context.Background())))
	})
}
