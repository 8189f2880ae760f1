package provisioning

import (
	"github.com/dsforge/dsinstall/internal/artifacts"
	"github.com/dsforge/dsinstall/internal/fsutil"
	"github.com/dsforge/dsinstall/internal/ldapclient"
	"github.com/dsforge/dsinstall/internal/platform"
)

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Validation results
	PortsVerified bool              // port checks ran and found the ports free
	Owner         *platform.Account // resolved server user, nil when not applicable

	// Artifact results
	Secrets   artifacts.Secrets
	Artifacts []artifacts.Result

	// Lifecycle results
	LDIFLoaded    string // local path of the loaded LDIF, if any
	ServerRunning bool
	Integration   ldapclient.Summary

	// Operator-facing messages collected during the run
	Advisories []string
	Notices    []string
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{}
}

// Written returns the artifacts that were written or replaced, excluding skips.
func (s *State) Written() []artifacts.Result {
	var out []artifacts.Result
	for _, r := range s.Artifacts {
		if r.Outcome != fsutil.Skipped {
			out = append(out, r)
		}
	}
	return out
}
