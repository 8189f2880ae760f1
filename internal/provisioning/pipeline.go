package provisioning

import (
	"fmt"
	"time"
)

// Pipeline is an ordered list of phases.
type Pipeline struct {
	Phases []Phase
}

// NewPipeline creates a pipeline running phases in the given order.
func NewPipeline(phases ...Phase) *Pipeline {
	return &Pipeline{Phases: phases}
}

// Run executes the pipeline. The first failing phase stops the run.
func (p *Pipeline) Run(ctx *Context) error {
	return RunPhases(ctx, p.Phases)
}

// RunPhases executes all provisioning phases sequentially.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Starting provisioning with %d phases...", len(phases))

	for i, phase := range phases {
		name := fmt.Sprintf("%s (%d/%d)", phase.Name(), i+1, len(phases))

		if c, ok := phase.(Conditional); ok && !c.Enabled(ctx) {
			LogPhaseSkipped(ctx.Observer, name)
			ctx.Metrics.ObservePhase(phase.Name(), "skipped", 0)
			continue
		}

		phaseStart := time.Now()
		LogPhaseStart(ctx.Observer, name)

		if err := phase.Provision(ctx); err != nil {
			LogPhaseFailed(ctx.Observer, name, err)
			ctx.Metrics.ObservePhase(phase.Name(), "failed", time.Since(phaseStart))
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		LogPhaseComplete(ctx.Observer, name, time.Since(phaseStart))
		ctx.Metrics.ObservePhase(phase.Name(), "succeeded", time.Since(phaseStart))
	}

	ctx.Observer.Printf("Provisioning completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
