package testing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dsforge/dsinstall/internal/provisioning"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// RecordingObserver captures provisioning events.
type RecordingObserver struct {
	mu     sync.Mutex
	events []provisioning.Event
	lines  []string
}

// NewRecordingObserver creates an empty RecordingObserver.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{}
}

// Printf implements provisioning.Logger.
func (o *RecordingObserver) Printf(format string, _ ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lines = append(o.lines, format)
}

// Event implements provisioning.Observer.
func (o *RecordingObserver) Event(event provisioning.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

// WithFields implements provisioning.Observer. Fields are dropped.
func (o *RecordingObserver) WithFields(map[string]string) provisioning.Observer {
	return o
}

// Events returns the recorded events of the given types, or all events
// when none are given.
func (o *RecordingObserver) Events(types ...provisioning.EventType) []provisioning.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(types) == 0 {
		return append([]provisioning.Event(nil), o.events...)
	}
	var out []provisioning.Event
	for _, e := range o.events {
		for _, t := range types {
			if e.Type == t {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Messages returns the messages of the recorded events of type t.
func (o *RecordingObserver) Messages(t provisioning.EventType) []string {
	var out []string
	for _, e := range o.Events(t) {
		out = append(out, e.Message)
	}
	return out
}

// Lines returns the Printf format strings recorded so far.
func (o *RecordingObserver) Lines() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.lines...)
}
