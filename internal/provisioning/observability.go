package provisioning

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
)

// Observer defines the interface for structured observability during provisioning.
type Observer interface {
	Logger

	// Event emits a structured event
	Event(event Event)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "mkdirs", "confs")
	Message   string            // Human-readable message
	Resource  string            // Path or entry DN if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventPhaseStarted indicates a provisioning phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a provisioning phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a provisioning phase failed.
	EventPhaseFailed EventType = "phase.failed"
	// EventPhaseSkipped indicates a phase did not apply to this configuration.
	EventPhaseSkipped EventType = "phase.skipped"

	// EventResourceCreated indicates a directory or file was created.
	EventResourceCreated EventType = "resource.created"
	// EventResourceReplaced indicates an existing file was backed up and rewritten.
	EventResourceReplaced EventType = "resource.replaced"
	// EventResourceExists indicates a resource already exists and was left alone.
	EventResourceExists EventType = "resource.exists"

	// EventAdvisory is a non-fatal notice that does not stop the run.
	EventAdvisory EventType = "advisory"
	// EventNotice is an informational message for the operator.
	EventNotice EventType = "notice"

	// EventValidationError indicates a validation error.
	EventValidationError EventType = "validation.error"
)

// ConsoleObserver implements Observer using standard log package.
type ConsoleObserver struct {
	contextFields map[string]string
}

// NewConsoleObserver creates a new console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{
		contextFields: make(map[string]string),
	}
}

// Printf implements Logger.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// Event implements Observer interface.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Fields = mergeFields(o.contextFields, event.Fields)
	log.Print(formatEvent(event))
}

// WithFields implements Observer interface.
func (o *ConsoleObserver) WithFields(fields map[string]string) Observer {
	return &ConsoleObserver{
		contextFields: mergeFields(o.contextFields, fields),
	}
}

// mergeFields returns a copy of base overlaid with fields.
func mergeFields(base, fields map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(fields))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}

// formatEvent formats an event for console output. Fields are sorted so
// output is stable.
func formatEvent(event Event) string {
	var parts []string

	parts = append(parts, string(event.Type))

	if event.Phase != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Phase))
	}

	if event.Resource != "" {
		parts = append(parts, fmt.Sprintf("resource=%s", event.Resource))
	}

	parts = append(parts, event.Message)

	if len(event.Fields) > 0 {
		keys := make([]string, 0, len(event.Fields))
		for k := range event.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fieldParts := make([]string, 0, len(keys))
		for _, k := range keys {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%s", k, event.Fields[k]))
		}
		parts = append(parts, fmt.Sprintf("(%s)", strings.Join(fieldParts, ", ")))
	}

	return strings.Join(parts, " ")
}

// Helper functions for common events

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: fmt.Sprintf("failed: %v", err),
	})
}

// LogPhaseSkipped logs a phase that did not apply.
func LogPhaseSkipped(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseSkipped,
		Phase:   phase,
		Message: "not applicable",
	})
}

// LogResource logs a created, replaced, or already present resource.
func LogResource(observer Observer, eventType EventType, phase, kind, path string) {
	verb := map[EventType]string{
		EventResourceCreated:  "created",
		EventResourceReplaced: "replaced",
		EventResourceExists:   "already exists",
	}[eventType]
	observer.Event(Event{
		Type:     eventType,
		Phase:    phase,
		Resource: path,
		Message:  fmt.Sprintf("%s %s", kind, verb),
		Fields:   map[string]string{"type": kind},
	})
}

// LogAdvisory logs a non-fatal advisory.
func LogAdvisory(observer Observer, phase, message string) {
	observer.Event(Event{
		Type:    EventAdvisory,
		Phase:   phase,
		Message: message,
	})
}

// LogNotice logs an informational message.
func LogNotice(observer Observer, phase, message string) {
	observer.Event(Event{
		Type:    EventNotice,
		Phase:   phase,
		Message: message,
	})
}
