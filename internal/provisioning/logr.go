package provisioning

import (
	"fmt"
	"sort"

	"github.com/go-logr/logr"
)

// LogrObserver implements Observer on top of a logr.Logger.
type LogrObserver struct {
	logger logr.Logger
}

// NewLogrObserver creates an observer writing to logger.
func NewLogrObserver(logger logr.Logger) *LogrObserver {
	return &LogrObserver{logger: logger}
}

// Printf implements Logger.
func (o *LogrObserver) Printf(format string, v ...interface{}) {
	o.logger.Info(fmt.Sprintf(format, v...))
}

// Event implements Observer. Failures are logged as errors and per-resource
// events at V(1).
func (o *LogrObserver) Event(event Event) {
	kv := []interface{}{"event", string(event.Type)}
	if event.Phase != "" {
		kv = append(kv, "phase", event.Phase)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	keys := make([]string, 0, len(event.Fields))
	for k := range event.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		kv = append(kv, k, event.Fields[k])
	}

	switch event.Type {
	case EventPhaseFailed, EventValidationError:
		o.logger.Error(nil, event.Message, kv...)
	case EventResourceCreated, EventResourceReplaced, EventResourceExists:
		o.logger.V(1).Info(event.Message, kv...)
	default:
		o.logger.Info(event.Message, kv...)
	}
}

// WithFields implements Observer.
func (o *LogrObserver) WithFields(fields map[string]string) Observer {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	kv := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return &LogrObserver{logger: o.logger.WithValues(kv...)}
}
