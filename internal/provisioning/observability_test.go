package provisioning

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// MockObserver is a test implementation of Observer that records events.
type MockObserver struct {
	events   []Event
	messages []string
	fields   map[string]string
}

func NewMockObserver() *MockObserver {
	return &MockObserver{fields: make(map[string]string)}
}

func (m *MockObserver) Printf(format string, _ ...interface{}) {
	m.messages = append(m.messages, format)
}

func (m *MockObserver) Event(event Event) {
	m.events = append(m.events, event)
}

func (m *MockObserver) WithFields(fields map[string]string) Observer {
	for k, v := range fields {
		m.fields[k] = v
	}
	return m
}

func (m *MockObserver) ofType(t EventType) []Event {
	var out []Event
	for _, e := range m.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// captureLog redirects the standard logger for the duration of fn.
func captureLog(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	defer func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	}()
	fn()
	return buf.String()
}

func TestConsoleObserver_Event(t *testing.T) {
	observer := NewConsoleObserver().WithFields(map[string]string{"run": "r1", "type": "ctx"})

	out := captureLog(t, func() {
		observer.Event(Event{
			Type:     EventResourceCreated,
			Phase:    "mkdirs",
			Resource: "/var/log/dirsrv/slapd-test1",
			Message:  "log created",
			Fields:   map[string]string{"type": "log"},
		})
	})

	line := strings.TrimSpace(out)
	assert.Equal(t, "resource.created [mkdirs] resource=/var/log/dirsrv/slapd-test1 log created (run=r1, type=log)", line)
}

func TestConsoleObserver_WithFieldsDoesNotMutateParent(t *testing.T) {
	parent := NewConsoleObserver()
	child := parent.WithFields(map[string]string{"run": "r1"})

	assert.Empty(t, parent.contextFields)
	assert.Equal(t, "r1", child.(*ConsoleObserver).contextFields["run"])

	grandchild := child.WithFields(map[string]string{"run": "r2"})
	assert.Equal(t, "r2", grandchild.(*ConsoleObserver).contextFields["run"])
}

func TestConsoleObserver_Printf(t *testing.T) {
	out := captureLog(t, func() {
		NewConsoleObserver().Printf("phase %s", "confs")
	})
	assert.Equal(t, "phase confs\n", out)
}

func TestLogHelpers(t *testing.T) {
	t.Parallel()
	observer := NewMockObserver()

	LogPhaseStart(observer, "mkdirs")
	LogResource(observer, EventResourceCreated, "mkdirs", "db", "/var/lib/dirsrv/slapd-test1/db")
	LogResource(observer, EventResourceExists, "confs", "dsgw.conf", "/x/dsgw.conf")
	LogAdvisory(observer, "confs", "Notice: missing")
	LogNotice(observer, "start", "Your new directory server has been started.")
	LogPhaseSkipped(observer, "load-ldif")
	LogPhaseFailed(observer, "confs", assert.AnError)
	LogPhaseComplete(observer, "mkdirs", 1500*time.Microsecond)

	assert.Len(t, observer.events, 8)
	assert.Equal(t, "db created", observer.events[1].Message)
	assert.Equal(t, "dsgw.conf already exists", observer.events[2].Message)
	assert.Equal(t, "/x/dsgw.conf", observer.events[2].Resource)
	assert.Equal(t, EventAdvisory, observer.events[3].Type)
	assert.Equal(t, EventNotice, observer.events[4].Type)
	assert.Equal(t, EventPhaseSkipped, observer.events[5].Type)
	assert.Contains(t, observer.events[6].Message, assert.AnError.Error())
	assert.Equal(t, "completed in 2ms", observer.events[7].Message)
}

func TestObserver_ImplementsLogger(t *testing.T) {
	t.Parallel()
	var logger Logger = NewConsoleObserver()
	assert.NotNil(t, logger)
}
