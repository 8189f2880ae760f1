package handlers

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr/funcr"

	"github.com/dsforge/dsinstall/internal/provisioning"
	"github.com/dsforge/dsinstall/internal/ui/render"
)

// Log formats accepted by --log-format.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Errors returned after the outcome has already been printed.
var (
	ErrProvisioningFailed = errors.New("provisioning failed")
	ErrValidationFailed   = errors.New("validation failed")
)

// Options carries the global CLI flags.
type Options struct {
	Verbose     bool
	LogFormat   string
	MetricsFile string

	// Output receives the result summary; nil means stdout.
	Output io.Writer
}

func (o Options) printer() *render.Printer {
	if o.Output == nil {
		return render.New(os.Stdout)
	}
	return render.New(o.Output)
}

// newObserver builds the progress observer for the selected log format.
func newObserver(o Options) (provisioning.Observer, error) {
	switch o.LogFormat {
	case "", LogFormatText:
		return provisioning.NewConsoleObserver(), nil
	case LogFormatJSON:
		verbosity := 0
		if o.Verbose {
			verbosity = 1
		}
		w := o.Output
		if w == nil {
			w = os.Stderr
		}
		logger := funcr.NewJSON(func(obj string) {
			fmt.Fprintln(w, obj)
		}, funcr.Options{LogTimestamp: true, Verbosity: verbosity})
		return provisioning.NewLogrObserver(logger), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q (use %s or %s)", o.LogFormat, LogFormatText, LogFormatJSON)
	}
}
