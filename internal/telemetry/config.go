package telemetry

import (
	"fmt"

	"github.com/felixgeelhaar/backoffice/internal/version"
)

// Exporter names.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Config holds configuration for the tracer
type Config struct {
	ServiceName    string
	ServiceVersion string

	// Enabled determines whether tracing is enabled.
	// When false, a noop tracer is used.
	Enabled bool

	// Exporter is one of none, stdout or otlp.
	Exporter string

	// Endpoint is the OTLP collector address. Empty means the
	// OTEL_EXPORTER_OTLP_* environment decides.
	Endpoint string

	// SampleRate is the fraction of traces to sample (0.0 to 1.0)
	SampleRate float64
}

// DefaultConfig returns the CLI default: tracing disabled.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "backoffice",
		ServiceVersion: version.Version,
		Exporter:       ExporterStdout,
		SampleRate:     1.0,
	}
}

// Validate checks the exporter name and sample rate.
func (c Config) Validate() error {
	switch c.Exporter {
	case ExporterNone, ExporterStdout, ExporterOTLP, "":
	default:
		return fmt.Errorf("unknown trace exporter %q (supported: none, stdout, otlp)", c.Exporter)
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("trace sample rate %v must be between 0 and 1", c.SampleRate)
	}
	return nil
}
