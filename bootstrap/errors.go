package bootstrap

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Failure kinds. Every error returned by this package is marked with one of
// them; test with errors.Is.
var (
	ErrDriverNotFound          = errors.New("driver not found")
	ErrConfiguration           = errors.New("configuration error")
	ErrContextCreationFailed   = errors.New("context creation failed")
	ErrSurfaceCreationFailed   = errors.New("surface creation failed")
	ErrDeviceEnumerationFailed = errors.New("device enumeration failed")
	ErrNoSuitableDevice        = errors.New("no suitable device")
	ErrDeviceCreationFailed    = errors.New("device creation failed")

	// ErrPresentationQueryFailed is never returned; it marks per-family
	// presentation query failures that the selector recovers from.
	ErrPresentationQueryFailed = errors.New("presentation query failed")
)

// ConfigurationError reports a requested layer, extension or queue count
// that the driver cannot provide.
type ConfigurationError struct {
	// Kind is "layer", "extension", "device extension" or "queue count".
	Kind string
	Name string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s %s not available", e.Kind, e.Name)
}

func configurationError(kind, name string) error {
	return errors.Mark(&ConfigurationError{Kind: kind, Name: name}, ErrConfiguration)
}

// fail marks cause with kind; the message reads "<kind> (<detail>)".
func fail(cause error, kind error, format string, args ...interface{}) error {
	msg := kind.Error() + " (" + fmt.Sprintf(format, args...) + ")"
	if cause == nil {
		return errors.Mark(errors.NewWithDepth(1, msg), kind)
	}
	return errors.Mark(errors.WrapWithDepth(1, cause, msg), kind)
}
