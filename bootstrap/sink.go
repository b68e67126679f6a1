package bootstrap

import (
	"github.com/Oki1/Vulkano/driver"
	"github.com/sirupsen/logrus"
)

// Sink receives diagnostics and device-selection decisions. Diagnostic may
// be called concurrently and re-entrantly from inside driver calls.
type Sink interface {
	Diagnostic(msg driver.Message)
	DeviceSelected(sel *Selection)
}

// LogSink writes one logrus entry per event. logrus serialises writes, so
// the sink is safe to share between the bootstrap goroutine and driver
// callback threads.
type LogSink struct {
	Logger logrus.FieldLogger
}

// NewLogSink returns a sink writing through logger's output, formatter and
// hooks. The sink logs at trace level whatever the level of logger, so no
// diagnostic is ever filtered out. A nil logger writes to stderr.
func NewLogSink(logger logrus.FieldLogger) *LogSink {
	switch l := logger.(type) {
	case nil:
		logger = traceLogger(logrus.New())
	case *logrus.Logger:
		logger = traceLogger(l)
	case *logrus.Entry:
		logger = traceLogger(l.Logger).WithFields(l.Data)
	}
	return &LogSink{Logger: logger}
}

// traceLogger shares base's output, formatter and hooks but is pinned to
// trace level.
func traceLogger(base *logrus.Logger) *logrus.Logger {
	return &logrus.Logger{
		Out:          base.Out,
		Hooks:        base.Hooks,
		Formatter:    base.Formatter,
		ReportCaller: base.ReportCaller,
		ExitFunc:     base.ExitFunc,
		Level:        logrus.TraceLevel,
	}
}

func (s *LogSink) Diagnostic(msg driver.Message) {
	entry := s.Logger.WithFields(logrus.Fields{
		"severity": msg.Severity.String(),
		"category": msg.Category.String(),
	})

	// Every message is forwarded; the level only mirrors the severity.
	switch msg.Severity {
	case driver.SeverityError:
		entry.Error(msg.Text)
	case driver.SeverityWarning:
		entry.Warn(msg.Text)
	case driver.SeverityInfo:
		entry.Info(msg.Text)
	default:
		entry.Trace(msg.Text)
	}
}

func (s *LogSink) DeviceSelected(sel *Selection) {
	s.Logger.WithFields(logrus.Fields{
		"device":       sel.Device.Name,
		"type":         sel.Device.Type.String(),
		"queue_family": sel.QueueFamilyIndex,
	}).Infof("selected device %s", sel.Device.Name)
}
