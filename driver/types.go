package driver

import "strings"

// DeviceType is the category of a physical device.
type DeviceType int

const (
	DeviceTypeOther DeviceType = iota
	DeviceTypeIntegratedGPU
	DeviceTypeDiscreteGPU
	DeviceTypeVirtualGPU
	DeviceTypeCPU
)

var deviceTypeNames = map[DeviceType]string{
	DeviceTypeOther:         "Other",
	DeviceTypeIntegratedGPU: "IntegratedGPU",
	DeviceTypeDiscreteGPU:   "DiscreteGPU",
	DeviceTypeVirtualGPU:    "VirtualGPU",
	DeviceTypeCPU:           "CPU",
}

func (t DeviceType) String() string {
	if name, ok := deviceTypeNames[t]; ok {
		return name
	}
	return "Other"
}

func (t DeviceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// QueueFlags are the capabilities of a queue family.
type QueueFlags uint32

const (
	QueueGraphics QueueFlags = 1 << iota
	QueueCompute
	QueueTransfer
	QueueSparseBinding
)

// Has reports whether every bit of f is set.
func (q QueueFlags) Has(f QueueFlags) bool {
	return q&f == f
}

func (q QueueFlags) String() string {
	var parts []string
	if q.Has(QueueGraphics) {
		parts = append(parts, "Graphics")
	}
	if q.Has(QueueCompute) {
		parts = append(parts, "Compute")
	}
	if q.Has(QueueTransfer) {
		parts = append(parts, "Transfer")
	}
	if q.Has(QueueSparseBinding) {
		parts = append(parts, "SparseBinding")
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, "|")
}

func (q QueueFlags) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// Severity of a diagnostic message.
type Severity int

const (
	SeverityVerbose Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityVerbose:
		return "verbose"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// Category of a diagnostic message.
type Category int

const (
	CategoryGeneral Category = iota
	CategoryValidation
	CategoryPerformance
)

func (c Category) String() string {
	switch c {
	case CategoryGeneral:
		return "general"
	case CategoryValidation:
		return "validation"
	case CategoryPerformance:
		return "performance"
	}
	return "unknown"
}

// Message is one diagnostic emitted by the driver or a layer.
type Message struct {
	Severity Severity
	Category Category
	Text     string
}

// DiagnosticFunc receives driver diagnostics. It may be called from inside
// any driver call, on any thread, and must never call back into the driver.
type DiagnosticFunc func(msg Message)
