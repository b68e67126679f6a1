package bootstrap

import (
	"github.com/Oki1/Vulkano/driver"
	"github.com/sirupsen/logrus"
)

// ValidationLayers are required in debug mode.
var ValidationLayers = []string{driver.ValidationLayerName}

// Mode tells whether a Context carries a diagnostic messenger.
type Mode int

const (
	ModePlain Mode = iota
	ModeWithDiagnostics
)

func (m Mode) String() string {
	if m == ModeWithDiagnostics {
		return "with-diagnostics"
	}
	return "plain"
}

// ContextOptions configures CreateContext.
type ContextOptions struct {
	ApplicationName string
	// Extensions are the window system's presentation extensions.
	Extensions []string
	Debug      bool

	// Sink receives diagnostics in debug mode. Defaults to NewLogSink(Logger).
	Sink   Sink
	Logger logrus.FieldLogger
}

// Context is one connection to the graphics subsystem.
type Context struct {
	library   *Library
	instance  driver.Instance
	messenger driver.Messenger

	applicationName string
	extensions      []string
	layers          []string
	mode            Mode
}

// CreateContext validates the requested layers and extensions against the
// driver's catalogs and creates the instance. Nothing is created unless
// every requested item is available.
func CreateContext(lib *Library, opts ContextOptions) (*Context, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	var layers []string
	if opts.Debug {
		available, err := lib.lib.Layers()
		if err != nil {
			return nil, fail(err, ErrContextCreationFailed, "enumerate layers")
		}
		catalog := toSet(available)
		for _, layer := range ValidationLayers {
			if _, ok := catalog[layer]; !ok {
				return nil, configurationError("layer", layer)
			}
			layers = append(layers, layer)
		}
	}

	extensions := union(opts.Extensions, []string{driver.SurfaceExtensionName})
	if opts.Debug {
		extensions = union(extensions, []string{driver.DebugUtilsExtensionName})
	}

	available, err := lib.lib.Extensions()
	if err != nil {
		return nil, fail(err, ErrContextCreationFailed, "enumerate extensions")
	}
	catalog := toSet(available)
	for _, ext := range extensions {
		if _, ok := catalog[ext]; !ok {
			return nil, configurationError("extension", ext)
		}
	}

	_, portability := catalog[driver.PortabilityEnumerationExtensionName]
	if portability {
		extensions = union(extensions, []string{driver.PortabilityEnumerationExtensionName})
	}

	info := driver.InstanceCreateInfo{
		ApplicationName:      opts.ApplicationName,
		EngineName:           "Vulkano",
		Extensions:           extensions,
		Layers:               layers,
		EnumeratePortability: portability,
	}

	var sink Sink
	if opts.Debug {
		sink = opts.Sink
		if sink == nil {
			sink = NewLogSink(logger)
		}
		info.Diagnostics = sink.Diagnostic
	}

	instance, err := lib.lib.CreateInstance(info)
	if err != nil {
		return nil, fail(err, ErrContextCreationFailed, "extensions %v, layers %v", extensions, layers)
	}

	ctx := &Context{
		library:         lib.Acquire(),
		instance:        instance,
		applicationName: opts.ApplicationName,
		extensions:      extensions,
		layers:          layers,
		mode:            ModePlain,
	}

	if opts.Debug {
		messenger, err := instance.RegisterDiagnostics(sink.Diagnostic)
		if err != nil {
			ctx.Destroy()
			return nil, fail(err, ErrContextCreationFailed, "register diagnostic messenger")
		}
		ctx.messenger = messenger
		ctx.mode = ModeWithDiagnostics
	}

	logger.WithFields(logrus.Fields{
		"application": opts.ApplicationName,
		"extensions":  extensions,
		"layers":      layers,
		"mode":        ctx.mode.String(),
	}).Debug("context created")

	return ctx, nil
}

// ApplicationName returns the name the context was created with.
func (c *Context) ApplicationName() string {
	return c.applicationName
}

// Extensions returns a copy of the enabled instance extensions.
func (c *Context) Extensions() []string {
	return append([]string(nil), c.extensions...)
}

// Layers returns a copy of the enabled layers.
func (c *Context) Layers() []string {
	return append([]string(nil), c.layers...)
}

// Mode reports whether diagnostics are attached.
func (c *Context) Mode() Mode {
	return c.mode
}

// Instance returns the underlying driver instance.
func (c *Context) Instance() driver.Instance {
	return c.instance
}

// Destroy unregisters the messenger, destroys the instance and releases the
// context's library reference. Calling it again is a no-op.
func (c *Context) Destroy() {
	if c.messenger != nil {
		c.messenger.Destroy()
		c.messenger = nil
	}
	if c.instance != nil {
		c.instance.Destroy()
		c.instance = nil
	}
	if c.library != nil {
		c.library.Release()
		c.library = nil
	}
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// union appends the members of b missing from a, keeping order.
func union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, name := range list {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}
