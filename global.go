package engineapi

// global is the process-wide bootstrap. There is no teardown: a bound engine
// lives as long as the process.
var global Bootstrap

// Initialize runs the process-wide Bootstrap. A nil host means NewProcessHost.
// Hand the returned Engine to its consumers instead of calling Get from deep
// inside them.
func Initialize(h Host, opts ...Option) (*Engine, error) {
	return global.Initialize(h, opts...)
}

// Status reports the process-wide initialization state.
func Status() State {
	return global.State()
}

// Get returns the process-wide Engine, nil unless Ready.
func Get() *Engine {
	return global.Engine()
}

// Failure returns why process-wide initialization failed, nil unless Failed.
func Failure() error {
	return global.Err()
}
