//go:build !windows && !linux

package memory

type process struct{}

// Process returns the Scanner of the current process.
func Process() Scanner {
	return process{}
}

func (process) Module(name string) (*Image, error) {
	return nil, &ModuleNotMappedError{Name: name, Err: ErrUnsupported}
}
