//go:build !(windows && amd64)

package native

type process struct{}

// Process returns the Locator and Invoker of the current process.
func Process() interface {
	Locator
	Invoker
} {
	return process{}
}

// Interface always fails: without member calls a located interface is useless,
// so initialization must stop here instead of binding functions nobody can call.
func (process) Interface(module, version string) (uintptr, error) {
	return 0, &InterfaceNotFoundError{Module: module, Version: version, Err: ErrUnsupported}
}
