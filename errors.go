package engineapi

import (
	"errors"
	"fmt"

	"github.com/ZenLiuCN/engineapi/memory"
	"github.com/ZenLiuCN/engineapi/native"
)

var (
	// ErrAlreadyInitialized occurs when initialization already ran, whether it succeeded or failed.
	ErrAlreadyInitialized = errors.New("engine already initialized")
	// ErrAlreadyInitializing occurs when another caller is initializing right now.
	ErrAlreadyInitializing = errors.New("engine initialization in progress")
	// ErrSignatureNotFound is matched by every SignatureNotFoundError.
	ErrSignatureNotFound = errors.New("signature not found")
	// ErrInvalidCatalog occurs when a catalogue cannot produce every binding.
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrModuleNotMapped is memory.ErrModuleNotMapped.
	ErrModuleNotMapped = memory.ErrModuleNotMapped
	// ErrInterfaceNotFound is native.ErrInterfaceNotFound.
	ErrInterfaceNotFound = native.ErrInterfaceNotFound
)

type (
	// ModuleNotMappedError is memory.ModuleNotMappedError.
	ModuleNotMappedError = memory.ModuleNotMappedError
	// InterfaceNotFoundError is native.InterfaceNotFoundError.
	InterfaceNotFoundError = native.InterfaceNotFoundError
	// SignatureNotFoundError names the function whose pattern did not match its module.
	SignatureNotFoundError struct {
		Symbol string
		Module string
		Err    error // set when the pattern could not be searched at all
	}
)

func (e *SignatureNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s signature not found in %s: %v", e.Symbol, e.Module, e.Err)
	}
	return fmt.Sprintf("%s signature not found in %s", e.Symbol, e.Module)
}

func (e *SignatureNotFoundError) Is(target error) bool {
	return target == ErrSignatureNotFound
}

func (e *SignatureNotFoundError) Unwrap() error {
	return e.Err
}
