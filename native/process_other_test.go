//go:build !(windows && amd64)

package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessUnsupported(t *testing.T) {
	_, err := Process().Interface("engine.dll", "VEngineClient015")
	assert.ErrorIs(t, err, ErrInterfaceNotFound)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.PanicsWithValue(t, ErrUnsupported, func() { Process().Call(0x1000) })
}
