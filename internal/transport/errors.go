package transport

import (
	"errors"
	"fmt"
)

// Error codes reported by the bridge firmware.
const (
	ErrCodeNone          byte = 0
	ErrCodeNotEnoughData byte = 1
	ErrCodeI2CWrite      byte = 2
	ErrCodeI2CRead       byte = 3
	ErrCodeUnsupported   byte = 255
)

var (
	// ErrConnectionTimeout is returned when the full retry budget passes
	// without a reply from the bridge.
	ErrConnectionTimeout = errors.New("connection timeout: no reply from bridge")

	// ErrNoLocalPort is returned when no candidate port could be bound.
	ErrNoLocalPort = errors.New("no available local port to bind")

	// ErrNotConnected is returned when a request is issued before Connect.
	ErrNotConnected = errors.New("transport is not connected")
)

// BridgeError is a failure reported by the bridge in a reply frame.
// For I2C and data errors the implicated register number rides in the
// first payload byte of the reply.
type BridgeError struct {
	Code     byte
	Command  byte
	Register byte
}

func newBridgeError(r Reply) *BridgeError {
	e := &BridgeError{
		Code:    r.ErrorCode,
		Command: r.Command,
	}
	if len(r.Payload) > 0 {
		e.Register = r.Payload[0]
	}
	return e
}

func (e *BridgeError) Error() string {
	switch e.Code {
	case ErrCodeNotEnoughData:
		return fmt.Sprintf("on register %d, not enough data", e.Register)
	case ErrCodeI2CWrite:
		return fmt.Sprintf("on register %d, I2C write error", e.Register)
	case ErrCodeI2CRead:
		return fmt.Sprintf("on register %d, I2C read error", e.Register)
	case ErrCodeUnsupported:
		return fmt.Sprintf("unsupported command %d", e.Command)
	}
	return fmt.Sprintf("unknown error %d", e.Code)
}
