// Package bridge is the register-level API of the remote I2C bridge.
// It serializes register payloads and hands them to the transport; all
// retry and correlation behavior lives below, in internal/transport.
package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/DouglasWWolf/wifi-i2c/internal/log"
)

var (
	ErrInvalidRegisterWidth = errors.New("register width must be 1, 2 or 4 bytes")
	ErrRegisterOutOfRange   = errors.New("register number does not fit the register width")
	ErrValueOutOfRange      = errors.New("value does not fit the register width")
	ErrValueTooLong         = errors.New("register value longer than 65535 bytes")
	ErrLengthOutOfRange     = errors.New("read length must be between 1 and 65535")
	ErrEmptyReply           = errors.New("bridge reply carried no data")
	ErrReplyTooLong         = errors.New("bridge reply does not fit a 64-bit integer")
)

// Requester is the one thing this layer needs from the transport.
type Requester interface {
	SendRequest(ctx context.Context, command byte, payload []byte) ([]byte, error)
}

// RegisterWrite pairs a register number with the bytes to store in it.
type RegisterWrite struct {
	Reg   uint32
	Value []byte
}

// Bridge talks to one I2C device behind the WiFi bridge. The register
// width applies to every register number and numeric value it encodes.
type Bridge struct {
	requester Requester
	regWidth  int
	log       *log.Logger
}

func New(r Requester, registerWidth int, logger *log.Logger) (*Bridge, error) {
	switch registerWidth {
	case 1, 2, 4:
	default:
		return nil, ErrInvalidRegisterWidth
	}

	return &Bridge{
		requester: r,
		regWidth:  registerWidth,
		log:       logger,
	}, nil
}

// SetAddress selects the 7-bit I2C address of the device to talk to.
// Address 0 is the bridge's built-in virtual device with 256 one-byte
// registers.
func (b *Bridge) SetAddress(ctx context.Context, addr byte) error {
	_, err := b.requester.SendRequest(ctx, CmdSetAddress, []byte{addr})
	return err
}

// WriteReg stores value into one register.
func (b *Bridge) WriteReg(ctx context.Context, reg uint32, value []byte) error {
	return b.WriteRegs(ctx, []RegisterWrite{{Reg: reg, Value: value}})
}

// WriteRegs stores values into multiple registers, all in one packet.
func (b *Bridge) WriteRegs(ctx context.Context, writes []RegisterWrite) error {
	var payload []byte
	for _, w := range writes {
		var err error
		payload, err = b.appendRegisterWrite(payload, w)
		if err != nil {
			return err
		}
	}

	_, err := b.requester.SendRequest(ctx, CmdWriteReg, payload)
	return err
}

// WriteRegUint stores a register-width big-endian integer.
func (b *Bridge) WriteRegUint(ctx context.Context, reg uint32, value uint64) error {
	if b.regWidth < 8 && value >= uint64(1)<<(8*b.regWidth) {
		return fmt.Errorf("%w: %#x", ErrValueOutOfRange, value)
	}
	return b.WriteReg(ctx, reg, appendUintBE(nil, value, b.regWidth))
}

// ReadReg fetches length bytes from a register.
func (b *Bridge) ReadReg(ctx context.Context, reg uint32, length int) ([]byte, error) {
	if length < 1 || length > 0xFFFF {
		return nil, ErrLengthOutOfRange
	}

	payload, err := b.appendRegister(nil, reg)
	if err != nil {
		return nil, err
	}
	payload = append(payload, byte(length>>8), byte(length))

	return b.requester.SendRequest(ctx, CmdReadReg, payload)
}

// ReadRegUint fetches length bytes from a register and interprets them
// as an unsigned big-endian integer.
func (b *Bridge) ReadRegUint(ctx context.Context, reg uint32, length int) (uint64, error) {
	data, err := b.ReadReg(ctx, reg, length)
	if err != nil {
		return 0, err
	}
	return uintBE(data)
}

// FirmwareRevision fetches the bridge firmware revision.
func (b *Bridge) FirmwareRevision(ctx context.Context) (uint64, error) {
	data, err := b.requester.SendRequest(ctx, CmdFirmwareRev, nil)
	if err != nil {
		return 0, err
	}
	return uintBE(data)
}

// SignalStrength fetches the WiFi RSSI as measured by the bridge.
// The value is signed and normally negative.
func (b *Bridge) SignalStrength(ctx context.Context) (int64, error) {
	data, err := b.requester.SendRequest(ctx, CmdRSSI, nil)
	if err != nil {
		return 0, err
	}
	return intBE(data)
}

// appendRegisterWrite encodes one register write as
// width:u8 | reg:BE(width) | len(value):u16 | value.
func (b *Bridge) appendRegisterWrite(dst []byte, w RegisterWrite) ([]byte, error) {
	if len(w.Value) > 0xFFFF {
		return nil, ErrValueTooLong
	}

	dst, err := b.appendRegister(dst, w.Reg)
	if err != nil {
		return nil, err
	}

	dst = append(dst, byte(len(w.Value)>>8), byte(len(w.Value)))
	return append(dst, w.Value...), nil
}

// appendRegister encodes width:u8 | reg:BE(width).
func (b *Bridge) appendRegister(dst []byte, reg uint32) ([]byte, error) {
	if b.regWidth < 4 && uint64(reg) >= uint64(1)<<(8*b.regWidth) {
		return nil, fmt.Errorf("%w: %#x", ErrRegisterOutOfRange, reg)
	}

	dst = append(dst, byte(b.regWidth))
	return appendUintBE(dst, uint64(reg), b.regWidth), nil
}

func appendUintBE(dst []byte, v uint64, width int) []byte {
	for i := width - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(8*i)))
	}
	return dst
}

func uintBE(data []byte) (uint64, error) {
	if len(data) == 0 {
		return 0, ErrEmptyReply
	}
	if len(data) > 8 {
		return 0, ErrReplyTooLong
	}

	var v uint64
	for _, b := range data {
		v = v<<8 | uint64(b)
	}
	return v, nil
}

func intBE(data []byte) (int64, error) {
	u, err := uintBE(data)
	if err != nil {
		return 0, err
	}

	// Sign-extend from the reply's own width.
	shift := uint(64 - 8*len(data))
	return int64(u<<shift) >> shift, nil
}
