package bridge

import (
	"context"
	"testing"

	"github.com/DouglasWWolf/wifi-i2c/internal/config"
	"github.com/DouglasWWolf/wifi-i2c/internal/log"
	"github.com/stretchr/testify/assert"
)

type fakeRequester struct {
	lastCommand byte
	lastPayload []byte
	reply       []byte
	err         error
	calls       int
}

func (f *fakeRequester) SendRequest(ctx context.Context, command byte, payload []byte) ([]byte, error) {
	f.calls++
	f.lastCommand = command
	f.lastPayload = append([]byte(nil), payload...)
	return f.reply, f.err
}

func newTestBridge(t *testing.T, width int) (*Bridge, *fakeRequester) {
	t.Helper()

	logger, err := log.New(&config.LogConfig{Level: "error", Format: "text"})
	if err != nil {
		t.Fatal(err)
	}

	fr := &fakeRequester{}
	b, err := New(fr, width, logger)
	if err != nil {
		t.Fatal(err)
	}
	return b, fr
}

func TestNewRejectsBadRegisterWidth(t *testing.T) {
	_, err := New(&fakeRequester{}, 3, nil)
	assert.ErrorIs(t, err, ErrInvalidRegisterWidth)
}

func TestSetAddressPayload(t *testing.T) {
	b, fr := newTestBridge(t, 1)

	if err := b.SetAddress(context.Background(), 0x23); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, CmdSetAddress, fr.lastCommand)
	assert.Equal(t, []byte{0x23}, fr.lastPayload)
}

func TestWriteRegPayloadLayout(t *testing.T) {
	b, fr := newTestBridge(t, 1)

	if err := b.WriteReg(context.Background(), 0x09, []byte{0x40}); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, CmdWriteReg, fr.lastCommand)
	// width | reg | value length | value
	assert.Equal(t, []byte{0x01, 0x09, 0x00, 0x01, 0x40}, fr.lastPayload)
}

func TestWriteRegsSinglePacket(t *testing.T) {
	b, fr := newTestBridge(t, 1)

	err := b.WriteRegs(context.Background(), []RegisterWrite{
		{Reg: 0x00, Value: []byte{0x1F}},
		{Reg: 0x09, Value: []byte{0x60, 0x20}},
	})
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, 1, fr.calls)
	assert.Equal(t, []byte{
		0x01, 0x00, 0x00, 0x01, 0x1F,
		0x01, 0x09, 0x00, 0x02, 0x60, 0x20,
	}, fr.lastPayload)
}

func TestWriteRegUintWideRegisters(t *testing.T) {
	b, fr := newTestBridge(t, 2)

	if err := b.WriteRegUint(context.Background(), 0x0115, 0x0BB8); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, []byte{0x02, 0x01, 0x15, 0x00, 0x02, 0x0B, 0xB8}, fr.lastPayload)
}

func TestWriteRegUintValueOutOfRange(t *testing.T) {
	b, _ := newTestBridge(t, 1)

	err := b.WriteRegUint(context.Background(), 0x09, 256)
	assert.ErrorIs(t, err, ErrValueOutOfRange)
}

func TestRegisterOutOfRange(t *testing.T) {
	b, _ := newTestBridge(t, 1)

	err := b.WriteReg(context.Background(), 0x1FF, []byte{1})
	assert.ErrorIs(t, err, ErrRegisterOutOfRange)
}

func TestReadRegPayloadAndResult(t *testing.T) {
	b, fr := newTestBridge(t, 1)
	fr.reply = []byte{0x2A}

	value, err := b.ReadRegUint(context.Background(), 0x10, 1)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, CmdReadReg, fr.lastCommand)
	// width | reg | read length
	assert.Equal(t, []byte{0x01, 0x10, 0x00, 0x01}, fr.lastPayload)
	assert.Equal(t, uint64(42), value)
}

func TestReadRegLengthOutOfRange(t *testing.T) {
	b, _ := newTestBridge(t, 1)

	_, err := b.ReadReg(context.Background(), 0x10, 0)
	assert.ErrorIs(t, err, ErrLengthOutOfRange)

	_, err = b.ReadReg(context.Background(), 0x10, 0x10000)
	assert.ErrorIs(t, err, ErrLengthOutOfRange)
}

func TestFirmwareRevision(t *testing.T) {
	b, fr := newTestBridge(t, 1)
	fr.reply = []byte{0x03, 0xE8}

	rev, err := b.FirmwareRevision(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, CmdFirmwareRev, fr.lastCommand)
	assert.Empty(t, fr.lastPayload)
	assert.Equal(t, uint64(1000), rev)
}

func TestSignalStrengthIsSigned(t *testing.T) {
	b, fr := newTestBridge(t, 1)
	fr.reply = []byte{0xD8}

	rssi, err := b.SignalStrength(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, CmdRSSI, fr.lastCommand)
	assert.Equal(t, int64(-40), rssi)
}

func TestEmptyNumericReply(t *testing.T) {
	b, fr := newTestBridge(t, 1)
	fr.reply = nil

	_, err := b.FirmwareRevision(context.Background())
	assert.ErrorIs(t, err, ErrEmptyReply)
}
