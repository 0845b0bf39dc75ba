package transport

import (
	"net"
	"testing"
	"time"

	"github.com/DouglasWWolf/wifi-i2c/internal/config"
	"github.com/DouglasWWolf/wifi-i2c/internal/log"
	"github.com/stretchr/testify/assert"
)

func newTestLogger(t *testing.T) *log.Logger {
	t.Helper()

	logger, err := log.New(&config.LogConfig{Level: "error", Format: "text"})
	if err != nil {
		t.Fatal(err)
	}
	return logger
}

func newTestListener(t *testing.T) *Listener {
	t.Helper()

	lis, err := NewListener("127.0.0.1", 41000, 500, newTestLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(lis.Close)
	return lis
}

// sender returns a socket that transmits datagrams to the listener's port.
func sender(t *testing.T, lis *Listener) *net.UDPConn {
	t.Helper()

	conn, err := net.DialUDP("udp4", nil, &net.UDPAddr{
		IP:   net.IPv4(127, 0, 0, 1),
		Port: lis.Port(),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestListenerSkipsBusyPort(t *testing.T) {
	busy, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	defer busy.Close()
	busyPort := busy.LocalAddr().(*net.UDPAddr).Port

	lis, err := NewListener("127.0.0.1", busyPort, 10, newTestLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer lis.Close()

	assert.NotEqual(t, busyPort, lis.Port())
	assert.Less(t, lis.Port(), busyPort+10)
}

func TestListenerNoPortAvailable(t *testing.T) {
	busy, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	defer busy.Close()
	busyPort := busy.LocalAddr().(*net.UDPAddr).Port

	_, err = NewListener("127.0.0.1", busyPort, 1, newTestLogger(t))
	assert.ErrorIs(t, err, ErrNoLocalPort)
}

func TestListenerRejectsInvalidHost(t *testing.T) {
	_, err := NewListener("not-an-ip", 41000, 1, newTestLogger(t))
	assert.Error(t, err)
}

func TestListenerDeliversOnlyExpectedReply(t *testing.T) {
	lis := newTestListener(t)
	conn := sender(t, lis)

	lis.Expect(7)

	stale := []byte{0, 0, 0, 6, 4, 0, 0xEE}
	malformed := []byte{0, 0, 0, 7}
	fresh := []byte{0, 0, 0, 7, 4, 0, 0x2A}

	for _, datagram := range [][]byte{stale, malformed, fresh} {
		if _, err := conn.Write(datagram); err != nil {
			t.Fatal(err)
		}
	}

	got := lis.WaitForReply(time.Second)
	assert.Equal(t, fresh, got)
}

func TestWaitForReplyTimesOut(t *testing.T) {
	lis := newTestListener(t)

	lis.Expect(1)

	start := time.Now()
	got := lis.WaitForReply(50 * time.Millisecond)
	assert.Nil(t, got)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestLateReplyDiscardedByNextExpect(t *testing.T) {
	lis := newTestListener(t)
	conn := sender(t, lis)

	// Request 7 times out before its reply arrives.
	lis.Expect(7)
	assert.Nil(t, lis.WaitForReply(50*time.Millisecond))

	late := []byte{0, 0, 0, 7, 4, 0, 0xEE}
	if _, err := conn.Write(late); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)

	// The next request re-arms and must not see the stale datagram.
	lis.Expect(8)
	assert.Nil(t, lis.WaitForReply(100*time.Millisecond))
}

func TestLateReplySameIDStillAccepted(t *testing.T) {
	lis := newTestListener(t)
	conn := sender(t, lis)

	// Attempt 1 times out, attempt 2 re-arms the same ID. A reply to
	// attempt 1 arriving now still satisfies the request.
	lis.Expect(9)
	assert.Nil(t, lis.WaitForReply(50*time.Millisecond))

	lis.Expect(9)
	reply := []byte{0, 0, 0, 9, 4, 0, 0x2A}
	if _, err := conn.Write(reply); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, reply, lis.WaitForReply(time.Second))
}
