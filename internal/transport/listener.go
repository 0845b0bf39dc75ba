package transport

import (
	"encoding/binary"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/DouglasWWolf/wifi-i2c/internal/log"
)

// Listener owns the receive side of the channel: a bound UDP socket and a
// perpetual background loop that hands the one datagram matching the
// currently expected transaction ID to the blocked caller.
//
// The rendezvous state (expected ID, delivered datagram, signal) is the
// only data shared between the caller and the loop.
type Listener struct {
	conn *net.UDPConn
	port int
	log  *log.Logger

	mu         sync.Mutex
	expectedID uint32
	armed      bool
	delivered  []byte
	signal     chan struct{}

	closeC chan struct{}
	doneC  chan struct{}
}

// NewListener binds the first free UDP port in
// [basePort, basePort+portAttempts) and starts the receive loop.
// When no candidate can be bound it returns ErrNoLocalPort and no
// goroutine is started.
func NewListener(localHost string, basePort, portAttempts int, logger *log.Logger) (*Listener, error) {
	var ip net.IP
	if localHost != "" {
		ip = net.ParseIP(localHost)
		if ip == nil {
			return nil, fmt.Errorf("invalid listener host %q", localHost)
		}
	}

	for i := 0; i < portAttempts; i++ {
		port := basePort + i
		conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: ip, Port: port})
		if err != nil {
			continue
		}

		l := &Listener{
			conn:   conn,
			port:   port,
			log:    logger,
			signal: make(chan struct{}, 1),
			closeC: make(chan struct{}),
			doneC:  make(chan struct{}),
		}
		go l.receiveLoop()
		return l, nil
	}

	return nil, ErrNoLocalPort
}

// Port is the local UDP port the bridge must send replies to.
func (l *Listener) Port() int {
	return l.port
}

// Expect arms the listener for a transaction ID, discarding any reply
// delivered for a previous arming. Must complete before the request
// datagram is transmitted, or a fast bridge could reply into a window
// where nobody is armed to receive it.
func (l *Listener) Expect(id uint32) {
	l.mu.Lock()
	l.expectedID = id
	l.armed = true
	l.delivered = nil
	select {
	case <-l.signal:
	default:
	}
	l.mu.Unlock()
}

// WaitForReply blocks up to timeout for the datagram matching the armed
// transaction ID. Returns nil on timeout. The armed ID is deliberately
// left in place so a late reply is still caught until the next Expect.
func (l *Listener) WaitForReply(timeout time.Duration) []byte {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-l.signal:
		l.mu.Lock()
		datagram := l.delivered
		l.mu.Unlock()
		return datagram
	case <-timer.C:
		return nil
	case <-l.closeC:
		return nil
	}
}

// receiveLoop runs for the lifetime of the socket. Anything that is not
// a well-formed reply for the expected transaction ID is dropped on the
// floor; the loop itself never fails on malformed input.
func (l *Listener) receiveLoop() {
	defer close(l.doneC)

	buf := make([]byte, maxDatagramLen)
	for {
		n, _, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-l.closeC:
			default:
				l.log.Error(err.Error())
			}
			return
		}

		if n < replyHeaderLen {
			l.log.Debug("discarding short datagram", "length", n)
			continue
		}

		id := binary.BigEndian.Uint32(buf)

		l.mu.Lock()
		if !l.armed || id != l.expectedID {
			l.mu.Unlock()
			l.log.Debug("discarding unexpected datagram", "transaction_id", id)
			continue
		}

		l.delivered = append([]byte(nil), buf[:n]...)
		l.armed = false
		select {
		case l.signal <- struct{}{}:
		default:
		}
		l.mu.Unlock()
	}
}

// Close shuts the socket, which unblocks and terminates the receive loop.
func (l *Listener) Close() {
	close(l.closeC)
	l.conn.Close()
	<-l.doneC
}
