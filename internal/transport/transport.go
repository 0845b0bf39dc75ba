package transport

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/DouglasWWolf/wifi-i2c/internal/log"
	"github.com/DouglasWWolf/wifi-i2c/internal/resolver"
	"github.com/cenkalti/backoff/v5"
)

const (
	// DefaultServerPort is used when the caller supplies port 0.
	DefaultServerPort = 1182

	// apModeServerHost is where the bridge lives when it runs its own
	// access point and no server host is configured.
	apModeServerHost = "192.168.4.1"

	// cmdSetReplyPort tells the bridge which local UDP port replies go to.
	cmdSetReplyPort byte = 1
)

// Options bound the round-trip behavior of a Transport.
type Options struct {
	Timeout     time.Duration // per-attempt reply timeout
	DNSTimeout  time.Duration
	MaxAttempts int
}

func DefaultOptions() Options {
	return Options{
		Timeout:     time.Second,
		DNSTimeout:  5 * time.Second,
		MaxAttempts: 5,
	}
}

// Transport turns a logical request into a reliable-enough round trip
// over the unreliable datagram channel. It owns the send socket and the
// monotonic transaction ID counter; the paired Listener owns the receive
// side. A Transport supports exactly one in-flight request at a time.
type Transport struct {
	listener    *Listener
	timeout     time.Duration
	dnsTimeout  time.Duration
	maxAttempts int
	log         *log.Logger

	mu            sync.Mutex // serializes SendRequest
	transactionID uint32     // last ID issued, guarded by mu
	conn          *net.UDPConn
	serverAddr    *net.UDPAddr
}

func New(lis *Listener, opts Options, logger *log.Logger) *Transport {
	return &Transport{
		listener:    lis,
		timeout:     opts.Timeout,
		dnsTimeout:  opts.DNSTimeout,
		maxAttempts: opts.MaxAttempts,
		log:         logger,
	}
}

// Connect resolves the bridge address, opens the send socket and
// performs the reply-port handshake so the bridge knows where to send
// replies. A failure here is terminal; the caller must Connect again.
func (t *Transport) Connect(ctx context.Context, serverHost string, serverPort int) error {
	if serverHost == "" {
		serverHost = apModeServerHost
	}
	if serverPort == 0 {
		serverPort = DefaultServerPort
	}

	hostport := net.JoinHostPort(serverHost, strconv.Itoa(serverPort))
	ip, port, err := resolver.Resolve(ctx, hostport, t.dnsTimeout)
	if err != nil {
		return fmt.Errorf("resolve bridge address %s: %w", hostport, err)
	}
	t.serverAddr = &net.UDPAddr{IP: ip, Port: port}

	conn, err := net.DialUDP("udp4", nil, t.serverAddr)
	if err != nil {
		return err
	}
	t.conn = conn

	replyPort := make([]byte, 2)
	binary.BigEndian.PutUint16(replyPort, uint16(t.listener.Port()))

	if _, err := t.SendRequest(ctx, cmdSetReplyPort, replyPort); err != nil {
		conn.Close()
		t.conn = nil
		return fmt.Errorf("reply port handshake: %w", err)
	}

	t.log.Info("connected to bridge",
		"server", t.serverAddr.String(),
		"reply_port", t.listener.Port(),
	)
	return nil
}

// SendRequest performs one correlated round trip: mint a transaction ID,
// frame the command, and run the arm/send/wait attempt loop. Transient
// datagram loss is absorbed by the retries; only an exhausted budget
// surfaces, as ErrConnectionTimeout. A bridge-reported error ends the
// loop immediately: resending a rejected command cannot make it valid.
//
// The same transaction ID is reused across attempts, so a reply to an
// earlier attempt of this request is still accepted by a later one.
func (t *Transport) SendRequest(ctx context.Context, command byte, payload []byte) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil, ErrNotConnected
	}

	t.transactionID++
	id := t.transactionID
	frame := encodeRequest(id, command, payload)

	attempt := func() ([]byte, error) {
		// Arm before transmitting: a fast bridge may reply before
		// this goroutine gets scheduled again.
		t.listener.Expect(id)

		if _, err := t.conn.Write(frame); err != nil {
			return nil, backoff.Permanent(err)
		}

		datagram := t.listener.WaitForReply(t.timeout)
		if datagram == nil {
			return nil, ErrConnectionTimeout
		}

		reply, err := parseReply(datagram)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		if reply.ErrorCode != ErrCodeNone {
			return nil, backoff.Permanent(newBridgeError(reply))
		}

		return reply.Payload, nil
	}

	result, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(&backoff.ZeroBackOff{}),
		backoff.WithMaxTries(uint(t.maxAttempts)),
	)
	if err != nil {
		t.log.Debug("request failed",
			"transaction_id", id,
			"command", command,
			"error", err.Error(),
		)
		return nil, err
	}

	return result, nil
}

// Close releases the send socket and stops the listener. The Transport
// is unusable afterwards.
func (t *Transport) Close() {
	t.mu.Lock()
	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
	}
	t.mu.Unlock()
	t.listener.Close()
}
