package wyoming

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/url"
	"time"

	"github.com/MorfeoMatrixx/wyoming-satellite/internal/util"
)

// Conn is an established event-source connection. Next blocks until the
// next event arrives or the connection fails; closing the connection from
// another goroutine unblocks it.
type Conn interface {
	Next() (Event, error)
	Close() error
}

// Source dials event-source connections. Dial must respect both ctx and
// the configured dial timeout so a hung connect cannot block reconnection.
type Source interface {
	Dial(ctx context.Context) (Conn, error)
}

// NewSource returns a Source for the given URI. tcp:// and unix:// URIs
// speak the Wyoming JSONL framing; ws:// and wss:// URIs read JSON events
// over a WebSocket.
func NewSource(uri string, dialTimeout time.Duration) (Source, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, util.WrapError("parse event source uri", err)
	}

	switch u.Scheme {
	case "tcp":
		if u.Host == "" {
			return nil, fmt.Errorf("event source uri %q has no host", uri)
		}
		return &socketSource{network: "tcp", address: u.Host, timeout: dialTimeout}, nil
	case "unix":
		if u.Path == "" {
			return nil, fmt.Errorf("event source uri %q has no socket path", uri)
		}
		return &socketSource{network: "unix", address: u.Path, timeout: dialTimeout}, nil
	case "ws", "wss":
		return &websocketSource{uri: uri, timeout: dialTimeout}, nil
	default:
		return nil, fmt.Errorf("unsupported event source scheme %q (want tcp, unix, ws or wss)", u.Scheme)
	}
}

// socketSource dials raw sockets carrying Wyoming JSONL framing.
type socketSource struct {
	network string
	address string
	timeout time.Duration
}

// Dial implements Source.
func (s *socketSource) Dial(ctx context.Context) (Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var d net.Dialer
	nc, err := d.DialContext(dialCtx, s.network, s.address)
	if err != nil {
		return nil, err
	}
	return NewSocketConn(nc), nil
}

// socketConn reads the Wyoming framing: one JSON header per line, followed
// by data_length bytes of detail JSON and payload_length bytes of raw
// payload.
type socketConn struct {
	nc net.Conn
	r  *bufio.Reader
}

// NewSocketConn wraps an established socket in the Wyoming framing reader.
func NewSocketConn(nc net.Conn) Conn {
	return &socketConn{nc: nc, r: bufio.NewReader(nc)}
}

// Next implements Conn.
func (c *socketConn) Next() (Event, error) {
	line, err := c.r.ReadBytes('\n')
	if err != nil {
		return Event{}, err
	}

	var ev Event
	if err := json.Unmarshal(line, &ev); err != nil {
		return Event{}, util.WrapError("decode event header", err)
	}

	if ev.DataLength > 0 {
		data := make([]byte, ev.DataLength)
		if _, err := io.ReadFull(c.r, data); err != nil {
			return Event{}, util.WrapError("read event data", err)
		}
		ev.Data = data
	}
	if ev.PayloadLength > 0 {
		// audio payloads are not interpreted here
		if _, err := c.r.Discard(ev.PayloadLength); err != nil {
			return Event{}, util.WrapError("discard event payload", err)
		}
	}
	return ev, nil
}

// Close implements Conn.
func (c *socketConn) Close() error {
	return c.nc.Close()
}
