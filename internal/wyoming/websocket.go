package wyoming

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
)

// maxEventSize bounds a single WebSocket event message.
const maxEventSize = 1 << 20

// websocketSource dials event streams bridged over WebSocket.
type websocketSource struct {
	uri     string
	timeout time.Duration
}

// Dial implements Source.
func (s *websocketSource) Dial(ctx context.Context) (Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, s.uri, nil)
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(maxEventSize)
	return &websocketConn{ws: conn}, nil
}

// websocketConn reads one JSON event per message.
type websocketConn struct {
	ws *websocket.Conn
}

// Next implements Conn.
func (c *websocketConn) Next() (Event, error) {
	var ev Event
	if err := c.ws.ReadJSON(&ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// Close implements Conn.
func (c *websocketConn) Close() error {
	return c.ws.Close()
}
