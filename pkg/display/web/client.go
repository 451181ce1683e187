package web

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Client is a websocket connection to the hub. The earliest connected
// client controls the cabinet; the rest spectate.
type Client struct {
	hub  *hub
	conn *websocket.Conn
	Send chan []byte
	ID   uint8

	Metadata struct {
		RemoteAddr string
		UserAgent  string
		Username   string
	}
	avgLatency  atomic.Uint32
	connectedAt time.Time
}

func (c *Client) latency() uint16 {
	return uint16(c.avgLatency.Load())
}

// identity is the client's entry in ClientList messages.
func (c *Client) identity() []byte {
	var b []byte
	b = append(b, c.Metadata.RemoteAddr...)
	b = append(b, 0)
	b = append(b, c.Metadata.UserAgent...)
	b = append(b, 0)
	b = append(b, c.Metadata.Username...)
	b = append(b, 0)
	return append(b, c.ID)
}

// ReadPump reads messages from the connection until it closes.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return // connection closed
		}
		if len(message) == 0 {
			continue
		}

		switch message[0] {
		case SettingsMessage:
			if len(message) < 3 {
				continue
			}
			if message[1] == RegisterUsername {
				c.hub.mu.Lock()
				c.Metadata.Username = string(message[2:])
				identity := c.identity()
				c.hub.mu.Unlock()
				c.hub.queue(append([]byte{ClientInfo, RegisterUsername}, identity...))
				continue
			}
			if c.hub.player.set(message[1], message[2]) {
				c.hub.queue([]byte{ClientInfo, message[1], message[2]})
			}
		case CloseMessage:
			return
		default:
			select {
			case c.hub.input <- clientInput{c, message}:
			case <-c.hub.done:
				return
			}
		}
	}
}

// WritePump writes queued messages to the connection, tracking the
// connection's round trip time.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.Send {
		if err := c.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
			return
		}

		if conn, ok := c.conn.UnderlyingConn().(*net.TCPConn); ok {
			if rtt, err := tcpRTT(conn); err == nil {
				avg := (c.avgLatency.Load()*9 + uint32(rtt/time.Millisecond)) / 10
				c.avgLatency.Store(avg)
			}
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
