package web

import (
	"context"
	"encoding/binary"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/thelolagemann/go-invaders/pkg/log"
)

type clientInput struct {
	c   *Client
	msg []byte
}

// hub keeps track of the connected clients and fans the player's
// messages out to them.
type hub struct {
	clients    map[*Client]bool
	controller *Client
	player     *player

	broadcast            chan []byte
	register, unregister chan *Client
	input                chan clientInput
	done                 chan struct{}

	// onInput receives the controller's input messages.
	onInput func([]byte)
	// paused reports whether the machine is paused.
	paused func() bool

	currentID uint8
	log       log.Logger

	mu sync.Mutex
}

func newHub(l log.Logger) *hub {
	return &hub{
		clients:    make(map[*Client]bool),
		player:     newPlayer(),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		input:      make(chan clientInput, 64),
		done:       make(chan struct{}),
		onInput:    func([]byte) {},
		paused:     func() bool { return false },
		log:        l,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 16,
	WriteBufferSize: 1024 * 16,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeHTTP upgrades the request to a websocket and registers the
// client.
func (h *hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debugf("web: upgrade %s: %v", r.RemoteAddr, err)
		return
	}

	h.mu.Lock()
	h.currentID++
	c := &Client{
		hub:         h,
		conn:        conn,
		Send:        make(chan []byte, 256),
		ID:          h.currentID,
		connectedAt: time.Now(),
	}
	c.Metadata.RemoteAddr = r.RemoteAddr
	c.Metadata.UserAgent = r.Header.Get("User-Agent")
	h.mu.Unlock()

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.ReadPump()
	go c.WritePump()
}

// run handles registration and broadcasting until ctx is cancelled.
func (h *hub) run(ctx context.Context) {
	defer func() {
		close(h.done)
		for c := range h.clients {
			close(c.Send)
		}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			h.remove(c)
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.Send <- msg:
				default:
					// too slow to keep up
					h.remove(c)
				}
			}
		case in := <-h.input:
			if in.c == h.controller {
				h.onInput(in.msg)
			}
		case <-ticker.C:
			data := []byte{ServerInfo}
			for c := range h.clients {
				data = append(data, c.ID)
				data = binary.LittleEndian.AppendUint16(data, c.latency())
			}
			for c := range h.clients {
				select {
				case c.Send <- data:
				default:
				}
			}
		}
	}
}

// add sends a new client the state of the hub and the player.
func (h *hub) add(c *Client) {
	h.clients[c] = true
	h.log.Infof("web: client %d connected from %s", c.ID, c.Metadata.RemoteAddr)

	p := h.player
	p.mu.Lock()
	ratio := p.framePatchRatio
	level := p.compressionLevel
	p.mu.Unlock()
	c.Send <- []byte{ClientInfo, ClientStatus, p.info(h.paused()), uint8(level), uint8(ratio)}

	sync, err := p.sync()
	if err != nil {
		h.log.Errorf("web: syncing client %d: %v", c.ID, err)
	}
	for _, msg := range sync {
		c.Send <- msg
	}

	var list []byte
	h.mu.Lock()
	for other := range h.clients {
		if other == c {
			continue
		}
		list = append(list, other.identity()...)
		list = append(list, '\n')
	}
	identity := append([]byte{ClientListNew}, c.identity()...)
	h.mu.Unlock()
	if len(list) > 0 {
		list = list[:len(list)-1]
	}
	c.Send <- append([]byte{ClientListSync}, list...)

	for other := range h.clients {
		if other == c {
			continue
		}
		select {
		case other.Send <- identity:
		default:
		}
	}

	if h.controller == nil {
		h.promote(c)
	}
}

// remove drops a client, handing control to the next in line.
func (h *hub) remove(c *Client) {
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	close(c.Send)
	h.log.Infof("web: client %d disconnected", c.ID)

	for other := range h.clients {
		select {
		case other.Send <- []byte{ClientClosing, c.ID}:
		default:
		}
	}

	if c == h.controller {
		h.controller = nil
		if next := h.nextPlayer(); next != nil {
			h.promote(next)
		}
	}
}

func (h *hub) promote(c *Client) {
	h.controller = c
	c.Send <- []byte{PlayerIdentify, 1}
}

// nextPlayer returns the longest connected client.
func (h *hub) nextPlayer() *Client {
	var next *Client
	for c := range h.clients {
		if next == nil || c.connectedAt.Before(next.connectedAt) {
			next = c
		}
	}
	return next
}

// queue broadcasts msg, unless the hub has stopped.
func (h *hub) queue(msg []byte) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}
