// Package web broadcasts trace records to websocket clients.
package web

import (
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/thelolagemann/chipcore/internal/cpu"
	"github.com/thelolagemann/chipcore/pkg/log"
)

// recordBuffer is the number of records the hub queues before it
// starts dropping them.
const recordBuffer = 4096

// Hub is a cpu.Tracer that broadcasts every record as a text message
// to each connected websocket client. Trace never blocks the core:
// records are dropped when the hub or a client falls behind.
type Hub struct {
	clients              map[*client]bool
	records              chan cpu.Trace
	register, unregister chan *client
	done                 chan struct{}

	connected atomic.Int32
	dropped   atomic.Uint64

	server   *http.Server
	listener net.Listener
	log      log.Logger
	once     sync.Once
}

// NewHub returns a hub that is not yet listening.
func NewHub(l log.Logger) *Hub {
	if l == nil {
		l = log.NewNullLogger()
	}
	return &Hub{
		clients:    make(map[*client]bool),
		records:    make(chan cpu.Trace, recordBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		log:        l,
	}
}

// Trace implements the cpu.Tracer interface.
func (h *Hub) Trace(t cpu.Trace) {
	select {
	case h.records <- t:
	default:
		h.dropped.Add(1)
	}
}

// Start listens on addr and serves websocket clients on every path.
func (h *Hub) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	h.listener = listener
	h.server = &http.Server{Handler: http.HandlerFunc(h.serveWS)}

	go h.run()
	go func() {
		if err := h.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.log.Errorf("trace hub: %v", err)
		}
	}()

	h.log.Infof("trace hub: listening on ws://%s", listener.Addr())
	return nil
}

// Addr returns the address the hub listens on.
func (h *Hub) Addr() net.Addr {
	if h.listener == nil {
		return nil
	}
	return h.listener.Addr()
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	return int(h.connected.Load())
}

// Dropped returns the number of records dropped by Trace.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Close stops the server and disconnects every client.
func (h *Hub) Close() error {
	var err error
	h.once.Do(func() {
		close(h.done)
		if h.server != nil {
			err = h.server.Close()
		}
	})
	return err
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// upgrade the connection to a websocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("trace hub: upgrade %s: %v", r.RemoteAddr, err)
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, 256)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.readPump()
	go c.writePump()
}

// run owns the client set and fans the records out.
func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.connected.Add(1)
			h.log.Debugf("trace hub: %s connected", c.conn.RemoteAddr())
		case c := <-h.unregister:
			h.remove(c)
		case t := <-h.records:
			msg := []byte(t.String())
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// too slow to keep up
					h.remove(c)
				}
			}
		case <-h.done:
			for c := range h.clients {
				h.remove(c)
			}
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.connected.Add(-1)
	h.log.Debugf("trace hub: %s disconnected", c.conn.RemoteAddr())
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024 * 16,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}
