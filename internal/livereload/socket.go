package livereload

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/htmldiff"
)

// MessageType discriminates the live-reload messages sent to connected
// browsers.
type MessageType string

const (
	MessageReload  MessageType = "reload"
	MessagePatches MessageType = "patches"
	MessageError   MessageType = "error"
	MessageClear   MessageType = "clear"
)

// Message is the JSON envelope written to every connected WebSocket
// client. Patches is populated only for MessagePatches.
type Message struct {
	Type    MessageType      `json:"type"`
	Route   string           `json:"route,omitempty"`
	Patches []htmldiff.Patch `json:"patches,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// Socket manages the set of connected live-reload WebSocket clients and
// broadcasts Messages to all of them.
type Socket struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
}

// NewSocket creates an empty Socket.
func NewSocket() *Socket {
	return &Socket{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// HandleWebSocket upgrades the request to a WebSocket and holds the
// connection open until the client disconnects.
func (s *Socket) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()
	Metrics().clientsGauge.Set(float64(s.ClientCount()))

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
	Metrics().clientsGauge.Set(float64(s.ClientCount()))
}

// NotifyReload broadcasts a full-page reload.
func (s *Socket) NotifyReload() {
	s.broadcast(Message{Type: MessageReload})
}

// NotifyPatches broadcasts a patch stream for route.
func (s *Socket) NotifyPatches(route string, patches []htmldiff.Patch) {
	s.broadcast(Message{Type: MessagePatches, Route: route, Patches: patches})
}

// NotifyError broadcasts a build/diff error message.
func (s *Socket) NotifyError(errMsg string) {
	s.broadcast(Message{Type: MessageError, Error: errMsg})
}

// ClearError tells clients to clear any displayed error overlay.
func (s *Socket) ClearError() {
	s.broadcast(Message{Type: MessageClear})
}

func (s *Socket) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	s.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			s.mu.Lock()
			delete(s.clients, c)
			s.mu.Unlock()
			c.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (s *Socket) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Close closes every client connection.
func (s *Socket) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.Close()
		delete(s.clients, c)
	}
	Metrics().clientsGauge.Set(0)
}

// ClientScript is the JavaScript injected into served pages; it connects
// to the reload WebSocket, reloads the page on a reload message, and
// re-dispatches a patches message as an "htmldiff:patches" window event.
// It does not apply patches to the DOM itself.
const ClientScript = `
<script>
(function() {
    'use strict';
    var reconnectDelay = 1000;
    var maxReconnectDelay = 30000;

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(protocol + '//' + location.host + '/_htmldiff/reload');

        ws.onopen = function() {
            reconnectDelay = 1000;
            clearErrorOverlay();
        };

        ws.onmessage = function(e) {
            var msg;
            try { msg = JSON.parse(e.data); } catch (err) { return; }
            switch (msg.type) {
                case 'reload':
                    location.reload();
                    break;
                case 'patches':
                    window.dispatchEvent(new CustomEvent('htmldiff:patches', { detail: msg }));
                    break;
                case 'error':
                    showErrorOverlay(msg.error);
                    break;
                case 'clear':
                    clearErrorOverlay();
                    break;
            }
        };

        ws.onclose = function() {
            setTimeout(function() {
                reconnectDelay = Math.min(reconnectDelay * 2, maxReconnectDelay);
                connect();
            }, reconnectDelay);
        };

        ws.onerror = function() { ws.close(); };
    }

    function showErrorOverlay(error) {
        clearErrorOverlay();
        var overlay = document.createElement('div');
        overlay.id = 'htmldiff-error-overlay';
        overlay.style.cssText = 'position:fixed;top:0;left:0;right:0;bottom:0;background:rgba(0,0,0,0.9);color:#fff;font-family:monospace;font-size:14px;padding:20px;overflow:auto;z-index:999999;white-space:pre-wrap;';
        overlay.textContent = error;
        document.body.appendChild(overlay);
    }

    function clearErrorOverlay() {
        var overlay = document.getElementById('htmldiff-error-overlay');
        if (overlay) overlay.remove();
    }

    if (document.readyState === 'loading') {
        document.addEventListener('DOMContentLoaded', connect);
    } else {
        connect();
    }
})();
</script>
`
