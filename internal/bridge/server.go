// Package bridge runs the local HTTP + WebSocket relay that turns a
// browser tab into a WebHID capture session for the analog keyboard.
package bridge

import (
	_ "embed"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/analogkb/analogkb/internal/analog"
	"github.com/analogkb/analogkb/internal/browser"
	"github.com/analogkb/analogkb/internal/logger"
	"github.com/analogkb/analogkb/internal/types"
)

//go:embed capture.html
var capturePage string

// Frame layout on the wire: [type][reserved][payload...].
const (
	msgTypeAnalog = 0x03

	// Keys reading above this count as pressed in the status line.
	pressedThreshold = 0.01

	// Breather between sessions so a reloading tab does not hammer the
	// accept path.
	sessionCooldown = 500 * time.Millisecond
)

// Server owns the two loopback listeners and hands one upgraded
// WebSocket connection at a time to RunSession.
type Server struct {
	state *analog.State
	cfg   types.BridgeConfig

	httpLn net.Listener
	wsLn   net.Listener
	page   []byte
	url    string

	upgrader websocket.Upgrader
	conns    chan *websocket.Conn
	started  bool
}

func New(state *analog.State, cfg types.BridgeConfig) *Server {
	return &Server{
		state: state,
		cfg:   cfg,
		upgrader: websocket.Upgrader{
			// Loopback-only relay, the page origin is ourselves.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Start binds both listeners, renders the capture page and launches the
// browser. It is idempotent: once bound, the same ports are reused for
// every later session so the page URL stays stable.
func (s *Server) Start() error {
	if s.started {
		return nil
	}

	httpLn, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.cfg.HTTPPort))
	if err != nil {
		s.state.SetStatus(fmt.Sprintf("HTTP bind: %v", err))
		return fmt.Errorf("http listener: %w", err)
	}

	wsLn, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.cfg.WSPort))
	if err != nil {
		httpLn.Close()
		s.state.SetStatus(fmt.Sprintf("WS bind: %v", err))
		return fmt.Errorf("ws listener: %w", err)
	}

	s.httpLn = httpLn
	s.wsLn = wsLn
	s.page = renderPage(listenerPort(wsLn), s.state.VID(), s.state.PID())
	s.url = fmt.Sprintf("http://127.0.0.1:%d", listenerPort(httpLn))
	s.conns = make(chan *websocket.Conn)

	go func() {
		if err := http.Serve(httpLn, http.HandlerFunc(s.servePage)); err != nil {
			logger.Debugf("bridge http server exited: %v", err)
		}
	}()
	go func() {
		if err := http.Serve(wsLn, http.HandlerFunc(s.serveWS)); err != nil {
			logger.Debugf("bridge ws server exited: %v", err)
		}
	}()

	s.started = true
	s.state.SetStatus("Open Chrome -> " + s.url)

	if !s.cfg.DisableBrowser {
		if err := browser.Open(s.url); err != nil {
			// Non-fatal, the printed URL still works.
			s.state.SetStatus(fmt.Sprintf("Open %s manually (browser launch failed: %v)", s.url, err))
		}
	}

	return nil
}

// URL returns the capture page address. Empty before Start.
func (s *Server) URL() string { return s.url }

// WSPort returns the bound WebSocket port. Zero before Start.
func (s *Server) WSPort() int {
	if s.wsLn == nil {
		return 0
	}
	return listenerPort(s.wsLn)
}

// servePage answers every HTTP request with the rendered capture page.
// No routing: the page is all this listener exists for.
func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html;charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(s.page)))
	w.Header().Set("Connection", "close")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.page)
}

// serveWS upgrades a connection and parks it until RunSession picks it
// up. A failed handshake just drops the connection; the listener keeps
// accepting.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debugf("websocket handshake failed: %v", err)
		return
	}
	s.conns <- conn
}

// RunSession services exactly one capture session: it blocks until a
// browser connects, streams frames into the decoder until the
// connection dies, then returns so the watcher can re-check the device.
func (s *Server) RunSession() {
	s.state.SetStatus("Waiting for Chrome connection...")
	s.state.SetActive(false)

	conn := <-s.conns
	defer conn.Close()

	s.state.SetStatus("Chrome connected - click Connect in browser")
	gotAnalog := false

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.BinaryMessage || len(data) < 3 {
			continue
		}
		if data[0] != msgTypeAnalog {
			continue
		}

		if !gotAnalog {
			gotAnalog = true
			s.state.SetActive(true)
			s.state.SetStatus("Analog active!")
		}

		s.state.ApplyReport(data[2:])
		s.state.SetStatusQuiet(fmt.Sprintf("Analog active! (%d keys)", s.state.PressedCount(pressedThreshold)))
	}

	s.state.SetActive(false)
	s.state.SetStatus("Chrome disconnected - reconnecting...")
	time.Sleep(sessionCooldown)
}

func renderPage(wsPort int, vid, pid uint16) []byte {
	r := strings.NewReplacer(
		"__WS_PORT__", strconv.Itoa(wsPort),
		"__VID__", fmt.Sprintf("0x%04X", vid),
		"__PID__", fmt.Sprintf("0x%04X", pid),
	)
	return []byte(r.Replace(capturePage))
}

func listenerPort(ln net.Listener) int {
	return ln.Addr().(*net.TCPAddr).Port
}
