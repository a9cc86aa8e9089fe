package bridge

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analogkb/analogkb/internal/analog"
	"github.com/analogkb/analogkb/internal/types"
)

func newTestServer(t *testing.T) (*Server, *analog.State) {
	t.Helper()
	state := analog.NewState(0x41e4, 0x2103)
	srv := New(state, types.BridgeConfig{DisableBrowser: true})
	require.NoError(t, srv.Start())
	return srv, state
}

func dialWS(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	url := fmt.Sprintf("ws://127.0.0.1:%d", srv.WSPort())
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func analogFrame(code uint8, raw uint16) []byte {
	return []byte{msgTypeAnalog, 0x00, 0xA0, 0x00, 0x00, code, byte(raw >> 8), byte(raw)}
}

func TestRenderPageSubstitutions(t *testing.T) {
	page := string(renderPage(43210, 0x41e4, 0x2103))

	assert.Contains(t, page, "WS_PORT = 43210")
	assert.Contains(t, page, "VID = 0x41E4")
	assert.Contains(t, page, "PID = 0x2103")
	assert.NotContains(t, page, "__WS_PORT__")
	assert.NotContains(t, page, "__VID__")
	assert.NotContains(t, page, "__PID__")
}

func TestHTTPServesCapturePageOnAnyPath(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/", "/index.html", "/anything/else"} {
		resp, err := http.Get(srv.URL() + path)
		require.NoError(t, err, path)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "text/html;charset=utf-8", resp.Header.Get("Content-Type"))
		assert.Equal(t, fmt.Sprint(len(body)), resp.Header.Get("Content-Length"))
		assert.Contains(t, string(body), "analogkb WebHID bridge")
	}
}

func TestStartIsIdempotent(t *testing.T) {
	srv, _ := newTestServer(t)

	url := srv.URL()
	require.NoError(t, srv.Start())
	assert.Equal(t, url, srv.URL())
}

func TestSessionDecodesAnalogFrames(t *testing.T) {
	srv, state := newTestServer(t)

	done := make(chan struct{})
	go func() {
		srv.RunSession()
		close(done)
	}()

	conn := dialWS(t, srv)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, analogFrame(0x04, 768)))

	require.Eventually(t, state.IsActive, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return state.Value(0x04) > 0.4
	}, 2*time.Second, 10*time.Millisecond)
	assert.InDelta(t, (768.0-10.0)/1550.0, state.Value(0x04), 0.001)
	assert.True(t, strings.HasPrefix(state.Status(), "Analog active!"))

	// Session ends when the browser goes away.
	conn.Close()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("session did not end after close")
	}
	assert.False(t, state.IsActive())
	assert.Equal(t, "Chrome disconnected - reconnecting...", state.Status())
}

func TestSessionIgnoresForeignFrameTypes(t *testing.T) {
	srv, state := newTestServer(t)

	done := make(chan struct{})
	go func() {
		srv.RunSession()
		close(done)
	}()

	conn := dialWS(t, srv)

	// Short frame, wrong type, and text frames are all noise.
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0x03}))
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, append([]byte{0x07, 0x00}, 0xA0, 0, 0, 4, 3, 0)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello")))
	// Valid type with a foreign report tag decodes to nothing.
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0x03, 0x00, 0x01, 0, 0, 4, 3, 0}))

	// The 0x03 frame flips the session active even though its payload is
	// discarded by the decoder.
	require.Eventually(t, state.IsActive, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, [analog.NumKeys]float32{}, state.Values())

	conn.Close()
	<-done
}

func TestHandshakeFailureKeepsListenerAlive(t *testing.T) {
	srv, state := newTestServer(t)

	done := make(chan struct{})
	go func() {
		srv.RunSession()
		close(done)
	}()

	// Plain HTTP against the WS port is a failed handshake, not a session.
	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/", srv.WSPort()))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// A real client still gets through afterwards.
	conn := dialWS(t, srv)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, analogFrame(0x10, 0xFFFF)))
	require.Eventually(t, func() bool {
		return state.Value(0x10) == 1.0
	}, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	<-done
}

func TestSessionsServicedOneAtATime(t *testing.T) {
	srv, state := newTestServer(t)

	go srv.RunSession()

	first := dialWS(t, srv)
	require.NoError(t, first.WriteMessage(websocket.BinaryMessage, analogFrame(0x04, 768)))
	require.Eventually(t, state.IsActive, 2*time.Second, 10*time.Millisecond)

	// A second tab connects mid-session; it is parked, not serviced.
	second := dialWS(t, srv)
	require.NoError(t, second.WriteMessage(websocket.BinaryMessage, analogFrame(0x05, 0xFFFF)))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, float32(0), state.Value(0x05))

	first.Close()

	// The next session picks up the parked connection.
	go srv.RunSession()
	require.NoError(t, second.WriteMessage(websocket.BinaryMessage, analogFrame(0x05, 0xFFFF)))
	require.Eventually(t, func() bool {
		return state.Value(0x05) == 1.0
	}, 3*time.Second, 10*time.Millisecond)
	second.Close()
}
