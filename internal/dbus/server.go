package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/analogkb/analogkb/internal/analog"
	"github.com/analogkb/analogkb/internal/logger"
)

const (
	dbusServiceName = "com.analogkb.Bridge"
	dbusObjectPath  = "/com/analogkb/Bridge"
	dbusInterface   = "com.analogkb.Bridge"
)

// Server exposes the keyboard state on the session bus so out-of-process
// consumers can poll the same query surface as in-process ones.
type Server struct {
	conn  *dbus.Conn
	state *analog.State
}

// NewServer creates a D-Bus server reading from the given state.
func NewServer(state *analog.State) *Server {
	return &Server{state: state}
}

// Start connects to the session bus and exports the query methods.
func (s *Server) Start() error {
	var err error
	s.conn, err = dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	reply, err := s.conn.RequestName(dbusServiceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		s.conn.Close()
		return fmt.Errorf("failed to request name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		s.conn.Close()
		return fmt.Errorf("name already taken")
	}

	if err := s.conn.Export(s, dbusObjectPath, dbusInterface); err != nil {
		s.conn.Close()
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: dbusObjectPath,
		Interfaces: []introspect.Interface{{
			Name: dbusInterface,
			Methods: []introspect.Method{
				{
					Name: "GetStatus",
					Args: []introspect.Arg{
						{Name: "status", Type: "s", Direction: "out"},
					},
				},
				{
					Name: "IsActive",
					Args: []introspect.Arg{
						{Name: "active", Type: "b", Direction: "out"},
					},
				},
				{
					Name: "GetKeyValue",
					Args: []introspect.Arg{
						{Name: "usage_code", Type: "y", Direction: "in"},
						{Name: "value", Type: "d", Direction: "out"},
					},
				},
				{
					Name: "GetPressedCount",
					Args: []introspect.Arg{
						{Name: "count", Type: "u", Direction: "out"},
					},
				},
			},
		}},
	}

	if err := s.conn.Export(introspect.NewIntrospectable(node), dbusObjectPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		s.conn.Close()
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	logger.Infof("D-Bus service started: %s", dbusServiceName)
	return nil
}

// Stop disconnects from the session bus.
func (s *Server) Stop() {
	if s.conn != nil {
		s.conn.Close()
	}
	logger.Info("D-Bus service stopped")
}

// GetStatus returns the current pipeline status (D-Bus method)
func (s *Server) GetStatus() (string, *dbus.Error) {
	return s.state.Status(), nil
}

// IsActive reports whether analog data is streaming (D-Bus method)
func (s *Server) IsActive() (bool, *dbus.Error) {
	return s.state.IsActive(), nil
}

// GetKeyValue returns one key's pressure by HID usage code (D-Bus method)
func (s *Server) GetKeyValue(usageCode uint8) (float64, *dbus.Error) {
	return float64(s.state.Value(usageCode)), nil
}

// GetPressedCount returns how many keys are currently pressed (D-Bus method)
func (s *Server) GetPressedCount() (uint32, *dbus.Error) {
	return uint32(s.state.PressedCount(0.01)), nil
}
