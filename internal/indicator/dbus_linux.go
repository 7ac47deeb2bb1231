//go:build linux

package indicator

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	objectPath    = dbus.ObjectPath("/org/kbmirror/Indicator")
	interfaceName = "org.kbmirror.Indicator"
	signalName    = interfaceName + ".CapsChanged"
)

// DBus publishes the indicator on the session bus: an exported object with
// a CapsLock method for polling and a CapsChanged signal on transitions.
type DBus struct {
	mu    sync.Mutex
	conn  *dbus.Conn
	caps  bool
	known bool
}

// exported is the D-Bus object surface.
type exported struct {
	d *DBus
}

// CapsLock returns the last published indicator value.
func (e *exported) CapsLock() (bool, *dbus.Error) {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	return e.d.caps, nil
}

// NewDBus connects to the session bus and claims busName.
func NewDBus(busName string) (*DBus, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	reply, err := conn.RequestName(busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return nil, fmt.Errorf("bus name %s already taken", busName)
	}

	d := &DBus{conn: conn}
	if err := conn.Export(&exported{d: d}, objectPath, interfaceName); err != nil {
		conn.Close()
		return nil, fmt.Errorf("export indicator object: %w", err)
	}
	return d, nil
}

// Publish emits CapsChanged when the value differs from the last published
// one.
func (d *DBus) Publish(capsOn bool) {
	d.mu.Lock()
	if d.known && d.caps == capsOn {
		d.mu.Unlock()
		return
	}
	d.caps = capsOn
	d.known = true
	conn := d.conn
	d.mu.Unlock()

	if conn != nil {
		_ = conn.Emit(objectPath, signalName, capsOn)
	}
}

// Close disconnects from the bus.
func (d *DBus) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}
