//go:build linux

package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	evdev "github.com/holoplot/go-evdev"

	"kbmirror/internal/keys"
	"kbmirror/internal/logging"
)

// codeToKey maps evdev key codes onto the logical roles the catalog knows.
// Codes outside this table still produce events, under a synthetic
// "key-code-N" role, so they stay in held-set snapshots without ever
// matching a trigger.
var codeToKey = map[evdev.EvCode]keys.LogicalKey{
	evdev.KEY_ESC: keys.Escape,

	evdev.KEY_F1:  keys.F1,
	evdev.KEY_F2:  keys.F2,
	evdev.KEY_F3:  keys.F3,
	evdev.KEY_F4:  keys.F4,
	evdev.KEY_F5:  keys.F5,
	evdev.KEY_F6:  keys.F6,
	evdev.KEY_F7:  keys.F7,
	evdev.KEY_F8:  keys.F8,
	evdev.KEY_F9:  keys.F9,
	evdev.KEY_F10: keys.F10,
	evdev.KEY_F11: keys.F11,
	evdev.KEY_F12: keys.F12,

	evdev.KEY_GRAVE: keys.Grave,
	evdev.KEY_1:     keys.Digit1,
	evdev.KEY_2:     keys.Digit2,
	evdev.KEY_3:     keys.Digit3,
	evdev.KEY_4:     keys.Digit4,
	evdev.KEY_5:     keys.Digit5,
	evdev.KEY_6:     keys.Digit6,
	evdev.KEY_7:     keys.Digit7,
	evdev.KEY_8:     keys.Digit8,
	evdev.KEY_9:     keys.Digit9,
	evdev.KEY_0:     keys.Digit0,
	evdev.KEY_MINUS: keys.Minus,
	evdev.KEY_EQUAL: keys.Equal,

	evdev.KEY_BACKSPACE: keys.Backspace,
	evdev.KEY_TAB:       keys.Tab,

	evdev.KEY_Q: keys.Q,
	evdev.KEY_W: keys.W,
	evdev.KEY_E: keys.E,
	evdev.KEY_R: keys.R,
	evdev.KEY_T: keys.T,
	evdev.KEY_Y: keys.Y,
	evdev.KEY_U: keys.U,
	evdev.KEY_I: keys.I,
	evdev.KEY_O: keys.O,
	evdev.KEY_P: keys.P,

	evdev.KEY_LEFTBRACE:  keys.BracketLeft,
	evdev.KEY_RIGHTBRACE: keys.BracketRight,
	evdev.KEY_BACKSLASH:  keys.Backslash,

	evdev.KEY_CAPSLOCK: keys.CapsLock,

	evdev.KEY_A: keys.A,
	evdev.KEY_S: keys.S,
	evdev.KEY_D: keys.D,
	evdev.KEY_F: keys.F,
	evdev.KEY_G: keys.G,
	evdev.KEY_H: keys.H,
	evdev.KEY_J: keys.J,
	evdev.KEY_K: keys.K,
	evdev.KEY_L: keys.L,

	evdev.KEY_SEMICOLON:  keys.Semicolon,
	evdev.KEY_APOSTROPHE: keys.Quote,
	evdev.KEY_ENTER:      keys.Enter,

	evdev.KEY_LEFTSHIFT: keys.ShiftLeft,

	evdev.KEY_Z: keys.Z,
	evdev.KEY_X: keys.X,
	evdev.KEY_C: keys.C,
	evdev.KEY_V: keys.V,
	evdev.KEY_B: keys.B,
	evdev.KEY_N: keys.N,
	evdev.KEY_M: keys.M,

	evdev.KEY_COMMA:      keys.Comma,
	evdev.KEY_DOT:        keys.Period,
	evdev.KEY_SLASH:      keys.Slash,
	evdev.KEY_RIGHTSHIFT: keys.ShiftRight,

	evdev.KEY_LEFTCTRL:  keys.CtrlLeft,
	evdev.KEY_LEFTMETA:  keys.SuperLeft,
	evdev.KEY_LEFTALT:   keys.AltLeft,
	evdev.KEY_SPACE:     keys.Space,
	evdev.KEY_RIGHTALT:  keys.AltRight,
	evdev.KEY_RIGHTMETA: keys.SuperRight,
	evdev.KEY_COMPOSE:   keys.Menu,
	evdev.KEY_RIGHTCTRL: keys.CtrlRight,

	evdev.KEY_UP:    keys.ArrowUp,
	evdev.KEY_DOWN:  keys.ArrowDown,
	evdev.KEY_LEFT:  keys.ArrowLeft,
	evdev.KEY_RIGHT: keys.ArrowRight,
}

// logicalKey resolves an evdev code to its logical role.
func logicalKey(code evdev.EvCode) keys.LogicalKey {
	if k, ok := codeToKey[code]; ok {
		return k
	}
	return keys.LogicalKey(fmt.Sprintf("key-code-%d", code))
}

// evdev key event values.
const (
	keyValueUp     = 0
	keyValueDown   = 1
	keyValueRepeat = 2
)

// Evdev mirrors one or more /dev/input keyboard devices. All devices feed a
// shared held set; the channel serializes events into a single total order.
type Evdev struct {
	mu      sync.Mutex
	held    keys.Set
	devices []*evdev.InputDevice
	events  chan keys.Event
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// OpenEvdev opens the given device paths, or autodetects key-capable
// devices under /dev/input when paths is empty. At least one readable
// device is required.
func OpenEvdev(paths []string) (*Evdev, error) {
	if len(paths) == 0 {
		var err error
		paths, err = DetectKeyboards()
		if err != nil {
			return nil, err
		}
	}

	e := &Evdev{
		held:   keys.NewSet(),
		events: make(chan keys.Event, 64),
		done:   make(chan struct{}),
	}

	for _, path := range paths {
		dev, err := evdev.OpenWithFlags(path, os.O_RDONLY)
		if err != nil {
			logging.Warn("skipping input device", "path", path, "error", err)
			continue
		}
		e.devices = append(e.devices, dev)
	}
	if len(e.devices) == 0 {
		return nil, fmt.Errorf("no readable keyboard devices (need membership in the input group)")
	}

	for _, dev := range e.devices {
		e.wg.Add(1)
		go e.readLoop(dev)
	}
	go func() {
		e.wg.Wait()
		close(e.events)
	}()
	return e, nil
}

// DetectKeyboards lists /dev/input devices that report EV_KEY capability.
func DetectKeyboards() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join("/dev/input", entry.Name())
		dev, err := evdev.OpenWithFlags(path, os.O_RDONLY)
		if err != nil {
			continue
		}
		for _, t := range dev.CapableTypes() {
			if t == evdev.EV_KEY {
				paths = append(paths, path)
				break
			}
		}
		dev.Close()
	}
	return paths, nil
}

func (e *Evdev) readLoop(dev *evdev.InputDevice) {
	defer e.wg.Done()

	path := dev.Path()
	for {
		evt, err := dev.ReadOne()
		if err != nil {
			select {
			case <-e.done:
			default:
				logging.Warn("input device read failed", "path", path, "error", err)
			}
			return
		}
		if evt.Type != evdev.EV_KEY || evt.Value == keyValueRepeat {
			continue
		}

		key := logicalKey(evt.Code)
		edge := keys.EdgeDown
		if evt.Value == keyValueUp {
			edge = keys.EdgeUp
		}
		if !e.emit(key, edge) {
			return
		}
	}
}

// emit updates the shared held set and sends the snapshot while still
// holding the lock. Update and send are atomic with respect to other device
// goroutines: two devices can never interleave between snapshot and send,
// so the channel order matches the held-set history and a later snapshot
// cannot be overtaken by an earlier, staler one. Returns false once the
// source is closed.
func (e *Evdev) emit(key keys.LogicalKey, edge keys.Edge) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if edge == keys.EdgeDown {
		e.held.Add(key)
	} else {
		e.held.Remove(key)
	}
	out := keys.Event{Key: key, Edge: edge, Held: e.held.Clone()}

	select {
	case e.events <- out:
		return true
	case <-e.done:
		return false
	}
}

// Events returns the merged event channel.
func (e *Evdev) Events() <-chan keys.Event { return e.events }

// Close stops all device readers. The done channel is closed before the
// device fds so a reader blocked on a full event channel bails out instead
// of holding the lock forever. The event channel closes once the last
// reader exits.
func (e *Evdev) Close() error {
	var firstErr error
	e.once.Do(func() {
		close(e.done)
		for _, dev := range e.devices {
			if err := dev.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	})
	return firstErr
}
