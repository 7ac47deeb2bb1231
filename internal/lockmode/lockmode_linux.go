//go:build linux

package lockmode

import (
	"fmt"
	"os"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux input event LED codes (linux/input-event-codes.h).
const (
	ledNumLock  = 0x00
	ledCapsLock = 0x01
)

// ledBufSize covers LED_MAX (0x0f) rounded up to a byte.
const ledBufSize = 2

// eviocgled is the EVIOCGLED(len) ioctl request for len == ledBufSize:
// _IOC(_IOC_READ, 'E', 0x19, len).
const eviocgled = (2 << 30) | (ledBufSize << 16) | ('E' << 8) | 0x19

// DeviceSource reads the caps LED state of an evdev keyboard device. The
// kernel keeps LED state in sync with lock mode, so the LED bitmap is the
// authoritative lock reading on Linux.
type DeviceSource struct {
	mu   sync.Mutex
	file *os.File
}

// OpenDevice opens the evdev device at path for LED queries.
func OpenDevice(path string) (*DeviceSource, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open lock device: %w", err)
	}
	return &DeviceSource{file: f}, nil
}

// Read queries the device LED bitmap. A failed ioctl degrades to an
// unsupported reading so the tracker falls back to its toggle heuristic.
func (d *DeviceSource) Read() Reading {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.file == nil {
		return Reading{}
	}

	var leds [ledBufSize]byte
	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		d.file.Fd(),
		uintptr(eviocgled),
		uintptr(unsafe.Pointer(&leds[0])),
	)
	if errno != 0 {
		return Reading{}
	}

	active := leds[ledCapsLock/8]&(1<<(ledCapsLock%8)) != 0
	return Reading{Supported: true, Active: active}
}

// Close releases the device.
func (d *DeviceSource) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}
