// Package serialport transmits the panel's serial echo over a real UART
// (tarm/serial) or a pseudo-terminal (creack/pty).
package serialport

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/creack/pty"
	"github.com/tarm/serial"
	"golang.org/x/term"

	"github.com/Iron-Ham/potpanel/internal/errors"
)

// Port is a byte transmitter over any writer. WriteByte blocks until the
// underlying writer accepts the byte.
type Port struct {
	name string
	w    io.Writer

	mu     sync.Mutex
	closer []io.Closer
	closed bool
	sent   atomic.Uint64
}

// New wraps w. Closing the Port closes w if it is an io.Closer.
func New(name string, w io.Writer) *Port {
	p := &Port{name: name, w: w}
	if c, ok := w.(io.Closer); ok {
		p.closer = append(p.closer, c)
	}
	return p
}

// OpenUART opens a serial device at the given baud rate.
func OpenUART(device string, baud int) (*Port, error) {
	sp, err := serial.OpenPort(&serial.Config{Name: device, Baud: baud})
	if err != nil {
		return nil, errors.NewDeviceError("serial", "open "+device, errors.Join(errors.ErrDeviceUnavailable, err)).
			WithRetryable(false)
	}
	return New(device, sp), nil
}

// OpenPTY creates a pseudo-terminal pair and transmits on its controller
// side. Name returns the path a terminal program opens to read the bytes.
func OpenPTY() (*Port, error) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		return nil, errors.NewDeviceError("serial", "open pty", errors.Join(errors.ErrDeviceUnavailable, err)).
			WithRetryable(false)
	}
	// Raw mode so the line discipline neither echoes nor buffers by line.
	if _, err := term.MakeRaw(int(tty.Fd())); err != nil {
		_ = ptmx.Close()
		_ = tty.Close()
		return nil, errors.NewDeviceError("serial", "raw mode", err).WithRetryable(false)
	}
	p := New(tty.Name(), ptmx)
	p.closer = append(p.closer, tty)
	return p, nil
}

// Name returns the device path, or for a pseudo-terminal the path of the
// side that receives.
func (p *Port) Name() string {
	return p.name
}

// WriteByte transmits b.
func (p *Port) WriteByte(b byte) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return errors.NewDeviceError("serial", "write", errors.ErrClosed).WithValue(b).
			WithRetryable(false).WithSeverity(errors.SeverityError)
	}

	buf := [1]byte{b}
	for {
		n, err := p.w.Write(buf[:])
		if err != nil {
			return errors.NewDeviceError("serial", "write", err).WithValue(b)
		}
		if n == 1 {
			p.sent.Add(1)
			return nil
		}
	}
}

// Sent returns the number of bytes transmitted.
func (p *Port) Sent() uint64 {
	return p.sent.Load()
}

// Close releases the device.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	var errs []error
	for _, c := range p.closer {
		if err := c.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
