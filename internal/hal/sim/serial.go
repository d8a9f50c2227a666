package sim

import (
	"sync"

	"github.com/Iron-Ham/potpanel/internal/errors"
)

// Serial records transmitted bytes.
type Serial struct {
	mu   sync.Mutex
	sent []byte
	fail error
	ch   chan byte
}

// NewSerial returns a transmitter. Every accepted byte is also offered on
// Bytes() without blocking.
func NewSerial() *Serial {
	return &Serial{ch: make(chan byte, 16)}
}

// WriteByte records b, or returns the injected failure.
func (s *Serial) WriteByte(b byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return errors.NewDeviceError("serial", "write", s.fail).WithValue(b)
	}
	s.sent = append(s.sent, b)
	select {
	case s.ch <- b:
	default:
	}
	return nil
}

// Fail makes subsequent writes return err. A nil err restores writes.
func (s *Serial) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

// Sent returns a copy of every byte transmitted so far.
func (s *Serial) Sent() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.sent...)
}

// Bytes delivers transmitted bytes as they are written. Bytes written while
// the channel is full are only visible through Sent.
func (s *Serial) Bytes() <-chan byte {
	return s.ch
}
