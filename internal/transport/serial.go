// Package transport provides the serial-port implementation of the
// driver's Transport interface and port enumeration for the CLI.
package transport

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// readChunkSize is the largest chunk a single Read returns. Framebuffer
// traffic is outbound only; inbound messages are small.
const readChunkSize = 4096

// Serial adapts a go.bug.st/serial port to the device.Transport interface.
// The caller owns the port: Open acquires it, Close releases it, and the
// driver in between never does either.
type Serial struct {
	port serial.Port
	path string
}

// Open opens a serial port at the given baud rate with a bounded read
// timeout. A zero timeout would make reads block forever and starve the
// driver's stop path, so it is rejected.
func Open(path string, baudRate int, timeout time.Duration) (*Serial, error) {
	if timeout <= 0 {
		return nil, fmt.Errorf("read timeout must be positive")
	}
	port, err := serial.Open(path, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", path, err)
	}
	return &Serial{port: port, path: path}, nil
}

// Path returns the port path the transport was opened on.
func (s *Serial) Path() string { return s.path }

// Read returns whatever bytes are available, blocking up to the read
// timeout. An empty result with nil error means the timeout expired.
func (s *Serial) Read() ([]byte, error) {
	buf := make([]byte, readChunkSize)
	n, err := s.port.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// ReadLine reads byte-by-byte up to and including the next newline. When
// the read timeout expires it returns whatever it has, which is empty for
// a silent peer; the handshake counts those empty reads.
func (s *Serial) ReadLine() ([]byte, error) {
	var line []byte
	one := make([]byte, 1)
	for {
		n, err := s.port.Read(one)
		if err != nil {
			return line, err
		}
		if n == 0 {
			return line, nil // timeout
		}
		line = append(line, one[0])
		if one[0] == '\n' {
			return line, nil
		}
	}
}

// Write sends p in a single port write.
func (s *Serial) Write(p []byte) error {
	n, err := s.port.Write(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return fmt.Errorf("short write: %d of %d bytes", n, len(p))
	}
	return nil
}

// Close releases the port.
func (s *Serial) Close() error {
	return s.port.Close()
}

// ListPorts enumerates the serial ports present on the system.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerate serial ports: %w", err)
	}
	return ports, nil
}
