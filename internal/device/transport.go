package device

// Transport is the byte stream the driver talks through. Implementations
// wrap a serial port, but anything byte-oriented with bounded blocking
// reads works; the driver never opens or closes the underlying handle.
type Transport interface {
	// Read returns whatever bytes are available, blocking up to the
	// transport's read timeout. An empty result with a nil error means
	// the timeout expired with nothing to read.
	Read() ([]byte, error)

	// ReadLine reads up to and including the next newline, or returns
	// what it has when the read timeout expires. Used only during the
	// handshake, which is line-oriented.
	ReadLine() ([]byte, error)

	// Write sends p in a single transport write.
	Write(p []byte) error
}
