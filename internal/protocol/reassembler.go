package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Frame is one reassembled protocol message: an opcode, the transaction id
// correlating it with an outbound command, and the payload bytes. Frames
// are transient; they exist only between reassembly and dispatch.
type Frame struct {
	Opcode        Opcode
	TransactionID uint8
	Payload       []byte
}

// String returns a debug representation of the frame.
func (f Frame) String() string {
	return fmt.Sprintf("Frame{op=%s, txn=%d, payload=%d bytes}",
		f.Opcode.Name(), f.TransactionID, len(f.Payload))
}

// DecodeFrame decodes a reassembled message into a Frame. The message must
// hold at least the 2-byte opcode and the transaction id.
func DecodeFrame(msg []byte) (Frame, error) {
	if len(msg) < 3 {
		return Frame{}, fmt.Errorf("message too short for header: %d bytes", len(msg))
	}
	return Frame{
		Opcode:        Opcode(binary.BigEndian.Uint16(msg[0:2])),
		TransactionID: msg[2],
		Payload:       msg[3:],
	}, nil
}

// Reassembler turns an arbitrarily chunked byte stream into complete
// protocol messages. It keeps a single accumulation buffer and scans for
// the marker byte; a message is emitted once the length byte following a
// marker is satisfied by buffered data. Bytes preceding a marker are
// discarded, which is how the stream resynchronizes after corruption.
//
// A Reassembler is not safe for concurrent use; it is owned by the single
// goroutine reading the transport.
type Reassembler struct {
	buf []byte
}

// Feed appends chunk to the accumulation buffer and returns all messages
// that are now complete, in arrival order. The returned slices are copies
// and remain valid after further Feed calls. Partial headers and partial
// bodies stay buffered until more data arrives; no message is ever
// delivered truncated.
func (r *Reassembler) Feed(chunk []byte) [][]byte {
	r.buf = append(r.buf, chunk...)

	var msgs [][]byte
	pos := bytes.IndexByte(r.buf, Marker)
	for pos != -1 {
		// Need the length byte after the marker.
		if len(r.buf) < pos+2 {
			break
		}
		length := int(r.buf[pos+1])
		end := pos + 2 + length
		if len(r.buf) < end {
			break
		}
		msg := make([]byte, length)
		copy(msg, r.buf[pos+2:end])
		msgs = append(msgs, msg)
		r.buf = r.buf[end:]
		pos = bytes.IndexByte(r.buf, Marker)
	}

	// Reclaim the consumed prefix once everything pending has drained.
	if len(r.buf) == 0 {
		r.buf = nil
	}
	return msgs
}

// Pending reports how many bytes are buffered awaiting completion.
func (r *Reassembler) Pending() int {
	return len(r.buf)
}
