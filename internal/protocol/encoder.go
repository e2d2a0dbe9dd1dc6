package protocol

import "encoding/binary"

// Encode builds the exact bytes to write to the transport for one command:
// the opcode (big-endian), transaction id, and optional data, wrapped in
// the size-dependent transport header.
func Encode(op Opcode, transactionID uint8, data []byte) []byte {
	payload := make([]byte, 3+len(data))
	binary.BigEndian.PutUint16(payload[0:2], uint16(op))
	payload[2] = transactionID
	copy(payload[3:], data)
	return WrapPayload(payload)
}

// WrapPayload prepends the transport framing to an already-built message
// payload. Payloads of at most MaxShortPayload bytes get the 6-byte short
// header whose length byte carries the high bit; anything larger gets the
// 14-byte header with the length as a big-endian uint32 at offset 6.
//
// Note the short-header length convention (0x80+len) differs from the
// inbound side, which reads the length byte literally. Captures from real
// hardware show the device accepting this, so it is reproduced as
// observed.
func WrapPayload(payload []byte) []byte {
	if len(payload) > MaxShortPayload {
		out := make([]byte, longHeaderSize, longHeaderSize+len(payload))
		out[0] = Marker
		out[1] = 0xFF
		binary.BigEndian.PutUint32(out[6:10], uint32(len(payload)))
		return append(out, payload...)
	}
	out := make([]byte, shortHeaderSize, shortHeaderSize+len(payload))
	out[0] = Marker
	out[1] = 0x80 + byte(len(payload))
	return append(out, payload...)
}
