// Package protocol implements the Loupedeck Live serial wire protocol.
//
// This package handles framing, parsing, and construction of the binary
// messages exchanged with a Loupedeck Live control surface over its serial
// connection. The device speaks a websocket-flavoured framing that was
// reverse engineered from live captures; only the subset the device
// actually uses is implemented.
//
// # Wire Format
//
// Every message from the device is delimited by a marker byte followed by
// a length byte:
//   - Marker: 0x82
//   - Length: 1 byte, literal count of message bytes that follow
//   - Message: opcode (2 bytes, big-endian), transaction id (1 byte),
//     payload (variable)
//
// Outbound commands carry the same opcode/transaction-id/payload message
// but the framing differs by payload size: messages of at most 0x80 bytes
// get a 6-byte header [0x82, 0x80+len, 0, 0, 0, 0]; longer ones get a
// 14-byte header with the length as a big-endian uint32 at offset 6. The
// inbound side reads the length byte literally with no high-bit
// adjustment; this asymmetry is faithful to captures from real hardware.
//
// # Reassembly
//
// Serial reads deliver arbitrary chunk sizes, so the Reassembler keeps an
// accumulation buffer and emits complete messages as they become
// available:
//
//	r := &protocol.Reassembler{}
//	for _, msg := range r.Feed(chunk) {
//	    frame, err := protocol.DecodeFrame(msg)
//	    ...
//	}
//
// # Pixels
//
// The device's displays take 16-bit 5-6-5 packed color, little-endian,
// row-major. ToNativePixels converts any image.Image into that format.
package protocol
