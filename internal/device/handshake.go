package device

import (
	"bytes"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/loupekit/internal/logging"
	"github.com/muurk/loupekit/internal/protocol"
)

// HandshakeState tracks the one-time session upgrade.
type HandshakeState int

// Handshake states.
const (
	HandshakeNotStarted HandshakeState = iota
	HandshakeNegotiating
	HandshakeConfirmed
	HandshakeRejected
)

// String returns the state name.
func (s HandshakeState) String() string {
	switch s {
	case HandshakeNotStarted:
		return "not started"
	case HandshakeNegotiating:
		return "negotiating"
	case HandshakeConfirmed:
		return "confirmed device"
	case HandshakeRejected:
		return "not our device"
	}
	return "unknown"
}

// maxEmptyReads is how many timed-out reads the probe tolerates before
// concluding the peer is not going to answer. Each empty read costs a
// full read timeout, so a silent port is rejected after the second.
const maxEmptyReads = 1

// readyWait bounds how long Connect waits for the serial number reply
// before declaring the device ready anyway.
const readyWait = 10 * time.Second

// State returns the current handshake state.
func (d *Device) State() HandshakeState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Device) setState(s HandshakeState) {
	d.mu.Lock()
	d.state = s
	d.mu.Unlock()
}

// Negotiate performs the upgrade exchange that both establishes the
// session and detects whether the peer is the expected device type. It
// writes the raw upgrade request, then reads lines until every expected
// response line has been seen or the peer has been silent for too long. A
// silent or non-matching peer yields (false, nil) rather than an error so
// that multiple candidate ports can be probed in sequence.
//
// Negotiate must run before Start: it reads the transport directly.
func (d *Device) Negotiate() (bool, error) {
	switch d.State() {
	case HandshakeConfirmed:
		return true, nil
	case HandshakeRejected:
		return false, nil
	}
	d.setState(HandshakeNegotiating)

	if err := d.writeRaw(protocol.UpgradeRequest); err != nil {
		d.setState(HandshakeRejected)
		return false, err
	}

	matched := 0
	empty := 0
	for matched < len(protocol.UpgradeResponseLines) {
		line, err := d.tr.ReadLine()
		if err != nil {
			logging.Error("handshake read failed",
				zap.String("path", d.path), zap.Error(err))
			d.setState(HandshakeRejected)
			return false, err
		}
		logging.Debug("handshake line",
			zap.String("path", d.path),
			zap.String("line", strings.TrimRight(string(line), "\r\n")))
		if isUpgradeResponseLine(line) {
			matched++
		}
		if len(line) == 0 {
			empty++
			if empty > maxEmptyReads {
				logging.Debug("peer silent, not our device",
					zap.String("path", d.path), zap.Int("empty_reads", empty))
				d.setState(HandshakeRejected)
				return false, nil
			}
		}
	}

	logging.Debug("handshake confirmed", zap.String("path", d.path))
	d.setState(HandshakeConfirmed)
	return true, nil
}

func isUpgradeResponseLine(line []byte) bool {
	for _, want := range protocol.UpgradeResponseLines {
		if bytes.Equal(line, want) {
			return true
		}
	}
	return false
}

// Connect runs the full bring-up: handshake, worker start, and the serial
// number and firmware version queries. It returns false without error when
// the peer is not the expected device. When the serial number reply does
// not arrive within the bounded wait, the device is still considered
// connected; the missing reply is logged as a warning.
func (d *Device) Connect() (bool, error) {
	ok, err := d.Negotiate()
	if err != nil || !ok {
		return ok, err
	}

	d.Start()

	if _, err := d.SendTracked(protocol.OpSerialOut, nil); err != nil {
		return true, err
	}
	if _, err := d.SendTracked(protocol.OpVersionOut, nil); err != nil {
		return true, err
	}

	select {
	case <-d.serialGot:
	case <-time.After(readyWait):
		logging.Warn("no serial number reply", zap.String("path", d.path))
	}
	logging.LogConnection(d.path, "connected")
	return true, nil
}
