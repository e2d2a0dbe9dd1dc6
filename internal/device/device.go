package device

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/loupekit/internal/logging"
	"github.com/muurk/loupekit/internal/protocol"
)

const (
	// inboundQueueSize bounds the handoff between the reader and the
	// processor. The device emits small frames at human interaction
	// rates, so this never fills in practice.
	inboundQueueSize = 128

	// popTimeout bounds the processor's queue wait so it can observe a
	// stop request even when the queue is empty.
	popTimeout = 1 * time.Second

	// joinTimeout bounds how long Stop waits for each worker to exit.
	joinTimeout = 2 * time.Second

	// readErrorBackoff paces the reader after a failed transport read,
	// matching the bounded-read cadence of the healthy path. Without it a
	// persistent error (device unplugged) spins the loop hot.
	readErrorBackoff = 1 * time.Second

	transactionSlots = 256
)

// resolver is invoked when the reply matching a tracked command arrives.
// The slot is already cleared by the time it runs.
type resolver func(transactionID uint8, decoded any)

// handler decodes the payload of one inbound opcode. The returned value is
// handed to the transaction resolver or the default callback.
type handler func(payload []byte) (any, error)

// Device drives one Loupedeck Live over a Transport. Two workers service
// the connection: a reader that reassembles frames from the byte stream
// and a processor that dispatches them. Commands may be issued from any
// goroutine; writes to the transport are serialized internally.
type Device struct {
	path string
	tr   Transport

	// writeMu serializes transport writes across caller goroutines. It
	// is held for the full header+payload write of each command.
	writeMu sync.Mutex

	// reasm is owned by the reader worker.
	reasm protocol.Reassembler

	inbound chan []byte

	readRunning atomic.Bool
	procRunning atomic.Bool
	readDone    chan struct{}
	procDone    chan struct{}

	// txnMu guards the pending slot array and the id counter.
	txnMu   sync.Mutex
	pending [transactionSlots]resolver
	lastTxn uint8

	// handlers is a closed table built at construction; it is never
	// mutated afterwards and is safe to read without locking.
	handlers map[protocol.Opcode]handler

	// touches tracks active touch ids; owned by the processor worker.
	touches map[uint8]TouchEvent

	mu         sync.Mutex
	state      HandshakeState
	serial     string
	version    string
	sink       EventSink
	serialOnce sync.Once
	serialGot  chan struct{}
}

// New wraps an already-open transport. The caller keeps ownership of the
// underlying handle and closes it after Stop returns. path is used only
// for identification in logs and session info.
func New(path string, tr Transport) *Device {
	d := &Device{
		path:      path,
		tr:        tr,
		inbound:   make(chan []byte, inboundQueueSize),
		touches:   make(map[uint8]TouchEvent),
		serialGot: make(chan struct{}),
	}
	d.handlers = map[protocol.Opcode]handler{
		protocol.OpButtonPress: d.onButton,
		protocol.OpKnobRotate:  d.onRotate,
		protocol.OpSerialIn:    d.onSerial,
		protocol.OpVersionIn:   d.onVersion,
		protocol.OpTick:        d.onTick,
		protocol.OpTouch:       d.onTouch,
		protocol.OpTouchEnd:    d.onTouchEnd,
	}
	return d
}

// Path returns the transport path the device was opened on.
func (d *Device) Path() string { return d.path }

// Serial returns the device serial number, or "" until the reply to the
// post-handshake query has arrived.
func (d *Device) Serial() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.serial
}

// FirmwareVersion returns the firmware version, or "" until known.
func (d *Device) FirmwareVersion() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

// SetSink registers the callback that receives decoded events, replacing
// any previous sink. A nil sink discards events.
func (d *Device) SetSink(sink EventSink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sink = sink
}

func (d *Device) emit(ev Event) {
	d.mu.Lock()
	sink := d.sink
	d.mu.Unlock()
	if sink != nil {
		sink.HandleEvent(d, ev)
	}
}

// Start launches the reader and processor workers. It is a no-op for a
// worker that is already running.
func (d *Device) Start() {
	if d.readRunning.CompareAndSwap(false, true) {
		d.readDone = make(chan struct{})
		go d.readLoop()
		logging.Debug("reader worker started", zap.String("path", d.path))
	} else {
		logging.Warn("reader worker already running", zap.String("path", d.path))
	}
	if d.procRunning.CompareAndSwap(false, true) {
		d.procDone = make(chan struct{})
		go d.processLoop()
		logging.Debug("processor worker started", zap.String("path", d.path))
	} else {
		logging.Warn("processor worker already running", zap.String("path", d.path))
	}
}

// Stop asks both workers to exit and waits a bounded time for each. A
// worker that fails to stop within the timeout is reported as a warning;
// the loops are designed to notice the cleared flag as soon as their
// current bounded wait expires.
func (d *Device) Stop() {
	if d.readRunning.CompareAndSwap(true, false) {
		select {
		case <-d.readDone:
		case <-time.After(joinTimeout):
			logging.Warn("reader worker did not stop cleanly", zap.String("path", d.path))
		}
	}
	if d.procRunning.CompareAndSwap(true, false) {
		select {
		case <-d.procDone:
		case <-time.After(joinTimeout):
			logging.Warn("processor worker did not stop cleanly", zap.String("path", d.path))
		}
	}
	logging.LogConnection(d.path, "stopped")
}

// readLoop pulls bytes off the transport, feeds the reassembler, and hands
// complete messages to the processor. Transport errors are logged and the
// loop resumes; only clearing the running flag ends it.
func (d *Device) readLoop() {
	defer close(d.readDone)
	for d.readRunning.Load() {
		chunk, err := d.tr.Read()
		if err != nil {
			logging.Error("transport read failed, resuming",
				zap.String("path", d.path), zap.Error(err))
			time.Sleep(readErrorBackoff)
			continue
		}
		if len(chunk) == 0 {
			continue // read timeout
		}
		logging.LogRawBytes("inbound chunk", chunk)
		for _, msg := range d.reasm.Feed(chunk) {
			select {
			case d.inbound <- msg:
			default:
				logging.Error("inbound queue full, dropping frame",
					zap.String("path", d.path), zap.Int("len", len(msg)))
			}
		}
	}
}

// processLoop drains the inbound queue and dispatches each message. The
// bounded pop lets it recheck the running flag on an idle connection; a
// pop timeout is not an error.
func (d *Device) processLoop() {
	defer close(d.procDone)
	for d.procRunning.Load() {
		select {
		case msg := <-d.inbound:
			d.processFrame(msg)
		case <-time.After(popTimeout):
		}
	}
}

// processFrame decodes and dispatches one reassembled message. A failure
// here is isolated to the frame: it is logged and the worker moves on.
func (d *Device) processFrame(msg []byte) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("dispatch panicked, resuming",
				zap.String("path", d.path), zap.Any("panic", r))
		}
	}()

	frame, err := protocol.DecodeFrame(msg)
	if err != nil {
		logging.Error("undecodable message", zap.String("path", d.path), zap.Error(err))
		return
	}

	// Unknown opcodes pass the raw message through unchanged.
	var decoded any = msg
	if h, ok := d.handlers[frame.Opcode]; ok {
		decoded, err = h(frame.Payload)
		if err != nil {
			logging.Error("handler failed, resuming",
				zap.String("path", d.path),
				zap.String("opcode", frame.Opcode.Name()),
				zap.Error(err))
			return
		}
	}

	d.txnMu.Lock()
	res := d.pending[frame.TransactionID]
	d.pending[frame.TransactionID] = nil
	d.txnMu.Unlock()

	if res != nil {
		res(frame.TransactionID, decoded)
		return
	}
	d.defaultCallback(frame.TransactionID, decoded)
}

// defaultCallback receives decoded values with no pending transaction:
// unsolicited traffic and replies whose command was sent untracked.
func (d *Device) defaultCallback(transactionID uint8, decoded any) {
	logging.Debug("unclaimed message",
		zap.String("path", d.path),
		zap.Uint8("txn", transactionID))
}

// nextTransactionID returns the next id in the 1..255 cycle. Id 0 is
// reserved; the device ignores it.
func (d *Device) nextTransactionID() uint8 {
	d.lastTxn++
	if d.lastTxn == 0 {
		d.lastTxn = 1
	}
	return d.lastTxn
}

// Send issues a command without tracking its reply. The allocated
// transaction id is still consumed so replies can never be misattributed.
func (d *Device) Send(op protocol.Opcode, data []byte) error {
	_, err := d.sendWith(op, data, nil)
	return err
}

// SendTracked issues a command and registers a resolver slot for its
// reply, returning the transaction id for optional external waiting. The
// default resolver does nothing beyond releasing the slot.
func (d *Device) SendTracked(op protocol.Opcode, data []byte) (uint8, error) {
	return d.sendWith(op, data, func(uint8, any) {})
}

func (d *Device) sendWith(op protocol.Opcode, data []byte, res resolver) (uint8, error) {
	d.txnMu.Lock()
	id := d.nextTransactionID()
	if res != nil {
		d.pending[id] = res
	}
	d.txnMu.Unlock()

	if err := d.write(protocol.Encode(op, id, data)); err != nil {
		d.txnMu.Lock()
		d.pending[id] = nil
		d.txnMu.Unlock()
		return 0, fmt.Errorf("send %s: %w", op.Name(), err)
	}
	return id, nil
}

// write performs one framed transport write under the shared write lock.
func (d *Device) write(buf []byte) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	return d.tr.Write(buf)
}

// writeRaw bypasses framing entirely; the handshake upgrade request is the
// only caller.
func (d *Device) writeRaw(buf []byte) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	return d.tr.Write(buf)
}
