package device

import (
	"bytes"
	"testing"
	"time"

	"github.com/muurk/loupekit/internal/protocol"
)

func upgradeLines() [][]byte {
	lines := make([][]byte, len(protocol.UpgradeResponseLines))
	copy(lines, protocol.UpgradeResponseLines)
	return lines
}

func TestNegotiate(t *testing.T) {
	tests := []struct {
		name      string
		lines     [][]byte
		wantOK    bool
		wantState HandshakeState
	}{
		{
			name:      "expected device answers",
			lines:     upgradeLines(),
			wantOK:    true,
			wantState: HandshakeConfirmed,
		},
		{
			name:      "silent peer is not our device",
			lines:     nil,
			wantOK:    false,
			wantState: HandshakeRejected,
		},
		{
			name: "chatty peer with the wrong answers",
			lines: [][]byte{
				[]byte("HTTP/1.1 404 Not Found\r\n"),
				[]byte("Content-Type: text/html\r\n"),
			},
			wantOK:    false,
			wantState: HandshakeRejected,
		},
		{
			name: "response interleaved with noise",
			lines: append([][]byte{
				[]byte("garbage before the upgrade\r\n"),
			}, upgradeLines()...),
			wantOK:    true,
			wantState: HandshakeConfirmed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{lines: tt.lines}
			d := New("test", ft)

			ok, err := d.Negotiate()
			if err != nil {
				t.Fatalf("Negotiate() error = %v", err)
			}
			if ok != tt.wantOK {
				t.Errorf("Negotiate() = %v, want %v", ok, tt.wantOK)
			}
			if got := d.State(); got != tt.wantState {
				t.Errorf("state = %s, want %s", got, tt.wantState)
			}
			if ft.writeCount() != 1 || !bytes.Equal(ft.writeAt(0), protocol.UpgradeRequest) {
				t.Error("upgrade request not written verbatim")
			}
		})
	}
}

func TestNegotiateSilentPeerCost(t *testing.T) {
	ft := &fakeTransport{}
	d := New("test", ft)

	ok, err := d.Negotiate()
	if err != nil || ok {
		t.Fatalf("Negotiate() = %v, %v, want false, nil", ok, err)
	}
	// Every empty read costs a full read timeout against real hardware,
	// so a silent port is given up on after the second.
	if got := ft.lineCallCount(); got != 2 {
		t.Errorf("silent peer cost %d line reads, want 2", got)
	}
}

func TestNegotiateCachesResult(t *testing.T) {
	ft := &fakeTransport{lines: upgradeLines()}
	d := New("test", ft)

	ok, err := d.Negotiate()
	if err != nil || !ok {
		t.Fatalf("first Negotiate() = %v, %v", ok, err)
	}
	ok, err = d.Negotiate()
	if err != nil || !ok {
		t.Fatalf("second Negotiate() = %v, %v", ok, err)
	}
	// The settled result is reused; no second upgrade request goes out.
	if got := ft.writeCount(); got != 1 {
		t.Errorf("transport saw %d writes, want 1", got)
	}
}

func TestNegotiateWriteFailure(t *testing.T) {
	ft := &fakeTransport{lines: upgradeLines(), writeErr: errWrite}
	d := New("test", ft)

	ok, err := d.Negotiate()
	if err == nil {
		t.Fatal("Negotiate() succeeded on a broken transport")
	}
	if ok {
		t.Error("Negotiate() = true on a broken transport")
	}
	if got := d.State(); got != HandshakeRejected {
		t.Errorf("state = %s, want %s", got, HandshakeRejected)
	}
}

func TestConnect(t *testing.T) {
	ft := &fakeTransport{
		lines: upgradeLines(),
		reads: [][]byte{
			wrap(message(protocol.OpSerialIn, 1, []byte("LDL123456"))),
			wrap(message(protocol.OpVersionIn, 2, []byte{0, 2, 5})),
		},
	}
	d := New("/dev/ttyTest", ft)

	ok, err := d.Connect()
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if !ok {
		t.Fatal("Connect() = false, want true")
	}
	defer d.Stop()

	if got := d.Serial(); got != "LDL123456" {
		t.Errorf("Serial() = %q, want LDL123456", got)
	}

	// The version reply may still be in flight when Connect returns; it
	// only waits for the serial number.
	deadline := time.Now().Add(2 * time.Second)
	for d.FirmwareVersion() == "" && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := d.FirmwareVersion(); got != "0.2.5" {
		t.Errorf("FirmwareVersion() = %q, want 0.2.5", got)
	}

	// Upgrade request, then the two tracked info queries.
	if got := ft.writeCount(); got != 3 {
		t.Fatalf("transport saw %d writes, want 3", got)
	}
	if op := protocol.Opcode(uint16(ft.writeAt(1)[6])<<8 | uint16(ft.writeAt(1)[7])); op != protocol.OpSerialOut {
		t.Errorf("second write opcode = %s, want SERIAL_OUT", op.Name())
	}
	if op := protocol.Opcode(uint16(ft.writeAt(2)[6])<<8 | uint16(ft.writeAt(2)[7])); op != protocol.OpVersionOut {
		t.Errorf("third write opcode = %s, want VERSION_OUT", op.Name())
	}
}

func TestConnectNotOurDevice(t *testing.T) {
	ft := &fakeTransport{}
	d := New("test", ft)

	ok, err := d.Connect()
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if ok {
		t.Error("Connect() = true for a silent peer")
	}
	// Workers must not have started against a rejected peer.
	if d.readRunning.Load() || d.procRunning.Load() {
		t.Error("workers running after rejected handshake")
	}
}
