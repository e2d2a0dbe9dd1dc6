// Package device drives a Loupedeck Live control surface over a serial
// byte stream.
//
// A Device owns the protocol engine: a reader worker that reassembles
// frames from the transport, a processor worker that dispatches them, a
// 256-slot transaction table correlating commands with their asynchronous
// replies, and the touch-tracking state needed to distinguish gesture
// starts from continuations. Commands may be issued from any goroutine.
//
// # Bring-up
//
//	port, err := transport.Open(path, protocol.DefaultBaudRate, protocol.ReadTimeout)
//	if err != nil { ... }
//	defer port.Close()
//
//	d := device.New(path, port)
//	d.SetSink(device.EventSinkFunc(func(d *device.Device, ev device.Event) {
//	    fmt.Println(ev)
//	}))
//	ok, err := d.Connect()   // handshake + workers + serial/version queries
//	if err != nil { ... }
//	if !ok { ... }           // peer is not a Loupedeck; no error raised
//	defer d.Stop()
//
// The handshake doubles as device-type detection: a silent or
// non-matching peer yields ok=false rather than an error, so a set of
// candidate ports can be probed in sequence.
package device
