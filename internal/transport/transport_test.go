package transport

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/enoceanmqtt/core/internal/esp3"
)

// fakePort is an in-memory rawPort for exercising the reader loop without
// real hardware.
type fakePort struct {
	mu     sync.Mutex
	data   []byte
	closed bool
}

func (f *fakePort) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return 0, io.EOF
	}
	if len(f.data) == 0 {
		return 0, &timeoutError{}
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

func (f *fakePort) Write(p []byte) (int, error) { return len(p), nil }

func (f *fakePort) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakePort) SetReadTimeout(time.Duration) error { return nil }

func (f *fakePort) feed(b []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = append(f.data, b...)
}

type timeoutError struct{}

func (timeoutError) Error() string { return "i/o timeout" }
func (timeoutError) Timeout() bool { return true }

func TestTransportDeliversDecodedFrames(t *testing.T) {
	port := &fakePort{}
	data, optional := esp3.EncodeRadioTelegram(0xF6, []byte{0x70}, 0x0583A4F2, 0xFFFFFFFF)
	wire := esp3.Frame{PacketType: esp3.PacketTypeRadioERP1, Data: data, Optional: optional}.Encode()

	tr := &Transport{
		port:   port,
		parser: esp3.NewParser(),
		frames: make(chan esp3.Frame, frameQueueSize),
		done:   make(chan struct{}),
	}
	tr.wg.Add(1)
	go tr.readLoop()
	defer tr.Close()

	port.feed(wire)

	select {
	case frame := <-tr.Frames():
		if frame.PacketType != esp3.PacketTypeRadioERP1 {
			t.Errorf("PacketType = %#x, want %#x", frame.PacketType, esp3.PacketTypeRadioERP1)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for decoded frame")
	}
}

func TestTransportSendWritesEncodedFrame(t *testing.T) {
	port := &fakePort{}
	tr := &Transport{
		port:   port,
		parser: esp3.NewParser(),
		frames: make(chan esp3.Frame, frameQueueSize),
		done:   make(chan struct{}),
	}

	data, optional := esp3.EncodeRadioTelegram(0xF6, []byte{0x70}, 0x01020304, 0xFFFFFFFF)
	if err := tr.Send(esp3.Frame{PacketType: esp3.PacketTypeRadioERP1, Data: data, Optional: optional}); err != nil {
		t.Fatalf("Send: %v", err)
	}
}

func TestTransportCloseStopsReaderGoroutine(t *testing.T) {
	port := &fakePort{}
	tr := &Transport{
		port:   port,
		parser: esp3.NewParser(),
		frames: make(chan esp3.Frame, frameQueueSize),
		done:   make(chan struct{}),
	}
	tr.wg.Add(1)
	go tr.readLoop()

	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := tr.Send(esp3.Frame{}); err != ErrClosed {
		t.Errorf("Send after Close: got %v, want ErrClosed", err)
	}
}
