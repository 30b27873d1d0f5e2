package transport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/enoceanmqtt/core/internal/esp3"
	"github.com/enoceanmqtt/core/internal/infrastructure/logging"
)

const (
	// readTimeout bounds each blocking read so the reader goroutine checks
	// for shutdown at least this often.
	readTimeout = 1 * time.Second

	// readBufferSize is the chunk size read from the port per call.
	readBufferSize = 256

	// frameQueueSize bounds the channel of decoded frames handed to
	// callers; once full, the oldest queued frame is dropped to keep the
	// reader from blocking on a slow consumer.
	frameQueueSize = 1024

	// heartbeatEvery logs a liveness line every this many read-loop
	// iterations, regardless of whether data arrived.
	heartbeatEvery = 30

	// DefaultBaudRate is the EnOcean transceiver's standard rate.
	DefaultBaudRate = 57600
)

// Transport reads ESP3 frames from a serial or TCP-attached transceiver
// and lets callers send encoded frames back.
type Transport struct {
	port   rawPort
	parser *esp3.Parser
	log    *logging.Logger

	frames chan esp3.Frame

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup

	writeMu sync.Mutex
}

// Connect opens the port at address (serial device path, or "tcp:host:port")
// and starts the dedicated reader goroutine.
func Connect(address string, baudRate int, log *logging.Logger) (*Transport, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}

	port, err := openPort(address, baudRate)
	if err != nil {
		return nil, err
	}

	t := &Transport{
		port:   port,
		parser: esp3.NewParser(),
		log:    log,
		frames: make(chan esp3.Frame, frameQueueSize),
		done:   make(chan struct{}),
	}

	t.wg.Add(1)
	go t.readLoop()

	return t, nil
}

// Frames returns the channel of decoded frames. Only PacketTypeRadioERP1
// frames are meaningful to the dispatcher; response and event frames are
// also delivered so a caller can log them.
func (t *Transport) Frames() <-chan esp3.Frame {
	return t.frames
}

// Send writes an encoded frame to the port.
func (t *Transport) Send(frame esp3.Frame) error {
	select {
	case <-t.done:
		return ErrClosed
	default:
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	_, err := t.port.Write(frame.Encode())
	if err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// Close stops the reader goroutine and closes the underlying port.
func (t *Transport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.done)
		err = t.port.Close()
		t.wg.Wait()
		close(t.frames)
	})
	return err
}

// readLoop runs on a dedicated goroutine for the lifetime of the
// transport, performing blocking reads and feeding bytes to the ESP3
// parser. It never touches caller-facing state other than the frames
// channel, mirroring the reference receiver's dedicated I/O thread.
func (t *Transport) readLoop() {
	defer t.wg.Done()

	buf := make([]byte, readBufferSize)
	var bytesReceived int
	var loopCount int

	for {
		select {
		case <-t.done:
			return
		default:
		}

		loopCount++
		if loopCount%heartbeatEvery == 0 && t.log != nil {
			t.log.Debug("transport reader heartbeat", "bytes_received", bytesReceived)
		}

		if err := t.port.SetReadTimeout(readTimeout); err != nil {
			if t.log != nil {
				t.log.Error("setting read timeout", "error", err)
			}
			return
		}

		n, err := t.port.Read(buf)
		if err != nil {
			if isTimeout(err) {
				continue
			}
			if t.isClosing() {
				return
			}
			if t.log != nil {
				t.log.Error("transport read failed", "error", err)
			}
			return
		}
		if n == 0 {
			continue
		}

		bytesReceived += n
		t.parser.Write(buf[:n])

		for _, frame := range t.parser.Pop() {
			t.enqueue(frame)
		}
	}
}

func (t *Transport) enqueue(frame esp3.Frame) {
	select {
	case t.frames <- frame:
		return
	default:
	}

	// Queue is full: drop the oldest frame to make room rather than
	// block the reader.
	select {
	case <-t.frames:
	default:
	}
	select {
	case t.frames <- frame:
	default:
	}
}

func (t *Transport) isClosing() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return errors.Is(err, os.ErrDeadlineExceeded)
}

// Context-aware shutdown helper used by the composition root.
func (t *Transport) CloseWithContext(ctx context.Context) error {
	doneCh := make(chan error, 1)
	go func() { doneCh <- t.Close() }()

	select {
	case err := <-doneCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
