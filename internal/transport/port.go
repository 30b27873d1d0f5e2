package transport

import (
	"fmt"
	"net"
	"strings"
	"time"

	"go.bug.st/serial"
)

// rawPort is the minimal blocking-I/O surface both transports expose.
type rawPort interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
	SetReadTimeout(d time.Duration) error
}

const tcpPrefix = "tcp:"

// openPort opens either a serial port or, when address has a "tcp:"
// prefix, dials a TCP socket to a network-attached transceiver.
func openPort(address string, baudRate int) (rawPort, error) {
	if strings.HasPrefix(address, tcpPrefix) {
		return dialTCP(strings.TrimPrefix(address, tcpPrefix))
	}
	return openSerial(address, baudRate)
}

func openSerial(device string, baudRate int) (rawPort, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: opening serial port %s: %w", ErrConnectFailed, device, err)
	}
	return &serialPort{Port: port}, nil
}

// serialPort adapts go.bug.st/serial's Port to rawPort.
type serialPort struct {
	serial.Port
}

func (p *serialPort) SetReadTimeout(d time.Duration) error {
	return p.Port.SetReadTimeout(d)
}

func dialTCP(hostPort string) (rawPort, error) {
	conn, err := net.DialTimeout("tcp", hostPort, defaultDialTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: dialing %s: %w", ErrConnectFailed, hostPort, err)
	}
	return &tcpPort{conn: conn}, nil
}

// tcpPort adapts a net.Conn to rawPort, translating the read timeout into
// a rolling read deadline.
type tcpPort struct {
	conn net.Conn
}

func (p *tcpPort) Read(b []byte) (int, error)  { return p.conn.Read(b) }
func (p *tcpPort) Write(b []byte) (int, error) { return p.conn.Write(b) }
func (p *tcpPort) Close() error                { return p.conn.Close() }

func (p *tcpPort) SetReadTimeout(d time.Duration) error {
	if d <= 0 {
		return p.conn.SetReadDeadline(time.Time{})
	}
	return p.conn.SetReadDeadline(time.Now().Add(d))
}

const defaultDialTimeout = 10 * time.Second
