package TranscieverModel

import "time"

// Timeout is a read budget, Block waits until data arrives
type Timeout time.Duration

const Block Timeout = -1

func (t Timeout) Finite() bool { return t >= 0 }

// Pin is a single digital output line
type Pin interface {
	Out(high bool) error
	String() string
}

// Transport is the byte channel to the module UART.
// Read returns 0, nil when a finite timeout expires with no data.
type Transport interface {
	Write(data []byte) error
	Read(buf []byte, timeout Timeout) (int, error)
	Close() error
}
