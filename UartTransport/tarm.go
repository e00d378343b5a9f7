package UartTransport

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tarm/serial"

	"github.com/wsp-space/evt-25harukada/E220Model"
	"github.com/wsp-space/evt-25harukada/TranscieverModel"
)

// Tarm works with a port level read timeout fixed at open time. The port rounds it
// to deciseconds, so the tick must be a multiple of TarmTickStep. A Read is polled
// in whole ticks and never starts a tick that would end past its deadline.
type Tarm struct {
	port  io.ReadWriteCloser
	name  string
	tick  time.Duration
	now   func() time.Time
	mutex sync.Mutex
}

const TarmTickStep = 100 * time.Millisecond

func OpenTarm(port string, baud int, tick time.Duration) (*Tarm, error) {
	if 0 >= tick || 0 != tick%TarmTickStep {
		return nil, E220Model.Fault(E220Model.EBadConfig, fmt.Errorf("tarm tick %v is not a multiple of %v", tick, TarmTickStep))
	}
	c := &serial.Config{
		Name:        port,
		Baud:        baud,
		ReadTimeout: tick,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
	}
	p, err := serial.OpenPort(c)
	if nil != err {
		return nil, E220Model.Fault(E220Model.ETransportFault, fmt.Errorf("serial.OpenPort(%v): %w", port, err))
	}
	log.Info(fmt.Sprintf("opened %s at %d baud, tick %v", port, baud, tick))
	return &Tarm{port: p, name: port, tick: tick, now: time.Now}, nil
}

func (t *Tarm) Write(data []byte) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return writeAll(t.port, t.name, data)
}

func (t *Tarm) Read(buf []byte, timeout TranscieverModel.Timeout) (int, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	deadline := t.now().Add(time.Duration(timeout))
	for {
		if timeout.Finite() && deadline.Sub(t.now()) < t.tick {
			return 0, nil
		}
		n, err := t.port.Read(buf)
		if 0 < n {
			log.Trace(fmt.Sprintf("%s read %v", t.name, E220Model.Dump(buf[:n])))
			return n, nil
		}
		// the port reports an expired tick as EOF
		if nil != err && io.EOF != err {
			return 0, E220Model.Fault(E220Model.ETransportFault, fmt.Errorf("%s Read: %w", t.name, err))
		}
	}
}

func (t *Tarm) Close() error {
	return t.port.Close()
}
