package UartTransport

import (
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/wsp-space/evt-25harukada/E220Model"
	"github.com/wsp-space/evt-25harukada/TranscieverModel"
)

type bugstPort interface {
	Write(p []byte) (int, error)
	Read(p []byte) (int, error)
	SetReadTimeout(t time.Duration) error
	Close() error
}

// Bugst sets the read timeout of the port on every Read
type Bugst struct {
	port  bugstPort
	name  string
	mutex sync.Mutex
}

// OpenBugst opens the port 8N1
func OpenBugst(port string, baud int) (*Bugst, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(port, mode)
	if nil != err {
		return nil, E220Model.Fault(E220Model.ETransportFault, fmt.Errorf("serial.Open(%v): %w", port, err))
	}
	log.Info(fmt.Sprintf("opened %s at %d baud", port, baud))
	return &Bugst{port: p, name: port}, nil
}

func (t *Bugst) Write(data []byte) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return writeAll(t.port, t.name, data)
}

func (t *Bugst) Read(buf []byte, timeout TranscieverModel.Timeout) (int, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	d := serial.NoTimeout
	if timeout.Finite() {
		d = time.Duration(timeout)
	}
	if err := t.port.SetReadTimeout(d); nil != err {
		return 0, E220Model.Fault(E220Model.ETransportFault, fmt.Errorf("%s SetReadTimeout: %w", t.name, err))
	}
	n, err := t.port.Read(buf)
	if nil != err {
		return n, E220Model.Fault(E220Model.ETransportFault, fmt.Errorf("%s Read: %w", t.name, err))
	}
	if 0 < n {
		log.Trace(fmt.Sprintf("%s read %v", t.name, E220Model.Dump(buf[:n])))
	}
	return n, nil
}

func (t *Bugst) Close() error {
	return t.port.Close()
}
