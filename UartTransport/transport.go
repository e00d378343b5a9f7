// Package UartTransport carries raw bytes between the host and the module UART
package UartTransport

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/wsp-space/evt-25harukada/Config"
	"github.com/wsp-space/evt-25harukada/E220Model"
	"github.com/wsp-space/evt-25harukada/TranscieverModel"
)

var log = logrus.New()

func SetLogger(l *logrus.Logger) {
	log = l
}

// Open picks the backend named by the configuration
func Open(cfg Config.Serial) (TranscieverModel.Transport, error) {
	switch cfg.Driver {
	case "bugst":
		t, err := OpenBugst(cfg.Port, cfg.Baud)
		if nil != err {
			return nil, err
		}
		return t, nil
	case "tarm":
		t, err := OpenTarm(cfg.Port, cfg.Baud, Config.Ms(cfg.TickMs))
		if nil != err {
			return nil, err
		}
		return t, nil
	}
	return nil, E220Model.Fault(E220Model.EBadConfig, fmt.Errorf("unknown serial driver %q", cfg.Driver))
}

func writeAll(w io.Writer, name string, data []byte) error {
	log.Trace(fmt.Sprintf("%s write %v", name, E220Model.Dump(data)))
	for 0 < len(data) {
		n, err := w.Write(data)
		if nil != err {
			return E220Model.Fault(E220Model.ETransportFault, fmt.Errorf("%s Write: %w", name, err))
		}
		if 0 == n {
			return E220Model.Fault(E220Model.ETransportFault, fmt.Errorf("%s Write: %w", name, io.ErrShortWrite))
		}
		data = data[n:]
	}
	return nil
}
