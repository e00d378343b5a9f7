package ModeLines

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wsp-space/evt-25harukada/Config"
	"github.com/wsp-space/evt-25harukada/TranscieverModel"
)

// Pins is the set of lines opened from configuration, Indicator may be nil
type Pins struct {
	M0, M1    TranscieverModel.Pin
	Indicator TranscieverModel.Pin
	closers   []io.Closer
}

func (p *Pins) Close() error {
	var first error
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i].Close(); nil != err && nil == first {
			first = err
		}
	}
	p.closers = nil
	return first
}

func (p *Pins) track(pin TranscieverModel.Pin) TranscieverModel.Pin {
	if closer, ok := pin.(io.Closer); ok {
		p.closers = append(p.closers, closer)
	}
	return pin
}

// OpenPins opens the configured backend. On failure everything opened so far is released.
func OpenPins(cfg Config.Lines) (*Pins, error) {
	pins := &Pins{}
	var open func(name string) (TranscieverModel.Pin, error)
	switch cfg.Driver {
	case "periph":
		open = OpenPeriph
	case "gpiocdev":
		open = func(name string) (TranscieverModel.Pin, error) {
			offset, err := strconv.Atoi(name)
			if nil != err {
				return nil, fmt.Errorf("line offset %q: %w", name, err)
			}
			return OpenCdev(cfg.Chip, offset)
		}
	case "mcp2221a":
		bridge, err := OpenBridge(cfg.Index)
		if nil != err {
			return nil, err
		}
		pins.closers = append(pins.closers, bridge)
		open = func(name string) (TranscieverModel.Pin, error) {
			gp, err := ParseBridgePin(name)
			if nil != err {
				return nil, err
			}
			return bridge.Pin(gp)
		}
	default:
		return nil, fmt.Errorf("unknown lines driver %q", cfg.Driver)
	}
	var err error
	for _, l := range []struct {
		name string
		dst  *TranscieverModel.Pin
	}{{cfg.M0, &pins.M0}, {cfg.M1, &pins.M1}, {cfg.Indicator, &pins.Indicator}} {
		if "" == l.name {
			continue
		}
		var pin TranscieverModel.Pin
		if pin, err = open(l.name); nil != err {
			pins.Close()
			return nil, fmt.Errorf("open line %s: %w", l.name, err)
		}
		*l.dst = pins.track(pin)
	}
	return pins, nil
}

// ParseBridgePin accepts "GP2" or "2"
func ParseBridgePin(name string) (byte, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.ToUpper(name), "GP"))
	if nil != err || n < 0 || n >= bridgePinCount {
		return 0, fmt.Errorf("bad bridge pin %q", name)
	}
	return byte(n), nil
}
