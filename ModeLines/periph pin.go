package ModeLines

import (
	"fmt"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"

	"github.com/wsp-space/evt-25harukada/TranscieverModel"
)

type periphPin struct {
	pin gpio.PinOut
}

// OpenPeriph looks the line up in the periph registry and drives it low.
// host.Init must have been called.
func OpenPeriph(name string) (TranscieverModel.Pin, error) {
	p := gpioreg.ByName(name)
	if nil == p {
		return nil, fmt.Errorf("pin <%s> was not found", name)
	}
	if err := p.Out(gpio.Low); nil != err {
		return nil, fmt.Errorf("%s.Out: %w", name, err)
	}
	log.Info(fmt.Sprintf("periph pin %s: %s", name, p.Function()))
	return &periphPin{pin: p}, nil
}

func (p *periphPin) Out(high bool) error {
	return p.pin.Out(gpio.Level(high))
}

func (p *periphPin) String() string {
	return p.pin.String()
}
