package ModeLines

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/wsp-space/evt-25harukada/TranscieverModel"
)

type cdevPin struct {
	line *gpiocdev.Line
	name string
}

// OpenCdev requests a line of a gpio character device as an output, initially low
func OpenCdev(chip string, offset int) (TranscieverModel.Pin, error) {
	l, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0), gpiocdev.WithConsumer("e220link"))
	if nil != err {
		return nil, fmt.Errorf("RequestLine(%s, %d): %w", chip, offset, err)
	}
	return &cdevPin{line: l, name: fmt.Sprintf("%s:%d", chip, offset)}, nil
}

func (p *cdevPin) Out(high bool) error {
	v := 0
	if high {
		v = 1
	}
	return p.line.SetValue(v)
}

func (p *cdevPin) String() string {
	return p.name
}

func (p *cdevPin) Close() error {
	return p.line.Close()
}
