package ModeLines

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wsp-space/evt-25harukada/E220Model"
	"github.com/wsp-space/evt-25harukada/TranscieverModel"
)

var log = logrus.New()

func SetLogger(l *logrus.Logger) {
	log = l
}

// MinSettle is the shortest time the module gets after a mode change
const MinSettle = 100 * time.Millisecond

// Controller drives the M0 and M1 lines, releasing them is up to whoever opened
// them. The mode is what was last commanded, the module has no way to report it back.
type Controller struct {
	m0, m1 TranscieverModel.Pin
	settle time.Duration
	mode   E220Model.Mode
	known  bool
	Sleep  func(time.Duration)
}

func New(m0, m1 TranscieverModel.Pin, settle time.Duration) *Controller {
	if settle < MinSettle {
		log.Warn(fmt.Sprintf("settle time %v is too short, using %v", settle, MinSettle))
		settle = MinSettle
	}
	return &Controller{m0: m0, m1: m1, settle: settle, Sleep: time.Sleep}
}

func (c *Controller) Settle() time.Duration {
	return c.settle
}

// Mode returns the last commanded mode, ok is false before the first Enter
func (c *Controller) Mode() (mode E220Model.Mode, ok bool) {
	return c.mode, c.known
}

// Enter drives both lines and waits for the module to settle
func (c *Controller) Enter(mode E220Model.Mode) error {
	m0, m1 := mode.Lines()
	log.Debug(fmt.Sprintf("Enter %v, M0 %v, M1 %v", mode, m0, m1))
	if err := c.m0.Out(m0); nil != err {
		c.known = false
		return E220Model.Fault(E220Model.ELineFault, fmt.Errorf("M0 %v: %w", c.m0, err))
	}
	if err := c.m1.Out(m1); nil != err {
		c.known = false
		return E220Model.Fault(E220Model.ELineFault, fmt.Errorf("M1 %v: %w", c.m1, err))
	}
	c.mode = mode
	c.known = true
	c.Sleep(c.settle)
	log.Info(fmt.Sprintf("module is in %v mode", mode))
	return nil
}
