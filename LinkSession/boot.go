package LinkSession

import (
	"fmt"

	"github.com/wsp-space/evt-25harukada/E220Model"
	"github.com/wsp-space/evt-25harukada/OutsideInterface"
	"github.com/wsp-space/evt-25harukada/TranscieverModel"
)

// Boot pushes the register block and leaves the module in normal mode.
// A wrong or missing echo is only logged.
func (s *Session) Boot() error {
	s.setState(Booting)
	if 0 < s.opts.StartupDelay {
		s.Sleep(s.opts.StartupDelay)
	}

	s.setState(Configuring)
	if err := s.lines.Enter(E220Model.Configuration); nil != err {
		return err
	}
	frame := s.opts.Settings.Frame()
	kind := "volatile"
	if s.opts.Settings.Persist {
		kind = "persistent"
	}
	log.Info(fmt.Sprintf("writing %s config frame %v", kind, E220Model.Dump(frame)))
	if err := s.transport.Write(frame); nil != err {
		return fmt.Errorf("write config frame: %w", err)
	}
	s.frame = frame
	s.Sleep(s.opts.PostWrite)

	s.setState(Verifying)
	echo, err := s.readEcho()
	if nil != err {
		log.Warn(fmt.Sprintf("reading config echo: %v", err))
		echo = nil
	}
	result := E220Model.VerifyEcho(frame, echo)
	switch result.Kind {
	case E220Model.EchoMatched:
		log.Info(fmt.Sprintf("module confirmed config %v", E220Model.Dump(echo)))
	case E220Model.EchoMissing:
		log.Warn("module did not answer the config frame")
	case E220Model.EchoMismatch:
		log.Warn(fmt.Sprintf("config echo differs at byte %d: %v", result.Offset, E220Model.Dump(echo)))
	}
	s.out.UpdateComponent(OutsideInterface.KEcho, result.Kind.String())

	if err := s.lines.Enter(E220Model.Normal); nil != err {
		return err
	}
	set := s.opts.Settings
	log.Info(fmt.Sprintf("address %v, channel %d (%v), %v, %v addressing",
		set.Address, set.Channel, s.opts.Band.Frequency(set.Channel), set.Format, set.AddressingMode()))
	s.setState(Operating)
	return nil
}

// readEcho collects up to a frame worth of bytes, stops at the first empty read
func (s *Session) readEcho() ([]byte, error) {
	var echo []byte
	for len(echo) < E220Model.FrameSize {
		n, err := s.transport.Read(s.buf, TranscieverModel.Timeout(s.opts.EchoTimeout))
		if nil != err {
			return echo, err
		}
		if 0 == n {
			break
		}
		echo = append(echo, s.buf[:n]...)
	}
	return echo, nil
}
