package LinkSession

import (
	"fmt"

	"github.com/wsp-space/evt-25harukada/Config"
	"github.com/wsp-space/evt-25harukada/E220Model"
	"github.com/wsp-space/evt-25harukada/OutsideInterface"
	"github.com/wsp-space/evt-25harukada/TranscieverModel"
)

// Step is one iteration of the operating loop. Transport faults do not cut the
// iteration short, the first one is logged and followed by a single backoff.
// Only line faults come back as errors.
func (s *Session) Step() error {
	if Operating != s.state {
		return fmt.Errorf("Step in %v state", s.state)
	}
	defer func() { s.iteration++ }()

	var fault error
	keep := func(err error) error {
		if nil == err || !E220Model.IsFault(err, E220Model.ETransportFault) {
			return err
		}
		if nil == fault {
			fault = err
		} else {
			log.Debug(fmt.Sprintf("also failed: %v", err))
		}
		return nil
	}

	if err := keep(s.receive()); nil != err {
		return err
	}
	if Config.RoleSender == s.opts.Role && 0 == s.iteration%s.opts.SendEvery {
		payload := fmt.Sprintf(s.opts.Template, s.counter)
		err := s.transmit([]byte(payload))
		if nil == err {
			s.counter++
		}
		if err := keep(err); nil != err {
			return err
		}
	}
	if err := keep(s.drain()); nil != err {
		return err
	}
	return s.absorb(fault)
}

func (s *Session) absorb(err error) error {
	if nil == err {
		return nil
	}
	if E220Model.IsFault(err, E220Model.ETransportFault) {
		log.Error(fmt.Sprintf("%v, retrying in %v", err, s.opts.Backoff))
		s.Sleep(s.opts.Backoff)
		return nil
	}
	return err
}

func (s *Session) receive() error {
	n, err := s.transport.Read(s.buf, TranscieverModel.Timeout(s.opts.PollTimeout))
	if nil != err {
		return err
	}
	if 0 == n {
		return nil
	}
	data := append([]byte{}, E220Model.Deframe(s.buf[:n])...)
	text, derr := E220Model.Display(data)
	if nil != derr {
		log.Debug(derr)
		log.Info(fmt.Sprintf("received (hex) %v", text))
	} else {
		log.Info(fmt.Sprintf("received %q", text))
	}
	s.out.UpdateComponent(OutsideInterface.KRx, text)

	if Config.RoleSender != s.opts.Role && nil == derr && text == s.opts.Trigger {
		s.pulse()
	}
	if Config.RoleRelay == s.opts.Role {
		return s.transmit(data)
	}
	return nil
}

func (s *Session) pulse() {
	p := s.opts.Indicator
	if nil == p {
		return
	}
	if err := p.Out(true); nil != err {
		log.Warn(fmt.Sprintf("indicator %v: %v", p, err))
		return
	}
	s.Sleep(s.opts.IndicatorPulse)
	if err := p.Out(false); nil != err {
		log.Warn(fmt.Sprintf("indicator %v: %v", p, err))
	}
}

func (s *Session) transmit(payload []byte) error {
	packet := E220Model.Frame(payload, s.opts.Settings.AddressingMode(), s.opts.Target)
	if err := s.transport.Write(packet); nil != err {
		return err
	}
	log.Info(fmt.Sprintf("sent %q to %v", payload, s.opts.Target.Address))
	log.Debug(fmt.Sprintf("packet %v", E220Model.Dump(packet)))
	s.out.UpdateComponent(OutsideInterface.KTx, string(payload))
	return nil
}

// drain sends whatever the outside queued, without waiting for more
func (s *Session) drain() error {
	for nil != s.send {
		select {
		case m, ok := <-s.send:
			if !ok {
				s.send = nil
				return nil
			}
			if err := s.transmit([]byte(m.Value)); nil != err {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}
