// Package LinkSession brings the module up with a known register block and then
// runs the receive / send loop for the configured role.
package LinkSession

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wsp-space/evt-25harukada/Config"
	"github.com/wsp-space/evt-25harukada/E220Model"
	"github.com/wsp-space/evt-25harukada/OutsideInterface"
	"github.com/wsp-space/evt-25harukada/TranscieverModel"
)

var log = logrus.New()

func SetLogger(l *logrus.Logger) {
	log = l
}

const receiveBufferSize = 256

type State byte

const (
	Booting State = iota
	Configuring
	Verifying
	Operating
)

func (s State) String() string {
	switch s {
	case Booting:
		return "booting"
	case Configuring:
		return "configuring"
	case Verifying:
		return "verifying"
	case Operating:
		return "operating"
	}
	return fmt.Sprintf("state(%d)", byte(s))
}

// ModeSwitch is what the session needs from the mode line controller
type ModeSwitch interface {
	Enter(mode E220Model.Mode) error
}

type Options struct {
	Role     Config.Role
	Settings E220Model.Settings
	Target   E220Model.Target
	Band     E220Model.Band

	StartupDelay   time.Duration
	PostWrite      time.Duration
	EchoTimeout    time.Duration
	PollTimeout    time.Duration
	LoopInterval   time.Duration
	Backoff        time.Duration
	IndicatorPulse time.Duration

	SendEvery int
	Template  string
	Trigger   string
	// nil when no indicator is wired
	Indicator TranscieverModel.Pin
}

// OptionsFrom maps a validated configuration, the indicator pin is opened elsewhere
func OptionsFrom(c Config.Config) Options {
	return Options{
		Role:           c.Role,
		Settings:       c.Module.Settings(),
		Target:         c.Target.Target(),
		Band:           E220Model.Band(c.Module.Band),
		StartupDelay:   Config.Ms(c.Timing.StartupMs),
		PostWrite:      Config.Ms(c.Timing.PostWriteMs),
		EchoTimeout:    Config.Ms(c.Timing.EchoTimeoutMs),
		PollTimeout:    Config.Ms(c.Timing.PollTimeoutMs),
		LoopInterval:   Config.Ms(c.Timing.LoopIntervalMs),
		Backoff:        Config.Ms(c.Timing.BackoffMs),
		IndicatorPulse: Config.Ms(c.Timing.IndicatorPulseMs),
		SendEvery:      c.Timing.SendEvery,
		Template:       c.Message.Template,
		Trigger:        c.Message.Trigger,
	}
}

// Session is single threaded, it owns the transport, the lines and the counters
type Session struct {
	opts      Options
	transport TranscieverModel.Transport
	lines     ModeSwitch
	out       OutsideInterface.Interface
	send      <-chan OutsideInterface.SubMessage

	state     State
	frame     E220Model.ConfigFrame
	iteration int
	counter   int
	buf       []byte

	Sleep func(time.Duration)
}

func New(opts Options, transport TranscieverModel.Transport, lines ModeSwitch, out OutsideInterface.Interface) *Session {
	if nil == out {
		out = OutsideInterface.Nop{}
	}
	if 1 > opts.SendEvery {
		opts.SendEvery = 1
	}
	return &Session{
		opts:      opts,
		transport: transport,
		lines:     lines,
		out:       out,
		send:      out.RegisterWritableComponent(OutsideInterface.KSend),
		state:     Booting,
		buf:       make([]byte, receiveBufferSize),
		Sleep:     time.Sleep,
	}
}

func (s *Session) State() State {
	return s.state
}

// LastFrame is the register frame written by the last Boot, nil before that
func (s *Session) LastFrame() E220Model.ConfigFrame {
	return s.frame
}

// Counter is the number of template messages sent so far
func (s *Session) Counter() int {
	return s.counter
}

func (s *Session) setState(state State) {
	s.state = state
	log.Debug(fmt.Sprintf("session %v", state))
	s.out.UpdateComponent(OutsideInterface.KState, state.String())
}

// Run boots and then steps until a fatal error
func (s *Session) Run() error {
	if err := s.Boot(); nil != err {
		return err
	}
	for {
		if err := s.Step(); nil != err {
			return err
		}
		s.Sleep(s.opts.LoopInterval)
	}
}
