package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"periph.io/x/periph/host"

	"github.com/wsp-space/evt-25harukada/Config"
	"github.com/wsp-space/evt-25harukada/LinkSession"
	"github.com/wsp-space/evt-25harukada/ModeLines"
	"github.com/wsp-space/evt-25harukada/Mqtt"
	"github.com/wsp-space/evt-25harukada/OutsideInterface"
	"github.com/wsp-space/evt-25harukada/Redis"
	"github.com/wsp-space/evt-25harukada/UartTransport"
)

var log = logrus.New()

func setupLogging(c Config.Log, debug bool) error {
	switch c.Format {
	case "json":
		log.Formatter = new(logrus.JSONFormatter)
	default:
		log.Formatter = new(logrus.TextFormatter)
	}
	level, err := logrus.ParseLevel(c.Level)
	if nil != err {
		return fmt.Errorf("log level: %w", err)
	}
	if debug {
		level = logrus.DebugLevel
	}
	log.Level = level
	log.Out = os.Stdout
	ModeLines.SetLogger(log)
	UartTransport.SetLogger(log)
	LinkSession.SetLogger(log)
	Redis.SetLogger(log)
	Mqtt.SetLogger(log)
	return nil
}

func openOutside(c Config.Outside) (OutsideInterface.Interface, error) {
	switch c.Driver {
	case "redis":
		r := &Redis.Interface{}
		if err := Redis.Init(r, c.Address, c.DB, c.Prefix); nil != err {
			return nil, err
		}
		return r, nil
	case "mqtt":
		m, err := Mqtt.Connect(Mqtt.Settings{
			Address:  c.Address,
			ClientID: c.ClientID,
			Username: c.Username,
			Password: c.Password,
			Prefix:   c.Prefix,
		})
		if nil != err {
			return nil, err
		}
		return m, nil
	}
	return OutsideInterface.Nop{}, nil
}

// run returns only on a fatal error, everything it opened is released by then
func run(configPath string, debug bool) error {
	c, err := Config.Load(configPath)
	if nil != err {
		return err
	}
	if err := setupLogging(c.Log, debug); nil != err {
		return err
	}
	log.Info(fmt.Sprintf("e220 link, role %s, config %s", c.Role, configPath))

	if "periph" == c.Lines.Driver {
		if _, err := host.Init(); nil != err {
			return fmt.Errorf("host.Init: %w", err)
		}
	}
	pins, err := ModeLines.OpenPins(c.Lines)
	if nil != err {
		return err
	}
	defer pins.Close()
	transport, err := UartTransport.Open(c.Serial)
	if nil != err {
		return err
	}
	defer transport.Close()
	outside, err := openOutside(c.Outside)
	if nil != err {
		return err
	}
	defer outside.Close()

	opts := LinkSession.OptionsFrom(c)
	opts.Indicator = pins.Indicator
	lines := ModeLines.New(pins.M0, pins.M1, Config.Ms(c.Timing.SettleMs))
	log.Info(fmt.Sprintf("mode lines M0 %v, M1 %v, settle %v", pins.M0, pins.M1, lines.Settle()))
	err = LinkSession.New(opts, transport, lines, outside).Run()
	if mode, ok := lines.Mode(); ok {
		log.Info(fmt.Sprintf("module left in %v mode", mode))
	}
	return err
}

func main() {
	configPath := flag.String("config", "link.json5", "link configuration file")
	debug := flag.Bool("debug", false, "force debug logging")
	flag.Parse()

	if err := run(*configPath, *debug); nil != err {
		log.Error(err)
		os.Exit(1)
	}
}
