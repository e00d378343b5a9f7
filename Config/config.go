// Package Config reads the link description file. The file is JSON5, every
// section is optional and falls back to Defaults.
package Config

import (
	"fmt"
	"io/ioutil"
	"time"

	"github.com/flynn/json5"
	"github.com/sirupsen/logrus"

	"github.com/wsp-space/evt-25harukada/E220Model"
)

// the tarm port keeps its read timeout in deciseconds
const tarmTickStepMs = 100

type Role string

const (
	RoleSender   Role = "sender"
	RoleReceiver Role = "receiver"
	RoleRelay    Role = "relay"
)

type Config struct {
	Role    Role    `json:"role"`
	Serial  Serial  `json:"serial"`
	Lines   Lines   `json:"lines"`
	Module  Module  `json:"module"`
	Target  Target  `json:"target"`
	Timing  Timing  `json:"timing"`
	Message Message `json:"message"`
	Outside Outside `json:"outside"`
	Log     Log     `json:"log"`
}

// Serial is the UART the module is attached to
type Serial struct {
	Driver string `json:"driver"` // "bugst" or "tarm"
	Port   string `json:"port"`
	Baud   int    `json:"baud"`
	// port level read timeout of the tarm driver, a multiple of 100, reads are polled in slices of it
	TickMs int `json:"tick_ms"`
}

// Lines are the M0/M1 mode select lines and the optional indicator led
type Lines struct {
	Driver    string `json:"driver"` // "periph", "gpiocdev" or "mcp2221a"
	Chip      string `json:"chip"`   // gpiocdev only
	Index     int    `json:"index"`  // mcp2221a only, n-th attached bridge
	M0        string `json:"m0"`
	M1        string `json:"m1"`
	Indicator string `json:"indicator"`
}

// Module is the register block written at boot
type Module struct {
	Address uint16 `json:"address"`
	Format  uint8  `json:"format"`
	Options uint8  `json:"options"`
	Channel uint8  `json:"channel"`
	Key     uint16 `json:"key"`
	Persist bool   `json:"persist"`
	Band    string `json:"band"`
}

// Target is the receiver of fixed-address packets
type Target struct {
	Address uint16 `json:"address"`
	Channel uint8  `json:"channel"`
}

// Timing, all values are milliseconds
type Timing struct {
	StartupMs        int `json:"startup_ms"`
	SettleMs         int `json:"settle_ms"`
	PostWriteMs      int `json:"post_write_ms"`
	EchoTimeoutMs    int `json:"echo_timeout_ms"`
	PollTimeoutMs    int `json:"poll_timeout_ms"`
	LoopIntervalMs   int `json:"loop_interval_ms"`
	BackoffMs        int `json:"backoff_ms"`
	IndicatorPulseMs int `json:"indicator_pulse_ms"`
	SendEvery        int `json:"send_every"`
}

type Message struct {
	Template string `json:"template"`
	Trigger  string `json:"trigger"`
}

type Outside struct {
	Driver   string `json:"driver"` // "none", "redis" or "mqtt"
	Address  string `json:"address"`
	Prefix   string `json:"prefix"`
	DB       int    `json:"db"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type Log struct {
	Level  string `json:"level"`
	Format string `json:"format"` // "text" or "json"
}

func Defaults() Config {
	return Config{
		Role: RoleReceiver,
		Serial: Serial{
			Driver: "bugst",
			Port:   "/dev/ttyS0",
			Baud:   9600,
			TickMs: 100,
		},
		Lines: Lines{
			Driver: "periph",
			Chip:   "gpiochip0",
			M0:     "GPIO19",
			M1:     "GPIO21",
		},
		Module: Module{
			Address: 0x0001,
			Format:  0x62,
			Options: byte(E220Model.OFixedTransmission),
			Band:    string(E220Model.Band900),
		},
		Target: Target{Address: 0x0002},
		Timing: Timing{
			StartupMs:        1000,
			SettleMs:         100,
			PostWriteMs:      200,
			EchoTimeoutMs:    1000,
			PollTimeoutMs:    100,
			LoopIntervalMs:   100,
			BackoffMs:        1000,
			IndicatorPulseMs: 100,
			SendEvery:        30,
		},
		Message: Message{
			Template: "Hello Target! cnt:%d",
			Trigger:  "sendmsg",
		},
		Outside: Outside{Driver: "none", Prefix: "e220"},
		Log:     Log{Level: "info", Format: "text"},
	}
}

// Load reads and validates a config file
func Load(path string) (Config, error) {
	data, err := ioutil.ReadFile(path)
	if nil != err {
		return Config{}, E220Model.Fault(E220Model.EBadConfig, fmt.Errorf("Config.Load: %w", err))
	}
	return Parse(data)
}

// Parse decodes data over Defaults and validates the result
func Parse(data []byte) (Config, error) {
	c := Defaults()
	if err := json5.Unmarshal(data, &c); nil != err {
		return Config{}, E220Model.Fault(E220Model.EBadConfig, fmt.Errorf("json5.Unmarshal: %w", err))
	}
	if err := c.Validate(); nil != err {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	bad := func(format string, a ...interface{}) error {
		return E220Model.Fault(E220Model.EBadConfig, fmt.Errorf(format, a...))
	}
	switch c.Role {
	case RoleSender, RoleReceiver, RoleRelay:
	default:
		return bad("unknown role %q", c.Role)
	}
	switch c.Serial.Driver {
	case "bugst", "tarm":
	default:
		return bad("unknown serial driver %q", c.Serial.Driver)
	}
	if "" == c.Serial.Port {
		return bad("serial port is not set")
	}
	if 0 >= c.Serial.Baud {
		return bad("bad baud rate %d", c.Serial.Baud)
	}
	if "tarm" == c.Serial.Driver {
		if 0 >= c.Serial.TickMs || 0 != c.Serial.TickMs%tarmTickStepMs {
			return bad("tarm tick_ms must be a positive multiple of %d, got %d", tarmTickStepMs, c.Serial.TickMs)
		}
		// shorter budgets would never read
		if c.Timing.PollTimeoutMs < c.Serial.TickMs || c.Timing.EchoTimeoutMs < c.Serial.TickMs {
			return bad("tarm tick_ms %d is longer than the poll or echo timeout", c.Serial.TickMs)
		}
	}
	switch c.Lines.Driver {
	case "periph", "gpiocdev", "mcp2221a":
	default:
		return bad("unknown lines driver %q", c.Lines.Driver)
	}
	if "" == c.Lines.M0 || "" == c.Lines.M1 {
		return bad("both m0 and m1 lines must be set")
	}
	if c.Lines.M0 == c.Lines.M1 || (c.Lines.Indicator != "" && (c.Lines.Indicator == c.Lines.M0 || c.Lines.Indicator == c.Lines.M1)) {
		return bad("lines must be distinct")
	}
	switch E220Model.Band(c.Module.Band) {
	case E220Model.Band400, E220Model.Band900:
	default:
		return bad("unknown band %q", c.Module.Band)
	}
	t := c.Timing
	for name, v := range map[string]int{
		"startup_ms": t.StartupMs, "settle_ms": t.SettleMs, "post_write_ms": t.PostWriteMs,
		"echo_timeout_ms": t.EchoTimeoutMs, "poll_timeout_ms": t.PollTimeoutMs,
		"loop_interval_ms": t.LoopIntervalMs, "backoff_ms": t.BackoffMs,
		"indicator_pulse_ms": t.IndicatorPulseMs,
	} {
		if 0 > v {
			return bad("%s must not be negative", name)
		}
	}
	if 1 > t.SendEvery {
		return bad("send_every must be at least 1")
	}
	switch c.Outside.Driver {
	case "none", "":
	case "redis", "mqtt":
		if "" == c.Outside.Address {
			return bad("outside %s needs an address", c.Outside.Driver)
		}
	default:
		return bad("unknown outside driver %q", c.Outside.Driver)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); nil != err {
		return bad("log level: %v", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return bad("unknown log format %q", c.Log.Format)
	}
	return nil
}

func (m Module) Settings() E220Model.Settings {
	return E220Model.Settings{
		Address: E220Model.Address(m.Address),
		Format:  E220Model.SerialFormat(m.Format),
		Options: E220Model.OptionFlags(m.Options),
		Channel: E220Model.Channel(m.Channel),
		Key:     E220Model.EncryptionKey(m.Key),
		Persist: m.Persist,
	}
}

func (t Target) Target() E220Model.Target {
	return E220Model.Target{Address: E220Model.Address(t.Address), Channel: E220Model.Channel(t.Channel)}
}

func Ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}
