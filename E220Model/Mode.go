package E220Model

import (
	"fmt"

	"periph.io/x/periph/conn/physic"
)

// Mode is the module operating mode selected by the M0/M1 lines. WOR and sleep
// modes exist on the module but are not driven here.
type Mode byte

const (
	Normal Mode = iota
	Configuration
)

type linePattern struct {
	m0, m1 bool
}

var modeLines = map[Mode]linePattern{
	Normal:        {m0: false, m1: false},
	Configuration: {m0: true, m1: true},
}

// Lines returns the M0, M1 levels for the mode
func (m Mode) Lines() (m0 bool, m1 bool) {
	p, ok := modeLines[m]
	if !ok {
		panic(fmt.Errorf("no line pattern for mode %d", byte(m)))
	}
	return p.m0, p.m1
}

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Configuration:
		return "configuration"
	}
	return fmt.Sprintf("mode(%d)", byte(m))
}

// ModeFromLines is the inverse of Lines, ok is false for patterns this driver never uses
func ModeFromLines(m0, m1 bool) (mode Mode, ok bool) {
	for k, v := range modeLines {
		if v.m0 == m0 && v.m1 == m1 {
			return k, true
		}
	}
	return 0, false
}

// Band is the frequency range variant of the module
type Band string

const (
	Band400 Band = "400"
	Band900 Band = "900"
)

// Frequency of a channel, base + ch * 1MHz
func (b Band) Frequency(ch Channel) physic.Frequency {
	base := 850125 * physic.KiloHertz
	if Band400 == b {
		base = 410125 * physic.KiloHertz
	}
	return base + physic.Frequency(ch)*physic.MegaHertz
}
