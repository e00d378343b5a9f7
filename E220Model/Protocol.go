// Package E220Model describes the Ebyte E220 register block, the command frames
// written to it over the UART and the fixed-address packet layout.
package E220Model

import (
	"fmt"
)

type Address uint16
type Channel byte
type SerialFormat byte
type OptionFlags byte
type EncryptionKey uint16

func (a Address) High() byte { return byte(a >> 8) }
func (a Address) Low() byte  { return byte(a) }

func (a Address) String() string {
	return fmt.Sprintf("%02X%02X", a.High(), a.Low())
}

func (k EncryptionKey) High() byte { return byte(k >> 8) }
func (k EncryptionKey) Low() byte  { return byte(k) }

// register write opcodes
const (
	OpWriteVolatile   byte = 0xC0
	OpEcho            byte = 0xC1
	OpWritePersistent byte = 0xC2
)

const (
	StartRegister byte = 0x00
	// BlockLength counts the register bytes following the length byte
	BlockLength byte = 0x09
	HeaderSize       = 3
	FrameSize        = HeaderSize + int(BlockLength)
)

// bits of the option register
const (
	OFixedTransmission OptionFlags = 0x40
)

type AddressingMode byte

const (
	Transparent AddressingMode = 0
	Fixed       AddressingMode = 1
)

func (m AddressingMode) String() string {
	if Fixed == m {
		return "fixed"
	}
	return "transparent"
}

func (o OptionFlags) AddressingMode() AddressingMode {
	if 0 != o&OFixedTransmission {
		return Fixed
	}
	return Transparent
}

// fields of the serial format register, decoded only for logging
var (
	uartBauds = [8]int{1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200}
	parities  = [4]string{"8N1", "8O1", "8E1", "8N1"}
	airRates  = [8]string{"2.4k", "2.4k", "2.4k", "4.8k", "9.6k", "19.2k", "38.4k", "62.5k"}
)

func (f SerialFormat) String() string {
	return fmt.Sprintf("%#02x (uart %d %s, air %s)",
		byte(f), uartBauds[f>>5], parities[(f>>3)&0x03], airRates[f&0x07])
}

// Settings is the register block pushed into the module at every boot
type Settings struct {
	Address Address
	Format  SerialFormat
	Options OptionFlags
	Channel Channel
	Key     EncryptionKey
	Persist bool
}

type ConfigFrame []byte

// BuildConfigFrame encodes the register write command. Any byte values are
// structurally valid, semantic checks are up to the caller.
func BuildConfigFrame(address Address, format SerialFormat, options OptionFlags, channel Channel, key EncryptionKey, persist bool) ConfigFrame {
	opcode := OpWriteVolatile
	if persist {
		opcode = OpWritePersistent
	}
	frame := make(ConfigFrame, FrameSize)
	frame[0] = opcode
	frame[1] = StartRegister
	frame[2] = BlockLength
	frame[3] = address.High()
	frame[4] = address.Low()
	frame[5] = byte(format)
	frame[6] = byte(options)
	frame[7] = byte(channel)
	frame[8] = key.High()
	frame[9] = key.Low()
	// frame[10], frame[11] are reserved registers, always zero
	return frame
}

func (s Settings) Frame() ConfigFrame {
	return BuildConfigFrame(s.Address, s.Format, s.Options, s.Channel, s.Key, s.Persist)
}

func (s Settings) AddressingMode() AddressingMode {
	return s.Options.AddressingMode()
}

type EchoKind byte

const (
	EchoMissing EchoKind = iota
	EchoMatched
	EchoMismatch
)

func (k EchoKind) String() string {
	switch k {
	case EchoMatched:
		return "matched"
	case EchoMismatch:
		return "mismatch"
	default:
		return "missing"
	}
}

type EchoResult struct {
	Kind EchoKind
	// Offset of the first differing byte, -1 unless Kind is EchoMismatch
	Offset int
}

// VerifyEcho compares the module answer against the frame that was written.
// The module replies with OpEcho followed by the same start, length and register bytes.
func VerifyEcho(frame ConfigFrame, echo []byte) EchoResult {
	if 0 == len(echo) {
		return EchoResult{Kind: EchoMissing, Offset: -1}
	}
	if OpEcho != echo[0] {
		return EchoResult{Kind: EchoMismatch, Offset: 0}
	}
	for i := 1; i < len(frame); i++ {
		if i >= len(echo) || echo[i] != frame[i] {
			return EchoResult{Kind: EchoMismatch, Offset: i}
		}
	}
	if len(echo) > len(frame) {
		return EchoResult{Kind: EchoMismatch, Offset: len(frame)}
	}
	return EchoResult{Kind: EchoMatched, Offset: -1}
}
