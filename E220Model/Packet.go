package E220Model

import (
	"unicode/utf8"
)

const PacketHeaderSize = 3

// Target is the receiver of a fixed-address packet
type Target struct {
	Address Address
	Channel Channel
}

type OutboundPacket []byte

// Frame prefixes the payload with the target header in fixed mode. In transparent
// mode the payload is handed back as it is.
func Frame(payload []byte, mode AddressingMode, target Target) OutboundPacket {
	if Fixed != mode {
		return OutboundPacket(payload)
	}
	ret := make(OutboundPacket, 0, PacketHeaderSize+len(payload))
	ret = append(ret, target.Address.High(), target.Address.Low(), byte(target.Channel))
	return append(ret, payload...)
}

// Deframe returns inbound bytes untouched, the module strips addressing before the UART
func Deframe(data []byte) []byte {
	return data
}

// Display renders received bytes as text, or as a hex dump when they are not valid UTF-8.
// The second value is a EDecodeMismatch error in the latter case, purely informational.
func Display(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	return Dump(data), &Error{Type: EDecodeMismatch}
}
