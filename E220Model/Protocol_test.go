package E220Model

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func Assert(t *testing.T, condition bool, errorMessage string) {
	t.Helper()
	if !condition {
		t.Error(errorMessage)
	}
}

func TestBuildConfigFrame(t *testing.T) {
	type args struct {
		address Address
		format  SerialFormat
		options OptionFlags
		channel Channel
		key     EncryptionKey
		persist bool
	}
	tests := []struct {
		name    string
		args    args
		wantRet ConfigFrame
	}{
		{
			name:    "volatile fixed mode node 2",
			args:    args{0x0002, 0x62, 0x40, 0x00, 0x0000, false},
			wantRet: ConfigFrame{0xC0, 0x00, 0x09, 0x00, 0x02, 0x62, 0x40, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:    "persistent with key",
			args:    args{0x1234, 0x62, 0x00, 0x17, 0xBEEF, true},
			wantRet: ConfigFrame{0xC2, 0x00, 0x09, 0x12, 0x34, 0x62, 0x00, 0x17, 0xBE, 0xEF, 0x00, 0x00},
		},
		{
			name:    "all ones",
			args:    args{0xFFFF, 0xFF, 0xFF, 0xFF, 0xFFFF, false},
			wantRet: ConfigFrame{0xC0, 0x00, 0x09, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00, 0x00},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.args
			if gotRet := BuildConfigFrame(a.address, a.format, a.options, a.channel, a.key, a.persist); !reflect.DeepEqual(gotRet, tt.wantRet) {
				t.Errorf("BuildConfigFrame() = %v, want %v", Dump(gotRet), Dump(tt.wantRet))
			}
		})
	}
}

func TestConfigFrameInvariants(t *testing.T) {
	for _, persist := range []bool{false, true} {
		for _, address := range []Address{0, 1, 0x00FF, 0xFF00, 0xFFFF} {
			for _, options := range []OptionFlags{0, OFixedTransmission, 0xFF} {
				frame := BuildConfigFrame(address, 0x62, options, Channel(address), EncryptionKey(address), persist)
				d := fmt.Sprintf("frame %v", Dump(frame))
				Assert(t, FrameSize == len(frame), d+": length is not 12")
				Assert(t, 0x09 == frame[2], d+": length byte is not 0x09")
				Assert(t, int(frame[2]) == len(frame)-HeaderSize, d+": length byte does not count the following bytes")
				Assert(t, StartRegister == frame[1], d+": start register is not 0")
				if persist {
					Assert(t, 0xC2 == frame[0], d+": persistent opcode is not 0xC2")
				} else {
					Assert(t, 0xC0 == frame[0], d+": volatile opcode is not 0xC0")
				}
				Assert(t, address.High() == frame[3] && address.Low() == frame[4], d+": address is not big-endian")
			}
		}
	}
}

func TestSettingsFrameIsStable(t *testing.T) {
	s := Settings{Address: 0x0002, Format: 0x62, Options: 0x40}
	first := s.Frame()
	second := s.Frame()
	Assert(t, reflect.DeepEqual(first, second), "two frames from the same settings differ")
	first[3] = 0xAA
	Assert(t, 0x00 == s.Frame()[3], "frames share their backing array")
	Assert(t, Fixed == s.AddressingMode(), "option 0x40 must select fixed mode")
}

func TestVerifyEcho(t *testing.T) {
	frame := BuildConfigFrame(0x0002, 0x62, 0x40, 0, 0, false)
	echo := append(ConfigFrame{OpEcho}, frame[1:]...)
	tests := []struct {
		name string
		echo []byte
		want EchoResult
	}{
		{name: "nothing", echo: nil, want: EchoResult{Kind: EchoMissing, Offset: -1}},
		{name: "exact", echo: echo, want: EchoResult{Kind: EchoMatched, Offset: -1}},
		{name: "wrong opcode", echo: frame, want: EchoResult{Kind: EchoMismatch, Offset: 0}},
		{name: "truncated", echo: echo[:6], want: EchoResult{Kind: EchoMismatch, Offset: 6}},
		{name: "different channel", echo: append(append([]byte{}, echo[:7]...), append([]byte{0x05}, echo[8:]...)...), want: EchoResult{Kind: EchoMismatch, Offset: 7}},
		{name: "trailing garbage", echo: append(append([]byte{}, echo...), 0x55), want: EchoResult{Kind: EchoMismatch, Offset: FrameSize}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyEcho(frame, tt.echo); got != tt.want {
				t.Errorf("VerifyEcho() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSerialFormatString(t *testing.T) {
	Assert(t, "0x62 (uart 9600 8N1, air 2.4k)" == SerialFormat(0x62).String(), SerialFormat(0x62).String())
	Assert(t, "0xff (uart 115200 8N1, air 62.5k)" == SerialFormat(0xFF).String(), SerialFormat(0xFF).String())
}

func TestErrors(t *testing.T) {
	base := errors.New("i/o timeout")
	err := fmt.Errorf("write config: %w", Fault(ETransportFault, base))
	Assert(t, IsFault(err, ETransportFault), "wrapped transport fault is not detected")
	Assert(t, !IsFault(err, ELineFault), "transport fault reported as line fault")
	Assert(t, errors.Is(err, base), "cause is not reachable through Unwrap")
	Assert(t, nil == Fault(ELineFault, nil), "nil error must stay nil")
	Assert(t, "serial transport fault: i/o timeout" == Fault(ETransportFault, base).Error(), "unexpected message")
	Assert(t, "00 0A FF " == Dump([]byte{0x00, 0x0A, 0xFF}), "unexpected dump "+Dump([]byte{0x00, 0x0A, 0xFF}))
}
