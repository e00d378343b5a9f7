package ModeLines

import (
	"bytes"
	"testing"
)

type fakeHID struct {
	written [][]byte
	sram    []byte
	status  byte
}

func (d *fakeHID) Write(b []byte) (int, error) {
	d.written = append(d.written, append([]byte{}, b...))
	return len(b), nil
}

func (d *fakeHID) Read(b []byte) (int, error) {
	last := d.written[len(d.written)-1]
	b[0] = last[0]
	b[1] = d.status
	if cmdSRAMGet == last[0] {
		copy(b[sramGPStart:], d.sram)
	}
	return bridgeMsgSize, nil
}

func (d *fakeHID) Close() error { return nil }

func TestGPIOSetCommand(t *testing.T) {
	cmd := gpioSetCommand(2, true)
	Assert(t, bridgeMsgSize == len(cmd), "command must be a full report")
	Assert(t, cmdGPIOSet == cmd[0], "wrong opcode")
	Assert(t, bytes.Equal([]byte{0xFF, 0x01, 0xFF, 0x00}, cmd[10:14]), "GP2 block is wrong")
	Assert(t, bytes.Equal(make([]byte, 8), cmd[2:10]), "other pins must be left alone")
	cmd = gpioSetCommand(0, false)
	Assert(t, bytes.Equal([]byte{0xFF, 0x00, 0xFF, 0x00}, cmd[2:6]), "GP0 low block is wrong")
}

func TestBridgePin(t *testing.T) {
	dev := &fakeHID{sram: []byte{0x01, 0x01, 0x01, 0x01}}
	b := &Bridge{dev: dev, name: "test"}
	p, err := b.Pin(1)
	Assert(t, nil == err, "Pin failed")
	Assert(t, "test/GP1" == p.String(), p.String())
	Assert(t, 3 == len(dev.written), "expected sram get, sram set and gpio set")
	set := dev.written[1]
	Assert(t, cmdSRAMSet == set[0] && wordSet == set[7], "designation must alter gp settings")
	Assert(t, bytes.Equal([]byte{0x01, 0x00, 0x01, 0x01}, set[8:12]), "only GP1 may change designation")
	Assert(t, nil == p.Out(true), "Out failed")
	Assert(t, bytes.Equal(gpioSetCommand(1, true), dev.written[3]), "Out sent the wrong report")

	_, err = b.Pin(4)
	Assert(t, nil != err, "GP4 does not exist")
}

func TestBridgeStatus(t *testing.T) {
	dev := &fakeHID{status: 0x01}
	b := &Bridge{dev: dev}
	p := &bridgePin{bridge: b, gp: 0}
	Assert(t, nil != p.Out(true), "failed status must be reported")
	Assert(t, nil != checkResponse(cmdGPIOSet, make([]byte, 10)), "short response must be reported")
}

func TestParseBridgePin(t *testing.T) {
	for name, want := range map[string]byte{"GP0": 0, "gp3": 3, "2": 2} {
		got, err := ParseBridgePin(name)
		Assert(t, nil == err && want == got, "failed to parse "+name)
	}
	for _, name := range []string{"GP4", "-1", "LED"} {
		_, err := ParseBridgePin(name)
		Assert(t, nil != err, "accepted "+name)
	}
}
