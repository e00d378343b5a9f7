package ModeLines

import (
	"fmt"
	"sync"

	"github.com/karalabe/hid"

	"github.com/wsp-space/evt-25harukada/E220Model"
	"github.com/wsp-space/evt-25harukada/TranscieverModel"
)

// MCP2221A USB to UART/GPIO bridge. The UART side shows up as a tty and is
// opened by UartTransport, the four GP pins are driven here over HID.
const (
	BridgeVID uint16 = 0x04D8
	BridgePID uint16 = 0x00DD

	bridgeMsgSize  = 64
	bridgePinCount = 4

	cmdGPIOSet byte = 0x50
	cmdSRAMSet byte = 0x60
	cmdSRAMGet byte = 0x61

	wordSet byte = 0xFF
	wordClr byte = 0x00

	// sram response offsets of the GP0..GP3 designation bytes
	sramGPStart = 22
)

type hidDevice interface {
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
	Close() error
}

type Bridge struct {
	dev   hidDevice
	name  string
	mutex sync.Mutex
}

// OpenBridge opens the index-th attached MCP2221A
func OpenBridge(index int) (*Bridge, error) {
	info := hid.Enumerate(BridgeVID, BridgePID)
	if index >= len(info) {
		return nil, fmt.Errorf("bridge index %d out of range, %d attached", index, len(info))
	}
	dev, err := info[index].Open()
	if nil != err {
		return nil, fmt.Errorf("hid Open: %w", err)
	}
	log.Info(fmt.Sprintf("bridge %s %s at %s", info[index].Manufacturer, info[index].Product, info[index].Path))
	return &Bridge{dev: dev, name: fmt.Sprintf("mcp2221a#%d", index)}, nil
}

func (b *Bridge) send(cmd []byte) ([]byte, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if _, err := b.dev.Write(cmd); nil != err {
		return nil, fmt.Errorf("Write([cmd=0x%02X]): %w", cmd[0], err)
	}
	rsp := make([]byte, bridgeMsgSize)
	n, err := b.dev.Read(rsp)
	if nil != err {
		return nil, fmt.Errorf("Read([cmd=0x%02X]): %w", cmd[0], err)
	}
	return rsp, checkResponse(cmd[0], rsp[:n])
}

func checkResponse(cmd byte, rsp []byte) error {
	if len(rsp) < bridgeMsgSize {
		return fmt.Errorf("[cmd=0x%02X]: short read (%d of %d bytes)", cmd, len(rsp), bridgeMsgSize)
	}
	if rsp[0] != cmd || rsp[1] != wordClr {
		return fmt.Errorf("[cmd=0x%02X]: command failed, %v", cmd, E220Model.Dump(rsp[:2]))
	}
	return nil
}

func gpioSetCommand(gp byte, high bool) []byte {
	cmd := make([]byte, bridgeMsgSize)
	cmd[0] = cmdGPIOSet
	i := 2 + 4*int(gp)
	cmd[i+0] = wordSet // alter output value
	if high {
		cmd[i+1] = 1
	}
	cmd[i+2] = wordSet // alter direction
	cmd[i+3] = 0x00    // output
	return cmd
}

// designation keeps the other pins as they are, gp becomes a gpio output driven low
func designationCommand(current []byte, gp byte) []byte {
	cmd := make([]byte, bridgeMsgSize)
	cmd[0] = cmdSRAMSet
	cmd[7] = wordSet
	copy(cmd[8:8+bridgePinCount], current)
	cmd[8+gp] = 0x00
	return cmd
}

// Pin switches GPn to gpio output mode and returns it
func (b *Bridge) Pin(gp byte) (TranscieverModel.Pin, error) {
	if gp >= bridgePinCount {
		return nil, fmt.Errorf("invalid GPIO pin: %d", gp)
	}
	query := make([]byte, bridgeMsgSize)
	query[0] = cmdSRAMGet
	sram, err := b.send(query)
	if nil != err {
		return nil, err
	}
	if _, err := b.send(designationCommand(sram[sramGPStart:sramGPStart+bridgePinCount], gp)); nil != err {
		return nil, err
	}
	p := &bridgePin{bridge: b, gp: gp}
	return p, p.Out(false)
}

func (b *Bridge) Close() error {
	return b.dev.Close()
}

type bridgePin struct {
	bridge *Bridge
	gp     byte
}

func (p *bridgePin) Out(high bool) error {
	_, err := p.bridge.send(gpioSetCommand(p.gp, high))
	return err
}

func (p *bridgePin) String() string {
	return fmt.Sprintf("%s/GP%d", p.bridge.name, p.gp)
}
