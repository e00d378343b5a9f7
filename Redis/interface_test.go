package Redis

import (
	"testing"

	"github.com/wsp-space/evt-25harukada/OutsideInterface"
)

func TestKey(t *testing.T) {
	if got := Key("e220", OutsideInterface.KRx); "e220:rx" != got {
		t.Errorf("Key() = %v, want e220:rx", got)
	}
}

func TestForwardDoesNotBlock(t *testing.T) {
	out := make(chan OutsideInterface.SubMessage, 1)
	forward(out, OutsideInterface.SubMessage{Key: "send", Value: "first"})
	forward(out, OutsideInterface.SubMessage{Key: "send", Value: "second"})
	if m := <-out; "first" != m.Value {
		t.Errorf("got %v, want the first value", m.Value)
	}
	select {
	case m := <-out:
		t.Errorf("overflow value %v was queued", m.Value)
	default:
	}
}
