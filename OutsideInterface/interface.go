// Package OutsideInterface is how the link is seen from the rest of the house:
// components are published by key, writable components deliver values back.
package OutsideInterface

// component keys
const (
	KState = "state"
	KEcho  = "echo"
	KRx    = "rx"
	KTx    = "tx"
	KSend  = "send"
)

type SubMessage struct {
	Value string
	Key   string
}

// Interface implementations run their own receive goroutines, the returned
// channel is buffered and closed when the implementation is closed.
type Interface interface {
	UpdateComponent(key string, value string)
	RegisterWritableComponent(key string) <-chan SubMessage
	Close() error
}

// Nop publishes nowhere and never delivers anything
type Nop struct{}

func (Nop) UpdateComponent(key string, value string) {}

func (Nop) RegisterWritableComponent(key string) <-chan SubMessage {
	return make(chan SubMessage)
}

func (Nop) Close() error { return nil }
