package Mqtt

import (
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/wsp-space/evt-25harukada/OutsideInterface"
)

type doneToken struct{}

func (doneToken) Wait() bool                     { return true }
func (doneToken) WaitTimeout(time.Duration) bool { return true }
func (doneToken) Done() <-chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}
func (doneToken) Error() error { return nil }

type published struct {
	topic    string
	retained bool
	payload  interface{}
}

// fakeClient only implements what Interface uses
type fakeClient struct {
	mqtt.Client
	published []published
	handlers  map[string]mqtt.MessageHandler
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.published = append(c.published, published{topic, retained, payload})
	return doneToken{}
}

func (c *fakeClient) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	c.handlers[topic] = callback
	return doneToken{}
}

func (c *fakeClient) Disconnect(quiesce uint) {}

type fakeMessage struct {
	mqtt.Message
	topic   string
	payload []byte
}

func (m fakeMessage) Topic() string   { return m.topic }
func (m fakeMessage) Payload() []byte { return m.payload }

func TestUpdateComponent(t *testing.T) {
	c := &fakeClient{handlers: map[string]mqtt.MessageHandler{}}
	i := &Interface{conn: c, prefix: "e220"}
	i.UpdateComponent(OutsideInterface.KState, "operating")
	if 1 != len(c.published) {
		t.Fatalf("published %d messages, want 1", len(c.published))
	}
	p := c.published[0]
	if "e220/state" != p.topic || !p.retained || "operating" != p.payload {
		t.Errorf("unexpected publish %+v", p)
	}
}

func TestWritableComponent(t *testing.T) {
	c := &fakeClient{handlers: map[string]mqtt.MessageHandler{}}
	i := &Interface{conn: c, prefix: "e220"}
	ch := i.RegisterWritableComponent(OutsideInterface.KSend)
	h, ok := c.handlers["e220/send/set"]
	if !ok {
		t.Fatal("no subscription on e220/send/set")
	}
	h(c, fakeMessage{topic: "e220/send/set", payload: []byte("sendmsg")})
	m := <-ch
	if "send" != m.Key || "sendmsg" != m.Value {
		t.Errorf("got %+v", m)
	}
	i.Close()
	if _, open := <-ch; open {
		t.Error("Close must close writable channels")
	}
}

func TestBrokerURL(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{"bare", "localhost:1883", "tcp://localhost:1883"},
		{"tls", "ssl://broker:8883", "ssl://broker:8883"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BrokerURL(tt.address); got != tt.want {
				t.Errorf("BrokerURL() = %v, want %v", got, tt.want)
			}
		})
	}
}
