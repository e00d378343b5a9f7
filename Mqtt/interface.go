// Mqtt publishes components as retained messages on <prefix>/<component>,
// writable components listen on <prefix>/<component>/set.
package Mqtt

import (
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"github.com/wsp-space/evt-25harukada/OutsideInterface"
)

var log = logrus.New()

func SetLogger(l *logrus.Logger) {
	log = l
}

const (
	connectTimeout   = 10 * time.Second
	subscribeTimeout = 2 * time.Second
	writableBuffer   = 16
)

type Settings struct {
	Address  string
	ClientID string
	Username string
	Password string
	Prefix   string
}

type Interface struct {
	conn    mqtt.Client
	prefix  string
	writers []chan OutsideInterface.SubMessage
}

// BrokerURL adds tcp:// when the address has no scheme
func BrokerURL(address string) string {
	if strings.Contains(address, "://") {
		return address
	}
	return "tcp://" + address
}

func Topic(prefix string, component string) string {
	return prefix + "/" + component
}

func Connect(s Settings) (*Interface, error) {
	opts := mqtt.NewClientOptions().AddBroker(BrokerURL(s.Address))
	opts.ClientID = s.ClientID
	opts.Username = s.Username
	opts.Password = s.Password
	opts.AutoReconnect = true
	conn := mqtt.NewClient(opts)
	if token := conn.Connect(); !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt %s: connect timeout", s.Address)
	} else if nil != token.Error() {
		return nil, fmt.Errorf("mqtt %s: %w", s.Address, token.Error())
	}
	log.Info(fmt.Sprintf("mqtt connected to %s as %s", s.Address, s.ClientID))
	return &Interface{conn: conn, prefix: s.Prefix}, nil
}

func (i *Interface) UpdateComponent(key string, value string) {
	topic := Topic(i.prefix, key)
	token := i.conn.Publish(topic, 0, true, value)
	go func() {
		if token.Wait(); nil != token.Error() {
			log.Warn(fmt.Sprintf("mqtt publish %s: %v", topic, token.Error()))
		}
	}()
}

func (i *Interface) RegisterWritableComponent(key string) <-chan OutsideInterface.SubMessage {
	out := make(chan OutsideInterface.SubMessage, writableBuffer)
	i.writers = append(i.writers, out)
	topic := Topic(i.prefix, key) + "/set"
	handler := func(c mqtt.Client, m mqtt.Message) {
		select {
		case out <- OutsideInterface.SubMessage{Key: key, Value: string(m.Payload())}:
		default:
			log.Warn(fmt.Sprintf("writable %s queue is full, dropped %q", key, m.Payload()))
		}
	}
	if token := i.conn.Subscribe(topic, 1, handler); !token.WaitTimeout(subscribeTimeout) || nil != token.Error() {
		log.Error(fmt.Sprintf("mqtt subscribe %s: %v", topic, token.Error()))
	}
	return out
}

func (i *Interface) Close() error {
	i.conn.Disconnect(250)
	for _, w := range i.writers {
		close(w)
	}
	i.writers = nil
	return nil
}
