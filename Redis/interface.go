// Redis translates components to redis keys, <prefix>:<component>, value is
// plain text. Writable components are pub/sub channels of the same name.
package Redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/wsp-space/evt-25harukada/OutsideInterface"
)

var log = logrus.New()

func SetLogger(l *logrus.Logger) {
	log = l
}

const writableBuffer = 16

type Interface struct {
	db     *redis.Client
	ctx    context.Context
	prefix string
	subs   []*redis.PubSub
	mutex  sync.Mutex
}

func Init(self *Interface, address string, db int, prefix string) error {
	self.db = redis.NewClient(&redis.Options{Addr: address, DB: db})
	self.ctx = context.Background()
	self.prefix = prefix
	if err := self.db.Ping(self.ctx).Err(); nil != err {
		_ = self.db.Close()
		return fmt.Errorf("redis %s: %w", address, err)
	}
	log.Info(fmt.Sprintf("redis %s db %d, prefix %s", address, db, prefix))
	return nil
}

func Key(prefix string, component string) string {
	return prefix + ":" + component
}

func (i *Interface) UpdateComponent(key string, value string) {
	if err := i.db.Set(i.ctx, Key(i.prefix, key), value, 0).Err(); nil != err {
		log.Warn(fmt.Sprintf("redis SET %s: %v", Key(i.prefix, key), err))
	}
}

func (i *Interface) RegisterWritableComponent(key string) <-chan OutsideInterface.SubMessage {
	ps := i.db.Subscribe(i.ctx, Key(i.prefix, key))
	i.mutex.Lock()
	i.subs = append(i.subs, ps)
	i.mutex.Unlock()
	out := make(chan OutsideInterface.SubMessage, writableBuffer)
	go func() {
		defer close(out)
		for m := range ps.Channel() {
			forward(out, OutsideInterface.SubMessage{Key: key, Value: m.Payload})
		}
	}()
	return out
}

// forward never blocks the receive goroutine, a full queue drops the value
func forward(out chan<- OutsideInterface.SubMessage, m OutsideInterface.SubMessage) {
	select {
	case out <- m:
	default:
		log.Warn(fmt.Sprintf("writable %s queue is full, dropped %q", m.Key, m.Value))
	}
}

func (i *Interface) Close() error {
	i.mutex.Lock()
	for _, ps := range i.subs {
		_ = ps.Close()
	}
	i.subs = nil
	i.mutex.Unlock()
	return i.db.Close()
}
