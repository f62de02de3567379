package pubsub

import (
	"log"
	"simple-ledger-go/blocks"
	"sync"

	"github.com/pkg/errors"
)

const (
	MAIN_TOPIC          = "main"
	TEST_TOPIC          = "test"
	DEFAULT_BUFFER_SIZE = 16
)

var (
	ErrUnknownTopic = errors.New("unknown topic")
	ErrClosed       = errors.New("broker is closed")
)

// Message carries a chain snapshot. From names the node that published it.
type Message struct {
	From  string
	Chain []blocks.Block
}

type Subscription struct {
	id    uint64
	topic string
	c     chan Message
}

func (s *Subscription) C() <-chan Message {
	return s.c
}

func (s *Subscription) Topic() string {
	return s.topic
}

type Broker struct {
	sync.Mutex
	channels   map[string]map[uint64]*Subscription
	nextId     uint64
	bufferSize int
	closed     bool
	onDrop     func(topic string)
}

func NewBroker(bufferSize int, topics ...string) *Broker {
	if bufferSize <= 0 {
		bufferSize = DEFAULT_BUFFER_SIZE
	}
	if len(topics) == 0 {
		topics = []string{MAIN_TOPIC, TEST_TOPIC}
	}
	channels := make(map[string]map[uint64]*Subscription)
	for _, t := range topics {
		channels[t] = make(map[uint64]*Subscription)
	}
	return &Broker{
		channels:   channels,
		bufferSize: bufferSize,
	}
}

// OnDrop is called whenever a slow subscriber misses a message.
func (b *Broker) OnDrop(f func(topic string)) {
	b.Lock()
	defer b.Unlock()
	b.onDrop = f
}

func (b *Broker) HasTopic(topic string) bool {
	b.Lock()
	defer b.Unlock()
	_, ok := b.channels[topic]
	return ok
}

func (b *Broker) Subscribe(topic string) (*Subscription, error) {
	b.Lock()
	defer b.Unlock()
	if b.closed {
		return nil, ErrClosed
	}
	subs, ok := b.channels[topic]
	if !ok {
		return nil, errors.Wrap(ErrUnknownTopic, topic)
	}
	b.nextId++
	sub := &Subscription{
		id:    b.nextId,
		topic: topic,
		c:     make(chan Message, b.bufferSize),
	}
	subs[sub.id] = sub
	return sub, nil
}

func (b *Broker) Unsubscribe(sub *Subscription) {
	b.Lock()
	defer b.Unlock()
	subs, ok := b.channels[sub.topic]
	if !ok {
		return
	}
	if _, ok := subs[sub.id]; ok {
		delete(subs, sub.id)
		close(sub.c)
	}
}

// Publish never blocks: a subscriber with a full buffer misses the message.
func (b *Broker) Publish(topic string, msg Message) error {
	b.Lock()
	if b.closed {
		b.Unlock()
		return ErrClosed
	}
	subs, ok := b.channels[topic]
	if !ok {
		b.Unlock()
		return errors.Wrap(ErrUnknownTopic, topic)
	}
	onDrop := b.onDrop

	dropped := 0
	for _, sub := range subs {
		select {
		case sub.c <- msg:
		default:
			dropped++
		}
	}
	b.Unlock()

	for i := 0; i < dropped; i++ {
		log.Printf("subscriber on '%s' is full, message dropped\n", topic)
		if onDrop != nil {
			onDrop(topic)
		}
	}
	return nil
}

func (b *Broker) Close() {
	b.Lock()
	defer b.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, subs := range b.channels {
		for id, sub := range subs {
			delete(subs, id)
			close(sub.c)
		}
	}
}
