// Package controltest provides an in-memory stand-in for the MQTT client.
package controltest

import (
	"errors"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

var ErrNotConnected = errors.New("not connected")

type FakeToken struct {
	err  error
	done chan struct{}
}

func newFakeToken(err error) *FakeToken {
	t := &FakeToken{err: err, done: make(chan struct{})}
	close(t.done)
	return t
}

func (t *FakeToken) Wait() bool {
	<-t.done
	return true
}

func (t *FakeToken) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.done:
		return true
	case <-time.After(d):
		return false
	}
}

func (t *FakeToken) Done() <-chan struct{} {
	return t.done
}

func (t *FakeToken) Error() error {
	return t.err
}

type FakeMessage struct {
	topic   string
	payload []byte
}

func (m *FakeMessage) Duplicate() bool   { return false }
func (m *FakeMessage) Qos() byte         { return 1 }
func (m *FakeMessage) Retained() bool    { return false }
func (m *FakeMessage) Topic() string     { return m.topic }
func (m *FakeMessage) MessageID() uint16 { return 0 }
func (m *FakeMessage) Payload() []byte   { return m.payload }
func (m *FakeMessage) Ack()              {}

func NewMessage(topic string, payload []byte) mqtt.Message {
	return &FakeMessage{topic: topic, payload: payload}
}

type Published struct {
	Topic    string
	QoS      byte
	Retained bool
	Payload  []byte
}

// FakeClient connects instantly and records everything published through
// it. Handlers from the options are invoked synchronously.
type FakeClient struct {
	mu sync.Mutex

	opts          *mqtt.ClientOptions
	connected     bool
	disconnected  bool
	published     []Published
	subscriptions map[string]mqtt.MessageHandler

	// ConnectErr fails Connect, PublishErr fails every publish.
	ConnectErr error
	PublishErr error
	// Hold, when set, delays publish acknowledgements until it is closed.
	Hold chan struct{}

	// Notify, when set, receives a signal after each recorded publish.
	Notify chan struct{}
}

func NewFakeClient() *FakeClient {
	return &FakeClient{subscriptions: map[string]mqtt.MessageHandler{}}
}

// Factory matches control.ClientFactory.
func (f *FakeClient) Factory(opts *mqtt.ClientOptions) mqtt.Client {
	f.mu.Lock()
	f.opts = opts
	f.mu.Unlock()
	return f
}

func (f *FakeClient) Options() *mqtt.ClientOptions {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opts
}

func (f *FakeClient) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *FakeClient) IsConnectionOpen() bool {
	return f.IsConnected()
}

func (f *FakeClient) Connect() mqtt.Token {
	f.mu.Lock()
	if f.ConnectErr != nil {
		err := f.ConnectErr
		f.mu.Unlock()
		return newFakeToken(err)
	}
	f.connected = true
	opts := f.opts
	f.mu.Unlock()

	if opts != nil && opts.OnConnect != nil {
		opts.OnConnect(f)
	}
	return newFakeToken(nil)
}

func (f *FakeClient) Disconnect(quiesce uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
	f.disconnected = true
}

func (f *FakeClient) Disconnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.disconnected
}

// Drop simulates a broken connection.
func (f *FakeClient) Drop(err error) {
	f.mu.Lock()
	f.connected = false
	opts := f.opts
	f.mu.Unlock()

	if opts != nil && opts.OnConnectionLost != nil {
		opts.OnConnectionLost(f, err)
	}
}

// Reconnect simulates the automatic reconnect of the real client.
func (f *FakeClient) Reconnect() {
	f.mu.Lock()
	opts := f.opts
	f.mu.Unlock()

	if opts != nil && opts.OnReconnecting != nil {
		opts.OnReconnecting(f, opts)
	}
	f.mu.Lock()
	f.connected = true
	f.mu.Unlock()
	if opts != nil && opts.OnConnect != nil {
		opts.OnConnect(f)
	}
}

func (f *FakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	var body []byte
	switch p := payload.(type) {
	case []byte:
		body = p
	case string:
		body = []byte(p)
	}

	f.mu.Lock()
	if !f.connected {
		f.mu.Unlock()
		return newFakeToken(ErrNotConnected)
	}
	f.published = append(f.published, Published{Topic: topic, QoS: qos, Retained: retained, Payload: body})
	hold, err, notify := f.Hold, f.PublishErr, f.Notify
	f.mu.Unlock()

	if notify != nil {
		notify <- struct{}{}
	}
	if hold != nil {
		t := &FakeToken{err: err, done: hold}
		return t
	}
	return newFakeToken(err)
}

func (f *FakeClient) PublishedMessages() []Published {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Published(nil), f.published...)
}

func (f *FakeClient) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscriptions[topic] = callback
	return newFakeToken(nil)
}

func (f *FakeClient) SubscribeMultiple(filters map[string]byte, callback mqtt.MessageHandler) mqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	for topic := range filters {
		f.subscriptions[topic] = callback
	}
	return newFakeToken(nil)
}

func (f *FakeClient) Unsubscribe(topics ...string) mqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, topic := range topics {
		delete(f.subscriptions, topic)
	}
	return newFakeToken(nil)
}

func (f *FakeClient) Subscriptions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	topics := make([]string, 0, len(f.subscriptions))
	for topic := range f.subscriptions {
		topics = append(topics, topic)
	}
	return topics
}

// ResetSubscriptions forgets subscriptions, like a clean session reconnect.
func (f *FakeClient) ResetSubscriptions() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscriptions = map[string]mqtt.MessageHandler{}
}

func (f *FakeClient) AddRoute(topic string, callback mqtt.MessageHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscriptions[topic] = callback
}

func (f *FakeClient) OptionsReader() mqtt.ClientOptionsReader {
	return mqtt.ClientOptionsReader{}
}

// Deliver hands payload to every handler whose filter matches topic and
// reports how many handlers ran.
func (f *FakeClient) Deliver(topic string, payload []byte) int {
	f.mu.Lock()
	var handlers []mqtt.MessageHandler
	for filter, handler := range f.subscriptions {
		if matchTopic(filter, topic) {
			handlers = append(handlers, handler)
		}
	}
	f.mu.Unlock()

	for _, h := range handlers {
		h(f, NewMessage(topic, payload))
	}
	return len(handlers)
}

func matchTopic(filter, topic string) bool {
	fs := strings.Split(filter, "/")
	ts := strings.Split(topic, "/")
	for i, part := range fs {
		if part == "#" {
			return true
		}
		if i >= len(ts) {
			return false
		}
		if part != "+" && part != ts[i] {
			return false
		}
	}
	return len(fs) == len(ts)
}
