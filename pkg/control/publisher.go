package control

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"liyu1981.xyz/greenhouse-service/pkg/common"
	"liyu1981.xyz/greenhouse-service/pkg/models"
)

type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// ClientFactory builds the broker client from the prepared options. Tests
// swap it for a fake.
type ClientFactory func(opts *mqtt.ClientOptions) mqtt.Client

// SetpointMessage is what actuators receive. Bookkeeping fields of the stored
// setpoint are not part of it.
type SetpointMessage struct {
	TargetTempMin             *float64 `json:"target_temp_min"`
	TargetTempMax             *float64 `json:"target_temp_max"`
	TargetHumAirMax           *float64 `json:"target_hum_air_max"`
	TargetLightIntensity      *float64 `json:"target_light_intensity"`
	IrrigationIntervalMinutes *int     `json:"irrigation_interval_minutes"`
	IrrigationDurationSeconds *int     `json:"irrigation_duration_seconds"`
}

func NewSetpointMessage(sp *models.Setpoint) SetpointMessage {
	return SetpointMessage{
		TargetTempMin:             sp.TargetTempMin,
		TargetTempMax:             sp.TargetTempMax,
		TargetHumAirMax:           sp.TargetHumAirMax,
		TargetLightIntensity:      sp.TargetLightIntensity,
		IrrigationIntervalMinutes: sp.IrrigationIntervalMinutes,
		IrrigationDurationSeconds: sp.IrrigationDurationSeconds,
	}
}

func SetpointTopic(prefix string, greenhouseID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/setpoints", prefix, greenhouseID)
}

type subscription struct {
	topic   string
	handler mqtt.MessageHandler
}

type outboundMessage struct {
	greenhouseID uuid.UUID
	topic        string
	payload      []byte
}

// Publisher owns the single broker connection of the process. Only its
// handlers move the connection state; everybody else just publishes.
type Publisher struct {
	cfg       common.MqttConfig
	newClient ClientFactory
	logger    *zap.Logger

	mu     sync.RWMutex
	state  State
	client mqtt.Client
	subs   []subscription
	closed bool

	outbound chan outboundMessage
	done     chan struct{}
	wg       sync.WaitGroup
}

func NewPublisher(cfg common.MqttConfig, factory ClientFactory) *Publisher {
	if factory == nil {
		factory = mqtt.NewClient
	}
	queue := cfg.OutboundQueue
	if queue < 1 {
		queue = 1
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 5 * time.Second
	}
	return &Publisher{
		cfg:       cfg,
		newClient: factory,
		logger: common.GetLoggerWith(
			common.LoggerNameControlChannel,
			zap.String(common.LoggerFieldCategory, common.LoggerCategoryPublisher),
		),
		outbound: make(chan outboundMessage, queue),
		done:     make(chan struct{}),
	}
}

func (p *Publisher) clientOptions() *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions().AddBroker(p.cfg.BrokerURL)
	opts.SetClientID(p.cfg.ClientID)
	if p.cfg.Username != "" {
		opts.SetUsername(p.cfg.Username)
		opts.SetPassword(p.cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(time.Minute)
	opts.SetOrderMatters(false)
	opts.SetOnConnectHandler(p.onConnect)
	opts.SetConnectionLostHandler(p.onConnectionLost)
	opts.SetReconnectingHandler(p.onReconnecting)
	return opts
}

func (p *Publisher) setState(s State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.state = s
}

func (p *Publisher) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *Publisher) onConnect(client mqtt.Client) {
	p.setState(StateConnected)
	p.logger.Info("Connected to MQTT broker", zap.String("broker", p.cfg.BrokerURL))

	p.mu.RLock()
	subs := append([]subscription(nil), p.subs...)
	p.mu.RUnlock()

	for _, s := range subs {
		p.subscribe(client, s)
	}
}

func (p *Publisher) onConnectionLost(_ mqtt.Client, err error) {
	p.setState(StateDisconnected)
	p.logger.Warn("Lost connection to MQTT broker", zap.Error(err))
}

func (p *Publisher) onReconnecting(_ mqtt.Client, _ *mqtt.ClientOptions) {
	p.setState(StateConnecting)
	p.logger.Info("Reconnecting to MQTT broker", zap.String("broker", p.cfg.BrokerURL))
}

func (p *Publisher) subscribe(client mqtt.Client, s subscription) {
	token := client.Subscribe(s.topic, p.cfg.QoS, s.handler)
	go func() {
		if !token.WaitTimeout(p.cfg.PublishTimeout) {
			p.logger.Warn("Subscribe timed out", zap.String("topic", s.topic))
			return
		}
		if err := token.Error(); err != nil {
			p.logger.Error("Subscribe failed", zap.String("topic", s.topic), zap.Error(err))
			return
		}
		p.logger.Info("Subscribed", zap.String("topic", s.topic))
	}()
}

// Start creates the client, starts the outbound worker and begins connecting.
// It does not wait for the broker; until the connection is up every publish
// is refused.
func (p *Publisher) Start() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return fmt.Errorf("publisher is closed")
	}
	if p.client != nil {
		p.mu.Unlock()
		return nil
	}
	client := p.newClient(p.clientOptions())
	p.client = client
	p.state = StateConnecting
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run()

	p.logger.Info("Connecting to MQTT broker", zap.String("broker", p.cfg.BrokerURL))
	token := client.Connect()
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			p.setState(StateDisconnected)
			p.logger.Error("Failed to connect to MQTT broker", zap.Error(common.TransientChannelFailure("connect", err)))
		}
	}()
	return nil
}

// Subscribe registers a handler that is (re)attached on every connect.
func (p *Publisher) Subscribe(topic string, handler mqtt.MessageHandler) {
	s := subscription{topic: topic, handler: handler}

	p.mu.Lock()
	p.subs = append(p.subs, s)
	client, state := p.client, p.state
	p.mu.Unlock()

	if client != nil && state == StateConnected {
		p.subscribe(client, s)
	}
}

// PublishSetpoint never blocks. It returns false when the channel is not
// connected or the outbound queue is full; nothing is retried later.
func (p *Publisher) PublishSetpoint(greenhouseID uuid.UUID, setpoint *models.Setpoint) bool {
	if setpoint == nil {
		return false
	}

	p.mu.RLock()
	state, closed := p.state, p.closed
	p.mu.RUnlock()

	if closed || state != StateConnected {
		p.logger.Warn("Control channel not connected, setpoint dropped",
			zap.String("greenhouse_id", greenhouseID.String()),
			zap.Stringer("state", state),
		)
		return false
	}

	payload, err := json.Marshal(NewSetpointMessage(setpoint))
	if err != nil {
		p.logger.Error("Failed to encode setpoint", zap.Error(err))
		return false
	}

	msg := outboundMessage{
		greenhouseID: greenhouseID,
		topic:        SetpointTopic(p.cfg.TopicPrefix, greenhouseID),
		payload:      payload,
	}

	select {
	case p.outbound <- msg:
		return true
	default:
		p.logger.Warn("Outbound queue full, setpoint dropped", zap.String("greenhouse_id", greenhouseID.String()))
		return false
	}
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for {
		select {
		case msg := <-p.outbound:
			p.send(msg)
		case <-p.done:
			deadline := time.Now().Add(p.cfg.PublishTimeout)
			for time.Now().Before(deadline) {
				select {
				case msg := <-p.outbound:
					p.send(msg)
				default:
					return
				}
			}
			return
		}
	}
}

func (p *Publisher) send(msg outboundMessage) {
	p.mu.RLock()
	client := p.client
	p.mu.RUnlock()

	token := client.Publish(msg.topic, p.cfg.QoS, false, msg.payload)
	if !token.WaitTimeout(p.cfg.PublishTimeout) {
		p.logger.Warn("Publish timed out",
			zap.Error(common.TransientChannelFailure("publish "+msg.topic, fmt.Errorf("no ack after %s", p.cfg.PublishTimeout))),
		)
		return
	}
	if err := token.Error(); err != nil {
		p.logger.Error("Publish failed", zap.Error(common.TransientChannelFailure("publish "+msg.topic, err)))
		return
	}
	p.logger.Info("Setpoint published",
		zap.String("topic", msg.topic),
		zap.ByteString("payload", msg.payload),
	)
}

// Close drains what is already queued for at most one publish timeout, then
// disconnects. Later publishes are refused.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.state = StateDisconnected
	client := p.client
	p.mu.Unlock()

	close(p.done)

	drained := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(drained)
	}()
	timer := time.NewTimer(p.cfg.PublishTimeout)
	defer timer.Stop()
	select {
	case <-drained:
	case <-timer.C:
		p.logger.Warn("Outbound queue not drained before disconnect",
			zap.Duration("timeout", p.cfg.PublishTimeout),
			zap.Int("pending", len(p.outbound)),
		)
	}

	if client != nil {
		client.Disconnect(250)
	}
	p.logger.Info("Disconnected from MQTT broker")
	return nil
}
