// Package publish forwards gauge readings to an MQTT broker
package publish

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/fako1024/potlight/pkg/scale"
)

const (
	defaultClientID = "potlight"
	defaultTimeout  = 5 * time.Second
	disconnectQuiet = 250 // ms
)

// ErrTimeout denotes that the broker did not acknowledge an operation in time
var ErrTimeout = errors.New("timeout waiting for broker")

// Publisher denotes an MQTT publisher of data points
type Publisher struct {
	client mqtt.Client
	topic  string

	clientID string
	qos      byte
	retained bool
	timeout  time.Duration

	logger scale.Logger
}

// New connects to the broker and instantiates a new Publisher, executing functional options, if any
func New(broker, topic string, options ...func(*Publisher)) (*Publisher, error) {
	p := newPublisher(nil, topic, options...)

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(p.clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(p.timeout)
	p.client = mqtt.NewClient(opts)

	token := p.client.Connect()
	if err := p.wait(token); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", broker, err)
	}
	p.logger.Infof("connected to MQTT broker %s, publishing to `%s`", broker, topic)

	return p, nil
}

// Publish sends a data point to the configured topic
func (p *Publisher) Publish(data scale.DataPoint) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data point: %w", err)
	}

	if err := p.wait(p.client.Publish(p.topic, p.qos, p.retained, payload)); err != nil {
		return fmt.Errorf("failed to publish to `%s`: %w", p.topic, err)
	}

	return nil
}

// Handler returns a data handler publishing every data point, logging failures
func (p *Publisher) Handler() func(data scale.DataPoint) {
	return func(data scale.DataPoint) {
		if err := p.Publish(data); err != nil {
			p.logger.Warnf("%s", err)
		}
	}
}

// Close disconnects from the broker
func (p *Publisher) Close() error {
	p.client.Disconnect(disconnectQuiet)
	return nil
}

////////////////////////////////////////////////////////////////////////////////

func newPublisher(client mqtt.Client, topic string, options ...func(*Publisher)) *Publisher {
	p := &Publisher{
		client:   client,
		topic:    topic,
		clientID: defaultClientID,
		retained: true,
		timeout:  defaultTimeout,
		logger:   &scale.NullLogger{},
	}

	// Execute functional options (if any), see options.go for implementation
	for _, option := range options {
		option(p)
	}

	return p
}

func (p *Publisher) wait(token mqtt.Token) error {
	if !token.WaitTimeout(p.timeout) {
		return ErrTimeout
	}

	return token.Error()
}
