package publish

import (
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/fako1024/potlight/pkg/gauge"
	"github.com/fako1024/potlight/pkg/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	done    chan struct{}
	err     error
	pending bool
}

func newToken(err error, pending bool) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err, pending: pending}
	if !pending {
		close(t.done)
	}
	return t
}

func (t *fakeToken) Wait() bool {
	<-t.done
	return true
}

func (t *fakeToken) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.done:
		return true
	case <-time.After(d):
		return false
	}
}

func (t *fakeToken) Done() <-chan struct{} {
	return t.done
}

func (t *fakeToken) Error() error {
	return t.err
}

type message struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// fakeClient records published messages, all other methods panic if called
type fakeClient struct {
	mqtt.Client

	messages     []message
	err          error
	pending      bool
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.messages = append(c.messages, message{topic, qos, retained, payload.([]byte)})
	return newToken(c.err, c.pending)
}

func (c *fakeClient) Disconnect(quiesce uint) {
	c.disconnected = true
}

func TestPublish(t *testing.T) {
	client := &fakeClient{}
	p := newPublisher(client, "kitchen/coffee")

	ts := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	require.NoError(t, p.Publish(scale.DataPoint{
		TimeStamp: ts,
		Unit:      scale.UnitGrams,
		Raw:       357000,
		Weight:    650,
		Stability: gauge.StabilityDisturbed,
	}))

	require.Len(t, client.messages, 1)
	msg := client.messages[0]
	assert.Equal(t, "kitchen/coffee", msg.topic)
	assert.Equal(t, byte(0), msg.qos)
	assert.True(t, msg.retained)
	assert.JSONEq(t, `{"timestamp": "2024-03-01T08:30:00Z", "unit": "g", "raw": 357000, "weight": 650, "stability": "disturbed"}`, string(msg.payload))

	require.NoError(t, p.Close())
	assert.True(t, client.disconnected)
}

func TestPublishOptions(t *testing.T) {
	client := &fakeClient{}
	p := newPublisher(client, "t", WithQoS(1), WithRetained(false), WithClientID("x"))
	assert.Equal(t, "x", p.clientID)

	p.Handler()(scale.DataPoint{})
	require.Len(t, client.messages, 1)
	assert.Equal(t, byte(1), client.messages[0].qos)
	assert.False(t, client.messages[0].retained)
}

func TestPublishErrors(t *testing.T) {
	errBroker := errors.New("not authorized")
	p := newPublisher(&fakeClient{err: errBroker}, "t")
	assert.ErrorIs(t, p.Publish(scale.DataPoint{}), errBroker)

	p = newPublisher(&fakeClient{pending: true}, "t", WithTimeout(10*time.Millisecond))
	assert.ErrorIs(t, p.Publish(scale.DataPoint{}), ErrTimeout)

	// Failures are only logged by the handler
	p.Handler()(scale.DataPoint{})
}
