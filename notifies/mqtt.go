package notifies

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Publisher is the part of a paho client used for notifications.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload any) paho.Token
}

// MQTT publishes events as JSON to <topic>/<kind>.
type MQTT struct {
	publisher Publisher
	topic     string
	qos       byte
}

var _ Notifier = new(MQTT)

func NewMQTT(publisher Publisher, topic string) *MQTT {
	return &MQTT{
		publisher: publisher,
		topic:     topic,
		qos:       1,
	}
}

var ErrConnectTimeout = errors.New("mqtt connect timeout")

const connectTimeout = 10 * time.Second

// DialMQTT connects to broker.
func DialMQTT(broker string, clientID string) (paho.Client, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout).
		SetKeepAlive(30 * time.Second)
	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("%w: %s", ErrConnectTimeout, broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, err)
	}
	return client, nil
}

func (m *MQTT) Notify(ctx context.Context, event Event) error {
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	topic := m.topic + "/" + string(event.Kind)
	token := m.publisher.Publish(topic, m.qos, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish %s: %w", topic, err)
	}
	return nil
}
