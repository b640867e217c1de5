package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/domain"
)

const (
	PostCreated = "post.created"
	PostUpdated = "post.updated"
)

type PostEvent struct {
	Type      string      `json:"type"`
	Post      domain.Post `json:"post"`
	Timestamp time.Time   `json:"timestamp"`
}

type Publisher interface {
	PublishPost(ctx context.Context, ev PostEvent) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) PublishPost(context.Context, PostEvent) error { return nil }

// MQTTPublisher sends post events as JSON to a single MQTT topic.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
}

func NewMQTTPublisher(broker, clientID, topic string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	log.Info().Str("broker", broker).Str("topic", topic).Msg("mqtt publisher connected")
	return &MQTTPublisher{client: client, topic: topic}, nil
}

func (p *MQTTPublisher) PublishPost(ctx context.Context, ev PostEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal post event: %w", err)
	}
	token := p.client.Publish(p.topic, 1, false, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}

// Subscribe delivers every post event on topic to handle until ctx is done.
// Payloads that do not decode are logged and skipped.
func Subscribe(ctx context.Context, broker, clientID, topic string, handle func(PostEvent)) error {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}
	defer client.Disconnect(250)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		ev, err := Decode(msg.Payload())
		if err != nil {
			log.Error().Err(err).Str("topic", msg.Topic()).Msg("drop malformed post event")
			return
		}
		handle(ev)
	}
	if token := client.Subscribe(topic, 1, handler); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", topic, token.Error())
	}
	log.Info().Str("broker", broker).Str("topic", topic).Msg("subscribed to post events")

	<-ctx.Done()
	return nil
}

func Decode(payload []byte) (PostEvent, error) {
	var ev PostEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return PostEvent{}, fmt.Errorf("decode post event: %w", err)
	}
	if ev.Type != PostCreated && ev.Type != PostUpdated {
		return PostEvent{}, fmt.Errorf("decode post event: unknown type %q", ev.Type)
	}
	return ev, nil
}
