package track

import (
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// DefaultFrameTopic is the topic headsets publish joint frames on.
const DefaultFrameTopic = "mudra/frames"

// MQTTSource receives joint reports published by a tracking device over an
// MQTT broker. Each message payload is one JSON-encoded Report.
type MQTTSource struct {
	client mqtt.Client
	topic  string
	ch     chan Report
}

// NewMQTTSource connects to the broker and subscribes to the frame topic.
// An empty topic selects DefaultFrameTopic.
func NewMQTTSource(brokerURL, clientID, topic string) (*MQTTSource, error) {
	if topic == "" {
		topic = DefaultFrameTopic
	}

	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to broker %s: %w", brokerURL, token.Error())
	}

	s := &MQTTSource{
		client: client,
		topic:  topic,
		ch:     make(chan Report, 8),
	}

	token := client.Subscribe(topic, 0, s.handle)
	token.Wait()
	if token.Error() != nil {
		client.Disconnect(250)
		return nil, fmt.Errorf("subscribe to %s: %w", topic, token.Error())
	}

	log.Printf("track: subscribed to %s on %s", topic, brokerURL)
	return s, nil
}

func (s *MQTTSource) handle(_ mqtt.Client, msg mqtt.Message) {
	var r Report
	if err := json.Unmarshal(msg.Payload(), &r); err != nil {
		log.Printf("track: frame unmarshal error: %v", err)
		return
	}

	select {
	case s.ch <- r:
	default:
		// Drop rather than stall the broker callback.
	}
}

// Reports returns the channel subscribed joint reports arrive on.
func (s *MQTTSource) Reports() <-chan Report {
	return s.ch
}

// Close unsubscribes and disconnects from the broker.
func (s *MQTTSource) Close() error {
	if token := s.client.Unsubscribe(s.topic); token.Wait() && token.Error() != nil {
		log.Printf("track: unsubscribe error: %v", token.Error())
	}
	s.client.Disconnect(250)
	close(s.ch)
	return nil
}
