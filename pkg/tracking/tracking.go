// Package tracking publishes preset activation events to a message broker.
package tracking

import (
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/matst80/preset-finder/pkg/messaging"
	"github.com/matst80/preset-finder/pkg/types"
)

const activationTopic messaging.Topic = "preset_activated"

// ActivationEvent is the payload published every time a preset is activated.
type ActivationEvent struct {
	EventId  string    `json:"eventId"`
	PresetId uint      `json:"presetId"`
	Name     string    `json:"name"`
	Vendor   string    `json:"vendor"`
	Product  string    `json:"product"`
	At       time.Time `json:"at"`
}

// RabbitTracking publishes activation events over AMQP. It implements the
// playback sink so it can be wired straight into the activation queue.
type RabbitTracking struct {
	prefix     string
	connection *amqp.Connection
}

func NewRabbitTracking(url, prefix string) (*RabbitTracking, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	if err := messaging.DefineTopic(ch, prefix, activationTopic); err != nil {
		conn.Close()
		return nil, err
	}
	return &RabbitTracking{prefix: prefix, connection: conn}, nil
}

func (t *RabbitTracking) Close() error {
	return t.connection.Close()
}

// Play publishes the activation. Publish failures are logged, never fatal.
func (t *RabbitTracking) Play(p *types.Preset) {
	event := ActivationEvent{
		EventId:  uuid.New().String(),
		PresetId: p.Id,
		Name:     p.Name,
		Vendor:   p.Vendor,
		Product:  p.ProductName,
		At:       time.Now(),
	}
	if err := messaging.Send(t.connection, t.prefix, activationTopic, event); err != nil {
		log.Printf("failed to publish activation for preset %d: %v", p.Id, err)
	}
}
