package messaging

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/matst80/preset-finder/pkg/common/jsoncompat"
)

// Topic names one event stream on the broker.
type Topic string

func topicName(prefix string, topic Topic) string {
	return fmt.Sprintf("%s_%s", prefix, topic)
}

// DefineTopic declares the durable exchange and queue for a topic.
func DefineTopic(ch *amqp.Channel, prefix string, topic Topic) error {
	name := topicName(prefix, topic)
	if err := ch.ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // auto-delete
		false,   // internal
		false,   // noWait
		nil,     // arguments
	); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(
		name,  // name of the queue
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // noWait
		nil,   // arguments
	); err != nil {
		return err
	}
	return nil
}

// Send publishes one JSON event on the topic.
func Send[V any](c *amqp.Connection, prefix string, topic Topic, data V) error {
	bytes, err := jsoncompat.Marshal(data)
	if err != nil {
		return err
	}
	ch, err := c.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	name := topicName(prefix, topic)
	return ch.Publish(
		name,
		name,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        bytes,
		},
	)
}
