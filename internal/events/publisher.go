// Package events publishes submitted-order events to RabbitMQ so downstream
// consumers (fulfilment, analytics) can react without polling the console.
package events

import (
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const EventOrderSubmitted = "order.submitted"

// OrderSubmittedEvent is the message body for a submitted order.
type OrderSubmittedEvent struct {
	DraftID       string  `json:"draft_id"`
	OrderID       string  `json:"order_id"`
	OrderNumber   string  `json:"order_number"`
	CustomerType  string  `json:"customer_type"`
	StateCode     string  `json:"state_code"`
	Subtotal      float64 `json:"subtotal"`
	TotalDiscount float64 `json:"total_discount"`
	TotalGST      float64 `json:"total_gst"`
	GrandTotal    float64 `json:"grand_total"`
	SubmittedAt   string  `json:"submitted_at"`
}

// Publisher owns the AMQP connection and channel.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewPublisher dials the broker and declares a durable direct exchange.
func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(
		exchange,
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// PublishOrderSubmitted emits a persistent order.submitted event. A nil
// receiver is a no-op so wiring stays optional.
func (p *Publisher) PublishOrderSubmitted(evt OrderSubmittedEvent) error {
	if p == nil {
		return nil
	}
	if evt.SubmittedAt == "" {
		evt.SubmittedAt = time.Now().UTC().Format(time.RFC3339)
	}

	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	return p.channel.Publish(
		p.exchange,
		EventOrderSubmitted,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			ContentType:  "application/json",
			Body:         body,
		},
	)
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
