package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"styledecor-server/model"
)

const EventPaymentConfirmed = "payment.confirmed"

type PaymentConfirmedEvent struct {
	Event         string    `json:"event"`
	OccurredAt    time.Time `json:"occurredAt"`
	TrackingId    string    `json:"trackingId"`
	TransactionId string    `json:"transactionId"`
	BookingId     string    `json:"bookingId"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	CustomerEmail string    `json:"customerEmail"`
	ServiceName   string    `json:"serviceName"`
}

// PaymentPublisher sends confirmed payments to Kafka, one message per
// transaction keyed by its id.
type PaymentPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *zap.Logger
}

func NewPaymentPublisher(producer sarama.SyncProducer, topic string, log *zap.Logger) *PaymentPublisher {
	return &PaymentPublisher{producer: producer, topic: topic, log: log}
}

func (p *PaymentPublisher) PublishPaymentConfirmed(_ context.Context, payment *model.Payment) error {
	event := PaymentConfirmedEvent{
		Event:         EventPaymentConfirmed,
		OccurredAt:    payment.PaidAt,
		TrackingId:    payment.TrackingId,
		TransactionId: payment.TransactionId,
		BookingId:     payment.BookingId,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		CustomerEmail: payment.CustomerEmail,
		ServiceName:   payment.ServiceName,
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("cannot encode payment event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(payment.TransactionId),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(EventPaymentConfirmed)},
		},
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("cannot publish payment event: %w", err)
	}

	p.log.Debug("payment event published",
		zap.String("topic", p.topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

func (p *PaymentPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishPaymentConfirmed(context.Context, *model.Payment) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}

// NewSyncProducer connects to the brokers with acks from all replicas and
// without retries.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.ClientID = "styledecor-server"
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 0
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("cannot create kafka producer: %w", err)
	}
	return producer, nil
}
