package events

import (
	"context"
	"encoding/json"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink forwards bus events to a Kafka topic, keyed by event type.
type KafkaSink struct {
	writer messageWriter
	topic  string
	log    logger.Logger
}

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      brokers,
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: int(kafka.RequireOne),
		Async:        false,
	})

	log := logger.New("kafkaSink")
	log.Info("Kafka alert sink configured", "topic", topic, "brokers", len(brokers))

	return &KafkaSink{
		writer: writer,
		topic:  topic,
		log:    log,
	}
}

func (k *KafkaSink) Write(ctx context.Context, event Event) error {
	log := k.log.Function("Write")

	payload, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "eventID", event.ID)
	}

	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Type),
		Value: payload,
	})
	if err != nil {
		return log.Err("failed to write event to kafka", err, "topic", k.topic, "eventID", event.ID)
	}

	return nil
}

func (k *KafkaSink) Close() error {
	return k.writer.Close()
}
