package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"

	"leadconversion/internal/pkg/config"
	"leadconversion/internal/pkg/log_messages"
	"leadconversion/internal/pkg/logger"
	"leadconversion/internal/pkg/models"
	"leadconversion/internal/service/interfaces"
)

const deliveryTimeout = 10 * time.Second

// ProducerInterface is the subset of *kafka.Producer used here.
type ProducerInterface interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

// KafkaProducer publishes conversion status events to a single topic.
type KafkaProducer struct {
	producer       ProducerInterface
	topic          string
	flushTimeoutMs int
	timeout        time.Duration
}

var _ interfaces.KafkaPublisherInterface = (*KafkaProducer)(nil)

// NewKafkaProducer creates and returns a new KafkaProducer instance.
func NewKafkaProducer(cfg config.KafkaConfig) (*KafkaProducer, error) {
	kafkaConfig := &kafka.ConfigMap{
		"bootstrap.servers": cfg.Server,
		"client.id":         cfg.ClientID,
	}
	if cfg.SecurityProtocol != "" {
		_ = kafkaConfig.SetKey("security.protocol", cfg.SecurityProtocol)
	}
	if cfg.SASLMechanism != "" {
		_ = kafkaConfig.SetKey("sasl.mechanisms", cfg.SASLMechanism)
		_ = kafkaConfig.SetKey("sasl.username", cfg.SASLUsername)
		_ = kafkaConfig.SetKey("sasl.password", cfg.SASLPassword)
	}

	producer, err := kafka.NewProducer(kafkaConfig)
	if err != nil {
		return nil, fmt.Errorf(log_messages.ErrorKafkaProducerCreation, err)
	}
	logger.Info("Kafka producer created", zap.String("topic", cfg.StatusTopic))

	return newKafkaProducer(producer, cfg.StatusTopic, cfg.FlushTimeoutMs), nil
}

func newKafkaProducer(producer ProducerInterface, topic string, flushTimeoutMs int) *KafkaProducer {
	return &KafkaProducer{
		producer:       producer,
		topic:          topic,
		flushTimeoutMs: flushTimeoutMs,
		timeout:        deliveryTimeout,
	}
}

// PublishConversionStatus writes msg as JSON keyed by lead ID and waits for the delivery report.
func (kp *KafkaProducer) PublishConversionStatus(ctx context.Context, msg models.KafkaConversionStatusMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf(log_messages.ErrorKafkaSerialize, err)
	}

	// Not closed here: a late delivery report after a timeout would otherwise panic.
	deliveryChan := make(chan kafka.Event, 1)

	err = kp.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &kp.topic, Partition: kafka.PartitionAny},
		Key:            []byte(msg.LeadID),
		Value:          payload,
		Headers: []kafka.Header{
			{Key: "correlationId", Value: []byte(msg.CorrelationID)},
		},
	}, deliveryChan)
	if err != nil {
		logger.CtxError(ctx, "Failed to produce Kafka message", err, zap.String("leadId", msg.LeadID))
		return fmt.Errorf(log_messages.ErrorKafkaProduce, err)
	}

	select {
	case ev := <-deliveryChan:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected event type %T", ev)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf(log_messages.ErrorKafkaDelivery, m.TopicPartition.Error)
		}
	case <-time.After(kp.timeout):
		return fmt.Errorf("timeout waiting for Kafka delivery report")
	case <-ctx.Done():
		return ctx.Err()
	}

	logger.CtxDebug(ctx, "Kafka message delivered",
		zap.String("topic", kp.topic),
		zap.String("leadId", msg.LeadID),
	)
	return nil
}

// Close flushes and closes the Kafka producer.
func (kp *KafkaProducer) Close() {
	if remaining := kp.producer.Flush(kp.flushTimeoutMs); remaining > 0 {
		logger.Warn(log_messages.KafkaFlushIncomplete, zap.Int("remaining", remaining))
	}
	kp.producer.Close()
}
