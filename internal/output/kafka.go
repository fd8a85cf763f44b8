package output

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

var errProducerClosed = errors.New("kafka producer is closed")

type KafkaOutput struct {
	producer sarama.SyncProducer
	logger   *zap.Logger
}

func NewKafkaOutput(brokers string, logger *zap.Logger) (*KafkaOutput, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // required by SyncProducer
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	brokerList := strings.Split(brokers, ",")
	producer, err := sarama.NewSyncProducer(brokerList, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	logger.Info("kafka producer created", zap.Strings("brokers", brokerList))
	return NewKafkaOutputWithProducer(producer, logger), nil
}

func NewKafkaOutputWithProducer(producer sarama.SyncProducer, logger *zap.Logger) *KafkaOutput {
	return &KafkaOutput{producer: producer, logger: logger}
}

// WriteMessage keys each message by its order id when present so every event
// of one order lands on the same partition.
func (k *KafkaOutput) WriteMessage(topic string, msg []byte) error {
	if k.producer == nil {
		return errProducerClosed
	}

	pm := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(msg),
	}
	if _, event, err := partitionPath(msg); err == nil {
		if id, ok := event["order_id"].(string); ok && id != "" {
			pm.Key = sarama.StringEncoder(id)
		}
	}

	partition, offset, err := k.producer.SendMessage(pm)
	if err != nil {
		k.logger.Warn("failed to send message", zap.String("topic", topic), zap.Error(err))
		return err
	}
	k.logger.Debug("message sent",
		zap.String("topic", topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

func (k *KafkaOutput) Close() error {
	if k.producer == nil {
		return nil
	}
	err := k.producer.Close()
	k.producer = nil
	return err
}
