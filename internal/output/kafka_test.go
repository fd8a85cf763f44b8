package output

import (
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestKafkaOutput_SendsKeyedMessage(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != models.TopicOrderEvents {
			return errors.New("unexpected topic " + msg.Topic)
		}
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "o1" {
			return errors.New("unexpected key " + string(key))
		}
		return nil
	})
	out := NewKafkaOutputWithProducer(producer, zaptest.NewLogger(t))

	require.NoError(t, out.WriteMessage(models.TopicOrderEvents, orderEvent(t, "o1")))
	require.NoError(t, out.Close())
}

func TestKafkaOutput_UnkeyedWhenNoOrderID(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Key != nil {
			return errors.New("expected no key")
		}
		return nil
	})
	out := NewKafkaOutputWithProducer(producer, zaptest.NewLogger(t))

	require.NoError(t, out.WriteMessage("audit_events", []byte(`plain text`)))
	require.NoError(t, out.Close())
}

func TestKafkaOutput_SendFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	out := NewKafkaOutputWithProducer(producer, zaptest.NewLogger(t))

	err := out.WriteMessage(models.TopicOrderEvents, orderEvent(t, "o1"))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, out.Close())

	assert.ErrorIs(t, out.WriteMessage(models.TopicOrderEvents, orderEvent(t, "o2")), errProducerClosed)
}
