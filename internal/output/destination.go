// Package output delivers order events to a configured sink: the console,
// partitioned JSON or Parquet files (local or S3), Kafka, RabbitMQ or Postgres
// tables.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/chrisdamba/foodcart/internal/models"
	"go.uber.org/zap"
)

type Destination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

// New picks the destination named by cfg. Brokers take precedence over files,
// and the console is the fallback when nothing else is configured.
func New(cfg *models.Config, logger *zap.Logger) (Destination, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		dest Destination
		err  error
	)
	switch {
	case cfg.KafkaEnabled:
		dest, err = NewKafkaOutput(cfg.KafkaBrokerList, logger)
	case cfg.RabbitMQEnabled:
		dest, err = NewRabbitMQOutput(cfg.RabbitMQURL, cfg.RabbitMQExchange, logger)
	case cfg.OutputFormat == "postgres":
		dest, err = NewPostgresOutput(context.Background(), cfg.Database.URL, logger)
	case cfg.OutputPath != "" && cfg.OutputFormat == "parquet":
		dest, err = NewParquetOutput(cfg, logger)
	case cfg.OutputPath != "" && cfg.OutputFormat == "json":
		dest = NewJSONOutput(cfg.OutputPath, cfg.OutputFolder)
	case cfg.OutputPath != "":
		err = fmt.Errorf("unsupported output format: %s", cfg.OutputFormat)
	default:
		dest = NewConsoleOutput(os.Stdout)
	}
	if err != nil {
		return nil, err
	}
	return dest, nil
}

// partitionPath returns the hive-style partition for the event's unix
// "timestamp" field.
func partitionPath(msg []byte) (string, map[string]interface{}, error) {
	var event map[string]interface{}
	if err := json.Unmarshal(msg, &event); err != nil {
		return "", nil, err
	}

	timestamp, ok := event["timestamp"].(float64)
	if !ok {
		return "", nil, fmt.Errorf("invalid timestamp")
	}

	eventTime := time.Unix(int64(timestamp), 0).UTC()
	year, month, day := eventTime.Date()
	return fmt.Sprintf("year=%d/month=%02d/day=%02d/hour=%02d", year, month, day, eventTime.Hour()), event, nil
}
