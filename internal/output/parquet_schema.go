package output

import (
	"encoding/json"
	"fmt"

	"github.com/chrisdamba/foodcart/internal/models"
)

type orderRecord struct {
	EventType     string  `parquet:"name=event_type, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	OrderID       string  `parquet:"name=order_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	RestaurantID  string  `parquet:"name=restaurant_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	OrderType     string  `parquet:"name=order_type, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	ItemCount     int32   `parquet:"name=item_count, type=INT32"`
	LineCount     int32   `parquet:"name=line_count, type=INT32"`
	Subtotal      float64 `parquet:"name=subtotal, type=DOUBLE"`
	Discount      float64 `parquet:"name=discount, type=DOUBLE"`
	Total         float64 `parquet:"name=total, type=DOUBLE"`
	TotalCents    int64   `parquet:"name=total_cents, type=INT64"`
	PaymentMethod string  `parquet:"name=payment_method, type=BYTE_ARRAY, convertedtype=UTF8"`
	Timestamp     int64   `parquet:"name=timestamp, type=INT64"`
}

// recordSchema maps a topic to the row type written for it and a decoder
// from the JSON message to that row.
type recordSchema struct {
	prototype interface{}
	decode    func(msg []byte) (interface{}, error)
}

var schemas = map[string]recordSchema{
	models.TopicOrderEvents: {
		prototype: new(orderRecord),
		decode:    decodeOrderRecord,
	},
}

func schemaFor(topic string) (recordSchema, error) {
	sc, ok := schemas[topic]
	if !ok {
		return recordSchema{}, fmt.Errorf("no parquet schema for topic %s", topic)
	}
	return sc, nil
}

func decodeOrderRecord(msg []byte) (interface{}, error) {
	var event models.OrderPlacedEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return nil, err
	}
	return orderRecord{
		EventType:     event.EventType,
		OrderID:       event.OrderID,
		RestaurantID:  event.RestaurantID,
		OrderType:     string(event.OrderType),
		ItemCount:     int32(event.ItemCount),
		LineCount:     int32(event.LineCount),
		Subtotal:      event.Subtotal,
		Discount:      event.Discount,
		Total:         event.Total,
		TotalCents:    event.TotalCents,
		PaymentMethod: event.PaymentMethod,
		Timestamp:     event.Timestamp,
	}, nil
}
