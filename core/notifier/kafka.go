// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

// Package notifier publishes portal events to Kafka
package notifier

import (
	"context"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/relabs-tech/meshportal/core"
)

// KafkaNotifier implements core.Notifier on top of a kafka writer.
// Messages are keyed by resource so that events for one resource
// keep their relative order within a partition.
type KafkaNotifier struct {
	writer *kafka.Writer
}

// NewKafkaNotifier creates a notifier for the given brokers and topic.
// Brokers is a comma separated list of host:port pairs.
func NewKafkaNotifier(brokers string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(strings.Split(brokers, ",")...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 50 * time.Millisecond,
			Async:        true,
		},
	}
}

// Notify publishes the payload. Errors are logged, not returned; the
// portal never fails a request because the event bus is down.
func (k *KafkaNotifier) Notify(resource string, operation core.Operation, payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(resource),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "operation", Value: []byte(string(operation))},
		},
	})
	if err != nil {
		logrus.Warningf("kafka notify %s %s: %v", resource, operation, err)
	}
}

// Close flushes pending messages and closes the writer.
func (k *KafkaNotifier) Close() error {
	return k.writer.Close()
}
