package feed

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/donmendez/go-retail-store/internal/kafka"
)

// Dispatcher is what the workflow services publish change events through.
type Dispatcher interface {
	Dispatch(ctx context.Context, eventType, correlationID string, payload any)
}

// KafkaDispatcher wraps one producer per collection topic.
type KafkaDispatcher struct {
	Producers   map[string]*kafkax.Producer // topic -> producer
	ServiceName string
}

func NewKafkaDispatcher(brokers []string, serviceName string, buf int) *KafkaDispatcher {
	topics := []string{TopicOrdersChanged, TopicPaymentsChanged, TopicProductsChanged, TopicSalesChanged}
	ps := make(map[string]*kafkax.Producer, len(topics))
	for _, t := range topics {
		ps[t] = kafkax.NewProducer(brokers, t, buf)
	}
	return &KafkaDispatcher{Producers: ps, ServiceName: serviceName}
}

func (d *KafkaDispatcher) Start(ctx context.Context) {
	for _, p := range d.Producers {
		p.Start(ctx)
	}
}

func (d *KafkaDispatcher) Dispatch(ctx context.Context, eventType, correlationID string, payload any) {
	topic := TopicFor(eventType)
	p, ok := d.Producers[topic]
	if !ok {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      d.ServiceName,
		TraceID:       middleware.GetReqID(ctx),
		CorrelationID: correlationID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(PartitionKey(correlationID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (d *KafkaDispatcher) Close() {
	for _, p := range d.Producers {
		p.Close()
	}
	for _, p := range d.Producers {
		p.WaitClosed()
	}
}
