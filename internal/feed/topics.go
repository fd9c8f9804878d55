package feed

const (
	TopicOrdersChanged   = "store.orders.changed"
	TopicPaymentsChanged = "store.payments.changed"
	TopicProductsChanged = "store.products.changed"
	TopicSalesChanged    = "store.sales.changed"
)

// TopicFor routes an event type to its collection topic.
func TopicFor(eventType string) string {
	switch eventType {
	case EventOrderCreated, EventOrderConfirmed, EventOrderCompleted,
		EventOrderCancelled, EventOrderPaymentApplied:
		return TopicOrdersChanged
	case EventPaymentSubmitted, EventPaymentConfirmed, EventPaymentRejected:
		return TopicPaymentsChanged
	case EventSaleRecorded:
		return TopicSalesChanged
	case EventStockAdjusted:
		return TopicProductsChanged
	}
	return ""
}

// Partition key = record id, so events of one record keep their order.
func PartitionKey(id string) []byte { return []byte(id) }
