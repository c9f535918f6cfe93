package orders

const (
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status_changed"
	TopicOrderDispatched    = "order.dispatched"
)

// PartitionKey keys events by order number so all events for one
// order stay ordered within a partition.
func PartitionKey(orderNumber string) []byte { return []byte(orderNumber) }
