package orders

const (
	TopicOrderConfirmed = "order.confirmed"
)

// Partition key = session id, supaya semua event 1 session maintain urutan.
func PartitionKey(sessionID string) []byte { return []byte(sessionID) }
