package dto

const (
	EventProductUpserted = "product_upserted"
	EventProductDeleted  = "product_deleted"
)

type KafkaMessage struct {
	EventType string      `json:"event_type"`
	Data      interface{} `json:"data"`
}

type ProductEvent struct {
	ID int64 `json:"id"`
}
