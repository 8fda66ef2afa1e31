package schema

const ClientEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "client_event",
	"fields" : [
		{"name": "event_type", "type": "string"},
		{"name": "user_id", "type": "string"},
		{"name": "product_id", "type": "string"},
		{"name": "query", "type": "string"},
		{"name": "at_ms", "type": "long"}
	]
}`

type ClientEventV1 struct {
	EventType string `avro:"event_type"`
	UserID    string `avro:"user_id"`
	ProductID string `avro:"product_id"`
	Query     string `avro:"query"`
	AtMillis  int64  `avro:"at_ms"`
}
