package service

// EventPublisher fans inventory changes out to live clients.
type EventPublisher interface {
	Publish(eventType string, payload map[string]interface{})
}

// Event types
const (
	EventPartRecordsUpdate = "part_records_update"
	EventPartUpdate        = "part_update"
)

type nopPublisher struct{}

func (nopPublisher) Publish(string, map[string]interface{}) {}

// NopPublisher discards events. Used by the CLI and tests.
var NopPublisher EventPublisher = nopPublisher{}
