package publisher

// Publisher represents a service for publishing recorded history rows
type Publisher interface {
	// Publish publishes a message under the given key
	Publish(key string, message []byte) error

	// Trim trims the stream to the configured maximum length
	Trim() error

	// Close closes the publisher connection
	Close() error
}
