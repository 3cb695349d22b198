package events

// Topic constants for domain events emitted by the platform.
const (
	TopicCartUpdated       = "cart.updated"
	TopicCheckoutCompleted = "checkout.completed"
	TopicMetalsRefreshed   = "metals.refreshed"
)

// DefaultTopics returns the canonical list of topics that support notifications.
func DefaultTopics() []string {
	return []string{
		TopicCartUpdated,
		TopicCheckoutCompleted,
		TopicMetalsRefreshed,
	}
}
