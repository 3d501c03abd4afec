// Package queue defines message payloads exchanged over the message
// broker and the background consumer that drains them.
package queue

// ReviewCreatedEvent is published after a review is stored. It carries
// enough for downstream consumers to log or notify without querying the
// primary database.
type ReviewCreatedEvent struct {
	ReviewID     uint64 `json:"review_id"`
	BusinessID   uint64 `json:"business_id"`
	BusinessName string `json:"business_name"`
	UserID       uint64 `json:"user_id"`
	Review       string `json:"review"`
	CreatedAt    string `json:"created_at"`
}

// ReviewQueueName is the durable queue reviews are published to.
const ReviewQueueName = "review.created"
