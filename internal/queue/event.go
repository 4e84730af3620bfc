// Package queue defines message payloads exchanged over the message broker.
package queue

// ListChangedEvent is published after a favorites or watchlist mutation
// succeeds.  It is the explicit push that lets downstream consumers react to
// membership changes without polling the primary database.
type ListChangedEvent struct {
	ListKind   string `json:"list_kind"`            // "favorites" or "watchlist"
	Action     string `json:"action"`               // "added" or "removed"
	UserID     string `json:"user_id"`
	MovieID    string `json:"movie_id"`
	EntryID    string `json:"entry_id,omitempty"`   // set on add
	OccurredAt string `json:"occurred_at"`
}

// ReviewSubmittedEvent is published after a review upsert succeeds.
type ReviewSubmittedEvent struct {
	ReviewID   string `json:"review_id"`
	UserID     string `json:"user_id"`
	MovieID    string `json:"movie_id"`
	Rating     int    `json:"rating"`
	Created    bool   `json:"created"` // false when an existing review was updated
	OccurredAt string `json:"occurred_at"`
}
