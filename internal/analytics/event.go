package analytics

import "time"

const (
	TopicLinkCreated = "link.created"
	TopicLinkVisited = "link.visited"
	TopicLinkDeleted = "link.deleted"
)

// LinkCreatedEvent is emitted when a link is shortened.
type LinkCreatedEvent struct {
	Code        string    `json:"code"`
	OriginalURL string    `json:"originalUrl"`
	OwnerEmail  string    `json:"ownerEmail"`
	CreatedAt   time.Time `json:"createdAt"`
	ClientIP    string    `json:"clientIp"`
	UserAgent   string    `json:"userAgent"`
}

// LinkVisitedEvent is emitted when a short link is resolved. The click
// increment rides on this event so the redirect response never waits for
// the write.
type LinkVisitedEvent struct {
	Code      string    `json:"code"`
	VisitedAt time.Time `json:"visitedAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
	Referrer  string    `json:"referrer"`
}

// LinkDeletedEvent is emitted when an owner deletes a link.
type LinkDeletedEvent struct {
	Code       string    `json:"code"`
	OwnerEmail string    `json:"ownerEmail"`
	DeletedAt  time.Time `json:"deletedAt"`
}
