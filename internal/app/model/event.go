package model

import "time"

type GiftBoxEventType string

const (
	EventGiftBoxCreated GiftBoxEventType = "gift_box.created"
	EventGiftBoxShipped GiftBoxEventType = "gift_box.shipped"
)

// GiftBoxEvent tells connected admin consoles that the request list changed
// and should be reloaded.
type GiftBoxEvent struct {
	Type       GiftBoxEventType `json:"type"`
	GiftBoxID  uint             `json:"gift_box_id"`
	UserID     uint             `json:"user_id"`
	Status     GiftBoxStatus    `json:"status"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// NewGiftBoxEvent snapshots box into an event of the given type
func NewGiftBoxEvent(t GiftBoxEventType, box *GiftBox) GiftBoxEvent {
	return GiftBoxEvent{
		Type:       t,
		GiftBoxID:  box.ID,
		UserID:     box.UserID,
		Status:     box.Status,
		OccurredAt: time.Now(),
	}
}
