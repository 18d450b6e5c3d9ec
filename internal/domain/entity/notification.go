package entity

import (
	"time"
)

// MaxNotifications caps the per-user inbox. Older entries fall off the
// end when new ones are prepended.
const MaxNotifications = 50

type NotificationItem struct {
	ID   string    `json:"id" firestore:"id"`
	Text string    `json:"text" firestore:"text"`
	Read bool      `json:"read" firestore:"read"`
	Time time.Time `json:"time" firestore:"time"`
}

// NotificationList is the per-user inbox document, newest first.
type NotificationList struct {
	UserID    string             `json:"user_id" firestore:"userId"`
	Items     []NotificationItem `json:"items" firestore:"items"`
	UpdatedAt time.Time          `json:"updated_at" firestore:"updatedAt"`
}

// Prepend inserts item at the head and trims the list to MaxNotifications.
func (n *NotificationList) Prepend(item NotificationItem) {
	n.Items = append([]NotificationItem{item}, n.Items...)
	if len(n.Items) > MaxNotifications {
		n.Items = n.Items[:MaxNotifications]
	}
}
