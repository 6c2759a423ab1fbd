package entity

import "time"

// NotificationStatus is the lifecycle stage of an operation notification.
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSuccess NotificationStatus = "success"
	NotificationFailure NotificationStatus = "failure"
)

// Notification reports the outcome of a mutation operation to the user.
// A pending notification is emitted before any network call and later
// replaced (same ID) by a success or failure notification.
type Notification struct {
	ID          string             `json:"id"`
	Status      NotificationStatus `json:"status"`
	Operation   string             `json:"operation"`
	Message     string             `json:"message"`
	ExplorerURL string             `json:"explorerUrl,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}
