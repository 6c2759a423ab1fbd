package port

import "github.com/panoramablock/rwasync/internal/domain/entity"

// Notifier delivers operation notifications to the user. A pending
// notification is later replaced in place by Succeed or Fail via its ID.
type Notifier interface {
	Pending(operation entity.OperationType, message string) entity.Notification
	Succeed(id string, message, explorerURL string)
	Fail(id string, message string)
	Recent(limit int) []entity.Notification
}
