package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/panoramablock/rwasync/internal/app/port"
	"github.com/panoramablock/rwasync/internal/domain/entity"
)

const notificationHistory = 100

type notifierImpl struct {
	mu      sync.Mutex
	entries []entity.Notification
	logger  *zap.Logger
}

// NewNotifier creates an in-memory notifier keeping a bounded history of
// recent operation notifications, newest first.
func NewNotifier(logger *zap.Logger) port.Notifier {
	return &notifierImpl{logger: logger.Named("notifier")}
}

func (n *notifierImpl) Pending(operation entity.OperationType, message string) entity.Notification {
	notification := entity.Notification{
		ID:        uuid.NewString(),
		Status:    entity.NotificationPending,
		Operation: string(operation),
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.entries = append(n.entries, notification)
	if len(n.entries) > notificationHistory {
		n.entries = n.entries[len(n.entries)-notificationHistory:]
	}
	return notification
}

func (n *notifierImpl) Succeed(id string, message, explorerURL string) {
	n.resolve(id, entity.NotificationSuccess, message, explorerURL)
}

func (n *notifierImpl) Fail(id string, message string) {
	n.resolve(id, entity.NotificationFailure, message, "")
}

func (n *notifierImpl) resolve(id string, status entity.NotificationStatus, message, explorerURL string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := range n.entries {
		if n.entries[i].ID != id {
			continue
		}
		n.entries[i].Status = status
		n.entries[i].Message = message
		n.entries[i].ExplorerURL = explorerURL
		return
	}
	n.logger.Warn("resolve for unknown notification", zap.String("id", id))
}

func (n *notifierImpl) Recent(limit int) []entity.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	if limit <= 0 || limit > len(n.entries) {
		limit = len(n.entries)
	}
	out := make([]entity.Notification, 0, limit)
	for i := len(n.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, n.entries[i])
	}
	return out
}
