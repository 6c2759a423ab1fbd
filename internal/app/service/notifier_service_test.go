package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/panoramablock/rwasync/internal/domain/entity"
)

func TestNotifierLifecycle(t *testing.T) {
	n := NewNotifier(zap.NewNop())

	pending := n.Pending(entity.OpSupply, "supply submitted")
	assert.NotEmpty(t, pending.ID)
	assert.Equal(t, entity.NotificationPending, pending.Status)

	n.Succeed(pending.ID, "supply confirmed", "https://example.org/tx/abc")

	recent := n.Recent(10)
	require.Len(t, recent, 1)
	assert.Equal(t, pending.ID, recent[0].ID, "resolution replaces in place")
	assert.Equal(t, entity.NotificationSuccess, recent[0].Status)
	assert.Equal(t, "https://example.org/tx/abc", recent[0].ExplorerURL)
}

func TestNotifierFailure(t *testing.T) {
	n := NewNotifier(zap.NewNop())

	pending := n.Pending(entity.OpBorrow, "borrow submitted")
	n.Fail(pending.ID, "insufficient funds")

	recent := n.Recent(10)
	require.Len(t, recent, 1)
	assert.Equal(t, entity.NotificationFailure, recent[0].Status)
	assert.Equal(t, "insufficient funds", recent[0].Message)
	assert.Empty(t, recent[0].ExplorerURL)
}

func TestNotifierRecentOrderAndLimit(t *testing.T) {
	n := NewNotifier(zap.NewNop())

	first := n.Pending(entity.OpSupply, "first")
	second := n.Pending(entity.OpBorrow, "second")
	third := n.Pending(entity.OpRepay, "third")

	recent := n.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, third.ID, recent[0].ID, "newest first")
	assert.Equal(t, second.ID, recent[1].ID)

	all := n.Recent(0)
	require.Len(t, all, 3)
	assert.Equal(t, first.ID, all[2].ID)
}

func TestNotifierResolveUnknownIDIsNoop(t *testing.T) {
	n := NewNotifier(zap.NewNop())
	n.Succeed("missing", "done", "")
	assert.Empty(t, n.Recent(10))
}
