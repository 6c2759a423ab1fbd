package port

import (
	"context"

	"github.com/panoramablock/rwasync/internal/domain/entity"
)

// ChainExecutor performs the chain-mutating half of an operation. Mutation
// services depend only on this interface so the mock integration boundary
// can be swapped for a live implementation without touching call sites.
type ChainExecutor interface {
	Execute(ctx context.Context, req entity.OperationRequest) (entity.OperationResult, error)
}
