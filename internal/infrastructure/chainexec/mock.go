package chainexec

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/panoramablock/rwasync/internal/app/port"
	"github.com/panoramablock/rwasync/internal/domain/entity"
)

// MockExecutor acknowledges operations without broadcasting anything.
// It produces deterministic hashes so callers and tests can correlate
// results with requests.
type MockExecutor struct {
	logger *zap.Logger
	seq    atomic.Uint64
}

func NewMockExecutor(logger *zap.Logger) *MockExecutor {
	return &MockExecutor{logger: logger.Named("mock_executor")}
}

func (m *MockExecutor) Execute(ctx context.Context, req entity.OperationRequest) (entity.OperationResult, error) {
	if err := ctx.Err(); err != nil {
		return entity.OperationResult{}, err
	}

	n := m.seq.Add(1)
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%s|%d", req.Type, req.From, req.PoolAddress, req.TokenAddress, n)))
	hash := hex.EncodeToString(sum[:])

	m.logger.Info("mock operation executed",
		zap.String("type", string(req.Type)),
		zap.String("from", req.From),
		zap.String("tx_hash", hash),
	)

	return entity.OperationResult{
		TxHash:      hash,
		Mock:        true,
		SubmittedAt: time.Now().UTC(),
	}, nil
}

var _ port.ChainExecutor = (*MockExecutor)(nil)
