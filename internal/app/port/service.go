package port

import (
	"context"

	"github.com/panoramablock/rwasync/internal/domain/entity"
)

// ChainDataService reads current on-chain state through a freshness-bounded
// cache. Every operation takes a force flag; when set, the cached entry is
// bypassed and refetched.
type ChainDataService interface {
	WalletAssets(ctx context.Context, address string, force bool) ([]entity.AssetBalance, error)
	BalanceSummary(ctx context.Context, address string, force bool) (entity.BalanceSummary, error)
	Transactions(ctx context.Context, address string, limit int, force bool) ([]entity.WalletTransaction, error)
	Pools(ctx context.Context, force bool) ([]entity.PoolData, error)
	PoolInfo(ctx context.Context, poolAddress string, force bool) (entity.PoolData, error)
	PoolStats(ctx context.Context, force bool) (entity.PoolStats, error)
	ContractInfo(ctx context.Context, force bool) (entity.ContractInfo, error)
	UserPosition(ctx context.Context, poolAddress, userAddress string, force bool) (entity.UserPosition, error)

	// RecentTokens lists the locally deployed tokens and pools.
	// ClearRecentTokens wipes the registry and the pool caches built on it.
	RecentTokens() ([]entity.RecentToken, error)
	ClearRecentTokens() error

	// PurgeAddress drops every cached entry keyed by the departed address so
	// no stale personal data lingers for a new session.
	PurgeAddress(address string)

	// InvalidatePool drops the cached position and balance entries affected
	// by a mutation against the given pool.
	InvalidatePool(poolAddress, userAddress string)
}

// LendingParams carries a user-facing lending mutation before validation.
// Amount is a decimal string; Decimals is the target asset's declared
// precision used for base-unit conversion.
type LendingParams struct {
	PoolAddress  string
	TokenAddress string
	Amount       string
	Decimals     int32
}

// DeployParams carries a token or pool deployment request.
type DeployParams struct {
	Name   string
	Symbol string
	Oracle string
}

// MutationService performs state-changing operations and communicates
// outcome through the Notifier. Every operation requires an active wallet
// session and short-circuits without network I/O when there is none.
type MutationService interface {
	Supply(ctx context.Context, p LendingParams) (string, error)
	Borrow(ctx context.Context, p LendingParams) (string, error)
	Repay(ctx context.Context, p LendingParams) (string, error)
	Withdraw(ctx context.Context, p LendingParams) (string, error)
	DeployToken(ctx context.Context, p DeployParams) (string, error)
	DeployPool(ctx context.Context, p DeployParams) (string, error)
}
