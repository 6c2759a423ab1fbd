package port

import (
	"context"

	"github.com/panoramablock/rwasync/internal/domain/entity"
)

// HorizonGateway is the Horizon API boundary: account state, history and
// transaction submission.
type HorizonGateway interface {
	// AccountBalances loads the balance lines of an account, without RWA
	// categorization applied.
	AccountBalances(ctx context.Context, address string) ([]entity.AssetBalance, error)

	// AccountExists reports whether the account is active on the network.
	AccountExists(ctx context.Context, address string) (bool, error)

	// Transactions lists recent transactions of an account with operation
	// summaries, newest first.
	Transactions(ctx context.Context, address string, limit int) ([]entity.WalletTransaction, error)

	// SubmitTransactionXDR broadcasts a signed envelope and returns its hash.
	SubmitTransactionXDR(ctx context.Context, envelopeXDR string) (string, error)

	// FundWithFriendbot requests testnet funding for a fresh account.
	// Best-effort; callers treat failure as non-fatal.
	FundWithFriendbot(ctx context.Context, address string) error
}

// SorobanGateway is the Soroban RPC boundary for contract reads. Errors
// surface raw; fallback substitution is the fetcher layer's concern.
type SorobanGateway interface {
	PoolAddresses(ctx context.Context) ([]string, error)
	PoolInfo(ctx context.Context, poolAddress string) (entity.PoolData, error)
	ContractInfo(ctx context.Context) (entity.ContractInfo, error)
	UserPosition(ctx context.Context, poolAddress, userAddress string) (entity.UserPosition, error)
}
