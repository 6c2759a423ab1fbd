package port

import (
	"context"

	"github.com/panoramablock/rwasync/internal/domain/entity"
)

// ConnectOptions selects the signing method for a connection attempt and
// carries the injected-wallet snapshot the UI observed, if any.
type ConnectOptions struct {
	Method   entity.SigningMethod
	Injected *entity.InjectedWallets
}

// WalletProvider produces a stable account identity and a signing
// capability, abstracting over the extension and local-keypair variants.
type WalletProvider interface {
	// Connect establishes a session. For the extension variant this runs the
	// asynchronous permission handshake; for the local-keypair variant it
	// generates or loads a persisted keypair, funding and waiting for
	// activation when freshly generated.
	Connect(ctx context.Context, opts ConnectOptions) (entity.WalletSession, error)

	// Disconnect clears the in-memory session. The local-keypair variant
	// snapshots the secret into a backup slot before removing the active one.
	Disconnect() error

	// Sign signs a base64 transaction envelope with the active method.
	Sign(ctx context.Context, envelopeXDR string) (string, error)

	// Session returns the active session, if any.
	Session() (entity.WalletSession, bool)

	// Status reports the connection state machine position.
	Status() entity.ConnectionStatus

	// ImportWallet replaces the stored local keypair with one derived from
	// the given secret seed.
	ImportWallet(secret string) error

	// ExportWallet returns the stored local secret seed for backup.
	ExportWallet() (string, error)

	// Restore attempts to resume a previously persisted session. Records
	// older than seven days are discarded. Returns false when nothing was
	// restored.
	Restore(ctx context.Context) (bool, error)

	// DetectConflicts analyzes an injected-wallet snapshot for competing
	// extensions. Advisory only.
	DetectConflicts(injected entity.InjectedWallets) entity.ConflictReport
}

// ExtensionBridge is the browser wallet extension boundary. The service
// only constrains how it is called and how its failure modes surface.
type ExtensionBridge interface {
	IsInstalled(ctx context.Context) bool
	IsAllowed(ctx context.Context) (bool, error)
	SetAllowed(ctx context.Context) (bool, error)
	GetPublicKey(ctx context.Context) (string, error)
	SignTransaction(ctx context.Context, envelopeXDR, networkPassphrase string) (string, error)
}
