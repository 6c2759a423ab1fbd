package entity

import "time"

// SigningMethod identifies how a wallet session signs transactions.
type SigningMethod string

const (
	// SigningMethodExtension signs through a browser wallet extension bridge.
	SigningMethodExtension SigningMethod = "extension"
	// SigningMethodLocalKeypair signs with a locally generated and persisted keypair.
	SigningMethodLocalKeypair SigningMethod = "local-keypair"
)

// ConnectionStatus represents the wallet provider state machine.
type ConnectionStatus string

const (
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusConnecting   ConnectionStatus = "connecting"
	StatusConnected    ConnectionStatus = "connected"
)

// WalletSession is the active account identity. Exactly one signing method
// is active at a time; switching methods requires disconnect + reconnect.
type WalletSession struct {
	PublicKey     string        `json:"publicKey"`
	SigningMethod SigningMethod `json:"signingMethod"`
	Network       string        `json:"network"`
	ConnectedAt   time.Time     `json:"connectedAt"`
}

// StoredWallet is the persisted form of a locally generated keypair.
// The secret seed is the only durable sensitive state in the system.
type StoredWallet struct {
	PublicKey string `json:"publicKey"`
	Secret    string `json:"secret"`
	CreatedAt int64  `json:"createdAt"`
	Funded    bool   `json:"funded"`
}

// WalletBackup is a snapshot of a StoredWallet taken before the active
// slot is cleared, so logout is non-destructive of key material.
type WalletBackup struct {
	StoredWallet
	ClearedAt int64 `json:"clearedAt"`
}

// ConnectionRecord is persisted session metadata used to restore a
// session on startup. Records older than seven days are treated as stale.
type ConnectionRecord struct {
	SigningMethod SigningMethod `json:"signingMethod"`
	Address       string        `json:"address"`
	Network       string        `json:"network"`
	ConnectedAt   int64         `json:"connectedAt"`
}

// InjectedWallets is a snapshot of wallet namespaces the UI observed in
// the page at connect time. It feeds conflict detection only.
type InjectedWallets struct {
	HasFreighter   bool   `json:"hasFreighter"`
	HasMetaMask    bool   `json:"hasMetaMask"`
	HasBraveWallet bool   `json:"hasBraveWallet"`
	HasPhantom     bool   `json:"hasPhantom"`
	UserAgent      string `json:"userAgent"`
}

// ConflictReport is an advisory diagnostic about competing wallet
// extensions. It never blocks a connection attempt.
type ConflictReport struct {
	Browser            string   `json:"browser"`
	ConflictDetected   bool     `json:"conflictDetected"`
	PrimaryConflict    string   `json:"primaryConflict,omitempty"`
	DetectedExtensions []string `json:"detectedExtensions"`
	Recommendations    []string `json:"recommendations"`
}
