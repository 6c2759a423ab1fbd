package provider

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
	"go.uber.org/zap"

	"github.com/panoramablock/rwasync/internal/app/port"
	"github.com/panoramablock/rwasync/internal/domain/entity"
	"github.com/panoramablock/rwasync/internal/infrastructure/localstore"
	"github.com/panoramablock/rwasync/internal/infrastructure/network"
)

const sessionStaleness = 7 * 24 * time.Hour

// ActivationConfig bounds the wait for a freshly funded account to appear
// on the network.
type ActivationConfig struct {
	Timeout      time.Duration
	PollInterval time.Duration
}

type walletProviderImpl struct {
	mu      sync.RWMutex
	status  entity.ConnectionStatus
	session *entity.WalletSession

	store      port.KeyValueStore
	horizon    port.HorizonGateway
	bridge     port.ExtensionBridge
	settings   port.SettingsProvider
	activation ActivationConfig
	logger     *zap.Logger
}

// NewWalletProvider creates a provider covering both signing methods.
// bridge may be nil when no extension transport is configured; extension
// connects then fail with a ConnectionError.
func NewWalletProvider(
	store port.KeyValueStore,
	horizon port.HorizonGateway,
	bridge port.ExtensionBridge,
	settings port.SettingsProvider,
	activation ActivationConfig,
	logger *zap.Logger,
) port.WalletProvider {
	return &walletProviderImpl{
		status:     entity.StatusDisconnected,
		store:      store,
		horizon:    horizon,
		bridge:     bridge,
		settings:   settings,
		activation: activation,
		logger:     logger.Named("wallet_provider"),
	}
}

func (p *walletProviderImpl) Connect(ctx context.Context, opts port.ConnectOptions) (entity.WalletSession, error) {
	p.mu.Lock()
	if p.status == entity.StatusConnecting {
		p.mu.Unlock()
		return entity.WalletSession{}, &entity.ConnectionError{Reason: "a connection attempt is already in progress"}
	}
	if p.session != nil {
		s := *p.session
		p.mu.Unlock()
		if opts.Method != "" && opts.Method != s.SigningMethod {
			return entity.WalletSession{}, &entity.ValidationError{
				Field:   "method",
				Message: "disconnect before switching signing methods",
			}
		}
		return s, nil
	}
	p.status = entity.StatusConnecting
	p.mu.Unlock()

	session, err := p.establish(ctx, opts)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.status = entity.StatusDisconnected
		p.session = nil
		return entity.WalletSession{}, err
	}
	p.status = entity.StatusConnected
	p.session = &session

	record := entity.ConnectionRecord{
		SigningMethod: session.SigningMethod,
		Address:       session.PublicKey,
		Network:       session.Network,
		ConnectedAt:   session.ConnectedAt.Unix(),
	}
	if serr := p.store.Save(localstore.KeyConnection, record); serr != nil {
		p.logger.Warn("failed to persist connection record", zap.Error(serr))
	}

	p.logger.Info("wallet connected",
		zap.String("method", string(session.SigningMethod)),
		zap.String("address", session.PublicKey),
	)
	return session, nil
}

func (p *walletProviderImpl) establish(ctx context.Context, opts port.ConnectOptions) (entity.WalletSession, error) {
	switch opts.Method {
	case entity.SigningMethodExtension:
		return p.connectExtension(ctx, opts)
	case entity.SigningMethodLocalKeypair:
		return p.connectLocal(ctx)
	default:
		return entity.WalletSession{}, &entity.ValidationError{Field: "method", Message: "unknown signing method"}
	}
}

func (p *walletProviderImpl) connectExtension(ctx context.Context, opts port.ConnectOptions) (entity.WalletSession, error) {
	if p.bridge == nil {
		return entity.WalletSession{}, &entity.ConnectionError{
			Reason:      "no extension bridge configured",
			Remediation: "connect with the local keypair method instead",
		}
	}
	if !p.bridge.IsInstalled(ctx) {
		remediation := "install the Freighter extension and reload"
		if opts.Injected != nil {
			if report := p.DetectConflicts(*opts.Injected); report.ConflictDetected {
				remediation = strings.Join(report.Recommendations, "; ")
			}
		}
		return entity.WalletSession{}, &entity.ConnectionError{
			Reason:      "wallet extension not detected",
			Remediation: remediation,
		}
	}

	allowed, err := p.bridge.IsAllowed(ctx)
	if err != nil {
		return entity.WalletSession{}, &entity.ConnectionError{Reason: "permission check failed: " + err.Error()}
	}
	if !allowed {
		granted, err := p.bridge.SetAllowed(ctx)
		if err != nil {
			return entity.WalletSession{}, &entity.ConnectionError{Reason: "permission request failed: " + err.Error()}
		}
		if !granted {
			return entity.WalletSession{}, &entity.ConnectionError{
				Reason:      "connection request was declined",
				Remediation: "approve the connection prompt in the extension",
			}
		}
	}

	publicKey, err := p.bridge.GetPublicKey(ctx)
	if err != nil {
		return entity.WalletSession{}, &entity.ConnectionError{Reason: "failed to read public key: " + err.Error()}
	}
	if _, err := keypair.ParseAddress(publicKey); err != nil {
		return entity.WalletSession{}, &entity.ConnectionError{Reason: "extension returned an invalid public key"}
	}

	return entity.WalletSession{
		PublicKey:     publicKey,
		SigningMethod: entity.SigningMethodExtension,
		Network:       p.settings.Current().Network,
		ConnectedAt:   time.Now().UTC(),
	}, nil
}

func (p *walletProviderImpl) connectLocal(ctx context.Context) (entity.WalletSession, error) {
	var stored entity.StoredWallet
	found, err := p.store.Load(localstore.KeyWallet, &stored)
	if err != nil {
		return entity.WalletSession{}, err
	}

	if !found {
		full, err := keypair.Random()
		if err != nil {
			return entity.WalletSession{}, &entity.ConnectionError{Reason: "keypair generation failed: " + err.Error()}
		}
		stored = entity.StoredWallet{
			PublicKey: full.Address(),
			Secret:    full.Seed(),
			CreatedAt: time.Now().Unix(),
		}
		if err := p.store.Save(localstore.KeyWallet, stored); err != nil {
			return entity.WalletSession{}, err
		}
		p.logger.Info("generated new local wallet", zap.String("address", stored.PublicKey))
	}

	if !stored.Funded {
		p.fundAndAwait(ctx, stored.PublicKey)
		// Funding is attempted exactly once per wallet, regardless of
		// whether activation was observed in time.
		stored.Funded = true
		if err := p.store.Save(localstore.KeyWallet, stored); err != nil {
			p.logger.Warn("failed to persist funded flag", zap.Error(err))
		}
	}

	return entity.WalletSession{
		PublicKey:     stored.PublicKey,
		SigningMethod: entity.SigningMethodLocalKeypair,
		Network:       p.settings.Current().Network,
		ConnectedAt:   time.Now().UTC(),
	}, nil
}

// fundAndAwait requests friendbot funding and polls until the account is
// visible or the activation window closes. Failures are logged, never
// returned: an unfunded session is still a usable session.
func (p *walletProviderImpl) fundAndAwait(ctx context.Context, address string) {
	if err := p.horizon.FundWithFriendbot(ctx, address); err != nil {
		p.logger.Warn("friendbot funding failed", zap.String("address", address), zap.Error(err))
		return
	}

	attempts := uint(p.activation.Timeout / p.activation.PollInterval)
	if attempts == 0 {
		attempts = 1
	}
	err := retry.Do(
		func() error {
			exists, err := p.horizon.AccountExists(ctx, address)
			if err != nil {
				return err
			}
			if !exists {
				return &entity.NetworkError{Operation: "account_activation", Err: context.DeadlineExceeded}
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(p.activation.PollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		p.logger.Warn("account did not activate within the wait window",
			zap.String("address", address),
			zap.Duration("timeout", p.activation.Timeout),
		)
		return
	}
	p.logger.Info("account activated", zap.String("address", address))
}

func (p *walletProviderImpl) Disconnect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session != nil && p.session.SigningMethod == entity.SigningMethodLocalKeypair {
		var stored entity.StoredWallet
		found, err := p.store.Load(localstore.KeyWallet, &stored)
		if err == nil && found {
			backup := entity.WalletBackup{
				StoredWallet: stored,
				ClearedAt:    time.Now().Unix(),
			}
			if err := p.store.Save(localstore.KeyWalletBackup, backup); err != nil {
				// Refuse to destroy key material that could not be backed up.
				return err
			}
			if err := p.store.Clear(localstore.KeyWallet); err != nil {
				return err
			}
		}
	}

	if err := p.store.Clear(localstore.KeyConnection); err != nil {
		p.logger.Warn("failed to clear connection record", zap.Error(err))
	}

	p.session = nil
	p.status = entity.StatusDisconnected
	p.logger.Info("wallet disconnected")
	return nil
}

func (p *walletProviderImpl) Sign(ctx context.Context, envelopeXDR string) (string, error) {
	p.mu.RLock()
	session := p.session
	p.mu.RUnlock()

	if session == nil {
		return "", &entity.SigningError{Reason: "no active wallet session"}
	}

	passphrase := network.Passphrase(session.Network)

	switch session.SigningMethod {
	case entity.SigningMethodExtension:
		signed, err := p.bridge.SignTransaction(ctx, envelopeXDR, passphrase)
		if err != nil {
			return "", &entity.SigningError{Reason: err.Error()}
		}
		return signed, nil
	case entity.SigningMethodLocalKeypair:
		return p.signLocal(envelopeXDR, passphrase)
	default:
		return "", &entity.SigningError{Reason: "unknown signing method"}
	}
}

func (p *walletProviderImpl) signLocal(envelopeXDR, passphrase string) (string, error) {
	var stored entity.StoredWallet
	found, err := p.store.Load(localstore.KeyWallet, &stored)
	if err != nil || !found {
		return "", &entity.SigningError{Reason: "local wallet not found"}
	}
	full, err := keypair.ParseFull(stored.Secret)
	if err != nil {
		return "", &entity.SigningError{Reason: "stored secret is not a valid seed"}
	}

	generic, err := txnbuild.TransactionFromXDR(envelopeXDR)
	if err != nil {
		return "", &entity.SigningError{Reason: "malformed transaction envelope"}
	}
	tx, ok := generic.Transaction()
	if !ok {
		return "", &entity.SigningError{Reason: "fee bump envelopes are not supported"}
	}
	signed, err := tx.Sign(passphrase, full)
	if err != nil {
		return "", &entity.SigningError{Reason: err.Error()}
	}
	return signed.Base64()
}

func (p *walletProviderImpl) Session() (entity.WalletSession, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.session == nil {
		return entity.WalletSession{}, false
	}
	return *p.session, true
}

func (p *walletProviderImpl) Status() entity.ConnectionStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

func (p *walletProviderImpl) ImportWallet(secret string) error {
	full, err := keypair.ParseFull(secret)
	if err != nil {
		return &entity.ValidationError{Field: "secret", Message: "not a valid secret seed"}
	}

	// An import replaces the active slot, so the current wallet is
	// snapshotted to the backup slot first, same as Disconnect.
	var existing entity.StoredWallet
	found, err := p.store.Load(localstore.KeyWallet, &existing)
	if err != nil {
		return err
	}
	if found {
		backup := entity.WalletBackup{
			StoredWallet: existing,
			ClearedAt:    time.Now().Unix(),
		}
		if err := p.store.Save(localstore.KeyWalletBackup, backup); err != nil {
			// Refuse to destroy key material that could not be backed up.
			return err
		}
	}

	stored := entity.StoredWallet{
		PublicKey: full.Address(),
		Secret:    full.Seed(),
		CreatedAt: time.Now().Unix(),
		// Imported wallets are assumed to exist on the network already.
		Funded: true,
	}
	if err := p.store.Save(localstore.KeyWallet, stored); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session != nil && p.session.SigningMethod == entity.SigningMethodLocalKeypair {
		p.session.PublicKey = stored.PublicKey
	}
	p.logger.Info("wallet imported", zap.String("address", stored.PublicKey))
	return nil
}

func (p *walletProviderImpl) ExportWallet() (string, error) {
	var stored entity.StoredWallet
	found, err := p.store.Load(localstore.KeyWallet, &stored)
	if err != nil {
		return "", err
	}
	if !found {
		return "", &entity.SigningError{Reason: "no local wallet to export"}
	}
	return stored.Secret, nil
}

func (p *walletProviderImpl) Restore(ctx context.Context) (bool, error) {
	var record entity.ConnectionRecord
	found, err := p.store.Load(localstore.KeyConnection, &record)
	if err != nil || !found {
		return false, err
	}

	if time.Since(time.Unix(record.ConnectedAt, 0)) > sessionStaleness {
		p.logger.Info("discarding stale connection record", zap.String("address", record.Address))
		if err := p.store.Clear(localstore.KeyConnection); err != nil {
			p.logger.Warn("failed to clear stale connection record", zap.Error(err))
		}
		return false, nil
	}

	// Only the local-keypair method can resume without user interaction;
	// extension sessions need a fresh handshake.
	if record.SigningMethod != entity.SigningMethodLocalKeypair {
		return false, nil
	}

	var stored entity.StoredWallet
	found, err = p.store.Load(localstore.KeyWallet, &stored)
	if err != nil || !found {
		return false, err
	}
	if stored.PublicKey != record.Address {
		p.logger.Warn("connection record does not match stored wallet, skipping restore")
		return false, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.session = &entity.WalletSession{
		PublicKey:     stored.PublicKey,
		SigningMethod: entity.SigningMethodLocalKeypair,
		Network:       record.Network,
		ConnectedAt:   time.Unix(record.ConnectedAt, 0).UTC(),
	}
	p.status = entity.StatusConnected
	p.logger.Info("session restored", zap.String("address", stored.PublicKey))
	return true, nil
}

func (p *walletProviderImpl) DetectConflicts(injected entity.InjectedWallets) entity.ConflictReport {
	report := entity.ConflictReport{
		Browser:            browserFromUserAgent(injected.UserAgent),
		DetectedExtensions: []string{},
		Recommendations:    []string{},
	}

	if injected.HasFreighter {
		report.DetectedExtensions = append(report.DetectedExtensions, "Freighter")
	}
	if injected.HasMetaMask {
		report.DetectedExtensions = append(report.DetectedExtensions, "MetaMask")
	}
	if injected.HasBraveWallet {
		report.DetectedExtensions = append(report.DetectedExtensions, "Brave Wallet")
	}
	if injected.HasPhantom {
		report.DetectedExtensions = append(report.DetectedExtensions, "Phantom")
	}

	if injected.HasBraveWallet {
		report.ConflictDetected = true
		report.PrimaryConflict = "Brave Wallet"
		report.Recommendations = append(report.Recommendations,
			"disable Brave Wallet in brave://settings/web3",
			"set the default Ethereum and Solana wallet to 'Extensions'",
			"restart the browser after changing the setting",
		)
	} else if injected.HasMetaMask && injected.HasFreighter {
		report.ConflictDetected = true
		report.PrimaryConflict = "MetaMask"
		report.Recommendations = append(report.Recommendations,
			"disable MetaMask while connecting a Stellar wallet",
		)
	}

	if !injected.HasFreighter {
		report.Recommendations = append(report.Recommendations,
			"install the Freighter extension from freighter.app",
		)
	}
	return report
}

func browserFromUserAgent(ua string) string {
	lower := strings.ToLower(ua)
	switch {
	case strings.Contains(lower, "brave"):
		return "Brave"
	case strings.Contains(lower, "edg/"):
		return "Edge"
	case strings.Contains(lower, "firefox"):
		return "Firefox"
	case strings.Contains(lower, "chrome"):
		return "Chrome"
	case strings.Contains(lower, "safari"):
		return "Safari"
	default:
		return "Unknown"
	}
}
