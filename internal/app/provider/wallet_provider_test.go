package provider

import (
	"context"
	"testing"
	"time"

	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/panoramablock/rwasync/internal/app/port"
	"github.com/panoramablock/rwasync/internal/domain/entity"
	"github.com/panoramablock/rwasync/internal/infrastructure/localstore"
)

type fakeHorizon struct {
	fundCalls    int
	accountAlive bool
}

func (f *fakeHorizon) AccountBalances(ctx context.Context, address string) ([]entity.AssetBalance, error) {
	return nil, nil
}

func (f *fakeHorizon) AccountExists(ctx context.Context, address string) (bool, error) {
	return f.accountAlive, nil
}

func (f *fakeHorizon) Transactions(ctx context.Context, address string, limit int) ([]entity.WalletTransaction, error) {
	return nil, nil
}

func (f *fakeHorizon) SubmitTransactionXDR(ctx context.Context, envelopeXDR string) (string, error) {
	return "", nil
}

func (f *fakeHorizon) FundWithFriendbot(ctx context.Context, address string) error {
	f.fundCalls++
	return nil
}

type fakeBridge struct {
	installed bool
	allowed   bool
	grants    bool
	publicKey string
}

func (f *fakeBridge) IsInstalled(ctx context.Context) bool        { return f.installed }
func (f *fakeBridge) IsAllowed(ctx context.Context) (bool, error) { return f.allowed, nil }
func (f *fakeBridge) SetAllowed(ctx context.Context) (bool, error) {
	f.allowed = f.grants
	return f.grants, nil
}
func (f *fakeBridge) GetPublicKey(ctx context.Context) (string, error) { return f.publicKey, nil }
func (f *fakeBridge) SignTransaction(ctx context.Context, envelopeXDR, networkPassphrase string) (string, error) {
	return "signed:" + envelopeXDR, nil
}

type staticSettings struct{ s entity.Settings }

func (p staticSettings) Current() entity.Settings { return p.s }

func testActivation() ActivationConfig {
	return ActivationConfig{Timeout: 10 * time.Millisecond, PollInterval: 5 * time.Millisecond}
}

func newTestProvider(t *testing.T, horizon port.HorizonGateway, bridge port.ExtensionBridge) (port.WalletProvider, port.KeyValueStore) {
	t.Helper()
	store := localstore.New(t.TempDir(), zap.NewNop())
	p := NewWalletProvider(store, horizon, bridge, staticSettings{entity.Settings{Network: "testnet"}}, testActivation(), zap.NewNop())
	return p, store
}

func TestConnectLocalGeneratesKeypair(t *testing.T) {
	horizon := &fakeHorizon{accountAlive: true}
	p, store := newTestProvider(t, horizon, nil)

	session, err := p.Connect(context.Background(), port.ConnectOptions{Method: entity.SigningMethodLocalKeypair})
	require.NoError(t, err)

	assert.Len(t, session.PublicKey, 56)
	assert.Equal(t, byte('G'), session.PublicKey[0])
	assert.Equal(t, entity.SigningMethodLocalKeypair, session.SigningMethod)
	assert.Equal(t, entity.StatusConnected, p.Status())
	assert.Equal(t, 1, horizon.fundCalls)

	var stored entity.StoredWallet
	found, err := store.Load(localstore.KeyWallet, &stored)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, session.PublicKey, stored.PublicKey)
	assert.True(t, stored.Funded)
}

// Funding happens once per generated wallet, not once per connection.
func TestConnectLocalFundsExactlyOnce(t *testing.T) {
	horizon := &fakeHorizon{accountAlive: true}
	store := localstore.New(t.TempDir(), zap.NewNop())
	settings := staticSettings{entity.Settings{Network: "testnet"}}

	p1 := NewWalletProvider(store, horizon, nil, settings, testActivation(), zap.NewNop())
	first, err := p1.Connect(context.Background(), port.ConnectOptions{Method: entity.SigningMethodLocalKeypair})
	require.NoError(t, err)

	p2 := NewWalletProvider(store, horizon, nil, settings, testActivation(), zap.NewNop())
	second, err := p2.Connect(context.Background(), port.ConnectOptions{Method: entity.SigningMethodLocalKeypair})
	require.NoError(t, err)

	assert.Equal(t, first.PublicKey, second.PublicKey)
	assert.Equal(t, 1, horizon.fundCalls)
}

// Activation never completing must not fail the connection.
func TestConnectLocalFailsOpenOnSlowActivation(t *testing.T) {
	horizon := &fakeHorizon{accountAlive: false}
	p, _ := newTestProvider(t, horizon, nil)

	session, err := p.Connect(context.Background(), port.ConnectOptions{Method: entity.SigningMethodLocalKeypair})
	require.NoError(t, err)
	assert.NotEmpty(t, session.PublicKey)
	assert.Equal(t, entity.StatusConnected, p.Status())
}

func TestDisconnectBacksUpSecret(t *testing.T) {
	p, store := newTestProvider(t, &fakeHorizon{accountAlive: true}, nil)

	session, err := p.Connect(context.Background(), port.ConnectOptions{Method: entity.SigningMethodLocalKeypair})
	require.NoError(t, err)

	require.NoError(t, p.Disconnect())
	assert.Equal(t, entity.StatusDisconnected, p.Status())

	var active entity.StoredWallet
	found, err := store.Load(localstore.KeyWallet, &active)
	require.NoError(t, err)
	assert.False(t, found, "active wallet slot should be cleared")

	var backup entity.WalletBackup
	found, err = store.Load(localstore.KeyWalletBackup, &backup)
	require.NoError(t, err)
	require.True(t, found, "backup slot should hold the cleared wallet")
	assert.Equal(t, session.PublicKey, backup.PublicKey)
	assert.NotEmpty(t, backup.Secret)
	assert.NotZero(t, backup.ClearedAt)
}

func TestConnectExtensionNotInstalled(t *testing.T) {
	p, _ := newTestProvider(t, &fakeHorizon{}, &fakeBridge{installed: false})

	_, err := p.Connect(context.Background(), port.ConnectOptions{Method: entity.SigningMethodExtension})
	require.Error(t, err)

	var connErr *entity.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.NotEmpty(t, connErr.Remediation)
	assert.Equal(t, entity.StatusDisconnected, p.Status())
}

func TestConnectExtensionHandshake(t *testing.T) {
	bridge := &fakeBridge{
		installed: true,
		allowed:   false,
		grants:    true,
		publicKey: "GAAZI4TCR3TY5OJHCTJC2A4QSY6CJWJH5IAJTGKIN2ER7LBNVKOCCWN7",
	}
	p, _ := newTestProvider(t, &fakeHorizon{}, bridge)

	session, err := p.Connect(context.Background(), port.ConnectOptions{Method: entity.SigningMethodExtension})
	require.NoError(t, err)
	assert.Equal(t, bridge.publicKey, session.PublicKey)
	assert.Equal(t, entity.SigningMethodExtension, session.SigningMethod)
}

func TestConnectExtensionDeclined(t *testing.T) {
	bridge := &fakeBridge{installed: true, allowed: false, grants: false}
	p, _ := newTestProvider(t, &fakeHorizon{}, bridge)

	_, err := p.Connect(context.Background(), port.ConnectOptions{Method: entity.SigningMethodExtension})
	var connErr *entity.ConnectionError
	require.ErrorAs(t, err, &connErr)
}

func TestSignWithoutSession(t *testing.T) {
	p, _ := newTestProvider(t, &fakeHorizon{}, nil)

	_, err := p.Sign(context.Background(), "AAAA")
	var signErr *entity.SigningError
	require.ErrorAs(t, err, &signErr)
}

func TestImportExportWallet(t *testing.T) {
	p, _ := newTestProvider(t, &fakeHorizon{accountAlive: true}, nil)

	err := p.ImportWallet("not-a-seed")
	var validErr *entity.ValidationError
	require.ErrorAs(t, err, &validErr)

	_, err = p.Connect(context.Background(), port.ConnectOptions{Method: entity.SigningMethodLocalKeypair})
	require.NoError(t, err)

	secret, err := p.ExportWallet()
	require.NoError(t, err)
	assert.Len(t, secret, 56)
	assert.Equal(t, byte('S'), secret[0])

	require.NoError(t, p.ImportWallet(secret))
}

func TestRestoreFreshSession(t *testing.T) {
	horizon := &fakeHorizon{accountAlive: true}
	store := localstore.New(t.TempDir(), zap.NewNop())
	settings := staticSettings{entity.Settings{Network: "testnet"}}

	p1 := NewWalletProvider(store, horizon, nil, settings, testActivation(), zap.NewNop())
	session, err := p1.Connect(context.Background(), port.ConnectOptions{Method: entity.SigningMethodLocalKeypair})
	require.NoError(t, err)

	p2 := NewWalletProvider(store, horizon, nil, settings, testActivation(), zap.NewNop())
	restored, err := p2.Restore(context.Background())
	require.NoError(t, err)
	assert.True(t, restored)

	got, ok := p2.Session()
	require.True(t, ok)
	assert.Equal(t, session.PublicKey, got.PublicKey)
}

func TestRestoreDiscardsStaleRecord(t *testing.T) {
	store := localstore.New(t.TempDir(), zap.NewNop())
	record := entity.ConnectionRecord{
		SigningMethod: entity.SigningMethodLocalKeypair,
		Address:       "GABC",
		Network:       "testnet",
		ConnectedAt:   time.Now().Add(-8 * 24 * time.Hour).Unix(),
	}
	require.NoError(t, store.Save(localstore.KeyConnection, record))

	p := NewWalletProvider(store, &fakeHorizon{}, nil, staticSettings{entity.Settings{Network: "testnet"}}, testActivation(), zap.NewNop())
	restored, err := p.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, restored)

	var dest entity.ConnectionRecord
	found, err := store.Load(localstore.KeyConnection, &dest)
	require.NoError(t, err)
	assert.False(t, found, "stale record should be cleared")
}

func TestDetectConflictsBrave(t *testing.T) {
	p, _ := newTestProvider(t, &fakeHorizon{}, nil)

	report := p.DetectConflicts(entity.InjectedWallets{
		HasFreighter:   true,
		HasBraveWallet: true,
		UserAgent:      "Mozilla/5.0 Brave/1.60",
	})
	assert.True(t, report.ConflictDetected)
	assert.Equal(t, "Brave Wallet", report.PrimaryConflict)
	assert.Equal(t, "Brave", report.Browser)
	assert.NotEmpty(t, report.Recommendations)
	assert.Contains(t, report.DetectedExtensions, "Freighter")
}

func TestDetectConflictsNone(t *testing.T) {
	p, _ := newTestProvider(t, &fakeHorizon{}, nil)

	report := p.DetectConflicts(entity.InjectedWallets{
		HasFreighter: true,
		UserAgent:    "Mozilla/5.0 Chrome/120",
	})
	assert.False(t, report.ConflictDetected)
	assert.Empty(t, report.PrimaryConflict)
}

// Importing over an existing wallet must preserve the replaced secret in
// the backup slot, same as Disconnect.
func TestImportWalletBacksUpPreviousSecret(t *testing.T) {
	p, store := newTestProvider(t, &fakeHorizon{accountAlive: true}, nil)

	_, err := p.Connect(context.Background(), port.ConnectOptions{Method: entity.SigningMethodLocalKeypair})
	require.NoError(t, err)
	previous, err := p.ExportWallet()
	require.NoError(t, err)

	incoming, err := keypair.Random()
	require.NoError(t, err)
	require.NoError(t, p.ImportWallet(incoming.Seed()))

	var active entity.StoredWallet
	found, err := store.Load(localstore.KeyWallet, &active)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, incoming.Address(), active.PublicKey)

	var backup entity.WalletBackup
	found, err = store.Load(localstore.KeyWalletBackup, &backup)
	require.NoError(t, err)
	require.True(t, found, "backup slot should hold the replaced wallet")
	assert.Equal(t, previous, backup.Secret)

	session, ok := p.Session()
	require.True(t, ok)
	assert.Equal(t, incoming.Address(), session.PublicKey)
}

func TestImportWalletIntoEmptySlot(t *testing.T) {
	p, store := newTestProvider(t, &fakeHorizon{}, nil)

	incoming, err := keypair.Random()
	require.NoError(t, err)
	require.NoError(t, p.ImportWallet(incoming.Seed()))

	var backup entity.WalletBackup
	found, err := store.Load(localstore.KeyWalletBackup, &backup)
	require.NoError(t, err)
	assert.False(t, found, "nothing to back up on a fresh import")
}

// Switching signing methods requires an explicit disconnect first.
func TestConnectRejectsMethodSwitchWhileConnected(t *testing.T) {
	p, _ := newTestProvider(t, &fakeHorizon{accountAlive: true}, nil)

	first, err := p.Connect(context.Background(), port.ConnectOptions{Method: entity.SigningMethodLocalKeypair})
	require.NoError(t, err)

	_, err = p.Connect(context.Background(), port.ConnectOptions{Method: entity.SigningMethodExtension})
	var validErr *entity.ValidationError
	require.ErrorAs(t, err, &validErr)

	// Reconnecting with the active method stays idempotent.
	again, err := p.Connect(context.Background(), port.ConnectOptions{Method: entity.SigningMethodLocalKeypair})
	require.NoError(t, err)
	assert.Equal(t, first.PublicKey, again.PublicKey)
}
