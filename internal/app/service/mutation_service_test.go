package service

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/panoramablock/rwasync/internal/app/port"
	"github.com/panoramablock/rwasync/internal/domain/entity"
	"github.com/panoramablock/rwasync/internal/infrastructure/localstore"
)

type fakeWallet struct {
	session *entity.WalletSession
}

func (f *fakeWallet) Connect(ctx context.Context, opts port.ConnectOptions) (entity.WalletSession, error) {
	return entity.WalletSession{}, nil
}
func (f *fakeWallet) Disconnect() error { return nil }
func (f *fakeWallet) Sign(ctx context.Context, envelopeXDR string) (string, error) {
	return envelopeXDR, nil
}
func (f *fakeWallet) Session() (entity.WalletSession, bool) {
	if f.session == nil {
		return entity.WalletSession{}, false
	}
	return *f.session, true
}
func (f *fakeWallet) Status() entity.ConnectionStatus {
	if f.session == nil {
		return entity.StatusDisconnected
	}
	return entity.StatusConnected
}
func (f *fakeWallet) ImportWallet(secret string) error { return nil }
func (f *fakeWallet) ExportWallet() (string, error)    { return "", nil }
func (f *fakeWallet) Restore(ctx context.Context) (bool, error) {
	return false, nil
}
func (f *fakeWallet) DetectConflicts(injected entity.InjectedWallets) entity.ConflictReport {
	return entity.ConflictReport{}
}

type fakeExecutor struct {
	calls []entity.OperationRequest
	err   error
	hash  string
}

func (f *fakeExecutor) Execute(ctx context.Context, req entity.OperationRequest) (entity.OperationResult, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return entity.OperationResult{}, f.err
	}
	return entity.OperationResult{TxHash: f.hash, Mock: true}, nil
}

type invalidation struct {
	pool string
	user string
}

type fakeChainData struct {
	port.ChainDataService
	invalidations []invalidation
}

func (f *fakeChainData) InvalidatePool(poolAddress, userAddress string) {
	f.invalidations = append(f.invalidations, invalidation{pool: poolAddress, user: userAddress})
}

func connectedWallet() *fakeWallet {
	return &fakeWallet{session: &entity.WalletSession{
		PublicKey:     "GAAZI4TCR3TY5OJHCTJC2A4QSY6CJWJH5IAJTGKIN2ER7LBNVKOCCWN7",
		SigningMethod: entity.SigningMethodLocalKeypair,
		Network:       "testnet",
	}}
}

func newTestMutations(t *testing.T, wallet port.WalletProvider, exec port.ChainExecutor) (port.MutationService, port.Notifier, *fakeChainData) {
	t.Helper()
	notifier := NewNotifier(zap.NewNop())
	chainData := &fakeChainData{}
	store := localstore.New(t.TempDir(), zap.NewNop())
	svc := NewMutationService(wallet, exec, notifier, chainData, store,
		"https://stellar.expert/explorer/testnet", zap.NewNop())
	return svc, notifier, chainData
}

func validParams() port.LendingParams {
	return port.LendingParams{
		PoolAddress:  "CPOOL1",
		TokenAddress: "CTOKEN1",
		Amount:       "100",
		Decimals:     7,
	}
}

// Operations without a session must fail before any execution and leave
// no notification behind.
func TestSupplyWithoutSessionShortCircuits(t *testing.T) {
	exec := &fakeExecutor{hash: "abc"}
	svc, notifier, chainData := newTestMutations(t, &fakeWallet{}, exec)

	_, err := svc.Supply(context.Background(), validParams())
	var signErr *entity.SigningError
	require.ErrorAs(t, err, &signErr)

	assert.Empty(t, exec.calls)
	assert.Empty(t, notifier.Recent(10))
	assert.Empty(t, chainData.invalidations)
}

func TestSupplyInvalidAmountRejectedBeforeExecution(t *testing.T) {
	exec := &fakeExecutor{hash: "abc"}
	svc, notifier, _ := newTestMutations(t, connectedWallet(), exec)

	for _, amt := range []string{"", "abc", "-5", "0"} {
		p := validParams()
		p.Amount = amt
		_, err := svc.Supply(context.Background(), p)
		var validErr *entity.ValidationError
		require.ErrorAs(t, err, &validErr, "amount %q", amt)
	}
	assert.Empty(t, exec.calls)
	assert.Empty(t, notifier.Recent(10))
}

func TestSupplySuccessSequence(t *testing.T) {
	exec := &fakeExecutor{hash: "deadbeef"}
	svc, notifier, chainData := newTestMutations(t, connectedWallet(), exec)

	hash, err := svc.Supply(context.Background(), validParams())
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", hash)

	require.Len(t, exec.calls, 1)
	req := exec.calls[0]
	assert.Equal(t, entity.OpSupply, req.Type)
	assert.Equal(t, "1000000000", req.Amount.String(), "100 at 7 decimals")

	recent := notifier.Recent(10)
	require.Len(t, recent, 1)
	assert.Equal(t, entity.NotificationSuccess, recent[0].Status)
	assert.Equal(t, "https://stellar.expert/explorer/testnet/tx/deadbeef", recent[0].ExplorerURL)

	require.Len(t, chainData.invalidations, 1)
	assert.Equal(t, "CPOOL1", chainData.invalidations[0].pool)
}

// A failed execution resolves the pending notification to failure and
// triggers no cache invalidation.
func TestBorrowFailureSequence(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("insufficient funds")}
	svc, notifier, chainData := newTestMutations(t, connectedWallet(), exec)

	_, err := svc.Borrow(context.Background(), validParams())
	require.Error(t, err)

	recent := notifier.Recent(10)
	require.Len(t, recent, 1)
	assert.Equal(t, entity.NotificationFailure, recent[0].Status)
	assert.Contains(t, recent[0].Message, "insufficient funds")
	assert.Empty(t, recent[0].ExplorerURL)

	assert.Empty(t, chainData.invalidations)
}

func TestDeployTokenRecordsRecentToken(t *testing.T) {
	exec := &fakeExecutor{hash: "cafe"}
	notifier := NewNotifier(zap.NewNop())
	chainData := &fakeChainData{}
	store := localstore.New(t.TempDir(), zap.NewNop())
	svc := NewMutationService(connectedWallet(), exec, notifier, chainData, store,
		"https://stellar.expert/explorer/testnet", zap.NewNop())

	hash, err := svc.DeployToken(context.Background(), port.DeployParams{Name: "My Token", Symbol: "MYT"})
	require.NoError(t, err)
	assert.Equal(t, "cafe", hash)

	var recent []entity.RecentToken
	found, err := store.Load(localstore.KeyRecentTokens, &recent)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, recent, 1)
	assert.Equal(t, "My Token", recent[0].Name)
	assert.Equal(t, "token", recent[0].Type)
}

func TestDeployPoolRequiresName(t *testing.T) {
	exec := &fakeExecutor{hash: "cafe"}
	svc, _, _ := newTestMutations(t, connectedWallet(), exec)

	_, err := svc.DeployPool(context.Background(), port.DeployParams{})
	var validErr *entity.ValidationError
	require.ErrorAs(t, err, &validErr)
	assert.Empty(t, exec.calls)
}
