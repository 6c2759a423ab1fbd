// Package network holds the thin clients for the Stellar network
// boundaries: Horizon, Soroban RPC and the testnet Friendbot. Endpoints
// are resolved from the injected settings on every call so user overrides
// take effect without restarts.
package network

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/stellar/go/clients/horizonclient"
	stellarnet "github.com/stellar/go/network"
	"github.com/stellar/go/protocols/horizon/operations"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/panoramablock/rwasync/internal/app/port"
	"github.com/panoramablock/rwasync/internal/domain/entity"
	"github.com/panoramablock/rwasync/internal/pkg/metrics"
)

// HorizonClient implements port.HorizonGateway against the Horizon API.
type HorizonClient struct {
	settings    port.SettingsProvider
	httpClient  *http.Client
	limiter     *rate.Limiter
	friendbot   *FriendbotClient
	callTimeout time.Duration
	logger      *zap.Logger
}

// NewHorizonClient creates a new Horizon gateway. Outbound calls share one
// rate limiter so a burst of fetches cannot hammer the public endpoint.
func NewHorizonClient(
	settings port.SettingsProvider,
	friendbot *FriendbotClient,
	callTimeout time.Duration,
	rateLimit int,
	burst int,
	logger *zap.Logger,
) port.HorizonGateway {
	return &HorizonClient{
		settings:    settings,
		httpClient:  &http.Client{Timeout: callTimeout},
		limiter:     rate.NewLimiter(rate.Limit(rateLimit), burst),
		friendbot:   friendbot,
		callTimeout: callTimeout,
		logger:      logger.Named("HorizonClient"),
	}
}

func (c *HorizonClient) client() *horizonclient.Client {
	return &horizonclient.Client{
		HorizonURL: c.settings.Current().HorizonURL,
		HTTP:       c.httpClient,
	}
}

func observe(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.RPCDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
}

// AccountBalances loads the balance lines of an account. RWA
// categorization is left to the fetcher layer.
func (c *HorizonClient) AccountBalances(ctx context.Context, address string) ([]entity.AssetBalance, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	account, err := c.client().AccountDetail(horizonclient.AccountRequest{AccountID: address})
	observe("account_detail", start, err)
	if err != nil {
		c.logger.Warn("Failed to load account", zap.String("address", address), zap.Error(err))
		return nil, &entity.NetworkError{Operation: "account_detail", Err: err}
	}

	balances := make([]entity.AssetBalance, 0, len(account.Balances))
	for _, b := range account.Balances {
		balances = append(balances, entity.AssetBalance{
			AssetType:   b.Type,
			AssetCode:   b.Code,
			AssetIssuer: b.Issuer,
			Balance:     b.Balance,
			Limit:       b.Limit,
		})
	}

	c.logger.Debug("Account balances loaded",
		zap.String("address", address), zap.Int("count", len(balances)))
	return balances, nil
}

// AccountExists reports whether the account is active on the network.
// A 404 from Horizon means "not yet funded", not an error.
func (c *HorizonClient) AccountExists(ctx context.Context, address string) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}

	start := time.Now()
	_, err := c.client().AccountDetail(horizonclient.AccountRequest{AccountID: address})
	if horizonclient.IsNotFoundError(err) {
		observe("account_exists", start, nil)
		return false, nil
	}
	observe("account_exists", start, err)
	if err != nil {
		return false, &entity.NetworkError{Operation: "account_exists", Err: err}
	}
	return true, nil
}

// Transactions lists recent transactions with operation summaries built
// from the account's operation records, newest first.
func (c *HorizonClient) Transactions(ctx context.Context, address string, limit int) ([]entity.WalletTransaction, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	page, err := c.client().Transactions(horizonclient.TransactionRequest{
		ForAccount: address,
		Limit:      uint(limit),
		Order:      horizonclient.OrderDesc,
	})
	observe("transactions", start, err)
	if err != nil {
		return nil, &entity.NetworkError{Operation: "transactions", Err: err}
	}

	txs := make([]entity.WalletTransaction, 0, len(page.Embedded.Records))
	for _, record := range page.Embedded.Records {
		txs = append(txs, entity.WalletTransaction{
			ID:             record.ID,
			Hash:           record.Hash,
			Ledger:         record.Ledger,
			CreatedAt:      record.LedgerCloseTime.Format(time.RFC3339),
			SourceAccount:  record.Account,
			FeeCharged:     record.FeeCharged,
			OperationCount: record.OperationCount,
			Successful:     record.Successful,
			Memo:           record.Memo,
		})
	}

	c.summarizeOperations(ctx, address, txs)
	return txs, nil
}

// summarizeOperations annotates transactions with the type and moved
// amount of their first operation. Best-effort: a failed operations fetch
// leaves the summaries empty rather than failing the whole listing.
func (c *HorizonClient) summarizeOperations(ctx context.Context, address string, txs []entity.WalletTransaction) {
	if len(txs) == 0 {
		return
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return
	}

	start := time.Now()
	page, err := c.client().Operations(horizonclient.OperationRequest{
		ForAccount: address,
		Limit:      200,
		Order:      horizonclient.OrderDesc,
	})
	observe("operations", start, err)
	if err != nil {
		c.logger.Warn("Failed to load operations for summaries", zap.Error(err))
		return
	}

	byHash := make(map[string][]operations.Operation)
	for _, op := range page.Embedded.Records {
		hash := op.GetTransactionHash()
		byHash[hash] = append(byHash[hash], op)
	}

	for i := range txs {
		ops := byHash[txs[i].Hash]
		if len(ops) == 0 {
			continue
		}
		first := ops[0]
		txs[i].OperationType = first.GetType()

		switch p := first.(type) {
		case operations.Payment:
			txs[i].AmountMoved = p.Amount
			asset := p.Code
			if asset == "" {
				asset = "XLM"
			}
			txs[i].InvolvedAssets = []string{asset}
		case operations.CreateAccount:
			txs[i].AmountMoved = p.StartingBalance
			txs[i].InvolvedAssets = []string{"XLM"}
		}
	}
}

// SubmitTransactionXDR broadcasts a signed envelope and returns its hash.
func (c *HorizonClient) SubmitTransactionXDR(ctx context.Context, envelopeXDR string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	start := time.Now()
	tx, err := c.client().SubmitTransactionXDR(envelopeXDR)
	observe("submit_transaction", start, err)
	if err != nil {
		return "", &entity.NetworkError{Operation: "submit_transaction", Err: err}
	}
	return tx.Hash, nil
}

// FundWithFriendbot requests testnet funding for a fresh account.
func (c *HorizonClient) FundWithFriendbot(ctx context.Context, address string) error {
	if c.settings.Current().Network != "testnet" {
		return errors.New("friendbot funding is only available on testnet")
	}
	return c.friendbot.Fund(ctx, address)
}

// Passphrase returns the network passphrase for a configured network name.
func Passphrase(networkName string) string {
	if networkName == "public" {
		return stellarnet.PublicNetworkPassphrase
	}
	return stellarnet.TestNetworkPassphrase
}

// ExplorerTxURL builds an explorer link for a transaction hash.
func ExplorerTxURL(baseURL, hash string) string {
	return fmt.Sprintf("%s/tx/%s", baseURL, hash)
}
