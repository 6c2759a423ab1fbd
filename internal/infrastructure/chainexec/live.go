package chainexec

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
	"go.uber.org/zap"

	"github.com/panoramablock/rwasync/internal/app/port"
	"github.com/panoramablock/rwasync/internal/domain/entity"
	"github.com/panoramablock/rwasync/internal/infrastructure/network"
)

const liveBaseFee = txnbuild.MinBaseFee * 10

// LiveExecutor builds, signs and broadcasts real contract invocations.
// The signing capability comes from the wallet provider, so it works for
// both the extension and local-keypair variants.
type LiveExecutor struct {
	settings port.SettingsProvider
	wallet   port.WalletProvider
	horizon  port.HorizonGateway
	http     *http.Client
	logger   *zap.Logger
}

func NewLiveExecutor(
	settings port.SettingsProvider,
	wallet port.WalletProvider,
	horizon port.HorizonGateway,
	logger *zap.Logger,
) *LiveExecutor {
	return &LiveExecutor{
		settings: settings,
		wallet:   wallet,
		horizon:  horizon,
		http:     &http.Client{Timeout: 30 * time.Second},
		logger:   logger.Named("live_executor"),
	}
}

func (l *LiveExecutor) Execute(ctx context.Context, req entity.OperationRequest) (entity.OperationResult, error) {
	fn, err := contractFunction(req.Type)
	if err != nil {
		return entity.OperationResult{}, err
	}

	args, err := invocationArgs(req)
	if err != nil {
		return entity.OperationResult{}, err
	}

	envelope, err := l.buildEnvelope(ctx, req, fn, args)
	if err != nil {
		return entity.OperationResult{}, err
	}

	signed, err := l.wallet.Sign(ctx, envelope)
	if err != nil {
		return entity.OperationResult{}, err
	}

	hash, err := l.horizon.SubmitTransactionXDR(ctx, signed)
	if err != nil {
		return entity.OperationResult{}, err
	}

	l.logger.Info("operation broadcast",
		zap.String("type", string(req.Type)),
		zap.String("tx_hash", hash),
	)

	return entity.OperationResult{
		TxHash:      hash,
		SubmittedAt: time.Now().UTC(),
	}, nil
}

func (l *LiveExecutor) buildEnvelope(ctx context.Context, req entity.OperationRequest, fn string, args []xdr.ScVal) (string, error) {
	contract, err := contractScAddress(req.PoolAddress)
	if err != nil {
		return "", err
	}

	client := &horizonclient.Client{
		HorizonURL: l.settings.Current().HorizonURL,
		HTTP:       l.http,
	}
	sourceAccount, err := client.AccountDetail(horizonclient.AccountRequest{AccountID: req.From})
	if err != nil {
		return "", errors.Wrap(err, "load source account")
	}

	op := &txnbuild.InvokeHostFunction{
		HostFunction: xdr.HostFunction{
			Type: xdr.HostFunctionTypeHostFunctionTypeInvokeContract,
			InvokeContract: &xdr.InvokeContractArgs{
				ContractAddress: contract,
				FunctionName:    xdr.ScSymbol(fn),
				Args:            xdr.ScVec(args),
			},
		},
		SourceAccount: req.From,
	}

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &sourceAccount,
		IncrementSequenceNum: true,
		Operations:           []txnbuild.Operation{op},
		BaseFee:              liveBaseFee,
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewTimeout(300)},
	})
	if err != nil {
		return "", errors.Wrap(err, "build transaction")
	}

	return tx.Base64()
}

func contractFunction(t entity.OperationType) (string, error) {
	switch t {
	case entity.OpSupply:
		return "supply", nil
	case entity.OpBorrow:
		return "borrow", nil
	case entity.OpRepay:
		return "repay", nil
	case entity.OpWithdraw:
		return "withdraw", nil
	case entity.OpDeployToken, entity.OpDeployPool:
		return "", &entity.ValidationError{Field: "type", Message: "deployments are only available through the mock executor"}
	default:
		return "", &entity.ValidationError{Field: "type", Message: "unknown operation type"}
	}
}

func invocationArgs(req entity.OperationRequest) ([]xdr.ScVal, error) {
	user, err := network.AccountScVal(req.From)
	if err != nil {
		return nil, err
	}
	token, err := network.AddressScVal(req.TokenAddress)
	if err != nil {
		return nil, err
	}
	amount, err := network.I128ScVal(req.Amount)
	if err != nil {
		return nil, err
	}
	return []xdr.ScVal{user, token, amount}, nil
}

func contractScAddress(contractID string) (xdr.ScAddress, error) {
	v, err := network.AddressScVal(contractID)
	if err != nil {
		return xdr.ScAddress{}, err
	}
	return *v.Address, nil
}

var _ port.ChainExecutor = (*LiveExecutor)(nil)
