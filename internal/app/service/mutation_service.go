package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/panoramablock/rwasync/internal/app/port"
	"github.com/panoramablock/rwasync/internal/domain/entity"
	"github.com/panoramablock/rwasync/internal/infrastructure/localstore"
	"github.com/panoramablock/rwasync/internal/infrastructure/network"
	"github.com/panoramablock/rwasync/internal/pkg/amount"
	"github.com/panoramablock/rwasync/internal/pkg/metrics"
)

type mutationServiceImpl struct {
	wallet       port.WalletProvider
	executor     port.ChainExecutor
	notifier     port.Notifier
	chainData    port.ChainDataService
	store        port.KeyValueStore
	explorerBase string
	logger       *zap.Logger
}

// NewMutationService wires the write path: session check, validation,
// notification lifecycle, execution and targeted cache invalidation.
func NewMutationService(
	wallet port.WalletProvider,
	executor port.ChainExecutor,
	notifier port.Notifier,
	chainData port.ChainDataService,
	store port.KeyValueStore,
	explorerBase string,
	logger *zap.Logger,
) port.MutationService {
	return &mutationServiceImpl{
		wallet:       wallet,
		executor:     executor,
		notifier:     notifier,
		chainData:    chainData,
		store:        store,
		explorerBase: explorerBase,
		logger:       logger.Named("mutation_service"),
	}
}

func (m *mutationServiceImpl) Supply(ctx context.Context, p port.LendingParams) (string, error) {
	return m.lend(ctx, entity.OpSupply, p)
}

func (m *mutationServiceImpl) Borrow(ctx context.Context, p port.LendingParams) (string, error) {
	return m.lend(ctx, entity.OpBorrow, p)
}

func (m *mutationServiceImpl) Repay(ctx context.Context, p port.LendingParams) (string, error) {
	return m.lend(ctx, entity.OpRepay, p)
}

func (m *mutationServiceImpl) Withdraw(ctx context.Context, p port.LendingParams) (string, error) {
	return m.lend(ctx, entity.OpWithdraw, p)
}

// lend runs the shared lending flow. Session and amount validation happen
// before any network call and before the pending notification, so invalid
// input leaves no notification trail.
func (m *mutationServiceImpl) lend(ctx context.Context, op entity.OperationType, p port.LendingParams) (string, error) {
	session, ok := m.wallet.Session()
	if !ok {
		metrics.MutationOutcomes.WithLabelValues(string(op), "rejected").Inc()
		return "", &entity.SigningError{Reason: "connect a wallet before performing operations"}
	}

	baseUnits, err := amount.ToBaseUnits(p.Amount, p.Decimals)
	if err != nil {
		metrics.MutationOutcomes.WithLabelValues(string(op), "rejected").Inc()
		return "", err
	}
	if err := amount.RequirePositive(baseUnits); err != nil {
		metrics.MutationOutcomes.WithLabelValues(string(op), "rejected").Inc()
		return "", err
	}

	pending := m.notifier.Pending(op, fmt.Sprintf("%s of %s submitted", op, p.Amount))

	result, err := m.executor.Execute(ctx, entity.OperationRequest{
		Type:         op,
		From:         session.PublicKey,
		PoolAddress:  p.PoolAddress,
		TokenAddress: p.TokenAddress,
		Amount:       baseUnits,
	})
	if err != nil {
		m.notifier.Fail(pending.ID, err.Error())
		metrics.MutationOutcomes.WithLabelValues(string(op), "failure").Inc()
		m.logger.Warn("operation failed",
			zap.String("type", string(op)), zap.Error(err))
		return "", err
	}

	m.notifier.Succeed(pending.ID,
		fmt.Sprintf("%s of %s confirmed", op, p.Amount),
		network.ExplorerTxURL(m.explorerBase, result.TxHash),
	)
	metrics.MutationOutcomes.WithLabelValues(string(op), "success").Inc()

	m.chainData.InvalidatePool(p.PoolAddress, session.PublicKey)

	m.logger.Info("operation confirmed",
		zap.String("type", string(op)),
		zap.String("tx_hash", result.TxHash),
		zap.Bool("mock", result.Mock),
	)
	return result.TxHash, nil
}

func (m *mutationServiceImpl) DeployToken(ctx context.Context, p port.DeployParams) (string, error) {
	return m.deploy(ctx, entity.OpDeployToken, "token", p)
}

func (m *mutationServiceImpl) DeployPool(ctx context.Context, p port.DeployParams) (string, error) {
	return m.deploy(ctx, entity.OpDeployPool, "pool", p)
}

func (m *mutationServiceImpl) deploy(ctx context.Context, op entity.OperationType, kind string, p port.DeployParams) (string, error) {
	session, ok := m.wallet.Session()
	if !ok {
		metrics.MutationOutcomes.WithLabelValues(string(op), "rejected").Inc()
		return "", &entity.SigningError{Reason: "connect a wallet before performing operations"}
	}
	if p.Name == "" {
		metrics.MutationOutcomes.WithLabelValues(string(op), "rejected").Inc()
		return "", &entity.ValidationError{Field: "name", Message: "must not be empty"}
	}

	pending := m.notifier.Pending(op, fmt.Sprintf("deploying %s %q", kind, p.Name))

	result, err := m.executor.Execute(ctx, entity.OperationRequest{
		Type: op,
		From: session.PublicKey,
		Params: map[string]string{
			"name":   p.Name,
			"symbol": p.Symbol,
			"oracle": p.Oracle,
		},
	})
	if err != nil {
		m.notifier.Fail(pending.ID, err.Error())
		metrics.MutationOutcomes.WithLabelValues(string(op), "failure").Inc()
		return "", err
	}

	m.notifier.Succeed(pending.ID,
		fmt.Sprintf("%s %q deployed", kind, p.Name),
		network.ExplorerTxURL(m.explorerBase, result.TxHash),
	)
	metrics.MutationOutcomes.WithLabelValues(string(op), "success").Inc()

	m.recordRecentToken(entity.RecentToken{
		Address:        result.TxHash,
		Name:           p.Name,
		Symbol:         p.Symbol,
		Type:           kind,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
		DeploymentHash: result.TxHash,
	})
	if kind == "pool" {
		m.chainData.InvalidatePool("", session.PublicKey)
	}
	return result.TxHash, nil
}

// recordRecentToken appends a locally deployed token or pool to the
// persisted registry so listings can include it immediately.
func (m *mutationServiceImpl) recordRecentToken(token entity.RecentToken) {
	var recent []entity.RecentToken
	if _, err := m.store.Load(localstore.KeyRecentTokens, &recent); err != nil {
		m.logger.Warn("failed to load recent tokens", zap.Error(err))
		return
	}
	recent = append(recent, token)
	if err := m.store.Save(localstore.KeyRecentTokens, recent); err != nil {
		m.logger.Warn("failed to persist recent token", zap.Error(err))
	}
}
