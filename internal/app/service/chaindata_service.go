package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/panoramablock/rwasync/internal/app/port"
	"github.com/panoramablock/rwasync/internal/domain/entity"
	"github.com/panoramablock/rwasync/internal/infrastructure/localstore"
	"github.com/panoramablock/rwasync/internal/pkg/classify"
	"github.com/panoramablock/rwasync/internal/pkg/metrics"
)

// Known testnet addresses served when the chain lookup fails. The UI
// stays functional against them, flagged so it can badge the data.
const (
	fallbackPoolAddress = "CD3NNLUCKWR52S5JOOLORACZ4FQ3RGSWULECCKZ6DTZRZ74N25JMYS2Z"
	fallbackFactory     = "CCT2DRUBLZV3I3H3JFEW64E4NMOSBCWMJCARM7SNC3WOBCNDWZ6FRQ7L"
	fallbackMockAddress = "GDUKMGUGDZQK6YHYA5Z6AY2G4XDSZPSZ3SW5UN3ARVMO6QSRDWP5YLEX"
)

// CacheTTLs bounds the freshness of each cached data class.
type CacheTTLs struct {
	Assets    time.Duration
	Pools     time.Duration
	Positions time.Duration
	Cleanup   time.Duration
}

type chainDataServiceImpl struct {
	horizon port.HorizonGateway
	soroban port.SorobanGateway
	store   port.KeyValueStore

	cache  *gocache.Cache
	flight singleflight.Group
	ttls   CacheTTLs
	logger *zap.Logger
}

// NewChainDataService builds the cached read layer over Horizon and
// Soroban. Concurrent requests for the same key share one upstream call.
func NewChainDataService(
	horizon port.HorizonGateway,
	soroban port.SorobanGateway,
	store port.KeyValueStore,
	ttls CacheTTLs,
	logger *zap.Logger,
) port.ChainDataService {
	return &chainDataServiceImpl{
		horizon: horizon,
		soroban: soroban,
		store:   store,
		cache:   gocache.New(ttls.Assets, ttls.Cleanup),
		ttls:    ttls,
		logger:  logger.Named("chain_data_service"),
	}
}

// fetch runs fn through the cache and the singleflight group. force skips
// the cache read but still populates it with the fresh result.
func (s *chainDataServiceImpl) fetch(key string, ttl time.Duration, force bool, fn func() (interface{}, error)) (interface{}, error) {
	if !force {
		if cached, ok := s.cache.Get(key); ok {
			metrics.CacheEvents.WithLabelValues(keyOperation(key), "hit").Inc()
			return cached, nil
		}
	}
	metrics.CacheEvents.WithLabelValues(keyOperation(key), "miss").Inc()

	value, err, _ := s.flight.Do(key, func() (interface{}, error) {
		v, err := fn()
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, v, ttl)
		return v, nil
	})
	return value, err
}

func keyOperation(key string) string {
	if i := strings.IndexByte(key, '|'); i > 0 {
		return key[:i]
	}
	return key
}

func (s *chainDataServiceImpl) WalletAssets(ctx context.Context, address string, force bool) ([]entity.AssetBalance, error) {
	key := "assets|" + address
	value, err := s.fetch(key, s.ttls.Assets, force, func() (interface{}, error) {
		balances, err := s.horizon.AccountBalances(ctx, address)
		if err != nil {
			return nil, err
		}
		for i := range balances {
			classify.Apply(&balances[i])
		}
		return balances, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]entity.AssetBalance), nil
}

func (s *chainDataServiceImpl) BalanceSummary(ctx context.Context, address string, force bool) (entity.BalanceSummary, error) {
	balances, err := s.WalletAssets(ctx, address, force)
	if err != nil {
		return entity.BalanceSummary{}, err
	}

	summary := entity.BalanceSummary{
		XLMBalance:  "0",
		RWAAssets:   []entity.AssetBalance{},
		Stablecoins: []entity.AssetBalance{},
		OtherAssets: []entity.AssetBalance{},
	}
	for _, b := range balances {
		switch {
		case b.AssetType == "native":
			summary.XLMBalance = b.Balance
		case b.IsRWA:
			summary.RWAAssets = append(summary.RWAAssets, b)
		case classify.IsStablecoin(b.AssetCode):
			summary.Stablecoins = append(summary.Stablecoins, b)
		default:
			summary.OtherAssets = append(summary.OtherAssets, b)
		}
	}
	return summary, nil
}

func (s *chainDataServiceImpl) Transactions(ctx context.Context, address string, limit int, force bool) ([]entity.WalletTransaction, error) {
	if limit <= 0 {
		limit = 10
	}
	key := "txs|" + address + "|" + strconv.Itoa(limit)
	value, err := s.fetch(key, s.ttls.Assets, force, func() (interface{}, error) {
		return s.horizon.Transactions(ctx, address, limit)
	})
	if err != nil {
		return nil, err
	}
	return value.([]entity.WalletTransaction), nil
}

func (s *chainDataServiceImpl) Pools(ctx context.Context, force bool) ([]entity.PoolData, error) {
	value, err := s.fetch("pools", s.ttls.Pools, force, func() (interface{}, error) {
		return s.loadPools(ctx), nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]entity.PoolData), nil
}

// loadPools merges on-chain pools with locally deployed ones. On-chain
// records win address conflicts. A chain failure yields the flagged
// fallback pool rather than an error.
func (s *chainDataServiceImpl) loadPools(ctx context.Context) []entity.PoolData {
	var pools []entity.PoolData

	addresses, err := s.soroban.PoolAddresses(ctx)
	if err != nil {
		s.logger.Warn("pool listing failed, serving fallback", zap.Error(err))
		metrics.FallbacksServed.WithLabelValues("pools").Inc()
		pools = append(pools, fallbackPool())
	} else {
		for _, addr := range addresses {
			info, err := s.soroban.PoolInfo(ctx, addr)
			if err != nil {
				s.logger.Warn("pool info failed, serving placeholder",
					zap.String("pool", addr), zap.Error(err))
				metrics.FallbacksServed.WithLabelValues("pool_info").Inc()
				info = unknownPool(addr)
			}
			pools = append(pools, info)
		}
	}

	seen := make(map[string]bool, len(pools))
	for _, p := range pools {
		seen[p.PoolAddress] = true
	}
	for _, local := range s.localPools() {
		if seen[local.PoolAddress] {
			continue
		}
		seen[local.PoolAddress] = true
		pools = append(pools, local)
	}
	return pools
}

// localPools converts persisted recent tokens of type pool into pool
// records so freshly deployed pools are listed before indexing catches up.
func (s *chainDataServiceImpl) localPools() []entity.PoolData {
	var recent []entity.RecentToken
	found, err := s.store.Load(localstore.KeyRecentTokens, &recent)
	if err != nil || !found {
		return nil
	}

	var pools []entity.PoolData
	for _, t := range recent {
		if t.Type != "pool" {
			continue
		}
		p := unknownPool(t.Address)
		p.Name = t.Name
		p.Source = "local"
		p.Fallback = false
		p.CreatedAt = t.CreatedAt
		pools = append(pools, p)
	}
	return pools
}

func (s *chainDataServiceImpl) PoolInfo(ctx context.Context, poolAddress string, force bool) (entity.PoolData, error) {
	key := "pool|" + poolAddress
	value, err := s.fetch(key, s.ttls.Pools, force, func() (interface{}, error) {
		info, err := s.soroban.PoolInfo(ctx, poolAddress)
		if err != nil {
			s.logger.Warn("pool info failed, serving placeholder",
				zap.String("pool", poolAddress), zap.Error(err))
			metrics.FallbacksServed.WithLabelValues("pool_info").Inc()
			return unknownPool(poolAddress), nil
		}
		return info, nil
	})
	if err != nil {
		return entity.PoolData{}, err
	}
	return value.(entity.PoolData), nil
}

func (s *chainDataServiceImpl) PoolStats(ctx context.Context, force bool) (entity.PoolStats, error) {
	pools, err := s.Pools(ctx, force)
	if err != nil {
		return entity.PoolStats{}, err
	}

	tvl := decimal.Zero
	utilization := decimal.Zero
	counted := 0
	for _, p := range pools {
		if supply, err := decimal.NewFromString(p.TotalSupply); err == nil {
			tvl = tvl.Add(supply)
		}
		if util, err := decimal.NewFromString(p.UtilizationRate); err == nil {
			utilization = utilization.Add(util)
			counted++
		}
	}

	stats := entity.PoolStats{
		TotalValueLocked: tvl.StringFixed(2),
		TotalMarkets:     len(pools),
		AvgUtilization:   "0.00",
	}
	if counted > 0 {
		stats.AvgUtilization = utilization.DivRound(decimal.NewFromInt(int64(counted)), 2).StringFixed(2)
	}
	return stats, nil
}

func (s *chainDataServiceImpl) ContractInfo(ctx context.Context, force bool) (entity.ContractInfo, error) {
	value, err := s.fetch("contract_info", s.ttls.Pools, force, func() (interface{}, error) {
		info, err := s.soroban.ContractInfo(ctx)
		if err != nil || info == (entity.ContractInfo{}) {
			if err != nil {
				s.logger.Warn("contract info lookup failed, serving fallback", zap.Error(err))
			}
			metrics.FallbacksServed.WithLabelValues("contract_info").Inc()
			return fallbackContractInfo(), nil
		}
		return info, nil
	})
	if err != nil {
		return entity.ContractInfo{}, err
	}
	return value.(entity.ContractInfo), nil
}

func (s *chainDataServiceImpl) UserPosition(ctx context.Context, poolAddress, userAddress string, force bool) (entity.UserPosition, error) {
	key := "position|" + poolAddress + "|" + userAddress
	value, err := s.fetch(key, s.ttls.Positions, force, func() (interface{}, error) {
		return s.soroban.UserPosition(ctx, poolAddress, userAddress)
	})
	if err != nil {
		return entity.UserPosition{}, err
	}
	return value.(entity.UserPosition), nil
}

func (s *chainDataServiceImpl) RecentTokens() ([]entity.RecentToken, error) {
	var recent []entity.RecentToken
	found, err := s.store.Load(localstore.KeyRecentTokens, &recent)
	if err != nil {
		return nil, err
	}
	if !found || recent == nil {
		return []entity.RecentToken{}, nil
	}
	return recent, nil
}

func (s *chainDataServiceImpl) ClearRecentTokens() error {
	if err := s.store.Clear(localstore.KeyRecentTokens); err != nil {
		return err
	}
	// Local pools are merged into the pool list, so the derived cache goes too.
	s.cache.Delete("pools")
	return nil
}

func (s *chainDataServiceImpl) PurgeAddress(address string) {
	if address == "" {
		return
	}
	needle := "|" + address
	purged := 0
	for key := range s.cache.Items() {
		if strings.Contains(key, needle) {
			s.cache.Delete(key)
			purged++
		}
	}
	metrics.CacheEvents.WithLabelValues("purge", "evict").Add(float64(purged))
	s.logger.Info("purged cached entries for address",
		zap.String("address", address), zap.Int("entries", purged))
}

func (s *chainDataServiceImpl) InvalidatePool(poolAddress, userAddress string) {
	s.cache.Delete("pools")
	s.cache.Delete("pool|" + poolAddress)
	if userAddress != "" {
		s.cache.Delete("position|" + poolAddress + "|" + userAddress)
		s.cache.Delete("assets|" + userAddress)
	}
	metrics.CacheEvents.WithLabelValues("invalidate_pool", "evict").Inc()
}

func fallbackPool() entity.PoolData {
	p := unknownPool(fallbackPoolAddress)
	p.Name = "USDC Pool"
	p.Source = "fallback"
	return p
}

func unknownPool(address string) entity.PoolData {
	now := time.Now().UTC().Format(time.RFC3339)
	return entity.PoolData{
		PoolAddress:          address,
		Name:                 "Unknown Pool",
		Oracle:               "Stellar Oracle",
		BackstopTakeRate:     500,
		MaxPositions:         100,
		TotalSupply:          "0",
		TotalBorrowed:        "0",
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
		Source:               "fallback",
		Fallback:             true,
	}
}

func fallbackContractInfo() entity.ContractInfo {
	return entity.ContractInfo{
		PoolFactory: fallbackFactory,
		Backstop:    fallbackMockAddress,
		Oracle:      fallbackMockAddress,
		USDCToken:   fallbackMockAddress,
		XLMToken:    fallbackMockAddress,
		BLNDToken:   fallbackMockAddress,
		Admin:       fallbackMockAddress,
		Fallback:    true,
	}
}
