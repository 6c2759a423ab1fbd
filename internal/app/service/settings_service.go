package service

import (
	"sync"

	"go.uber.org/zap"

	"github.com/panoramablock/rwasync/internal/app/port"
	"github.com/panoramablock/rwasync/internal/domain/entity"
	"github.com/panoramablock/rwasync/internal/infrastructure/localstore"
)

type settingsServiceImpl struct {
	mu       sync.RWMutex
	current  entity.Settings
	defaults entity.Settings
	store    port.KeyValueStore
	logger   *zap.Logger
}

// NewSettingsService builds the settings service on top of the
// environment-derived defaults, overlaying any persisted overrides.
func NewSettingsService(defaults entity.Settings, store port.KeyValueStore, logger *zap.Logger) port.SettingsService {
	s := &settingsServiceImpl{
		current:  defaults,
		defaults: defaults,
		store:    store,
		logger:   logger.Named("settings_service"),
	}

	var persisted entity.Settings
	found, err := store.Load(localstore.KeySettings, &persisted)
	if err != nil {
		s.logger.Warn("failed to load persisted settings, using defaults", zap.Error(err))
	} else if found {
		s.current = persisted
		s.logger.Info("loaded persisted settings overrides")
	}
	return s
}

func (s *settingsServiceImpl) Current() entity.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *settingsServiceImpl) Update(patch entity.SettingsPatch) (entity.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	if patch.Network != nil {
		if *patch.Network != "testnet" && *patch.Network != "public" {
			return entity.Settings{}, &entity.ValidationError{Field: "network", Message: "must be testnet or public"}
		}
		next.Network = *patch.Network
	}
	if patch.HorizonURL != nil {
		next.HorizonURL = *patch.HorizonURL
	}
	if patch.RPCURL != nil {
		next.RPCURL = *patch.RPCURL
	}
	if patch.DefindexAPIBase != nil {
		next.DefindexAPIBase = *patch.DefindexAPIBase
	}
	if patch.ReflectorFeedSrwaUSD != nil {
		next.ReflectorFeedSrwaUSD = *patch.ReflectorFeedSrwaUSD
	}
	if patch.SoroswapRouter != nil {
		next.SoroswapRouter = *patch.SoroswapRouter
	}
	if patch.BlendFactory != nil {
		next.BlendFactory = *patch.BlendFactory
	}
	if patch.DefaultSlippageBps != nil {
		if *patch.DefaultSlippageBps < 0 || *patch.DefaultSlippageBps > 10_000 {
			return entity.Settings{}, &entity.ValidationError{Field: "defaultSlippageBps", Message: "must be between 0 and 10000"}
		}
		next.DefaultSlippageBps = *patch.DefaultSlippageBps
	}

	if err := s.store.Save(localstore.KeySettings, next); err != nil {
		return entity.Settings{}, err
	}
	s.current = next
	s.logger.Info("settings updated")
	return next, nil
}

func (s *settingsServiceImpl) Reset() (entity.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(localstore.KeySettings); err != nil {
		return entity.Settings{}, err
	}
	s.current = s.defaults
	s.logger.Info("settings reset to environment defaults")
	return s.current, nil
}
