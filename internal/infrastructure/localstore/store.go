// Package localstore is a file-backed JSON key-value store, the durable
// browser-local storage of the original product mapped onto the service's
// data directory. One namespaced key per concern, JSON-serialized values,
// last write wins across concurrent processes.
package localstore

import (
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/panoramablock/rwasync/internal/app/port"
	"github.com/panoramablock/rwasync/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Well-known store keys.
const (
	KeySettings     = "rwa.settings"
	KeyWallet       = "stellar.local_wallet.v1"
	KeyWalletBackup = "stellar.local_wallet_backup.v1"
	KeyRecentTokens = "rwa.recent_tokens"
	KeyConnection   = "stellar.wallet_connection"
)

type fileStore struct {
	dir    string
	logger *zap.Logger
}

// New creates a file-backed store rooted at dir. The directory is created
// on first save if missing.
func New(dir string, logger *zap.Logger) port.KeyValueStore {
	return &fileStore{dir: dir, logger: logger.Named("LocalStore")}
}

func (s *fileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load reads and parses the stored value for key. A corrupted blob is
// removed and reported as absent so callers never see a parse exception.
func (s *fileStore) Load(key string, dest any) (bool, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		s.logger.Warn("Failed to read store entry, treating as absent",
			zap.String("key", key), zap.Error(err))
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		s.logger.Warn("Corrupted store entry found, discarding",
			zap.String("key", key), zap.Error(err))
		_ = os.Remove(s.path(key))
		return false, nil
	}
	return true, nil
}

// Save serializes and writes the value atomically. Quota or permission
// failures surface as a StorageError.
func (s *fileStore) Save(key string, value any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &entity.StorageError{Key: key, Err: err}
	}

	data, err := json.Marshal(value)
	if err != nil {
		return &entity.StorageError{Key: key, Err: err}
	}

	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return &entity.StorageError{Key: key, Err: err}
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return &entity.StorageError{Key: key, Err: err}
	}

	s.logger.Debug("Store entry saved", zap.String("key", key))
	return nil
}

// Clear removes the key. Missing entries are not an error.
func (s *fileStore) Clear(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return &entity.StorageError{Key: key, Err: err}
	}
	return nil
}
