package persistence

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/directory-client/internal/config"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("persistence: key not found")

// Store is the client's key-value persistence. Delete of a missing key is
// not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Open builds the store selected by cfg.Storage.Driver.
func Open(cfg config.Config, logger *zap.Logger) (Store, error) {
	switch cfg.Storage.Driver {
	case config.StoreDriverBolt:
		store, err := OpenBolt(cfg.Storage.Path, cfg.Storage.Bucket)
		if err != nil {
			return nil, fmt.Errorf("open bolt store %s: %w", cfg.Storage.Path, err)
		}
		logger.Debug("using bolt store", zap.String("path", cfg.Storage.Path))
		return store, nil
	case config.StoreDriverRedis:
		return NewRedis(cfg.Redis, logger), nil
	case config.StoreDriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Storage.Driver)
	}
}
