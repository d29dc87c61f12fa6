package cache

import (
	"context"
	"fmt"

	"github.com/njchilds90/gosolve/internal/config"
)

// Open builds the cache selected by cfg. A Redis backend is pinged so that
// a bad address fails at startup rather than on the first request.
func Open(ctx context.Context, cfg config.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case "", "none":
		return Nop{}, nil
	case "memory":
		return NewMemory(cfg.MaxEntries, cfg.TTL), nil
	case "redis":
		r := NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, WithTTL(cfg.TTL), WithPrefix(cfg.Redis.Prefix))
		if err := r.Ping(ctx); err != nil {
			r.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return r, nil
	case "sqlite":
		return NewSQLite(cfg.SQLitePath, cfg.TTL)
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}
