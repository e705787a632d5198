package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// RepositoryPort defines the persistence methods the service needs.
type RepositoryPort interface {
	Insert(ctx context.Context, asset Asset) error
	Fetch(ctx context.Context, key string) (*Asset, error)
	Delete(ctx context.Context, key string) error
}

// Service serves assets through a Redis cache. Concurrent fetches of the same
// key are collapsed into a single database read.
type Service struct {
	repo   RepositoryPort
	cache  *redis.Client
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

// NewService constructs the asset service. The cache client may be nil; every
// read then goes straight to the repository.
func NewService(repo RepositoryPort, cache *redis.Client, ttl time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// Store persists a new blob under a fresh key and returns the key.
func (s *Service) Store(ctx context.Context, mime string, data []byte) (string, error) {
	asset := Asset{
		Key:       uuid.NewString(),
		Mime:      mime,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, asset); err != nil {
		return "", fmt.Errorf("assets: insert: %w", err)
	}
	s.cacheSet(ctx, asset)
	return asset.Key, nil
}

// Fetch returns the asset for key, consulting the cache first.
func (s *Service) Fetch(ctx context.Context, key string) (*Asset, error) {
	if asset := s.cacheGet(ctx, key); asset != nil {
		return asset, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		asset, err := s.repo.Fetch(ctx, key)
		if err != nil {
			return nil, err
		}
		s.cacheSet(ctx, *asset)
		return asset, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Asset), nil
}

// Delete removes the asset and evicts it from the cache.
func (s *Service) Delete(ctx context.Context, key string) error {
	if err := s.repo.Delete(ctx, key); err != nil {
		return fmt.Errorf("assets: delete: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, cacheKey(key)).Err(); err != nil {
			s.logger.Warn("asset cache evict", slog.Any("error", err))
		}
	}
	return nil
}

func cacheKey(key string) string {
	return "asset:" + key
}

func (s *Service) cacheGet(ctx context.Context, key string) *Asset {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, cacheKey(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("asset cache read", slog.Any("error", err))
		}
		return nil
	}
	var asset Asset
	if err := json.Unmarshal(raw, &asset); err != nil {
		s.logger.Warn("asset cache decode", slog.Any("error", err))
		return nil
	}
	return &asset
}

func (s *Service) cacheSet(ctx context.Context, asset Asset) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(asset)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(asset.Key), raw, s.ttl).Err(); err != nil {
		s.logger.Warn("asset cache write", slog.Any("error", err))
	}
}
