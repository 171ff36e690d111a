package wordpack

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	// Key prefix for pack sets in Redis
	packKeyPrefix = "wordpack:"
)

var (
	// ErrPackNotFound is returned when a pack does not exist
	ErrPackNotFound = errors.New("word pack not found")

	// ErrNotEnoughWords is returned when a pack is smaller than the
	// requested draw
	ErrNotEnoughWords = errors.New("word pack has too few words")
)

// redisRepository implements the Repository interface using Redis sets
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed word pack repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// Draw returns Count distinct words from a pack in random order
func (r *redisRepository) Draw(ctx context.Context, input *DrawInput) (*DrawOutput, error) {
	if input == nil || input.Pack == "" {
		return nil, errors.New("input and pack cannot be empty")
	}

	if input.Count < 1 {
		return nil, errors.New("count must be positive")
	}

	key := packKey(input.Pack)

	size, err := r.client.SCard(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to inspect pack: %w", err)
	}

	if size == 0 {
		return nil, ErrPackNotFound
	}

	if size < int64(input.Count) {
		return nil, ErrNotEnoughWords
	}

	// SRandMemberN with a positive count returns distinct members
	words, err := r.client.SRandMemberN(ctx, key, int64(input.Count)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to draw words: %w", err)
	}

	return &DrawOutput{Words: words}, nil
}

// SeedPack stores the words of a pack
func (r *redisRepository) SeedPack(ctx context.Context, input *SeedPackInput) error {
	if input == nil || input.Pack == "" {
		return errors.New("input and pack cannot be empty")
	}

	if len(input.Words) == 0 {
		return errors.New("pack words cannot be empty")
	}

	members := make([]interface{}, 0, len(input.Words))
	for _, w := range input.Words {
		members = append(members, w)
	}

	if err := r.client.SAdd(ctx, packKey(input.Pack), members...).Err(); err != nil {
		return fmt.Errorf("failed to seed pack: %w", err)
	}

	return nil
}

// ListPacks returns the names of all available packs
func (r *redisRepository) ListPacks(ctx context.Context) (*ListPacksOutput, error) {
	keys, err := r.client.Keys(ctx, packKeyPrefix+"*").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list packs: %w", err)
	}

	packs := make([]string, 0, len(keys))
	for _, k := range keys {
		packs = append(packs, k[len(packKeyPrefix):])
	}

	return &ListPacksOutput{Packs: packs}, nil
}

func packKey(pack string) string {
	return fmt.Sprintf("%s%s", packKeyPrefix, pack)
}
