package wordpack

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
	ctx    context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	// Create a Redis client connected to the miniredis server
	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	// Create the repository
	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestSeedAndDraw() {
	err := s.repo.SeedPack(s.ctx, &SeedPackInput{
		Pack:  "animals",
		Words: []string{"cat", "dog", "owl", "fox", "bat"},
	})
	s.Require().NoError(err)

	out, err := s.repo.Draw(s.ctx, &DrawInput{Pack: "animals", Count: 3})
	s.Require().NoError(err)
	s.Require().Len(out.Words, 3)

	// drawn words are distinct and come from the pack
	seen := make(map[string]bool)
	for _, w := range out.Words {
		s.Contains([]string{"cat", "dog", "owl", "fox", "bat"}, w)
		s.False(seen[w], "duplicate word %q drawn", w)
		seen[w] = true
	}
}

func (s *RedisRepositoryTestSuite) TestDrawUnknownPack() {
	_, err := s.repo.Draw(s.ctx, &DrawInput{Pack: "nope", Count: 3})
	s.Require().ErrorIs(err, ErrPackNotFound)
}

func (s *RedisRepositoryTestSuite) TestDrawMoreThanPackSize() {
	err := s.repo.SeedPack(s.ctx, &SeedPackInput{
		Pack:  "tiny",
		Words: []string{"one", "two"},
	})
	s.Require().NoError(err)

	_, err = s.repo.Draw(s.ctx, &DrawInput{Pack: "tiny", Count: 3})
	s.Require().ErrorIs(err, ErrNotEnoughWords)
}

func (s *RedisRepositoryTestSuite) TestSeedIsIdempotent() {
	for i := 0; i < 2; i++ {
		err := s.repo.SeedPack(s.ctx, &SeedPackInput{
			Pack:  "animals",
			Words: []string{"cat", "dog", "owl"},
		})
		s.Require().NoError(err)
	}

	out, err := s.repo.Draw(s.ctx, &DrawInput{Pack: "animals", Count: 3})
	s.Require().NoError(err)
	s.ElementsMatch([]string{"cat", "dog", "owl"}, out.Words)
}

func (s *RedisRepositoryTestSuite) TestEnsureDefaultPack() {
	s.Require().NoError(EnsureDefaultPack(s.ctx, s.repo))

	packs, err := s.repo.ListPacks(s.ctx)
	s.Require().NoError(err)
	s.Contains(packs.Packs, DefaultPack)

	out, err := s.repo.Draw(s.ctx, &DrawInput{Pack: DefaultPack, Count: 3})
	s.Require().NoError(err)
	s.Len(out.Words, 3)
}

func (s *RedisRepositoryTestSuite) TestInvalidInputs() {
	_, err := s.repo.Draw(s.ctx, nil)
	s.Error(err)

	_, err = s.repo.Draw(s.ctx, &DrawInput{Pack: "animals", Count: 0})
	s.Error(err)

	s.Error(s.repo.SeedPack(s.ctx, nil))
	s.Error(s.repo.SeedPack(s.ctx, &SeedPackInput{Pack: "empty"}))
}

func TestNewRedisValidatesConfig(t *testing.T) {
	_, err := NewRedis(nil)
	if err == nil {
		t.Fatal("expected error for nil config")
	}

	_, err = NewRedis(&Config{})
	if err == nil {
		t.Fatal("expected error for nil client")
	}
}
