package wordpack

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/scrawlgame/scrawl/internal/repositories/wordpack Repository

// Repository provides named word packs for the game. Packs are static
// content: they are seeded at boot and only read afterwards.
type Repository interface {
	// Draw returns Count distinct words from a pack, in random order
	Draw(ctx context.Context, input *DrawInput) (*DrawOutput, error)

	// SeedPack stores the words of a pack, replacing nothing that exists
	SeedPack(ctx context.Context, input *SeedPackInput) error

	// ListPacks returns the names of all available packs
	ListPacks(ctx context.Context) (*ListPacksOutput, error)
}
