package wordpack

import "context"

// DefaultPack is the pack rooms draw from unless configured otherwise
const DefaultPack = "classic"

// defaultWords is the embedded fallback content for the default pack, so a
// fresh Redis instance can serve games without any operator setup.
var defaultWords = []string{
	"apple", "banana", "bicycle", "bridge", "butterfly",
	"camera", "castle", "cactus", "dolphin", "dragon",
	"elephant", "fireworks", "giraffe", "guitar", "hamburger",
	"helicopter", "island", "jellyfish", "kangaroo", "lighthouse",
	"mermaid", "mountain", "mushroom", "octopus", "penguin",
	"pirate", "pyramid", "rainbow", "robot", "rocket",
	"sandcastle", "scarecrow", "snowman", "spaceship", "submarine",
	"telescope", "tornado", "treasure", "umbrella", "volcano",
	"waterfall", "windmill", "wizard", "zebra", "ice age",
}

// EnsureDefaultPack seeds the default pack if it is missing or partial
func EnsureDefaultPack(ctx context.Context, repo Repository) error {
	return repo.SeedPack(ctx, &SeedPackInput{
		Pack:  DefaultPack,
		Words: defaultWords,
	})
}
