package catalog

import "context"

// PlatformRepository is the document-store surface used for platforms.
// Find methods return nil without error when nothing matches.
type PlatformRepository interface {
	ListPlatforms(ctx context.Context) ([]Platform, error)
	FindPlatform(ctx context.Context, filter PlatformFilter) (*Platform, error)
	InsertPlatform(ctx context.Context, platform *Platform) error
	ReplacePlatform(ctx context.Context, platform *Platform) error
	DeletePlatform(ctx context.Context, id string) error
}

// GameRepository is the document-store surface used for games.
type GameRepository interface {
	ListGames(ctx context.Context, filter GameFilter) ([]Game, error)
	FindGame(ctx context.Context, filter GameFilter) (*Game, error)
	InsertGame(ctx context.Context, game *Game) error
	ReplaceGame(ctx context.Context, game *Game) error
	DeleteGame(ctx context.Context, id string) error
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store bundles everything the catalog needs from a backend.
type Store interface {
	PlatformRepository
	GameRepository
	Pinger
}
