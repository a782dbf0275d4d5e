package catalog

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// Service defines the catalog operations exposed to the transport layer.
type Service interface {
	ListPlatforms(ctx context.Context) ([]Platform, error)
	GetPlatform(ctx context.Context, slug string) (*Platform, error)
	CreatePlatform(ctx context.Context, input PlatformInput) (*Platform, error)
	UpdatePlatform(ctx context.Context, slug string, input PlatformInput) error
	DeletePlatform(ctx context.Context, slug string) error

	ListPlatformGames(ctx context.Context, platformSlug string) ([]Game, error)
	ListGames(ctx context.Context) ([]Game, error)
	GetGame(ctx context.Context, slug string) (*Game, error)
	CreateGame(ctx context.Context, input GameInput) (*Game, error)
	UpdateGame(ctx context.Context, slug string, input GameInput) error
	DeleteGame(ctx context.Context, slug string) error

	Ping(ctx context.Context) error
}

type service struct {
	store  Store
	logger *logrus.Logger
}

var _ Service = (*service)(nil)

// NewService wires the catalog service with its store. Failures are returned
// wrapped and only traced here; the transport layer reports them.
func NewService(store Store, logger *logrus.Logger) (Service, error) {
	if store == nil {
		return nil, eris.New("catalog store is required")
	}

	return &service{
		store:  store,
		logger: logger,
	}, nil
}

func (s *service) ListPlatforms(ctx context.Context) ([]Platform, error) {
	platforms, err := s.store.ListPlatforms(ctx)
	if err != nil {
		s.traceFailure(nil, err, "listing platforms")
		return nil, eris.Wrap(err, "listing platforms")
	}

	if platforms == nil {
		platforms = []Platform{}
	}
	return platforms, nil
}

func (s *service) GetPlatform(ctx context.Context, slug string) (*Platform, error) {
	platform, err := s.findPlatformBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if platform == nil {
		return nil, eris.Wrapf(ErrNotFound, "platform %s", slug)
	}
	return platform, nil
}

func (s *service) CreatePlatform(ctx context.Context, input PlatformInput) (*Platform, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.store.FindPlatform(ctx, PlatformFilter{Name: input.Name})
	if err != nil {
		s.traceFailure(logrus.Fields{"name": input.Name}, err, "checking platform name")
		return nil, eris.Wrapf(err, "checking platform name: %s", input.Name)
	}
	if existing != nil {
		return nil, eris.Wrapf(ErrPlatformExists, "platform name %s", input.Name)
	}

	slug := Slugify(input.Name)
	if slug == "" {
		return nil, eris.Wrapf(ErrEmptySlug, "platform name %s", input.Name)
	}

	platform := &Platform{Name: input.Name, Slug: slug}
	if err := s.store.InsertPlatform(ctx, platform); err != nil {
		s.traceFailure(logrus.Fields{"slug": slug}, err, "inserting platform")
		return nil, eris.Wrapf(err, "inserting platform: %s", slug)
	}

	return platform, nil
}

func (s *service) UpdatePlatform(ctx context.Context, slug string, input PlatformInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if err := input.Validate(); err != nil {
		return err
	}

	platform, err := s.findPlatformBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if platform == nil {
		return eris.Wrapf(ErrNotFound, "platform %s", slug)
	}

	input.ApplyTo(platform)

	if err := s.store.ReplacePlatform(ctx, platform); err != nil {
		s.traceFailure(logrus.Fields{"slug": slug}, err, "replacing platform")
		return eris.Wrapf(err, "replacing platform: %s", slug)
	}

	return nil
}

func (s *service) DeletePlatform(ctx context.Context, slug string) error {
	platform, err := s.findPlatformBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if platform == nil {
		return eris.Wrapf(ErrNotFound, "platform %s", slug)
	}

	if err := s.store.DeletePlatform(ctx, platform.ID); err != nil {
		s.traceFailure(logrus.Fields{"slug": slug}, err, "deleting platform")
		return eris.Wrapf(err, "deleting platform: %s", slug)
	}

	return nil
}

func (s *service) ListPlatformGames(ctx context.Context, platformSlug string) ([]Game, error) {
	if platformSlug == "" {
		return []Game{}, nil
	}

	return s.listGames(ctx, GameFilter{PlatformSlug: platformSlug})
}

func (s *service) ListGames(ctx context.Context) ([]Game, error) {
	return s.listGames(ctx, GameFilter{})
}

func (s *service) GetGame(ctx context.Context, slug string) (*Game, error) {
	game, err := s.findGameBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, eris.Wrapf(ErrNotFound, "game %s", slug)
	}
	return game, nil
}

func (s *service) CreateGame(ctx context.Context, input GameInput) (*Game, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.PlatformSlug = strings.TrimSpace(input.PlatformSlug)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	fields := logrus.Fields{"name": input.Name, "platform_slug": input.PlatformSlug}

	existing, err := s.store.FindGame(ctx, GameFilter{Name: input.Name, PlatformSlug: input.PlatformSlug})
	if err != nil {
		s.traceFailure(fields, err, "checking game name")
		return nil, eris.Wrapf(err, "checking game name: %s", input.Name)
	}
	if existing != nil {
		return nil, eris.Wrapf(ErrGameExists, "game %s on %s", input.Name, input.PlatformSlug)
	}

	platform, err := s.store.FindPlatform(ctx, PlatformFilter{Slug: input.PlatformSlug})
	if err != nil {
		s.traceFailure(fields, err, "resolving game platform")
		return nil, eris.Wrapf(err, "resolving platform: %s", input.PlatformSlug)
	}
	if platform == nil {
		return nil, eris.Wrapf(ErrUnknownPlatform, "platform %s", input.PlatformSlug)
	}

	slug := Slugify(input.Name)
	if slug == "" {
		return nil, eris.Wrapf(ErrEmptySlug, "game name %s", input.Name)
	}

	game := &Game{
		Name:         input.Name,
		Slug:         slug,
		PlatformSlug: platform.Slug,
	}
	if err := s.store.InsertGame(ctx, game); err != nil {
		s.traceFailure(fields, err, "inserting game")
		return nil, eris.Wrapf(err, "inserting game: %s", slug)
	}

	return game, nil
}

func (s *service) UpdateGame(ctx context.Context, slug string, input GameInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.PlatformSlug = strings.TrimSpace(input.PlatformSlug)
	if err := input.Validate(); err != nil {
		return err
	}

	game, err := s.findGameBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if game == nil {
		return eris.Wrapf(ErrNotFound, "game %s", slug)
	}

	input.ApplyTo(game)

	if err := s.store.ReplaceGame(ctx, game); err != nil {
		s.traceFailure(logrus.Fields{"slug": slug}, err, "replacing game")
		return eris.Wrapf(err, "replacing game: %s", slug)
	}

	return nil
}

func (s *service) DeleteGame(ctx context.Context, slug string) error {
	game, err := s.findGameBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if game == nil {
		return eris.Wrapf(ErrNotFound, "game %s", slug)
	}

	if err := s.store.DeleteGame(ctx, game.ID); err != nil {
		s.traceFailure(logrus.Fields{"slug": slug}, err, "deleting game")
		return eris.Wrapf(err, "deleting game: %s", slug)
	}

	return nil
}

func (s *service) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return eris.Wrap(err, "pinging catalog store")
	}
	return nil
}

// findPlatformBySlug matches the path slug exactly; an empty slug matches nothing.
func (s *service) findPlatformBySlug(ctx context.Context, slug string) (*Platform, error) {
	if slug == "" {
		return nil, nil
	}

	platform, err := s.store.FindPlatform(ctx, PlatformFilter{Slug: slug})
	if err != nil {
		s.traceFailure(logrus.Fields{"slug": slug}, err, "fetching platform by slug")
		return nil, eris.Wrapf(err, "fetching platform: %s", slug)
	}
	return platform, nil
}

// findGameBySlug matches the path slug exactly; an empty slug matches nothing.
func (s *service) findGameBySlug(ctx context.Context, slug string) (*Game, error) {
	if slug == "" {
		return nil, nil
	}

	game, err := s.store.FindGame(ctx, GameFilter{Slug: slug})
	if err != nil {
		s.traceFailure(logrus.Fields{"slug": slug}, err, "fetching game by slug")
		return nil, eris.Wrapf(err, "fetching game: %s", slug)
	}
	return game, nil
}

func (s *service) listGames(ctx context.Context, filter GameFilter) ([]Game, error) {
	games, err := s.store.ListGames(ctx, filter)
	if err != nil {
		s.traceFailure(logrus.Fields{"platform_slug": filter.PlatformSlug}, err, "listing games")
		return nil, eris.Wrap(err, "listing games")
	}

	if games == nil {
		games = []Game{}
	}
	return games, nil
}

func (s *service) traceFailure(fields logrus.Fields, err error, message string) {
	if err == nil || s.logger == nil {
		return
	}

	entry := s.logger.WithField("error", err.Error()).WithField("component", "catalog.service")
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Debug(message)
}
