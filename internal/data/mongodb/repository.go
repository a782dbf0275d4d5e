package mongodb

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	domaincatalog "gamecatalog/app/internal/domain/catalog"
)

var insertionOrder = bson.D{{Key: "_id", Value: 1}}

// Repository stores platforms and games as documents in two collections.
type Repository struct {
	db        *mongo.Database
	platforms *mongo.Collection
	games     *mongo.Collection
	logger    *logrus.Logger
}

// NewRepository constructs a Mongo-backed catalog store on the given database.
func NewRepository(db *mongo.Database, logger *logrus.Logger) (*Repository, error) {
	if db == nil {
		return nil, eris.New("mongo database is required")
	}

	return &Repository{
		db:        db,
		platforms: db.Collection(platformsCollection),
		games:     db.Collection(gamesCollection),
		logger:    logger,
	}, nil
}

var _ domaincatalog.Store = (*Repository)(nil)

// ListPlatforms returns every platform document.
func (r *Repository) ListPlatforms(ctx context.Context) ([]domaincatalog.Platform, error) {
	cursor, err := r.platforms.Find(ctx, bson.D{}, options.Find().SetSort(insertionOrder))
	if err != nil {
		r.traceError(nil, err, "listing platforms")
		return nil, eris.Wrap(err, "listing platforms")
	}
	defer cursor.Close(ctx)

	var docs []platformDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.traceError(nil, err, "decoding platforms")
		return nil, eris.Wrap(err, "decoding platforms")
	}

	platforms := make([]domaincatalog.Platform, 0, len(docs))
	for _, doc := range docs {
		platforms = append(platforms, doc.toDomain())
	}

	return platforms, nil
}

// FindPlatform returns the first platform document matching the filter or nil.
func (r *Repository) FindPlatform(ctx context.Context, filter domaincatalog.PlatformFilter) (*domaincatalog.Platform, error) {
	var doc platformDocument
	err := r.platforms.FindOne(ctx, platformFilter(filter), options.FindOne().SetSort(insertionOrder)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.traceError(logrus.Fields{"name": filter.Name, "slug": filter.Slug}, err, "finding platform")
		return nil, eris.Wrap(err, "finding platform")
	}

	platform := doc.toDomain()
	return &platform, nil
}

// InsertPlatform inserts a new platform document and records its ObjectID.
func (r *Repository) InsertPlatform(ctx context.Context, platform *domaincatalog.Platform) error {
	if platform == nil {
		return eris.New("platform is nil")
	}

	doc := platformDocument{ID: primitive.NewObjectID(), Name: platform.Name, Slug: platform.Slug}
	if _, err := r.platforms.InsertOne(ctx, doc); err != nil {
		r.traceError(logrus.Fields{"slug": platform.Slug}, err, "inserting platform")
		return eris.Wrapf(err, "inserting platform: %s", platform.Slug)
	}

	platform.ID = doc.ID.Hex()
	return nil
}

// ReplacePlatform replaces the whole platform document addressed by platform.ID.
func (r *Repository) ReplacePlatform(ctx context.Context, platform *domaincatalog.Platform) error {
	if platform == nil {
		return eris.New("platform is nil")
	}

	filter, ok := byID(platform.ID)
	if !ok {
		return eris.Wrapf(domaincatalog.ErrNotFound, "platform id %q", platform.ID)
	}

	doc := platformDocument{Name: platform.Name, Slug: platform.Slug}
	result, err := r.platforms.ReplaceOne(ctx, filter, doc)
	if err != nil {
		r.traceError(logrus.Fields{"id": platform.ID}, err, "replacing platform")
		return eris.Wrapf(err, "replacing platform: %s", platform.ID)
	}
	if result.MatchedCount == 0 {
		return eris.Wrapf(domaincatalog.ErrNotFound, "platform id %s", platform.ID)
	}

	return nil
}

// DeletePlatform deletes the platform document addressed by id.
func (r *Repository) DeletePlatform(ctx context.Context, id string) error {
	return r.deleteOne(ctx, r.platforms, id, "platform")
}

// ListGames returns the game documents matching the filter.
func (r *Repository) ListGames(ctx context.Context, filter domaincatalog.GameFilter) ([]domaincatalog.Game, error) {
	cursor, err := r.games.Find(ctx, gameFilter(filter), options.Find().SetSort(insertionOrder))
	if err != nil {
		r.traceError(logrus.Fields{"platform_slug": filter.PlatformSlug}, err, "listing games")
		return nil, eris.Wrap(err, "listing games")
	}
	defer cursor.Close(ctx)

	var docs []gameDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.traceError(nil, err, "decoding games")
		return nil, eris.Wrap(err, "decoding games")
	}

	games := make([]domaincatalog.Game, 0, len(docs))
	for _, doc := range docs {
		games = append(games, doc.toDomain())
	}

	return games, nil
}

// FindGame returns the first game document matching the filter or nil.
func (r *Repository) FindGame(ctx context.Context, filter domaincatalog.GameFilter) (*domaincatalog.Game, error) {
	var doc gameDocument
	err := r.games.FindOne(ctx, gameFilter(filter), options.FindOne().SetSort(insertionOrder)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		fields := logrus.Fields{"name": filter.Name, "slug": filter.Slug, "platform_slug": filter.PlatformSlug}
		r.traceError(fields, err, "finding game")
		return nil, eris.Wrap(err, "finding game")
	}

	game := doc.toDomain()
	return &game, nil
}

// InsertGame inserts a new game document and records its ObjectID.
func (r *Repository) InsertGame(ctx context.Context, game *domaincatalog.Game) error {
	if game == nil {
		return eris.New("game is nil")
	}

	doc := gameDocument{
		ID:           primitive.NewObjectID(),
		Name:         game.Name,
		Slug:         game.Slug,
		PlatformSlug: game.PlatformSlug,
	}
	if _, err := r.games.InsertOne(ctx, doc); err != nil {
		r.traceError(logrus.Fields{"slug": game.Slug}, err, "inserting game")
		return eris.Wrapf(err, "inserting game: %s", game.Slug)
	}

	game.ID = doc.ID.Hex()
	return nil
}

// ReplaceGame replaces the whole game document addressed by game.ID.
func (r *Repository) ReplaceGame(ctx context.Context, game *domaincatalog.Game) error {
	if game == nil {
		return eris.New("game is nil")
	}

	filter, ok := byID(game.ID)
	if !ok {
		return eris.Wrapf(domaincatalog.ErrNotFound, "game id %q", game.ID)
	}

	doc := gameDocument{Name: game.Name, Slug: game.Slug, PlatformSlug: game.PlatformSlug}
	result, err := r.games.ReplaceOne(ctx, filter, doc)
	if err != nil {
		r.traceError(logrus.Fields{"id": game.ID}, err, "replacing game")
		return eris.Wrapf(err, "replacing game: %s", game.ID)
	}
	if result.MatchedCount == 0 {
		return eris.Wrapf(domaincatalog.ErrNotFound, "game id %s", game.ID)
	}

	return nil
}

// DeleteGame deletes the game document addressed by id.
func (r *Repository) DeleteGame(ctx context.Context, id string) error {
	return r.deleteOne(ctx, r.games, id, "game")
}

// Ping checks that the primary answers.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.Client().Ping(ctx, readpref.Primary()); err != nil {
		return eris.Wrap(err, "pinging mongo primary")
	}
	return nil
}

func (r *Repository) deleteOne(ctx context.Context, collection *mongo.Collection, id, kind string) error {
	filter, ok := byID(id)
	if !ok {
		return eris.Wrapf(domaincatalog.ErrNotFound, "%s id %q", kind, id)
	}

	result, err := collection.DeleteOne(ctx, filter)
	if err != nil {
		r.traceError(logrus.Fields{"id": id, "kind": kind}, err, "deleting document")
		return eris.Wrapf(err, "deleting %s: %s", kind, id)
	}
	if result.DeletedCount == 0 {
		return eris.Wrapf(domaincatalog.ErrNotFound, "%s id %s", kind, id)
	}

	return nil
}

// traceError records store failures at debug level; callers up the stack report them.
func (r *Repository) traceError(fields logrus.Fields, err error, message string) {
	if r.logger == nil || err == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error()).WithField("store", "mongo")
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Debug(message)
}
