package catalog

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"gamecatalog/app/internal/data/database"
	domaincatalog "gamecatalog/app/internal/domain/catalog"
)

// Repository persists platforms and games using a Gorm database connection.
type Repository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository constructs a Gorm-backed catalog store.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*Repository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &Repository{db: db, logger: logger}, nil
}

var _ domaincatalog.Store = (*Repository)(nil)

// ListPlatforms returns every platform in insertion order.
func (r *Repository) ListPlatforms(ctx context.Context) ([]domaincatalog.Platform, error) {
	var records []PlatformRecord

	if err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		r.traceError(nil, err, "listing platforms")
		return nil, eris.Wrap(err, "listing platforms")
	}

	platforms := make([]domaincatalog.Platform, 0, len(records))
	for i := range records {
		platforms = append(platforms, *toDomainPlatform(&records[i]))
	}

	return platforms, nil
}

// FindPlatform returns the first platform matching the filter or nil when none does.
func (r *Repository) FindPlatform(ctx context.Context, filter domaincatalog.PlatformFilter) (*domaincatalog.Platform, error) {
	query := r.db.WithContext(ctx).Model(&PlatformRecord{})
	if filter.Name != "" {
		query = query.Where("name = ?", filter.Name)
	}
	if filter.Slug != "" {
		query = query.Where("slug = ?", filter.Slug)
	}

	var record PlatformRecord
	if err := query.Order("id ASC").First(&record).Error; err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		fields := logrus.Fields{"name": filter.Name, "slug": filter.Slug}
		r.traceError(fields, err, "finding platform")
		return nil, eris.Wrap(err, "finding platform")
	}

	return toDomainPlatform(&record), nil
}

// InsertPlatform stores a new platform and assigns its identifier.
func (r *Repository) InsertPlatform(ctx context.Context, platform *domaincatalog.Platform) error {
	if platform == nil {
		return eris.New("platform is nil")
	}

	record := &PlatformRecord{Name: platform.Name, Slug: platform.Slug}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		r.traceError(logrus.Fields{"slug": platform.Slug}, err, "inserting platform")
		return eris.Wrapf(err, "inserting platform: %s", platform.Slug)
	}

	platform.ID = formatID(record.ID)
	return nil
}

// ReplacePlatform overwrites the stored platform that shares platform.ID.
func (r *Repository) ReplacePlatform(ctx context.Context, platform *domaincatalog.Platform) error {
	if platform == nil {
		return eris.New("platform is nil")
	}

	id, ok := parseID(platform.ID)
	if !ok {
		return eris.Wrapf(domaincatalog.ErrNotFound, "platform id %q", platform.ID)
	}

	result := r.db.WithContext(ctx).
		Model(&PlatformRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name": platform.Name,
			"slug": platform.Slug,
		})
	if result.Error != nil {
		r.traceError(logrus.Fields{"id": id}, result.Error, "replacing platform")
		return eris.Wrapf(result.Error, "replacing platform: %d", id)
	}
	if result.RowsAffected == 0 {
		return eris.Wrapf(domaincatalog.ErrNotFound, "platform id %d", id)
	}

	return nil
}

// DeletePlatform removes the platform with the given identifier.
func (r *Repository) DeletePlatform(ctx context.Context, id string) error {
	parsed, ok := parseID(id)
	if !ok {
		return eris.Wrapf(domaincatalog.ErrNotFound, "platform id %q", id)
	}

	result := r.db.WithContext(ctx).Delete(&PlatformRecord{}, parsed)
	if result.Error != nil {
		r.traceError(logrus.Fields{"id": parsed}, result.Error, "deleting platform")
		return eris.Wrapf(result.Error, "deleting platform: %d", parsed)
	}
	if result.RowsAffected == 0 {
		return eris.Wrapf(domaincatalog.ErrNotFound, "platform id %d", parsed)
	}

	return nil
}

// ListGames returns the games matching the filter in insertion order.
func (r *Repository) ListGames(ctx context.Context, filter domaincatalog.GameFilter) ([]domaincatalog.Game, error) {
	var records []GameRecord

	if err := r.gameQuery(ctx, filter).Order("id ASC").Find(&records).Error; err != nil {
		r.traceError(logrus.Fields{"platform_slug": filter.PlatformSlug}, err, "listing games")
		return nil, eris.Wrap(err, "listing games")
	}

	games := make([]domaincatalog.Game, 0, len(records))
	for i := range records {
		games = append(games, *toDomainGame(&records[i]))
	}

	return games, nil
}

// FindGame returns the first game matching the filter or nil when none does.
func (r *Repository) FindGame(ctx context.Context, filter domaincatalog.GameFilter) (*domaincatalog.Game, error) {
	var record GameRecord
	if err := r.gameQuery(ctx, filter).Order("id ASC").First(&record).Error; err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		fields := logrus.Fields{"name": filter.Name, "slug": filter.Slug, "platform_slug": filter.PlatformSlug}
		r.traceError(fields, err, "finding game")
		return nil, eris.Wrap(err, "finding game")
	}

	return toDomainGame(&record), nil
}

// InsertGame stores a new game and assigns its identifier.
func (r *Repository) InsertGame(ctx context.Context, game *domaincatalog.Game) error {
	if game == nil {
		return eris.New("game is nil")
	}

	record := &GameRecord{Name: game.Name, Slug: game.Slug, PlatformSlug: game.PlatformSlug}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		r.traceError(logrus.Fields{"slug": game.Slug}, err, "inserting game")
		return eris.Wrapf(err, "inserting game: %s", game.Slug)
	}

	game.ID = formatID(record.ID)
	return nil
}

// ReplaceGame overwrites the stored game that shares game.ID.
func (r *Repository) ReplaceGame(ctx context.Context, game *domaincatalog.Game) error {
	if game == nil {
		return eris.New("game is nil")
	}

	id, ok := parseID(game.ID)
	if !ok {
		return eris.Wrapf(domaincatalog.ErrNotFound, "game id %q", game.ID)
	}

	result := r.db.WithContext(ctx).
		Model(&GameRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":          game.Name,
			"slug":          game.Slug,
			"platform_slug": game.PlatformSlug,
		})
	if result.Error != nil {
		r.traceError(logrus.Fields{"id": id}, result.Error, "replacing game")
		return eris.Wrapf(result.Error, "replacing game: %d", id)
	}
	if result.RowsAffected == 0 {
		return eris.Wrapf(domaincatalog.ErrNotFound, "game id %d", id)
	}

	return nil
}

// DeleteGame removes the game with the given identifier.
func (r *Repository) DeleteGame(ctx context.Context, id string) error {
	parsed, ok := parseID(id)
	if !ok {
		return eris.Wrapf(domaincatalog.ErrNotFound, "game id %q", id)
	}

	result := r.db.WithContext(ctx).Delete(&GameRecord{}, parsed)
	if result.Error != nil {
		r.traceError(logrus.Fields{"id": parsed}, result.Error, "deleting game")
		return eris.Wrapf(result.Error, "deleting game: %d", parsed)
	}
	if result.RowsAffected == 0 {
		return eris.Wrapf(domaincatalog.ErrNotFound, "game id %d", parsed)
	}

	return nil
}

// Ping checks that the SQLite connection is usable.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := database.SQLDB(r.db)
	if err != nil {
		return err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return eris.Wrap(err, "pinging sqlite database")
	}

	return nil
}

func (r *Repository) gameQuery(ctx context.Context, filter domaincatalog.GameFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&GameRecord{})
	if filter.Name != "" {
		query = query.Where("name = ?", filter.Name)
	}
	if filter.Slug != "" {
		query = query.Where("slug = ?", filter.Slug)
	}
	if filter.PlatformSlug != "" {
		query = query.Where("platform_slug = ?", filter.PlatformSlug)
	}
	return query
}

// traceError records store failures at debug level; callers up the stack report them.
func (r *Repository) traceError(fields logrus.Fields, err error, message string) {
	if r.logger == nil || err == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Debug(message)
}
