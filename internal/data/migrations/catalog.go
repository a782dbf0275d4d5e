package migrations

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	datacatalog "gamecatalog/app/internal/data/catalog"
	applog "gamecatalog/app/internal/platform/log"
)

// MigrateCatalog creates or updates the platforms and games tables.
func MigrateCatalog(ctx context.Context, db *gorm.DB, logger *logrus.Logger) error {
	if db == nil {
		return eris.New("gorm DB is required")
	}

	entry := applog.Component(logger, "catalog.migrate")
	if entry != nil {
		entry.Info("applying catalog schema")
	}

	if err := db.WithContext(ctx).AutoMigrate(&datacatalog.PlatformRecord{}, &datacatalog.GameRecord{}); err != nil {
		if entry != nil {
			entry.WithField("error", err.Error()).Error("catalog schema migration failed")
		}
		return eris.Wrap(err, "auto migrating catalog schema")
	}

	if entry != nil {
		entry.Info("catalog schema migration complete")
	}

	return nil
}
