package migrations

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	datacatalog "gamecatalog/app/internal/data/catalog"
	"gamecatalog/app/internal/data/database"
)

func TestMigrateCatalogRequiresDatabase(t *testing.T) {
	t.Parallel()

	if err := MigrateCatalog(context.Background(), nil, nil); err == nil {
		t.Fatalf("expected error when database is nil")
	}
}

func TestMigrateCatalogCreatesTables(t *testing.T) {
	t.Parallel()

	gormDB, err := database.Open(database.Options{Path: filepath.Join(t.TempDir(), "catalog.db")})
	if err != nil {
		t.Fatalf("database.Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := database.Close(gormDB); closeErr != nil {
			t.Errorf("closing database failed: %v", closeErr)
		}
	})

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	for i := 0; i < 2; i++ {
		if err := MigrateCatalog(context.Background(), gormDB, logger); err != nil {
			t.Fatalf("MigrateCatalog run %d returned error: %v", i+1, err)
		}
	}

	migrator := gormDB.Migrator()
	if !migrator.HasTable(&datacatalog.PlatformRecord{}) {
		t.Fatalf("expected platforms table")
	}
	if !migrator.HasTable(&datacatalog.GameRecord{}) {
		t.Fatalf("expected games table")
	}
	if !migrator.HasIndex(&datacatalog.GameRecord{}, "idx_games_name_platform") {
		t.Fatalf("expected composite name/platform index on games")
	}
}
