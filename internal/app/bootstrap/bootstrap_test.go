package bootstrap

import (
	"context"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"gamecatalog/app/internal/platform/config"
)

func TestBuildWiresSQLiteStore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	result, err := Build(context.Background(), Dependencies{
		Config: testConfig(filepath.Join(dir, "nested", "catalog.db")),
		Logger: silentLogger(),
	})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := result.Cleanup(); err != nil {
			t.Fatalf("cleanup failed: %v", err)
		}
	})

	if _, err := os.Stat(filepath.Join(dir, "nested", "catalog.db")); err != nil {
		t.Fatalf("expected database file to be created: %v", err)
	}

	handler := result.HTTPServer.Handler()

	create := httptest.NewRequest("POST", "/platforms", strings.NewReader(`{"name":"Atari 2600"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, create)
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("expected status 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	platform, err := result.CatalogService.GetPlatform(context.Background(), "atari-2600")
	if err != nil {
		t.Fatalf("GetPlatform returned error: %v", err)
	}
	if platform.Name != "Atari 2600" {
		t.Fatalf("unexpected platform %#v", platform)
	}

	health := httptest.NewRecorder()
	handler.ServeHTTP(health, httptest.NewRequest("GET", "/healthz", nil))
	if health.Code != stdhttp.StatusOK {
		t.Fatalf("expected healthy store, got %d", health.Code)
	}
}

func TestBuildRejectsUnknownDriver(t *testing.T) {
	t.Parallel()

	cfg := testConfig(filepath.Join(t.TempDir(), "catalog.db"))
	cfg.StoreDriver = "postgres"

	if _, err := Build(context.Background(), Dependencies{Config: cfg, Logger: silentLogger()}); err == nil {
		t.Fatalf("expected error for unknown store driver")
	}
}

func TestBuildRejectsInvalidRateLimit(t *testing.T) {
	t.Parallel()

	cfg := testConfig(filepath.Join(t.TempDir(), "catalog.db"))
	cfg.RateLimit.Burst = 0

	if _, err := Build(context.Background(), Dependencies{Config: cfg, Logger: silentLogger()}); err == nil {
		t.Fatalf("expected error for zero burst")
	}
}

func testConfig(dbPath string) config.Config {
	return config.Config{
		StoreDriver: config.DriverSQLite,
		DBPath:      dbPath,
		RateLimit: config.RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             100,
			ClientTTL:         time.Minute,
		},
	}
}

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
