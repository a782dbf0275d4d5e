package bootstrap

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	datacatalog "gamecatalog/app/internal/data/catalog"
	"gamecatalog/app/internal/data/database"
	"gamecatalog/app/internal/data/migrations"
	"gamecatalog/app/internal/data/mongodb"
	domaincatalog "gamecatalog/app/internal/domain/catalog"
	"gamecatalog/app/internal/platform/config"
	applog "gamecatalog/app/internal/platform/log"
	presentationhttp "gamecatalog/app/internal/presentation/http"
)

const storeCloseTimeout = 5 * time.Second

type Dependencies struct {
	Config    config.Config
	Logger    *logrus.Logger
	SentryHub *sentry.Hub
}

type Result struct {
	CatalogService domaincatalog.Service
	HTTPServer     *presentationhttp.Server
	Cleanup        func() error
}

// Build composes the catalog application layers on the configured store.
func Build(ctx context.Context, deps Dependencies) (Result, error) {
	store, closeStore, err := openStore(ctx, deps)
	if err != nil {
		return Result{}, err
	}

	closeOnError := func(wrapper error) (Result, error) {
		if closeErr := closeStore(); closeErr != nil && deps.Logger != nil {
			deps.Logger.WithError(closeErr).Error("closing store after bootstrap failure")
		}
		return Result{}, wrapper
	}

	catalogService, err := domaincatalog.NewService(store, deps.Logger)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating catalog service"))
	}

	httpServer, err := presentationhttp.NewServer(presentationhttp.Options{
		CatalogService: catalogService,
		Logger:         deps.Logger,
		SentryHub:      deps.SentryHub,
		PublicDir:      deps.Config.PublicDir,
		StoreName:      deps.Config.StoreDriver,
		RateLimiter: presentationhttp.RateLimiterSettings{
			Burst:             deps.Config.RateLimit.Burst,
			RequestsPerSecond: deps.Config.RateLimit.RequestsPerSecond,
			ClientTTL:         deps.Config.RateLimit.ClientTTL,
		},
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "initialising http server"))
	}

	cleanup := func() error {
		httpServer.Close()
		return closeStore()
	}

	return Result{
		CatalogService: catalogService,
		HTTPServer:     httpServer,
		Cleanup:        cleanup,
	}, nil
}

func openStore(ctx context.Context, deps Dependencies) (domaincatalog.Store, func() error, error) {
	switch deps.Config.StoreDriver {
	case config.DriverMongo:
		return openMongoStore(ctx, deps)
	case config.DriverSQLite, "":
		return openSQLiteStore(ctx, deps)
	default:
		return nil, nil, eris.Errorf("unsupported store driver: %s", deps.Config.StoreDriver)
	}
}

func openSQLiteStore(ctx context.Context, deps Dependencies) (domaincatalog.Store, func() error, error) {
	db, err := database.Open(database.Options{
		Path:   deps.Config.DBPath,
		Logger: database.NewGormLogger(applog.Component(deps.Logger, "gorm")),
	})
	if err != nil {
		return nil, nil, eris.Wrap(err, "opening database")
	}

	closeDB := func() error {
		return database.Close(db)
	}

	if err := migrations.MigrateCatalog(ctx, db, deps.Logger); err != nil {
		_ = closeDB()
		return nil, nil, eris.Wrap(err, "running catalog migrations")
	}

	repo, err := datacatalog.NewRepository(db, deps.Logger)
	if err != nil {
		_ = closeDB()
		return nil, nil, eris.Wrap(err, "creating catalog repository")
	}

	return repo, closeDB, nil
}

func openMongoStore(ctx context.Context, deps Dependencies) (domaincatalog.Store, func() error, error) {
	client, db, err := mongodb.Open(ctx, mongodb.Options{
		URI:      deps.Config.MongoURI,
		Database: deps.Config.MongoDatabase,
	})
	if err != nil {
		return nil, nil, eris.Wrap(err, "connecting to mongo")
	}

	closeClient := func() error {
		closeCtx, cancel := context.WithTimeout(context.Background(), storeCloseTimeout)
		defer cancel()
		return mongodb.Close(closeCtx, client)
	}

	repo, err := mongodb.NewRepository(db, deps.Logger)
	if err != nil {
		_ = closeClient()
		return nil, nil, eris.Wrap(err, "creating mongo catalog repository")
	}

	return repo, closeClient, nil
}
