package mongodb

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultConnectTimeout = 10 * time.Second

// Options controls how the Mongo catalog store is reached.
type Options struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Open connects to MongoDB, verifies the primary is reachable and returns the catalog database.
func Open(ctx context.Context, opts Options) (*mongo.Client, *mongo.Database, error) {
	if opts.URI == "" {
		return nil, nil, eris.New("mongo URI is required")
	}
	if opts.Database == "" {
		return nil, nil, eris.New("mongo database name is required")
	}

	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, nil, eris.Wrap(err, "connecting to mongo")
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, eris.Wrap(err, "pinging mongo primary")
	}

	return client, client.Database(opts.Database), nil
}

// Close disconnects the client, waiting at most for the context deadline.
func Close(ctx context.Context, client *mongo.Client) error {
	if client == nil {
		return nil
	}

	if err := client.Disconnect(ctx); err != nil {
		return eris.Wrap(err, "disconnecting from mongo")
	}

	return nil
}
