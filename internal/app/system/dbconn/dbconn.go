// Package dbconn owns the process-wide MongoDB client.
//
// A Gateway is built once at startup and handed to every handler. It does
// not dial until the first caller asks for the client; concurrent first
// callers share a single in-flight connection attempt. A failed attempt is
// not cached, so the next caller tries again.
package dbconn

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrMissingURI is returned by New when no connection string is configured.
var ErrMissingURI = errors.New("mongo connection string is not set")

// Provider hands out the application database.
// Handlers depend on this rather than on *Gateway so tests can supply a
// database directly.
type Provider interface {
	Database(ctx context.Context) (*mongo.Database, error)
}

// Options tunes the driver client.
type Options struct {
	MaxPoolSize    uint64
	MinPoolSize    uint64
	ConnectTimeout time.Duration
}

// DialFunc opens a client. The default dials with the mongo driver and
// pings the primary.
type DialFunc func(ctx context.Context, uri string, opts Options) (*mongo.Client, error)

// Gateway lazily connects to MongoDB and caches the client.
type Gateway struct {
	uri    string
	dbName string
	opts   Options
	dial   DialFunc
	log    *zap.Logger

	group singleflight.Group

	mu     sync.RWMutex
	client *mongo.Client
}

// New builds a Gateway without connecting.
func New(uri, dbName string, opts Options, logger *zap.Logger) (*Gateway, error) {
	if uri == "" {
		return nil, ErrMissingURI
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10 * time.Second
	}
	return &Gateway{
		uri:    uri,
		dbName: dbName,
		opts:   opts,
		dial:   Dial,
		log:    logger,
	}, nil
}

// WithDialer replaces the dial function. Intended for tests.
func (g *Gateway) WithDialer(d DialFunc) *Gateway {
	g.dial = d
	return g
}

// DatabaseName returns the configured database name.
func (g *Gateway) DatabaseName() string {
	return g.dbName
}

// Connected reports whether a client has been established.
func (g *Gateway) Connected() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.client != nil
}

// Client returns the shared client, connecting on first use.
//
// The connection attempt is detached from ctx so that one caller giving up
// does not fail the attempt for everyone else waiting on it; the attempt is
// bounded by Options.ConnectTimeout instead. ctx still bounds how long this
// caller waits.
func (g *Gateway) Client(ctx context.Context) (*mongo.Client, error) {
	g.mu.RLock()
	c := g.client
	g.mu.RUnlock()
	if c != nil {
		return c, nil
	}

	ch := g.group.DoChan("connect", func() (any, error) {
		g.mu.RLock()
		existing := g.client
		g.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		dialCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.opts.ConnectTimeout)
		defer cancel()

		start := time.Now()
		client, err := g.dial(dialCtx, g.uri, g.opts)
		if err != nil {
			g.log.Error("mongo connect failed", zap.Error(err), zap.Duration("took", time.Since(start)))
			return nil, err
		}

		g.mu.Lock()
		g.client = client
		g.mu.Unlock()

		g.log.Info("mongo connected",
			zap.String("database", g.dbName),
			zap.Duration("took", time.Since(start)))
		return client, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*mongo.Client), nil
	}
}

// Database returns the application database, connecting on first use.
func (g *Gateway) Database(ctx context.Context) (*mongo.Database, error) {
	c, err := g.Client(ctx)
	if err != nil {
		return nil, err
	}
	return c.Database(g.dbName), nil
}

// Close disconnects the client if one was established.
func (g *Gateway) Close(ctx context.Context) error {
	g.mu.Lock()
	c := g.client
	g.client = nil
	g.mu.Unlock()
	if c == nil {
		return nil
	}
	return c.Disconnect(ctx)
}

// Dial connects with the mongo driver and verifies the primary is reachable.
func Dial(ctx context.Context, uri string, opts Options) (*mongo.Client, error) {
	co := options.Client().ApplyURI(uri)
	if opts.MaxPoolSize > 0 {
		co.SetMaxPoolSize(opts.MaxPoolSize)
	}
	if opts.MinPoolSize > 0 {
		co.SetMinPoolSize(opts.MinPoolSize)
	}
	if opts.ConnectTimeout > 0 {
		co.SetConnectTimeout(opts.ConnectTimeout)
		co.SetServerSelectionTimeout(opts.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, co)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// Static is a Provider over an already-open database.
type Static struct {
	DB *mongo.Database
}

// Database returns the wrapped database.
func (s Static) Database(context.Context) (*mongo.Database, error) {
	if s.DB == nil {
		return nil, errors.New("dbconn: no database configured")
	}
	return s.DB, nil
}
