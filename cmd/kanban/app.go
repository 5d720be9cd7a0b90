package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kanbanly/kanban-web/internal/core/ports"
	"github.com/kanbanly/kanban-web/internal/core/service"
	"github.com/kanbanly/kanban-web/internal/infrastructure/apiclient"
	"github.com/kanbanly/kanban-web/internal/infrastructure/db/memory"
	mongodb "github.com/kanbanly/kanban-web/internal/infrastructure/db/mongo"
	redisdb "github.com/kanbanly/kanban-web/internal/infrastructure/db/redis"
	"github.com/kanbanly/kanban-web/internal/infrastructure/db/sqlite"
	"github.com/kanbanly/kanban-web/internal/pkg/config"
	"github.com/kanbanly/kanban-web/pkg/logger"
)

// app wires the session, its durable storage and the backend client.
type app struct {
	storage ports.SessionStorage
	session *service.SessionStore
	client  *apiclient.Client
	closers []func(context.Context) error
}

func buildApp(ctx context.Context, c *config.Config) (*app, error) {
	storage, closer, err := openStorage(ctx, c, logger.For("storage"))
	if err != nil {
		return nil, err
	}
	session := service.NewSessionStore(storage, logger.For("session"))
	client := apiclient.New(apiclient.Options{
		BaseURL: c.API.BaseURL,
		Prefix:  c.API.Prefix,
		Timeout: c.API.Timeout,
	}, session, logger.For("apiclient"))

	a := &app{storage: storage, session: session, client: client}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	return a, nil
}

// restore loads the persisted session. A storage failure leaves an empty
// session behind and is only logged.
func (a *app) restore(ctx context.Context) {
	if err := a.session.Init(ctx); err != nil {
		log := logger.For("session")
		log.Warn().Err(err).Msg("could not restore session")
	}
}

func (a *app) Close(ctx context.Context) error {
	var errs []error
	for _, fn := range a.closers {
		errs = append(errs, fn(ctx))
	}
	return errors.Join(errs...)
}

func openStorage(ctx context.Context, c *config.Config, log zerolog.Logger) (ports.SessionStorage, func(context.Context) error, error) {
	ns := c.Storage.Namespace
	switch c.Storage.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(c.Storage.SQLitePath, log)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite: %w", err)
		}
		log.Debug().Str("path", c.Storage.SQLitePath).Msg("using sqlite session storage")
		return sqlite.NewSessionStorage(db, ns), func(context.Context) error { return sqlDB.Close() }, nil

	case config.DriverRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: c.Redis.Addr, Password: c.Redis.Password, DB: c.Redis.DB})
		if err != nil {
			return nil, nil, err
		}
		log.Debug().Str("addr", c.Redis.Addr).Msg("using redis session storage")
		return redisdb.NewSessionStorage(client, ns), func(context.Context) error { return client.Close() }, nil

	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: c.Mongo.URI, Database: c.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		log.Debug().Str("database", c.Mongo.Database).Msg("using mongo session storage")
		return mongodb.NewSessionStorage(db, ns), client.Disconnect, nil

	case config.DriverMemory:
		log.Warn().Msg("memory session storage: the session will not survive a restart")
		return memory.New(), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
}
