package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/eventstore/memengine"
	"github.com/AntonStoeckl/lending-policy-engine/eventstore/postgresengine"
	"github.com/AntonStoeckl/lending-policy-engine/eventstore/sqliteengine"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/shell"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"

	PostgresDriverPGX  = "pgx"
	PostgresDriverSQL  = "sql"
	PostgresDriverSQLX = "sqlx"
)

var (
	// ErrUnknownStore is returned for a store kind other than memory, sqlite or postgres.
	ErrUnknownStore = errors.New("unknown store")

	// ErrUnknownPostgresDriver is returned for a driver other than pgx, sql or sqlx.
	ErrUnknownPostgresDriver = errors.New("unknown postgres driver")

	// ErrMissingStoreLocation is returned when the sqlite path or the postgres dsn is empty.
	ErrMissingStoreLocation = errors.New("store location must not be empty")
)

// StoreConfig selects and locates the event store engine.
type StoreConfig struct {
	Kind           string
	SQLitePath     string
	PostgresDSN    string
	PostgresDriver string
	TableName      string // empty means the engine default
}

// Instruments are handed to the engine, all of them are optional.
type Instruments struct {
	Logger           eventstore.Logger
	ContextualLogger eventstore.ContextualLogger
	Metrics          eventstore.MetricsCollector
	Tracing          eventstore.TracingCollector
}

// OpenedStore is an event store together with its lifecycle operations.
type OpenedStore struct {
	shell.EventStore

	kind         string
	createSchema func(ctx context.Context) error
	close        func() error
}

// Kind returns the store kind the store was opened with.
func (s *OpenedStore) Kind() string {
	return s.kind
}

// CreateSchema creates the events table; a no-op for the memory store.
func (s *OpenedStore) CreateSchema(ctx context.Context) error {
	return s.createSchema(ctx)
}

// Close releases the connections of the store.
func (s *OpenedStore) Close() error {
	return s.close()
}

// OpenEventStore connects the engine selected by cfg.
func OpenEventStore(ctx context.Context, cfg StoreConfig, instruments Instruments) (*OpenedStore, error) {
	switch cfg.Kind {
	case StoreMemory, "":
		return openMemoryStore(instruments)
	case StoreSQLite:
		return openSQLiteStore(ctx, cfg, instruments)
	case StorePostgres:
		return openPostgresStore(ctx, cfg, instruments)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, cfg.Kind)
	}
}

func openMemoryStore(instruments Instruments) (*OpenedStore, error) {
	options := []memengine.Option{}
	if instruments.Logger != nil {
		options = append(options, memengine.WithLogger(instruments.Logger))
	}
	if instruments.ContextualLogger != nil {
		options = append(options, memengine.WithContextualLogger(instruments.ContextualLogger))
	}
	if instruments.Metrics != nil {
		options = append(options, memengine.WithMetrics(instruments.Metrics))
	}
	if instruments.Tracing != nil {
		options = append(options, memengine.WithTracing(instruments.Tracing))
	}

	es, err := memengine.NewEventStore(options...)
	if err != nil {
		return nil, err
	}

	return &OpenedStore{
		EventStore:   es,
		kind:         StoreMemory,
		createSchema: func(context.Context) error { return nil },
		close:        func() error { return nil },
	}, nil
}

func openSQLiteStore(ctx context.Context, cfg StoreConfig, instruments Instruments) (*OpenedStore, error) {
	if cfg.SQLitePath == "" {
		return nil, fmt.Errorf("%w: sqlite path", ErrMissingStoreLocation)
	}

	options := []sqliteengine.Option{}
	if cfg.TableName != "" {
		options = append(options, sqliteengine.WithTableName(cfg.TableName))
	}
	if instruments.Logger != nil {
		options = append(options, sqliteengine.WithLogger(instruments.Logger))
	}
	if instruments.ContextualLogger != nil {
		options = append(options, sqliteengine.WithContextualLogger(instruments.ContextualLogger))
	}
	if instruments.Metrics != nil {
		options = append(options, sqliteengine.WithMetrics(instruments.Metrics))
	}
	if instruments.Tracing != nil {
		options = append(options, sqliteengine.WithTracing(instruments.Tracing))
	}

	es, err := sqliteengine.Open(ctx, cfg.SQLitePath, options...)
	if err != nil {
		return nil, err
	}

	return &OpenedStore{
		EventStore:   es,
		kind:         StoreSQLite,
		createSchema: es.CreateSchema,
		close:        es.Close,
	}, nil
}

func openPostgresStore(ctx context.Context, cfg StoreConfig, instruments Instruments) (*OpenedStore, error) {
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("%w: postgres dsn", ErrMissingStoreLocation)
	}

	options := []postgresengine.Option{}
	if cfg.TableName != "" {
		options = append(options, postgresengine.WithTableName(cfg.TableName))
	}
	if instruments.Logger != nil {
		options = append(options, postgresengine.WithLogger(instruments.Logger))
	}
	if instruments.ContextualLogger != nil {
		options = append(options, postgresengine.WithContextualLogger(instruments.ContextualLogger))
	}
	if instruments.Metrics != nil {
		options = append(options, postgresengine.WithMetrics(instruments.Metrics))
	}
	if instruments.Tracing != nil {
		options = append(options, postgresengine.WithTracing(instruments.Tracing))
	}

	var (
		es      *postgresengine.EventStore
		closeDB func() error
		err     error
	)

	switch cfg.PostgresDriver {
	case PostgresDriverPGX, "":
		pool, poolErr := PostgresPGXPool(ctx, cfg.PostgresDSN)
		if poolErr != nil {
			return nil, poolErr
		}

		closeDB = func() error { pool.Close(); return nil }
		es, err = postgresengine.NewEventStoreFromPGXPool(pool, options...)

	case PostgresDriverSQL:
		db, dbErr := PostgresSQLDB(ctx, cfg.PostgresDSN)
		if dbErr != nil {
			return nil, dbErr
		}

		closeDB = db.Close
		es, err = postgresengine.NewEventStoreFromSQLDB(db, options...)

	case PostgresDriverSQLX:
		db, dbErr := PostgresSQLX(ctx, cfg.PostgresDSN)
		if dbErr != nil {
			return nil, dbErr
		}

		closeDB = db.Close
		es, err = postgresengine.NewEventStoreFromSQLX(db, options...)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPostgresDriver, cfg.PostgresDriver)
	}

	if err != nil {
		_ = closeDB()
		return nil, err
	}

	return &OpenedStore{
		EventStore:   es,
		kind:         StorePostgres,
		createSchema: es.CreateSchema,
		close:        closeDB,
	}, nil
}
