package sqliteengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	_ "modernc.org/sqlite" // database/sql driver "sqlite"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/eventstore/internal/observe"
)

const (
	engineName                     = "sqlite"
	driverName                     = "sqlite"
	dialectSQLite                  = "sqlite3"
	defaultEventTableName          = "events"
	busyTimeoutMillis              = 5000
	colEventType                   = "event_type"
	colOccurredAt                  = "occurred_at"
	colPayload                     = "payload"
	colMetadata                    = "metadata"
	colSequenceNumber              = "sequence_number"
	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgBeginTxFailed            = "failed to begin append transaction"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgCommitFailed             = "failed to commit append transaction"
	logMsgRollbackFailed           = "failed to roll back append transaction"
	logActionQuery                 = "query"
	logActionAppend                = "append"
	logActionMaxSequence           = "max sequence"
)

// EventStore is a SQLite backed event store.
type EventStore struct {
	db             *sql.DB
	ownsDB         bool
	eventTableName string
	instruments    observe.Instruments
}

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithTableName sets the table name for the EventStore.
func WithTableName(tableName string) Option {
	return func(es *EventStore) error {
		if tableName == "" {
			return eventstore.ErrEmptyEventsTableName
		}

		es.eventTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the EventStore.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.instruments.Logger = logger
		return nil
	}
}

// WithContextualLogger sets the context-aware logger for the EventStore.
func WithContextualLogger(logger eventstore.ContextualLogger) Option {
	return func(es *EventStore) error {
		es.instruments.ContextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the EventStore.
func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) error {
		es.instruments.Metrics = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the EventStore.
func WithTracing(collector eventstore.TracingCollector) Option {
	return func(es *EventStore) error {
		es.instruments.Tracing = collector
		return nil
	}
}

// DSN builds the modernc.org/sqlite data source name for a database file.
// Transactions are started with BEGIN IMMEDIATE so that the conditional append holds the write lock.
func DSN(path string) string {
	return fmt.Sprintf(
		"file:%s?_txlock=immediate&_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		path,
		busyTimeoutMillis,
	)
}

// Open opens (and creates if needed) the SQLite database file at path, creates the schema and returns the EventStore.
// The EventStore owns the connection; call Close when done.
func Open(ctx context.Context, path string, options ...Option) (*EventStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}

	db, err := sql.Open(driverName, DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// A single connection serializes writers inside the process; busy_timeout covers other processes.
	db.SetMaxOpenConns(1)

	es, err := NewEventStoreFromSQLDB(db, options...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	es.ownsDB = true

	if err := es.CreateSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return es, nil
}

// NewEventStoreFromSQLDB creates a new EventStore using a sql.DB opened with the "sqlite" driver.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	es := &EventStore{
		db:             db,
		eventTableName: defaultEventTableName,
		instruments:    observe.Instruments{Engine: engineName},
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// CreateSchema creates the events table and its indexes if they do not exist.
func (es *EventStore) CreateSchema(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
			%s INTEGER PRIMARY KEY AUTOINCREMENT,
			%s TEXT NOT NULL,
			%s INTEGER NOT NULL,
			%s TEXT NOT NULL,
			%s TEXT NOT NULL
		)`, es.eventTableName, colSequenceNumber, colEventType, colOccurredAt, colPayload, colMetadata),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %q ON %q (%s)`,
			"idx_"+es.eventTableName+"_event_type", es.eventTableName, colEventType),
	}

	for _, statement := range statements {
		if _, err := es.db.ExecContext(ctx, statement); err != nil {
			return errors.Join(eventstore.ErrCreatingSchemaFailed, err)
		}
	}

	return nil
}

// Close closes the database if the EventStore opened it.
func (es *EventStore) Close() error {
	if !es.ownsDB {
		return nil
	}

	return es.db.Close()
}

// Query retrieves the events matching the filter in sequence order
// and the MaxSequenceNumberUint of this "dynamic event stream".
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	ctx, op := es.instruments.StartQuery(ctx)

	sqlQuery, args, err := es.buildSelectQuery(filter)
	if err != nil {
		op.Failed(logMsgBuildSelectQueryFailed, err)
		return nil, 0, err
	}

	start := time.Now()
	rows, err := es.db.QueryContext(ctx, sqlQuery, args...)
	es.instruments.LogSQL(ctx, logActionQuery, sqlQuery, time.Since(start))

	if err != nil {
		op.Failed(logMsgDBQueryFailed, err, observe.AttrQuery, sqlQuery)
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, err)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			es.instruments.Warn(ctx, logMsgCloseRowsFailed, closeErr)
		}
	}()

	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for rows.Next() {
		var (
			eventType      string
			occurredAt     int64
			payload        []byte
			metadata       []byte
			sequenceNumber int64
		)

		if scanErr := rows.Scan(&eventType, &occurredAt, &payload, &metadata, &sequenceNumber); scanErr != nil {
			op.Failed(logMsgScanRowFailed, scanErr)
			return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, scanErr)
		}

		event, buildErr := eventstore.BuildStorableEvent(eventType, time.UnixMicro(occurredAt).UTC(), payload, metadata)
		if buildErr != nil {
			op.Failed(logMsgBuildStorableEventFailed, buildErr)
			return nil, 0, errors.Join(eventstore.ErrBuildingStorableEventFailed, buildErr)
		}

		eventStream = append(eventStream, event)
		maxSequenceNumber = eventstore.MaxSequenceNumberUint(sequenceNumber)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		op.Failed(logMsgScanRowFailed, rowsErr)
		return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, rowsErr)
	}

	op.QueryCompleted(len(eventStream), maxSequenceNumber)

	return eventStream, maxSequenceNumber, nil
}

// Append appends the events inside one transaction if the max sequence number of the events matching
// the filter still equals expectedMaxSequenceNumber, otherwise it fails with eventstore.ErrConcurrencyConflict.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	allEvents := append(eventstore.StorableEvents{event}, additionalEvents...)
	ctx, op := es.instruments.StartAppend(ctx, len(allEvents), expectedMaxSequenceNumber)

	maxSeqQuery, maxSeqArgs, err := es.buildMaxSequenceQuery(filter)
	if err != nil {
		op.Failed(logMsgBuildSelectQueryFailed, err)
		return err
	}

	insertQuery, insertArgs, err := es.buildInsertQuery(allEvents)
	if err != nil {
		op.Failed(logMsgBuildInsertQueryFailed, err)
		return err
	}

	tx, err := es.db.BeginTx(ctx, nil)
	if err != nil {
		op.Failed(logMsgBeginTxFailed, err)
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	rollback := func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			es.instruments.Warn(ctx, logMsgRollbackFailed, rollbackErr)
		}
	}

	start := time.Now()
	var currentMaxSequenceNumber int64
	err = tx.QueryRowContext(ctx, maxSeqQuery, maxSeqArgs...).Scan(&currentMaxSequenceNumber)
	es.instruments.LogSQL(ctx, logActionMaxSequence, maxSeqQuery, time.Since(start))

	if err != nil {
		rollback()
		op.Failed(logMsgDBQueryFailed, err, observe.AttrQuery, maxSeqQuery)
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	if eventstore.MaxSequenceNumberUint(currentMaxSequenceNumber) != expectedMaxSequenceNumber {
		rollback()
		op.Conflicted(expectedMaxSequenceNumber)
		return eventstore.ErrConcurrencyConflict
	}

	start = time.Now()
	_, err = tx.ExecContext(ctx, insertQuery, insertArgs...)
	es.instruments.LogSQL(ctx, logActionAppend, insertQuery, time.Since(start))

	if err != nil {
		rollback()
		op.Failed(logMsgDBExecFailed, err, observe.AttrQuery, insertQuery)
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	if err := tx.Commit(); err != nil {
		op.Failed(logMsgCommitFailed, err)
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	op.AppendCompleted(len(allEvents))

	return nil
}

func (es *EventStore) buildSelectQuery(filter eventstore.Filter) (string, []any, error) {
	selectStmt := goqu.Dialect(dialectSQLite).
		From(es.eventTableName).
		Prepared(true).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	sqlQuery, args, err := addWhereClause(filter, selectStmt).ToSQL()
	if err != nil {
		return "", nil, errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, args, nil
}

func (es *EventStore) buildMaxSequenceQuery(filter eventstore.Filter) (string, []any, error) {
	selectStmt := goqu.Dialect(dialectSQLite).
		From(es.eventTableName).
		Prepared(true).
		Select(goqu.COALESCE(goqu.MAX(colSequenceNumber), 0))

	sqlQuery, args, err := addWhereClause(filter, selectStmt).ToSQL()
	if err != nil {
		return "", nil, errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, args, nil
}

func (es *EventStore) buildInsertQuery(events eventstore.StorableEvents) (string, []any, error) {
	rows := make([]any, 0, len(events))
	for _, event := range events {
		rows = append(rows, goqu.Record{
			colEventType:  event.EventType,
			colOccurredAt: event.OccurredAt.UnixMicro(),
			colPayload:    string(event.PayloadJSON),
			colMetadata:   string(event.MetadataJSON),
		})
	}

	sqlQuery, args, err := goqu.Dialect(dialectSQLite).
		Insert(es.eventTableName).
		Prepared(true).
		Rows(rows...).
		ToSQL()
	if err != nil {
		return "", nil, errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, args, nil
}

func addWhereClause(filter eventstore.Filter, selectStmt *goqu.SelectDataset) *goqu.SelectDataset {
	if len(filter.Items()) == 0 {
		return selectStmt
	}

	itemExpressions := make([]exp.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		conditions := make([]exp.Expression, 0, 2)

		if len(item.EventTypes()) > 0 {
			conditions = append(conditions, goqu.C(colEventType).In(item.EventTypes()))
		}

		if len(item.Predicates()) > 0 {
			predicateExpressions := make([]exp.Expression, 0, len(item.Predicates()))
			for _, predicate := range item.Predicates() {
				predicateExpressions = append(
					predicateExpressions,
					goqu.L(fmt.Sprintf("json_extract(%s, ?) = ?", colPayload), fmt.Sprintf(`$."%s"`, predicate.Key()), predicate.Val()),
				)
			}

			if item.AllPredicatesMustMatch() {
				conditions = append(conditions, goqu.And(predicateExpressions...))
			} else {
				conditions = append(conditions, goqu.Or(predicateExpressions...))
			}
		}

		if len(conditions) == 0 {
			// an empty item matches every event
			return selectStmt
		}

		itemExpressions = append(itemExpressions, goqu.And(conditions...))
	}

	return selectStmt.Where(goqu.Or(itemExpressions...))
}
