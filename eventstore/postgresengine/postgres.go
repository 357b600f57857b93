package postgresengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/eventstore/internal/observe"
	"github.com/AntonStoeckl/lending-policy-engine/eventstore/postgresengine/internal/adapters"
)

const (
	engineName                     = "postgres"
	defaultEventTableName          = "events"
	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgRowsAffectedFailed       = "failed to get rows affected count"
	logActionQuery                 = "query"
	logActionAppend                = "append"
	colEventType                   = "event_type"
	colOccurredAt                  = "occurred_at"
	colPayload                     = "payload"
	colMetadata                    = "metadata"
	colSequenceNumber              = "sequence_number"
	cteContext                     = "context"
	cteVals                        = "vals"
	dialectPostgres                = "postgres"
	aliasMaxSeq                    = "max_seq"
	castText                       = "?::text"
	castTimestamp                  = "?::timestamp with time zone"
	castJsonb                      = "?::jsonb"
	payloadContains                = colPayload + " @> ?::jsonb"
	funcAdvisoryXactLock           = "pg_advisory_xact_lock"
	funcHashText                   = "hashtext"
)

// EventStore is a PostgreSQL backed event store working through one of the supported DB adapters.
type EventStore struct {
	db             adapters.DBAdapter
	eventTableName string
	instruments    observe.Instruments
}

// CreateSchema creates the events table and its indexes if they do not exist.
func (es *EventStore) CreateSchema(ctx context.Context) error {
	for _, statement := range schemaStatements(es.eventTableName) {
		if _, err := es.db.Exec(ctx, statement); err != nil {
			return errors.Join(eventstore.ErrCreatingSchemaFailed, err)
		}
	}

	return nil
}

// Query retrieves the events matching the filter in sequence order
// and the MaxSequenceNumberUint of this "dynamic event stream" at the time of the query.
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	ctx, op := es.instruments.StartQuery(ctx)

	sqlQuery, err := es.buildSelectQuery(filter)
	if err != nil {
		op.Failed(logMsgBuildSelectQueryFailed, err)
		return nil, 0, err
	}

	start := time.Now()
	rows, err := es.db.Query(ctx, sqlQuery)
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
			occurredAt     time.Time
			payload        []byte
			metadata       []byte
			sequenceNumber int64
		)

		if scanErr := rows.Scan(&eventType, &occurredAt, &payload, &metadata, &sequenceNumber); scanErr != nil {
			op.Failed(logMsgScanRowFailed, scanErr)
			return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, scanErr)
		}

		event, buildErr := eventstore.BuildStorableEvent(eventType, occurredAt.UTC(), payload, metadata)
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

// Append appends one or multiple events respecting concurrency constraints for this "dynamic event stream",
// given by the filter and the expected MaxSequenceNumberUint.
//
// The filter should be the same as the one used for the Query before making the business decisions.
// If the stream changed in the meantime no rows are inserted and eventstore.ErrConcurrencyConflict is returned.
//
// Appends to the same table are serialized with a transaction scoped advisory lock, so that the
// max sequence CTE of a waiting append sees the rows committed before it.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	allEvents := append(eventstore.StorableEvents{event}, additionalEvents...)
	ctx, op := es.instruments.StartAppend(ctx, len(allEvents), expectedMaxSequenceNumber)

	var (
		sqlQuery string
		err      error
	)

	switch len(allEvents) {
	case 1:
		sqlQuery, err = es.buildInsertQueryForSingleEvent(allEvents[0], filter, expectedMaxSequenceNumber)
	default:
		sqlQuery, err = es.buildInsertQueryForMultipleEvents(allEvents, filter, expectedMaxSequenceNumber)
	}

	if err != nil {
		op.Failed(logMsgBuildInsertQueryFailed, err, observe.AttrEventCount, len(allEvents))
		return err
	}

	start := time.Now()
	tag, err := es.db.ExecInTx(ctx, es.buildAppendLockQuery(), sqlQuery)
	es.instruments.LogSQL(ctx, logActionAppend, sqlQuery, time.Since(start))

	if err != nil {
		op.Failed(logMsgDBExecFailed, err, observe.AttrQuery, sqlQuery)
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	rowsAffected, err := tag.RowsAffected()
	if err != nil {
		op.Failed(logMsgRowsAffectedFailed, err)
		return errors.Join(eventstore.ErrGettingRowsAffectedFailed, err)
	}

	if rowsAffected < int64(len(allEvents)) {
		op.Conflicted(expectedMaxSequenceNumber)
		return eventstore.ErrConcurrencyConflict
	}

	op.AppendCompleted(len(allEvents))

	return nil
}

func (es *EventStore) buildSelectQuery(filter eventstore.Filter) (string, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	selectStmt, err := addWhereClause(filter, selectStmt)
	if err != nil {
		return "", err
	}

	sqlQuery, _, err := selectStmt.ToSQL()
	if err != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, nil
}

func (es *EventStore) buildAppendLockQuery() string {
	lockQuery, _, _ := goqu.Dialect(dialectPostgres).
		Select(goqu.Func(funcAdvisoryXactLock, goqu.Func(funcHashText, es.eventTableName))).
		ToSQL()

	return lockQuery
}

func (es *EventStore) buildMaxSequenceCTE(filter eventstore.Filter) (*goqu.SelectDataset, error) {
	cteStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	return addWhereClause(filter, cteStmt)
}

func (es *EventStore) buildInsertQueryForSingleEvent(
	event eventstore.StorableEvent,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (string, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, err := es.buildMaxSequenceCTE(filter)
	if err != nil {
		return "", err
	}

	selectStmt := builder.
		From(cteContext).
		Select(
			goqu.L(castText, event.EventType),
			goqu.L(castTimestamp, event.OccurredAt.UTC()),
			goqu.L(castJsonb, string(event.PayloadJSON)),
			goqu.L(castJsonb, string(event.MetadataJSON)),
		).
		Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber)))

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		FromQuery(selectStmt).
		With(cteContext, cteStmt)

	sqlQuery, _, err := insertStmt.ToSQL()
	if err != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, nil
}

func (es *EventStore) buildInsertQueryForMultipleEvents(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (string, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, err := es.buildMaxSequenceCTE(filter)
	if err != nil {
		return "", err
	}

	// UNION ALL keeps the order of the events, so the sequence numbers follow it
	var valuesStmt *goqu.SelectDataset
	for _, event := range events {
		eventStmt := builder.Select(
			goqu.L(castText, event.EventType).As(colEventType),
			goqu.L(castTimestamp, event.OccurredAt.UTC()).As(colOccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)).As(colPayload),
			goqu.L(castJsonb, string(event.MetadataJSON)).As(colMetadata),
		)

		if valuesStmt == nil {
			valuesStmt = eventStmt
			continue
		}

		valuesStmt = valuesStmt.UnionAll(eventStmt)
	}

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(
					goqu.I(cteVals+"."+colEventType),
					goqu.I(cteVals+"."+colOccurredAt),
					goqu.I(cteVals+"."+colPayload),
					goqu.I(cteVals+"."+colMetadata),
				).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber))),
		)

	sqlQuery, _, err := insertStmt.ToSQL()
	if err != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, nil
}

// addWhereClause ORs the filter items. Predicates use jsonb containment, the value is bound as a literal.
func addWhereClause(filter eventstore.Filter, selectStmt *goqu.SelectDataset) (*goqu.SelectDataset, error) {
	if len(filter.Items()) == 0 {
		return selectStmt, nil
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
				containment, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(
					map[string]string{predicate.Key(): predicate.Val()},
				)
				if err != nil {
					return nil, errors.Join(eventstore.ErrBuildingQueryFailed, fmt.Errorf("predicate %q: %w", predicate.Key(), err))
				}

				predicateExpressions = append(predicateExpressions, goqu.L(payloadContains, containment))
			}

			if item.AllPredicatesMustMatch() {
				conditions = append(conditions, goqu.And(predicateExpressions...))
			} else {
				conditions = append(conditions, goqu.Or(predicateExpressions...))
			}
		}

		if len(conditions) == 0 {
			// an empty item matches every event
			return selectStmt, nil
		}

		itemExpressions = append(itemExpressions, goqu.And(conditions...))
	}

	return selectStmt.Where(goqu.Or(itemExpressions...)), nil
}
