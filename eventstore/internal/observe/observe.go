// Package observe holds the logging, metrics and tracing instrumentation shared by the event store engines.
package observe

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
)

const (
	MetricQueryDuration        = "eventstore_query_duration_seconds"
	MetricAppendDuration       = "eventstore_append_duration_seconds"
	MetricEventsQueried        = "eventstore_events_queried_total"
	MetricEventsAppended       = "eventstore_events_appended_total"
	MetricConcurrencyConflicts = "eventstore_concurrency_conflicts_total"
	MetricDatabaseErrors       = "eventstore_database_errors_total"

	SpanNameQuery  = "eventstore.query"
	SpanNameAppend = "eventstore.append"

	OperationQuery  = "query"
	OperationAppend = "append"

	StatusSuccess             = "success"
	StatusError               = "error"
	StatusConcurrencyConflict = "concurrency_conflict"

	LabelEngine    = "engine"
	LabelOperation = "operation"
	LabelStatus    = "status"
	LabelErrorType = "error_type"

	AttrEventCount       = "event_count"
	AttrMaxSequence      = "max_sequence"
	AttrExpectedSequence = "expected_sequence"
	AttrDurationMS       = "duration_ms"
	AttrQuery            = "query"
	AttrError            = "error"

	logMsgSQLExecuted         = "executed sql for: "
	logMsgOperation           = "eventstore operation: "
	logMsgQueryCompleted      = "query completed"
	logMsgEventsAppended      = "events appended"
	logMsgConcurrencyConflict = "concurrency conflict detected"
)

// Instruments bundles the optional observability collaborators of an engine. The zero value is a no-op.
// A ContextualLogger takes precedence over a Logger.
type Instruments struct {
	Engine           string
	Logger           eventstore.Logger
	ContextualLogger eventstore.ContextualLogger
	Metrics          eventstore.MetricsCollector
	Tracing          eventstore.TracingCollector
}

// Operation tracks one Query or Append from start to finish.
type Operation struct {
	in        Instruments
	ctx       context.Context
	name      string
	start     time.Time
	span      eventstore.SpanContext
	spanAttrs map[string]string
}

// StartQuery opens the span for a Query and returns the context to continue with.
func (in Instruments) StartQuery(ctx context.Context) (context.Context, *Operation) {
	return in.start(ctx, OperationQuery, SpanNameQuery, map[string]string{LabelOperation: OperationQuery})
}

// StartAppend opens the span for an Append and returns the context to continue with.
func (in Instruments) StartAppend(
	ctx context.Context,
	eventCount int,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (context.Context, *Operation) {

	return in.start(ctx, OperationAppend, SpanNameAppend, map[string]string{
		LabelOperation:       OperationAppend,
		AttrEventCount:       strconv.Itoa(eventCount),
		AttrExpectedSequence: strconv.FormatUint(uint64(expectedMaxSequenceNumber), 10),
	})
}

func (in Instruments) start(ctx context.Context, name, spanName string, attrs map[string]string) (context.Context, *Operation) {
	op := &Operation{in: in, ctx: ctx, name: name, start: time.Now(), spanAttrs: attrs}

	if in.Tracing != nil {
		attrs[LabelEngine] = in.Engine
		op.ctx, op.span = in.Tracing.StartSpan(ctx, spanName, attrs)
	}

	return op.ctx, op
}

// QueryCompleted records a successful Query.
func (op *Operation) QueryCompleted(eventCount int, maxSequenceNumber eventstore.MaxSequenceNumberUint) {
	duration := time.Since(op.start)

	op.recordDuration(MetricQueryDuration, duration, StatusSuccess)
	op.recordValue(MetricEventsQueried, float64(eventCount))
	op.finishSpan(StatusSuccess, map[string]string{
		AttrEventCount:  strconv.Itoa(eventCount),
		AttrMaxSequence: strconv.FormatUint(uint64(maxSequenceNumber), 10),
		AttrDurationMS:  strconv.FormatFloat(ToMilliseconds(duration), 'f', 3, 64),
	})
	op.in.logInfo(op.ctx, logMsgOperation+logMsgQueryCompleted,
		AttrEventCount, eventCount,
		AttrDurationMS, ToMilliseconds(duration))
}

// AppendCompleted records a successful Append.
func (op *Operation) AppendCompleted(eventCount int) {
	duration := time.Since(op.start)

	op.recordDuration(MetricAppendDuration, duration, StatusSuccess)
	op.recordValue(MetricEventsAppended, float64(eventCount))
	op.finishSpan(StatusSuccess, map[string]string{
		AttrEventCount: strconv.Itoa(eventCount),
		AttrDurationMS: strconv.FormatFloat(ToMilliseconds(duration), 'f', 3, 64),
	})
	op.in.logInfo(op.ctx, logMsgOperation+logMsgEventsAppended,
		AttrEventCount, eventCount,
		AttrDurationMS, ToMilliseconds(duration))
}

// Conflicted records an Append rejected with eventstore.ErrConcurrencyConflict.
func (op *Operation) Conflicted(expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint) {
	op.recordDuration(MetricAppendDuration, time.Since(op.start), StatusConcurrencyConflict)
	op.incrementCounter(MetricConcurrencyConflicts, map[string]string{
		LabelEngine:    op.in.Engine,
		LabelOperation: op.name,
	})
	op.finishSpan(StatusConcurrencyConflict, map[string]string{LabelErrorType: StatusConcurrencyConflict})
	op.in.logInfo(op.ctx, logMsgOperation+logMsgConcurrencyConflict, AttrExpectedSequence, expectedMaxSequenceNumber)
}

// Failed records any other failure and logs it at error level.
func (op *Operation) Failed(msg string, err error, args ...any) {
	errorType := ErrorType(err)
	duration := time.Since(op.start)

	metric := MetricQueryDuration
	if op.name == OperationAppend {
		metric = MetricAppendDuration
	}

	op.recordDuration(metric, duration, StatusError)
	op.incrementCounter(MetricDatabaseErrors, map[string]string{
		LabelEngine:    op.in.Engine,
		LabelOperation: op.name,
		LabelErrorType: errorType,
	})
	op.finishSpan(StatusError, map[string]string{LabelErrorType: errorType})
	op.in.logError(op.ctx, msg, append([]any{AttrError, err.Error()}, args...)...)
}

// LogSQL logs an executed statement at debug level.
func (in Instruments) LogSQL(ctx context.Context, action string, sqlQuery string, duration time.Duration) {
	if in.ContextualLogger != nil {
		in.ContextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, AttrDurationMS, ToMilliseconds(duration), AttrQuery, sqlQuery)
		return
	}

	if in.Logger != nil {
		in.Logger.Debug(logMsgSQLExecuted+action, AttrDurationMS, ToMilliseconds(duration), AttrQuery, sqlQuery)
	}
}

// Warn logs a non-critical issue, e.g. a failing rows.Close.
func (in Instruments) Warn(ctx context.Context, msg string, err error) {
	if in.ContextualLogger != nil {
		in.ContextualLogger.WarnContext(ctx, msg, AttrError, err.Error())
		return
	}

	if in.Logger != nil {
		in.Logger.Warn(msg, AttrError, err.Error())
	}
}

func (in Instruments) logInfo(ctx context.Context, msg string, args ...any) {
	if in.ContextualLogger != nil {
		in.ContextualLogger.InfoContext(ctx, msg, args...)
		return
	}

	if in.Logger != nil {
		in.Logger.Info(msg, args...)
	}
}

func (in Instruments) logError(ctx context.Context, msg string, args ...any) {
	if in.ContextualLogger != nil {
		in.ContextualLogger.ErrorContext(ctx, msg, args...)
		return
	}

	if in.Logger != nil {
		in.Logger.Error(msg, args...)
	}
}

func (op *Operation) recordDuration(metric string, duration time.Duration, status string) {
	if op.in.Metrics == nil {
		return
	}

	labels := map[string]string{LabelEngine: op.in.Engine, LabelOperation: op.name, LabelStatus: status}

	if contextual, ok := op.in.Metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(op.ctx, metric, duration, labels)
		return
	}

	op.in.Metrics.RecordDuration(metric, duration, labels)
}

func (op *Operation) recordValue(metric string, value float64) {
	if op.in.Metrics == nil {
		return
	}

	labels := map[string]string{LabelEngine: op.in.Engine, LabelOperation: op.name}

	if contextual, ok := op.in.Metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(op.ctx, metric, value, labels)
		return
	}

	op.in.Metrics.RecordValue(metric, value, labels)
}

func (op *Operation) incrementCounter(metric string, labels map[string]string) {
	if op.in.Metrics == nil {
		return
	}

	if contextual, ok := op.in.Metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(op.ctx, metric, labels)
		return
	}

	op.in.Metrics.IncrementCounter(metric, labels)
}

func (op *Operation) finishSpan(status string, attrs map[string]string) {
	if op.in.Tracing == nil || op.span == nil {
		return
	}

	op.in.Tracing.FinishSpan(op.span, status, attrs)
}

// ErrorType classifies an error for metric labels.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, eventstore.ErrConcurrencyConflict):
		return StatusConcurrencyConflict
	case errors.Is(err, context.Canceled):
		return "context_canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "context_deadline_exceeded"
	case errors.Is(err, eventstore.ErrBuildingQueryFailed):
		return "build_query"
	case errors.Is(err, eventstore.ErrScanningDBRowFailed):
		return "scan_row"
	default:
		return "database"
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func ToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
